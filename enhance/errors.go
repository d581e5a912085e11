// SPDX-License-Identifier: EPL-2.0

package enhance

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrEmptyAudio is returned when Enhance is called without audio.
var ErrEmptyAudio = errors.New("no audio to enhance")

// User-facing messages for the two remote failure kinds.
const (
	NetworkMessage = "Network error - please check your internet connection and try again."
	ServerMessage  = "Server error - the processing service may be temporarily unavailable. Please try again later."
)

// maxErrorBody bounds how much of a failed response appears in Error().
const maxErrorBody = 200

// ServerError reports a response with a non-2xx status.
type ServerError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("enhancement server returned %s", e.Status)
	body := e.BodyText()
	if body == "" {
		return msg
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Sprintf("%s: %s", msg, body)
}

// BodyText is the response body as text, without surrounding whitespace.
func (e *ServerError) BodyText() string {
	return strings.TrimSpace(string(e.Body))
}

// NetworkError reports a request that produced no usable response.
type NetworkError struct {
	Op  string // "post" or "read"
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("enhancement %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// UserMessage returns the text to show an end user for err.
func UserMessage(err error) string {
	var se *ServerError
	var ne *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return ServerMessage
	case errors.As(err, &ne):
		return NetworkMessage
	default:
		return err.Error()
	}
}
