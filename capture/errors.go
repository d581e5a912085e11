// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecording is returned by Stop when Start was never called or
	// the recorder was already stopped.
	ErrNotRecording = errors.New("recorder is not running")

	// ErrAlreadyStarted is returned by Start on a recorder that already ran.
	ErrAlreadyStarted = errors.New("recorder already started")
)

// Kind classifies a capture failure.
type Kind int

const (
	// Device is a failure of an open input device.
	Device Kind = iota
	// NoDevice means no input device is available.
	NoDevice
	// PermissionDenied means the input could not be opened for reading.
	PermissionDenied
	// InvalidType means the input is not declared as audio.
	InvalidType
	// TooLarge means the input exceeds the size limit.
	TooLarge
	// Empty means the input holds no audio bytes.
	Empty
	// Unreadable means the input could not be found or read.
	Unreadable
)

func (k Kind) String() string {
	switch k {
	case Device:
		return "device error"
	case NoDevice:
		return "no input device"
	case PermissionDenied:
		return "permission denied"
	case InvalidType:
		return "invalid media type"
	case TooLarge:
		return "too large"
	case Empty:
		return "empty"
	case Unreadable:
		return "unreadable"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a capture failure. Err may be nil.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "capture: " + e.Kind.String()
	}
	return fmt.Sprintf("capture: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so
// errors.Is(err, &capture.Error{Kind: capture.TooLarge}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Message returns text suitable for an end user.
func (e *Error) Message() string {
	switch e.Kind {
	case NoDevice:
		return "No microphone found. Please connect a microphone and try again."
	case PermissionDenied:
		return "Microphone access denied. Please allow microphone access and try again."
	case InvalidType:
		return "Please select a valid audio file."
	case TooLarge:
		return fmt.Sprintf("File size must be less than %dMB.", MaxFileSize>>20)
	case Empty:
		return "No audio was captured."
	}
	return "Recording error: " + e.Error()
}

// IsKind reports whether err is a capture error of kind k.
func IsKind(err error, k Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == k
}
