// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"fmt"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/capture"
	"github.com/ik5/audenhance/enhance"
	"github.com/ik5/audenhance/formats/wav"
)

var (
	// ErrBusy matches a TransitionError raised while a capture, processing
	// run or submission is in flight.
	ErrBusy = errors.New("another operation is in progress")

	// ErrReset is returned by an operation whose session was reset before
	// it finished. Its result has been dropped.
	ErrReset = errors.New("session was reset")

	ErrNoRecorder = errors.New("no recorder")
	ErrNoEnhancer = errors.New("no enhancer configured")
)

// TransitionError reports an operation that is not allowed in the current
// state. The state is left unchanged.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("session: cannot %s while %s", e.Op, e.From)
}

// Is reports ErrBusy when the rejection was caused by work in flight.
func (e *TransitionError) Is(target error) bool {
	return target == ErrBusy && e.From.busy()
}

// Error kinds reported by Kind.
const (
	KindCapture  = "capture"
	KindDecode   = "decode"
	KindResample = "resample"
	KindEncode   = "encode"
	KindServer   = "server"
	KindNetwork  = "network"
	KindUnknown  = "unknown"
)

// Kind classifies a pipeline error for logs and metrics.
func Kind(err error) string {
	var (
		ce *capture.Error
		de *audio.DecodeError
		re *audio.ResampleError
		se *enhance.ServerError
		ne *enhance.NetworkError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ce):
		return KindCapture
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &re):
		return KindResample
	case errors.Is(err, wav.ErrNotMono), errors.Is(err, wav.ErrInvalidFormat), errors.Is(err, audio.ErrInvalidSignal):
		return KindEncode
	case errors.As(err, &se):
		return KindServer
	case errors.As(err, &ne):
		return KindNetwork
	}
	return KindUnknown
}
