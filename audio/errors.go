// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrEmptyInput     = errors.New("empty audio input")
	ErrNoFrames       = errors.New("decoded stream has no frames")
	ErrUnknownFormat  = errors.New("unrecognized audio format")
	ErrInvalidSignal  = errors.New("invalid signal")
	ErrInvalidRate    = errors.New("sample rate must be positive")
)

// DecodeError reports encoded audio that could not be turned into a Signal.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode audio: %v", e.Err)
	}
	return fmt.Sprintf("decode %s audio: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ResampleError reports a failed sample rate conversion.
type ResampleError struct {
	From int
	To   int
	Err  error
}

func (e *ResampleError) Error() string {
	return fmt.Sprintf("resample %d Hz -> %d Hz: %v", e.From, e.To, e.Err)
}

func (e *ResampleError) Unwrap() error { return e.Err }
