// SPDX-License-Identifier: EPL-2.0

//go:build !portaudio

package capture

import (
	"context"
	"errors"
)

// MicAvailable reports whether this build can record from a microphone.
const MicAvailable = false

var errNoPortAudio = errors.New("microphone support not enabled (build with -tags portaudio)")

// MicRecorder is a placeholder when PortAudio is not compiled in.
type MicRecorder struct{}

// NewMicRecorder returns a recorder that always fails to start.
func NewMicRecorder(RecorderConfig) *MicRecorder {
	return &MicRecorder{}
}

// Start reports that no input device is available.
func (m *MicRecorder) Start(context.Context) error {
	return &Error{Kind: NoDevice, Err: errNoPortAudio}
}

// Stop always returns ErrNotRecording.
func (m *MicRecorder) Stop() (Buffer, error) {
	return Buffer{}, ErrNotRecording
}
