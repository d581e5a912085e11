// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestDecodeError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("process: %w", &DecodeError{Format: "wav", Err: io.ErrUnexpectedEOF})

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatal("errors.As() failed for wrapped DecodeError")
	}
	if de.Format != "wav" {
		t.Errorf("Format = %q, want wav", de.Format)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is() should see the cause through DecodeError")
	}

	want := "decode wav audio: unexpected EOF"
	if de.Error() != want {
		t.Errorf("Error() = %q, want %q", de.Error(), want)
	}

	anon := &DecodeError{Err: ErrEmptyInput}
	if anon.Error() != "decode audio: empty audio input" {
		t.Errorf("Error() = %q", anon.Error())
	}
}

func TestResampleError(t *testing.T) {
	t.Parallel()

	err := &ResampleError{From: 44100, To: 0, Err: ErrInvalidRate}

	if !errors.Is(err, ErrInvalidRate) {
		t.Error("errors.Is() failed for ResampleError cause")
	}

	want := "resample 44100 Hz -> 0 Hz: sample rate must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
