// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// ExpectedFrames is the frame count of a signal of the given length once
// converted from one rate to another: round(frames * to / from).
func ExpectedFrames(frames, from, to int) int {
	if from <= 0 || to <= 0 {
		return 0
	}
	return int(math.Round(float64(frames) * float64(to) / float64(from)))
}

// Resample converts sig to the target rate, keeping its channel count and
// duration. The result has exactly ExpectedFrames frames per channel.
// Resampling to the current rate returns an unmodified copy.
func Resample(sig *Signal, target int) (*Signal, error) {
	if err := sig.Validate(); err != nil {
		from := 0
		if sig != nil {
			from = sig.SampleRate
		}
		return nil, &ResampleError{From: from, To: target, Err: err}
	}
	if target <= 0 {
		return nil, &ResampleError{From: sig.SampleRate, To: target, Err: ErrInvalidRate}
	}

	if sig.SampleRate == target {
		return sig.Clone(), nil
	}

	out, err := ReadSignal(NewResampler(sig.Source(), target))
	if err != nil {
		return nil, &ResampleError{From: sig.SampleRate, To: target, Err: err}
	}

	fitLength(out, ExpectedFrames(sig.Len(), sig.SampleRate, target))
	return out, nil
}

// fitLength trims or edge-extends every channel to n samples.
func fitLength(sig *Signal, n int) {
	for c, ch := range sig.Channels {
		switch {
		case len(ch) > n:
			sig.Channels[c] = ch[:n:n]
		case len(ch) < n:
			var last float32
			if len(ch) > 0 {
				last = ch[len(ch)-1]
			}
			for len(ch) < n {
				ch = append(ch, last)
			}
			sig.Channels[c] = ch
		}
	}
}

// MixToMono averages all channels of sig into one. A mono signal is
// returned as an unmodified copy.
func MixToMono(sig *Signal) (*Signal, error) {
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("mix to mono: %w", err)
	}

	if sig.NumChannels() == 1 {
		return sig.Clone(), nil
	}

	out, err := ReadSignal(NewMonoMixer(sig.Source()))
	if err != nil {
		return nil, fmt.Errorf("mix to mono: %w", err)
	}
	if out.Len() != sig.Len() {
		return nil, fmt.Errorf("mix to mono: %w: got %d frames, want %d", ErrInvalidSignal, out.Len(), sig.Len())
	}

	return out, nil
}
