// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Signal is a fully decoded, planar PCM signal. Channels[c][i] is sample i of
// channel c; every channel has the same length.
type Signal struct {
	SampleRate int
	Channels   [][]float32
}

// NewSignal allocates a silent signal.
func NewSignal(sampleRate, channels, frames int) *Signal {
	s := &Signal{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for c := range s.Channels {
		s.Channels[c] = make([]float32, frames)
	}
	return s
}

func (s *Signal) NumChannels() int { return len(s.Channels) }

// Len returns the number of frames (samples per channel).
func (s *Signal) Len() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

func (s *Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Len()) / float64(s.SampleRate) * float64(time.Second))
}

// Validate checks the rate, the channel count and that no channel is ragged.
func (s *Signal) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrInvalidSignal)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, s.SampleRate)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidSignal)
	}
	n := len(s.Channels[0])
	for c, ch := range s.Channels {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidSignal, c, len(ch), n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Signal) Clone() *Signal {
	out := &Signal{
		SampleRate: s.SampleRate,
		Channels:   make([][]float32, len(s.Channels)),
	}
	for c, ch := range s.Channels {
		out.Channels[c] = append([]float32(nil), ch...)
	}
	return out
}

// Equal reports whether both signals have the same rate, shape and samples.
// A nil signal only equals another nil signal.
func (s *Signal) Equal(o *Signal) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.SampleRate != o.SampleRate || len(s.Channels) != len(o.Channels) {
		return false
	}
	for c := range s.Channels {
		a, b := s.Channels[c], o.Channels[c]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] && !(math.IsNaN(float64(a[i])) && math.IsNaN(float64(b[i]))) {
				return false
			}
		}
	}
	return true
}

// Source streams the signal as interleaved samples. The signal must not be
// modified while the source is in use.
func (s *Signal) Source() Source {
	return &signalSource{sig: s}
}

type signalSource struct {
	sig *Signal
	pos int
}

func (s *signalSource) SampleRate() int { return s.sig.SampleRate }
func (s *signalSource) Channels() int   { return len(s.sig.Channels) }
func (s *signalSource) BufSize() int    { return 4096 }
func (s *signalSource) Close() error    { return nil }

func (s *signalSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.sig.Channels)
	if channels == 0 {
		return 0, io.EOF
	}
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := min(len(dst)/channels, s.sig.Len()-s.pos)
	for f := range frames {
		for c, ch := range s.sig.Channels {
			dst[f*channels+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.sig.Len() {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}

// maxIdleReads bounds consecutive (0, nil) reads from a misbehaving source.
const maxIdleReads = 100

// ReadSignal drains src into a Signal. It does not close src.
func ReadSignal(src Source) (*Signal, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidSignal, channels)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, src.SampleRate())
	}

	bufSize := src.BufSize()
	if bufSize < channels {
		bufSize = 4096
	}
	bufSize -= bufSize % channels
	buf := make([]float32, bufSize)

	sig := &Signal{
		SampleRate: src.SampleRate(),
		Channels:   make([][]float32, channels),
	}

	// Decoders may hand back partial frames between calls.
	var pending []float32
	idle := 0
	for {
		n, err := src.ReadSamples(buf)
		if n == 0 && err == nil {
			idle++
			if idle > maxIdleReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		idle = 0

		if n > 0 {
			data := buf[:n]
			if len(pending) > 0 {
				pending = append(pending, data...)
				data = pending
			}
			whole := len(data) - len(data)%channels
			for i := 0; i < whole; i += channels {
				for c := range channels {
					sig.Channels[c] = append(sig.Channels[c], data[i+c])
				}
			}
			pending = append(pending[:0], data[whole:]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	return sig, nil
}
