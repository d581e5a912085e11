// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func TestSignal_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sig     *Signal
		wantErr bool
	}{
		{name: "nil", sig: nil, wantErr: true},
		{name: "zero rate", sig: &Signal{SampleRate: 0, Channels: [][]float32{{0}}}, wantErr: true},
		{name: "no channels", sig: &Signal{SampleRate: 8000}, wantErr: true},
		{name: "ragged", sig: &Signal{SampleRate: 8000, Channels: [][]float32{{0, 1}, {0}}}, wantErr: true},
		{name: "empty mono is valid", sig: &Signal{SampleRate: 8000, Channels: [][]float32{{}}}},
		{name: "stereo", sig: NewSignal(44100, 2, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.sig.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSignal) {
				t.Errorf("Validate() error = %v, want ErrInvalidSignal", err)
			}
		})
	}
}

func TestSignal_LenAndDuration(t *testing.T) {
	t.Parallel()

	sig := NewSignal(16000, 2, 8000)

	if sig.Len() != 8000 {
		t.Errorf("Len() = %d, want 8000", sig.Len())
	}
	if sig.NumChannels() != 2 {
		t.Errorf("NumChannels() = %d, want 2", sig.NumChannels())
	}
	if sig.Duration() != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", sig.Duration())
	}
	if (&Signal{}).Len() != 0 {
		t.Error("Len() of empty signal should be 0")
	}
}

func TestSignal_CloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	sig := &Signal{SampleRate: 8000, Channels: [][]float32{{0.1, 0.2}, {0.3, 0.4}}}
	clone := sig.Clone()

	if !clone.Equal(sig) {
		t.Fatal("Clone() is not equal to the original")
	}

	clone.Channels[0][0] = 1
	if sig.Channels[0][0] != 0.1 {
		t.Error("modifying the clone changed the original")
	}
}

func TestSignal_Equal(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	stereo := &Signal{SampleRate: 8000, Channels: [][]float32{{0.1, 0.2}, {0.3, 0.4}}}

	tests := []struct {
		name string
		a, b *Signal
		want bool
	}{
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "nil receiver", a: nil, b: stereo, want: false},
		{name: "nil argument", a: stereo, b: nil, want: false},
		{name: "same pointer", a: stereo, b: stereo, want: true},
		{name: "clone", a: stereo, b: stereo.Clone(), want: true},
		{name: "rate differs", a: stereo, b: &Signal{SampleRate: 16000, Channels: stereo.Clone().Channels}, want: false},
		{name: "channel count differs", a: stereo, b: &Signal{SampleRate: 8000, Channels: [][]float32{{0.1, 0.2}}}, want: false},
		{name: "length differs", a: &Signal{SampleRate: 8000, Channels: [][]float32{{0.1}}}, b: &Signal{SampleRate: 8000, Channels: [][]float32{{0.1, 0}}}, want: false},
		{name: "sample differs", a: &Signal{SampleRate: 8000, Channels: [][]float32{{0.1}}}, b: &Signal{SampleRate: 8000, Channels: [][]float32{{0.2}}}, want: false},
		{name: "NaN matches NaN", a: &Signal{SampleRate: 8000, Channels: [][]float32{{nan}}}, b: &Signal{SampleRate: 8000, Channels: [][]float32{{nan}}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignal_SourceInterleaves(t *testing.T) {
	t.Parallel()

	sig := &Signal{SampleRate: 8000, Channels: [][]float32{{1, 2, 3}, {-1, -2, -3}}}
	src := sig.Source()

	if src.Channels() != 2 || src.SampleRate() != 8000 {
		t.Fatalf("Source() metadata = %d ch @ %d Hz", src.Channels(), src.SampleRate())
	}

	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}
	want := []float32{1, -1, 2, -2}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	n, err = src.ReadSamples(buf)
	if err != io.EOF || n != 2 {
		t.Fatalf("ReadSamples() = (%d, %v), want (2, io.EOF)", n, err)
	}
	if buf[0] != 3 || buf[1] != -3 {
		t.Errorf("last frame = %v, want [3 -3]", buf[:2])
	}
}

// chunkySource returns at most three samples per call regardless of
// channel count, splitting frames across reads.
type chunkySource struct {
	data []float32
	pos  int
}

func (s *chunkySource) SampleRate() int { return 8000 }
func (s *chunkySource) Channels() int   { return 2 }
func (s *chunkySource) BufSize() int    { return 64 }
func (s *chunkySource) Close() error    { return nil }

func (s *chunkySource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(dst[:min(3, len(dst))], s.data[s.pos:])
	s.pos += n
	return n, nil
}

func TestReadSignal_SplitFrames(t *testing.T) {
	t.Parallel()

	src := &chunkySource{data: []float32{1, -1, 2, -2, 3, -3, 4, -4, 5}}

	sig, err := ReadSignal(src)
	if err != nil {
		t.Fatalf("ReadSignal() error = %v", err)
	}

	// The dangling ninth sample is not a whole frame.
	if sig.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", sig.Len())
	}
	for i := range 4 {
		if sig.Channels[0][i] != float32(i+1) || sig.Channels[1][i] != -float32(i+1) {
			t.Errorf("frame %d = (%v, %v)", i, sig.Channels[0][i], sig.Channels[1][i])
		}
	}
}

type stuckSource struct{ chunkySource }

func (s *stuckSource) ReadSamples([]float32) (int, error) { return 0, nil }

func TestReadSignal_NoProgress(t *testing.T) {
	t.Parallel()

	if _, err := ReadSignal(&stuckSource{}); !errors.Is(err, io.ErrNoProgress) {
		t.Errorf("ReadSignal() error = %v, want io.ErrNoProgress", err)
	}
}
