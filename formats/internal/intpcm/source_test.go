// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type fakeReader struct {
	format  *goaudio.Format
	samples []int
	offset  int
	err     error
}

func (f *fakeReader) Format() *goaudio.Format { return f.format }

func (f *fakeReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.samples[f.offset:])
	f.offset += n
	return n, nil
}

func newFake(channels, rate int, samples ...int) *fakeReader {
	return &fakeReader{
		format:  &goaudio.Format{NumChannels: channels, SampleRate: rate},
		samples: samples,
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	dec := newFake(2, 22050)
	src := NewSource(dec, dec.Format(), 16, false)

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Errorf("metadata = %d ch @ %d Hz", src.Channels(), src.SampleRate())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", src.BufSize())
	}
}

func TestSource_Normalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		unsigned bool
		raw      []int
		want     []float32
	}{
		{name: "16-bit", bitDepth: 16, raw: []int{0, 32767, -32768}, want: []float32{0, 1, -1}},
		{name: "24-bit", bitDepth: 24, raw: []int{8388607, -8388608}, want: []float32{1, -1}},
		{name: "8-bit unsigned", bitDepth: 8, unsigned: true, raw: []int{128, 255, 0}, want: []float32{0, 1, -1}},
		{name: "8-bit signed", bitDepth: 8, raw: []int{0, 127, -128}, want: []float32{0, 1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := newFake(1, 8000, tt.raw...)
			src := NewSource(dec, dec.Format(), tt.bitDepth, tt.unsigned)

			dst := make([]float32, 8)
			n, err := src.ReadSamples(dst)
			if err != io.EOF {
				t.Fatalf("ReadSamples() error = %v, want io.EOF on short read", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.want))
			}
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

func TestSource_ReadSequence(t *testing.T) {
	t.Parallel()

	dec := newFake(1, 8000, 1, 2, 3, 4, 5, 6)
	src := NewSource(dec, dec.Format(), 16, false)
	dst := make([]float32, 4)

	n, err := src.ReadSamples(dst)
	if n != 4 || err != nil {
		t.Fatalf("first read = (%d, %v), want (4, nil)", n, err)
	}
	n, err = src.ReadSamples(dst)
	if n != 2 || err != io.EOF {
		t.Fatalf("second read = (%d, %v), want (2, io.EOF)", n, err)
	}
	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Fatalf("third read = (%d, %v), want (0, io.EOF)", n, err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("empty read = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	dec := newFake(1, 8000)
	dec.err = io.ErrUnexpectedEOF
	src := NewSource(dec, dec.Format(), 16, false)

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want io.ErrUnexpectedEOF", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
