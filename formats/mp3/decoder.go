// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/utils"
)

// go-mp3 always produces interleaved stereo.
const outputChannels = 2

// ErrNotMP3 wraps the go-mp3 error for input without a valid frame.
var ErrNotMP3 = errors.New("not an MP3 stream")

// mp3Reader is the subset of gomp3.Decoder used by the source.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec mp3Reader
	buf []byte
	// odd holds a trailing byte split from its sample by the last Read.
	odd    byte
	hasOdd bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return outputChannels }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) Close() error {
	s.buf = nil
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	start := 0
	if s.hasOdd {
		s.buf[0] = s.odd
		s.hasOdd = false
		start = 1
	}

	n, err := s.dec.Read(s.buf[start:])
	n += start
	if n < 2 {
		if n == 1 && err == nil {
			s.odd, s.hasOdd = s.buf[0], true
		}
		return 0, err
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	if n%2 == 1 {
		s.odd, s.hasOdd = s.buf[n-1], true
	}

	return samples, err
}

// Decoder decodes MPEG-1/2 Layer III streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return &source{
		dec: dec,
		buf: make([]byte, 8192),
	}, nil
}
