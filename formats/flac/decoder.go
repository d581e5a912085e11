// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/utils"
)

var (
	// ErrNotFLAC wraps stream-header errors from mewkiz/flac.
	ErrNotFLAC = errors.New("not a FLAC stream")

	// ErrChannelMismatch indicates a frame whose subframe count differs from
	// the STREAMINFO channel count.
	ErrChannelMismatch = errors.New("FLAC frame channel count mismatch")
)

// frameParser is the subset of flac.Stream used by the source.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int

	cur *frame.Frame
	pos int // next sample index within cur
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) frameLen() int {
	if s.cur == nil || len(s.cur.Subframes) == 0 {
		return 0
	}
	return len(s.cur.Subframes[0].Samples)
}

// ReadSamples interleaves subframe samples into dst, parsing frames as
// needed. Only whole frames are written.
func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written+s.channels <= len(dst) {
		if s.pos >= s.frameLen() {
			f, err := s.stream.ParseNext()
			if errors.Is(err, io.EOF) {
				return written, io.EOF
			}
			if err != nil {
				return written, fmt.Errorf("%w", err)
			}
			if len(f.Subframes) != s.channels {
				return written, fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, len(f.Subframes), s.channels)
			}
			s.cur, s.pos = f, 0
			continue
		}

		for c := range s.channels {
			dst[written+c] = utils.IntToFloat32(int(s.cur.Subframes[c].Samples[s.pos]), s.bitDepth)
		}
		written += s.channels
		s.pos++
	}

	return written, nil
}

// Decoder decodes native FLAC streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := goflac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFLAC, err)
	}

	info := stream.Info
	if info.SampleRate == 0 || info.NChannels == 0 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d channels @ %d Hz", ErrNotFLAC, info.NChannels, info.SampleRate)
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
