// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/formats/internal/intpcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE

	// WAVE_FORMAT_EXTENSIBLE fmt chunk: 16 base bytes, cbSize, valid bits,
	// channel mask, then the sub-format GUID whose first two bytes are the
	// format code.
	extensibleFmtSize   = 40
	subFormatCodeOffset = 24
)

// Decoder reads integer PCM WAV of any common bit depth. Extra chunks such as
// LIST or fact before "data" are skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	switch dec.WavAudioFormat {
	case formatPCM:
	case formatExtensible:
		code, err := subFormatCode(rs)
		if err != nil {
			return nil, err
		}
		if code != formatPCM {
			return nil, fmt.Errorf("%w: extensible sub-format %#x", ErrUnsupportedEncoding, code)
		}
		// subFormatCode consumed the stream; start over.
		dec = gowav.NewDecoder(rs)
		dec.ReadInfo()
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrInvalidFormat
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}

	return intpcm.NewSource(dec, format, int(dec.BitDepth), dec.BitDepth == 8), nil
}

// subFormatCode reads the format code of an extensible fmt chunk. go-audio/wav
// skips the extension, so the chunk is walked again from the start. rs is
// left rewound.
func subFormatCode(rs io.ReadSeeker) (uint16, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	defer rs.Seek(0, io.SeekStart)

	parser := riff.New(rs)
	if err := parser.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk: %w", ErrInvalidFormat, err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		if chunk.Size < extensibleFmtSize {
			return 0, fmt.Errorf("%w: extensible fmt chunk is %d bytes", ErrInvalidFormat, chunk.Size)
		}
		ext := make([]byte, chunk.Size)
		if _, err := io.ReadFull(chunk, ext); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return binary.LittleEndian.Uint16(ext[subFormatCodeOffset:]), nil
	}
}
