// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
)

// DecodeSignal decodes r with dec and drains it into a Signal. The decoding
// context is closed on every path. All failures are *DecodeError.
func DecodeSignal(dec Decoder, format string, r io.Reader) (sig *Signal, err error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			sig, err = nil, &DecodeError{Format: format, Err: cerr}
		}
	}()

	sig, err = ReadSignal(src)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	if sig.Len() == 0 {
		return nil, &DecodeError{Format: format, Err: ErrNoFrames}
	}

	return sig, nil
}

// Decode resolves a decoder for data (see Resolve) and decodes it. The
// returned string is the format key that was used.
func (r *Registry) Decode(data []byte, mediaType string) (*Signal, string, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Err: ErrEmptyInput}
	}

	dec, format, err := r.Resolve(mediaType, data[:min(len(data), SniffLen)])
	if err != nil {
		return nil, "", &DecodeError{Format: mediaType, Err: err}
	}

	sig, err := DecodeSignal(dec, format, bytes.NewReader(data))
	if err != nil {
		return nil, format, err
	}
	return sig, format, nil
}
