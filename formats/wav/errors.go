// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input is not a RIFF/WAVE file.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedEncoding indicates a non-PCM WAV (float, ADPCM, ...).
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")

	// ErrUnsupportedBitDepth indicates a PCM bit depth other than 8/16/24/32.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	// ErrInvalidFormat indicates a fmt chunk with no channels or no rate.
	ErrInvalidFormat = errors.New("invalid WAV format chunk")

	// ErrNotMono is returned by EncodeCanonical for multi-channel input.
	ErrNotMono = errors.New("canonical WAV requires a mono signal")

	// ErrNotCanonical is returned by ParseCanonical.
	ErrNotCanonical = errors.New("not a canonical 16-bit mono PCM WAV")
)
