// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE audio and writes the canonical 16-bit PCM
// layout sent to the enhancement service.
//
// # Decoding
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits with any number of
// channels, including files with LIST, fact or other chunks between "fmt "
// and "data". Parsing is done by github.com/go-audio/wav:
//
//	source, err := wav.Decoder{}.Decode(file)
//
// Float and compressed WAV files are rejected with ErrUnsupportedEncoding.
//
// # Canonical Output
//
// EncodeCanonical turns a mono audio.Signal into a byte slice with a fixed
// 44-byte header (PCM tag 1, one channel, 16 bits, little endian) followed by
// the samples:
//
//	data, err := wav.EncodeCanonical(mono16k)
//	// len(data) == wav.HeaderSize + 2*mono16k.Len()
//
// Samples are clamped to [-1, 1]. Negative values scale by 32768 and positive
// values by 32767, so -1 maps to -32768 and 1 maps to 32767. ParseCanonical
// validates such a buffer.
//
// WriteWAV16 and WritePCM16 stream already-quantized samples with the same
// header layout.
package wav
