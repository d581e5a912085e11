// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// The decoder already yields interleaved float32 in [-1, 1], so samples are
// decoded directly into the caller's buffer:
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	n, err := src.ReadSamples(buf)
package vorbis
