// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format files with
// github.com/go-audio/aiff.
//
// Signed big-endian PCM at 8, 16, 24 or 32 bits is supported. Samples are
// normalized to float32 in [-1, 1]:
//
//	src, err := aiff.Decoder{}.Decode(f)
//
// Inputs that are not io.ReadSeeker are buffered in memory first.
package aiff
