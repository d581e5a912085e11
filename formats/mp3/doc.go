// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio layer III with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always yields interleaved stereo 16-bit PCM, so the Source reports
// two channels even for mono files. Use audio.MixToMono or audio.MonoMixer
// to fold it back:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(src)
package mp3
