// SPDX-License-Identifier: EPL-2.0

// Package audenhance prepares audio for a remote speech-enhancement service.
//
// Any supported input (WAV, MP3, Ogg Vorbis, AIFF, FLAC) is decoded,
// resampled to 16 kHz, mixed to mono and encoded as a 44-byte-header 16-bit
// PCM WAV:
//
//	data, err := os.ReadFile("speech.mp3")
//	canonical, err := audenhance.Canonicalize(data, "audio/mpeg")
//
// The format is sniffed from the payload; the media type is only a fallback.
// A Converter exposes the individual stages and reports timings to a
// StageObserver:
//
//	conv := audenhance.NewConverter()
//	conv.Observer = metrics
//	canonical, report, err := conv.Convert(data, "")
//
// Subpackages:
//   - audio: Signal, Source, Registry, Resample, MixToMono
//   - formats/*: per-format decoders and the canonical WAV encoder
//   - capture: file and microphone capture
//   - enhance: HTTP client for the enhancement endpoint
//   - session: the capture, process, submit state machine
package audenhance
