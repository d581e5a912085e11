// SPDX-License-Identifier: EPL-2.0

// Package capture turns user supplied files and live recordings into
// encoded audio buffers ready for decoding.
//
// Files are checked before they are read: the media type must start with
// "audio/" and the size must not exceed MaxFileSize (50 MiB):
//
//	buf, err := capture.FromFile("speech.mp3", capture.MaxFileSize)
//	if capture.IsKind(err, capture.TooLarge) {
//	    // reject
//	}
//
// Recorders implement Start and Stop. Stop returns the audio recorded so
// far as a PCM16 WAV buffer. ReaderRecorder reads raw PCM from any
// io.Reader; MicRecorder uses PortAudio and is only functional when built
// with -tags portaudio.
//
// Every failure is a *Error carrying a Kind.
package capture
