// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/audenhance/formats/wav"
)

// Recorder captures live audio. Stop ends the capture and returns whatever
// was recorded so far.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (Buffer, error)
}

// RecorderConfig describes the requested input stream. Devices may ignore
// the rate, which is why every capture goes through the resampler.
type RecorderConfig struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	MaxDuration     time.Duration

	// Processing hints. PortAudio has no such controls and ignores them.
	EchoCancellation bool
	NoiseSuppression bool
}

// DefaultRecorderConfig requests 16 kHz mono with both hints on.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SampleRate:       16000,
		Channels:         1,
		FramesPerBuffer:  1024,
		MaxDuration:      60 * time.Second,
		EchoCancellation: true,
		NoiseSuppression: true,
	}
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	def := DefaultRecorderConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Channels <= 0 {
		c.Channels = def.Channels
	}
	if c.FramesPerBuffer <= 0 {
		c.FramesPerBuffer = def.FramesPerBuffer
	}
	return c
}

// RecordingMediaTypes is the order in which recording containers are tried.
var RecordingMediaTypes = []string{"audio/webm", "audio/mp4", "audio/wav"}

// ChooseMediaType returns the first entry of RecordingMediaTypes accepted by
// supported, or "" to let the recorder pick its default.
func ChooseMediaType(supported func(string) bool) string {
	for _, mt := range RecordingMediaTypes {
		if supported(mt) {
			return mt
		}
	}
	return ""
}

type recordingEncoder func(w io.Writer, rate, channels int, samples []int16) error

// recordingEncoders are the containers the bundled recorders can write.
var recordingEncoders = map[string]recordingEncoder{
	"audio/wav": wav.WritePCM16,
}

// chooseEncoder picks the first entry of RecordingMediaTypes that has an
// encoder in encoders.
func chooseEncoder(encoders map[string]recordingEncoder) (string, recordingEncoder, error) {
	mt := ChooseMediaType(func(mt string) bool {
		_, ok := encoders[mt]
		return ok
	})
	if mt == "" {
		return "", nil, fmt.Errorf("no encoder for any of %v", RecordingMediaTypes)
	}
	return mt, encoders[mt], nil
}

// recording accumulates interleaved int16 samples up to an optional limit.
type recording struct {
	mu       sync.Mutex
	rate     int
	channels int
	limit    int // samples, 0 is unlimited
	samples  []int16
}

func newRecording(cfg RecorderConfig) *recording {
	r := &recording{rate: cfg.SampleRate, channels: cfg.Channels}
	if cfg.MaxDuration > 0 {
		r.limit = int(cfg.MaxDuration.Seconds()*float64(cfg.SampleRate)) * cfg.Channels
	}
	return r
}

// append stores s and reports whether the limit was reached.
func (r *recording) append(s []int16) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 {
		room := r.limit - len(r.samples)
		if room <= 0 {
			return true
		}
		if len(s) > room {
			s = s[:room]
		}
	}
	r.samples = append(r.samples, s...)

	return r.limit > 0 && len(r.samples) >= r.limit
}

func (r *recording) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// buffer encodes the whole frames recorded so far as PCM16 WAV.
func (r *recording) buffer(name string) (Buffer, error) {
	r.mu.Lock()
	samples := r.samples[:len(r.samples)-len(r.samples)%r.channels]
	r.mu.Unlock()

	if len(samples) == 0 {
		return Buffer{}, &Error{Kind: Empty}
	}

	mediaType, encode, err := chooseEncoder(recordingEncoders)
	if err != nil {
		return Buffer{}, &Error{Kind: Device, Err: err}
	}

	var out bytes.Buffer
	out.Grow(wav.HeaderSize + len(samples)*2)
	if err := encode(&out, r.rate, r.channels, samples); err != nil {
		return Buffer{}, &Error{Kind: Device, Err: err}
	}

	return Buffer{Data: out.Bytes(), MediaType: mediaType, Name: name}, nil
}
