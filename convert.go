// SPDX-License-Identifier: EPL-2.0

package audenhance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/formats/aiff"
	"github.com/ik5/audenhance/formats/flac"
	"github.com/ik5/audenhance/formats/mp3"
	"github.com/ik5/audenhance/formats/vorbis"
	"github.com/ik5/audenhance/formats/wav"
	"github.com/ik5/audenhance/internal/logging"
)

// TargetRate is the sample rate of canonical output.
const TargetRate = 16000

// Pipeline stage names passed to StageObserver.
const (
	StageDecode   = "decode"
	StageResample = "resample"
	StageMix      = "mix"
	StageEncode   = "encode"
)

// StageObserver is told how long each stage took and whether it failed.
type StageObserver interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
}

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave")
	reg.Register("mp3", mp3.Decoder{}, "audio/mpeg", "audio/mp3", "audio/mpeg3")
	reg.Register("ogg", vorbis.Decoder{}, "audio/ogg", "audio/vorbis", "application/ogg")
	reg.Register("aiff", aiff.Decoder{}, "audio/aiff", "audio/x-aiff")
	reg.Register("flac", flac.Decoder{}, "audio/flac", "audio/x-flac")
	return reg
}

// Converter turns an encoded buffer into canonical 16 kHz mono PCM16 WAV.
type Converter struct {
	Registry *audio.Registry
	Observer StageObserver
	Logger   *slog.Logger
}

// NewConverter returns a converter using DefaultRegistry.
func NewConverter() *Converter {
	return &Converter{
		Registry: DefaultRegistry(),
		Logger:   logging.L("convert"),
	}
}

// Report describes a finished conversion.
type Report struct {
	Format      string
	SourceRate  int
	SourceChans int
	Duration    time.Duration
	Samples     int
}

// Convert decodes data, resamples it to the target rate, mixes it to mono
// and encodes it. Errors are *audio.DecodeError, *audio.ResampleError or
// encoder errors.
func (c *Converter) Convert(data []byte, mediaType string) ([]byte, Report, error) {
	var (
		sig    *audio.Signal
		format string
	)
	err := c.stage(StageDecode, func() (err error) {
		sig, format, err = c.Registry.Decode(data, mediaType)
		return err
	})
	if err != nil {
		return nil, Report{}, err
	}

	rep := Report{
		Format:      format,
		SourceRate:  sig.SampleRate,
		SourceChans: sig.NumChannels(),
		Duration:    sig.Duration(),
	}

	out, err := c.ConvertSignal(sig)
	if err != nil {
		return nil, rep, err
	}
	rep.Samples = (len(out) - wav.HeaderSize) / 2

	return out, rep, nil
}

// ConvertSignal runs the resample, mix and encode stages on an already
// decoded signal. Output is always at TargetRate.
func (c *Converter) ConvertSignal(sig *audio.Signal) ([]byte, error) {
	err := c.stage(StageResample, func() (err error) {
		sig, err = audio.Resample(sig, TargetRate)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(StageMix, func() (err error) {
		sig, err = audio.MixToMono(sig)
		return err
	})
	if err != nil {
		return nil, err
	}

	var out []byte
	err = c.stage(StageEncode, func() (err error) {
		out, err = wav.EncodeCanonical(sig)
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Converter) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if c.Observer != nil {
		c.Observer.ObserveStage(name, elapsed, err)
	}
	if c.Logger != nil {
		c.Logger.Debug("pipeline stage",
			logging.KeyStage, name,
			logging.KeyDurationMs, elapsed.Milliseconds(),
			logging.KeyError, err)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Canonicalize converts data with a default Converter.
func Canonicalize(data []byte, mediaType string) ([]byte, error) {
	out, _, err := NewConverter().Convert(data, mediaType)
	return out, err
}
