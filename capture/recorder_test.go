// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/audenhance/formats/wav"
)

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func waitDone(t *testing.T, rr *ReaderRecorder) {
	t.Helper()
	select {
	case <-rr.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("recorder did not finish")
	}
}

func TestChooseMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		supported []string
		want      string
	}{
		{name: "webm preferred", supported: []string{"audio/wav", "audio/webm", "audio/mp4"}, want: "audio/webm"},
		{name: "mp4 next", supported: []string{"audio/wav", "audio/mp4"}, want: "audio/mp4"},
		{name: "wav last", supported: []string{"audio/wav"}, want: "audio/wav"},
		{name: "none", supported: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ChooseMediaType(func(mt string) bool {
				for _, s := range tt.supported {
					if s == mt {
						return true
					}
				}
				return false
			})
			if got != tt.want {
				t.Errorf("ChooseMediaType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseEncoder(t *testing.T) {
	t.Parallel()

	stub := func(io.Writer, int, int, []int16) error { return nil }

	tests := []struct {
		name    string
		types   []string
		want    string
		wantErr bool
	}{
		{name: "bundled", types: []string{"audio/wav"}, want: "audio/wav"},
		{name: "webm wins over wav", types: []string{"audio/wav", "audio/webm"}, want: "audio/webm"},
		{name: "mp4 wins over wav", types: []string{"audio/mp4", "audio/wav"}, want: "audio/mp4"},
		{name: "unlisted type ignored", types: []string{"audio/flac", "audio/wav"}, want: "audio/wav"},
		{name: "nothing usable", types: []string{"audio/flac"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoders := make(map[string]recordingEncoder)
			for _, mt := range tt.types {
				encoders[mt] = stub
			}

			got, enc, err := chooseEncoder(encoders)
			if (err != nil) != tt.wantErr {
				t.Fatalf("chooseEncoder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("chooseEncoder() = %q, want %q", got, tt.want)
			}
			if !tt.wantErr && enc == nil {
				t.Error("chooseEncoder() returned no encoder")
			}
		})
	}

	if mt, _, err := chooseEncoder(recordingEncoders); err != nil || mt != "audio/wav" {
		t.Errorf("bundled recorders write %q (%v), want audio/wav", mt, err)
	}
}

func TestReaderRecorder(t *testing.T) {
	t.Parallel()

	cfg := RecorderConfig{SampleRate: 8000, Channels: 2, FramesPerBuffer: 3}
	input := pcmBytes(1, -1, 2, -2, 3, -3, 4, -4, 5, -5)
	rr := NewReaderRecorder(bytes.NewReader(input), cfg)

	if err := rr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, rr)

	buf, err := rr.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if buf.MediaType != "audio/wav" {
		t.Errorf("MediaType = %q", buf.MediaType)
	}

	want := new(bytes.Buffer)
	if err := wav.WritePCM16(want, 8000, 2, []int16{1, -1, 2, -2, 3, -3, 4, -4, 5, -5}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Data, want.Bytes()) {
		t.Errorf("Stop() data = % x\nwant % x", buf.Data, want.Bytes())
	}

	if _, err := rr.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("second Stop() error = %v, want ErrNotRecording", err)
	}
	if err := rr.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

// oneByteReader splits every sample across two reads.
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestReaderRecorderSplitSamples(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -200, 300, -400, 32767, -32768}
	rr := NewReaderRecorder(oneByteReader{bytes.NewReader(pcmBytes(samples...))}, RecorderConfig{SampleRate: 16000})

	if err := rr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, rr)

	buf, err := rr.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := buf.Data[wav.HeaderSize:]; !bytes.Equal(got, pcmBytes(samples...)) {
		t.Errorf("samples = % x", got)
	}
}

func TestReaderRecorderMaxDuration(t *testing.T) {
	t.Parallel()

	cfg := RecorderConfig{SampleRate: 10, Channels: 1, FramesPerBuffer: 4, MaxDuration: time.Second}
	rr := NewReaderRecorder(bytes.NewReader(make([]byte, 100)), cfg)

	if err := rr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, rr)

	buf, err := rr.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := buf.Len(); got != wav.HeaderSize+10*2 {
		t.Errorf("Len() = %d, want %d", got, wav.HeaderSize+20)
	}
}

func TestReaderRecorderStopWhileBlocked(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()

	rr := NewReaderRecorder(pr, RecorderConfig{SampleRate: 16000, FramesPerBuffer: 2})
	if err := rr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := pw.Write(pcmBytes(7, 8)); err != nil {
		t.Fatal(err)
	}

	// Wait until the first buffer has been stored.
	deadline := time.Now().Add(5 * time.Second)
	for rr.rec.len() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("samples never recorded")
		}
		time.Sleep(time.Millisecond)
	}

	buf, err := rr.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := buf.Data[wav.HeaderSize:]; !bytes.Equal(got, pcmBytes(7, 8)) {
		t.Errorf("partial recording = % x", got)
	}
}

func TestReaderRecorderErrors(t *testing.T) {
	t.Parallel()

	t.Run("nothing recorded", func(t *testing.T) {
		t.Parallel()

		rr := NewReaderRecorder(bytes.NewReader(nil), RecorderConfig{})
		if err := rr.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		waitDone(t, rr)

		if _, err := rr.Stop(); !IsKind(err, Empty) {
			t.Errorf("Stop() error = %v, want Empty", err)
		}
	})

	t.Run("read failure keeps partial audio", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("device unplugged")
		r := io.MultiReader(bytes.NewReader(pcmBytes(1, 2)), failingReader{boom})
		rr := NewReaderRecorder(r, RecorderConfig{FramesPerBuffer: 2})
		if err := rr.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		waitDone(t, rr)

		if !errors.Is(rr.Err(), boom) {
			t.Errorf("Err() = %v, want %v", rr.Err(), boom)
		}
		buf, err := rr.Stop()
		if !IsKind(err, Device) {
			t.Errorf("Stop() error = %v, want Device", err)
		}
		if buf.Len() != wav.HeaderSize+4 {
			t.Errorf("Len() = %d", buf.Len())
		}
	})

	t.Run("stop before start", func(t *testing.T) {
		t.Parallel()

		rr := NewReaderRecorder(bytes.NewReader(nil), RecorderConfig{})
		if _, err := rr.Stop(); !errors.Is(err, ErrNotRecording) {
			t.Errorf("Stop() error = %v, want ErrNotRecording", err)
		}
	})

	t.Run("nil reader", func(t *testing.T) {
		t.Parallel()

		rr := NewReaderRecorder(nil, RecorderConfig{})
		if err := rr.Start(context.Background()); !IsKind(err, NoDevice) {
			t.Errorf("Start() error = %v, want NoDevice", err)
		}
	})
}

func TestDefaultRecorderConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRecorderConfig()
	if cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Errorf("DefaultRecorderConfig() = %+v", cfg)
	}
	if !cfg.EchoCancellation || !cfg.NoiseSuppression {
		t.Error("processing hints are off by default")
	}
}
