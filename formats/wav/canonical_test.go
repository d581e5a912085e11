// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audenhance/audio"
)

func monoSignal(rate int, samples ...float32) *audio.Signal {
	return &audio.Signal{SampleRate: rate, Channels: [][]float32{samples}}
}

func TestEncodeCanonical_Header(t *testing.T) {
	t.Parallel()

	out, err := EncodeCanonical(monoSignal(16000, 0, 0.5, -0.5))
	if err != nil {
		t.Fatalf("EncodeCanonical() error = %v", err)
	}

	want := []byte{
		'R', 'I', 'F', 'F', 42, 0, 0, 0, 'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 16, 0, 0, 0, 1, 0, 1, 0,
		0x80, 0x3E, 0, 0, // 16000
		0x00, 0x7D, 0, 0, // 32000
		2, 0, 16, 0,
		'd', 'a', 't', 'a', 6, 0, 0, 0,
	}
	if !bytes.Equal(out[:HeaderSize], want) {
		t.Errorf("header =\n% x\nwant\n% x", out[:HeaderSize], want)
	}
	if len(out) != HeaderSize+6 {
		t.Errorf("len = %d, want %d", len(out), HeaderSize+6)
	}
}

func TestEncodeCanonical_Clamping(t *testing.T) {
	t.Parallel()

	out, err := EncodeCanonical(monoSignal(16000, 1.5, -2.0, 1, -1, float32(math.NaN())))
	if err != nil {
		t.Fatalf("EncodeCanonical() error = %v", err)
	}

	want := []int16{32767, -32768, 32767, -32768, 0}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[HeaderSize+2*i:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncodeCanonical_RoundTrip(t *testing.T) {
	t.Parallel()

	const n = 4000
	samples := make([]float32, n)
	for i := range samples {
		// sweep the full range including both extremes
		samples[i] = float32(-1 + 2*float64(i)/float64(n-1))
	}
	sig := monoSignal(22050, samples...)

	out, err := EncodeCanonical(sig)
	if err != nil {
		t.Fatalf("EncodeCanonical() error = %v", err)
	}

	back := decodeAll(t, out)
	if back.SampleRate != 22050 || back.NumChannels() != 1 || back.Len() != n {
		t.Fatalf("decoded %d ch, %d frames @ %d Hz", back.NumChannels(), back.Len(), back.SampleRate)
	}

	for i, v := range back.Channels[0] {
		if d := math.Abs(float64(v - samples[i])); d > 1.0/32767 {
			t.Fatalf("sample %d: |%v - %v| = %g exceeds 1/32767", i, v, samples[i], d)
		}
	}
}

func TestEncodeCanonical_Errors(t *testing.T) {
	t.Parallel()

	if _, err := EncodeCanonical(audio.NewSignal(16000, 2, 10)); !errors.Is(err, ErrNotMono) {
		t.Errorf("stereo: error = %v, want ErrNotMono", err)
	}
	if _, err := EncodeCanonical(&audio.Signal{SampleRate: 0, Channels: [][]float32{{0}}}); !errors.Is(err, audio.ErrInvalidSignal) {
		t.Errorf("zero rate: error = %v, want ErrInvalidSignal", err)
	}
}

func TestEncodeCanonical_Empty(t *testing.T) {
	t.Parallel()

	out, err := EncodeCanonical(monoSignal(16000))
	if err != nil {
		t.Fatalf("EncodeCanonical() error = %v", err)
	}
	if len(out) != HeaderSize {
		t.Errorf("len = %d, want %d", len(out), HeaderSize)
	}

	info, err := ParseCanonical(out)
	if err != nil || info.Samples != 0 {
		t.Errorf("ParseCanonical() = (%+v, %v)", info, err)
	}
}

func TestParseCanonical(t *testing.T) {
	t.Parallel()

	valid, err := EncodeCanonical(monoSignal(16000, 0.1, 0.2, 0.3))
	if err != nil {
		t.Fatal(err)
	}

	info, err := ParseCanonical(valid)
	if err != nil {
		t.Fatalf("ParseCanonical() error = %v", err)
	}
	if info.SampleRate != 16000 || info.Samples != 3 {
		t.Errorf("ParseCanonical() = %+v, want {16000 3}", info)
	}

	mutate := func(off int, b ...byte) []byte {
		out := bytes.Clone(valid)
		copy(out[off:], b)
		return out
	}

	bad := map[string][]byte{
		"short":      valid[:20],
		"magic":      mutate(0, 'R', 'I', 'F', 'X'),
		"riff size":  mutate(4, 0, 0, 0, 0),
		"format tag": mutate(20, 3, 0),
		"stereo":     mutate(22, 2, 0),
		"byte rate":  mutate(28, 0, 0, 0, 0),
		"bit depth":  mutate(34, 8, 0),
		"trailing":   append(bytes.Clone(valid), 0, 0),
	}

	for name, data := range bad {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseCanonical(data); !errors.Is(err, ErrNotCanonical) {
				t.Errorf("ParseCanonical() error = %v, want ErrNotCanonical", err)
			}
		})
	}
}

func BenchmarkEncodeCanonical(b *testing.B) {
	sig := audio.NewSignal(16000, 1, 16000*10)
	for i := range sig.Channels[0] {
		sig.Channels[0][i] = float32(math.Sin(float64(i) * 0.01))
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := EncodeCanonical(sig); err != nil {
			b.Fatal(err)
		}
	}
}
