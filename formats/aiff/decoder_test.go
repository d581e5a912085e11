// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
	"testing"

	"github.com/ik5/audenhance/audio"
)

// buildAIFF writes a FORM/AIFF file with COMM and SSND chunks holding
// big-endian 16-bit samples.
func buildAIFF(rate, channels int, samples []int16) []byte {
	be := binary.BigEndian
	ssnd := 8 + len(samples)*2

	buf := new(bytes.Buffer)
	buf.WriteString("FORM")
	binary.Write(buf, be, uint32(4+8+18+8+ssnd))
	buf.WriteString("AIFF")

	buf.WriteString("COMM")
	binary.Write(buf, be, uint32(18))
	binary.Write(buf, be, uint16(channels))
	binary.Write(buf, be, uint32(len(samples)/channels))
	binary.Write(buf, be, uint16(16))

	// 80-bit IEEE extended sample rate
	exp := bits.Len(uint(rate)) - 1
	binary.Write(buf, be, uint16(16383+exp))
	binary.Write(buf, be, uint64(rate)<<(63-exp))

	buf.WriteString("SSND")
	binary.Write(buf, be, uint32(ssnd))
	binary.Write(buf, be, uint32(0)) // offset
	binary.Write(buf, be, uint32(0)) // block size
	for _, s := range samples {
		binary.Write(buf, be, s)
	}

	return buf.Bytes()
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 0, 16384, -16384, 32767, -32768, 100, -100}
	data := buildAIFF(44100, 2, samples)

	sig, err := audio.DecodeSignal(Decoder{}, "aiff", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeSignal() error = %v", err)
	}

	if sig.SampleRate != 44100 || sig.NumChannels() != 2 || sig.Len() != 4 {
		t.Fatalf("got %d ch, %d frames @ %d Hz", sig.NumChannels(), sig.Len(), sig.SampleRate)
	}

	want := [][]float32{
		{0, 16384.0 / 32767, 1, 100.0 / 32767},
		{0, -0.5, -1, -100.0 / 32768},
	}
	for c := range want {
		for i, w := range want[c] {
			if math.Abs(float64(sig.Channels[c][i]-w)) > 1e-6 {
				t.Errorf("ch %d sample %d = %v, want %v", c, i, sig.Channels[c][i], w)
			}
		}
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "text", data: []byte("This is not AIFF data")},
		{name: "empty", data: nil},
		{name: "wav", data: []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}
		})
	}
}
