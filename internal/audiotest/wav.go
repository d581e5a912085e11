// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAVBytes builds a canonical 44-byte-header PCM WAV file from interleaved
// 16-bit samples.
func WAVBytes(sampleRate, channels int, samples []int16) []byte {
	return buildWAV(sampleRate, channels, samples, nil)
}

// WAVBytesWithList is WAVBytes with a LIST/INFO chunk between "fmt " and
// "data", the layout many editors write.
func WAVBytesWithList(sampleRate, channels int, samples []int16) []byte {
	info := []byte("INFOISFT\x06\x00\x00\x00audenh")
	return buildWAV(sampleRate, channels, samples, info)
}

func buildWAV(sampleRate, channels int, samples []int16, list []byte) []byte {
	buf := new(bytes.Buffer)

	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize
	if list != nil {
		riffSize += 8 + uint32(len(list))
	}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, riffSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	if list != nil {
		buf.WriteString("LIST")
		binary.Write(buf, binary.LittleEndian, uint32(len(list)))
		buf.Write(list)
	}

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

// SineInt16 returns n mono samples of a sine tone at the given amplitude
// (0..1).
func SineInt16(n, sampleRate int, frequency, amplitude float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		v := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate))
		out[i] = int16(math.Round(v * 32767))
	}
	return out
}
