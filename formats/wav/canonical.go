// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/utils"
)

// EncodeCanonical serializes a mono signal as a 44-byte-header 16-bit PCM
// WAV. The result is always HeaderSize + 2*sig.Len() bytes.
func EncodeCanonical(sig *audio.Signal) ([]byte, error) {
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if sig.NumChannels() != 1 {
		return nil, fmt.Errorf("encode wav: %w: %d channels", ErrNotMono, sig.NumChannels())
	}

	samples := sig.Channels[0]
	out := make([]byte, HeaderSize+2*len(samples))
	putHeader(out, sig.SampleRate, 1, len(samples))

	data := out[HeaderSize:]
	for i, v := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(utils.Float32ToInt16(v)))
	}

	return out, nil
}

// Info describes a canonical buffer.
type Info struct {
	SampleRate int
	Samples    int
}

// ParseCanonical checks that data is exactly what EncodeCanonical produces
// and reports its rate and sample count.
func ParseCanonical(data []byte) (Info, error) {
	if len(data) < HeaderSize {
		return Info{}, fmt.Errorf("%w: %d bytes", ErrNotCanonical, len(data))
	}

	le := binary.LittleEndian
	dataSize := int(le.Uint32(data[40:44]))
	rate := int(le.Uint32(data[24:28]))

	checks := []struct {
		ok   bool
		what string
	}{
		{string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE", "RIFF/WAVE magic"},
		{int(le.Uint32(data[4:8])) == len(data)-8, "RIFF size"},
		{string(data[12:16]) == "fmt " && le.Uint32(data[16:20]) == 16, "fmt chunk"},
		{le.Uint16(data[20:22]) == formatPCM, "PCM format tag"},
		{le.Uint16(data[22:24]) == 1, "mono"},
		{rate > 0 && int(le.Uint32(data[28:32])) == rate*2, "byte rate"},
		{le.Uint16(data[32:34]) == 2 && le.Uint16(data[34:36]) == 16, "16-bit block align"},
		{string(data[36:40]) == "data" && dataSize == len(data)-HeaderSize, "data chunk size"},
	}
	for _, c := range checks {
		if !c.ok {
			return Info{}, fmt.Errorf("%w: bad %s", ErrNotCanonical, c.what)
		}
	}

	return Info{SampleRate: rate, Samples: dataSize / 2}, nil
}
