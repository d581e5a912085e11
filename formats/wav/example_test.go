// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audenhance/audio"
	"github.com/ik5/audenhance/formats/wav"
)

func ExampleEncodeCanonical() {
	sig := &audio.Signal{
		SampleRate: 16000,
		Channels:   [][]float32{{0, 0.5, -0.5, 1.5}},
	}

	data, err := wav.EncodeCanonical(sig)
	if err != nil {
		fmt.Println(err)
		return
	}

	info, _ := wav.ParseCanonical(data)
	fmt.Printf("%d bytes, %d Hz, %d samples\n", len(data), info.SampleRate, info.Samples)
	fmt.Printf("% x\n", data[wav.HeaderSize:])
	// Output:
	// 52 bytes, 16000 Hz, 4 samples
	// 00 00 00 40 00 c0 ff 7f
}

func ExampleEncodeCanonical_stereo() {
	_, err := wav.EncodeCanonical(audio.NewSignal(16000, 2, 10))
	fmt.Println(errors.Is(err, wav.ErrNotMono))
	// Output: true
}

func ExampleDecoder() {
	var buf bytes.Buffer
	if err := wav.WritePCM16(&buf, 8000, 2, []int16{0, 0, 16384, -16384}); err != nil {
		fmt.Println(err)
		return
	}

	sig, err := audio.DecodeSignal(wav.Decoder{}, "wav", &buf)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %d channels, %d frames\n", sig.SampleRate, sig.NumChannels(), sig.Len())
	fmt.Println(sig.Channels[1][1])
	// Output:
	// 8000 Hz, 2 channels, 2 frames
	// -0.5
}
