// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer collapses an interleaved multi-channel Source to mono by taking
// the arithmetic mean of each frame. Mono sources pass through untouched.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	mixFrames(dst[:frames], m.tmp[:frames*channels], channels)

	return frames, err
}

// mixFrames writes the per-frame mean of interleaved src into dst.
func mixFrames(dst, src []float32, channels int) {
	if channels == 2 {
		for f := range dst {
			dst[f] = (src[2*f] + src[2*f+1]) / 2
		}
		return
	}

	div := float32(channels)
	for f := range dst {
		var sum float32
		for _, v := range src[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum / div
	}
}
