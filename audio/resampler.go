// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audenhance/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves channel count.
// A one-pole low-pass filter is applied to the input when downsampling.
//
// Output frame j is taken at source position j*srcRate/dstRate, so a source
// of N frames yields ceil(N*dstRate/srcRate) frames. Frames before the start
// and past the end of the source repeat the edge frame.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// win[i] holds source frame idx-1+i
	win   [4][]float32
	idx   int
	read  int // source frames pulled so far
	out   int // output frames produced so far
	frame []float32

	primed bool
	eof    bool

	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)

	var ratio float64
	if dstRate > 0 {
		ratio = float64(src.SampleRate()) / float64(dstRate)
	}

	r := &Resampler{
		src:         src,
		srcRate:     src.SampleRate(),
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		frame:       make([]float32, channels),
		useFilter:   ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) pull(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	idle := 0
	for {
		n, err := r.src.ReadSamples(r.frame)
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("%w", err)
		}

		if n > 0 {
			clear(dst)
			copy(dst, r.frame[:n])

			if r.useFilter {
				if r.read == 0 {
					copy(r.filterState, dst)
				}
				for c := range dst {
					dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
					r.filterState[c] = dst[c]
				}
			}

			r.read++
			r.eof = err == io.EOF
			return true, nil
		}

		if err == io.EOF {
			r.eof = true
			return false, nil
		}

		idle++
		if idle > maxIdleReads {
			return false, io.ErrNoProgress
		}
	}
}

func (r *Resampler) prime() error {
	ok, err := r.pull(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.win[0], r.win[1])

	for i := 2; i < len(r.win); i++ {
		ok, err := r.pull(r.win[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.win[i], r.win[i-1])
		}
	}

	r.primed = true
	return nil
}

// shift advances the window by one source frame.
func (r *Resampler) shift() error {
	r.win[0], r.win[1], r.win[2], r.win[3] = r.win[1], r.win[2], r.win[3], r.win[0]

	ok, err := r.pull(r.win[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[3], r.win[2])
	}

	r.idx++
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.dstRate <= 0 || r.srcRate <= 0 {
		return 0, ErrInvalidRate
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	framesNeeded := len(dst) / r.channels
	written := 0

	for written < framesNeeded {
		pos := float64(r.out) * r.ratio
		k := int(pos)

		for r.idx < k {
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if r.idx >= r.read {
			return written * r.channels, io.EOF
		}

		off := written * r.channels
		utils.CubicInterpolateFrame(dst[off:off+r.channels],
			r.win[0], r.win[1], r.win[2], r.win[3], float32(pos-float64(k)))

		written++
		r.out++
	}

	return written * r.channels, nil
}
