// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 converts a [-1,1] sample to signed 16-bit PCM.
//
// Values outside the range are clamped first. Negative values scale by 32768
// and positive values by 32767, so -1 maps to math.MinInt16 and 1 maps to
// math.MaxInt16. The result is rounded half away from zero. NaN maps to 0.
func Float32ToInt16(x float32) int16 {
	switch {
	case x != x:
		return 0
	case x >= 1:
		return math.MaxInt16
	case x <= -1:
		return math.MinInt16
	case x < 0:
		return int16(math.Round(float64(x) * 32768))
	default:
		return int16(math.Round(float64(x) * 32767))
	}
}

// Int16ToFloat32 is the inverse scaling of Float32ToInt16.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}

// IntToFloat32 normalizes a signed integer PCM sample of the given bit depth
// (8, 16, 24 or 32) to [-1,1] using the same asymmetric scaling as
// Int16ToFloat32. Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth == 16 || bitDepth <= 0 || bitDepth > 32 {
		return Int16ToFloat32(int16(v))
	}

	full := float64(int64(1) << (bitDepth - 1))
	if v < 0 {
		return float32(float64(v) / full)
	}
	return float32(float64(v) / (full - 1))
}

// Float32SliceToInt16 converts src into dst and returns the number of
// converted samples, which is min(len(dst), len(src)).
func Float32SliceToInt16(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}
