// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a FORM/AIFF file.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a sample size other than 8/16/24/32.
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	// ErrInvalidFormat indicates a COMM chunk with no channels or no rate.
	ErrInvalidFormat = errors.New("invalid AIFF COMM chunk")
)
