// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams with github.com/mewkiz/flac.
//
// Frames are parsed lazily as samples are requested. Close releases the
// underlying stream.
package flac
