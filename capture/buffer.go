// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audenhance/audio"
)

// MaxFileSize is the default limit for user supplied audio.
const MaxFileSize int64 = 50 << 20

// Buffer is encoded audio together with its declared media type. It is not
// modified after capture.
type Buffer struct {
	Data      []byte
	MediaType string
	Name      string
}

// Len returns the number of encoded bytes.
func (b Buffer) Len() int { return len(b.Data) }

var extMediaTypes = map[string]string{
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
	".aifc": "audio/aiff",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".weba": "audio/webm",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".opus": "audio/ogg",
}

var sniffedMediaTypes = map[string]string{
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"ogg":  "audio/ogg",
	"aiff": "audio/aiff",
	"flac": "audio/flac",
}

// DetectMediaType derives a media type from the file name and, failing
// that, from the leading bytes. It returns "application/octet-stream" when
// neither says anything.
func DetectMediaType(name string, head []byte) string {
	if mt, ok := extMediaTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	if mt, ok := sniffedMediaTypes[audio.Sniff(head)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Validate checks the declared media type and size of an input before its
// bytes are read. limit <= 0 means MaxFileSize.
func Validate(mediaType string, size, limit int64) error {
	if limit <= 0 {
		limit = MaxFileSize
	}

	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "audio/") {
		return &Error{Kind: InvalidType, Err: fmt.Errorf("%q is not an audio type", mediaType)}
	}
	if size > limit {
		return &Error{Kind: TooLarge, Err: fmt.Errorf("%d bytes exceeds the %d byte limit", size, limit)}
	}
	if size == 0 {
		return &Error{Kind: Empty}
	}

	return nil
}

// FromFile reads path into a Buffer. The size is checked before the file is
// read.
func FromFile(path string, limit int64) (Buffer, error) {
	if limit <= 0 {
		limit = MaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return Buffer{}, fileError(err)
	}
	if info.IsDir() {
		return Buffer{}, &Error{Kind: InvalidType, Err: fmt.Errorf("%s is a directory", path)}
	}
	if info.Size() > limit {
		return Buffer{}, &Error{Kind: TooLarge, Err: fmt.Errorf("%d bytes exceeds the %d byte limit", info.Size(), limit)}
	}

	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, fileError(err)
	}
	defer f.Close()

	return FromReader(f, filepath.Base(path), "", limit)
}

// FromReader reads at most limit bytes from r. An empty mediaType is
// detected from name and content.
func FromReader(r io.Reader, name, mediaType string, limit int64) (Buffer, error) {
	if limit <= 0 {
		limit = MaxFileSize
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, limit+1))
	if err != nil {
		return Buffer{}, fileError(err)
	}

	data := buf.Bytes()
	if mediaType == "" {
		mediaType = DetectMediaType(name, data[:min(len(data), audio.SniffLen)])
	}
	if err := Validate(mediaType, n, limit); err != nil {
		return Buffer{}, err
	}

	return Buffer{Data: data, MediaType: mediaType, Name: name}, nil
}

func fileError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &Error{Kind: PermissionDenied, Err: err}
	}
	return &Error{Kind: Unreadable, Err: err}
}
