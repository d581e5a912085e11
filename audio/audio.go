// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"mime"
	"slices"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 PCM samples.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources held by the decoding context.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys (e.g. "wav", "mp3", "ogg") and media types
// (e.g. "audio/mpeg") to decoders.
type Registry struct {
	codecs     map[string]Decoder
	mediaTypes map[string]string

	mtx *sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs:     make(map[string]Decoder),
		mediaTypes: make(map[string]string),
		mtx:        &sync.RWMutex{},
	}
}

// Register adds d under format and maps every given media type to it.
func (r *Registry) Register(format string, d Decoder, mediaTypes ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format = strings.ToLower(format)
	r.codecs[format] = d
	for _, mt := range mediaTypes {
		r.mediaTypes[normalizeMediaType(mt)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ForMediaType returns the decoder registered for mediaType. Parameters such
// as "codecs=opus" are ignored.
func (r *Registry) ForMediaType(mediaType string) (Decoder, string, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	format, ok := r.mediaTypes[normalizeMediaType(mediaType)]
	if !ok {
		return nil, "", false
	}
	d, ok := r.codecs[format]
	return d, format, ok
}

// Resolve picks a decoder for an encoded buffer. A format sniffed from head
// wins over the declared media type, which is only the fallback.
func (r *Registry) Resolve(mediaType string, head []byte) (Decoder, string, error) {
	if format := Sniff(head); format != "" {
		if d, ok := r.Get(format); ok {
			return d, format, nil
		}
	}

	if d, format, ok := r.ForMediaType(mediaType); ok {
		return d, format, nil
	}

	return nil, "", ErrUnknownFormat
}

func normalizeMediaType(mt string) string {
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
