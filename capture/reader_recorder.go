// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audenhance/internal/logging"
)

// ReaderRecorder records raw 16-bit little-endian PCM from an io.Reader,
// such as a pipe from arecord or another capture tool.
//
// Stop does not wait for a blocked Read: it returns the frames recorded up
// to that point.
type ReaderRecorder struct {
	cfg    RecorderConfig
	r      io.Reader
	rec    *recording
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewReaderRecorder returns a recorder reading cfg.Channels interleaved
// channels at cfg.SampleRate from r.
func NewReaderRecorder(r io.Reader, cfg RecorderConfig) *ReaderRecorder {
	cfg = cfg.withDefaults()
	return &ReaderRecorder{
		cfg:    cfg,
		r:      r,
		rec:    newRecording(cfg),
		logger: logging.L("capture"),
		done:   make(chan struct{}),
	}
}

// Start begins reading in the background. Reading ends on EOF, a read
// error, ctx cancellation, Stop or when MaxDuration is reached.
func (rr *ReaderRecorder) Start(ctx context.Context) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.started {
		return ErrAlreadyStarted
	}
	if rr.r == nil {
		return &Error{Kind: NoDevice, Err: errors.New("no input reader")}
	}
	rr.started = true

	ctx, rr.cancel = context.WithCancel(ctx)
	go rr.loop(ctx)

	rr.logger.Debug("recording started",
		"sampleRate", rr.cfg.SampleRate,
		"channels", rr.cfg.Channels)

	return nil
}

func (rr *ReaderRecorder) loop(ctx context.Context) {
	defer close(rr.done)

	buf := make([]byte, rr.cfg.FramesPerBuffer*rr.cfg.Channels*2)
	samples := make([]int16, 0, len(buf)/2)
	carry := 0 // odd byte kept at buf[0]

	for ctx.Err() == nil {
		n, err := rr.r.Read(buf[carry:])
		n += carry

		samples = samples[:0]
		for i := 0; i+1 < n; i += 2 {
			samples = append(samples, int16(binary.LittleEndian.Uint16(buf[i:])))
		}
		carry = n % 2
		if carry == 1 {
			buf[0] = buf[n-1]
		}

		if ctx.Err() != nil {
			return
		}
		if len(samples) > 0 && rr.rec.append(samples) {
			rr.logger.Debug("recording reached its limit")
			return
		}

		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			rr.setErr(&Error{Kind: Device, Err: err})
			return
		}
	}
}

func (rr *ReaderRecorder) setErr(err error) {
	rr.mu.Lock()
	rr.err = err
	rr.mu.Unlock()
}

// Done is closed once the background reader has finished.
func (rr *ReaderRecorder) Done() <-chan struct{} { return rr.done }

// Err returns the read error that ended the recording, if any.
func (rr *ReaderRecorder) Err() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.err
}

// Stop ends the recording and returns it as a PCM16 WAV buffer. A read
// error is returned alongside the frames read before it.
func (rr *ReaderRecorder) Stop() (Buffer, error) {
	rr.mu.Lock()
	if !rr.started || rr.stopped {
		rr.mu.Unlock()
		return Buffer{}, ErrNotRecording
	}
	rr.stopped = true
	rr.cancel()
	readErr := rr.err
	rr.mu.Unlock()

	buf, err := rr.rec.buffer("recording.wav")
	if readErr != nil {
		return buf, readErr
	}
	if err != nil {
		return Buffer{}, err
	}

	rr.logger.Debug("recording stopped", logging.KeyBytes, buf.Len())

	return buf, nil
}
