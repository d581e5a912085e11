// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ik5/audenhance/internal/logging"
)

// MicAvailable reports whether this build can record from a microphone.
const MicAvailable = true

// MicRecorder records from the default input device through PortAudio.
type MicRecorder struct {
	cfg    RecorderConfig
	rec    *recording
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	stream  *portaudio.Stream
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewMicRecorder returns a recorder for the default input device.
func NewMicRecorder(cfg RecorderConfig) *MicRecorder {
	cfg = cfg.withDefaults()
	return &MicRecorder{
		cfg:    cfg,
		rec:    newRecording(cfg),
		logger: logging.L("capture"),
		done:   make(chan struct{}),
	}
}

// Start opens the default input stream and begins recording.
func (m *MicRecorder) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	if err := portaudio.Initialize(); err != nil {
		return &Error{Kind: Device, Err: fmt.Errorf("initialize portaudio: %w", err)}
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return &Error{Kind: NoDevice, Err: err}
	}

	buf := make([]int16, m.cfg.FramesPerBuffer*m.cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(
		m.cfg.Channels,
		0,
		float64(m.cfg.SampleRate),
		m.cfg.FramesPerBuffer,
		buf,
	)
	if err != nil {
		portaudio.Terminate()
		return &Error{Kind: Device, Err: fmt.Errorf("open input stream: %w", err)}
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return &Error{Kind: Device, Err: fmt.Errorf("start input stream: %w", err)}
	}

	m.started = true
	m.stream = stream
	ctx, m.cancel = context.WithCancel(ctx)
	go m.loop(ctx, buf)

	m.logger.Info("recording started",
		"device", dev.Name,
		"sampleRate", m.cfg.SampleRate,
		"channels", m.cfg.Channels)

	return nil
}

func (m *MicRecorder) loop(ctx context.Context, buf []int16) {
	defer close(m.done)
	defer func() {
		m.stream.Stop()
		m.stream.Close()
		portaudio.Terminate()
	}()

	for ctx.Err() == nil {
		if err := m.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				m.logger.Debug("input overflowed")
				continue
			}
			m.mu.Lock()
			m.err = &Error{Kind: Device, Err: err}
			m.mu.Unlock()
			return
		}
		if m.rec.append(buf) {
			m.logger.Debug("recording reached its limit")
			return
		}
	}
}

// Done is closed once the input stream has been released.
func (m *MicRecorder) Done() <-chan struct{} { return m.done }

// Stop ends the recording, waits for the current buffer and releases the
// device.
func (m *MicRecorder) Stop() (Buffer, error) {
	m.mu.Lock()
	if !m.started || m.stopped {
		m.mu.Unlock()
		return Buffer{}, ErrNotRecording
	}
	m.stopped = true
	m.cancel()
	m.mu.Unlock()

	<-m.done

	m.mu.Lock()
	readErr := m.err
	m.mu.Unlock()

	buf, err := m.rec.buffer("recording.wav")
	if readErr != nil {
		return buf, readErr
	}
	if err != nil {
		return Buffer{}, err
	}

	m.logger.Info("recording stopped", logging.KeyBytes, buf.Len())

	return buf, nil
}
