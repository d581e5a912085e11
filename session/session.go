// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audenhance"
	"github.com/ik5/audenhance/capture"
	"github.com/ik5/audenhance/internal/logging"
)

// State is a step of the capture, process and submit flow.
type State int

const (
	Idle State = iota
	Capturing
	Captured
	Processing
	Ready
	Submitting
	Done
	Failed
)

var stateNames = [...]string{
	Idle:       "idle",
	Capturing:  "capturing",
	Captured:   "captured",
	Processing: "processing",
	Ready:      "ready",
	Submitting: "submitting",
	Done:       "done",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// busy reports whether an operation is in flight.
func (s State) busy() bool {
	return s == Capturing || s == Processing || s == Submitting
}

// Processor turns captured audio into the canonical buffer.
// *audenhance.Converter implements it.
type Processor interface {
	Convert(data []byte, mediaType string) ([]byte, audenhance.Report, error)
}

// Enhancer submits canonical audio. *enhance.Client implements it.
type Enhancer interface {
	Enhance(ctx context.Context, canonical []byte) ([]byte, error)
}

// Observer is told about every state change.
type Observer interface {
	ObserveTransition(from, to string)
}

// Result is the outcome of a successful submission.
type Result struct {
	Original []byte
	Enhanced []byte
	Filename string
}

// Filename returns the download name for an enhancement finished at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("enhanced_audio_%d.wav", t.UnixMilli())
}

// Option customizes a Session.
type Option func(*Session)

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock replaces time.Now for result file names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithMaxFileSize sets the limit for LoadFile and LoadBuffer.
func WithMaxFileSize(n int64) Option {
	return func(s *Session) { s.maxFileSize = n }
}

// Session runs one capture, process and submit sequence at a time. All
// methods are safe for concurrent use; long running work happens outside
// the lock while the state marks it as in flight.
type Session struct {
	id          string
	processor   Processor
	enhancer    Enhancer
	observer    Observer
	logger      *slog.Logger
	now         func() time.Time
	maxFileSize int64

	mu        sync.Mutex
	state     State
	gen       uint64
	recorder  capture.Recorder
	captured  capture.Buffer
	processed []byte
	report    audenhance.Report
	result    *Result
	err       error
}

// New returns an Idle session. enhancer may be nil when only local
// processing is needed.
func New(processor Processor, enhancer Enhancer, opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		processor:   processor,
		enhancer:    enhancer,
		now:         time.Now,
		maxFileSize: capture.MaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.L("session")
	}
	s.logger = logging.WithSession(s.logger, s.id)

	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the session to Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Captured returns the captured buffer, if any.
func (s *Session) Captured() (capture.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured, s.captured.Data != nil
}

// Processed returns a copy of the current canonical buffer, or nil.
func (s *Session) Processed() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.processed)
}

// Report describes the last successful processing run.
func (s *Session) Report() audenhance.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Result returns the last enhancement result, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// setState must be called with mu held.
func (s *Session) setState(to State) {
	from := s.state
	s.state = to
	if s.observer != nil {
		s.observer.ObserveTransition(from.String(), to.String())
	}
	s.logger.Debug("state changed", "from", from.String(), logging.KeyState, to.String())
}

// fail must be called with mu held.
func (s *Session) fail(err error) {
	s.err = err
	s.setState(Failed)
	s.logger.Warn("session failed", "kind", Kind(err), logging.KeyError, err)
}

// discard drops every buffer and invalidates work in flight. Must be called
// with mu held.
func (s *Session) discard() capture.Recorder {
	rec := s.recorder
	s.recorder = nil
	s.captured = capture.Buffer{}
	s.processed = nil
	s.report = audenhance.Report{}
	s.result = nil
	s.err = nil
	s.gen++
	return rec
}

// StartCapture starts rec and moves to Capturing. From a settled state the
// previous buffers are discarded first. While an operation is in flight it
// returns a TransitionError matching ErrBusy and leaves that operation
// alone.
func (s *Session) StartCapture(ctx context.Context, rec capture.Recorder) error {
	if rec == nil {
		return ErrNoRecorder
	}

	s.mu.Lock()
	if s.state.busy() {
		defer s.mu.Unlock()
		return &TransitionError{From: s.state, Op: "start capture"}
	}
	s.discard()
	gen := s.gen
	s.setState(Capturing)
	s.mu.Unlock()

	err := rec.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		if err == nil {
			go rec.Stop()
		}
		return ErrReset
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.recorder = rec

	return nil
}

// StopCapture stops the recorder and keeps what it recorded so far.
func (s *Session) StopCapture() error {
	s.mu.Lock()
	if s.state != Capturing || s.recorder == nil {
		defer s.mu.Unlock()
		return &TransitionError{From: s.state, Op: "stop capture"}
	}
	rec := s.recorder
	s.recorder = nil
	gen := s.gen
	s.mu.Unlock()

	buf, err := rec.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return ErrReset
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.captured = buf
	s.setState(Captured)
	s.logger.Info("capture finished", logging.KeyBytes, buf.Len())

	return nil
}

// LoadFile reads a user supplied file. A rejected file leaves the state
// unchanged and returns a *capture.Error.
func (s *Session) LoadFile(path string) error {
	if st := s.State(); st.busy() {
		return &TransitionError{From: st, Op: "load file"}
	}

	buf, err := capture.FromFile(path, s.maxFileSize)
	if err != nil {
		return err
	}

	return s.LoadBuffer(buf)
}

// LoadBuffer uses buf as the captured audio after validating it.
func (s *Session) LoadBuffer(buf capture.Buffer) error {
	if err := capture.Validate(buf.MediaType, int64(buf.Len()), s.maxFileSize); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.busy() {
		return &TransitionError{From: s.state, Op: "load audio"}
	}
	s.discard()
	s.setState(Capturing)
	s.captured = buf
	s.setState(Captured)
	s.logger.Info("audio loaded",
		"name", buf.Name,
		"mediaType", buf.MediaType,
		logging.KeyBytes, buf.Len())

	return nil
}

// Process runs decode, resample, mix and encode on the captured audio.
// The stages cannot be cancelled once started.
func (s *Session) Process(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != Captured {
		defer s.mu.Unlock()
		return &TransitionError{From: s.state, Op: "process"}
	}
	buf := s.captured
	gen := s.gen
	s.setState(Processing)
	s.mu.Unlock()

	start := time.Now()
	out, rep, err := s.processor.Convert(buf.Data, buf.MediaType)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return ErrReset
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.processed = out
	s.report = rep
	s.setState(Ready)
	s.logger.Info("audio processed",
		logging.KeyFormat, rep.Format,
		logging.KeyBytes, len(out),
		logging.KeyDurationMs, elapsed.Milliseconds())

	return nil
}

// Submit sends the processed audio for enhancement. It is allowed from
// Ready, from Done to submit again, and from Failed when a processed buffer
// exists. The request honours ctx; if the session is reset before it
// returns, the result is dropped and ErrReset is returned.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	if s.enhancer == nil {
		return nil, ErrNoEnhancer
	}

	s.mu.Lock()
	switch {
	case s.state == Ready, s.state == Done, s.state == Failed && s.processed != nil:
	default:
		defer s.mu.Unlock()
		return nil, &TransitionError{From: s.state, Op: "submit"}
	}
	original := s.processed
	gen := s.gen
	s.result = nil
	s.err = nil
	s.setState(Submitting)
	s.mu.Unlock()

	enhanced, err := s.enhancer.Enhance(ctx, original)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Info("dropping enhancement result after reset")
		return nil, ErrReset
	}
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.result = &Result{
		Original: original,
		Enhanced: enhanced,
		Filename: Filename(s.now()),
	}
	s.setState(Done)

	r := *s.result
	return &r, nil
}

// Reset discards all buffers and returns to Idle from any state. An active
// recorder is stopped and work still in flight has its result dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	rec := s.discard()
	if s.state != Idle {
		s.setState(Idle)
	}
	s.mu.Unlock()

	if rec != nil {
		if _, err := rec.Stop(); err != nil {
			s.logger.Debug("stopping recorder on reset", logging.KeyError, err)
		}
	}
}
