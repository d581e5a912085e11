// SPDX-License-Identifier: EPL-2.0

package enhance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/ik5/audenhance/internal/logging"
)

const (
	DefaultNumSteps = 20
	DefaultTimeout  = 120 * time.Second

	// Multipart field and file name expected by the service.
	FieldName = "audio"
	FileName  = "audio.wav"
)

// Config contains enhancement client configuration.
type Config struct {
	Endpoint  string
	NumSteps  int
	Timeout   time.Duration
	UserAgent string
}

// Observer receives the outcome of every request.
type Observer interface {
	ObserveRequest(elapsed time.Duration, sent, received int, err error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Its Timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client submits canonical WAV buffers to the enhancement service. It never
// retries.
type Client struct {
	config     Config
	requestURL string
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// NewClient validates config and builds a client.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if config.NumSteps <= 0 {
		config.NumSteps = DefaultNumSteps
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = "audenhance/1.0"
	}

	u, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", config.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}
	q := u.Query()
	q.Set("num_step", strconv.Itoa(config.NumSteps))
	u.RawQuery = q.Encode()

	c := &Client{
		config:     config,
		requestURL: u.String(),
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logging.L("enhance"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Enhance posts canonical WAV audio and returns the response body, which is
// the enhanced audio. Non-2xx responses are *ServerError; failures without a
// response are *NetworkError.
func (c *Client) Enhance(ctx context.Context, canonical []byte) ([]byte, error) {
	if len(canonical) == 0 {
		return nil, ErrEmptyAudio
	}

	start := time.Now()
	out, err := c.doRequest(ctx, canonical)
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveRequest(elapsed, len(canonical), len(out), err)
	}

	log := c.logger.With(
		slog.Int(logging.KeyBytes, len(canonical)),
		slog.Int64(logging.KeyDurationMs, elapsed.Milliseconds()),
	)
	if err != nil {
		log.Warn("enhancement request failed", logging.KeyError, err)
		return nil, err
	}
	log.Info("enhancement request completed", "received", len(out))

	return out, nil
}

func (c *Client) doRequest(ctx context.Context, canonical []byte) ([]byte, error) {
	body, contentType, err := createMultipartBody(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "post", URL: c.requestURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read", URL: c.requestURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Status: resp.Status, Body: respBody}
	}

	return respBody, nil
}

func createMultipartBody(canonical []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldName, FileName))
	h.Set("Content-Type", "audio/wav")

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(canonical); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
