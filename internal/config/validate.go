// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidationResult separates problems that must stop the program from those
// that were corrected in place.
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

func (r ValidationResult) HasFatals() bool { return len(r.Fatals) > 0 }

// Validate checks c, clamping out-of-range numbers to safe values. Clamps
// are reported as warnings and logged.
func (c *Config) Validate() ValidationResult {
	var r ValidationResult

	u, err := url.Parse(c.Endpoint)
	switch {
	case c.Endpoint == "":
		r.Fatals = append(r.Fatals, fmt.Errorf("endpoint is required"))
	case err != nil:
		r.Fatals = append(r.Fatals, fmt.Errorf("endpoint %q is not a valid URL: %w", c.Endpoint, err))
	case u.Scheme != "http" && u.Scheme != "https":
		r.Fatals = append(r.Fatals, fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		r.Fatals = append(r.Fatals, fmt.Errorf("endpoint %q has no host", c.Endpoint))
	}

	if c.TargetRate != CanonicalRate {
		r.Fatals = append(r.Fatals, fmt.Errorf("target_rate %d is not supported, canonical output is fixed at %d Hz", c.TargetRate, CanonicalRate))
	}

	clamp(&r, "num_steps", &c.NumSteps, 1, 200)
	clamp(&r, "timeout_seconds", &c.TimeoutSeconds, 1, 3600)
	clamp(&r, "record.sample_rate", &c.Record.SampleRate, 8000, 192000)
	clamp(&r, "record.frames_per_buffer", &c.Record.FramesPerBuffer, 64, 16384)
	clamp(&r, "record.max_seconds", &c.Record.MaxSeconds, 1, 3600)

	if c.MaxFileSize <= 0 {
		r.Warnings = append(r.Warnings, fmt.Errorf("max_file_size %d is not positive, using %d", c.MaxFileSize, Default().MaxFileSize))
		c.MaxFileSize = Default().MaxFileSize
	}

	if c.Log.Level != "" && !validLogLevels[strings.ToLower(c.Log.Level)] {
		r.Warnings = append(r.Warnings, fmt.Errorf("log.level %q is not valid (use debug, info, warn, error)", c.Log.Level))
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		r.Warnings = append(r.Warnings, fmt.Errorf("log.format %q is not valid (use text or json)", c.Log.Format))
	}

	for _, err := range r.Warnings {
		slog.Warn("config validation", "error", err)
	}

	return r
}

func clamp(r *ValidationResult, key string, v *int, lo, hi int) {
	switch {
	case *v < lo:
		r.Warnings = append(r.Warnings, fmt.Errorf("%s %d is below minimum %d, clamping", key, *v, lo))
		*v = lo
	case *v > hi:
		r.Warnings = append(r.Warnings, fmt.Errorf("%s %d exceeds maximum %d, clamping", key, *v, hi))
		*v = hi
	}
}
