// SPDX-License-Identifier: EPL-2.0

// Package config loads audenhance settings from a YAML file and
// AUDENHANCE_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultEndpoint is the public enhancement service.
const DefaultEndpoint = "https://hieugiaosu--mage-deploy-endpoint-deployendpoint-web.modal.run/"

// CanonicalRate is the only accepted target_rate. The key exists so a
// config that asks for another rate fails loudly instead of being ignored.
const CanonicalRate = 16000

type Config struct {
	Endpoint       string `mapstructure:"endpoint"`
	NumSteps       int    `mapstructure:"num_steps"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	TargetRate     int    `mapstructure:"target_rate"`
	MaxFileSize    int64  `mapstructure:"max_file_size"`
	MetricsAddr    string `mapstructure:"metrics_addr"`

	Log    LogConfig    `mapstructure:"log"`
	Record RecordConfig `mapstructure:"record"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RecordConfig struct {
	SampleRate      int `mapstructure:"sample_rate"`
	FramesPerBuffer int `mapstructure:"frames_per_buffer"`
	MaxSeconds      int `mapstructure:"max_seconds"`
}

func Default() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		NumSteps:       20,
		TimeoutSeconds: 120,
		TargetRate:     CanonicalRate,
		MaxFileSize:    50 << 20,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Record: RecordConfig{
			SampleRate:      16000,
			FramesPerBuffer: 1024,
			MaxSeconds:      60,
		},
	}
}

// Timeout is TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads cfgFile, or audenhance.yaml from the working directory or the
// user config directory when cfgFile is empty. A missing default file is not
// an error. Environment variables override file values, e.g.
// AUDENHANCE_NUM_STEPS or AUDENHANCE_LOG_LEVEL.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("audenhance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("AUDENHANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested keys
// during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("num_steps", d.NumSteps)
	v.SetDefault("timeout_seconds", d.TimeoutSeconds)
	v.SetDefault("target_rate", d.TargetRate)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("record.sample_rate", d.Record.SampleRate)
	v.SetDefault("record.frames_per_buffer", d.Record.FramesPerBuffer)
	v.SetDefault("record.max_seconds", d.Record.MaxSeconds)
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "audenhance")
}
