// SPDX-License-Identifier: EPL-2.0

// Command audenhance converts audio to 16 kHz mono PCM WAV and submits it to
// a speech enhancement service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audenhance"
	"github.com/ik5/audenhance/enhance"
	"github.com/ik5/audenhance/internal/config"
	"github.com/ik5/audenhance/internal/logging"
	"github.com/ik5/audenhance/internal/metrics"
	"github.com/ik5/audenhance/session"
)

var (
	version = "0.1.0"

	cfgFile     string
	endpoint    string
	numSteps    int
	metricsAddr string
	logLevel    string

	cfg           *config.Config
	stats         *metrics.Metrics
	metricsServer *http.Server
)

var rootCmd = &cobra.Command{
	Use:   "audenhance",
	Short: "Speech enhancement client",
	Long: `audenhance converts recordings and audio files to 16 kHz mono 16-bit WAV
and sends them to a remote speech enhancement (denoising) service.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownMetrics()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("audenhance v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./audenhance.yaml or $XDG_CONFIG_HOME/audenhance/audenhance.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "enhancement service URL")
	rootCmd.PersistentFlags().IntVar(&numSteps, "steps", 0, "inference steps sent as num_step")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		shutdownMetrics()
		printError(err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if numSteps != 0 {
		cfg.NumSteps = numSteps
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logging.Init(cfg.Log.Format, cfg.Log.Level, os.Stderr)

	if result := cfg.Validate(); result.HasFatals() {
		return errors.Join(result.Fatals...)
	}

	stats = metrics.New()
	if cfg.MetricsAddr != "" {
		startMetrics(cfg.MetricsAddr)
	}

	return nil
}

func startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", stats.Handler())

	metricsServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log := logging.L("metrics")
	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", logging.KeyError, err)
		}
	}()
}

func shutdownMetrics() {
	if metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		slog.Warn("metrics server shutdown", logging.KeyError, err)
	}
	metricsServer = nil
}

func newConverter() *audenhance.Converter {
	conv := audenhance.NewConverter()
	conv.Observer = stats
	return conv
}

func newClient() (*enhance.Client, error) {
	return enhance.NewClient(enhance.Config{
		Endpoint:  cfg.Endpoint,
		NumSteps:  cfg.NumSteps,
		Timeout:   cfg.Timeout(),
		UserAgent: "audenhance/" + version,
	}, enhance.WithObserver(stats))
}

func newSession(withClient bool) (*session.Session, error) {
	var enh session.Enhancer
	if withClient {
		client, err := newClient()
		if err != nil {
			return nil, err
		}
		enh = client
	}

	return session.New(newConverter(), enh,
		session.WithObserver(stats),
		session.WithMaxFileSize(cfg.MaxFileSize),
	), nil
}
