// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ik5/audenhance/session"
)

var (
	enhanceOut      string
	enhanceOriginal string
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <input>",
	Short: "Convert a file and submit it for enhancement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newSession(true)
		if err != nil {
			return err
		}
		if err := s.LoadFile(args[0]); err != nil {
			return err
		}
		return processAndSubmit(ctx, s, enhanceOut, enhanceOriginal)
	},
}

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceOut, "output", "o", "", "enhanced output file (default enhanced_audio_<millis>.wav)")
	enhanceCmd.Flags().StringVar(&enhanceOriginal, "save-original", "", "also write the 16 kHz input that was sent")
}

// processAndSubmit runs the local pipeline on the captured audio, submits it
// and writes the results.
func processAndSubmit(ctx context.Context, s *session.Session, out, original string) error {
	if err := s.Process(ctx); err != nil {
		return err
	}
	buf, _ := s.Captured()
	printReport(buf.Name, s.Report())

	faint.Println("Submitting for enhancement...")
	res, err := s.Submit(ctx)
	if err != nil {
		return err
	}

	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Enhanced, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printWritten(out, len(res.Enhanced))

	if original != "" {
		if err := os.WriteFile(original, res.Original, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", original, err)
		}
		printWritten(original, len(res.Original))
	}

	return nil
}
