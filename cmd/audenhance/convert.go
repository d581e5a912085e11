// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audenhance/capture"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output.wav>",
	Short: "Convert an audio file to 16 kHz mono 16-bit WAV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(args[0], args[1])
	},
}

func runConvert(in, out string) error {
	buf, err := capture.FromFile(in, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	data, rep, err := newConverter().Convert(buf.Data, buf.MediaType)
	if err != nil {
		return err
	}
	printReport(buf.Name, rep)

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printWritten(out, len(data))

	return nil
}
