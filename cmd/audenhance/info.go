// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audenhance"
	"github.com/ik5/audenhance/capture"
	"github.com/ik5/audenhance/formats/wav"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Decode a file and print its sample rate, channels and duration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func runInfo(path string) error {
	buf, err := capture.FromFile(path, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	sig, format, err := audenhance.DefaultRegistry().Decode(buf.Data, buf.MediaType)
	if err != nil {
		return err
	}

	fmt.Printf("File:        %s\n", buf.Name)
	fmt.Printf("Media type:  %s\n", buf.MediaType)
	fmt.Printf("Format:      %s\n", format)
	fmt.Printf("Sample rate: %d Hz\n", sig.SampleRate)
	fmt.Printf("Channels:    %d\n", sig.NumChannels())
	fmt.Printf("Frames:      %d\n", sig.Len())
	fmt.Printf("Duration:    %s\n", sig.Duration())

	if _, err := wav.ParseCanonical(buf.Data); err == nil && sig.SampleRate == audenhance.TargetRate {
		green.Println("Already canonical 16-bit mono WAV")
	}

	return nil
}
