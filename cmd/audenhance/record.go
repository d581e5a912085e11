// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audenhance/capture"
)

var (
	recordSeconds int
	recordOut     string
	recordStdin   bool
	recordEnhance bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the microphone until Ctrl-C or the duration elapses",
	Long: `Record audio, convert it to 16 kHz mono WAV and optionally submit it.

The microphone is only available in builds made with -tags portaudio.
With --stdin, raw 16-bit little-endian PCM at record.sample_rate is read
from standard input instead, e.g.

  arecord -f S16_LE -r 16000 -c 1 -t raw | audenhance record --stdin`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().IntVarP(&recordSeconds, "duration", "d", 0, "stop after this many seconds (default record.max_seconds)")
	recordCmd.Flags().StringVarP(&recordOut, "output", "o", "recording_16k.wav", "converted recording")
	recordCmd.Flags().BoolVar(&recordStdin, "stdin", false, "read raw PCM from standard input")
	recordCmd.Flags().BoolVar(&recordEnhance, "enhance", false, "submit the recording and write the enhanced audio too")
}

func runRecord(cmd *cobra.Command, args []string) error {
	seconds := recordSeconds
	if seconds <= 0 {
		seconds = cfg.Record.MaxSeconds
	}

	rc := capture.DefaultRecorderConfig()
	rc.SampleRate = cfg.Record.SampleRate
	rc.FramesPerBuffer = cfg.Record.FramesPerBuffer
	rc.MaxDuration = time.Duration(seconds) * time.Second

	var rec capture.Recorder
	switch {
	case recordStdin:
		rec = capture.NewReaderRecorder(os.Stdin, rc)
	case capture.MicAvailable:
		rec = capture.NewMicRecorder(rc)
	default:
		return &capture.Error{Kind: capture.NoDevice, Err: fmt.Errorf("built without microphone support, use --stdin")}
	}

	s, err := newSession(recordEnhance)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.StartCapture(ctx, rec); err != nil {
		return err
	}
	yellow.Printf("Recording for up to %ds, press Ctrl-C to stop\n", seconds)

	var finished <-chan struct{}
	if d, ok := rec.(interface{ Done() <-chan struct{} }); ok {
		finished = d.Done()
	}

	select {
	case <-ctx.Done():
	case <-finished:
	case <-time.After(rc.MaxDuration):
	}
	stop()

	if err := s.StopCapture(); err != nil {
		return err
	}
	buf, _ := s.Captured()
	faint.Printf("Captured %d bytes\n", buf.Len())

	if recordEnhance {
		return processAndSubmit(cmd.Context(), s, "", recordOut)
	}

	if err := s.Process(cmd.Context()); err != nil {
		return err
	}
	printReport(buf.Name, s.Report())

	data := s.Processed()
	if err := os.WriteFile(recordOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", recordOut, err)
	}
	printWritten(recordOut, len(data))

	return nil
}
