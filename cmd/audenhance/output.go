// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/ik5/audenhance"
	"github.com/ik5/audenhance/capture"
	"github.com/ik5/audenhance/enhance"
	"github.com/ik5/audenhance/session"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// userMessage picks the text shown for err.
func userMessage(err error) string {
	var ce *capture.Error
	if errors.As(err, &ce) {
		return ce.Message()
	}

	switch session.Kind(err) {
	case session.KindServer, session.KindNetwork:
		return enhance.UserMessage(err)
	case session.KindDecode:
		return "Could not read the audio: " + err.Error()
	}
	return err.Error()
}

func printError(err error) {
	red.Fprintln(os.Stderr, "Error:", userMessage(err))
	if kind := session.Kind(err); kind != session.KindUnknown {
		faint.Fprintf(os.Stderr, "  (%s: %v)\n", kind, err)
	}
}

func printReport(name string, rep audenhance.Report) {
	fmt.Printf("%s: %s, %d Hz, %d channel(s), %s\n",
		name, rep.Format, rep.SourceRate, rep.SourceChans, rep.Duration.Round(time.Millisecond))
}

func printWritten(path string, n int) {
	green.Printf("Wrote %s ", path)
	faint.Printf("(%d bytes)\n", n)
}
