//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"io"
	"os"

	"ledcode-go/drivers/strip"
	"ledcode-go/services/led"
	"ledcode-go/services/settings"
	"ledcode-go/types"
)

// Host builds preview the strip on stderr and talk on stdin/stdout.
func newSink(types.StripConfig) (led.Sink, error) { return strip.NewANSI(os.Stderr, 1), nil }

func newStore() (settings.Store, error) { return settings.NewFileStore(".ledcode") }

func resetFunc() func() { return nil }

func consolePort(context.Context, types.ConsoleConfig) (io.Reader, io.Writer, error) {
	return os.Stdin, os.Stdout, nil
}
