//go:build rp2040 || rp2350

package main

import (
	"context"
	"errors"
	"io"
	"machine"

	"ledcode-go/drivers/strip"
	"ledcode-go/services/console"
	"ledcode-go/services/led"
	"ledcode-go/services/settings"
	"ledcode-go/types"
	"ledcode-go/x/strx"
)

func newSink(cfg types.StripConfig) (led.Sink, error) {
	order, ok := strip.ParseOrder(strx.Coalesce(cfg.Order, "grbw"))
	if !ok {
		return nil, errors.New("unknown colour order: " + cfg.Order)
	}
	a := strip.NewWS2812(machine.Pin(cfg.Pin), order, cfg.Pixels)
	if !cfg.Dual {
		return a, nil
	}
	split := cfg.SplitAt
	if split <= 0 {
		split = cfg.Pixels / 2
	}
	d := strip.NewDual(a, strip.NewWS2812(machine.Pin(cfg.PinB), order, cfg.Pixels), split)
	d.Interleaved, d.Reverse = cfg.Interleaved, cfg.Reverse
	return d, nil
}

func newStore() (settings.Store, error) { return settings.NewFlashStore(), nil }

func resetFunc() func() { return machine.CPUReset }

func consolePort(ctx context.Context, cfg types.ConsoleConfig) (io.Reader, io.Writer, error) {
	p, err := console.OpenPort(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return p, p, nil
}
