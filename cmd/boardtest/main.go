//go:build rp2040 || rp2350

// cmd/boardtest/main.go
package main

import (
	"context"
	"fmt"
	"machine"
	"time"

	"ledcode-go/bus"
	"ledcode-go/drivers/strip"
	"ledcode-go/services/led"
	"ledcode-go/types"
)

// ---------- Configuration ----------

const (
	stripPin    = machine.GPIO15
	stripPixels = 60
	stripOrder  = strip.GRBW

	readyTimeout  = 5 * time.Second
	settleTimeout = 10 * time.Second
	stepDwell     = 1500 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

type step struct {
	name string
	verb string
	p    any
}

// Exercises each colour channel, both gradient ends and the fader.
var sequence = []step{
	{"effect off", led.VerbToggle, types.LEDToggle{What: types.ToggleEffect}},
	{"fast fades", led.VerbSetParam, types.LEDSetParam{Name: "color_increment", Value: 10}},
	{"single colour", led.VerbSetGradient, types.LEDSetGradient{Field: types.GradientFieldMode, Name: "single_color"}},
	{"red", led.VerbSetColor, types.LEDSetColor{Target: 1, Color: types.Pixel{R: 255}}},
	{"green", led.VerbSetColor, types.LEDSetColor{Target: 1, Color: types.Pixel{G: 255}}},
	{"blue", led.VerbSetColor, types.LEDSetColor{Target: 1, Color: types.Pixel{B: 255}}},
	{"white", led.VerbSetColor, types.LEDSetColor{Target: 1, Color: types.Pixel{W: 255}}},
	{"linear", led.VerbSetGradient, types.LEDSetGradient{Field: types.GradientFieldMode, Name: "linear"}},
	{"two: blue", led.VerbSetColor, types.LEDSetColor{Target: 2, Color: types.Pixel{B: 255}}},
	{"dim", led.VerbSetBrightness, types.LEDSetBrightness{Level: 32}},
	{"full", led.VerbSetBrightness, types.LEDSetBrightness{Level: 255}},
	{"off", led.VerbSetOnOff, types.LEDSetOnOff{On: false}},
	{"on", led.VerbSetOnOff, types.LEDSetOnOff{On: true}},
	{"effect on", led.VerbToggle, types.LEDToggle{What: types.ToggleEffect}},
}

func tControl(verb string) bus.Topic { return bus.T("led", "control", verb) }

var (
	tStatus = bus.T("led", "status")
	tState  = bus.T("led", "state")
)

// ---------- Helpers ----------

func waitReady(c *bus.Connection, d time.Duration) bool {
	sub := c.Subscribe(tStatus)
	defer c.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.ServiceState)
		return ok && st.Level == "ready"
	case <-time.After(d):
		return false
	}
}

func request(ctx context.Context, c *bus.Connection, verb string, p any) (any, error) {
	rctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	rep, err := c.RequestWait(rctx, c.NewMessage(tControl(verb), p, false))
	if err != nil {
		return nil, err
	}
	if e, ok := rep.Payload.(types.ErrorReply); ok {
		return nil, fmt.Errorf("%s: %s", verb, e.Error)
	}
	return rep.Payload, nil
}

// waitSettled blocks until led/state reports the fader has caught up.
func waitSettled(sub *bus.Subscription, d time.Duration) bool {
	dead := time.After(d)
	for {
		select {
		case m := <-sub.Channel():
			if st, ok := m.Payload.(types.LEDState); ok && st.Settled {
				return true
			}
		case <-dead:
			return false
		}
	}
}

func stats(ctx context.Context, c *bus.Connection) types.LEDStats {
	rep, err := request(ctx, c, led.VerbStats, nil)
	if err != nil {
		return types.LEDStats{}
	}
	st, _ := rep.(types.LEDStats)
	return st
}

func flashPassFail(ctx context.Context, c *bus.Connection, pass bool) {
	px := types.Pixel{R: 255}
	if pass {
		px = types.Pixel{G: 255}
	}
	_, _ = request(ctx, c, led.VerbSetGradient, types.LEDSetGradient{Field: types.GradientFieldMode, Name: "single_color"})
	_, _ = request(ctx, c, led.VerbSetColor, types.LEDSetColor{Target: 1, Color: px})
	time.Sleep(2 * stepDwell)
}

// ---------- Main ----------

func main() {
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	b := bus.NewBus(8)
	ui := b.NewConnection("ui")

	sink := strip.NewWS2812(stripPin, stripOrder, stripPixels)
	go led.New(b.NewConnection("led"), led.Options{Pixels: stripPixels, Sink: sink}).Run(ctx)

	if !waitReady(ui, readyTimeout) {
		println("[boardtest] LED service not ready within timeout; continuing")
	}
	stateSub := ui.Subscribe(tState)
	defer ui.Unsubscribe(stateSub)

	cycle := 0
	for {
		cycle++
		fmt.Println("=== boardtest: cycle", cycle, "===")
		before := stats(ctx, ui)

		failed := 0
		for _, s := range sequence {
			if _, err := request(ctx, ui, s.verb, s.p); err != nil {
				fmt.Println("step", s.name, "failed:", err)
				failed++
				continue
			}
			if !waitSettled(stateSub, settleTimeout) {
				fmt.Println("step", s.name, "did not settle")
				failed++
				continue
			}
			fmt.Println("step", s.name, "ok")
			time.Sleep(stepDwell)
		}

		after := stats(ctx, ui)
		pass := failed == 0 && after.Frames > before.Frames && after.SinkErrors == before.SinkErrors
		if pass {
			fmt.Println("[PASS] frames:", after.Frames-before.Frames)
		} else {
			fmt.Println("[FAIL] failed steps:", failed, "sink errors:", after.SinkErrors-before.SinkErrors)
		}
		flashPassFail(ctx, ui, pass)

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			fmt.Println("completed", cycle, "cycles; halting")
			return
		}
	}
}
