package main

import (
	"context"
	"time"

	"ledcode-go/bus"
	"ledcode-go/services/bridge"
	"ledcode-go/services/config"
	"ledcode-go/services/console"
	"ledcode-go/services/heartbeat"
	"ledcode-go/services/led"
	"ledcode-go/services/settings"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
)

// deviceID selects the embedded config; override with -ldflags "-X main.deviceID=pico-dual".
var deviceID = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", deviceID)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	b := bus.NewBus(8)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	ui := b.NewConnection("main")
	stripCfg, err := waitConfig[types.StripConfig](ctx, ui, "strip")
	if err != nil {
		println("[main] strip config:", err.Error())
	}
	consoleCfg, err := waitConfig[types.ConsoleConfig](ctx, ui, "console")
	if err != nil {
		println("[main] console config:", err.Error())
	}

	sink, err := newSink(stripCfg)
	if err != nil {
		println("[main] sink:", err.Error())
	}
	var saver *settings.Saver
	if store, err := newStore(); err != nil {
		println("[main] settings store:", err.Error())
	} else {
		saver = settings.NewSaver(store)
	}

	go led.New(b.NewConnection("led"), led.Options{
		Pixels: stripCfg.Pixels,
		Sink:   sink,
		Saver:  saver,
	}).Run(ctx)
	go bridge.Start(ctx, b.NewConnection("bridge"))
	hb := &heartbeat.Service{Interval: 10 * time.Second}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	r, w, err := consolePort(ctx, consoleCfg)
	if err != nil {
		println("[main] console port:", err.Error())
		select {}
	}
	con := console.New(b.NewConnection("console"), w, console.Options{
		Echo:  consoleCfg.Echo,
		Reset: resetFunc(),
	})
	if err := con.Run(ctx, r, time.Second); err == nil {
		println("[console] input closed")
	}
	select {}
}

// waitConfig returns the retained config/<key> value, or the zero value
// if none arrives within a second.
func waitConfig[T any](ctx context.Context, conn *bus.Connection, key string) (T, error) {
	sub := conn.Subscribe(bus.T("config", key))
	defer conn.Unsubscribe(sub)

	var zero T
	select {
	case msg := <-sub.Channel():
		return jsonx.Decode[T](msg.Payload)
	case <-time.After(time.Second):
		return zero, context.DeadlineExceeded
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
