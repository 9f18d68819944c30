// Command ledsim runs the LED stack on a host: the strip is previewed in
// the terminal and the console reads commands from stdin.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"ledcode-go/bus"
	"ledcode-go/drivers/strip"
	"ledcode-go/services/bridge"
	"ledcode-go/services/config"
	"ledcode-go/services/console"
	"ledcode-go/services/heartbeat"
	"ledcode-go/services/led"
	"ledcode-go/services/settings"
	"ledcode-go/types"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (defaults to the built-in pico config)")
	level := flag.String("log-level", "info", "logrus level")
	preview := flag.Bool("preview", true, "draw the strip on stderr")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(*level); err == nil {
		log.SetLevel(lvl)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("ledsim: config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := bus.NewBus(16)
	mon := b.NewConnection("monitor")
	go monitor(ctx, mon)
	config.Publish(b.NewConnection("config"), cfg.raw)

	var sink led.Sink = strip.Discard{}
	if *preview {
		sink = strip.NewANSI(os.Stderr, cfg.Sim.CellWidth)
	}
	var store settings.Store = settings.NewMemStore()
	if cfg.Sim.StateDir != "" {
		fs, err := settings.NewFileStore(cfg.Sim.StateDir)
		if err != nil {
			log.WithError(err).Fatal("ledsim: state dir")
		}
		store = fs
	}

	go led.New(b.NewConnection("led"), led.Options{
		Pixels: cfg.Strip.Pixels,
		Sink:   sink,
		Saver:  settings.NewSaver(store),
	}).Run(ctx)
	go bridge.Start(ctx, b.NewConnection("bridge"))
	hb := &heartbeat.Service{
		Interval: 10 * time.Second,
		Print:    func(l string) { log.Info(l) },
	}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	log.WithFields(log.Fields{
		"pixels": cfg.Strip.Pixels,
		"order":  cfg.Strip.Order,
		"state":  cfg.Sim.StateDir,
	}).Info("ledsim: running; type HELP")

	con := console.New(b.NewConnection("console"), os.Stdout, console.Options{
		Reset: func() { log.Warn("ledsim: SYSTEM RESET has no effect on a host") },
	})
	if err := con.Serve(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("ledsim: console")
	}
}

// monitor logs service status changes.
func monitor(ctx context.Context, conn *bus.Connection) {
	ledSub := conn.Subscribe(bus.T("led", "status"))
	bridgeSub := conn.Subscribe(bus.T("bridge", "state"))
	defer conn.Disconnect()
	for {
		var msg *bus.Message
		select {
		case <-ctx.Done():
			return
		case msg = <-ledSub.Channel():
		case msg = <-bridgeSub.Channel():
		}
		st, ok := msg.Payload.(types.ServiceState)
		if !ok {
			continue
		}
		e := log.WithFields(log.Fields{"topic": msg.Topic.String(), "level": st.Level, "status": st.Status})
		if st.Error != "" {
			e.WithField("error", st.Error).Warn("service state")
			continue
		}
		e.Info("service state")
	}
}
