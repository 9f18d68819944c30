package heartbeat

import (
	"context"
	"strconv"
	"time"

	"ledcode-go/bus"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
)

var (
	topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}
	topicLEDStats        = bus.Topic{"led", "control", "stats"}
)

type Service struct {
	Interval time.Duration // initial period; config/heartbeat overrides it
	Print    func(line string)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(s.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			s.Print(line(t, s.stats(ctx, conn)))
		case msg := <-cfgSub.Channel():
			cfg, err := jsonx.Decode[types.HeartbeatConfig](msg.Payload)
			if err != nil || cfg.Interval <= 0 {
				println("Warn: heartbeat config ignored")
				continue
			}
			tick.Reset(time.Duration(cfg.Interval) * time.Second)
			println("Info:", "Heartbeat interval set to", cfg.Interval, "seconds")
		}
	}
}

// stats asks the LED service for its counters; nil when it does not answer.
func (s *Service) stats(ctx context.Context, conn *bus.Connection) *types.LEDStats {
	rctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	rep, err := conn.RequestWait(rctx, conn.NewMessage(topicLEDStats, nil, false))
	if err != nil {
		return nil
	}
	st, ok := rep.Payload.(types.LEDStats)
	if !ok {
		return nil
	}
	return &st
}

func line(t time.Time, st *types.LEDStats) string {
	s := t.Format("15:04:05") + " Heartbeat"
	if st == nil {
		return s + " led=down"
	}
	if st.Unsaved {
		s += " unsaved"
	}
	return s +
		" px=" + strconv.Itoa(st.Pixels) +
		" frames=" + strconv.FormatUint(uint64(st.Frames), 10) +
		" fx=" + strconv.FormatUint(uint64(st.EffectSteps), 10) +
		" sink_err=" + strconv.FormatUint(uint64(st.SinkErrors), 10) +
		" changes=" + strconv.FormatUint(uint64(st.ChangeCounter), 10) +
		" saves=" + strconv.FormatUint(uint64(st.Saves), 10)
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Interval <= 0 {
		s.Interval = time.Second
	}
	if s.Print == nil {
		s.Print = func(l string) { println("Info:", l) }
	}
	go s.serviceLoop(ctx, conn)
	return nil
}
