// Package bridge keeps a smart-home mirror (on, level, two hue/sat colours)
// in step with the LED service and optionally exchanges it with a hub
// over a framed serial link.
package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ledcode-go/bus"
	"ledcode-go/errcode"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
	"ledcode-go/x/timex"
)

// Config is expected on config/bridge.
type Config struct {
	RGBW      bool             `json:"rgbw" yaml:"rgbw"`
	Transport *TransportConfig `json:"transport,omitempty" yaml:"transport,omitempty"`
}

type TransportConfig struct {
	// "uart" (provided here) or other names registered via RegisterTransport.
	Type string      `json:"type" yaml:"type"`
	UART *UARTConfig `json:"uart,omitempty" yaml:"uart,omitempty"`
}

// UARTConfig carries enough for the platform dialler to open the UART.
type UARTConfig struct {
	ID    string `json:"id" yaml:"id"` // "uart0" or "uart1"
	Baud  int    `json:"baud" yaml:"baud"`
	RxPin int    `json:"rx_pin" yaml:"rx_pin"`
	TxPin int    `json:"tx_pin" yaml:"tx_pin"`
}

var (
	topicConfig   = bus.Topic{"config", "bridge"}
	topicSet      = bus.Topic{"bridge", "set"}
	topicRGBW     = bus.Topic{"bridge", "rgbw"}
	topicMirror   = bus.Topic{"bridge", "mirror"}
	topicState    = bus.Topic{"bridge", "state"}
	topicLEDState = bus.Topic{"led", "state"}
)

const ledTimeout = 500 * time.Millisecond

type Service struct {
	conn *bus.Connection

	mirror types.Mirror
	rgbw   bool
	synced bool         // mirror has been read back from the LED service at least once
	cur    atomic.Value // types.Mirror, read by the link goroutine

	remote chan types.Mirror // from the hub
	out    chan types.Mirror // to the hub, latest wins

	mu     sync.Mutex
	curRun context.CancelFunc
}

// Start runs the bridge service until ctx is cancelled.
func Start(ctx context.Context, conn *bus.Connection) {
	New(conn).Run(ctx)
}

func New(conn *bus.Connection) *Service {
	s := &Service{
		conn:   conn,
		mirror: DefaultMirror,
		remote: make(chan types.Mirror, 4),
		out:    make(chan types.Mirror, 1),
	}
	s.cur.Store(s.mirror)
	return s
}

func (s *Service) current() types.Mirror { return s.cur.Load().(types.Mirror) }

func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	setSub := s.conn.Subscribe(topicSet)
	rgbwSub := s.conn.Subscribe(topicRGBW)
	ledSub := s.conn.Subscribe(topicLEDState)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(setSub)
	defer s.conn.Unsubscribe(rgbwSub)
	defer s.conn.Unsubscribe(ledSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopLink()
			return

		case msg := <-cfgSub.Channel():
			cfg, err := jsonx.Decode[Config](msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.setRGBW(ctx, cfg.RGBW)
			if cfg.Transport == nil || cfg.Transport.Type == "" {
				s.stopLink()
				s.publishState("ready", "local_only", nil)
				continue
			}
			s.startLink(ctx, *cfg.Transport)

		case msg := <-setSub.Channel():
			m, err := jsonx.Decode[types.Mirror](msg.Payload)
			if err != nil {
				s.conn.Reply(msg, types.ErrorReply{Error: string(errcode.InvalidPayload)}, false)
				continue
			}
			if err := s.apply(ctx, m); err != nil {
				s.conn.Reply(msg, types.ErrorReply{Error: err.Error()}, false)
				continue
			}
			s.conn.Reply(msg, s.mirror, false)

		case msg := <-rgbwSub.Channel():
			r, err := jsonx.Decode[types.BridgeRGBW](msg.Payload)
			if err != nil {
				s.conn.Reply(msg, types.ErrorReply{Error: string(errcode.InvalidPayload)}, false)
				continue
			}
			if r.Toggle {
				r.Enabled = !s.rgbw
			}
			s.setRGBW(ctx, r.Enabled)
			s.conn.Reply(msg, types.BridgeRGBW{Enabled: s.rgbw}, false)

		case m := <-s.remote:
			if err := s.apply(ctx, m); err != nil {
				println("[bridge] hub write failed:", err.Error())
			}

		case <-ledSub.Channel():
			drain(ledSub)
			s.refresh(ctx)
		}
	}
}

// apply sanitises m and stages it on the LED service.
func (s *Service) apply(ctx context.Context, m types.Mirror) error {
	m = Sanitize(m)
	s.mirror = m
	steps := []struct {
		verb string
		p    any
	}{
		{"set_color", types.LEDSetColor{Target: 1, Color: ColorToPixel(m.Hue1, m.Sat1, s.rgbw)}},
		{"set_color", types.LEDSetColor{Target: 2, Color: ColorToPixel(m.Hue2, m.Sat2, s.rgbw)}},
		{"set_brightness", types.LEDSetBrightness{Level: LevelToBrightness(m.Level)}},
		{"set_onoff", types.LEDSetOnOff{On: m.On}},
	}
	for _, st := range steps {
		if _, err := s.call(ctx, st.verb, st.p); err != nil {
			return err
		}
	}
	s.publishMirror()
	return nil
}

// setRGBW switches white extraction and re-stages the mirror on a change.
func (s *Service) setRGBW(ctx context.Context, on bool) {
	if s.rgbw == on {
		return
	}
	s.rgbw = on
	if !s.synced {
		return
	}
	if err := s.apply(ctx, s.mirror); err != nil {
		println("[bridge] rgbw re-apply failed:", err.Error())
	}
}

// refresh rebuilds the mirror from the staged LED configuration.
func (s *Service) refresh(ctx context.Context) {
	rep, err := s.call(ctx, "get", nil)
	if err != nil {
		return
	}
	v, ok := rep.(types.LEDConfigView)
	if !ok {
		return
	}
	s.synced = true
	m := FromView(v)
	if m == s.mirror {
		return
	}
	s.mirror = m
	s.publishMirror()
}

func (s *Service) call(ctx context.Context, verb string, p any) (any, error) {
	rctx, cancel := context.WithTimeout(ctx, ledTimeout)
	defer cancel()
	rep, err := s.conn.RequestWait(rctx, s.conn.NewMessage(bus.T("led", "control", verb), p, false))
	if err != nil {
		return nil, err
	}
	if e, ok := rep.Payload.(types.ErrorReply); ok {
		return nil, errcode.Code(e.Error)
	}
	return rep.Payload, nil
}

func (s *Service) publishMirror() {
	s.cur.Store(s.mirror)
	s.conn.Publish(s.conn.NewMessage(topicMirror, s.mirror, true))
	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- s.mirror:
	default:
	}
}

func (s *Service) publishState(level, status string, err error) {
	pl := types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}
	if err != nil {
		pl.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, pl, true))
}

func drain(sub *bus.Subscription) {
	for {
		select {
		case <-sub.Channel():
		default:
			return
		}
	}
}
