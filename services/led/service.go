// Package led runs one rendering engine behind the bus: it ticks the
// pipeline, serves led/control requests and publishes read-back state.
package led

import (
	"context"
	"math/rand"
	"time"

	"ledcode-go/bus"
	"ledcode-go/errcode"
	"ledcode-go/services/led/internal/core"
	"ledcode-go/services/settings"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
	"ledcode-go/x/timex"
)

// Sink receives each rendered frame.
type Sink interface {
	Write(px []types.Pixel) error
}

type Options struct {
	Pixels int
	Sink   Sink
	Saver  *settings.Saver // nil disables persistence
	Poll   time.Duration   // scheduler poll period
	Clock  func() uint32   // milliseconds; defaults to timex.Millis
	Rand   *rand.Rand
}

const defaultPoll = 2 * time.Millisecond

var (
	topicConfigLED = bus.Topic{"config", "led"}
	topicCtrl      = bus.Topic{"led", "control", bus.WildOne}
	topicState     = bus.Topic{"led", "state"}
	topicStatus    = bus.Topic{"led", "status"}
)

type Service struct {
	conn  *bus.Connection
	opts  Options
	eng   *core.Engine
	saver *settings.Saver

	initErr   error
	loaded    bool
	settled   bool
	saveErrAt uint32
	saveErr   bool
	stats     types.LEDStats
}

func New(conn *bus.Connection, opts Options) *Service {
	if opts.Poll <= 0 {
		opts.Poll = defaultPoll
	}
	if opts.Clock == nil {
		opts.Clock = timex.Millis
	}
	s := &Service{conn: conn, opts: opts, saver: opts.Saver}

	eopts := []core.Option{core.WithClock(opts.Clock)}
	if opts.Rand != nil {
		eopts = append(eopts, core.WithRand(opts.Rand))
	}
	var sink core.Sink
	if opts.Sink != nil {
		sink = opts.Sink
	}
	s.eng, s.initErr = core.New(opts.Pixels, sink, eopts...)
	return s
}

func (s *Service) Run(ctx context.Context) {
	if s.initErr != nil {
		println("[led] init failed:", s.initErr.Error())
		s.publishState("error", "init_failed", s.initErr)
		return
	}

	cfgSub := s.conn.Subscribe(topicConfigLED)
	ctrlSub := s.conn.Subscribe(topicCtrl)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.restore()
	s.publishState("ready", "running", nil)
	s.publishLive()

	tk := time.NewTicker(s.opts.Poll)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			s.applyBoot(msg)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case <-tk.C:
			s.tick(s.opts.Clock())
		}
	}
}

func (s *Service) restore() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Load(s.eng); err != nil {
		println("[led] using defaults:", err.Error())
		return
	}
	s.loaded = true
}

// applyBoot applies compiled-in defaults from config/led. Persisted
// settings win: colour, brightness, mode and effect fields are skipped
// once a record has loaded.
func (s *Service) applyBoot(msg *bus.Message) {
	cfg, err := jsonx.Decode[types.LEDBootConfig](msg.Payload)
	if err != nil {
		s.publishState("error", "config_wrong_type", err)
		return
	}
	if cfg.AutosaveMs > 0 && s.saver != nil {
		s.saver.SetDelayMs(cfg.AutosaveMs)
	}
	if s.loaded {
		return
	}
	if cfg.ColorOne != nil {
		s.eng.SetColor(core.ColorOne, *cfg.ColorOne)
	}
	if cfg.ColorTwo != nil {
		s.eng.SetColor(core.ColorTwo, *cfg.ColorTwo)
	}
	if cfg.Brightness != nil {
		s.eng.SetBrightness(*cfg.Brightness)
	}
	if cfg.GradientMode != "" {
		if m, ok := core.ParseGradientMode(cfg.GradientMode); ok {
			s.eng.SetGradientMode(m)
		} else {
			println("[led] unknown gradient mode in config:", cfg.GradientMode)
		}
	}
	if cfg.EffectActive != nil {
		s.eng.SetEffectActive(*cfg.EffectActive)
	}
	s.publishLive()
}

func (s *Service) tick(now uint32) {
	r := s.eng.Tick(now)
	if r.Rendered {
		s.stats.Frames++
		s.stats.LastChanges = r.Changes
		if r.Err != nil {
			if s.stats.SinkErrors == 0 {
				println("[led] sink:", r.Err.Error())
			}
			s.stats.SinkErrors++
		}
		settled := r.Changes == 0
		if settled && !s.settled {
			s.settled = true
			s.publishLive()
		}
		s.settled = settled
	}
	if r.Effected {
		s.stats.EffectSteps++
	}
	s.autosave(now)
}

// autosave runs the debounced save; after a failure it waits one delay
// period before retrying.
func (s *Service) autosave(now uint32) {
	if s.saver == nil {
		return
	}
	if s.saveErr && timex.Elapsed(now, s.saveErrAt) < s.saver.DelayMs() {
		return
	}
	if _, err := s.saver.Update(s.eng, now); err != nil {
		s.saveErr, s.saveErrAt = true, now
		return
	}
	s.saveErr = false
}

func (s *Service) publishState(level, status string, err error) {
	pl := types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}
	if err != nil {
		pl.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicStatus, pl, true))
}

func (s *Service) publishLive() {
	s.conn.Publish(s.conn.NewMessage(topicState, liveState(s.eng.Live(), s.settled), true))
}

func (s *Service) snapshotStats() types.LEDStats {
	st := s.stats
	st.Pixels = s.eng.Len()
	st.ChangeCounter = s.eng.ChangeCounter()
	if s.saver != nil {
		st.Saves = s.saver.Saves()
		st.Unsaved = s.saver.Dirty(s.eng)
	}
	return st
}

func (s *Service) replyOK(req *bus.Message) {
	s.conn.Reply(req, types.OKReply{OK: true}, false)
}

func (s *Service) replyErr(req *bus.Message, code errcode.Code) {
	if !req.CanReply() {
		return
	}
	if code == "" {
		code = errcode.Error
	}
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(code)}, false)
}
