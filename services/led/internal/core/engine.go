// Package core is the LED pixel pipeline: staged-value fading, gradient
// synthesis, the ambient scale effect and output quantisation, driven by
// two polling gates. An Engine is single-threaded; its owner serialises
// setter calls with Tick.
package core

import (
	"math/rand"

	"ledcode-go/errcode"
	"ledcode-go/x/timex"
)

// Capacity is the largest supported strip length.
const Capacity = 256

// Sink consumes one rendered frame. The slice is only valid for the call.
type Sink interface {
	Write(px []PixelByte) error
}

// EffectChannel is the state of one ambient animation channel.
type EffectChannel struct {
	Prev, Next, Output    float32
	NumSteps, CurrentStep uint32
	Hold                  bool // currently in a hold phase
}

// State is the scheduler's timing state.
type State struct {
	ProcessingLastMs uint32
	EffectLastMs     uint32
	Active           bool
}

// LiveView is the read-only projection of live values.
type LiveView struct {
	Brightness   float32
	OnOffFactor  float32
	ColorOne     PixelF
	ColorTwo     PixelF
	OnOffStaging bool
}

type Engine struct {
	cfg   Config
	state State

	n          int
	colorOne   PixelF
	colorTwo   PixelF
	brightness float32
	onoff      float32

	colors [Capacity]PixelByte
	scale  [Capacity]PixelF
	pixels [Capacity]PixelByte
	effect [NumChannels]EffectChannel

	sink  Sink
	rnd   *rand.Rand
	clock func() uint32
}

type Option func(*Engine)

// WithRand injects the random source used by the ambient effect.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rnd = r } }

// WithClock replaces the millisecond clock used to stamp config changes.
func WithClock(now func() uint32) Option { return func(e *Engine) { e.clock = now } }

// WithConfig starts from cfg instead of DefaultConfig. cfg is sanitised.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		cfg.sanitize()
		e.cfg = cfg
	}
}

// New builds an engine for count pixels writing to sink (nil discards frames).
func New(count int, sink Sink, opts ...Option) (*Engine, error) {
	if count <= 0 || count > Capacity {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "core.New", Msg: "pixel count out of range"}
	}
	e := &Engine{
		cfg:   DefaultConfig(),
		n:     count,
		sink:  sink,
		clock: timex.Millis,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(int64(timex.NowMs())))
	}
	e.reset()
	return e, nil
}

// reset puts live buffers and timing into their start-up state.
func (e *Engine) reset() {
	now := e.clock()
	e.state = State{ProcessingLastMs: now, EffectLastMs: now, Active: true}
	e.colorOne, e.colorTwo = PixelF{}, PixelF{}
	e.brightness = 255
	e.onoff = 1
	for i := 0; i < e.n; i++ {
		e.colors[i] = PixelByte{}
		e.pixels[i] = PixelByte{}
		e.scale[i] = identityScale
	}
	for i := range e.effect {
		e.effect[i] = EffectChannel{Prev: 1, Next: 1, Output: 1, CurrentStep: 1, Hold: true}
	}
}

func (e *Engine) Len() int       { return e.n }
func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) State() State   { return e.state }

// Pixels returns the last quantised frame. The slice aliases engine memory.
func (e *Engine) Pixels() []PixelByte { return e.pixels[:e.n] }

// Colors returns the last gradient buffer.
func (e *Engine) Colors() []PixelByte { return e.colors[:e.n] }

// Scale returns the effect scale buffer.
func (e *Engine) Scale() []PixelF { return e.scale[:e.n] }

// Effect returns one ambient channel's state; unknown channels read as zero.
func (e *Engine) Effect(c Channel) EffectChannel {
	if c >= NumChannels {
		return EffectChannel{}
	}
	return e.effect[c]
}

func (e *Engine) Live() LiveView {
	return LiveView{
		Brightness:   e.brightness,
		OnOffFactor:  e.onoff,
		ColorOne:     e.colorOne,
		ColorTwo:     e.colorTwo,
		OnOffStaging: e.cfg.OnOffStaging >= 0.5,
	}
}
