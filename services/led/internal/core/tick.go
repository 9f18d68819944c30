package core

import (
	"ledcode-go/errcode"
	"ledcode-go/x/timex"
)

// TickResult reports what one scheduler tick did.
type TickResult struct {
	Rendered bool
	Effected bool
	Changes  int // fader movement, valid when Rendered
	Err      error
}

// Tick evaluates the render gate and then the effect gate at nowMs. A gate
// fires when strictly more than its interval has elapsed since it last
// fired; missed periods are not caught up.
func (e *Engine) Tick(nowMs uint32) TickResult {
	var r TickResult
	if timex.Due(nowMs, e.state.ProcessingLastMs, e.cfg.ProcessingIntervalMs) {
		e.state.ProcessingLastMs = nowMs
		r.Rendered = true
		r.Changes, r.Err = e.Render()
	}
	if timex.Due(nowMs, e.state.EffectLastMs, e.cfg.EffectIntervalMs) {
		e.state.EffectLastMs = nowMs
		e.StepEffect()
		r.Effected = true
	}
	return r
}

// Render runs one full render pass regardless of the gate.
func (e *Engine) Render() (int, error) {
	changes := e.Fade()
	e.ComputeGradient()
	e.ApplyOutputScaling()
	if e.sink == nil {
		return changes, nil
	}
	if err := e.sink.Write(e.pixels[:e.n]); err != nil {
		return changes, errcode.Wrap(errcode.SinkFailed, "render", err)
	}
	return changes, nil
}
