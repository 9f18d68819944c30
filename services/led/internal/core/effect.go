package core

import (
	"ledcode-go/x/mathx"
)

// Shift directions per channel: R and B travel toward higher indices,
// G and W toward lower ones.
var shiftForward = [NumChannels]bool{ChR: true, ChG: false, ChB: true, ChW: false}

// StepEffect advances the four ambient channels by one step and pushes
// their outputs into the scale delay line. With the effect disabled every
// channel injects 1.0.
func (e *Engine) StepEffect() {
	if !e.cfg.EffectActive {
		for _, ch := range channels {
			e.ShiftScale(ch, 1.0, shiftForward[ch])
		}
		return
	}
	for _, ch := range channels {
		fx := &e.effect[ch]
		if fx.CurrentStep > fx.NumSteps {
			e.nextPhase(fx)
		}
		progress := float32(1)
		if fx.NumSteps > 0 {
			progress = float32(fx.CurrentStep) / float32(fx.NumSteps)
		}
		fx.Output = fx.Prev + mathx.SmoothStep(progress)*(fx.Next-fx.Prev)
		fx.CurrentStep++
	}
	for _, ch := range channels {
		e.ShiftScale(ch, e.effect[ch].Output, shiftForward[ch])
	}
}

// nextPhase flips a channel between evolving toward a new random amplitude
// and holding its current one.
func (e *Engine) nextPhase(fx *EffectChannel) {
	c := &e.cfg
	fx.Prev = fx.Next
	if fx.Hold {
		fx.Next = e.randFloat(c.EffectMinAmplitude, c.EffectMaxAmplitude)
		// The jump is mapped against the amplitude bounds themselves, so
		// with the default 0.6..1.2 every evolve lasts the minimum.
		mapped := mathx.MapRange(mathx.Abs(fx.Next-fx.Prev),
			c.EffectMinAmplitude, c.EffectMaxAmplitude,
			float32(c.EffectEvolveMinSteps), float32(c.EffectEvolveMaxSteps))
		fx.NumSteps = uint32(mapped * e.randFloat(0.8, 1.2))
		fx.Hold = false
	} else {
		fx.NumSteps = e.randInt(c.EffectHoldMinSteps, c.EffectHoldMaxSteps)
		fx.Hold = true
	}
	fx.CurrentStep = 0
}

func (e *Engine) randFloat(lo, hi float32) float32 {
	return lo + e.rnd.Float32()*(hi-lo)
}

// randInt is uniform over [lo,hi] inclusive.
func (e *Engine) randInt(lo, hi uint32) uint32 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + uint32(e.rnd.Int63n(int64(hi-lo)+1))
}

// ShiftScale moves one channel of the scale buffer by one slot and injects
// v at the vacated end: index 0 when forward, the last index otherwise.
func (e *Engine) ShiftScale(ch Channel, v float32, forward bool) {
	if ch >= NumChannels {
		return
	}
	s := e.scale[:e.n]
	last := len(s) - 1
	if forward {
		for i := last; i > 0; i-- {
			s[i].Set(ch, s[i-1].Get(ch))
		}
		s[0].Set(ch, v)
	} else {
		for i := 0; i < last; i++ {
			s[i].Set(ch, s[i+1].Get(ch))
		}
		s[last].Set(ch, v)
	}
}
