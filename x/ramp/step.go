package ramp

import "ledcode-go/x/mathx"

// snapTol is the float32 drift, relative to the value's magnitude, that a
// remaining distance may exceed step by and still snap.
const snapTol = 1e-5

// StepTowards moves cur toward target by at most step.
// If the distance is <= step the target is returned; step<=0 snaps to target.
// Accumulated rounding is absorbed so a fade over d takes ceil(d/step) calls.
func StepTowards(cur, target, step float32) float32 {
	if step <= 0 {
		return target
	}
	d := target - cur
	slack := snapTol * mathx.Max(1, mathx.Max(mathx.Abs(cur), mathx.Abs(target)))
	if mathx.Abs(d) <= step+slack {
		return target
	}
	if d > 0 {
		return cur + step
	}
	return cur - step
}

// Channel is one faded scalar: a live value pulled toward a staged target.
type Channel struct {
	Live  *float32
	Stage float32
	Step  float32
	Lo    float32
	Hi    float32
}

// Eps is the smallest per-step change that counts as movement.
const Eps = 1e-5

// Advance applies one bounded step to ch, clamps the result and reports whether it moved.
func (ch Channel) Advance() bool {
	prev := *ch.Live
	next := mathx.Clamp(StepTowards(prev, ch.Stage, ch.Step), ch.Lo, ch.Hi)
	*ch.Live = next
	return mathx.Abs(next-prev) > Eps
}
