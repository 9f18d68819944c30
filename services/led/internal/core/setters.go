package core

import "ledcode-go/x/mathx"

// ColorTarget selects which base colour a SetColor call stages.
type ColorTarget uint8

const (
	ColorOne ColorTarget = 1
	ColorTwo ColorTarget = 2
)

// markChange bumps the change counter and stamps the modification time.
func (e *Engine) markChange() {
	e.cfg.ChangeCounter++
	e.cfg.LastModifiedMs = e.clock()
}

// MarkImmediateSave bumps the counter and back-dates the modification by
// an hour so the next debounce check saves at once.
func (e *Engine) MarkImmediateSave() {
	e.cfg.ChangeCounter++
	e.cfg.LastModifiedMs = e.clock() - 3600000
}

func setF(e *Engine, dst *float32, v float32) bool {
	if *dst == v {
		return false
	}
	*dst = v
	e.markChange()
	return true
}

func setU(e *Engine, dst *uint32, v uint32) bool {
	if *dst == v {
		return false
	}
	*dst = v
	e.markChange()
	return true
}

func setB(e *Engine, dst *bool, v bool) bool {
	if *dst == v {
		return false
	}
	*dst = v
	e.markChange()
	return true
}

// SetColor stages a base colour. Unknown targets are ignored.
func (e *Engine) SetColor(t ColorTarget, px PixelByte) bool {
	var dst *PixelF
	switch t {
	case ColorOne:
		dst = &e.cfg.ColorOneStaging
	case ColorTwo:
		dst = &e.cfg.ColorTwoStaging
	default:
		return false
	}
	v := FromByte(px)
	if *dst == v {
		return false
	}
	*dst = v
	e.markChange()
	return true
}

func (e *Engine) SetBrightness(v uint8) bool {
	return setF(e, &e.cfg.BrightnessStaging, float32(v))
}

func (e *Engine) SetOnOff(on bool) bool {
	var v float32
	if on {
		v = 1
	}
	return setF(e, &e.cfg.OnOffStaging, v)
}

func (e *Engine) SetColorIncrement(v float32) bool {
	return setF(e, &e.cfg.ColorIncrement, clampIncrement(v, 255))
}

func (e *Engine) SetBrightnessIncrement(v float32) bool {
	return setF(e, &e.cfg.BrightnessIncrement, clampIncrement(v, 255))
}

func (e *Engine) SetOnOffIncrement(v float32) bool {
	return setF(e, &e.cfg.OnOffIncrement, clampIncrement(v, 1))
}

func (e *Engine) SetProcessingInterval(ms uint32) bool {
	return setU(e, &e.cfg.ProcessingIntervalMs, mathx.Clamp(ms, 1, maxInterval))
}

func (e *Engine) SetEffectInterval(ms uint32) bool {
	return setU(e, &e.cfg.EffectIntervalMs, mathx.Clamp(ms, 1, maxInterval))
}

func (e *Engine) SetGradientMode(m GradientMode) bool {
	if m >= numGradientModes {
		return false
	}
	if e.cfg.GradientMode == m {
		return false
	}
	e.cfg.GradientMode = m
	e.markChange()
	return true
}

func (e *Engine) SetGradientInvert(v bool) bool {
	return setB(e, &e.cfg.GradientInvertColors, v)
}

func (e *Engine) SetPaddingBegin(v float32) bool {
	return setF(e, &e.cfg.GradientPaddingBegin, mathx.Clamp(v, 0, MaxPaddingBegin))
}

func (e *Engine) SetPaddingValue(v float32) bool {
	return setF(e, &e.cfg.GradientPaddingValue, mathx.Clamp01(v))
}

// SetEdgeSize stages the EDGE_CENTER edge width and re-sanitises the pair.
func (e *Engine) SetEdgeSize(v float32) bool {
	return e.setEdgeCenter(v, e.cfg.GradientMiddleCenterSize)
}

// SetCenterSize stages the EDGE_CENTER center width and re-sanitises the pair.
func (e *Engine) SetCenterSize(v float32) bool {
	return e.setEdgeCenter(e.cfg.GradientMiddleEdgeSize, v)
}

func (e *Engine) setEdgeCenter(edge, center float32) bool {
	edge, center = sanitizeEdgeCenter(edge, center)
	if edge == e.cfg.GradientMiddleEdgeSize && center == e.cfg.GradientMiddleCenterSize {
		return false
	}
	e.cfg.GradientMiddleEdgeSize = edge
	e.cfg.GradientMiddleCenterSize = center
	e.markChange()
	return true
}

func (e *Engine) SetInterpolation(i Interpolation) bool {
	if i > InterpSmooth {
		return false
	}
	if e.cfg.GradientInterpolation == i {
		return false
	}
	e.cfg.GradientInterpolation = i
	e.markChange()
	return true
}

func (e *Engine) SetEffectAmplitudeMin(v float32) bool {
	return setF(e, &e.cfg.EffectMinAmplitude, mathx.Clamp(v, minAmplitude, maxAmplitude))
}

func (e *Engine) SetEffectAmplitudeMax(v float32) bool {
	return setF(e, &e.cfg.EffectMaxAmplitude, mathx.Clamp(v, minAmplitude, maxAmplitude))
}

func (e *Engine) SetEffectEvolveStepsMin(v uint32) bool {
	return setU(e, &e.cfg.EffectEvolveMinSteps, mathx.Clamp(v, 1, maxSteps))
}

func (e *Engine) SetEffectEvolveStepsMax(v uint32) bool {
	return setU(e, &e.cfg.EffectEvolveMaxSteps, mathx.Clamp(v, 1, maxSteps))
}

func (e *Engine) SetEffectHoldStepsMin(v uint32) bool {
	return setU(e, &e.cfg.EffectHoldMinSteps, mathx.Clamp(v, 1, maxSteps))
}

func (e *Engine) SetEffectHoldStepsMax(v uint32) bool {
	return setU(e, &e.cfg.EffectHoldMaxSteps, mathx.Clamp(v, 1, maxSteps))
}

func (e *Engine) SetEffectActive(v bool) bool {
	return setB(e, &e.cfg.EffectActive, v)
}
