package led

import (
	"ledcode-go/services/led/internal/core"
	"ledcode-go/types"
	"ledcode-go/x/timex"
)

func arr(p core.PixelF) [4]float32 { return [4]float32{p.R, p.G, p.B, p.W} }

func configView(c core.Config) types.LEDConfigView {
	return types.LEDConfigView{
		ColorOne:   arr(c.ColorOneStaging),
		ColorTwo:   arr(c.ColorTwoStaging),
		Brightness: c.BrightnessStaging,
		OnOff:      c.OnOffStaging,

		ColorIncrement:      c.ColorIncrement,
		BrightnessIncrement: c.BrightnessIncrement,
		OnOffIncrement:      c.OnOffIncrement,

		GradientMode:          c.GradientMode.String(),
		GradientInvert:        c.GradientInvertColors,
		GradientPaddingBegin:  c.GradientPaddingBegin,
		GradientPaddingValue:  c.GradientPaddingValue,
		GradientEdgeSize:      c.GradientMiddleEdgeSize,
		GradientCenterSize:    c.GradientMiddleCenterSize,
		GradientInterpolation: c.GradientInterpolation.String(),

		EffectMinAmplitude:   c.EffectMinAmplitude,
		EffectMaxAmplitude:   c.EffectMaxAmplitude,
		EffectEvolveMinSteps: c.EffectEvolveMinSteps,
		EffectEvolveMaxSteps: c.EffectEvolveMaxSteps,
		EffectHoldMinSteps:   c.EffectHoldMinSteps,
		EffectHoldMaxSteps:   c.EffectHoldMaxSteps,
		EffectActive:         c.EffectActive,

		ProcessingIntervalMs: c.ProcessingIntervalMs,
		EffectIntervalMs:     c.EffectIntervalMs,

		ChangeCounter:  c.ChangeCounter,
		LastModifiedMs: c.LastModifiedMs,
	}
}

func liveState(v core.LiveView, settled bool) types.LEDState {
	return types.LEDState{
		On:          v.OnOffStaging,
		OnOffFactor: v.OnOffFactor,
		Brightness:  v.Brightness,
		ColorOne:    v.ColorOne.Quantize(),
		ColorTwo:    v.ColorTwo.Quantize(),
		Settled:     settled,
		TS:          timex.NowMs(),
	}
}
