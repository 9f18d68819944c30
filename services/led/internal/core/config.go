package core

import (
	"ledcode-go/x/mathx"
	"ledcode-go/x/strx"
)

// GradientMode selects how the two base colours are spread over the strip.
type GradientMode uint8

const (
	GradientLinear GradientMode = iota
	GradientLinearPadding
	GradientSingleColor
	GradientMidpointSplit
	GradientEdgeCenter

	numGradientModes
)

var gradientModeNames = [numGradientModes]string{
	"linear",
	"linear_padding",
	"single_color",
	"midpoint_split",
	"edge_center",
}

func (m GradientMode) String() string {
	if m < numGradientModes {
		return gradientModeNames[m]
	}
	return "unknown"
}

func (m GradientMode) Valid() bool { return m < numGradientModes }

// ParseGradientMode accepts the names above in any case, with '-' or '_'.
func ParseGradientMode(s string) (GradientMode, bool) {
	s = strx.Norm(s)
	for i, n := range gradientModeNames {
		if strx.Norm(n) == s {
			return GradientMode(i), true
		}
	}
	return 0, false
}

// Interpolation shapes EDGE_CENTER transitions.
type Interpolation uint8

const (
	InterpLinear Interpolation = iota
	InterpSmooth
)

func (i Interpolation) String() string {
	if i == InterpLinear {
		return "linear"
	}
	return "smooth"
}

func ParseInterpolation(s string) (Interpolation, bool) {
	switch strx.Norm(s) {
	case "LINEAR":
		return InterpLinear, true
	case "SMOOTH":
		return InterpSmooth, true
	}
	return 0, false
}

func (i Interpolation) apply(t float32) float32 {
	if i == InterpSmooth {
		return mathx.SmoothStep(t)
	}
	return mathx.Clamp01(t)
}

// Parameter ranges.
const (
	MaxPaddingBegin = 0.4
	MaxEdgeSize     = 0.5

	minIncrement = 1e-4
	maxAmplitude = 4.0
	minAmplitude = 1e-3
	maxSteps     = 100000
	maxInterval  = 60000
)

// Config is the staged (target) state. It is mutated only through Engine
// setters, each of which clamps its input and marks the change.
type Config struct {
	ColorOneStaging   PixelF
	ColorTwoStaging   PixelF
	BrightnessStaging float32 // [0,255]
	OnOffStaging      float32 // 0 or 1

	ColorIncrement      float32
	BrightnessIncrement float32
	OnOffIncrement      float32

	ProcessingIntervalMs uint32
	EffectIntervalMs     uint32

	GradientPaddingBegin     float32 // [0,0.4]
	GradientPaddingValue     float32 // [0,1]
	GradientMiddleEdgeSize   float32 // [0,0.5]
	GradientMiddleCenterSize float32 // [0,1], 2*edge+center <= 1
	GradientInterpolation    Interpolation
	GradientMode             GradientMode
	GradientInvertColors     bool

	EffectMinAmplitude   float32
	EffectMaxAmplitude   float32
	EffectEvolveMinSteps uint32
	EffectEvolveMaxSteps uint32
	EffectHoldMinSteps   uint32
	EffectHoldMaxSteps   uint32
	EffectActive         bool

	ChangeCounter  uint32
	LastModifiedMs uint32
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		ColorOneStaging:   PixelF{R: 255},
		ColorTwoStaging:   PixelF{G: 255},
		BrightnessStaging: 255,
		OnOffStaging:      1,

		ColorIncrement:      1.0,
		BrightnessIncrement: 1.0,
		OnOffIncrement:      0.01,

		ProcessingIntervalMs: 10,
		EffectIntervalMs:     10,

		GradientPaddingBegin:     0.1,
		GradientPaddingValue:     0.95,
		GradientMiddleEdgeSize:   0.0,
		GradientMiddleCenterSize: 0.05,
		GradientInterpolation:    InterpSmooth,
		GradientMode:             GradientLinearPadding,

		EffectMinAmplitude:   0.6,
		EffectMaxAmplitude:   1.2,
		EffectEvolveMinSteps: 100,
		EffectEvolveMaxSteps: 200,
		EffectHoldMinSteps:   10,
		EffectHoldMaxSteps:   30,
		EffectActive:         true,
	}
}

// sanitizeEdgeCenter clamps edge first, then center against it. The edge
// is never re-validated against the center.
func sanitizeEdgeCenter(edge, center float32) (float32, float32) {
	edge = mathx.Clamp(edge, 0, MaxEdgeSize)
	center = mathx.Clamp(center, 0, 1)
	if maxCenter := 1 - 2*edge; center > maxCenter {
		center = maxCenter
	}
	if center < 0 {
		center = 0
	}
	return edge, center
}

// sanitize re-applies every setter clamp; used after restoring a record.
func (c *Config) sanitize() {
	c.ColorOneStaging = c.ColorOneStaging.clamp255()
	c.ColorTwoStaging = c.ColorTwoStaging.clamp255()
	c.BrightnessStaging = mathx.Clamp(c.BrightnessStaging, 0, 255)
	if c.OnOffStaging >= 0.5 {
		c.OnOffStaging = 1
	} else {
		c.OnOffStaging = 0
	}
	c.ColorIncrement = clampIncrement(c.ColorIncrement, 255)
	c.BrightnessIncrement = clampIncrement(c.BrightnessIncrement, 255)
	c.OnOffIncrement = clampIncrement(c.OnOffIncrement, 1)
	c.ProcessingIntervalMs = mathx.Clamp(c.ProcessingIntervalMs, 1, maxInterval)
	c.EffectIntervalMs = mathx.Clamp(c.EffectIntervalMs, 1, maxInterval)
	c.GradientPaddingBegin = mathx.Clamp(c.GradientPaddingBegin, 0, MaxPaddingBegin)
	c.GradientPaddingValue = mathx.Clamp01(c.GradientPaddingValue)
	c.GradientMiddleEdgeSize, c.GradientMiddleCenterSize =
		sanitizeEdgeCenter(c.GradientMiddleEdgeSize, c.GradientMiddleCenterSize)
	if c.GradientInterpolation > InterpSmooth {
		c.GradientInterpolation = InterpSmooth
	}
	if c.GradientMode >= numGradientModes {
		c.GradientMode = GradientLinearPadding
	}
	c.EffectMinAmplitude = mathx.Clamp(c.EffectMinAmplitude, minAmplitude, maxAmplitude)
	c.EffectMaxAmplitude = mathx.Clamp(c.EffectMaxAmplitude, minAmplitude, maxAmplitude)
	c.EffectEvolveMinSteps = mathx.Clamp(c.EffectEvolveMinSteps, 1, maxSteps)
	c.EffectEvolveMaxSteps = mathx.Clamp(c.EffectEvolveMaxSteps, 1, maxSteps)
	c.EffectHoldMinSteps = mathx.Clamp(c.EffectHoldMinSteps, 1, maxSteps)
	c.EffectHoldMaxSteps = mathx.Clamp(c.EffectHoldMaxSteps, 1, maxSteps)
}
