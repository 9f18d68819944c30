package bridge

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"ledcode-go/types"
	"ledcode-go/x/mathx"
)

// DefaultMirror is the projection before anything has been synced.
var DefaultMirror = types.Mirror{On: false, Level: 50}

// NormalizeHue wraps h into [0,360).
func NormalizeHue(h float32) float32 {
	if h != h || math.IsInf(float64(h), 0) {
		return 0
	}
	n := float32(math.Mod(float64(h), 360))
	if n < 0 {
		n += 360
	}
	if n >= 360 {
		n = 0
	}
	return n
}

func clampSat(s float32) float32 {
	if s != s {
		return 0
	}
	return mathx.Clamp(s, 0, 100)
}

// Sanitize clamps level and saturations and wraps hues.
func Sanitize(m types.Mirror) types.Mirror {
	m.Level = mathx.Clamp(m.Level, 0, 100)
	m.Hue1 = NormalizeHue(m.Hue1)
	m.Hue2 = NormalizeHue(m.Hue2)
	m.Sat1 = clampSat(m.Sat1)
	m.Sat2 = clampSat(m.Sat2)
	return m
}

func unitByte(v float64) uint8 {
	return mathx.RoundByte(float32(mathx.Clamp01(v) * 255))
}

// ColorToPixel renders a hue/saturation pair at full value. With rgbw the
// common part of R, G and B moves to the white channel.
func ColorToPixel(hue, sat float32, rgbw bool) types.Pixel {
	c := colorful.Hsv(float64(NormalizeHue(hue)), float64(clampSat(sat))/100, 1)
	r, g, b := c.R, c.G, c.B
	var w float64
	if rgbw {
		w = math.Min(r, math.Min(g, b))
		r, g, b = r-w, g-w, b-w
	}
	return types.Pixel{R: unitByte(r), G: unitByte(g), B: unitByte(b), W: unitByte(w)}
}

// HueSat projects an RGBW colour (channels 0..255) to hue in degrees and
// saturation in percent. White is mixed into each colour channel first.
func HueSat(px [4]float32) (hue, sat float32) {
	mix := func(c float32) float64 {
		return float64(mathx.Clamp(mathx.Clamp(c, 0, 255)+mathx.Clamp(px[3], 0, 255), 0, 255)) / 255
	}
	h, s, _ := colorful.Color{R: mix(px[0]), G: mix(px[1]), B: mix(px[2])}.Hsv()
	return NormalizeHue(float32(h)), float32(s * 100)
}

// LevelToBrightness maps 0..100 onto 0..255.
func LevelToBrightness(level int) uint8 {
	return mathx.RoundByte(float32(mathx.Clamp(level, 0, 100)) / 100 * 255)
}

// BrightnessToLevel maps 0..255 onto 0..100, rounding half away from zero.
func BrightnessToLevel(b float32) int {
	return int(math.Round(float64(mathx.Clamp(b, 0, 255)) / 255 * 100))
}

// FromView builds the mirror from the staged LED configuration.
func FromView(v types.LEDConfigView) types.Mirror {
	var m types.Mirror
	m.Hue1, m.Sat1 = HueSat(v.ColorOne)
	m.Hue2, m.Sat2 = HueSat(v.ColorTwo)
	m.Level = BrightnessToLevel(v.Brightness)
	m.On = v.OnOff >= 0.5
	return Sanitize(m)
}
