package bridge

import (
	"math"
	"testing"

	"ledcode-go/types"
)

func TestSanitize(t *testing.T) {
	got := Sanitize(types.Mirror{On: true, Level: 150, Hue1: -30, Sat1: -5, Hue2: 720, Sat2: 101})
	want := types.Mirror{On: true, Level: 100, Hue1: 330, Sat1: 0, Hue2: 0, Sat2: 100}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if m := Sanitize(types.Mirror{Level: -1, Hue1: float32(math.NaN())}); m.Level != 0 || m.Hue1 != 0 {
		t.Fatalf("got %+v", m)
	}
}

func TestColorToPixel(t *testing.T) {
	cases := []struct {
		hue, sat float32
		rgbw     bool
		want     types.Pixel
	}{
		{0, 100, false, types.Pixel{R: 255}},
		{120, 100, false, types.Pixel{G: 255}},
		{240, 100, true, types.Pixel{B: 255}},
		{0, 0, false, types.Pixel{R: 255, G: 255, B: 255}},
		{0, 0, true, types.Pixel{W: 255}},
		{30, 50, true, types.Pixel{R: 128, G: 64, W: 128}},
		{390, 100, false, types.Pixel{R: 255, G: 128}},
	}
	for _, c := range cases {
		if got := ColorToPixel(c.hue, c.sat, c.rgbw); got != c.want {
			t.Fatalf("ColorToPixel(%v,%v,%v) = %+v want %+v", c.hue, c.sat, c.rgbw, got, c.want)
		}
	}
}

func TestHueSat(t *testing.T) {
	near := func(a, b float32) bool { return math.Abs(float64(a-b)) < 0.5 }
	cases := []struct {
		px       [4]float32
		hue, sat float32
	}{
		{[4]float32{255, 0, 0, 0}, 0, 100},
		{[4]float32{0, 0, 255, 0}, 240, 100},
		{[4]float32{0, 0, 0, 255}, 0, 0},
		{[4]float32{0, 0, 0, 0}, 0, 0},
		{[4]float32{128, 64, 0, 128}, 30, 50},
	}
	for _, c := range cases {
		h, s := HueSat(c.px)
		if !near(h, c.hue) || !near(s, c.sat) {
			t.Fatalf("HueSat(%v) = %v,%v want %v,%v", c.px, h, s, c.hue, c.sat)
		}
	}
}

func TestLevelBrightnessRoundTrip(t *testing.T) {
	if LevelToBrightness(50) != 128 || LevelToBrightness(100) != 255 || LevelToBrightness(200) != 255 {
		t.Fatal("LevelToBrightness mismatch")
	}
	for l := 0; l <= 100; l++ {
		if got := BrightnessToLevel(float32(LevelToBrightness(l))); got != l {
			t.Fatalf("level %d came back as %d", l, got)
		}
	}
}

func TestFromView(t *testing.T) {
	v := types.LEDConfigView{
		ColorOne:   [4]float32{255, 0, 0, 0},
		ColorTwo:   [4]float32{0, 255, 0, 0},
		Brightness: 255,
		OnOff:      1,
	}
	m := FromView(v)
	if !m.On || m.Level != 100 || m.Hue1 != 0 || m.Sat1 != 100 || m.Hue2 != 120 || m.Sat2 != 100 {
		t.Fatalf("mirror %+v", m)
	}
}
