package core

import (
	"ledcode-go/types"
	"ledcode-go/x/mathx"
)

// PixelByte is the quantised form handed to sinks.
type PixelByte = types.Pixel

// Channel selects one of the four colour channels.
type Channel uint8

const (
	ChR Channel = iota
	ChG
	ChB
	ChW
)

const NumChannels = 4

var channels = [NumChannels]Channel{ChR, ChG, ChB, ChW}

func (c Channel) String() string {
	switch c {
	case ChR:
		return "R"
	case ChG:
		return "G"
	case ChB:
		return "B"
	case ChW:
		return "W"
	}
	return "?"
}

// PixelF is the float form used during computation, nominally [0,255]
// for colours and around 1.0 for scale factors.
type PixelF struct {
	R, G, B, W float32
}

func (p PixelF) Get(c Channel) float32 {
	switch c {
	case ChR:
		return p.R
	case ChG:
		return p.G
	case ChB:
		return p.B
	case ChW:
		return p.W
	}
	return 0
}

func (p *PixelF) Set(c Channel, v float32) {
	switch c {
	case ChR:
		p.R = v
	case ChG:
		p.G = v
	case ChB:
		p.B = v
	case ChW:
		p.W = v
	}
}

// FromByte widens a byte pixel.
func FromByte(px PixelByte) PixelF {
	return PixelF{R: float32(px.R), G: float32(px.G), B: float32(px.B), W: float32(px.W)}
}

// Quantize rounds each channel half-up into [0,255].
func (p PixelF) Quantize() PixelByte {
	return PixelByte{
		R: mathx.RoundByte(p.R),
		G: mathx.RoundByte(p.G),
		B: mathx.RoundByte(p.B),
		W: mathx.RoundByte(p.W),
	}
}

func (p PixelF) clamp255() PixelF {
	return PixelF{
		R: mathx.Clamp(p.R, 0, 255),
		G: mathx.Clamp(p.G, 0, 255),
		B: mathx.Clamp(p.B, 0, 255),
		W: mathx.Clamp(p.W, 0, 255),
	}
}

// blend returns a + (b-a)*t per channel with t clamped to [0,1].
func blend(a, b PixelF, t float32) PixelF {
	return PixelF{
		R: mathx.Lerp(a.R, b.R, t),
		G: mathx.Lerp(a.G, b.G, t),
		B: mathx.Lerp(a.B, b.B, t),
		W: mathx.Lerp(a.W, b.W, t),
	}
}

var identityScale = PixelF{R: 1, G: 1, B: 1, W: 1}
