// Package strip holds pixel sinks: colour-order encoding, white mixing,
// strip splitting, a WS2812 driver for RP2 boards and host-side previews.
package strip

import (
	"errors"

	"ledcode-go/types"
	"ledcode-go/x/strx"
)

// Sink consumes one frame of pixels.
type Sink interface {
	Write(px []types.Pixel) error
}

var ErrFrameTooLong = errors.New("frame_too_long")

// Order is the on-wire channel order of a strip.
type Order uint8

const (
	GRBW Order = iota
	GRB
	RGB
	RGBW
)

func (o Order) String() string {
	switch o {
	case GRBW:
		return "GRBW"
	case GRB:
		return "GRB"
	case RGB:
		return "RGB"
	case RGBW:
		return "RGBW"
	}
	return "?"
}

// ParseOrder accepts the names above in any case.
func ParseOrder(s string) (Order, bool) {
	s = strx.Norm(s)
	for _, o := range []Order{GRBW, GRB, RGB, RGBW} {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}

// BytesPerPixel is 4 for orders carrying white, 3 otherwise.
func (o Order) BytesPerPixel() int {
	if o == GRBW || o == RGBW {
		return 4
	}
	return 3
}

// Encode appends the wire bytes for px. Three-channel orders fold the
// white channel into RGB first.
func (o Order) Encode(dst []byte, px []types.Pixel) []byte {
	for _, p := range px {
		switch o {
		case GRBW:
			dst = append(dst, p.G, p.R, p.B, p.W)
		case RGBW:
			dst = append(dst, p.R, p.G, p.B, p.W)
		case GRB:
			p = MixWhite(p)
			dst = append(dst, p.G, p.R, p.B)
		default:
			p = MixWhite(p)
			dst = append(dst, p.R, p.G, p.B)
		}
	}
	return dst
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// MixWhite folds W into R, G and B with saturation and clears W.
func MixWhite(p types.Pixel) types.Pixel {
	return types.Pixel{R: addSat(p.R, p.W), G: addSat(p.G, p.W), B: addSat(p.B, p.W)}
}
