//go:build rp2040 || rp2350

package strip

import (
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"

	"ledcode-go/types"
)

// WS2812 drives one WS2812/SK6812 strip on a GPIO pin.
type WS2812 struct {
	dev   ws2812.Device
	order Order
	max   int
	buf   []byte
}

// NewWS2812 configures pin as an output. Frames longer than maxPixels are
// rejected.
func NewWS2812(pin machine.Pin, order Order, maxPixels int) *WS2812 {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812{
		dev:   ws2812.New(pin),
		order: order,
		max:   maxPixels,
		buf:   make([]byte, 0, maxPixels*order.BytesPerPixel()),
	}
}

func (s *WS2812) Write(px []types.Pixel) error {
	if len(px) > s.max {
		return ErrFrameTooLong
	}
	s.buf = s.order.Encode(s.buf[:0], px)
	// Bit timing is cycle-counted; keep interrupts off for the frame.
	state := interrupt.Disable()
	_, err := s.dev.Write(s.buf)
	interrupt.Restore(state)
	return err
}
