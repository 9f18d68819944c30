//go:build rp2040 || rp2350

package console

import (
	"context"
	"errors"
	"io"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"ledcode-go/types"
)

// OpenPort returns the byte stream the console should serve: the named
// UART when cfg.UART is set, otherwise the USB serial port.
func OpenPort(ctx context.Context, cfg types.ConsoleConfig) (io.ReadWriter, error) {
	if cfg.UART == "" {
		return usbPort{}, nil
	}
	var hw *uartx.UART
	switch cfg.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errors.New("unknown uart: " + cfg.UART)
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = 115200
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: uint32(baud),
		TX:       machine.Pin(cfg.TxPin),
		RX:       machine.Pin(cfg.RxPin),
	}); err != nil {
		return nil, err
	}
	return &uartPort{u: hw, ctx: ctx}, nil
}

type uartPort struct {
	u   *uartx.UART
	ctx context.Context
}

func (p *uartPort) Read(b []byte) (int, error)  { return p.u.RecvSomeContext(p.ctx, b) }
func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// usbPort adapts machine.Serial, which has no blocking Read.
type usbPort struct{}

func (usbPort) Read(b []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	n := 0
	for n < len(b) && machine.Serial.Buffered() > 0 {
		c, err := machine.Serial.ReadByte()
		if err != nil {
			return n, err
		}
		b[n] = c
		n++
	}
	return n, nil
}

func (usbPort) Write(b []byte) (int, error) { return machine.Serial.Write(b) }
