//go:build rp2040 || rp2350

package bridge

import (
	"context"
	"errors"
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

func init() { UARTDial = dialUART }

type uartConn struct {
	u      *uartx.UART
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *uartConn) Read(p []byte) (int, error) {
	n, err := c.u.RecvSomeContext(c.ctx, p)
	if err != nil && c.ctx.Err() != nil {
		return n, io.EOF
	}
	return n, err
}

func (c *uartConn) Write(p []byte) (int, error) { return c.u.Write(p) }

func (c *uartConn) Close() error {
	c.cancel()
	return nil
}

func dialUART(ctx context.Context, cfg UARTConfig) (io.ReadWriteCloser, error) {
	var hw *uartx.UART
	switch cfg.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1", "":
		hw = uartx.UART1
	default:
		return nil, errors.New("unknown uart: " + cfg.ID)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: uint32(cfg.Baud),
		TX:       machine.Pin(cfg.TxPin),
		RX:       machine.Pin(cfg.RxPin),
	}); err != nil {
		return nil, err
	}
	cctx, cancel := context.WithCancel(ctx)
	return &uartConn{u: hw, ctx: cctx, cancel: cancel}, nil
}
