// Package console is a line-oriented text interface to the LED and bridge
// services. Every command becomes one or more bus requests.
package console

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"ledcode-go/bus"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
)

// LineCap is the input buffer size; a line may hold LineCap-1 bytes.
const LineCap = 128

const (
	defaultTimeout = 500 * time.Millisecond
	resetDelay     = 10 * time.Second
)

var topicConfigConsole = bus.Topic{"config", "console"}

type Options struct {
	Echo    bool          // repeat each command line before its output
	Timeout time.Duration // per bus request
	Reset   func()        // SYSTEM RESET hook; nil when the platform cannot restart
}

type Console struct {
	conn *bus.Connection
	opts Options

	mu  sync.Mutex // guards out; the reset timer writes from its own goroutine
	out io.Writer

	buf     [LineCap]byte
	n       int
	discard bool // current line overflowed

	reset *time.Timer
}

func New(conn *bus.Connection, out io.Writer, opts Options) *Console {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Console{conn: conn, out: out, opts: opts}
}

// Feed consumes one input byte. CR is ignored and LF ends the line.
func (c *Console) Feed(ctx context.Context, b byte) {
	switch b {
	case '\r':
		return
	case '\n':
		line := string(c.buf[:c.n])
		over := c.discard
		c.n, c.discard = 0, false
		if !over && line != "" {
			c.Exec(ctx, line)
		}
		return
	case 0x08, 0x7f:
		if c.n > 0 && !c.discard {
			c.n--
		}
		return
	}
	if c.discard {
		return
	}
	if c.n+1 < LineCap {
		c.buf[c.n] = b
		c.n++
		return
	}
	c.say("Command buffer overflow. Discarding current line.")
	c.n, c.discard = 0, true
}

// Serve feeds r into the console until ctx is done or r fails. It also
// follows config/console for the echo setting.
func (c *Console) Serve(ctx context.Context, r io.Reader) error {
	cfgSub := c.conn.Subscribe(topicConfigConsole)
	defer c.conn.Unsubscribe(cfgSub)

	chunks := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		for {
			b := make([]byte, 64)
			n, err := r.Read(b)
			if n > 0 {
				select {
				case chunks <- b[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.stopReset()
			return ctx.Err()
		case msg := <-cfgSub.Channel():
			c.applyConfig(msg)
		case b := <-chunks:
			for _, ch := range b {
				c.Feed(ctx, ch)
			}
		case err := <-errc:
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Run serves r until it reaches EOF or ctx ends. Read errors are logged
// and Serve is retried after retry.
func (c *Console) Run(ctx context.Context, r io.Reader, retry time.Duration) error {
	for {
		err := c.Serve(ctx, r)
		if err == nil || ctx.Err() != nil {
			return err
		}
		println("[console]", err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (c *Console) applyConfig(msg *bus.Message) {
	cfg, err := jsonx.Decode[types.ConsoleConfig](msg.Payload)
	if err != nil {
		println("[console] bad config:", err.Error())
		return
	}
	c.opts.Echo = cfg.Echo
}

func (c *Console) write(s string) {
	c.mu.Lock()
	_, _ = io.WriteString(c.out, s)
	c.mu.Unlock()
}

func (c *Console) say(s string) { c.write("> " + s + "\n") }
func (c *Console) blank()       { c.write("\n") }

func (c *Console) scheduleReset() {
	c.stopReset()
	fn := c.opts.Reset
	c.reset = time.AfterFunc(resetDelay, func() {
		c.say("Restarting now as requested...")
		fn()
	})
}

func (c *Console) stopReset() {
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
}

func f3(v float32) string { return strconv.FormatFloat(float64(v), 'f', 3, 32) }
func f0(v float32) string { return strconv.FormatFloat(float64(v), 'f', 0, 32) }
func itoa(v int) string   { return strconv.Itoa(v) }
