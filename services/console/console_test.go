package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"ledcode-go/bus"
	"ledcode-go/drivers/strip"
	"ledcode-go/services/bridge"
	"ledcode-go/services/led"
	"ledcode-go/types"
)

type rig struct {
	c   *Console
	out *bytes.Buffer
	bus *bus.Connection
}

func newRig(t *testing.T, opts Options) *rig {
	t.Helper()
	b := bus.NewBus(32)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go led.New(b.NewConnection("led"), led.Options{Pixels: 4, Sink: strip.Discard{}}).Run(ctx)
	go bridge.Start(ctx, b.NewConnection("bridge"))

	tc := b.NewConnection("test")
	for _, topic := range []bus.Topic{bus.T("led", "status"), bus.T("bridge", "state")} {
		sub := tc.Subscribe(topic)
		select {
		case <-sub.Channel():
		case <-time.After(2 * time.Second):
			t.Fatalf("no %v", topic)
		}
		tc.Unsubscribe(sub)
	}

	out := &bytes.Buffer{}
	return &rig{c: New(b.NewConnection("console"), out, opts), out: out, bus: tc}
}

func (r *rig) run(line string) string {
	r.out.Reset()
	r.c.Exec(context.Background(), line)
	return r.out.String()
}

func (r *rig) view(t *testing.T) types.LEDConfigView {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rep, err := r.bus.RequestWait(ctx, r.bus.NewMessage(bus.T("led", "control", "get"), nil, false))
	if err != nil {
		t.Fatal(err)
	}
	return rep.Payload.(types.LEDConfigView)
}

func reply(s string) string { return "> " + s + "\n\n" }

func TestFeed_OverflowDiscardsLine(t *testing.T) {
	var out bytes.Buffer
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), &out, Options{})
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		c.Feed(ctx, 'A')
	}
	c.Feed(ctx, '\n')
	if got := out.String(); got != "> Command buffer overflow. Discarding current line.\n" {
		t.Fatalf("overflow output %q", got)
	}

	out.Reset()
	for _, ch := range []byte("FROB\r\n") {
		c.Feed(ctx, ch)
	}
	if got := out.String(); got != reply(`Unknown command: FROB. Write "HELP".`) {
		t.Fatalf("after overflow %q", got)
	}
}

func TestFeed_BackspaceAndEcho(t *testing.T) {
	var out bytes.Buffer
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), &out, Options{Echo: true})
	ctx := context.Background()

	for _, ch := range []byte("HELQ\bP SYSTEM\n") {
		c.Feed(ctx, ch)
	}
	got := out.String()
	if !strings.HasPrefix(got, "HELP SYSTEM\n> SYSTEM usage:\n") {
		t.Fatalf("output %q", got)
	}

	out.Reset()
	c.Feed(ctx, '\n')
	if out.Len() != 0 {
		t.Fatalf("empty line produced %q", out.String())
	}
}

func TestServe_ReadsUntilEOF(t *testing.T) {
	var out bytes.Buffer
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), &out, Options{})
	err := c.Serve(context.Background(), strings.NewReader("SYSTEM RESET now\n"))
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != reply("SYSTEM RESET takes no arguments.") {
		t.Fatalf("output %q", out.String())
	}
}

// flakyReader fails its first read, then serves data until EOF.
type flakyReader struct {
	failed bool
	r      io.Reader
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if !f.failed {
		f.failed = true
		return 0, errors.New("uart overrun")
	}
	return f.r.Read(p)
}

func TestRun_RetriesErrorsAndStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), &out, Options{})
	in := &flakyReader{r: strings.NewReader("SYSTEM RESET now\n")}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), in, time.Millisecond) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return at EOF")
	}
	if out.String() != reply("SYSTEM RESET takes no arguments.") {
		t.Fatalf("output %q", out.String())
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), io.Discard, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, pr, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run ignored cancel")
	}
}

func TestParseColor(t *testing.T) {
	ok := []struct {
		in   string
		want types.Pixel
	}{
		{"255 0 0 0", types.Pixel{R: 255}},
		{"300, -5, 10, 7", types.Pixel{R: 255, B: 10, W: 7}},
		{"warmwhite_rgb", types.Pixel{R: 255, G: 147, B: 41}},
		{"White", types.Pixel{W: 255}},
		{"0xFF8800", types.Pixel{R: 255, G: 136}},
		{"#0f0", types.Pixel{G: 255}},
	}
	for _, tc := range ok {
		got, err := parseColor(strings.Fields(tc.in))
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %+v, %v", tc.in, got, err)
		}
	}
	for _, in := range []string{"1 2 3", "nosuch", "0xZZ0000", "1 2 x 4"} {
		if _, err := parseColor(strings.Fields(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestHexWords(t *testing.T) {
	if got := hexWords("SET COLOR ONE #ff0000"); got != "SET COLOR ONE 0xff0000" {
		t.Fatalf("got %q", got)
	}
	if got := hexWords("a#b"); got != "a#b" {
		t.Fatalf("got %q", got)
	}
}

func TestExec_SetColor(t *testing.T) {
	r := newRig(t, Options{})

	if got := r.run("set color one 10 20 30 40"); got != reply("Color ONE set to [10, 20, 30, 40].") {
		t.Fatalf("got %q", got)
	}
	if got := r.run("SET COLOR 2 #0000ff"); got != reply("Color TWO set to [0, 0, 255, 0].") {
		t.Fatalf("got %q", got)
	}
	v := r.view(t)
	if v.ColorOne != [4]float32{10, 20, 30, 40} || v.ColorTwo != [4]float32{0, 0, 255, 0} {
		t.Fatalf("staged %v %v", v.ColorOne, v.ColorTwo)
	}

	for line, want := range map[string]string{
		"SET COLOR THREE red":     "SET COLOR: expected ONE or TWO",
		"SET COLOR 3 red":         "SET COLOR: invalid index (use 1 or 2)",
		"SET COLOR TWO":           "SET COLOR: missing color arguments",
		"SET COLOR TWO notacolor": "SET COLOR: invalid color. Type HELP PREDEFINED for names.",
		"SET BRIGHTNESS 300":      "Brightness set to 255.",
		"SET BRIGHTNESS bright":   "Syntax: SET BRIGHTNESS <0..255>",
		"SET WIDTH 3":             "SET: unknown subcommand. Valid: COLOR, BRIGHTNESS, PARAM, GRADIENT. Type HELP.",
		"FROB":                    `Unknown command: FROB. Write "HELP".`,
	} {
		if got := r.run(line); got != reply(want) {
			t.Fatalf("%s: got %q", line, got)
		}
	}
}

func TestExec_SetParam(t *testing.T) {
	r := newRig(t, Options{})
	for line, want := range map[string]string{
		"SET PARAM 4 25":                     "Processing interval set to 25 ms.",
		"SET PARAM 1 2.5":                    "Color increment set to 2.500.",
		"SET PARAM effect_hold_max_steps 42": "Effect hold max steps set to 42.",
		"SET PARAM 1 0":                      "SET PARAM 1: value must be > 0",
		"SET PARAM 12 1":                     "SET PARAM 12 has been replaced. Use TOGGLE EFFECT instead.",
		"SET PARAM 13 1":                     "SET PARAM: unknown parameter index. Type 'HELP SET PARAM'.",
		"SET PARAM 2":                        "SET PARAM: missing value",
	} {
		if got := r.run(line); got != reply(want) {
			t.Fatalf("%s: got %q", line, got)
		}
	}
	v := r.view(t)
	if v.ProcessingIntervalMs != 25 || v.EffectHoldMaxSteps != 42 {
		t.Fatalf("staged %d %d", v.ProcessingIntervalMs, v.EffectHoldMaxSteps)
	}

	help := r.run("HELP SET PARAM")
	if !strings.Contains(help, " 4) processing_interval_ms") || !strings.Contains(help, "| 25 ms |") {
		t.Fatalf("help %q", help)
	}
}

func TestExec_Gradient(t *testing.T) {
	r := newRig(t, Options{})
	for _, tc := range []struct{ line, want string }{
		{"SET GRADIENT MODE midpoint", "Gradient mode set to MIDPOINT_SPLIT."},
		{"SET GRADIENT MODE zigzag", "SET GRADIENT MODE: unknown mode"},
		{"SET GRADIENT MODE 4", "Gradient mode set to EDGE_CENTER."},
		{"SET GRADIENT EDGE 0.2", "Gradient edge size set to 0.200."},
		{"SET GRADIENT INTERPOLATION scurve", "Gradient interpolation set to SMOOTH."},
		{"SET GRADIENT PADBEGIN", "SET GRADIENT PADDINGBEGIN: missing value"},
		{"SET GRADIENT EDGE nan", "SET GRADIENT EDGE: invalid number"},
		{"SET GRADIENT CENTER NaN", "SET GRADIENT CENTER: invalid number"},
	} {
		if got := r.run(tc.line); got != reply(tc.want) {
			t.Fatalf("%s: got %q", tc.line, got)
		}
	}
	if v := r.view(t); v.GradientEdgeSize != 0.2 {
		t.Fatalf("edge after nan = %v", v.GradientEdgeSize)
	}
	show := r.run("SET GRADIENT SHOW")
	if !strings.Contains(show, "> Current gradient configuration:\n>   Mode: EDGE_CENTER\n") {
		t.Fatalf("show %q", show)
	}
}

func TestExec_Toggles(t *testing.T) {
	r := newRig(t, Options{})
	for _, tc := range []struct{ line, want string }{
		{"TOGGLE HSL_RGBW", "HSL conversion now outputs RGBW (white channel enabled)."},
		{"TOGGLE RGBW_MODE", "HSL conversion now outputs RGB only (white channel disabled)."},
		{"TOGGLE EFFECT", "Effect disabled."},
		{"TOGGLE ONOFF", "Output fade target set to OFF."},
		{"TOGGLE gradient-invert", "Gradient color inversion enabled."},
	} {
		if got := r.run(tc.line); got != reply(tc.want) {
			t.Fatalf("%s: got %q", tc.line, got)
		}
	}
	v := r.view(t)
	if v.EffectActive || v.OnOff != 0 || !v.GradientInvert {
		t.Fatalf("staged %+v", v)
	}
	if got := r.run("TOGGLE"); !strings.HasPrefix(got, "> TOGGLE usage:\n") {
		t.Fatalf("got %q", got)
	}
}

func TestExec_SystemAndStore(t *testing.T) {
	r := newRig(t, Options{})
	if got := r.run("SYSTEM RESET"); got != reply("SYSTEM RESET: unsupported") {
		t.Fatalf("got %q", got)
	}
	if got := r.run("SAVE"); got != reply("SAVE: no_store") {
		t.Fatalf("got %q", got)
	}

	resets := 0
	r.c.opts.Reset = func() { resets++ }
	if got := r.run("SYSTEM RESET"); got != reply("System restart requested. Device will reboot in 10 seconds.") {
		t.Fatalf("got %q", got)
	}
	if r.c.reset == nil {
		t.Fatal("restart not scheduled")
	}
	r.c.stopReset()
	if resets != 0 {
		t.Fatal("reset ran early")
	}
}
