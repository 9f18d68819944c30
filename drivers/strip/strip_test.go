package strip

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ledcode-go/types"
)

func TestOrderEncode(t *testing.T) {
	px := []types.Pixel{{R: 1, G: 2, B: 3, W: 4}}
	cases := []struct {
		o    Order
		want []byte
	}{
		{GRBW, []byte{2, 1, 3, 4}},
		{RGBW, []byte{1, 2, 3, 4}},
		{GRB, []byte{6, 5, 7}},
		{RGB, []byte{5, 6, 7}},
	}
	for _, c := range cases {
		got := c.o.Encode(nil, px)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("%s: got %v want %v", c.o, got, c.want)
		}
		if len(got) != c.o.BytesPerPixel() {
			t.Fatalf("%s: %d bytes per pixel", c.o, len(got))
		}
	}
}

func TestMixWhiteSaturates(t *testing.T) {
	got := MixWhite(types.Pixel{R: 250, G: 0, B: 100, W: 10})
	want := types.Pixel{R: 255, G: 10, B: 110}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestParseOrder(t *testing.T) {
	if o, ok := ParseOrder("GRB"); !ok || o != GRB {
		t.Fatalf("GRB -> %v %v", o, ok)
	}
	if o, ok := ParseOrder("grbw"); !ok || o != GRBW {
		t.Fatalf("grbw -> %v %v", o, ok)
	}
	if _, ok := ParseOrder("BGR"); ok {
		t.Fatal("BGR should not parse")
	}
}

func frame(n int) []types.Pixel {
	px := make([]types.Pixel, n)
	for i := range px {
		px[i] = types.Pixel{R: uint8(i)}
	}
	return px
}

func reds(px []types.Pixel) []uint8 {
	out := make([]uint8, len(px))
	for i, p := range px {
		out[i] = p.R
	}
	return out
}

func TestDualContiguous(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	d := NewDual(a, b, 3)
	if err := d.Write(frame(5)); err != nil {
		t.Fatal(err)
	}
	if got := reds(a.Last()); !bytes.Equal(got, []uint8{0, 1, 2}) {
		t.Fatalf("A got %v", got)
	}
	if got := reds(b.Last()); !bytes.Equal(got, []uint8{3, 4}) {
		t.Fatalf("B got %v", got)
	}

	d.Reverse = true
	_ = d.Write(frame(5))
	if got := reds(b.Last()); !bytes.Equal(got, []uint8{4, 3}) {
		t.Fatalf("reversed B got %v", got)
	}
}

func TestDualInterleaved(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	d := &Dual{A: a, B: b, Interleaved: true}
	_ = d.Write(frame(5))
	if got := reds(a.Last()); !bytes.Equal(got, []uint8{0, 2, 4}) {
		t.Fatalf("A got %v", got)
	}
	if got := reds(b.Last()); !bytes.Equal(got, []uint8{1, 3}) {
		t.Fatalf("B got %v", got)
	}
}

type failing struct{ err error }

func (f failing) Write([]types.Pixel) error { return f.err }

func TestDualWritesBothOnError(t *testing.T) {
	boom := errors.New("boom")
	b := &Recorder{}
	d := NewDual(failing{boom}, b, 1)
	if err := d.Write(frame(3)); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if b.Len() != 1 {
		t.Fatal("second strip should still be written")
	}
}

func TestANSI(t *testing.T) {
	var buf bytes.Buffer
	a := NewANSI(&buf, 2)
	if err := a.Write([]types.Pixel{{R: 255, W: 1}, {B: 7}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\r\x1b[48;2;255;1;1m  ") {
		t.Fatalf("unexpected prefix %q", out)
	}
	if !strings.Contains(out, "\x1b[48;2;0;0;7m  ") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRecorderLimit(t *testing.T) {
	r := &Recorder{Limit: 2}
	for i := 0; i < 5; i++ {
		_ = r.Write(frame(i + 1))
	}
	if r.Len() != 2 || len(r.Last()) != 5 {
		t.Fatalf("len=%d last=%d", r.Len(), len(r.Last()))
	}
}
