package strip

import (
	"io"
	"strconv"

	"ledcode-go/types"
)

// ANSI renders frames as a row of 24-bit background-coloured cells,
// redrawn in place. White is mixed into RGB for display.
type ANSI struct {
	w     io.Writer
	width int // cells per pixel
	buf   []byte
}

func NewANSI(w io.Writer, cellWidth int) *ANSI {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	return &ANSI{w: w, width: cellWidth}
}

func (a *ANSI) Write(px []types.Pixel) error {
	b := append(a.buf[:0], '\r')
	for _, p := range px {
		p = MixWhite(p)
		b = append(b, "\x1b[48;2;"...)
		b = strconv.AppendUint(b, uint64(p.R), 10)
		b = append(b, ';')
		b = strconv.AppendUint(b, uint64(p.G), 10)
		b = append(b, ';')
		b = strconv.AppendUint(b, uint64(p.B), 10)
		b = append(b, 'm')
		for i := 0; i < a.width; i++ {
			b = append(b, ' ')
		}
	}
	b = append(b, "\x1b[0m"...)
	a.buf = b
	_, err := a.w.Write(b)
	return err
}
