package strip

import "ledcode-go/types"

// Dual drives two strips as one. Contiguous mode sends the first SplitAt
// pixels to A and the rest to B; Interleaved sends even indices to A and
// odd ones to B. When Reverse is set, B's pixels are sent last-first so
// two strips wired from the middle read as one run.
type Dual struct {
	A, B        Sink
	SplitAt     int
	Interleaved bool
	Reverse     bool

	bufA, bufB []types.Pixel
}

func NewDual(a, b Sink, splitAt int) *Dual {
	return &Dual{A: a, B: b, SplitAt: splitAt}
}

func (d *Dual) Write(px []types.Pixel) error {
	d.bufA, d.bufB = d.bufA[:0], d.bufB[:0]
	if d.Interleaved {
		for i, p := range px {
			if i%2 == 0 {
				d.bufA = append(d.bufA, p)
			} else {
				d.bufB = append(d.bufB, p)
			}
		}
	} else {
		split := d.SplitAt
		if split > len(px) || split < 0 {
			split = len(px)
		}
		d.bufA = append(d.bufA, px[:split]...)
		d.bufB = append(d.bufB, px[split:]...)
	}
	if d.Reverse {
		for i, j := 0, len(d.bufB)-1; i < j; i, j = i+1, j-1 {
			d.bufB[i], d.bufB[j] = d.bufB[j], d.bufB[i]
		}
	}
	errA := d.A.Write(d.bufA)
	errB := d.B.Write(d.bufB)
	if errA != nil {
		return errA
	}
	return errB
}
