package core

// edgeEps is the transition width below which EDGE_CENTER zone boundaries
// are hard edges.
const edgeEps = 1e-6

// ComputeGradient fills the colour buffer from the live base colours
// according to the staged gradient mode.
func (e *Engine) ComputeGradient() {
	c := &e.cfg
	primary, secondary := e.colorOne, e.colorTwo
	if c.GradientInvertColors {
		primary, secondary = secondary, primary
	}
	n := e.n
	out := e.colors[:n]

	switch c.GradientMode {
	case GradientSingleColor:
		q := primary.Quantize()
		for i := range out {
			out[i] = q
		}

	case GradientMidpointSplit:
		split := (n + 1) / 2
		p, s := primary.Quantize(), secondary.Quantize()
		for i := range out {
			if i < split {
				out[i] = p
			} else {
				out[i] = s
			}
		}

	case GradientLinearPadding:
		e.linearPadding(out, primary, secondary)

	case GradientEdgeCenter:
		e.edgeCenter(out, primary, secondary)

	default: // GradientLinear
		if n <= 1 {
			out[0] = primary.Quantize()
			return
		}
		for i := range out {
			t := float32(i) / float32(n-1)
			out[i] = blend(primary, secondary, t).Quantize()
		}
	}
}

// linearPadding holds the blend weight at padValue over the first padStart
// fraction of the index range and at 1-padValue over the last, ramping
// linearly in between.
func (e *Engine) linearPadding(out []PixelByte, primary, secondary PixelF) {
	padStart := e.cfg.GradientPaddingBegin
	padValue := e.cfg.GradientPaddingValue
	n := len(out)
	if n == 1 {
		out[0] = blend(primary, secondary, 0.5).Quantize()
		return
	}
	last := float32(n - 1)
	startIdx := padStart * last
	endIdx := (1 - padStart) * last
	span := endIdx - startIdx

	for i := range out {
		x := float32(i)
		var w1 float32
		switch {
		case x <= startIdx:
			w1 = padValue
		case x >= endIdx || span <= 0:
			w1 = 1 - padValue
		default:
			t := (x - startIdx) / span
			w1 = padValue + (1-2*padValue)*t
		}
		out[i] = blend(primary, secondary, 1-w1).Quantize()
	}
}

// edgeCenter lays out primary edges, a secondary center and two transitions.
func (e *Engine) edgeCenter(out []PixelByte, primary, secondary PixelF) {
	edge, center := sanitizeEdgeCenter(e.cfg.GradientMiddleEdgeSize, e.cfg.GradientMiddleCenterSize)
	interp := e.cfg.GradientInterpolation

	half := (1 - (2*edge + center)) / 2
	if half < 0 {
		half = 0
	}
	leftEdgeEnd := edge
	leftTransEnd := leftEdgeEnd + half
	centerEnd := leftTransEnd + center
	rightTransEnd := centerEnd + half
	hard := half <= edgeEps

	p, s := primary.Quantize(), secondary.Quantize()
	n := len(out)
	for i := range out {
		var x float32
		if n > 1 {
			x = float32(i) / float32(n-1)
		}
		switch {
		case x <= leftEdgeEnd:
			out[i] = p
		case x < leftTransEnd && !hard:
			t := interp.apply((x - leftEdgeEnd) / half)
			out[i] = blend(primary, secondary, t).Quantize()
		case x < centerEnd:
			out[i] = s
		case x < rightTransEnd && !hard:
			t := interp.apply((x - centerEnd) / half)
			out[i] = blend(secondary, primary, t).Quantize()
		default:
			out[i] = p
		}
	}
}
