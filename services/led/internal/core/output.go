package core

import "ledcode-go/x/mathx"

// ApplyOutputScaling multiplies colours by scale, clamps, applies live
// brightness and on/off factor and rounds into the pixel buffer.
func (e *Engine) ApplyOutputScaling() {
	gain := mathx.Clamp(e.brightness, 0, 255) / 255 * mathx.Clamp01(e.onoff)
	for i := 0; i < e.n; i++ {
		col := FromByte(e.colors[i])
		sc := e.scale[i]
		scaled := PixelF{
			R: mathx.Clamp(col.R*sc.R, 0, 255) * gain,
			G: mathx.Clamp(col.G*sc.G, 0, 255) * gain,
			B: mathx.Clamp(col.B*sc.B, 0, 255) * gain,
			W: mathx.Clamp(col.W*sc.W, 0, 255) * gain,
		}
		e.pixels[i] = scaled.Quantize()
	}
}
