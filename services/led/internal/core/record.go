package core

import (
	"encoding/binary"
	"math"

	"ledcode-go/errcode"
)

// RecordSize is the encoded size of a Config record.
const RecordSize = 112

type recWriter struct{ b []byte }

func (w *recWriter) f32(v float32) { w.b = binary.LittleEndian.AppendUint32(w.b, math.Float32bits(v)) }
func (w *recWriter) u32(v uint32)  { w.b = binary.LittleEndian.AppendUint32(w.b, v) }
func (w *recWriter) u8(v uint8)    { w.b = append(w.b, v) }
func (w *recWriter) px(p PixelF) {
	w.f32(p.R)
	w.f32(p.G)
	w.f32(p.B)
	w.f32(p.W)
}

type recReader struct {
	b   []byte
	off int
}

func (r *recReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v
}

// f32 decodes a float; non-finite values read as 0 so the clamps hold.
func (r *recReader) f32() float32 {
	v := math.Float32frombits(r.u32())
	if v != v || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}
func (r *recReader) u8() uint8 {
	v := r.b[r.off]
	r.off++
	return v
}
func (r *recReader) px() PixelF {
	return PixelF{R: r.f32(), G: r.f32(), B: r.f32(), W: r.f32()}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// AppendConfigRecord appends the staged configuration as a fixed-size
// little-endian record.
func (e *Engine) AppendConfigRecord(dst []byte) []byte {
	c := &e.cfg
	w := recWriter{b: dst}
	w.px(c.ColorOneStaging)
	w.px(c.ColorTwoStaging)
	w.f32(c.BrightnessStaging)
	w.f32(c.OnOffStaging)
	w.f32(c.ColorIncrement)
	w.f32(c.BrightnessIncrement)
	w.f32(c.OnOffIncrement)
	w.u32(c.ProcessingIntervalMs)
	w.u32(c.EffectIntervalMs)
	w.f32(c.GradientPaddingBegin)
	w.f32(c.GradientPaddingValue)
	w.f32(c.GradientMiddleEdgeSize)
	w.f32(c.GradientMiddleCenterSize)
	w.u8(uint8(c.GradientInterpolation))
	w.u8(uint8(c.GradientMode))
	w.u8(b2u(c.GradientInvertColors))
	w.u8(b2u(c.EffectActive))
	w.f32(c.EffectMinAmplitude)
	w.f32(c.EffectMaxAmplitude)
	w.u32(c.EffectEvolveMinSteps)
	w.u32(c.EffectEvolveMaxSteps)
	w.u32(c.EffectHoldMinSteps)
	w.u32(c.EffectHoldMaxSteps)
	w.u32(c.ChangeCounter)
	w.u32(c.LastModifiedMs)
	return w.b
}

// RestoreConfigRecord replaces the staged configuration with a record
// produced by AppendConfigRecord. Every field passes through the setter
// clamps; live values keep fading from where they are.
func (e *Engine) RestoreConfigRecord(rec []byte) error {
	if len(rec) != RecordSize {
		return &errcode.E{C: errcode.InvalidPayload, Op: "core.RestoreConfigRecord", Msg: "record size mismatch"}
	}
	r := recReader{b: rec}
	var c Config
	c.ColorOneStaging = r.px()
	c.ColorTwoStaging = r.px()
	c.BrightnessStaging = r.f32()
	c.OnOffStaging = r.f32()
	c.ColorIncrement = r.f32()
	c.BrightnessIncrement = r.f32()
	c.OnOffIncrement = r.f32()
	c.ProcessingIntervalMs = r.u32()
	c.EffectIntervalMs = r.u32()
	c.GradientPaddingBegin = r.f32()
	c.GradientPaddingValue = r.f32()
	c.GradientMiddleEdgeSize = r.f32()
	c.GradientMiddleCenterSize = r.f32()
	c.GradientInterpolation = Interpolation(r.u8())
	c.GradientMode = GradientMode(r.u8())
	c.GradientInvertColors = r.u8() != 0
	c.EffectActive = r.u8() != 0
	c.EffectMinAmplitude = r.f32()
	c.EffectMaxAmplitude = r.f32()
	c.EffectEvolveMinSteps = r.u32()
	c.EffectEvolveMaxSteps = r.u32()
	c.EffectHoldMinSteps = r.u32()
	c.EffectHoldMaxSteps = r.u32()
	c.ChangeCounter = r.u32()
	c.LastModifiedMs = r.u32()

	c.sanitize()
	e.cfg = c
	return nil
}

// ChangeCounter and LastModifiedMs expose change tracking to persistence.
func (e *Engine) ChangeCounter() uint32  { return e.cfg.ChangeCounter }
func (e *Engine) LastModifiedMs() uint32 { return e.cfg.LastModifiedMs }
