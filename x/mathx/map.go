package mathx

// MapRange maps x in [inMin,inMax] to [outMin,outMax].
// Clamps to the out range if input is outside; a zero-width input range or a NaN x yields outMin.
func MapRange(x, inMin, inMax, outMin, outMax float32) float32 {
	if inMax == inMin || x != x {
		return outMin
	}
	if inMax < inMin {
		inMin, inMax = inMax, inMin
		outMin, outMax = outMax, outMin
	}
	if x <= inMin {
		return outMin
	}
	if x >= inMax {
		return outMax
	}
	t := (x - inMin) / (inMax - inMin)
	return outMin + t*(outMax-outMin)
}

// RoundByte rounds v half-up and clamps it to [0,255].
func RoundByte(v float32) uint8 {
	v = Clamp(v, 0, 255)
	return uint8(v + 0.5)
}
