package core

import "ledcode-go/x/mathx"

// clampIncrement keeps a fade step strictly positive.
func clampIncrement(v, hi float32) float32 {
	if v != v { // NaN
		return minIncrement
	}
	return mathx.Clamp(v, minIncrement, hi)
}
