package mathx

// Lerp returns a + (b-a)*t with t clamped to [0,1].
// Result is in [min(a,b), max(a,b)].
func Lerp(a, b, t float32) float32 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// SmoothStep is the cubic Hermite ease t²(3-2t) on t clamped to [0,1].
func SmoothStep(t float32) float32 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}
