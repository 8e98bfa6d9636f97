//go:build !amd64 && !arm64

package vecindex

import "math"

func dotProductSIMD(a, b []float32) float32 {
	return dotProductF32x8(a, b)
}

func vectorNormSIMD(v []float32) float32 {
	return float32(math.Sqrt(float64(dotProductF32x8(v, v))))
}

func simdCapability() string {
	return "portable Go (no arch-specific detection on this platform)"
}
