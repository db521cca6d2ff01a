package core

import "math"

// MachineEpsilon is half the distance between 1 and the next representable float64
const MachineEpsilon = 0x1p-53

// OneMinusEpsilon is the largest float64 strictly less than one
const OneMinusEpsilon = 0x1.fffffffffffffp-1

// ShadowEpsilon shortens visibility rays so they stop short of the receiving surface
const ShadowEpsilon = 1e-4

// Gamma returns the conservative rounding-error bound for n floating-point operations
func Gamma(n int) float64 {
	return float64(n) * MachineEpsilon / (1 - float64(n)*MachineEpsilon)
}

// Clamp restricts val to [low, high]
func Clamp(val, low, high float64) float64 {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

// Lerp linearly interpolates between a and b
func Lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// SafeSqrt returns the square root of x, treating small negative inputs as zero
func SafeSqrt(x float64) float64 {
	return math.Sqrt(math.Max(0, x))
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
