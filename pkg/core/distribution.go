package core

import "sort"

// Distribution1D is a piecewise-constant 1D distribution built from
// non-negative function values, used for discrete choices such as picking a light
type Distribution1D struct {
	fn      []float64
	cdf     []float64
	funcInt float64
}

// NewDistribution1D builds the CDF for fn. An all-zero function yields a uniform distribution.
func NewDistribution1D(fn []float64) *Distribution1D {
	n := len(fn)
	d := &Distribution1D{
		fn:  append([]float64(nil), fn...),
		cdf: make([]float64, n+1),
	}
	for i := 1; i <= n; i++ {
		d.cdf[i] = d.cdf[i-1] + d.fn[i-1]/float64(n)
	}
	d.funcInt = d.cdf[n]
	if d.funcInt == 0 {
		for i := 1; i <= n; i++ {
			d.cdf[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			d.cdf[i] /= d.funcInt
		}
	}
	return d
}

// Count returns the number of function values
func (d *Distribution1D) Count() int {
	return len(d.fn)
}

// Integral returns the integral of the piecewise-constant function over [0,1]
func (d *Distribution1D) Integral() float64 {
	return d.funcInt
}

// findInterval returns the largest index i with cdf[i] <= u, clamped to a valid segment
func (d *Distribution1D) findInterval(u float64) int {
	i := sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u }) - 1
	return max(0, min(i, len(d.fn)-1))
}

// SampleDiscrete picks an index with probability proportional to its function value.
// It returns the index, its probability, and u remapped to [0,1) within the chosen segment.
func (d *Distribution1D) SampleDiscrete(u float64) (int, float64, float64) {
	if len(d.fn) == 0 {
		return -1, 0, 0
	}
	offset := d.findInterval(u)
	uRemapped := 0.0
	if width := d.cdf[offset+1] - d.cdf[offset]; width > 0 {
		uRemapped = min((u-d.cdf[offset])/width, OneMinusEpsilon)
	}
	return offset, d.DiscretePDF(offset), uRemapped
}

// SampleContinuous samples x in [0,1) proportionally to the function and returns x, its density and segment
func (d *Distribution1D) SampleContinuous(u float64) (float64, float64, int) {
	if len(d.fn) == 0 {
		return 0, 0, -1
	}
	offset := d.findInterval(u)
	du := u - d.cdf[offset]
	if width := d.cdf[offset+1] - d.cdf[offset]; width > 0 {
		du /= width
	}
	pdf := 1.0
	if d.funcInt > 0 {
		pdf = d.fn[offset] / d.funcInt
	}
	return (float64(offset) + du) / float64(len(d.fn)), pdf, offset
}

// DiscretePDF returns the probability of choosing index
func (d *Distribution1D) DiscretePDF(index int) float64 {
	if index < 0 || index >= len(d.fn) {
		return 0
	}
	if d.funcInt == 0 {
		return 1 / float64(len(d.fn))
	}
	return d.fn[index] / (d.funcInt * float64(len(d.fn)))
}
