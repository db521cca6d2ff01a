package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Filter weights a sample's contribution to the pixels around it
type Filter interface {
	// Evaluate returns the weight of a sample at offset p from a pixel center
	Evaluate(p core.Vec2) float64
	// Radius is the half-extent of the filter's support in pixels
	Radius() core.Vec2
}

// BoxFilter weights every sample inside its support equally
type BoxFilter struct {
	radius core.Vec2
}

// NewBoxFilter creates a box filter. A radius of 0.5 gives each sample to exactly one pixel.
func NewBoxFilter(radius core.Vec2) *BoxFilter {
	return &BoxFilter{radius: radius}
}

func (f *BoxFilter) Evaluate(p core.Vec2) float64 {
	return 1
}

func (f *BoxFilter) Radius() core.Vec2 {
	return f.radius
}

// GaussianFilter is a Gaussian shifted down so it reaches zero at the edge of its support
type GaussianFilter struct {
	radius     core.Vec2
	alpha      float64
	expX, expY float64
}

// NewGaussianFilter creates a Gaussian filter with falloff rate alpha
func NewGaussianFilter(radius core.Vec2, alpha float64) *GaussianFilter {
	return &GaussianFilter{
		radius: radius,
		alpha:  alpha,
		expX:   math.Exp(-alpha * radius.X * radius.X),
		expY:   math.Exp(-alpha * radius.Y * radius.Y),
	}
}

func (f *GaussianFilter) gaussian(d, expv float64) float64 {
	return max(0, math.Exp(-f.alpha*d*d)-expv)
}

func (f *GaussianFilter) Evaluate(p core.Vec2) float64 {
	return f.gaussian(p.X, f.expX) * f.gaussian(p.Y, f.expY)
}

func (f *GaussianFilter) Radius() core.Vec2 {
	return f.radius
}

// NewFilter creates a filter by name: "box" (the default) or "gaussian"
func NewFilter(name string) (Filter, error) {
	switch strings.ToLower(name) {
	case "", "box":
		return NewBoxFilter(core.NewVec2(0.5, 0.5)), nil
	case "gaussian":
		return NewGaussianFilter(core.NewVec2(1.5, 1.5), 2), nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}
