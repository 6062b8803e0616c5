// Package viewport maps layout coordinates to screen coordinates and handles
// pan and zoom gestures.
package viewport

import (
	"fmt"
	"math"
)

// Scale bounds of the controller
const (
	MinScale = 0.1
	MaxScale = 4.0
)

// wheelStep is the zoom factor for one notch of the wheel
const wheelStep = 1.1

// Point is a 2-D point
type Point struct {
	X, Y float64
}

// Transform is a uniform scale followed by a translation:
// screen = layout*K + (X, Y)
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform that changes nothing
var Identity = Transform{K: 1}

// Apply maps a layout point to the screen
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to layout coordinates
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Compose returns the transform that applies u first and then t
func (t Transform) Compose(u Transform) Transform {
	return Transform{K: t.K * u.K, X: t.K*u.X + t.X, Y: t.K*u.Y + t.Y}
}

// String formats the transform as an SVG transform attribute
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// Controller owns the view transform. It is the only writer of it.
type Controller struct {
	transform Transform
	min, max  float64

	panning bool
	last    Point
}

// NewController creates a controller at the identity transform
func NewController() *Controller {
	return &Controller{transform: Identity, min: MinScale, max: MaxScale}
}

// Transform returns the current transform
func (c *Controller) Transform() Transform {
	return c.transform
}

// SetTransform replaces the transform, clamping its scale
func (c *Controller) SetTransform(t Transform) {
	t.K = c.clamp(t.K)
	c.transform = t
}

// ScaleExtent returns the allowed scale range
func (c *Controller) ScaleExtent() (float64, float64) {
	return c.min, c.max
}

// ZoomAt multiplies the scale by factor keeping the layout point under the
// screen point fixed. The resulting scale is clamped to the extent.
func (c *Controller) ZoomAt(factor float64, screen Point) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	anchor := c.transform.Invert(screen)
	k := c.clamp(c.transform.K * factor)
	c.transform = Transform{
		K: k,
		X: screen.X - anchor.X*k,
		Y: screen.Y - anchor.Y*k,
	}
}

// Wheel zooms by one step per notch; a negative delta (scrolling up) zooms in
func (c *Controller) Wheel(deltaY float64, screen Point) {
	if deltaY == 0 {
		return
	}
	c.ZoomAt(math.Pow(wheelStep, -deltaY), screen)
}

// PanBy translates the view by a screen-space offset
func (c *Controller) PanBy(dx, dy float64) {
	c.transform.X += dx
	c.transform.Y += dy
}

// PanStart begins a pan gesture at a screen point
func (c *Controller) PanStart(p Point) {
	c.panning = true
	c.last = p
}

// PanMove translates the view by the pointer movement since the last event
func (c *Controller) PanMove(p Point) {
	if !c.panning {
		return
	}
	c.PanBy(p.X-c.last.X, p.Y-c.last.Y)
	c.last = p
}

// PanEnd finishes a pan gesture
func (c *Controller) PanEnd() {
	c.panning = false
}

// Panning reports whether a pan gesture is in progress
func (c *Controller) Panning() bool {
	return c.panning
}

// Reset returns to the identity transform
func (c *Controller) Reset() {
	c.transform = Identity
	c.panning = false
}

func (c *Controller) clamp(k float64) float64 {
	return math.Max(c.min, math.Min(c.max, k))
}
