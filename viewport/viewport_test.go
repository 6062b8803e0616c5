package viewport

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestZoomThenPan(t *testing.T) {
	c := NewController()
	c.ZoomAt(2, Point{100, 100})
	c.PanBy(50, 0)

	got := c.Transform().Apply(Point{100, 100})
	assert.InDelta(t, 150, got.X, 1e-9)
	assert.InDelta(t, 100, got.Y, 1e-9)
	assert.Equal(t, 2.0, c.Transform().K)
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	c := NewController()
	c.PanBy(-30, 12)
	screen := Point{240, 180}
	before := c.Transform().Invert(screen)

	c.ZoomAt(1.7, screen)
	after := c.Transform().Invert(screen)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomClamped(t *testing.T) {
	c := NewController()
	for i := 0; i < 50; i++ {
		c.ZoomAt(2, Point{0, 0})
	}
	assert.Equal(t, MaxScale, c.Transform().K)

	for i := 0; i < 50; i++ {
		c.Wheel(3, Point{0, 0})
	}
	assert.Equal(t, MinScale, c.Transform().K)

	c.ZoomAt(0, Point{0, 0})
	c.ZoomAt(-1, Point{0, 0})
	assert.Equal(t, MinScale, c.Transform().K)
}

func TestWheelDirection(t *testing.T) {
	c := NewController()
	c.Wheel(-1, Point{10, 10})
	assert.Greater(t, c.Transform().K, 1.0)

	c.Reset()
	c.Wheel(1, Point{10, 10})
	assert.Less(t, c.Transform().K, 1.0)
}

func TestPanGesture(t *testing.T) {
	c := NewController()
	c.PanMove(Point{50, 50})
	assert.Equal(t, Identity, c.Transform())

	c.PanStart(Point{10, 10})
	assert.True(t, c.Panning())
	c.PanMove(Point{20, 5})
	c.PanMove(Point{25, 0})
	c.PanEnd()
	c.PanMove(Point{100, 100})

	assert.False(t, c.Panning())
	assert.Equal(t, Transform{K: 1, X: 15, Y: -10}, c.Transform())
}

func TestReset(t *testing.T) {
	c := NewController()
	c.ZoomAt(3, Point{1, 2})
	c.PanStart(Point{0, 0})
	c.Reset()
	assert.Equal(t, Identity, c.Transform())
	assert.False(t, c.Panning())
}

func TestSetTransformClamps(t *testing.T) {
	c := NewController()
	c.SetTransform(Transform{K: 10, X: 1, Y: 2})
	assert.Equal(t, Transform{K: MaxScale, X: 1, Y: 2}, c.Transform())
}

func TestCompose(t *testing.T) {
	a := Transform{K: 2, X: 10, Y: 0}
	b := Transform{K: 0.5, X: -4, Y: 6}
	p := Point{7, 3}

	got := a.Compose(b).Apply(p)
	want := a.Apply(b.Apply(p))
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestString(t *testing.T) {
	assert.Equal(t, "translate(10,-5) scale(1.5)", Transform{K: 1.5, X: 10, Y: -5}.String())
}

func TestTransformProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invert undoes apply", prop.ForAll(
		func(k, tx, ty, px, py float64) bool {
			tr := Transform{K: k, X: tx, Y: ty}
			back := tr.Invert(tr.Apply(Point{px, py}))
			return abs(back.X-px) < 1e-6 && abs(back.Y-py) < 1e-6
		},
		gen.Float64Range(MinScale, MaxScale),
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
	))

	properties.Property("scale stays within extent", prop.ForAll(
		func(factors []float64) bool {
			c := NewController()
			for _, f := range factors {
				c.ZoomAt(f, Point{f, -f})
				if k := c.Transform().K; k < MinScale || k > MaxScale {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.01, 20)),
	))

	properties.TestingRun(t)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
