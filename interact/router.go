package interact

import (
	"github.com/TFMV/ontograph/viewport"
)

// Target is what the router drives: the pin API plus hit testing
type Target interface {
	Pinner
	NodeAt(x, y float64) (string, bool)
}

// Gesture is the owner of a pointer
type Gesture int

const (
	GestureNone Gesture = iota
	GestureDrag
	GesturePan
)

func (g Gesture) String() string {
	switch g {
	case GestureDrag:
		return "drag"
	case GesturePan:
		return "pan"
	default:
		return "none"
	}
}

// Router decides, on pointer-down, whether a gesture belongs to the drag
// controller (a node was hit) or the viewport (empty canvas). The claim holds
// until pointer-up, so a drag never pans and a pan never drags.
type Router struct {
	target Target
	view   *viewport.Controller
	drag   *DragController
	claims map[int]Gesture
}

// NewRouter creates a router over a simulation and a viewport
func NewRouter(target Target, view *viewport.Controller, dragAlphaTarget float64, wake func()) *Router {
	return &Router{
		target: target,
		view:   view,
		drag:   NewDragController(target, dragAlphaTarget, wake),
		claims: make(map[int]Gesture),
	}
}

// Drag returns the drag controller
func (r *Router) Drag() *DragController { return r.drag }

// Claim returns the gesture owning a pointer
func (r *Router) Claim(pointerID int) Gesture { return r.claims[pointerID] }

// PointerDown hit-tests the screen point and claims the pointer
func (r *Router) PointerDown(pointerID int, screen viewport.Point) (Gesture, error) {
	if g, ok := r.claims[pointerID]; ok {
		return g, nil
	}
	p := r.view.Transform().Invert(screen)
	if nodeID, ok := r.target.NodeAt(p.X, p.Y); ok {
		if err := r.drag.Start(pointerID, nodeID); err != nil {
			return GestureNone, err
		}
		if err := r.drag.Move(pointerID, p); err != nil {
			return GestureDrag, err
		}
		r.claims[pointerID] = GestureDrag
		return GestureDrag, nil
	}

	// one pan at a time
	for _, g := range r.claims {
		if g == GesturePan {
			return GestureNone, nil
		}
	}
	r.view.PanStart(screen)
	r.claims[pointerID] = GesturePan
	return GesturePan, nil
}

// PointerMove forwards the movement to whoever claimed the pointer
func (r *Router) PointerMove(pointerID int, screen viewport.Point) error {
	switch r.claims[pointerID] {
	case GestureDrag:
		return r.drag.Move(pointerID, r.view.Transform().Invert(screen))
	case GesturePan:
		r.view.PanMove(screen)
	}
	return nil
}

// PointerUp ends the gesture and releases the claim
func (r *Router) PointerUp(pointerID int, screen viewport.Point) error {
	g := r.claims[pointerID]
	delete(r.claims, pointerID)
	switch g {
	case GestureDrag:
		if err := r.drag.Move(pointerID, r.view.Transform().Invert(screen)); err != nil {
			return err
		}
		return r.drag.End(pointerID)
	case GesturePan:
		r.view.PanMove(screen)
		r.view.PanEnd()
	}
	return nil
}

// Wheel always zooms, around the pointer
func (r *Router) Wheel(deltaY float64, screen viewport.Point) {
	r.view.Wheel(deltaY, screen)
}

// Reset ends every gesture
func (r *Router) Reset() {
	r.drag.Cancel()
	if r.view.Panning() {
		r.view.PanEnd()
	}
	r.claims = make(map[int]Gesture)
}
