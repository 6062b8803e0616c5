// Package interact turns pointer input into drags on the simulation and pans
// or zooms on the viewport.
package interact

import (
	"errors"
	"fmt"

	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/viewport"
)

var (
	// ErrAlreadyDragging is returned when a node is grabbed by a second pointer
	ErrAlreadyDragging = errors.New("node already being dragged")

	// ErrPointerBusy is returned when a pointer that already holds a node
	// tries to grab another one
	ErrPointerBusy = errors.New("pointer already dragging")
)

// Pinner is the part of the simulation a drag is allowed to touch
type Pinner interface {
	Pin(id string, x, y float64) error
	Unpin(id string) error
	Position(id string) (physics.Vector, error)
	SetAlphaTarget(target float64)
	Reheat(alpha float64)
}

// DragController pins nodes under active pointers. Each node is either idle
// or dragged by exactly one pointer.
type DragController struct {
	sim    Pinner
	target float64
	wake   func()

	byPointer map[int]string
	byNode    map[string]int
}

// NewDragController creates a drag controller. target is the alpha target
// held while any drag is active; wake, if not nil, is called whenever a drag
// reheats the simulation.
func NewDragController(sim Pinner, target float64, wake func()) *DragController {
	return &DragController{
		sim:       sim,
		target:    target,
		wake:      wake,
		byPointer: make(map[int]string),
		byNode:    make(map[string]int),
	}
}

// Start grabs a node. The node is pinned where it currently is; the first
// active drag raises the alpha target and reheats the simulation.
func (d *DragController) Start(pointerID int, nodeID string) error {
	if _, ok := d.byNode[nodeID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyDragging, nodeID)
	}
	if held, ok := d.byPointer[pointerID]; ok {
		return fmt.Errorf("%w: pointer %d holds %s", ErrPointerBusy, pointerID, held)
	}
	pos, err := d.sim.Position(nodeID)
	if err != nil {
		return err
	}
	if err := d.sim.Pin(nodeID, pos.X, pos.Y); err != nil {
		return err
	}

	if len(d.byNode) == 0 {
		d.sim.SetAlphaTarget(d.target)
		d.sim.Reheat(d.target)
		if d.wake != nil {
			d.wake()
		}
	}
	d.byPointer[pointerID] = nodeID
	d.byNode[nodeID] = pointerID
	return nil
}

// Move follows the pointer with the pin of the node it holds. Moves from
// pointers that hold nothing are ignored.
func (d *DragController) Move(pointerID int, layout viewport.Point) error {
	nodeID, ok := d.byPointer[pointerID]
	if !ok {
		return nil
	}
	return d.sim.Pin(nodeID, layout.X, layout.Y)
}

// End releases the node held by the pointer. When the last drag ends the
// alpha target drops back to zero; alpha itself keeps its current value and
// decays from there.
func (d *DragController) End(pointerID int) error {
	nodeID, ok := d.byPointer[pointerID]
	if !ok {
		return nil
	}
	delete(d.byPointer, pointerID)
	delete(d.byNode, nodeID)

	err := d.sim.Unpin(nodeID)
	if len(d.byNode) == 0 {
		d.sim.SetAlphaTarget(0)
	}
	return err
}

// Cancel releases every drag
func (d *DragController) Cancel() {
	for pointerID := range d.byPointer {
		_ = d.End(pointerID)
	}
}

// Active returns the number of nodes being dragged
func (d *DragController) Active() int {
	return len(d.byNode)
}

// Dragging reports whether a node is being dragged
func (d *DragController) Dragging(nodeID string) bool {
	_, ok := d.byNode[nodeID]
	return ok
}

// Holding returns the node held by a pointer
func (d *DragController) Holding(pointerID int) (string, bool) {
	nodeID, ok := d.byPointer[pointerID]
	return nodeID, ok
}
