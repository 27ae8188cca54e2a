package geometry

import (
	"fmt"
	"math"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// HandleRadius is the pick radius of a resize handle in screen pixels.
const HandleRadius = 8.0

// Handle identifies one of the eight resize handles around a node.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// Handles lists the real handles in clockwise order starting top-left.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

func (h Handle) String() string {
	switch h {
	case HandleNone:
		return "none"
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	}
	return fmt.Sprintf("Handle(%d)", int(h))
}

// West, East, North and South report which edges a handle drags.
func (h Handle) West() bool  { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) East() bool  { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) North() bool { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) South() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// HandlePoint returns the document-space position of handle h on n.
func HandlePoint(n canvas.Node, h Handle) Point {
	x := n.X + n.Width/2
	y := n.Y + n.Height/2
	switch {
	case h.West():
		x = n.X
	case h.East():
		x = n.Right()
	}
	switch {
	case h.North():
		y = n.Y
	case h.South():
		y = n.Bottom()
	}
	return Point{x, y}
}

// HitKind says what a pointer landed on.
type HitKind int

const (
	HitNothing HitKind = iota
	HitNode
	HitHandle
)

// Hit is the result of a hit test.
type Hit struct {
	Kind   HitKind
	NodeID string
	Handle Handle
}

// HitTest finds what lies under the screen point p. When exactly one node is
// selected its handles are tested first, with a pick radius of HandleRadius
// screen pixels. Otherwise, or when no handle matches, nodes are tested from
// top to bottom of the z-order.
func HitTest(doc *canvas.Document, v *Viewport, selected []string, p Point) Hit {
	t := For(v, doc)
	q := t.ToCanvas(p)

	if len(selected) == 1 {
		if n, ok := doc.Node(selected[0]); ok {
			if h := HandleAt(n, q, HandleRadius/t.Zoom); h != HandleNone {
				return Hit{Kind: HitHandle, NodeID: n.ID, Handle: h}
			}
		}
	}
	if id, ok := NodeAt(doc.Nodes(), q); ok {
		return Hit{Kind: HitNode, NodeID: id}
	}
	return Hit{}
}

// HandleAt returns the handle of n within r document units of q on both
// axes, or HandleNone.
func HandleAt(n canvas.Node, q Point, r float64) Handle {
	for _, h := range Handles {
		hp := HandlePoint(n, h)
		if math.Abs(hp.X-q.X) <= r && math.Abs(hp.Y-q.Y) <= r {
			return h
		}
	}
	return HandleNone
}

// NodeAt returns the topmost node containing the document point q.
func NodeAt(nodes []canvas.Node, q Point) (string, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Contains(q.X, q.Y) {
			return nodes[i].ID, true
		}
	}
	return "", false
}
