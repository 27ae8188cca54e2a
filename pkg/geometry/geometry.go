// Package geometry maps between document space and screen space and decides
// what lies under a pointer.
//
// Document space is where node coordinates live. Screen space is the pixel
// grid of a viewport. The mapping centres the padded content bounds in the
// viewport, then applies the view's zoom and pan:
//
//	base   = (viewport - contentSize*zoom)/2 - contentMin*zoom
//	screen = base + pan + doc*zoom
//
// [Transform.ToCanvas] is the exact inverse of [Transform.ToScreen].
package geometry

import (
	"math"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// Zoom limits and content padding.
const (
	MinZoom = 0.1
	MaxZoom = 5.0

	ContentPadding = 50.0
)

// Point is a 2D coordinate.
type Point struct{ X, Y float64 }

// Rect is an axis-aligned rectangle.
type Rect struct{ X, Y, W, H float64 }

// MinX, MinY, MaxX and MaxY return the rectangle's edges.
func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the rectangle's centre.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Inset grows (negative d) or shrinks (positive d) r on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
}

// NodeRect returns a node's box.
func NodeRect(n canvas.Node) Rect { return Rect{n.X, n.Y, n.Width, n.Height} }

// NodeBounds returns the tight box around all nodes. ok is false when there
// are none.
func NodeBounds(nodes []canvas.Node) (r Rect, ok bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.Right())
		maxY = max(maxY, n.Bottom())
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}, true
}

// ContentBounds returns the node bounds padded by [ContentPadding]. An empty
// document has zero bounds.
func ContentBounds(nodes []canvas.Node) Rect {
	r, ok := NodeBounds(nodes)
	if !ok {
		return Rect{}
	}
	return r.Inset(-ContentPadding)
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Viewport is the view state of one interactive session: the pixel size of
// the drawing surface plus zoom and pan. It is owned by whoever drives the
// session and passed by reference to the renderer and hit tester.
type Viewport struct {
	Width, Height float64
	Zoom          float64
	PanX, PanY    float64
}

// NewViewport returns a viewport of the given size at zoom 1 with no pan.
func NewViewport(w, h float64) *Viewport {
	return &Viewport{Width: w, Height: h, Zoom: 1}
}

// SetZoom sets the zoom factor, clamped.
func (v *Viewport) SetZoom(z float64) { v.Zoom = ClampZoom(z) }

// ZoomBy multiplies the zoom factor, clamped.
func (v *Viewport) ZoomBy(f float64) { v.SetZoom(v.Zoom * f) }

// SetPan sets the pan offset in screen pixels.
func (v *Viewport) SetPan(x, y float64) { v.PanX, v.PanY = x, y }

// Reset returns to zoom 1 with no pan.
func (v *Viewport) Reset() { v.Zoom, v.PanX, v.PanY = 1, 0, 0 }

// Fit resets pan and picks the largest zoom, at most 1, at which content
// fits the viewport. Empty content keeps zoom 1.
func (v *Viewport) Fit(content Rect) {
	v.PanX, v.PanY = 0, 0
	if content.W <= 0 || content.H <= 0 {
		v.Zoom = 1
		return
	}
	v.SetZoom(min(1, v.Width/content.W, v.Height/content.H))
}

// Transform is a resolved document-to-screen mapping.
type Transform struct {
	Zoom    float64
	OffsetX float64 // base offset plus pan
	OffsetY float64
}

// NewTransform resolves the mapping for a viewport showing content.
func NewTransform(v *Viewport, content Rect) Transform {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	baseX := (v.Width-content.W*z)/2 - content.X*z
	baseY := (v.Height-content.H*z)/2 - content.Y*z
	return Transform{Zoom: z, OffsetX: baseX + v.PanX, OffsetY: baseY + v.PanY}
}

// For is shorthand for NewTransform(v, ContentBounds(doc.Nodes())).
func For(v *Viewport, doc *canvas.Document) Transform {
	return NewTransform(v, ContentBounds(doc.Nodes()))
}

// ToScreen maps a document point to screen pixels.
func (t Transform) ToScreen(p Point) Point {
	return Point{t.OffsetX + p.X*t.Zoom, t.OffsetY + p.Y*t.Zoom}
}

// ToCanvas maps screen pixels to a document point.
func (t Transform) ToCanvas(p Point) Point {
	return Point{(p.X - t.OffsetX) / t.Zoom, (p.Y - t.OffsetY) / t.Zoom}
}
