// Package interact implements direct manipulation of a canvas document:
// selecting, dragging, resizing, connecting, in-place label editing,
// deleting and zooming.
//
// A [Controller] owns one view session (viewport, selection, pending
// connection source, edit buffer) over a document. Events are fed to it
// from a single goroutine; every visible change mutates the document or
// the session in place and then calls the redraw callback synchronously.
// Persisting the edited document is a separate step: callers check
// [Controller.Dirty] and save through the document service.
package interact

import (
	"slices"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/geometry"
)

// MinSize is the smallest width or height a resize can produce.
const MinSize = 40.0

// Wheel zoom factors per notch.
const (
	ZoomOutStep = 0.9
	ZoomInStep  = 1.1
)

// State is the pointer interaction state.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateMoving
	StateResizing
	StateConnecting
)

var stateNames = [...]string{"idle", "panning", "moving", "resizing", "connecting"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	// Shift toggles a node in or out of the selection instead of
	// replacing it.
	Shift bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRedraw sets the callback invoked after every visible change.
func WithRedraw(fn func()) Option { return func(c *Controller) { c.redraw = fn } }

// WithConnectionStyle sets the style of connections drawn in connect mode.
func WithConnectionStyle(s canvas.ConnectionStyle) Option {
	return func(c *Controller) { c.connStyle = s }
}

type resizeSession struct {
	id     string
	handle geometry.Handle
	origin canvas.Node
	down   geometry.Point
}

type editSession struct {
	id     string
	buffer []rune
}

// Controller drives one interactive session over a document.
type Controller struct {
	doc  *canvas.Document
	view *geometry.Viewport

	state     State
	connect   bool
	pending   string
	selection []string

	last      geometry.Point
	panAnchor geometry.Point
	resize    resizeSession
	edit      *editSession

	dirty     bool
	redraw    func()
	connStyle canvas.ConnectionStyle
}

// New returns a controller over doc viewed through view. Both are mutated
// in place.
func New(doc *canvas.Document, view *geometry.Viewport, opts ...Option) *Controller {
	c := &Controller{doc: doc, view: view, redraw: func() {}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ===== Session state =====

// Document returns the document being edited.
func (c *Controller) Document() *canvas.Document { return c.doc }

// Viewport returns the session viewport.
func (c *Controller) Viewport() *geometry.Viewport { return c.view }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// ConnectMode reports whether connect mode is on.
func (c *Controller) ConnectMode() bool { return c.connect }

// PendingSource returns the source node chosen in connect mode, if any.
func (c *Controller) PendingSource() string { return c.pending }

// Selection returns the selected node ids in selection order.
func (c *Controller) Selection() []string { return slices.Clone(c.selection) }

// Editing returns the node being edited and the current buffer.
func (c *Controller) Editing() (id, text string, ok bool) {
	if c.edit == nil {
		return "", "", false
	}
	return c.edit.id, string(c.edit.buffer), true
}

// Dirty reports whether the document changed since the last MarkSaved.
func (c *Controller) Dirty() bool { return c.dirty }

// MarkSaved clears the dirty flag after the caller persisted the document.
func (c *Controller) MarkSaved() { c.dirty = false }

// SetConnectMode turns connect mode on or off. Any pending source is
// dropped.
func (c *Controller) SetConnectMode(on bool) {
	c.connect = on
	c.pending = ""
	c.state = c.rest()
	c.redraw()
}

func (c *Controller) rest() State {
	if c.connect {
		return StateConnecting
	}
	return StateIdle
}

func (c *Controller) zoom() float64 {
	if c.view.Zoom == 0 {
		return 1
	}
	return c.view.Zoom
}

func (c *Controller) changed() {
	c.dirty = true
	c.redraw()
}

// ===== Pointer =====

// PointerDown handles a press at screen point p.
func (c *Controller) PointerDown(p geometry.Point, mods Modifiers) {
	if c.edit != nil {
		c.commitEdit()
	}
	c.last = p
	hit := geometry.HitTest(c.doc, c.view, c.selection, p)

	if c.connect && hit.Kind != geometry.HitNothing {
		c.connectTo(hit.NodeID)
		return
	}

	switch hit.Kind {
	case geometry.HitHandle:
		n, _ := c.doc.Node(hit.NodeID)
		c.resize = resizeSession{id: n.ID, handle: hit.Handle, origin: n, down: p}
		c.state = StateResizing
	case geometry.HitNode:
		c.selectNode(hit.NodeID, mods.Shift)
		c.state = StateMoving
		c.redraw()
	default:
		if !mods.Shift && len(c.selection) > 0 {
			c.selection = nil
			c.redraw()
		}
		c.panAnchor = geometry.Point{X: p.X - c.view.PanX, Y: p.Y - c.view.PanY}
		c.state = StatePanning
	}
}

func (c *Controller) selectNode(id string, toggle bool) {
	i := slices.Index(c.selection, id)
	switch {
	case toggle && i >= 0:
		c.selection = slices.Delete(c.selection, i, i+1)
	case toggle:
		c.selection = append(c.selection, id)
	case i < 0:
		c.selection = []string{id}
	}
}

func (c *Controller) connectTo(id string) {
	switch c.pending {
	case "":
		c.pending = id
	case id:
		c.pending = ""
	default:
		if _, err := c.doc.AddConnection(canvas.ConnectionSpec{From: c.pending, To: id, Style: c.connStyle}); err == nil {
			c.dirty = true
		}
		c.pending = ""
	}
	c.redraw()
}

// PointerMove handles pointer motion to screen point p.
func (c *Controller) PointerMove(p geometry.Point) {
	switch c.state {
	case StatePanning:
		c.view.SetPan(p.X-c.panAnchor.X, p.Y-c.panAnchor.Y)
		c.redraw()
	case StateMoving:
		dx := (p.X - c.last.X) / c.zoom()
		dy := (p.Y - c.last.Y) / c.zoom()
		c.last = p
		if dx == 0 && dy == 0 {
			return
		}
		for _, id := range c.selection {
			_ = c.doc.Translate(id, dx, dy)
		}
		c.changed()
	case StateResizing:
		c.last = p
		c.applyResize(p)
	}
}

func (c *Controller) applyResize(p geometry.Point) {
	r := c.resize
	o := r.origin
	dx := (p.X - r.down.X) / c.zoom()
	dy := (p.Y - r.down.Y) / c.zoom()

	x, y, w, h := o.X, o.Y, o.Width, o.Height
	switch {
	case r.handle.East():
		w = max(MinSize, o.Width+dx)
	case r.handle.West():
		w = max(MinSize, o.Width-dx)
		x = o.Right() - w
	}
	switch {
	case r.handle.South():
		h = max(MinSize, o.Height+dy)
	case r.handle.North():
		h = max(MinSize, o.Height-dy)
		y = o.Bottom() - h
	}
	if err := c.doc.SetBounds(r.id, x, y, w, h); err == nil {
		c.changed()
	}
}

// PointerUp ends any drag.
func (c *Controller) PointerUp(geometry.Point) {
	switch c.state {
	case StatePanning, StateMoving, StateResizing:
		c.state = c.rest()
	}
}

// DoubleClick opens label editing on the node under p.
func (c *Controller) DoubleClick(p geometry.Point) {
	if c.connect {
		return
	}
	hit := geometry.HitTest(c.doc, c.view, c.selection, p)
	if hit.Kind == geometry.HitNothing {
		return
	}
	n, _ := c.doc.Node(hit.NodeID)
	c.edit = &editSession{id: n.ID, buffer: []rune(n.Label)}
	c.state = c.rest()
	c.redraw()
}

// Wheel zooms out for positive deltaY and in for negative, about the
// viewport.
func (c *Controller) Wheel(deltaY float64) {
	before := c.view.Zoom
	switch {
	case deltaY > 0:
		c.view.ZoomBy(ZoomOutStep)
	case deltaY < 0:
		c.view.ZoomBy(ZoomInStep)
	}
	if c.view.Zoom != before {
		c.redraw()
	}
}

// ===== Keyboard =====

// Key is a non-text key.
type Key int

const (
	KeyEnter Key = iota + 1
	KeyEscape
	KeyDelete
	KeyBackspace
)

// KeyDown handles a key press.
func (c *Controller) KeyDown(k Key) {
	if c.edit != nil {
		switch k {
		case KeyEnter:
			c.commitEdit()
		case KeyEscape:
			c.edit = nil
			c.redraw()
		case KeyBackspace:
			if n := len(c.edit.buffer); n > 0 {
				c.edit.buffer = c.edit.buffer[:n-1]
				c.redraw()
			}
		}
		return
	}

	switch k {
	case KeyDelete, KeyBackspace:
		if len(c.selection) == 0 {
			return
		}
		for _, id := range c.selection {
			_, _ = c.doc.DeleteNode(id)
			if c.pending == id {
				c.pending = ""
			}
		}
		c.selection = nil
		c.changed()
	case KeyEscape:
		c.selection = nil
		c.connect = false
		c.pending = ""
		c.state = StateIdle
		c.redraw()
	}
}

// TypeText appends text to the edit buffer. Line breaks are dropped.
func (c *Controller) TypeText(s string) {
	if c.edit == nil {
		return
	}
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	if s == "" {
		return
	}
	c.edit.buffer = append(c.edit.buffer, []rune(s)...)
	c.redraw()
}

func (c *Controller) commitEdit() {
	e := c.edit
	c.edit = nil
	label := string(e.buffer)
	if n, ok := c.doc.Node(e.id); ok && n.Label != label {
		if _, err := c.doc.UpdateNode(e.id, canvas.NodePatch{Label: &label}); err == nil {
			c.dirty = true
		}
	}
	c.redraw()
}
