// Package raster draws a canvas document into a bitmap under a viewport's
// zoom and pan, the way the interactive editor shows it.
//
// Drawing order is fixed: background, a screen-space grid, then under the
// document transform the connections and the nodes in z-order, resize
// handles for a sole selection, and finally an untransformed title overlay.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"slices"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/geometry"
	"github.com/matzehuels/canvaskit/pkg/render/styles"
)

// Visual constants. Sizes ending in Px are screen pixels and do not scale
// with zoom.
const (
	GridSpacingPx   = 20.0
	SelectedBorder  = "#2563eb"
	SelectedWidthPx = 3.0
	PendingBorder   = "#10b981"
	HandleSizePx    = 8.0

	background   = "#f8fafc"
	gridColor    = "#e2e8f0"
	cornerRadius = 8.0
	borderPx     = 2.0
	connFontSize = 12.0
	overlayFont  = 13.0
	overlayInset = 12.0
)

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

// Option configures a render.
type Option func(*renderer)

type renderer struct {
	selected []string
	grid     bool
	overlay  bool
	editID   string
	editText string
	pending  string

	font  *truetype.Font
	faces map[float64]font.Face
}

// WithSelection highlights the given node ids. With exactly one id its
// resize handles are drawn too.
func WithSelection(ids ...string) Option {
	return func(r *renderer) { r.selected = ids }
}

// WithoutGrid skips the background grid.
func WithoutGrid() Option { return func(r *renderer) { r.grid = false } }

// WithoutOverlay skips the title overlay.
func WithoutOverlay() Option { return func(r *renderer) { r.overlay = false } }

// WithEditing draws text with a caret in place of the label of node id.
func WithEditing(id, text string) Option {
	return func(r *renderer) { r.editID, r.editText = id, text }
}

// WithPendingSource marks the source node of a connection being drawn.
func WithPendingSource(id string) Option {
	return func(r *renderer) { r.pending = id }
}

// Render draws doc into an image of the viewport's size.
func Render(doc *canvas.Document, v *geometry.Viewport, opts ...Option) (image.Image, error) {
	dc, err := draw(doc, v, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Encode renders doc and writes it to w as PNG.
func Encode(w io.Writer, doc *canvas.Document, v *geometry.Viewport, opts ...Option) error {
	dc, err := draw(doc, v, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// RenderPNG renders doc and returns PNG bytes.
func RenderPNG(doc *canvas.Document, v *geometry.Viewport, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(doc *canvas.Document, v *geometry.Viewport, opts []Option) (*gg.Context, error) {
	w, h := int(math.Round(v.Width)), int(math.Round(v.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid viewport size %dx%d", w, h)
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	r := renderer{grid: true, overlay: true, font: f, faces: map[float64]font.Face{}}
	for _, opt := range opts {
		opt(&r)
	}
	defer r.closeFaces()

	dc := gg.NewContext(w, h)
	dc.SetHexColor(background)
	dc.Clear()
	if r.grid {
		drawGrid(dc, w, h)
	}

	t := geometry.For(v, doc)
	dc.Push()
	dc.Translate(t.OffsetX, t.OffsetY)
	dc.Scale(t.Zoom, t.Zoom)

	for _, s := range styles.Segments(doc) {
		r.drawConnection(dc, s)
	}
	for _, n := range doc.Nodes() {
		r.drawNode(dc, n)
	}
	if len(r.selected) == 1 {
		if n, ok := doc.Node(r.selected[0]); ok {
			drawHandles(dc, n, t.Zoom)
		}
	}
	dc.Pop()

	if r.overlay {
		r.drawOverlay(dc, doc)
	}
	return dc, nil
}

func (r *renderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	r.faces[size] = f
	return f
}

func (r *renderer) closeFaces() {
	for _, f := range r.faces {
		f.Close()
	}
}

func drawGrid(dc *gg.Context, w, h int) {
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(1)
	for x := 0.0; x <= float64(w); x += GridSpacingPx {
		dc.DrawLine(x+0.5, 0, x+0.5, float64(h))
	}
	for y := 0.0; y <= float64(h); y += GridSpacingPx {
		dc.DrawLine(0, y+0.5, float64(w), y+0.5)
	}
	dc.Stroke()
}

func (r *renderer) drawConnection(dc *gg.Context, s styles.Segment) {
	dc.SetHexColor(s.Color)
	dc.SetLineWidth(styles.ConnectionWidth)
	if s.Conn.Style == canvas.StyleDashed {
		dc.SetDash(styles.DashOn, styles.DashOff)
	}
	dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
	dc.Stroke()
	dc.SetDash()

	if s.Conn.Style == canvas.StyleArrow {
		a, b := s.ArrowHead()
		dc.DrawLine(s.Tip.X, s.Tip.Y, a.X, a.Y)
		dc.DrawLine(s.Tip.X, s.Tip.Y, b.X, b.Y)
		dc.Stroke()
	}

	if s.Conn.Label == "" {
		return
	}
	dc.SetFontFace(r.face(connFontSize))
	m := s.Midpoint()
	tw, th := dc.MeasureString(s.Conn.Label)
	dc.SetHexColor("#ffffff")
	dc.DrawRoundedRectangle(m.X-tw/2-4, m.Y-th/2-3, tw+8, th+6, 3)
	dc.Fill()
	dc.SetHexColor("#475569")
	dc.DrawStringAnchored(s.Conn.Label, m.X, m.Y, 0.5, 0.35)
}

func (r *renderer) drawNode(dc *gg.Context, n canvas.Node) {
	p := n.Palette()
	border, width := p.Border, borderPx
	if n.Style != nil && n.Style.BorderWidth > 0 {
		width = n.Style.BorderWidth
	}
	switch {
	case slices.Contains(r.selected, n.ID):
		border, width = SelectedBorder, SelectedWidthPx
	case n.ID == r.pending:
		border, width = PendingBorder, SelectedWidthPx
	}

	dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, cornerRadius)
	dc.SetHexColor(p.Background)
	dc.FillPreserve()
	dc.SetHexColor(border)
	dc.SetLineWidth(width)
	if n.ID == r.pending {
		dc.SetDash(styles.DashOn, styles.DashOff)
	}
	dc.Stroke()
	dc.SetDash()

	size := styles.DefaultFontSize
	color := styles.DefaultTextColor
	if n.Style != nil {
		if n.Style.FontSize > 0 {
			size = n.Style.FontSize
		}
		if n.Style.TextColor != "" {
			color = n.Style.TextColor
		}
	}
	dc.SetFontFace(r.face(size))
	dc.SetHexColor(color)

	label := n.Label
	if n.ID == r.editID {
		label = r.editText + "|"
	}
	lh := styles.LineHeight(size)
	inner := n.Width - 2*styles.LabelPadding
	maxLines := max(1, int((n.Height-styles.LabelPadding)/lh))
	measure := func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}
	lines := styles.WrapLabel(label, inner, maxLines, measure)

	cx, cy := n.Center()
	top := cy - lh*float64(len(lines)-1)/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, cx, top+float64(i)*lh, 0.5, 0.35)
	}
}

func drawHandles(dc *gg.Context, n canvas.Node, zoom float64) {
	size := HandleSizePx / zoom
	for _, h := range geometry.Handles {
		p := geometry.HandlePoint(n, h)
		dc.DrawRectangle(p.X-size/2, p.Y-size/2, size, size)
		dc.SetHexColor("#ffffff")
		dc.FillPreserve()
		dc.SetHexColor(SelectedBorder)
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}
}

// Overlay text is "name · type · N nodes".
func (r *renderer) drawOverlay(dc *gg.Context, doc *canvas.Document) {
	noun := "nodes"
	if doc.NodeCount() == 1 {
		noun = "node"
	}
	text := fmt.Sprintf("%s · %s · %d %s", doc.Name, doc.Kind, doc.NodeCount(), noun)

	dc.SetFontFace(r.face(overlayFont))
	tw, th := dc.MeasureString(text)
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawRoundedRectangle(overlayInset-6, overlayInset-4, tw+12, th+10, 4)
	dc.Fill()
	dc.SetHexColor(styles.DefaultTextColor)
	dc.DrawStringAnchored(text, overlayInset, overlayInset+1, 0, 1)
}
