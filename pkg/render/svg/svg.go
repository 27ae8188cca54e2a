// Package svg exports a canvas document as a standalone SVG file.
//
// The viewBox covers the node bounds plus a fixed padding, so the export is
// independent of any interactive zoom or pan. Connections are drawn first
// and nodes on top in z-order. All user text is XML-escaped.
package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/geometry"
	"github.com/matzehuels/canvaskit/pkg/render/styles"
)

const (
	DefaultPadding = 40.0
	LineHeight     = 18.0
	cornerRadius   = 8.0
	borderWidth    = 2.0
	connLabelSize  = 12.0
	curveBend      = 0.2

	emptyWidth  = 400
	emptyHeight = 200
)

const baseCSS = `
    .node-label { font-family: %s; font-size: %gpx; fill: %s; }
    .conn-label { font-family: %s; font-size: %gpx; fill: #475569; }
    .conn-label-bg { fill: #ffffff; opacity: 0.85; }`

// Option configures an export.
type Option func(*renderer)

type renderer struct {
	padding    float64
	curves     bool
	title      bool
	background string
}

// WithPadding sets the space around the content bounds.
func WithPadding(p float64) Option { return func(r *renderer) { r.padding = p } }

// WithCurves draws connections as quadratic curves instead of straight lines.
func WithCurves() Option { return func(r *renderer) { r.curves = true } }

// WithTitle embeds the document name as the SVG <title>.
func WithTitle() Option { return func(r *renderer) { r.title = true } }

// WithBackground fills the viewBox with a solid colour.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// Render exports doc. An empty document yields a small placeholder image.
func Render(doc *canvas.Document, opts ...Option) []byte {
	r := renderer{padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := doc.Nodes()
	bounds, ok := geometry.NodeBounds(nodes)
	if !ok {
		return renderEmpty()
	}
	vb := bounds.Inset(-r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(vb.X), num(vb.Y), num(vb.W), num(vb.H), math.Ceil(vb.W), math.Ceil(vb.H))
	if r.title {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(doc.Name))
	}
	fmt.Fprintf(&buf, "  <style>"+baseCSS+"\n  </style>\n",
		styles.DefaultFontFamily, styles.DefaultFontSize, styles.DefaultTextColor,
		styles.DefaultFontFamily, connLabelSize)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(vb.X), num(vb.Y), num(vb.W), num(vb.H), styles.EscapeXML(r.background))
	}

	buf.WriteString("  <g class=\"connections\">\n")
	for _, s := range styles.Segments(doc) {
		r.renderConnection(&buf, s)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range nodes {
		renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEmpty() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		emptyWidth, emptyHeight, emptyWidth, emptyHeight)
	fmt.Fprintf(&buf, `  <text x="%d" y="%d" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="16" fill="#9ca3af">Empty Canvas</text>`+"\n",
		emptyWidth/2, emptyHeight/2, styles.DefaultFontFamily)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderConnection(buf *bytes.Buffer, s styles.Segment) {
	color := styles.EscapeXML(s.Color)
	dash := ""
	if s.Conn.Style == canvas.StyleDashed {
		dash = fmt.Sprintf(` stroke-dasharray="%g,%g"`, styles.DashOn, styles.DashOff)
	}

	label := s.Midpoint()
	if r.curves {
		ctrl := curveControl(s.From, s.To)
		fmt.Fprintf(buf, `    <path id="conn-%s" d="M %s %s Q %s %s %s %s" fill="none" stroke="%s" stroke-width="%g"%s/>`+"\n",
			styles.EscapeXML(s.Conn.ID), num(s.From.X), num(s.From.Y), num(ctrl.X), num(ctrl.Y), num(s.To.X), num(s.To.Y),
			color, styles.ConnectionWidth, dash)
		// Point on the curve at t=0.5.
		label = geometry.Point{
			X: 0.25*s.From.X + 0.5*ctrl.X + 0.25*s.To.X,
			Y: 0.25*s.From.Y + 0.5*ctrl.Y + 0.25*s.To.Y,
		}
	} else {
		fmt.Fprintf(buf, `    <line id="conn-%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%g"%s/>`+"\n",
			styles.EscapeXML(s.Conn.ID), num(s.From.X), num(s.From.Y), num(s.To.X), num(s.To.Y),
			color, styles.ConnectionWidth, dash)
	}

	if s.Conn.Style == canvas.StyleArrow {
		a, b := s.ArrowHead()
		fmt.Fprintf(buf, `    <polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
			num(s.Tip.X), num(s.Tip.Y), num(a.X), num(a.Y), num(b.X), num(b.Y), color)
	}

	if s.Conn.Label != "" {
		text := styles.EscapeXML(s.Conn.Label)
		w := styles.EstimateMeasure(connLabelSize)(s.Conn.Label) + 8
		h := connLabelSize + 6
		fmt.Fprintf(buf, `    <rect class="conn-label-bg" x="%s" y="%s" width="%s" height="%s" rx="3"/>`+"\n",
			num(label.X-w/2), num(label.Y-h/2), num(w), num(h))
		fmt.Fprintf(buf, `    <text class="conn-label" x="%s" y="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			num(label.X), num(label.Y), text)
	}
}

func curveControl(from, to geometry.Point) geometry.Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	return geometry.Point{
		X: (from.X+to.X)/2 - dy*curveBend,
		Y: (from.Y+to.Y)/2 + dx*curveBend,
	}
}

func renderNode(buf *bytes.Buffer, n canvas.Node) {
	p := n.Palette()
	stroke := borderWidth
	if n.Style != nil && n.Style.BorderWidth > 0 {
		stroke = n.Style.BorderWidth
	}
	fmt.Fprintf(buf, `    <rect id="node-%s" class="node node-%s" x="%s" y="%s" width="%s" height="%s" rx="%g" ry="%g" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
		styles.EscapeXML(n.ID), n.Kind, num(n.X), num(n.Y), num(n.Width), num(n.Height),
		cornerRadius, cornerRadius, styles.EscapeXML(p.Background), styles.EscapeXML(p.Border), stroke)

	if n.ImageURL != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet" opacity="0.35"/>`+"\n",
			styles.EscapeXML(n.ImageURL), num(n.X+4), num(n.Y+4), num(n.Width-8), num(n.Height-8))
	}

	fontSize := styles.DefaultFontSize
	if n.Style != nil && n.Style.FontSize > 0 {
		fontSize = n.Style.FontSize
	}
	lines := styles.SplitLines(n.Label)
	lh := LineHeight * fontSize / styles.DefaultFontSize
	cx, cy := n.Center()
	override := textStyle(n.Style)
	for i, line := range lines {
		y := cy + (float64(i)-float64(len(lines)-1)/2)*lh
		fmt.Fprintf(buf, `    <text class="node-label" x="%s" y="%s" text-anchor="middle" dominant-baseline="central"%s>%s</text>`+"\n",
			num(cx), num(y), override, styles.EscapeXML(line))
	}
}

func textStyle(s *canvas.NodeStyle) string {
	if s == nil {
		return ""
	}
	var css string
	if s.FontFamily != "" {
		css += "font-family: " + s.FontFamily + ";"
	}
	if s.FontSize > 0 {
		css += fmt.Sprintf("font-size: %gpx;", s.FontSize)
	}
	if s.TextColor != "" {
		css += "fill: " + s.TextColor + ";"
	}
	if css == "" {
		return ""
	}
	return ` style="` + styles.EscapeXML(css) + `"`
}

// num formats a coordinate compactly with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
