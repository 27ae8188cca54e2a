package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rank direction. Empty picks LR for workflows
	// and TB otherwise.
	RankDir string

	// Pinned emits each node's document position as a fixed pos attribute,
	// for use with the neato engine.
	Pinned bool
}

// dpi converts document units to Graphviz inches.
const dpi = 72.0

// ToDOT converts a canvas document to Graphviz DOT source. Nodes keep their
// kind colours and connections their style; connections with a missing
// endpoint are left out.
func ToDOT(doc *canvas.Document, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
		if doc.Kind == canvas.DocumentWorkflow {
			rankdir = "LR"
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", doc.Name)
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range doc.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Pinned), ", "))
	}

	buf.WriteString("\n")
	for _, c := range doc.Connections() {
		if !doc.HasNode(c.From) || !doc.HasNode(c.To) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(edgeAttrs(c), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n canvas.Node, pinned bool) []string {
	p := n.Palette()
	attrs := []string{
		fmt.Sprintf("label=%q", n.Label),
		fmt.Sprintf("fillcolor=%q", p.Background),
		fmt.Sprintf("color=%q", p.Border),
		fmt.Sprintf("width=%s", inches(n.Width)),
		fmt.Sprintf("height=%s", inches(n.Height)),
	}
	if n.Style != nil && n.Style.TextColor != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", n.Style.TextColor))
	}
	if pinned {
		cx, cy := n.Center()
		// Graphviz y grows upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(cx), inches(-cy)))
	}
	return attrs
}

func edgeAttrs(c canvas.Connection) []string {
	var attrs []string
	switch c.Style {
	case canvas.StyleDashed:
		attrs = append(attrs, "style=dashed", "arrowhead=none")
	case canvas.StyleArrow:
		attrs = append(attrs, "arrowhead=normal")
	default:
		attrs = append(attrs, "arrowhead=none")
	}
	if c.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", c.Label))
	}
	if c.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c.Color))
	}
	return attrs
}

func inches(v float64) string {
	return strconv.FormatFloat(v/dpi, 'f', 3, 64)
}

// RenderSVG lays out DOT source with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the drawing scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
