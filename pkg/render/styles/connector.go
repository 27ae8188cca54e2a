package styles

import (
	"math"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/geometry"
)

// Connection stroke settings.
const (
	DefaultConnectionColor = "#64748b"
	ConnectionWidth        = 2.0
	ArrowLength            = 12.0
	ArrowAngle             = math.Pi / 6
	DashOn                 = 6.0
	DashOff                = 4.0
)

// Segment is a resolved connection: centre-to-centre endpoints plus the
// point where the line enters the target box.
type Segment struct {
	Conn     canvas.Connection
	From, To geometry.Point
	Tip      geometry.Point
	Color    string
}

// Midpoint returns the middle of the centre-to-centre line.
func (s Segment) Midpoint() geometry.Point {
	return geometry.Point{X: (s.From.X + s.To.X) / 2, Y: (s.From.Y + s.To.Y) / 2}
}

// ArrowHead returns the two barb end points of an arrow ending at Tip.
func (s Segment) ArrowHead() (geometry.Point, geometry.Point) {
	angle := math.Atan2(s.To.Y-s.From.Y, s.To.X-s.From.X)
	a := geometry.Point{
		X: s.Tip.X - ArrowLength*math.Cos(angle-ArrowAngle),
		Y: s.Tip.Y - ArrowLength*math.Sin(angle-ArrowAngle),
	}
	b := geometry.Point{
		X: s.Tip.X - ArrowLength*math.Cos(angle+ArrowAngle),
		Y: s.Tip.Y - ArrowLength*math.Sin(angle+ArrowAngle),
	}
	return a, b
}

// Segments resolves the drawable connections of doc. Connections with a
// missing endpoint are skipped.
func Segments(doc *canvas.Document) []Segment {
	conns := doc.Connections()
	out := make([]Segment, 0, len(conns))
	for _, c := range conns {
		from, ok1 := doc.Node(c.From)
		to, ok2 := doc.Node(c.To)
		if !ok1 || !ok2 {
			continue
		}
		fx, fy := from.Center()
		tx, ty := to.Center()
		color := c.Color
		if color == "" {
			color = DefaultConnectionColor
		}
		out = append(out, Segment{
			Conn:  c,
			From:  geometry.Point{X: fx, Y: fy},
			To:    geometry.Point{X: tx, Y: ty},
			Tip:   BoxEntry(geometry.NodeRect(to), geometry.Point{X: fx, Y: fy}),
			Color: color,
		})
	}
	return out
}

// BoxEntry returns where the segment from an outside point towards the
// centre of r crosses r's border. A point inside r yields the centre.
func BoxEntry(r geometry.Rect, from geometry.Point) geometry.Point {
	c := r.Center()
	dx, dy := from.X-c.X, from.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	hw, hh := r.W/2, r.H/2
	t := math.Inf(1)
	if dx != 0 {
		t = min(t, hw/math.Abs(dx))
	}
	if dy != 0 {
		t = min(t, hh/math.Abs(dy))
	}
	if t >= 1 {
		return c
	}
	return geometry.Point{X: c.X + dx*t, Y: c.Y + dy*t}
}
