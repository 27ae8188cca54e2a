package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// Layout margins and spacing shared by all algorithms.
const (
	StartX = 100.0
	StartY = 100.0
	GapX   = 220.0
	GapY   = 120.0

	// RadialCenterX and RadialCenterY anchor the first node of a radial layout.
	RadialCenterX = 400.0
	RadialCenterY = 300.0
	// RadialRadius is the circle the remaining nodes are centred on.
	RadialRadius = 200.0
)

// Algorithm selects a layout strategy.
type Algorithm int

const (
	Horizontal Algorithm = iota
	Vertical
	Grid
	Radial
	Tree
)

// Algorithms lists every algorithm in declaration order.
var Algorithms = []Algorithm{Horizontal, Vertical, Grid, Radial, Tree}

var algorithmNames = [...]string{
	Horizontal: "horizontal",
	Vertical:   "vertical",
	Grid:       "grid",
	Radial:     "radial",
	Tree:       "tree",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm resolves an algorithm name, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout algorithm %q (want one of %s)", s, strings.Join(algorithmNames[:], ", "))
}

// Compute returns copies of nodes with positions assigned by alg. Node order
// and sizes are preserved.
func Compute(alg Algorithm, nodes []canvas.Node, conns []canvas.Connection) ([]canvas.Node, error) {
	out := make([]canvas.Node, len(nodes))
	copy(out, nodes)

	switch alg {
	case Horizontal:
		horizontal(out)
	case Vertical:
		vertical(out)
	case Grid:
		grid(out)
	case Radial:
		radial(out)
	case Tree:
		tree(out, conns)
	default:
		return nil, fmt.Errorf("unknown layout algorithm %d", int(alg))
	}
	return out, nil
}

// Apply lays out doc in place.
func Apply(doc *canvas.Document, alg Algorithm) error {
	placed, err := Compute(alg, doc.Nodes(), doc.Connections())
	if err != nil {
		return err
	}
	for _, n := range placed {
		if err := doc.SetPosition(n.ID, n.X, n.Y); err != nil {
			return err
		}
	}
	return nil
}

func horizontal(nodes []canvas.Node) {
	for i := range nodes {
		nodes[i].X = StartX + float64(i)*GapX
		nodes[i].Y = StartY
	}
}

func vertical(nodes []canvas.Node) {
	for i := range nodes {
		nodes[i].X = StartX
		nodes[i].Y = StartY + float64(i)*GapY
	}
}

func grid(nodes []canvas.Node) {
	if len(nodes) == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for i := range nodes {
		nodes[i].X = StartX + float64(i%cols)*GapX
		nodes[i].Y = StartY + float64(i/cols)*GapY
	}
}

func radial(nodes []canvas.Node) {
	if len(nodes) == 0 {
		return
	}
	centerOn(&nodes[0], RadialCenterX, RadialCenterY)

	rest := nodes[1:]
	for i := range rest {
		angle := 2*math.Pi*float64(i)/float64(len(rest)) - math.Pi/2
		centerOn(&rest[i],
			RadialCenterX+RadialRadius*math.Cos(angle),
			RadialCenterY+RadialRadius*math.Sin(angle))
	}
}

// tree runs a multi-source BFS from every node without incoming connections
// (node 0 when there are none). Nodes unreachable from any root, such as
// members of a cycle hanging off nothing, seed further BFS passes in list
// order. Connections with a missing endpoint are ignored.
func tree(nodes []canvas.Node, conns []canvas.Connection) {
	if len(nodes) == 0 {
		return
	}
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	children := make([][]int, len(nodes))
	hasParent := make([]bool, len(nodes))
	for _, c := range conns {
		from, okFrom := index[c.From]
		to, okTo := index[c.To]
		if !okFrom || !okTo {
			continue
		}
		children[from] = append(children[from], to)
		hasParent[to] = true
	}

	var roots []int
	for i := range nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	if len(roots) == 0 {
		roots = []int{0}
	}

	depth := make([]int, len(nodes))
	visited := make([]bool, len(nodes))
	var order []int

	bfs := func(seeds []int) {
		queue := make([]int, 0, len(seeds))
		for _, s := range seeds {
			if !visited[s] {
				visited[s] = true
				depth[s] = 0
				queue = append(queue, s)
			}
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			order = append(order, cur)
			for _, ch := range children[cur] {
				if visited[ch] {
					continue
				}
				visited[ch] = true
				depth[ch] = depth[cur] + 1
				queue = append(queue, ch)
			}
		}
	}

	bfs(roots)
	for i := range nodes {
		if !visited[i] {
			bfs([]int{i})
		}
	}

	rowInColumn := make(map[int]int)
	for _, i := range order {
		d := depth[i]
		nodes[i].X = StartX + float64(d)*GapX
		nodes[i].Y = StartY + float64(rowInColumn[d])*GapY
		rowInColumn[d]++
	}
}

func centerOn(n *canvas.Node, cx, cy float64) {
	n.X = cx - n.Width/2
	n.Y = cy - n.Height/2
}
