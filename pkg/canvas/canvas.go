package canvas

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidID is returned by [New] when the document id is empty.
	ErrInvalidID = errors.New("id must not be empty")

	// ErrInvalidName is returned by [New] when the document name is empty.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrDuplicateNodeID is returned by [Document.AddNode] when a node with
	// the requested id already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateConnectionID is returned by [Document.AddConnection] when a
	// connection with the requested id already exists.
	ErrDuplicateConnectionID = errors.New("duplicate connection ID")

	// ErrNodeNotFound is returned when a node id does not resolve.
	ErrNodeNotFound = errors.New("node not found")

	// ErrConnectionNotFound is returned when a connection id does not resolve.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrUnknownSourceNode and ErrUnknownTargetNode identify which endpoint of
	// a new connection is missing. Both also match ErrNodeNotFound.
	ErrUnknownSourceNode = errors.New("unknown source node")
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfConnection is returned when both endpoints name the same node.
	ErrSelfConnection = errors.New("connection endpoints must differ")

	// ErrInvalidSize is returned when a node would get a non-positive width
	// or height.
	ErrInvalidSize = errors.New("node width and height must be positive")

	// ErrInvalidKind is returned when a node kind is outside the enum.
	ErrInvalidKind = errors.New("invalid node type")

	// ErrDanglingConnection is reported by [Document.Validate] for a
	// connection whose endpoint is missing. Only decoded documents can
	// contain one.
	ErrDanglingConnection = errors.New("connection references a missing node")
)

// Default node geometry and the auto-placement grid.
const (
	DefaultNodeWidth  = 160.0
	DefaultNodeHeight = 60.0

	autoColumns = 4
	autoStepX   = 200.0
	autoStepY   = 120.0
	autoOriginX = 100.0
	autoOriginY = 100.0
)

// NodeStyle holds optional per-node overrides of the kind palette and text
// settings. Zero fields mean "use the default".
type NodeStyle struct {
	FontFamily      string  `json:"fontFamily,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	TextColor       string  `json:"textColor,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
}

// Node is a labelled box. X and Y are the top-left corner in document space.
type Node struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"type"`
	Label    string     `json:"label"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Style    *NodeStyle `json:"style,omitempty"`
	ImageURL string     `json:"imageUrl,omitempty"`
}

// Center returns the centre of the node's box.
func (n Node) Center() (float64, float64) {
	return n.X + n.Width/2, n.Y + n.Height/2
}

// Right returns the x coordinate of the node's right edge.
func (n Node) Right() float64 { return n.X + n.Width }

// Bottom returns the y coordinate of the node's bottom edge.
func (n Node) Bottom() float64 { return n.Y + n.Height }

// Contains reports whether the document-space point lies inside the node,
// edges included.
func (n Node) Contains(x, y float64) bool {
	return x >= n.X && x <= n.Right() && y >= n.Y && y <= n.Bottom()
}

// Palette returns the node's effective colours: the kind palette with any
// style overrides applied.
func (n Node) Palette() Palette {
	p := n.Kind.Palette()
	if n.Style != nil {
		if n.Style.BackgroundColor != "" {
			p.Background = n.Style.BackgroundColor
		}
		if n.Style.BorderColor != "" {
			p.Border = n.Style.BorderColor
		}
	}
	return p
}

func (n Node) clone() Node {
	if n.Style != nil {
		s := *n.Style
		n.Style = &s
	}
	return n
}

// Connection joins two nodes.
type Connection struct {
	ID    string          `json:"id"`
	From  string          `json:"fromNodeId"`
	To    string          `json:"toNodeId"`
	Label string          `json:"label,omitempty"`
	Style ConnectionStyle `json:"style"`
	Color string          `json:"color,omitempty"`
}

// Touches reports whether the connection references nodeID at either end.
func (c Connection) Touches(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}

// NodeSpec describes a node to add. An empty ID is replaced by a fresh
// UUID; a nil X or Y triggers grid auto-placement; zero Width or Height
// takes the default size.
type NodeSpec struct {
	ID       string
	Kind     Kind
	Label    string
	X, Y     *float64
	Width    float64
	Height   float64
	Style    *NodeStyle
	ImageURL string
}

// NodePatch lists the fields to change on an existing node. Nil fields are
// left untouched.
type NodePatch struct {
	Kind     *Kind
	Label    *string
	X, Y     *float64
	Width    *float64
	Height   *float64
	Style    *NodeStyle
	ImageURL *string
}

// ConnectionSpec describes a connection to add. An empty ID is replaced by
// a fresh UUID.
type ConnectionSpec struct {
	ID    string
	From  string
	To    string
	Label string
	Style ConnectionStyle
	Color string
}

// Document is a named diagram: an ordered list of nodes and the connections
// between them.
//
// The zero value is not usable; create documents with [New] or [Unmarshal].
type Document struct {
	ID        string
	Name      string
	Kind      DocumentKind
	CreatedAt time.Time
	UpdatedAt time.Time

	nodes     []Node
	nodeIndex map[string]int
	conns     []Connection
	connIndex map[string]int
}

// New creates an empty document. Timestamps are left zero for the caller
// to set.
func New(id, name string, kind DocumentKind) (*Document, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if name == "" {
		return nil, ErrInvalidName
	}
	return &Document{
		ID:        id,
		Name:      name,
		Kind:      kind,
		nodeIndex: make(map[string]int),
		connIndex: make(map[string]int),
	}, nil
}

// NewID returns a fresh random identifier.
func NewID() string { return uuid.NewString() }

// NodeCount returns the number of nodes.
func (d *Document) NodeCount() int { return len(d.nodes) }

// ConnectionCount returns the number of connections.
func (d *Document) ConnectionCount() int { return len(d.conns) }

// Nodes returns a copy of the nodes in z-order.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.clone()
	}
	return out
}

// Connections returns a copy of the connections in insertion order.
func (d *Document) Connections() []Connection {
	return slices.Clone(d.conns)
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	i, ok := d.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return d.nodes[i].clone(), true
}

// HasNode reports whether a node with the given id exists.
func (d *Document) HasNode(id string) bool {
	_, ok := d.nodeIndex[id]
	return ok
}

// Connection returns the connection with the given id.
func (d *Document) Connection(id string) (Connection, bool) {
	i, ok := d.connIndex[id]
	if !ok {
		return Connection{}, false
	}
	return d.conns[i], true
}

// Outgoing returns the connections whose source is nodeID.
func (d *Document) Outgoing(nodeID string) []Connection {
	var out []Connection
	for _, c := range d.conns {
		if c.From == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// Incoming returns the connections whose target is nodeID.
func (d *Document) Incoming(nodeID string) []Connection {
	var out []Connection
	for _, c := range d.conns {
		if c.To == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// AddNode appends a node and returns it as stored.
func (d *Document) AddNode(spec NodeSpec) (Node, error) {
	if !spec.Kind.Valid() {
		return Node{}, fmt.Errorf("%w: %d", ErrInvalidKind, int(spec.Kind))
	}
	id := spec.ID
	if id == "" {
		id = NewID()
	}
	if _, ok := d.nodeIndex[id]; ok {
		return Node{}, fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}

	w, h := spec.Width, spec.Height
	if w == 0 {
		w = DefaultNodeWidth
	}
	if h == 0 {
		h = DefaultNodeHeight
	}
	if w < 0 || h < 0 {
		return Node{}, ErrInvalidSize
	}

	x, y := AutoPosition(len(d.nodes))
	if spec.X != nil {
		x = *spec.X
	}
	if spec.Y != nil {
		y = *spec.Y
	}

	n := Node{
		ID:       id,
		Kind:     spec.Kind,
		Label:    spec.Label,
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		Style:    spec.Style,
		ImageURL: spec.ImageURL,
	}
	n = n.clone()
	d.nodeIndex[id] = len(d.nodes)
	d.nodes = append(d.nodes, n)
	return n.clone(), nil
}

// AutoPosition returns the grid slot used for the count-th node added
// without explicit coordinates.
func AutoPosition(count int) (float64, float64) {
	return float64(count%autoColumns)*autoStepX + autoOriginX,
		float64(count/autoColumns)*autoStepY + autoOriginY
}

// UpdateNode applies a partial update and returns the resulting node.
func (d *Document) UpdateNode(id string, p NodePatch) (Node, error) {
	i, ok := d.nodeIndex[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n := d.nodes[i]
	if p.Kind != nil {
		if !p.Kind.Valid() {
			return Node{}, fmt.Errorf("%w: %d", ErrInvalidKind, int(*p.Kind))
		}
		n.Kind = *p.Kind
	}
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Width != nil {
		n.Width = *p.Width
	}
	if p.Height != nil {
		n.Height = *p.Height
	}
	if n.Width <= 0 || n.Height <= 0 {
		return Node{}, ErrInvalidSize
	}
	if p.Style != nil {
		s := *p.Style
		n.Style = &s
	}
	if p.ImageURL != nil {
		n.ImageURL = *p.ImageURL
	}
	d.nodes[i] = n
	return n.clone(), nil
}

// Translate moves a node by the given document-space offset.
func (d *Document) Translate(id string, dx, dy float64) error {
	i, ok := d.nodeIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.nodes[i].X += dx
	d.nodes[i].Y += dy
	return nil
}

// SetPosition moves a node's top-left corner to (x, y).
func (d *Document) SetPosition(id string, x, y float64) error {
	i, ok := d.nodeIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.nodes[i].X, d.nodes[i].Y = x, y
	return nil
}

// SetBounds replaces a node's position and size.
func (d *Document) SetBounds(id string, x, y, w, h float64) error {
	i, ok := d.nodeIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if w <= 0 || h <= 0 {
		return ErrInvalidSize
	}
	n := &d.nodes[i]
	n.X, n.Y, n.Width, n.Height = x, y, w, h
	return nil
}

// DeleteNode removes a node together with every connection that references
// it. The removed connections are returned.
func (d *Document) DeleteNode(id string) ([]Connection, error) {
	i, ok := d.nodeIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.nodes = slices.Delete(d.nodes, i, i+1)

	var removed []Connection
	kept := d.conns[:0]
	for _, c := range d.conns {
		if c.Touches(id) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	clear(d.conns[len(kept):])
	d.conns = kept

	d.reindex()
	return removed, nil
}

// AddConnection appends a connection between two existing nodes.
func (d *Document) AddConnection(spec ConnectionSpec) (Connection, error) {
	if _, ok := d.nodeIndex[spec.From]; !ok {
		return Connection{}, fmt.Errorf("%w %q: %w", ErrUnknownSourceNode, spec.From, ErrNodeNotFound)
	}
	if _, ok := d.nodeIndex[spec.To]; !ok {
		return Connection{}, fmt.Errorf("%w %q: %w", ErrUnknownTargetNode, spec.To, ErrNodeNotFound)
	}
	if spec.From == spec.To {
		return Connection{}, ErrSelfConnection
	}
	id := spec.ID
	if id == "" {
		id = NewID()
	}
	if _, ok := d.connIndex[id]; ok {
		return Connection{}, fmt.Errorf("%w: %s", ErrDuplicateConnectionID, id)
	}
	c := Connection{
		ID:    id,
		From:  spec.From,
		To:    spec.To,
		Label: spec.Label,
		Style: spec.Style,
		Color: spec.Color,
	}
	d.connIndex[id] = len(d.conns)
	d.conns = append(d.conns, c)
	return c, nil
}

// DeleteConnection removes a single connection.
func (d *Document) DeleteConnection(id string) error {
	i, ok := d.connIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	d.conns = slices.Delete(d.conns, i, i+1)
	d.reindex()
	return nil
}

// Validate checks structural integrity: unique ids, positive sizes, known
// kinds and resolvable connection endpoints. All problems are joined into
// one error.
func (d *Document) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.nodes))
	for _, n := range d.nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("node: %w", ErrInvalidID))
		} else if seen[n.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID))
		}
		seen[n.ID] = true
		if n.Width <= 0 || n.Height <= 0 {
			errs = append(errs, fmt.Errorf("node %s: %w", n.ID, ErrInvalidSize))
		}
		if !n.Kind.Valid() {
			errs = append(errs, fmt.Errorf("node %s: %w", n.ID, ErrInvalidKind))
		}
	}
	connSeen := make(map[string]bool, len(d.conns))
	for _, c := range d.conns {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("connection: %w", ErrInvalidID))
		} else if connSeen[c.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateConnectionID, c.ID))
		}
		connSeen[c.ID] = true
		if !seen[c.From] || !seen[c.To] {
			errs = append(errs, fmt.Errorf("connection %s (%s -> %s): %w", c.ID, c.From, c.To, ErrDanglingConnection))
		}
	}
	return errors.Join(errs...)
}

// Bounds returns the extent of all nodes. ok is false for an empty document.
func (d *Document) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(d.nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = d.nodes[0].X, d.nodes[0].Y
	maxX, maxY = d.nodes[0].Right(), d.nodes[0].Bottom()
	for _, n := range d.nodes[1:] {
		minX, minY = min(minX, n.X), min(minY, n.Y)
		maxX, maxY = max(maxX, n.Right()), max(maxY, n.Bottom())
	}
	return minX, minY, maxX, maxY, true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      d.Kind,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		nodes:     d.Nodes(),
		conns:     d.Connections(),
	}
	out.reindex()
	return out
}

// ReplaceContent swaps in a new node and connection set wholesale, keeping
// the document's identity and timestamps.
func (d *Document) ReplaceContent(nodes []Node, conns []Connection) {
	d.nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		d.nodes[i] = n.clone()
	}
	d.conns = slices.Clone(conns)
	d.reindex()
}

func (d *Document) reindex() {
	d.nodeIndex = make(map[string]int, len(d.nodes))
	for i, n := range d.nodes {
		d.nodeIndex[n.ID] = i
	}
	d.connIndex = make(map[string]int, len(d.conns))
	for i, c := range d.conns {
		d.connIndex[c.ID] = i
	}
}
