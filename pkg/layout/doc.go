// Package layout positions the nodes of a canvas document.
//
// # Algorithms
//
// [Compute] dispatches over the closed [Algorithm] enumeration. Every
// algorithm is a pure function of the node order and, for [Tree], the
// connections; the same input always yields the same positions and node
// sizes are never changed.
//
//   - [Horizontal]: one row, [GapX] apart
//   - [Vertical]: one column, [GapY] apart
//   - [Grid]: ceil(sqrt(n)) columns filled row-major
//   - [Radial]: the first node centred on the anchor, the rest on a circle
//   - [Tree]: breadth-first from the roots, one column per depth
//
// All grid-like layouts start at ([StartX], [StartY]).
//
// # Generators
//
// [Mindmap], [AddBranches] and [Workflow] build or extend documents from a
// topic list or a named template. They add nodes and connections through the
// canvas API, so the usual invariants hold.
package layout
