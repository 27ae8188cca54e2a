// Package canvas provides the document model behind every diagram: labelled,
// positioned nodes joined by styled connections.
//
// # Overview
//
// A [Document] is an owned aggregate. Nodes and connections live in ordered
// slices (insertion order is z-order: later nodes draw on top and are hit
// first) and are addressed by id through index maps that are rebuilt on
// deletion. Nothing outside the package holds pointers into the slices; all
// accessors return copies.
//
// # Basic Usage
//
//	doc, _ := canvas.New("c1", "Q1 Planning", canvas.DocumentMindmap)
//	a, _ := doc.AddNode(canvas.NodeSpec{Kind: canvas.KindIdea, Label: "Goals"})
//	b, _ := doc.AddNode(canvas.NodeSpec{Kind: canvas.KindTask, Label: "Hire"})
//	doc.AddConnection(canvas.ConnectionSpec{From: a.ID, To: b.ID, Style: canvas.StyleArrow})
//
// Nodes added without a position are placed on a four-column grid derived
// from the current node count.
//
// # Invariants
//
// Deleting a node always removes every connection that references it.
// [Document.AddConnection] refuses endpoints that do not exist, so documents
// built through this API never carry dangling connections. Documents decoded
// from JSON may; [Document.Validate] reports them and renderers skip them.
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert between a Document and the persisted
// JSON layout described by [Data]. Enumerations serialize as lower-case
// names ("idea", "arrow", "mindmap").
//
// # Concurrency
//
// A Document is not safe for concurrent use. The service layer loads a fresh
// copy per operation and the interactive controller owns its copy.
package canvas
