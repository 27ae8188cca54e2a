// Package pkg provides the core libraries for canvaskit diagram canvases.
//
// # Overview
//
// canvaskit keeps diagrams as documents of typed, styled nodes joined by
// connections. The pkg directory is organized into five areas:
//
//  1. [canvas] - The document model (nodes, connections, kinds, JSON format)
//  2. [layout] - Auto-arrangement and generators (mindmaps, workflows)
//  3. [geometry] and [interact] - Viewport math and the editing state machine
//  4. [render] - SVG, PNG and Graphviz exporters
//  5. [service] and [tools] - The operations surface shared by CLI, REST and MCP
//
// # Architecture
//
// The typical data flow of an edit:
//
//	CLI / REST / MCP tool call
//	         ↓
//	    [tools] package (validate arguments, build a Result)
//	         ↓
//	    [service] package (load, mutate, save)
//	         ↓
//	    [store] package (memory, file, redis or mongo backend)
//
// Exports take the same path and then go through [cache] and [render].
//
// # Quick Start
//
// Build a mindmap and export it as SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/canvaskit/pkg/service"
//	    "github.com/matzehuels/canvaskit/pkg/store"
//	)
//
//	ctx := context.Background()
//	svc := service.New(store.New(store.NewMemoryBackend()))
//
//	doc, _ := svc.CreateMindmap(ctx, "Q1 Planning", "Q1 Goals",
//	    []string{"Hiring", "Product", "Revenue"})
//	svg, _ := svc.ExportSVG(ctx, doc.ID)
//
// # Main Packages
//
// [canvas] - Arena-style document: nodes in z-order with an id index,
// connections in insertion order. Deleting a node cascades to its
// connections. Nine node kinds carry a default palette.
//
// [layout] - Pure layout algorithms (grid, horizontal, vertical, radial,
// tree) plus the mindmap and workflow generators and workflow templates.
//
// [geometry] - Viewport zoom and pan, screen and document transforms, hit
// testing of nodes and resize handles.
//
// [interact] - The pointer and keyboard controller: select, move, resize,
// pan, zoom, inline label editing and connect mode. Sessions can be
// replayed from JSON event logs.
//
// [render] - Renderers that read a document and never mutate it:
//
//   - [render/svg]: standalone vector export
//   - [render/raster]: bitmap frames and PNG export
//   - [render/nodelink]: Graphviz DOT and Graphviz-laid-out SVG
//   - [render/styles]: shared text wrapping and connector geometry
//
// [store] - Document persistence behind a byte-level Backend interface with
// retries for transient failures.
//
// [cache] - Export cache (file, redis, null) keyed by content hash.
//
// [service] - Every canvas operation, with structured [errors] codes at its
// boundary and coalesced exports.
//
// [tools] - The named tool catalog with typed arguments, used by the REST
// and MCP servers.
//
// [observability] - Hooks for service and store events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/layout/...           # Specific package
//	go test -run Example ./pkg/...     # Examples only
//
// Redis and MongoDB backend tests run when CANVASKIT_TEST_REDIS_ADDR or
// CANVASKIT_TEST_MONGO_URI point at a server.
//
// [canvas]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/canvas
// [layout]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/geometry
// [interact]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/interact
// [render]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/render/raster
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/render/nodelink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/render/styles
// [store]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/cache
// [service]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/service
// [errors]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/errors
// [tools]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/tools
// [observability]: https://pkg.go.dev/github.com/matzehuels/canvaskit/pkg/observability
package pkg
