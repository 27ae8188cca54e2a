// Package nodelink exports canvas documents as Graphviz diagrams.
//
// [ToDOT] produces DOT source in which nodes are rounded boxes filled with
// their kind colours and connections keep their style: dashed lines stay
// dashed and only arrow connections get an arrowhead. The source can be
// saved for external Graphviz tools or laid out in-process with
// [RenderSVG]:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Workflows default to a left-to-right rank direction, everything else to
// top-to-bottom. With [Options].Pinned each node carries its document
// position so the neato engine reproduces the canvas arrangement.
//
// In-process rendering uses [github.com/goccy/go-graphviz], a WebAssembly
// build of Graphviz, so no system installation is needed.
package nodelink
