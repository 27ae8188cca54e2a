// Package render groups the canvas renderers.
//
// # Overview
//
// Every renderer reads a [canvas.Document] and never mutates it:
//
//   - [raster]: interactive bitmap frames (grid, selection, handles, title
//     overlay) drawn with fogleman/gg, encodable as PNG
//   - [svg]: standalone vector export sized to the content bounds
//   - [nodelink]: Graphviz DOT export, optionally laid out by Graphviz
//
// Shared text handling (wrapping, ellipsis, XML escaping) and connection
// geometry live in [styles].
//
// Connections whose endpoints are missing are skipped by all renderers, so a
// document imported from an inconsistent file still draws.
//
// [canvas.Document]: github.com/matzehuels/canvaskit/pkg/canvas
// [raster]: github.com/matzehuels/canvaskit/pkg/render/raster
// [svg]: github.com/matzehuels/canvaskit/pkg/render/svg
// [nodelink]: github.com/matzehuels/canvaskit/pkg/render/nodelink
// [styles]: github.com/matzehuels/canvaskit/pkg/render/styles
package render
