// Package mcpserver serves the canvas tool registry over the Model Context
// Protocol.
//
// Every tool in [tools.Registry] is published with a JSON schema built from
// its parameter list. Tool results are returned as the JSON-encoded
// [tools.Result] envelope; failed calls set the MCP error flag. PNG exports
// are additionally attached as image content.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/canvaskit/pkg/buildinfo"
	"github.com/matzehuels/canvaskit/pkg/tools"
)

// Name is the server name reported to MCP clients.
const Name = "canvaskit"

const instructions = `canvaskit manages diagram canvases: mindmaps, workflows and freeform boards.
Create a canvas (canvas_create, mindmap_create or workflow_create), add nodes and
connections, rearrange with canvas_layout_auto and export with canvas_export_svg,
canvas_export_png or canvas_export_json. Every result is a JSON object with
"success", "message" and, on failure, a "code".`

// Server wraps an MCP server bound to a tool registry.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
	logger   *log.Logger
}

// New registers every tool of reg on a new MCP server.
func New(reg *tools.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		registry: reg,
		logger:   logger,
		mcp: server.NewMCPServer(
			Name,
			buildinfo.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
	}
	for _, t := range reg.Tools() {
		s.mcp.AddTool(definition(t), s.handle(t.Name))
	}
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio serves JSON-RPC over in and out until ctx is cancelled or in
// is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))
	s.logger.Info("serving MCP over stdio", "tools", len(s.registry.Tools()), "version", buildinfo.Version)
	return stdio.Listen(ctx, in, out)
}

func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.registry.CallMap(ctx, name, req.GetArguments())
		if !res.Success {
			s.logger.Warn("tool call failed", "tool", name, "code", res.Code, "message", res.Message)
		} else {
			s.logger.Debug("tool call", "tool", name, "message", res.Message)
		}
		return toCallResult(name, res)
	}
}

func toCallResult(name string, res tools.Result) (*mcp.CallToolResult, error) {
	text, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return mcp.NewToolResultError(string(text)), nil
	}
	if name == tools.CanvasExportPNG {
		if data, ok := res.Data.(map[string]string); ok {
			return mcp.NewToolResultImage(res.Message, data["png"], data["mimeType"]), nil
		}
	}
	return mcp.NewToolResultText(string(text)), nil
}

func definition(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case tools.Number:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case tools.Boolean:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		case tools.StringArray:
			props = append(props, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, props...))
		case tools.Object:
			opts = append(opts, mcp.WithObject(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	if t.Destructive {
		opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}))
	}
	return mcp.NewTool(t.Name, opts...)
}

func boolPtr(b bool) *bool { return &b }
