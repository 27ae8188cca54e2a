package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/layout"
	"github.com/matzehuels/canvaskit/pkg/service"
)

// Tool names.
const (
	CanvasCreate           = "canvas_create"
	CanvasDelete           = "canvas_delete"
	CanvasAddNode          = "canvas_add_node"
	CanvasUpdateNode       = "canvas_update_node"
	CanvasDeleteNode       = "canvas_delete_node"
	CanvasAddConnection    = "canvas_add_connection"
	CanvasDeleteConnection = "canvas_delete_connection"
	CanvasExportSVG        = "canvas_export_svg"
	CanvasExportJSON       = "canvas_export_json"
	CanvasExportPNG        = "canvas_export_png"
	CanvasExportDOT        = "canvas_export_dot"
	CanvasImportJSON       = "canvas_import_json"
	CanvasLayoutAuto       = "canvas_layout_auto"
	MindmapCreate          = "mindmap_create"
	MindmapAddBranch       = "mindmap_add_branch"
	WorkflowCreate         = "workflow_create"
	CanvasList             = "canvas_list"
	CanvasGet              = "canvas_get"
)

type createArgs struct {
	Name string `json:"name" validate:"notblank"`
	Type string `json:"type" validate:"required,oneof=mindmap workflow freeform"`
}

type canvasArgs struct {
	CanvasID string `json:"canvasId" validate:"notblank"`
}

type addNodeArgs struct {
	CanvasID string            `json:"canvasId" validate:"notblank"`
	NodeType string            `json:"nodeType" validate:"required,nodekind"`
	Label    string            `json:"label" validate:"required"`
	X        *float64          `json:"x"`
	Y        *float64          `json:"y"`
	Width    *float64          `json:"width" validate:"omitempty,gt=0"`
	Height   *float64          `json:"height" validate:"omitempty,gt=0"`
	Style    *canvas.NodeStyle `json:"style"`
	ImageURL string            `json:"imageUrl"`
}

type updateNodeArgs struct {
	CanvasID string            `json:"canvasId" validate:"notblank"`
	NodeID   string            `json:"nodeId" validate:"notblank"`
	NodeType *string           `json:"nodeType" validate:"omitempty,nodekind"`
	Label    *string           `json:"label"`
	X        *float64          `json:"x"`
	Y        *float64          `json:"y"`
	Width    *float64          `json:"width" validate:"omitempty,gt=0"`
	Height   *float64          `json:"height" validate:"omitempty,gt=0"`
	Style    *canvas.NodeStyle `json:"style"`
	ImageURL *string           `json:"imageUrl"`
}

type nodeArgs struct {
	CanvasID string `json:"canvasId" validate:"notblank"`
	NodeID   string `json:"nodeId" validate:"notblank"`
}

type addConnectionArgs struct {
	CanvasID   string `json:"canvasId" validate:"notblank"`
	FromNodeID string `json:"fromNodeId" validate:"notblank"`
	ToNodeID   string `json:"toNodeId" validate:"notblank"`
	Label      string `json:"label"`
	Style      string `json:"style" validate:"omitempty,oneof=solid dashed arrow"`
	Color      string `json:"color" validate:"omitempty,hexcolor"`
}

type connectionArgs struct {
	CanvasID     string `json:"canvasId" validate:"notblank"`
	ConnectionID string `json:"connectionId" validate:"notblank"`
}

type exportPNGArgs struct {
	CanvasID string `json:"canvasId" validate:"notblank"`
	Width    int    `json:"width" validate:"omitempty,min=1,max=8192"`
	Height   int    `json:"height" validate:"omitempty,min=1,max=8192"`
}

type importArgs struct {
	// JSON is either the canvas document itself or a string holding it.
	JSON json.RawMessage `json:"json" validate:"required"`
}

type layoutArgs struct {
	CanvasID  string `json:"canvasId" validate:"notblank"`
	Algorithm string `json:"algorithm" validate:"notblank"`
}

type mindmapArgs struct {
	Name         string   `json:"name" validate:"notblank"`
	CentralTopic string   `json:"centralTopic" validate:"notblank"`
	Branches     []string `json:"branches" validate:"dive,notblank"`
}

type branchArgs struct {
	CanvasID     string   `json:"canvasId" validate:"notblank"`
	ParentNodeID string   `json:"parentNodeId" validate:"notblank"`
	BranchTopics []string `json:"branchTopics" validate:"min=1,dive,notblank"`
}

type workflowArgs struct {
	Name        string   `json:"name" validate:"notblank"`
	Template    string   `json:"template" validate:"required_without=CustomSteps"`
	CustomSteps []string `json:"customSteps" validate:"dive,notblank"`
}

type listArgs struct{}

// NodeResult is returned by the node tools.
type NodeResult struct {
	CanvasID string      `json:"canvasId"`
	Node     canvas.Node `json:"node"`
}

// ConnectionResult is returned by canvas_add_connection.
type ConnectionResult struct {
	CanvasID   string            `json:"canvasId"`
	Connection canvas.Connection `json:"connection"`
}

func catalog() []Tool {
	canvasID := Param{Name: "canvasId", Type: String, Description: "Canvas ID", Required: true}
	nodeID := Param{Name: "nodeId", Type: String, Description: "Node ID", Required: true}
	kinds := make([]string, len(canvas.Kinds))
	for i, k := range canvas.Kinds {
		kinds[i] = k.String()
	}
	algorithms := make([]string, len(layout.Algorithms))
	for i, a := range layout.Algorithms {
		algorithms[i] = a.String()
	}

	return []Tool{
		{
			Name:        CanvasCreate,
			Description: "Create an empty canvas",
			Params: []Param{
				{Name: "name", Type: String, Description: "Canvas name", Required: true},
				{Name: "type", Type: String, Description: "Canvas type", Required: true, Enum: []string{"mindmap", "workflow", "freeform"}},
			},
			run: handler(runCreate),
		},
		{
			Name:        CanvasDelete,
			Description: "Delete a canvas",
			Params:      []Param{canvasID},
			Destructive: true,
			run:         handler(runDelete),
		},
		{
			Name:        CanvasAddNode,
			Description: "Add a node to a canvas. Omitted coordinates are auto-placed on a 4-column grid",
			Params: []Param{
				canvasID,
				{Name: "nodeType", Type: String, Description: "Node type", Required: true, Enum: kinds},
				{Name: "label", Type: String, Description: "Node label; newlines start new lines", Required: true},
				{Name: "x", Type: Number, Description: "Left edge in document units"},
				{Name: "y", Type: Number, Description: "Top edge in document units"},
				{Name: "width", Type: Number, Description: "Width (default 160)"},
				{Name: "height", Type: Number, Description: "Height (default 60)"},
				{Name: "style", Type: Object, Description: "Style overrides: fontFamily, fontSize, textColor, backgroundColor, borderColor, borderWidth"},
				{Name: "imageUrl", Type: String, Description: "Image URL shown in the node"},
			},
			run: handler(runAddNode),
		},
		{
			Name:        CanvasUpdateNode,
			Description: "Update a node. Only the given fields change",
			Params: []Param{
				canvasID, nodeID,
				{Name: "label", Type: String, Description: "New label"},
				{Name: "x", Type: Number, Description: "New left edge"},
				{Name: "y", Type: Number, Description: "New top edge"},
				{Name: "width", Type: Number, Description: "New width"},
				{Name: "height", Type: Number, Description: "New height"},
				{Name: "nodeType", Type: String, Description: "New node type", Enum: kinds},
				{Name: "style", Type: Object, Description: "Replacement style overrides"},
				{Name: "imageUrl", Type: String, Description: "New image URL"},
			},
			run: handler(runUpdateNode),
		},
		{
			Name:        CanvasDeleteNode,
			Description: "Delete a node and every connection attached to it",
			Params:      []Param{canvasID, nodeID},
			Destructive: true,
			run:         handler(runDeleteNode),
		},
		{
			Name:        CanvasAddConnection,
			Description: "Connect two nodes of a canvas",
			Params: []Param{
				canvasID,
				{Name: "fromNodeId", Type: String, Description: "Source node ID", Required: true},
				{Name: "toNodeId", Type: String, Description: "Target node ID", Required: true},
				{Name: "label", Type: String, Description: "Connection label"},
				{Name: "style", Type: String, Description: "Line style (default solid)", Enum: []string{"solid", "dashed", "arrow"}},
				{Name: "color", Type: String, Description: "Line color as hex"},
			},
			run: handler(runAddConnection),
		},
		{
			Name:        CanvasDeleteConnection,
			Description: "Delete a connection",
			Params: []Param{
				canvasID,
				{Name: "connectionId", Type: String, Description: "Connection ID", Required: true},
			},
			Destructive: true,
			run:         handler(runDeleteConnection),
		},
		{
			Name:        CanvasExportSVG,
			Description: "Export a canvas as a standalone SVG document",
			Params:      []Param{canvasID},
			run:         handler(runExportSVG),
		},
		{
			Name:        CanvasExportJSON,
			Description: "Export a canvas as JSON suitable for canvas_import_json",
			Params:      []Param{canvasID},
			run:         handler(runExportJSON),
		},
		{
			Name:        CanvasImportJSON,
			Description: "Import a canvas from exported JSON under a new ID",
			Params: []Param{
				{Name: "json", Type: String, Description: "Canvas JSON", Required: true},
			},
			run: handler(runImportJSON),
		},
		{
			Name:        CanvasLayoutAuto,
			Description: "Rearrange all nodes with a layout algorithm",
			Params: []Param{
				canvasID,
				{Name: "algorithm", Type: String, Description: "Layout algorithm", Required: true, Enum: algorithms},
			},
			run: handler(runLayout),
		},
		{
			Name:        MindmapCreate,
			Description: "Create a mindmap with a central topic and radial branches",
			Params: []Param{
				{Name: "name", Type: String, Description: "Canvas name", Required: true},
				{Name: "centralTopic", Type: String, Description: "Central topic", Required: true},
				{Name: "branches", Type: StringArray, Description: "Branch topics", Required: true},
			},
			run: handler(runMindmap),
		},
		{
			Name:        MindmapAddBranch,
			Description: "Add branch topics around an existing node",
			Params: []Param{
				canvasID,
				{Name: "parentNodeId", Type: String, Description: "Parent node ID", Required: true},
				{Name: "branchTopics", Type: StringArray, Description: "Topics to add", Required: true},
			},
			run: handler(runAddBranch),
		},
		{
			Name:        WorkflowCreate,
			Description: "Create a left-to-right workflow from a template or custom step titles",
			Params: []Param{
				{Name: "name", Type: String, Description: "Canvas name", Required: true},
				{Name: "template", Type: String, Description: "Workflow template; optional when customSteps are given", Enum: layout.TemplateNames()},
				{Name: "customSteps", Type: StringArray, Description: "Step titles; overrides the template"},
			},
			run: handler(runWorkflow),
		},
		{
			Name:        CanvasList,
			Description: "List all canvases",
			run:         handler(runList),
		},
		{
			Name:        CanvasGet,
			Description: "Get a canvas with all nodes and connections",
			Params:      []Param{canvasID},
			run:         handler(runGet),
		},
		{
			Name:        CanvasExportPNG,
			Description: "Render a canvas as a base64-encoded PNG image",
			Params: []Param{
				canvasID,
				{Name: "width", Type: Number, Description: "Image width in pixels (default 1200)"},
				{Name: "height", Type: Number, Description: "Image height in pixels (default 800)"},
			},
			run: handler(runExportPNG),
		},
		{
			Name:        CanvasExportDOT,
			Description: "Export a canvas as Graphviz DOT source",
			Params:      []Param{canvasID},
			run:         handler(runExportDOT),
		},
	}
}

func runCreate(ctx context.Context, svc *service.Service, a createArgs) (string, any, error) {
	kind, err := canvas.ParseDocumentKind(a.Type)
	if err != nil {
		return "", nil, errs.From(errs.ErrCodeInvalidInput, err)
	}
	doc, err := svc.Create(ctx, a.Name, kind)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Created %s canvas %q (%s)", doc.Kind, doc.Name, doc.ID), doc.Data(), nil
}

func runDelete(ctx context.Context, svc *service.Service, a canvasArgs) (string, any, error) {
	if err := svc.Delete(ctx, a.CanvasID); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Deleted canvas %s", a.CanvasID), nil, nil
}

func runAddNode(ctx context.Context, svc *service.Service, a addNodeArgs) (string, any, error) {
	kind, err := canvas.ParseKind(a.NodeType)
	if err != nil {
		return "", nil, errs.From(errs.ErrCodeInvalidInput, err)
	}
	spec := canvas.NodeSpec{
		Kind:     kind,
		Label:    a.Label,
		X:        a.X,
		Y:        a.Y,
		Style:    a.Style,
		ImageURL: a.ImageURL,
	}
	if a.Width != nil {
		spec.Width = *a.Width
	}
	if a.Height != nil {
		spec.Height = *a.Height
	}
	n, err := svc.AddNode(ctx, a.CanvasID, spec)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Added %s node %q at (%g, %g)", n.Kind, n.Label, n.X, n.Y), NodeResult{a.CanvasID, n}, nil
}

func runUpdateNode(ctx context.Context, svc *service.Service, a updateNodeArgs) (string, any, error) {
	patch := canvas.NodePatch{
		Label:    a.Label,
		X:        a.X,
		Y:        a.Y,
		Width:    a.Width,
		Height:   a.Height,
		Style:    a.Style,
		ImageURL: a.ImageURL,
	}
	if a.NodeType != nil {
		kind, err := canvas.ParseKind(*a.NodeType)
		if err != nil {
			return "", nil, errs.From(errs.ErrCodeInvalidInput, err)
		}
		patch.Kind = &kind
	}
	n, err := svc.UpdateNode(ctx, a.CanvasID, a.NodeID, patch)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Updated node %s", n.ID), NodeResult{a.CanvasID, n}, nil
}

func runDeleteNode(ctx context.Context, svc *service.Service, a nodeArgs) (string, any, error) {
	removed, err := svc.DeleteNode(ctx, a.CanvasID, a.NodeID)
	if err != nil {
		return "", nil, err
	}
	ids := make([]string, len(removed))
	for i, c := range removed {
		ids[i] = c.ID
	}
	data := map[string]any{"nodeId": a.NodeID, "removedConnections": ids}
	return fmt.Sprintf("Deleted node %s and %s", a.NodeID, plural(len(removed), "connection")), data, nil
}

func runAddConnection(ctx context.Context, svc *service.Service, a addConnectionArgs) (string, any, error) {
	style, err := canvas.ParseConnectionStyle(a.Style)
	if err != nil {
		return "", nil, errs.From(errs.ErrCodeInvalidInput, err)
	}
	c, err := svc.AddConnection(ctx, a.CanvasID, canvas.ConnectionSpec{
		From:  a.FromNodeID,
		To:    a.ToNodeID,
		Label: a.Label,
		Style: style,
		Color: a.Color,
	})
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Connected %s to %s", c.From, c.To), ConnectionResult{a.CanvasID, c}, nil
}

func runDeleteConnection(ctx context.Context, svc *service.Service, a connectionArgs) (string, any, error) {
	if err := svc.DeleteConnection(ctx, a.CanvasID, a.ConnectionID); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Deleted connection %s", a.ConnectionID), nil, nil
}

func runExportSVG(ctx context.Context, svc *service.Service, a canvasArgs) (string, any, error) {
	data, err := svc.ExportSVG(ctx, a.CanvasID)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Exported canvas %s as SVG (%d bytes)", a.CanvasID, len(data)), map[string]string{"svg": string(data)}, nil
}

func runExportJSON(ctx context.Context, svc *service.Service, a canvasArgs) (string, any, error) {
	data, err := svc.ExportJSON(ctx, a.CanvasID)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Exported canvas %s as JSON", a.CanvasID), json.RawMessage(data), nil
}

func runExportPNG(ctx context.Context, svc *service.Service, a exportPNGArgs) (string, any, error) {
	data, err := svc.ExportPNG(ctx, a.CanvasID, a.Width, a.Height)
	if err != nil {
		return "", nil, err
	}
	out := map[string]string{
		"mimeType": "image/png",
		"png":      base64.StdEncoding.EncodeToString(data),
	}
	return fmt.Sprintf("Rendered canvas %s as PNG (%d bytes)", a.CanvasID, len(data)), out, nil
}

func runExportDOT(ctx context.Context, svc *service.Service, a canvasArgs) (string, any, error) {
	data, err := svc.ExportDOT(ctx, a.CanvasID)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Exported canvas %s as DOT", a.CanvasID), map[string]string{"dot": string(data)}, nil
}

func runImportJSON(ctx context.Context, svc *service.Service, a importArgs) (string, any, error) {
	raw := []byte(a.JSON)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = []byte(s)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", nil, errs.New(errs.ErrCodeInvalidInput, "invalid arguments: json is required")
	}
	doc, err := svc.ImportJSON(ctx, raw)
	if err != nil {
		return "", nil, err
	}
	msg := fmt.Sprintf("Imported canvas %q as %s with %s and %s",
		doc.Name, doc.ID, plural(doc.NodeCount(), "node"), plural(doc.ConnectionCount(), "connection"))
	return msg, doc.Data(), nil
}

func runLayout(ctx context.Context, svc *service.Service, a layoutArgs) (string, any, error) {
	doc, err := svc.ApplyLayout(ctx, a.CanvasID, a.Algorithm)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Applied %s layout to %s", strings.ToLower(strings.TrimSpace(a.Algorithm)), plural(doc.NodeCount(), "node")), doc.Data(), nil
}

func runMindmap(ctx context.Context, svc *service.Service, a mindmapArgs) (string, any, error) {
	doc, err := svc.CreateMindmap(ctx, a.Name, a.CentralTopic, a.Branches)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Created mindmap %q (%s) with %s", doc.Name, doc.ID, plural(len(a.Branches), "branch")), doc.Data(), nil
}

func runAddBranch(ctx context.Context, svc *service.Service, a branchArgs) (string, any, error) {
	added, err := svc.AddBranches(ctx, a.CanvasID, a.ParentNodeID, a.BranchTopics)
	if err != nil {
		return "", nil, err
	}
	data := map[string]any{"canvasId": a.CanvasID, "nodes": added}
	return fmt.Sprintf("Added %s to node %s", plural(len(added), "branch"), a.ParentNodeID), data, nil
}

func runWorkflow(ctx context.Context, svc *service.Service, a workflowArgs) (string, any, error) {
	doc, err := svc.CreateWorkflow(ctx, a.Name, a.Template, a.CustomSteps)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Created workflow %q (%s) with %s", doc.Name, doc.ID, plural(doc.NodeCount(), "step")), doc.Data(), nil
}

func runList(ctx context.Context, svc *service.Service, _ listArgs) (string, any, error) {
	list, err := svc.List(ctx)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Found %s", plural(len(list), "canvas")), list, nil
}

func runGet(ctx context.Context, svc *service.Service, a canvasArgs) (string, any, error) {
	doc, err := svc.Get(ctx, a.CanvasID)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Canvas %q has %s and %s", doc.Name, plural(doc.NodeCount(), "node"), plural(doc.ConnectionCount(), "connection")), doc.Data(), nil
}
