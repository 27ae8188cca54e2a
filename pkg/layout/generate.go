package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// Mindmap geometry.
const (
	MindmapRadius       = 250.0
	BranchRadius        = 180.0
	BranchAngleStep     = math.Pi / 6
	BranchAngleStart    = math.Pi / 4
	MindmapCenterWidth  = 200.0
	MindmapCenterHeight = 80.0
)

// Workflow geometry.
const (
	StepWidth  = 180.0
	StepHeight = 80.0
	StepGap    = 60.0
	WorkflowY  = 200.0
)

var (
	// ErrNoTopics is returned by [AddBranches] when there is nothing to add.
	ErrNoTopics = errors.New("at least one branch topic is required")

	// ErrUnknownTemplate is returned by [Template] and [WorkflowSteps].
	ErrUnknownTemplate = errors.New("unknown workflow template")
)

// Mindmap adds a central topic at the radial anchor and one branch per
// topic evenly around it, each joined to the centre by a solid connection.
// It returns the central node followed by the branches.
func Mindmap(doc *canvas.Document, central string, branches []string) ([]canvas.Node, error) {
	center, err := doc.AddNode(canvas.NodeSpec{
		Kind:   canvas.KindIdea,
		Label:  central,
		X:      ptr(RadialCenterX - MindmapCenterWidth/2),
		Y:      ptr(RadialCenterY - MindmapCenterHeight/2),
		Width:  MindmapCenterWidth,
		Height: MindmapCenterHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("add central topic: %w", err)
	}
	out := []canvas.Node{center}

	k := float64(len(branches))
	for i, topic := range branches {
		angle := 2*math.Pi*float64(i)/k - math.Pi/2
		n, err := addAround(doc, RadialCenterX, RadialCenterY, MindmapRadius, angle, topic)
		if err != nil {
			return nil, err
		}
		if _, err := doc.AddConnection(canvas.ConnectionSpec{From: center.ID, To: n.ID, Style: canvas.StyleSolid}); err != nil {
			return nil, fmt.Errorf("connect branch %q: %w", topic, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// AddBranches attaches new topics to an existing node. Placement continues
// around the parent from its current number of outgoing connections, so
// repeated calls fan out instead of stacking.
func AddBranches(doc *canvas.Document, parentID string, topics []string) ([]canvas.Node, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}
	parent, ok := doc.Node(parentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", canvas.ErrNodeNotFound, parentID)
	}
	cx, cy := parent.Center()
	siblings := len(doc.Outgoing(parentID))

	out := make([]canvas.Node, 0, len(topics))
	for j, topic := range topics {
		angle := BranchAngleStart + float64(siblings+j)*BranchAngleStep
		n, err := addAround(doc, cx, cy, BranchRadius, angle, topic)
		if err != nil {
			return nil, err
		}
		if _, err := doc.AddConnection(canvas.ConnectionSpec{From: parentID, To: n.ID, Style: canvas.StyleSolid}); err != nil {
			return nil, fmt.Errorf("connect branch %q: %w", topic, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func addAround(doc *canvas.Document, cx, cy, r, angle float64, label string) (canvas.Node, error) {
	w, h := canvas.DefaultNodeWidth, canvas.DefaultNodeHeight
	n, err := doc.AddNode(canvas.NodeSpec{
		Kind:  canvas.KindIdea,
		Label: label,
		X:     ptr(cx + r*math.Cos(angle) - w/2),
		Y:     ptr(cy + r*math.Sin(angle) - h/2),
	})
	if err != nil {
		return canvas.Node{}, fmt.Errorf("add branch %q: %w", label, err)
	}
	return n, nil
}

// Step is one stage of a workflow.
type Step struct {
	Title string
	Kind  canvas.Kind
}

var templates = map[string][]Step{
	"literature-review": {
		{"Search Sources", canvas.KindSource},
		{"Screen Papers", canvas.KindProcess},
		{"Extract Findings", canvas.KindAnalyze},
		{"Synthesize Themes", canvas.KindAnalyze},
		{"Write Review", canvas.KindOutput},
	},
	"data-analysis": {
		{"Collect Data", canvas.KindSource},
		{"Clean Data", canvas.KindProcess},
		{"Explore", canvas.KindAnalyze},
		{"Model", canvas.KindAnalyze},
		{"Report", canvas.KindOutput},
	},
	"content-creation": {
		{"Research Topic", canvas.KindResearch},
		{"Outline", canvas.KindProcess},
		{"Draft", canvas.KindProcess},
		{"Review", canvas.KindAnalyze},
		{"Publish", canvas.KindOutput},
	},
	"decision-making": {
		{"Define Problem", canvas.KindNote},
		{"Gather Options", canvas.KindResearch},
		{"Evaluate Options", canvas.KindAnalyze},
		{"Decide", canvas.KindDecision},
		{"Act", canvas.KindTask},
	},
}

// TemplateNames returns the built-in workflow template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Template returns a copy of the named template's steps.
func Template(name string) ([]Step, error) {
	steps, ok := templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownTemplate, name, strings.Join(TemplateNames(), ", "))
	}
	return slices.Clone(steps), nil
}

// CustomSteps turns plain titles into steps: the first is a source, the
// last an output and everything between a process. A single title is a
// source.
func CustomSteps(titles []string) []Step {
	steps := make([]Step, len(titles))
	for i, t := range titles {
		kind := canvas.KindProcess
		switch {
		case i == 0:
			kind = canvas.KindSource
		case i == len(titles)-1:
			kind = canvas.KindOutput
		}
		steps[i] = Step{Title: t, Kind: kind}
	}
	return steps
}

// WorkflowSteps resolves the steps for a workflow request. Custom titles
// take precedence over the template name.
func WorkflowSteps(template string, custom []string) ([]Step, error) {
	if len(custom) > 0 {
		return CustomSteps(custom), nil
	}
	return Template(template)
}

// Workflow lays out steps left to right and chains them with arrows.
func Workflow(doc *canvas.Document, steps []Step) ([]canvas.Node, error) {
	out := make([]canvas.Node, 0, len(steps))
	for i, s := range steps {
		n, err := doc.AddNode(canvas.NodeSpec{
			Kind:   s.Kind,
			Label:  s.Title,
			X:      ptr(StartX + float64(i)*(StepWidth+StepGap)),
			Y:      ptr(WorkflowY),
			Width:  StepWidth,
			Height: StepHeight,
		})
		if err != nil {
			return nil, fmt.Errorf("add step %q: %w", s.Title, err)
		}
		if i > 0 {
			if _, err := doc.AddConnection(canvas.ConnectionSpec{From: out[i-1].ID, To: n.ID, Style: canvas.StyleArrow}); err != nil {
				return nil, fmt.Errorf("chain step %q: %w", s.Title, err)
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }
