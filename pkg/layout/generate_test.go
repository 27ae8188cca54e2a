package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

func newDoc(t *testing.T, kind canvas.DocumentKind) *canvas.Document {
	t.Helper()
	d, err := canvas.New("d", "Doc", kind)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMindmapQ1Planning(t *testing.T) {
	doc := newDoc(t, canvas.DocumentMindmap)
	got, err := Mindmap(doc, "Q1 Planning", []string{"Goals", "Risks", "Team"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.NodeCount() != 4 || doc.ConnectionCount() != 3 {
		t.Fatalf("got %d nodes / %d connections, want 4 / 3", doc.NodeCount(), doc.ConnectionCount())
	}
	center := got[0]
	for _, c := range doc.Connections() {
		if c.From != center.ID {
			t.Errorf("connection %s does not start at the centre", c.ID)
		}
		if c.Style != canvas.StyleSolid {
			t.Errorf("connection style = %v, want solid", c.Style)
		}
	}
	for _, n := range doc.Nodes() {
		if n.Kind != canvas.KindIdea {
			t.Errorf("%q kind = %v, want idea", n.Label, n.Kind)
		}
	}

	cx, cy := center.Center()
	if cx != RadialCenterX || cy != RadialCenterY {
		t.Errorf("centre at (%v,%v)", cx, cy)
	}
	for i, b := range got[1:] {
		bx, by := b.Center()
		wantAngle := 2*math.Pi*float64(i)/3 - math.Pi/2
		if math.Abs(bx-(cx+MindmapRadius*math.Cos(wantAngle))) > 1e-6 ||
			math.Abs(by-(cy+MindmapRadius*math.Sin(wantAngle))) > 1e-6 {
			t.Errorf("branch %d at (%v,%v)", i, bx, by)
		}
	}
}

func TestMindmapNoBranches(t *testing.T) {
	doc := newDoc(t, canvas.DocumentMindmap)
	if _, err := Mindmap(doc, "Solo", nil); err != nil {
		t.Fatal(err)
	}
	if doc.NodeCount() != 1 || doc.ConnectionCount() != 0 {
		t.Errorf("got %d nodes / %d connections", doc.NodeCount(), doc.ConnectionCount())
	}
}

func TestAddBranchesContinuesAngle(t *testing.T) {
	doc := newDoc(t, canvas.DocumentMindmap)
	got, _ := Mindmap(doc, "Root", []string{"A"})
	branch := got[1]

	first, err := AddBranches(doc, branch.ID, []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := AddBranches(doc, branch.ID, []string{"z"})
	if err != nil {
		t.Fatal(err)
	}

	px, py := branch.Center()
	all := append(first, second...)
	for j, n := range all {
		x, y := n.Center()
		want := BranchAngleStart + float64(j)*BranchAngleStep
		if math.Abs(x-(px+BranchRadius*math.Cos(want))) > 1e-6 || math.Abs(y-(py+BranchRadius*math.Sin(want))) > 1e-6 {
			t.Errorf("sub-branch %d at (%v,%v), want angle %v", j, x, y, want)
		}
	}
	if got := len(doc.Outgoing(branch.ID)); got != 3 {
		t.Errorf("parent has %d outgoing connections, want 3", got)
	}
}

func TestAddBranchesErrors(t *testing.T) {
	doc := newDoc(t, canvas.DocumentMindmap)
	Mindmap(doc, "Root", nil)
	if _, err := AddBranches(doc, "missing", []string{"x"}); !errors.Is(err, canvas.ErrNodeNotFound) {
		t.Errorf("missing parent error = %v", err)
	}
	root := doc.Nodes()[0]
	if _, err := AddBranches(doc, root.ID, nil); !errors.Is(err, ErrNoTopics) {
		t.Errorf("no topics error = %v", err)
	}
}

func TestWorkflowLiteratureReview(t *testing.T) {
	doc := newDoc(t, canvas.DocumentWorkflow)
	steps, err := WorkflowSteps("literature-review", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Workflow(doc, steps)
	if err != nil {
		t.Fatal(err)
	}

	wantKinds := []canvas.Kind{canvas.KindSource, canvas.KindProcess, canvas.KindAnalyze, canvas.KindAnalyze, canvas.KindOutput}
	if len(got) != len(wantKinds) {
		t.Fatalf("got %d steps, want %d", len(got), len(wantKinds))
	}
	for i, n := range got {
		if n.Kind != wantKinds[i] {
			t.Errorf("step %d kind = %v, want %v", i, n.Kind, wantKinds[i])
		}
		if i > 0 && n.X <= got[i-1].X {
			t.Errorf("step %d not right of step %d", i, i-1)
		}
		if i > 0 && n.X-got[i-1].X != StepWidth+StepGap {
			t.Errorf("step %d spacing = %v", i, n.X-got[i-1].X)
		}
	}

	conns := doc.Connections()
	if len(conns) != 4 {
		t.Fatalf("got %d connections, want 4", len(conns))
	}
	for i, c := range conns {
		if c.From != got[i].ID || c.To != got[i+1].ID || c.Style != canvas.StyleArrow {
			t.Errorf("connection %d = %+v", i, c)
		}
	}
}

func TestCustomSteps(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []canvas.Kind
	}{
		{"one", []string{"a"}, []canvas.Kind{canvas.KindSource}},
		{"two", []string{"a", "b"}, []canvas.Kind{canvas.KindSource, canvas.KindOutput}},
		{"four", []string{"a", "b", "c", "d"}, []canvas.Kind{canvas.KindSource, canvas.KindProcess, canvas.KindProcess, canvas.KindOutput}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := WorkflowSteps("ignored", tt.titles)
			if err != nil {
				t.Fatal(err)
			}
			for i, s := range steps {
				if s.Kind != tt.want[i] || s.Title != tt.titles[i] {
					t.Errorf("step %d = %+v, want kind %v", i, s, tt.want[i])
				}
			}
		})
	}
}

func TestUnknownTemplate(t *testing.T) {
	_, err := WorkflowSteps("tea-ceremony", nil)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("error = %v, want %v", err, ErrUnknownTemplate)
	}
}

func TestTemplateReturnsCopy(t *testing.T) {
	a, _ := Template("data-analysis")
	a[0].Title = "changed"
	b, _ := Template("data-analysis")
	if b[0].Title == "changed" {
		t.Error("Template exposed shared slice")
	}
}
