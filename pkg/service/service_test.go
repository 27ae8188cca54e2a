package service

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/observability"
	"github.com/matzehuels/canvaskit/pkg/store"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	var mu sync.Mutex
	n := 0
	base := []Option{
		WithClock(func() time.Time { return testTime }),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("canvas-%d", n)
		}),
		WithLogger(log.New(io.Discard)),
	}
	return New(store.New(store.NewMemoryBackend()), append(base, opts...)...)
}

func ptr[T any](v T) *T { return &v }

func wantCode(t *testing.T, err error, code errs.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := errs.GetCode(err); got != code {
		t.Fatalf("code = %q, want %q (err: %v)", got, code, err)
	}
}

func mustCreate(t *testing.T, s *Service, name string) *canvas.Document {
	t.Helper()
	doc, err := s.Create(context.Background(), name, canvas.DocumentFreeform)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return doc
}

func mustAddNode(t *testing.T, s *Service, canvasID, label string) canvas.Node {
	t.Helper()
	n, err := s.AddNode(context.Background(), canvasID, canvas.NodeSpec{Kind: canvas.KindTask, Label: label})
	if err != nil {
		t.Fatalf("AddNode(%q): %v", label, err)
	}
	return n
}

func mustConnect(t *testing.T, s *Service, canvasID, from, to string) canvas.Connection {
	t.Helper()
	c, err := s.AddConnection(context.Background(), canvasID, canvas.ConnectionSpec{From: from, To: to})
	if err != nil {
		t.Fatalf("AddConnection(%s -> %s): %v", from, to, err)
	}
	return c
}

func TestCreateAndGet(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	doc := mustCreate(t, s, "Notes")
	if doc.ID != "canvas-1" {
		t.Errorf("ID = %q, want canvas-1", doc.ID)
	}
	if !doc.CreatedAt.Equal(testTime) || !doc.UpdatedAt.Equal(testTime) {
		t.Errorf("timestamps = %v/%v, want %v", doc.CreatedAt, doc.UpdatedAt, testTime)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Notes" || got.Kind != canvas.DocumentFreeform || got.NodeCount() != 0 {
		t.Errorf("Get = %q/%v/%d nodes, want Notes/freeform/0", got.Name, got.Kind, got.NodeCount())
	}

	_, err = s.Get(ctx, "missing")
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "a\nb"} {
		_, err := s.Create(ctx, name, canvas.DocumentFreeform)
		wantCode(t, err, errs.ErrCodeInvalidInput)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List = %d canvases, want 0", len(list))
	}
}

func TestListAndDelete(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")
	mustAddNode(t, s, b.ID, "only")

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List = %d canvases, want 2", len(list))
	}
	// Equal timestamps sort by id.
	if list[0].ID != a.ID || list[1].ID != b.ID || list[1].Nodes != 1 {
		t.Errorf("List = %+v", list)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = s.Get(ctx, a.ID)
	wantCode(t, err, errs.ErrCodeNotFound)
	wantCode(t, s.Delete(ctx, a.ID), errs.ErrCodeNotFound)
}

func TestMindmapQ1Planning(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	doc, err := s.CreateMindmap(ctx, "Q1 Planning", "Strategy", []string{"Market", "Product", "Team"})
	if err != nil {
		t.Fatalf("CreateMindmap: %v", err)
	}
	stored, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Kind != canvas.DocumentMindmap {
		t.Errorf("Kind = %v, want mindmap", stored.Kind)
	}

	nodes := stored.Nodes()
	if len(nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(nodes))
	}
	for _, n := range nodes {
		if n.Kind != canvas.KindIdea {
			t.Errorf("node %q kind = %v, want idea", n.Label, n.Kind)
		}
	}
	if nodes[0].Label != "Strategy" {
		t.Errorf("central label = %q, want Strategy", nodes[0].Label)
	}

	conns := stored.Connections()
	if len(conns) != 3 {
		t.Fatalf("connections = %d, want 3", len(conns))
	}
	for i, c := range conns {
		if c.From != nodes[0].ID || c.To != nodes[i+1].ID || c.Style != canvas.StyleSolid {
			t.Errorf("connection %d = %s -> %s (%v), want %s -> %s (solid)", i, c.From, c.To, c.Style, nodes[0].ID, nodes[i+1].ID)
		}
	}
}

func TestCreateMindmapRejectsEmptyTopic(t *testing.T) {
	s := newService(t)
	_, err := s.CreateMindmap(context.Background(), "Plan", " ", []string{"x"})
	wantCode(t, err, errs.ErrCodeInvalidInput)
}

func TestAddBranches(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	doc, err := s.CreateMindmap(ctx, "Plan", "Root", []string{"A"})
	if err != nil {
		t.Fatalf("CreateMindmap: %v", err)
	}
	root := doc.Nodes()[0]

	added, err := s.AddBranches(ctx, doc.ID, root.ID, []string{"B", "C"})
	if err != nil {
		t.Fatalf("AddBranches: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("added %d branches, want 2", len(added))
	}
	stored, _ := s.Get(ctx, doc.ID)
	if got := len(stored.Outgoing(root.ID)); got != 3 {
		t.Errorf("root has %d outgoing connections, want 3", got)
	}

	_, err = s.AddBranches(ctx, doc.ID, "nope", []string{"D"})
	wantCode(t, err, errs.ErrCodeNotFound)
	_, err = s.AddBranches(ctx, doc.ID, root.ID, nil)
	wantCode(t, err, errs.ErrCodeInvalidInput)
}

func TestWorkflowReview(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	doc, err := s.CreateWorkflow(ctx, "Review", "literature-review", nil)
	if err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	stored, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	want := []canvas.Kind{canvas.KindSource, canvas.KindProcess, canvas.KindAnalyze, canvas.KindAnalyze, canvas.KindOutput}
	nodes := stored.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("nodes = %d, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Kind != want[i] {
			t.Errorf("node %d kind = %v, want %v", i, n.Kind, want[i])
		}
	}

	conns := stored.Connections()
	if len(conns) != 4 {
		t.Fatalf("connections = %d, want 4", len(conns))
	}
	for i, c := range conns {
		if c.From != nodes[i].ID || c.To != nodes[i+1].ID || c.Style != canvas.StyleArrow {
			t.Errorf("connection %d = %s -> %s (%v), want node[%d] -> node[%d] (arrow)", i, c.From, c.To, c.Style, i, i+1)
		}
	}
}

func TestWorkflowUnknownTemplate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.CreateWorkflow(ctx, "Flow", "space-launch", nil)
	wantCode(t, err, errs.ErrCodeInvalidInput)
	if !strings.Contains(errs.UserMessage(err), "space-launch") {
		t.Errorf("message %q should name the template", errs.UserMessage(err))
	}
	if list, _ := s.List(ctx); len(list) != 0 {
		t.Errorf("List = %d canvases, want 0", len(list))
	}

	doc, err := s.CreateWorkflow(ctx, "Flow", "space-launch", []string{"Collect", "Draft", "Ship"})
	if err != nil {
		t.Fatalf("custom steps should override the template: %v", err)
	}
	if doc.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3", doc.NodeCount())
	}
}

func TestApplyGridLayoutFiveNodes(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	doc := mustCreate(t, s, "Grid")
	for i := range 5 {
		_, err := s.AddNode(ctx, doc.ID, canvas.NodeSpec{
			Kind:  canvas.KindNote,
			Label: fmt.Sprint(i),
			X:     ptr(float64(1000 - i*37)),
			Y:     ptr(float64(i * 13)),
		})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	laid, err := s.ApplyLayout(ctx, doc.ID, "grid")
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	want := [][2]float64{{100, 100}, {320, 100}, {540, 100}, {100, 220}, {320, 220}}
	for i, n := range laid.Nodes() {
		if n.X != want[i][0] || n.Y != want[i][1] {
			t.Errorf("node %d at (%v,%v), want (%v,%v)", i, n.X, n.Y, want[i][0], want[i][1])
		}
	}

	_, err = s.ApplyLayout(ctx, doc.ID, "spiral")
	wantCode(t, err, errs.ErrCodeInvalidInput)
	if !strings.Contains(errs.UserMessage(err), "spiral") {
		t.Errorf("message %q should name the algorithm", errs.UserMessage(err))
	}
	_, err = s.ApplyLayout(ctx, "missing", "grid")
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestAddNodeAutoPlacesAndValidates(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Auto")

	for i := range 5 {
		n := mustAddNode(t, s, doc.ID, fmt.Sprint(i))
		wantX, wantY := canvas.AutoPosition(i)
		if n.X != wantX || n.Y != wantY {
			t.Errorf("node %d at (%v,%v), want (%v,%v)", i, n.X, n.Y, wantX, wantY)
		}
	}

	_, err := s.AddNode(ctx, doc.ID, canvas.NodeSpec{Style: &canvas.NodeStyle{BorderColor: "red"}})
	wantCode(t, err, errs.ErrCodeInvalidInput)
	_, err = s.AddNode(ctx, doc.ID, canvas.NodeSpec{ImageURL: "ftp://example.com/a.png"})
	wantCode(t, err, errs.ErrCodeInvalidInput)
	_, err = s.AddNode(ctx, "missing", canvas.NodeSpec{})
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestUpdateNode(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Edit")
	n := mustAddNode(t, s, doc.ID, "before")

	got, err := s.UpdateNode(ctx, doc.ID, n.ID, canvas.NodePatch{Label: ptr("after"), X: ptr(42.0)})
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if got.Label != "after" || got.X != 42 || got.Y != n.Y || got.Kind != n.Kind {
		t.Errorf("UpdateNode = %+v", got)
	}

	stored, _ := s.Get(ctx, doc.ID)
	if sn, _ := stored.Node(n.ID); sn.Label != "after" {
		t.Errorf("stored label = %q, want after", sn.Label)
	}

	_, err = s.UpdateNode(ctx, doc.ID, "ghost", canvas.NodePatch{Label: ptr("x")})
	wantCode(t, err, errs.ErrCodeNotFound)
	_, err = s.UpdateNode(ctx, doc.ID, n.ID, canvas.NodePatch{Width: ptr(-1.0)})
	wantCode(t, err, errs.ErrCodeInvalidInput)
}

func TestDeleteNodeCascades(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Cascade")

	a := mustAddNode(t, s, doc.ID, "a")
	b := mustAddNode(t, s, doc.ID, "b")
	c := mustAddNode(t, s, doc.ID, "c")
	ab := mustConnect(t, s, doc.ID, a.ID, b.ID)
	bc := mustConnect(t, s, doc.ID, b.ID, c.ID)
	ac := mustConnect(t, s, doc.ID, a.ID, c.ID)

	removed, err := s.DeleteNode(ctx, doc.ID, b.ID)
	if err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if len(removed) != 2 || removed[0].ID != ab.ID || removed[1].ID != bc.ID {
		t.Errorf("removed = %+v, want [%s %s]", removed, ab.ID, bc.ID)
	}

	stored, _ := s.Get(ctx, doc.ID)
	conns := stored.Connections()
	if len(conns) != 1 || conns[0].ID != ac.ID {
		t.Errorf("remaining connections = %+v, want only %s", conns, ac.ID)
	}
	if stored.HasNode(b.ID) {
		t.Error("deleted node still present")
	}

	_, err = s.DeleteNode(ctx, doc.ID, b.ID)
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestAddConnectionMissingEndpoint(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Refs")
	a := mustAddNode(t, s, doc.ID, "a")
	b := mustAddNode(t, s, doc.ID, "b")
	mustConnect(t, s, doc.ID, a.ID, b.ID)

	tests := []struct {
		name     string
		from, to string
		code     errs.Code
	}{
		{"missing source", "ghost", b.ID, errs.ErrCodeInvalidReference},
		{"missing target", a.ID, "ghost", errs.ErrCodeInvalidReference},
		{"self", a.ID, a.ID, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddConnection(ctx, doc.ID, canvas.ConnectionSpec{From: tt.from, To: tt.to})
			wantCode(t, err, tt.code)

			stored, _ := s.Get(ctx, doc.ID)
			if n := stored.ConnectionCount(); n != 1 {
				t.Errorf("connections = %d, want 1", n)
			}
		})
	}

	_, err := s.AddConnection(ctx, "missing", canvas.ConnectionSpec{From: a.ID, To: b.ID})
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestDeleteConnection(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Conn")
	a := mustAddNode(t, s, doc.ID, "a")
	b := mustAddNode(t, s, doc.ID, "b")
	c := mustConnect(t, s, doc.ID, a.ID, b.ID)

	if err := s.DeleteConnection(ctx, doc.ID, c.ID); err != nil {
		t.Fatalf("DeleteConnection: %v", err)
	}
	stored, _ := s.Get(ctx, doc.ID)
	if stored.ConnectionCount() != 0 || stored.NodeCount() != 2 {
		t.Errorf("after delete: %d connections, %d nodes", stored.ConnectionCount(), stored.NodeCount())
	}
	wantCode(t, s.DeleteConnection(ctx, doc.ID, c.ID), errs.ErrCodeNotFound)
}

func TestImportMalformedCreatesNothing(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	inputs := []string{
		`{not json`,
		`{"name":"x","type":"mindmap","nodes":[{"id":"a","type":"blob","width":10,"height":10}]}`,
		`{"name":"","nodes":[]}`,
		`{"name":"z","type":"freeform","nodes":[],"connections":[]} }{ not json`,
	}
	for _, in := range inputs {
		_, err := s.ImportJSON(ctx, []byte(in))
		wantCode(t, err, errs.ErrCodeInvalidInput)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List = %d canvases, want 0", len(list))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	src, err := s.CreateMindmap(ctx, "Q1 Planning", "Strategy", []string{"Market", "Product", "Team"})
	if err != nil {
		t.Fatalf("CreateMindmap: %v", err)
	}
	n := src.Nodes()[1]
	if _, err := s.UpdateNode(ctx, src.ID, n.ID, canvas.NodePatch{
		Style: &canvas.NodeStyle{FontSize: 18, BackgroundColor: "#ffeedd"},
	}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	src, _ = s.Get(ctx, src.ID)

	data, err := s.ExportJSON(ctx, src.ID)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	imported, err := s.ImportJSON(ctx, data)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	if imported.ID == src.ID {
		t.Errorf("import kept id %q, want a new one", src.ID)
	}
	if imported.Name != src.Name || imported.Kind != src.Kind {
		t.Errorf("import = %q/%v, want %q/%v", imported.Name, imported.Kind, src.Name, src.Kind)
	}
	if !reflect.DeepEqual(imported.Nodes(), src.Nodes()) {
		t.Errorf("nodes differ after round trip:\n got %+v\nwant %+v", imported.Nodes(), src.Nodes())
	}
	if !reflect.DeepEqual(imported.Connections(), src.Connections()) {
		t.Errorf("connections differ after round trip")
	}

	stored, err := s.Get(ctx, imported.ID)
	if err != nil {
		t.Fatalf("imported canvas not stored: %v", err)
	}
	if stored.NodeCount() != 4 {
		t.Errorf("stored nodes = %d, want 4", stored.NodeCount())
	}
}

func TestExportFormats(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	doc, err := s.CreateWorkflow(ctx, "Review & Ship", "literature-review", nil)
	if err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	svgData, err := s.ExportSVG(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if !strings.HasPrefix(string(svgData), "<svg") && !strings.HasPrefix(string(svgData), "<?xml") {
		t.Errorf("svg starts with %q", svgData[:min(20, len(svgData))])
	}

	dot, err := s.ExportDOT(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ExportDOT: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") || !strings.Contains(string(dot), "rankdir=LR") {
		t.Errorf("dot output:\n%s", dot)
	}

	png, err := s.ExportPNG(ctx, doc.ID, 320, 200)
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("png output lacks the PNG signature")
	}

	_, err = s.ExportPNG(ctx, doc.ID, MaxRenderSize+1, 10)
	wantCode(t, err, errs.ErrCodeInvalidInput)
	_, err = s.ExportSVG(ctx, "missing")
	wantCode(t, err, errs.ErrCodeNotFound)
}

func TestExportCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newService(t, WithCache(c, time.Hour))
	ctx := context.Background()
	doc := mustCreate(t, s, "Cached")
	mustAddNode(t, s, doc.ID, "a")

	first, err := s.Export(ctx, doc.ID, FormatSVG, ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if first.Cached {
		t.Error("first export should miss the cache")
	}
	if first.ContentType != "image/svg+xml" {
		t.Errorf("ContentType = %q", first.ContentType)
	}

	second, err := s.Export(ctx, doc.ID, FormatSVG, ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !second.Cached || string(second.Data) != string(first.Data) {
		t.Error("second export should be served from the cache")
	}

	curved, err := s.Export(ctx, doc.ID, FormatSVG, ExportOptions{Curves: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if curved.Cached {
		t.Error("different options must not share a cache entry")
	}

	// Saving without content changes keeps the content hash.
	stored, _ := s.Get(ctx, doc.ID)
	if err := s.Save(ctx, stored); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, _ := s.Export(ctx, doc.ID, FormatSVG, ExportOptions{})
	if !again.Cached {
		t.Error("unchanged content should still hit the cache")
	}

	mustAddNode(t, s, doc.ID, "b")
	changed, _ := s.Export(ctx, doc.ID, FormatSVG, ExportOptions{})
	if changed.Cached {
		t.Error("changed content must miss the cache")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"svg", FormatSVG, true},
		{" PNG ", FormatPNG, true},
		{"dot", FormatDOT, true},
		{"graphviz", FormatGraphviz, true},
		{"json", FormatJSON, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseFormat(%q) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !tt.ok && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("error code = %q, want INVALID_INPUT", errs.GetCode(err))
			}
		})
	}
}

type recordingHooks struct {
	mu  sync.Mutex
	ops []string
}

func (h *recordingHooks) OnOperationStart(context.Context, string, string) {}

func (h *recordingHooks) OnOperationComplete(_ context.Context, op, _ string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status := "ok"
	if err != nil {
		status = string(errs.GetCode(err))
	}
	h.ops = append(h.ops, op+":"+status)
}

func TestServiceHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServiceHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newService(t)
	ctx := context.Background()
	doc := mustCreate(t, s, "Hooked")
	_, _ = s.Get(ctx, "missing")
	_, _ = s.ApplyLayout(ctx, doc.ID, "tree")

	want := []string{"create:ok", "get:NOT_FOUND", "apply_layout:ok"}
	if !reflect.DeepEqual(hooks.ops, want) {
		t.Errorf("ops = %v, want %v", hooks.ops, want)
	}
}
