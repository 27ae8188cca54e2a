package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

func ptr(v float64) *float64 { return &v }

func newDoc(t *testing.T) *canvas.Document {
	t.Helper()
	doc, err := canvas.New("d1", "Doc", canvas.DocumentFreeform)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func addNode(t *testing.T, doc *canvas.Document, id, label string, x, y float64) {
	t.Helper()
	if _, err := doc.AddNode(canvas.NodeSpec{ID: id, Label: label, X: ptr(x), Y: ptr(y)}); err != nil {
		t.Fatal(err)
	}
}

func connect(t *testing.T, doc *canvas.Document, id, from, to string, style canvas.ConnectionStyle) {
	t.Helper()
	if _, err := doc.AddConnection(canvas.ConnectionSpec{ID: id, From: from, To: to, Style: style}); err != nil {
		t.Fatal(err)
	}
}

func wellFormed(t *testing.T, b []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(b)))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("invalid XML: %v\n%s", err, b)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	out := Render(newDoc(t))
	wellFormed(t, out)
	s := string(out)
	if !strings.Contains(s, "Empty Canvas") {
		t.Errorf("placeholder caption missing:\n%s", s)
	}
	if strings.Contains(s, "<rect") {
		t.Errorf("placeholder should not contain nodes:\n%s", s)
	}
}

func TestRenderViewBox(t *testing.T) {
	doc := newDoc(t)
	addNode(t, doc, "a", "A", 100, 100)
	addNode(t, doc, "b", "B", 300, 200)

	s := string(Render(doc))
	// Bounds are 100..460 x 100..260, padded by 40.
	want := `viewBox="60 60 440 240"`
	if !strings.Contains(s, want) {
		t.Errorf("got %q, want to contain %s", s[:120], want)
	}

	s = string(Render(doc, WithPadding(0)))
	if !strings.Contains(s, `viewBox="100 100 360 160"`) {
		t.Errorf("padding option ignored: %s", s[:120])
	}
}

func TestRenderConnections(t *testing.T) {
	doc := newDoc(t)
	addNode(t, doc, "a", "A", 0, 0)
	addNode(t, doc, "b", "B", 400, 0)
	addNode(t, doc, "c", "C", 0, 300)
	connect(t, doc, "ab", "a", "b", canvas.StyleArrow)
	connect(t, doc, "ac", "a", "c", canvas.StyleDashed)

	out := Render(doc)
	wellFormed(t, out)
	s := string(out)

	if got := strings.Count(s, "<line "); got != 2 {
		t.Errorf("got %d lines, want 2", got)
	}
	if got := strings.Count(s, "<polygon "); got != 1 {
		t.Errorf("got %d arrowheads, want 1", got)
	}
	if got := strings.Count(s, "stroke-dasharray"); got != 1 {
		t.Errorf("got %d dashed strokes, want 1", got)
	}
	// Arrow tip sits on the left border of b at its vertical centre.
	if !strings.Contains(s, `points="400,30 `) {
		t.Errorf("arrow tip not at box entry:\n%s", s)
	}
	if strings.Index(s, "<line ") > strings.Index(s, `id="node-a"`) {
		t.Error("connections must be drawn before nodes")
	}
}

func TestRenderCurves(t *testing.T) {
	doc := newDoc(t)
	addNode(t, doc, "a", "A", 0, 0)
	addNode(t, doc, "b", "B", 400, 0)
	connect(t, doc, "ab", "a", "b", canvas.StyleSolid)

	s := string(Render(doc, WithCurves()))
	if strings.Contains(s, "<line ") || !strings.Contains(s, " Q ") {
		t.Errorf("expected quadratic path:\n%s", s)
	}
}

func TestRenderMultilineLabel(t *testing.T) {
	doc := newDoc(t)
	addNode(t, doc, "a", "one\ntwo\nthree", 0, 0)

	s := string(Render(doc))
	if got := strings.Count(s, `class="node-label"`); got != 3 {
		t.Fatalf("got %d text lines, want 3", got)
	}
	// Centre y is 30; lines are spread by 18 around it.
	for _, y := range []string{`y="12"`, `y="30"`, `y="48"`} {
		if !strings.Contains(s, y) {
			t.Errorf("missing line at %s:\n%s", y, s)
		}
	}
}

func TestRenderEscapes(t *testing.T) {
	doc := newDoc(t)
	addNode(t, doc, "a", `<b> & "q" 'x'`, 0, 0)
	doc.Name = "R&D"

	out := Render(doc, WithTitle())
	wellFormed(t, out)
	s := string(out)
	if strings.Contains(s, "<b>") {
		t.Error("label not escaped")
	}
	for _, want := range []string{"&lt;b&gt;", "&amp;", "&#34;q&#34;", "&#39;x&#39;", "<title>R&amp;D</title>"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s", want)
		}
	}
}

func TestRenderKindPalette(t *testing.T) {
	doc := newDoc(t)
	if _, err := doc.AddNode(canvas.NodeSpec{ID: "t", Kind: canvas.KindTask, Label: "T"}); err != nil {
		t.Fatal(err)
	}
	s := string(Render(doc))
	if !strings.Contains(s, `fill="#dbeafe" stroke="#3b82f6"`) {
		t.Errorf("task palette missing:\n%s", s)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{-40, "-40"},
		{1.5, "1.5"},
		{1.25, "1.25"},
		{1.333333, "1.33"},
		{-0.001, "0"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
