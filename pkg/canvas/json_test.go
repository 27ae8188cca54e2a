package canvas

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMarshalRoundTrip(t *testing.T) {
	d := newDoc(t)
	d.Kind = DocumentWorkflow
	d.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d.UpdatedAt = d.CreatedAt.Add(time.Hour)
	d.AddNode(NodeSpec{ID: "a", Kind: KindSource, Label: "line1\nline2", Style: &NodeStyle{FontSize: 18, TextColor: "#111111"}})
	d.AddNode(NodeSpec{ID: "b", Kind: KindOutput, Label: `<"quoted" & 'single'>`, ImageURL: "https://example.com/x.png"})
	d.AddConnection(ConnectionSpec{ID: "c", From: "a", To: "b", Label: "next", Style: StyleArrow, Color: "#333333"})

	raw, err := Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !reflect.DeepEqual(got.Data(), d.Data()) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got.Data(), d.Data())
	}
}

func TestMarshalFieldNames(t *testing.T) {
	d := newDoc(t)
	d.Kind = DocumentMindmap
	d.AddNode(NodeSpec{ID: "a", Kind: KindAnalyze})
	d.AddNode(NodeSpec{ID: "b"})
	d.AddConnection(ConnectionSpec{ID: "c", From: "a", To: "b", Style: StyleDashed})

	raw, _ := Marshal(d)
	s := string(raw)
	for _, want := range []string{
		`"type": "mindmap"`, `"type": "analyze"`, `"fromNodeId": "a"`,
		`"toNodeId": "b"`, `"style": "dashed"`, `"createdAt"`, `"updatedAt"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s:\n%s", want, s)
		}
	}
}

func TestMarshalEmptyDocument(t *testing.T) {
	raw, err := Marshal(newDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"nodes": []`) || !strings.Contains(string(raw), `"connections": []`) {
		t.Errorf("empty collections should encode as []: %s", raw)
	}
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{"name": `},
		{"missing name", `{"id":"x","type":"freeform","nodes":[],"connections":[]}`},
		{"unknown node type", `{"name":"x","type":"freeform","nodes":[{"id":"a","type":"blob","width":1,"height":1}]}`},
		{"unknown canvas type", `{"name":"x","type":"board"}`},
		{"duplicate node", `{"name":"x","nodes":[{"id":"a","type":"idea","width":1,"height":1},{"id":"a","type":"idea","width":1,"height":1}]}`},
		{"zero size", `{"name":"x","nodes":[{"id":"a","type":"idea","width":0,"height":1}]}`},
		{"wrong shape", `[1,2,3]`},
		{"trailing garbage", `{"name":"z","type":"freeform","nodes":[],"connections":[]} }{ not json`},
		{"second document", `{"name":"a"} {"name":"b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.in))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Unmarshal error = %v, want %v", err, ErrMalformed)
			}
		})
	}
}

func TestUnmarshalKeepsDanglingConnections(t *testing.T) {
	in := `{"name":"x","type":"freeform",
		"nodes":[{"id":"a","type":"idea","x":0,"y":0,"width":10,"height":10}],
		"connections":[{"id":"c","fromNodeId":"a","toNodeId":"gone","style":"solid"}]}`
	d, err := Unmarshal([]byte(in))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.ConnectionCount() != 1 {
		t.Errorf("dangling connection dropped")
	}
	if err := d.Validate(); !errors.Is(err, ErrDanglingConnection) {
		t.Errorf("Validate() = %v, want %v", err, ErrDanglingConnection)
	}
}
