package interact

import (
	"errors"
	"strings"
	"testing"
)

// In setup's 800x600 view, a is centred at screen (250,300) and b at
// (550,300).
const script = `[
  {"type": "connect", "on": true},
  {"type": "down", "x": 550, "y": 300},
  {"type": "up", "x": 550, "y": 300},
  {"type": "down", "x": 250, "y": 300},
  {"type": "up", "x": 250, "y": 300},
  {"type": "connect", "on": false},
  {"type": "dblclick", "x": 250, "y": 300},
  {"type": "text", "text": "lpha"},
  {"type": "key", "key": "Enter"},
  {"type": "wheel", "deltaY": -100}
]`

func TestReplay(t *testing.T) {
	c := setup(t)
	events, err := DecodeEvents(strings.NewReader(script))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Replay(events); err != nil {
		t.Fatal(err)
	}

	doc := c.Document()
	if got := doc.Outgoing("b"); len(got) != 1 || got[0].To != "a" {
		t.Errorf("got outgoing %+v, want b->a", got)
	}
	if n, _ := doc.Node("a"); n.Label != "Alpha" {
		t.Errorf("got label %q, want Alpha", n.Label)
	}
	if got := c.Viewport().Zoom; got != 1.1 {
		t.Errorf("got zoom %v, want 1.1", got)
	}
	if !c.Dirty() {
		t.Error("replay should leave the document dirty")
	}
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{"unknown type", []Event{{Type: "hover"}}, `event 0: invalid event: unknown type "hover"`},
		{"unknown key", []Event{{Type: EventWheel, DeltaY: 1}, {Type: EventKey, Key: "F13"}}, `event 1: invalid event: unknown key "F13"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setup(t).Replay(tt.events)
			if !errors.Is(err, ErrBadEvent) {
				t.Fatalf("got %v, want ErrBadEvent", err)
			}
			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err, tt.want)
			}
		})
	}
}

func TestDecodeEventsMalformed(t *testing.T) {
	if _, err := DecodeEvents(strings.NewReader(`{"type":`)); !errors.Is(err, ErrBadEvent) {
		t.Errorf("got %v, want ErrBadEvent", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]Key{
		"Enter":     KeyEnter,
		"ESC":       KeyEscape,
		"escape":    KeyEscape,
		"Delete":    KeyDelete,
		"Backspace": KeyBackspace,
	}
	for name, want := range tests {
		got, err := ParseKey(name)
		if err != nil || got != want {
			t.Errorf("ParseKey(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}
