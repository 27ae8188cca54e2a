package interact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/geometry"
)

// ErrBadEvent reports an event that cannot be replayed.
var ErrBadEvent = errors.New("invalid event")

// EventType names a recorded input event.
type EventType string

const (
	EventDown        EventType = "down"
	EventMove        EventType = "move"
	EventUp          EventType = "up"
	EventDoubleClick EventType = "dblclick"
	EventWheel       EventType = "wheel"
	EventKey         EventType = "key"
	EventText        EventType = "text"
	EventConnect     EventType = "connect"
)

// Event is one recorded input event. Coordinates are screen pixels.
type Event struct {
	Type   EventType `json:"type"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	Shift  bool      `json:"shift,omitempty"`
	DeltaY float64   `json:"deltaY,omitempty"`
	Key    string    `json:"key,omitempty"`
	Text   string    `json:"text,omitempty"`
	On     bool      `json:"on,omitempty"`
}

var keyNames = map[string]Key{
	"enter":     KeyEnter,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"delete":    KeyDelete,
	"backspace": KeyBackspace,
}

// ParseKey resolves a key name such as "Enter" or "Backspace".
func ParseKey(name string) (Key, error) {
	k, ok := keyNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown key %q", ErrBadEvent, name)
	}
	return k, nil
}

// DecodeEvents reads a JSON array of events.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadEvent, err)
	}
	return events, nil
}

// Apply feeds a single event to the controller.
func (c *Controller) Apply(e Event) error {
	p := geometry.Point{X: e.X, Y: e.Y}
	switch e.Type {
	case EventDown:
		c.PointerDown(p, Modifiers{Shift: e.Shift})
	case EventMove:
		c.PointerMove(p)
	case EventUp:
		c.PointerUp(p)
	case EventDoubleClick:
		c.DoubleClick(p)
	case EventWheel:
		c.Wheel(e.DeltaY)
	case EventKey:
		k, err := ParseKey(e.Key)
		if err != nil {
			return err
		}
		c.KeyDown(k)
	case EventText:
		c.TypeText(e.Text)
	case EventConnect:
		c.SetConnectMode(e.On)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadEvent, e.Type)
	}
	return nil
}

// Replay applies events in order and stops at the first invalid one.
func (c *Controller) Replay(events []Event) error {
	for i, e := range events {
		if err := c.Apply(e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}
