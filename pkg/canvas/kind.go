package canvas

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEnum is wrapped by every Parse* function in this package when the
// input does not name a known value.
var ErrUnknownEnum = errors.New("unknown value")

// Kind classifies a node. It selects the node's default colours.
type Kind int

const (
	KindIdea Kind = iota
	KindTask
	KindResearch
	KindNote
	KindDecision
	KindSource
	KindProcess
	KindAnalyze
	KindOutput
)

// Kinds lists every node kind in declaration order.
var Kinds = []Kind{
	KindIdea, KindTask, KindResearch, KindNote, KindDecision,
	KindSource, KindProcess, KindAnalyze, KindOutput,
}

var kindNames = [...]string{
	KindIdea:     "idea",
	KindTask:     "task",
	KindResearch: "research",
	KindNote:     "note",
	KindDecision: "decision",
	KindSource:   "source",
	KindProcess:  "process",
	KindAnalyze:  "analyze",
	KindOutput:   "output",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= 0 && int(k) < len(kindNames) }

// ParseKind resolves a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("node type %q: %w", s, ErrUnknownEnum)
}

// Palette is a background/border colour pair.
type Palette struct {
	Background string
	Border     string
}

// Palette returns the fixed colours for k. Unknown kinds fall back to the
// note palette.
func (k Kind) Palette() Palette {
	switch k {
	case KindIdea:
		return Palette{Background: "#fef3c7", Border: "#f59e0b"}
	case KindTask:
		return Palette{Background: "#dbeafe", Border: "#3b82f6"}
	case KindResearch:
		return Palette{Background: "#ede9fe", Border: "#8b5cf6"}
	case KindDecision:
		return Palette{Background: "#fee2e2", Border: "#ef4444"}
	case KindSource:
		return Palette{Background: "#d1fae5", Border: "#10b981"}
	case KindProcess:
		return Palette{Background: "#e0e7ff", Border: "#6366f1"}
	case KindAnalyze:
		return Palette{Background: "#fce7f3", Border: "#ec4899"}
	case KindOutput:
		return Palette{Background: "#ccfbf1", Border: "#14b8a6"}
	case KindNote:
		return Palette{Background: "#f3f4f6", Border: "#6b7280"}
	default:
		return KindNote.Palette()
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("node type %d: %w", int(k), ErrUnknownEnum)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ConnectionStyle controls how a connection is stroked.
type ConnectionStyle int

const (
	StyleSolid ConnectionStyle = iota
	StyleDashed
	StyleArrow
)

var styleNames = [...]string{
	StyleSolid:  "solid",
	StyleDashed: "dashed",
	StyleArrow:  "arrow",
}

func (s ConnectionStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("ConnectionStyle(%d)", int(s))
	}
	return styleNames[s]
}

// ParseConnectionStyle resolves a style name. The empty string means solid.
func ParseConnectionStyle(s string) (ConnectionStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return StyleSolid, nil
	}
	for i, n := range styleNames {
		if n == name {
			return ConnectionStyle(i), nil
		}
	}
	return 0, fmt.Errorf("connection style %q: %w", s, ErrUnknownEnum)
}

func (s ConnectionStyle) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(styleNames) {
		return nil, fmt.Errorf("connection style %d: %w", int(s), ErrUnknownEnum)
	}
	return []byte(s.String()), nil
}

func (s *ConnectionStyle) UnmarshalText(b []byte) error {
	v, err := ParseConnectionStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DocumentKind records what produced a document. It does not constrain
// which operations apply.
type DocumentKind int

const (
	DocumentFreeform DocumentKind = iota
	DocumentMindmap
	DocumentWorkflow
)

var documentKindNames = [...]string{
	DocumentFreeform: "freeform",
	DocumentMindmap:  "mindmap",
	DocumentWorkflow: "workflow",
}

func (k DocumentKind) String() string {
	if k < 0 || int(k) >= len(documentKindNames) {
		return fmt.Sprintf("DocumentKind(%d)", int(k))
	}
	return documentKindNames[k]
}

// ParseDocumentKind resolves a document type name.
func ParseDocumentKind(s string) (DocumentKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range documentKindNames {
		if n == name {
			return DocumentKind(i), nil
		}
	}
	return 0, fmt.Errorf("canvas type %q: %w", s, ErrUnknownEnum)
}

func (k DocumentKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(documentKindNames) {
		return nil, fmt.Errorf("canvas type %d: %w", int(k), ErrUnknownEnum)
	}
	return []byte(k.String()), nil
}

func (k *DocumentKind) UnmarshalText(b []byte) error {
	v, err := ParseDocumentKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
