package canvas

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, _ := ParseKind(" Decision "); got != KindDecision {
		t.Errorf("ParseKind is not case-insensitive: %v", got)
	}
	if _, err := ParseKind("banana"); !errors.Is(err, ErrUnknownEnum) {
		t.Errorf("ParseKind(banana) error = %v", err)
	}
}

func TestKindPalettesDistinct(t *testing.T) {
	seen := map[Palette]Kind{}
	for _, k := range Kinds {
		p := k.Palette()
		if p.Background == "" || p.Border == "" {
			t.Errorf("%s has empty palette", k)
		}
		if other, dup := seen[p]; dup {
			t.Errorf("%s shares palette with %s", k, other)
		}
		seen[p] = k
	}
}

func TestKindPaletteFallback(t *testing.T) {
	want := Palette{Background: "#f3f4f6", Border: "#6b7280"}
	if got := KindNote.Palette(); got != want {
		t.Errorf("KindNote.Palette() = %+v, want %+v", got, want)
	}
	if got := Kind(99).Palette(); got != want {
		t.Errorf("Kind(99).Palette() = %+v, want note palette %+v", got, want)
	}
}

func TestParseConnectionStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    ConnectionStyle
		wantErr bool
	}{
		{"", StyleSolid, false},
		{"solid", StyleSolid, false},
		{"dashed", StyleDashed, false},
		{"ARROW", StyleArrow, false},
		{"dotted", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConnectionStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDocumentKind(t *testing.T) {
	for _, name := range []string{"mindmap", "workflow", "freeform"} {
		k, err := ParseDocumentKind(name)
		if err != nil || k.String() != name {
			t.Errorf("ParseDocumentKind(%q) = %v, %v", name, k, err)
		}
	}
	if _, err := ParseDocumentKind("board"); err == nil {
		t.Error("expected error for unknown document type")
	}
}
