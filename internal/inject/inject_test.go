package inject

import (
	"fmt"
	"testing"

	"github.com/ilcors-dev/clipclip/internal/config"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alt+f10", "alt+f10"},
		{"ALT + F10", "alt+f10"},
		{"ctrl+shift+k", "ctrl+shift+k"},
		{"control+alt+alt+1", "ctrl+alt+1"},
		{"cmd+space", "super+space"},
		{"f9", "f9"},
		{"escape", "esc"},
		{"option+return", "alt+enter"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseChord(tt.in)
			if err != nil {
				t.Fatalf("ParseChord failed: %v", err)
			}
			if c.String() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, c)
			}
		})
	}
}

func TestParseChordRejects(t *testing.T) {
	for _, in := range []string{"", "alt+", "hyper+f1", "f13", "f0", "alt+pageup"} {
		if _, err := ParseChord(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestChordHas(t *testing.T) {
	c, err := ParseChord("alt+f10")
	if err != nil {
		t.Fatalf("ParseChord failed: %v", err)
	}
	if !c.Has(Alt) || c.Has(Ctrl) || c.Key != "f10" {
		t.Fatalf("unexpected chord %+v", c)
	}
}

func TestKeybdCodeCoversDefaultChord(t *testing.T) {
	if _, ok := keybdCode("f10"); !ok {
		t.Fatalf("f10 must be supported")
	}
	for i := 1; i <= 12; i++ {
		if _, ok := keybdCode(fmt.Sprintf("f%d", i)); !ok {
			t.Fatalf("f%d missing", i)
		}
	}
	if _, ok := keybdCode("enter"); ok {
		t.Fatalf("enter is not mapped for keybd")
	}
}

func TestNewRejectsUnsupported(t *testing.T) {
	c, _ := ParseChord("alt+enter")
	if _, err := New(config.InjectorKeybd, c, nil, false); err == nil {
		t.Fatalf("expected keybd to reject enter")
	}
	if _, err := New("xdotool", c, nil, false); err == nil {
		t.Fatalf("expected unknown injector error")
	}
}

func TestNopInjector(t *testing.T) {
	var lines []string
	inj, err := New(config.InjectorNone, Chord{Modifiers: []Modifier{Alt}, Key: "f10"}, func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := inj.Press(Chord{Modifiers: []Modifier{Alt}, Key: "f10"}); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "[inject] alt+f10 (dry run)" {
		t.Fatalf("unexpected log: %v", lines)
	}
}
