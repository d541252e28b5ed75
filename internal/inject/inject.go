// Package inject synthesizes the keyboard chord sent on every detection.
package inject

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilcors-dev/clipclip/internal/config"
)

// Modifier is a key held down while the chord key is clicked.
type Modifier string

const (
	Alt   Modifier = "alt"
	Ctrl  Modifier = "ctrl"
	Shift Modifier = "shift"
	Super Modifier = "super"
)

// Chord is a set of modifiers plus one key, e.g. alt+f10.
type Chord struct {
	Modifiers []Modifier
	Key       string
}

func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Has reports whether m is part of the chord.
func (c Chord) Has(m Modifier) bool {
	for _, x := range c.Modifiers {
		if x == m {
			return true
		}
	}
	return false
}

// Injector presses a chord: hold the modifiers, click the key, release the modifiers.
type Injector interface {
	Press(c Chord) error
}

// ParseChord accepts strings like "alt+f10", "ctrl+shift+k" or "f9".
func ParseChord(s string) (Chord, error) {
	if strings.TrimSpace(s) == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}
	var c Chord
	for _, p := range parts[:len(parts)-1] {
		var m Modifier
		switch p {
		case "alt", "menu", "option":
			m = Alt
		case "ctrl", "control":
			m = Ctrl
		case "shift":
			m = Shift
		case "win", "meta", "super", "cmd":
			m = Super
		default:
			return Chord{}, fmt.Errorf("unsupported modifier %q in chord %s", p, s)
		}
		if !c.Has(m) {
			c.Modifiers = append(c.Modifiers, m)
		}
	}
	key, err := normalizeKey(parts[len(parts)-1])
	if err != nil {
		return Chord{}, fmt.Errorf("%w in chord %s", err, s)
	}
	c.Key = key
	return c, nil
}

func normalizeKey(k string) (string, error) {
	if len(k) == 1 {
		ch := k[0]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			return k, nil
		}
	}
	switch k {
	case "esc", "escape":
		return "esc", nil
	case "space":
		return "space", nil
	case "enter", "return":
		return "enter", nil
	case "tab":
		return "tab", nil
	}
	if strings.HasPrefix(k, "f") {
		if n, err := strconv.Atoi(strings.TrimPrefix(k, "f")); err == nil && n >= 1 && n <= 12 {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported key %q", k)
}

// New returns the injector named by backend after checking it can press c.
func New(backend string, c Chord, logf func(string, ...any), debug bool) (Injector, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	switch backend {
	case config.InjectorKeybd, "":
		if _, ok := keybdCode(c.Key); !ok {
			return nil, fmt.Errorf("key %q not supported by keybd injector", c.Key)
		}
		return NewKeybd(logf, debug)
	case config.InjectorRobotgo:
		return NewRobotgo(logf, debug), nil
	case config.InjectorNone:
		return Nop{Logf: logf}, nil
	default:
		return nil, fmt.Errorf("unknown injector: %s", backend)
	}
}

// Nop logs the chord instead of pressing it.
type Nop struct {
	Logf func(string, ...any)
}

func (n Nop) Press(c Chord) error {
	if n.Logf != nil {
		n.Logf("[inject] %s (dry run)", c)
	}
	return nil
}
