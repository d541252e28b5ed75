package inject

import (
	"github.com/go-vgo/robotgo"
)

// Robotgo presses chords through go-vgo/robotgo.
type Robotgo struct {
	logf  func(string, ...any)
	debug bool
}

func NewRobotgo(logf func(string, ...any), debug bool) *Robotgo {
	return &Robotgo{logf: logf, debug: debug}
}

func (r *Robotgo) Press(c Chord) error {
	mods := make([]interface{}, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		mods = append(mods, robotgoModifier(m))
	}
	if r.debug {
		r.logf("[inject] robotgo %s", c)
	}
	return robotgo.KeyTap(c.Key, mods...)
}

func robotgoModifier(m Modifier) string {
	switch m {
	case Super:
		return "cmd"
	case Ctrl:
		return "ctrl"
	case Shift:
		return "shift"
	default:
		return "alt"
	}
}
