package inject

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var keybdKeys = map[string]int{
	"a": keybd_event.VK_A, "b": keybd_event.VK_B, "c": keybd_event.VK_C, "d": keybd_event.VK_D,
	"e": keybd_event.VK_E, "f": keybd_event.VK_F, "g": keybd_event.VK_G, "h": keybd_event.VK_H,
	"i": keybd_event.VK_I, "j": keybd_event.VK_J, "k": keybd_event.VK_K, "l": keybd_event.VK_L,
	"m": keybd_event.VK_M, "n": keybd_event.VK_N, "o": keybd_event.VK_O, "p": keybd_event.VK_P,
	"q": keybd_event.VK_Q, "r": keybd_event.VK_R, "s": keybd_event.VK_S, "t": keybd_event.VK_T,
	"u": keybd_event.VK_U, "v": keybd_event.VK_V, "w": keybd_event.VK_W, "x": keybd_event.VK_X,
	"y": keybd_event.VK_Y, "z": keybd_event.VK_Z,

	"0": keybd_event.VK_0, "1": keybd_event.VK_1, "2": keybd_event.VK_2, "3": keybd_event.VK_3,
	"4": keybd_event.VK_4, "5": keybd_event.VK_5, "6": keybd_event.VK_6, "7": keybd_event.VK_7,
	"8": keybd_event.VK_8, "9": keybd_event.VK_9,

	"f1": keybd_event.VK_F1, "f2": keybd_event.VK_F2, "f3": keybd_event.VK_F3, "f4": keybd_event.VK_F4,
	"f5": keybd_event.VK_F5, "f6": keybd_event.VK_F6, "f7": keybd_event.VK_F7, "f8": keybd_event.VK_F8,
	"f9": keybd_event.VK_F9, "f10": keybd_event.VK_F10, "f11": keybd_event.VK_F11, "f12": keybd_event.VK_F12,

	"space": keybd_event.VK_SPACE,
	"tab":   keybd_event.VK_TAB,
}

func keybdCode(key string) (int, bool) {
	vk, ok := keybdKeys[key]
	return vk, ok
}

// Keybd presses chords through micmonay/keybd_event.
type Keybd struct {
	mu    sync.Mutex
	kb    keybd_event.KeyBonding
	logf  func(string, ...any)
	debug bool
}

// NewKeybd creates the virtual keyboard.
func NewKeybd(logf func(string, ...any), debug bool) (*Keybd, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("keybd init failed: %w", err)
	}
	// uinput needs a moment before the new device receives events
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}
	return &Keybd{kb: kb, logf: logf, debug: debug}, nil
}

func (k *Keybd) Press(c Chord) error {
	vk, ok := keybdCode(c.Key)
	if !ok {
		return fmt.Errorf("key %q not supported by keybd injector", c.Key)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kb.HasALT(c.Has(Alt))
	k.kb.HasCTRL(c.Has(Ctrl))
	k.kb.HasSHIFT(c.Has(Shift))
	k.kb.HasSuper(c.Has(Super))
	k.kb.SetKeys(vk)
	if k.debug {
		k.logf("[inject] keybd %s", c)
	}
	return k.kb.Launching()
}
