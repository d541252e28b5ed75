// Package platform maps the running OS to the keyword files shipped in wake_words.
package platform

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Dir is the folder, relative to the working directory, holding the model files.
const Dir = "wake_words"

const (
	keywordMac     = "fai-la-clip_it_mac_v2_1_0.ppn"
	keywordWindows = "fai-la-clip_it_windows_v2_1_0.ppn"
	model          = "porcupine_params_it.pv"
)

// ErrUnsupported is returned for operating systems without a compiled keyword file.
var ErrUnsupported = errors.New("unsupported platform")

// KeywordPath returns the keyword file for goos under cwd.
// Both runtime.GOOS ("darwin") and the plain "macos" name are accepted.
func KeywordPath(cwd, goos string) (string, error) {
	switch goos {
	case "darwin", "macos":
		return filepath.Join(cwd, Dir, keywordMac), nil
	case "windows":
		return filepath.Join(cwd, Dir, keywordWindows), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, goos)
	}
}

// ModelPath returns the model parameter file under cwd.
func ModelPath(cwd string) string {
	return filepath.Join(cwd, Dir, model)
}
