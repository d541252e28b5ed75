// Package wakeword wraps the keyword-spotting engine.
package wakeword

import (
	"path/filepath"
	"strings"
)

// NoMatch is returned by Process when no keyword was detected in the frame.
const NoMatch = -1

// Detector consumes fixed-size PCM frames and reports keyword matches.
type Detector interface {
	// FrameLength is the number of samples Process expects per call.
	FrameLength() int
	// SampleRate is the sample rate, in Hz, the engine expects.
	SampleRate() int
	// Process returns the index of the matched keyword or NoMatch.
	Process(pcm []int16) (int, error)
	Close() error
}

// KeywordLabel returns a short display name for a keyword file path.
func KeywordLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
