package wakeword

import (
	"fmt"

	porcupine "github.com/Picovoice/porcupine/binding/go/v3"
)

// PorcupineConfig configures the Porcupine engine.
type PorcupineConfig struct {
	AccessKey    string
	ModelPath    string
	KeywordPaths []string
	Sensitivity  float32
}

// Porcupine is a Detector backed by Picovoice Porcupine.
type Porcupine struct {
	engine porcupine.Porcupine
}

// NewPorcupine initializes the engine. The engine rejects bad credentials or
// unreadable model/keyword files here, before any audio is opened.
func NewPorcupine(cfg PorcupineConfig) (*Porcupine, error) {
	if len(cfg.KeywordPaths) == 0 {
		return nil, fmt.Errorf("porcupine: no keyword paths")
	}
	sensitivities := make([]float32, len(cfg.KeywordPaths))
	for i := range sensitivities {
		sensitivities[i] = cfg.Sensitivity
	}
	p := &Porcupine{
		engine: porcupine.Porcupine{
			AccessKey:     cfg.AccessKey,
			ModelPath:     cfg.ModelPath,
			KeywordPaths:  cfg.KeywordPaths,
			Sensitivities: sensitivities,
		},
	}
	if err := p.engine.Init(); err != nil {
		return nil, fmt.Errorf("unable to create Porcupine: %w", err)
	}
	return p, nil
}

func (p *Porcupine) FrameLength() int { return porcupine.FrameLength }

func (p *Porcupine) SampleRate() int { return porcupine.SampleRate }

func (p *Porcupine) Process(pcm []int16) (int, error) {
	if len(pcm) != porcupine.FrameLength {
		return NoMatch, fmt.Errorf("porcupine: frame has %d samples, want %d", len(pcm), porcupine.FrameLength)
	}
	return p.engine.Process(pcm)
}

// Close releases the native engine.
func (p *Porcupine) Close() error {
	return p.engine.Delete()
}
