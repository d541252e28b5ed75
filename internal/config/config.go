package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config holds configurable parameters.
type Config struct {
	AccessKey       string   `json:"ACCESS_KEY"`
	DeviceIndex     int      `json:"DEVICE_INDEX"`
	Recorder        string   `json:"RECORDER"`
	InputWav        string   `json:"INPUT_WAV"`
	BufferedFrames  int      `json:"BUFFERED_FRAMES"`
	WakeWordDir     string   `json:"WAKE_WORD_DIR"`
	KeywordPath     string   `json:"KEYWORD_PATH"`
	ModelPath       string   `json:"MODEL_PATH"`
	Sensitivity     float64  `json:"SENSITIVITY"`
	Injector        string   `json:"INJECTOR"`
	Chord           string   `json:"CHORD"`
	Notification    bool     `json:"NOTIFICATION"`
	SnapshotDir     string   `json:"SNAPSHOT_DIR"`
	SnapshotSeconds float64  `json:"SNAPSHOT_SECONDS"`
	SnapshotKeep    int      `json:"SNAPSHOT_KEEP"`
	LISTEN_DEBUG    bool     `json:"LISTEN_DEBUG"`
	RECORD_DEBUG    bool     `json:"RECORD_DEBUG"`
	INJECT_DEBUG    bool     `json:"INJECT_DEBUG"`
}

// Recorder backends.
const (
	RecorderPv        = "pvrecorder"
	RecorderPortAudio = "portaudio"
	RecorderWav       = "wav"
)

// Injector backends.
const (
	InjectorKeybd   = "keybd"
	InjectorRobotgo = "robotgo"
	InjectorNone    = "none"
)

// PromptDevice asks for the input device on stdin.
const PromptDevice = -1

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AccessKey:       "",
		DeviceIndex:     PromptDevice,
		Recorder:        RecorderPv,
		InputWav:        "",
		BufferedFrames:  50,
		WakeWordDir:     "",
		KeywordPath:     "",
		ModelPath:       "",
		Sensitivity:     0.5,
		Injector:        InjectorKeybd,
		Chord:           "alt+f10",
		Notification:    false,
		SnapshotDir:     "",
		SnapshotSeconds: 2,
		SnapshotKeep:    20,
		LISTEN_DEBUG:    false,
		RECORD_DEBUG:    false,
		INJECT_DEBUG:    false,
	}
}

// Load loads config from JSON file if provided.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// SaveDefault writes a default config JSON to the provided path.
func SaveDefault(path string) error {
	cfg := DefaultConfig()
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate verifies config fields and returns an error if any value is invalid.
func Validate(cfg *Config) error {
	cfg.Recorder = strings.ToLower(strings.TrimSpace(cfg.Recorder))
	switch cfg.Recorder {
	case RecorderPv, RecorderPortAudio:
	case RecorderWav:
		if strings.TrimSpace(cfg.InputWav) == "" {
			return fmt.Errorf("invalid INPUT_WAV: required when RECORDER is %q", RecorderWav)
		}
	default:
		return fmt.Errorf("invalid RECORDER: %s (allowed: pvrecorder, portaudio, wav)", cfg.Recorder)
	}
	if cfg.DeviceIndex < PromptDevice {
		return fmt.Errorf("invalid DEVICE_INDEX: %d (must be >= -1)", cfg.DeviceIndex)
	}
	if cfg.BufferedFrames <= 0 {
		return fmt.Errorf("invalid BUFFERED_FRAMES: %d (must be > 0)", cfg.BufferedFrames)
	}
	if cfg.Sensitivity < 0 || cfg.Sensitivity > 1 {
		return fmt.Errorf("invalid SENSITIVITY: %v (allowed 0..1)", cfg.Sensitivity)
	}
	cfg.KeywordPath = strings.TrimSpace(cfg.KeywordPath)
	if strings.Contains(cfg.KeywordPath, ",") {
		return fmt.Errorf("invalid KEYWORD_PATH: %s (a single .ppn file)", cfg.KeywordPath)
	}

	cfg.Injector = strings.ToLower(strings.TrimSpace(cfg.Injector))
	switch cfg.Injector {
	case InjectorKeybd, InjectorRobotgo, InjectorNone:
	default:
		return fmt.Errorf("invalid INJECTOR: %s (allowed: keybd, robotgo, none)", cfg.Injector)
	}
	if strings.TrimSpace(cfg.Chord) == "" {
		return fmt.Errorf("invalid CHORD: empty")
	}

	if cfg.SnapshotSeconds <= 0 {
		return fmt.Errorf("invalid SNAPSHOT_SECONDS: %v (must be > 0)", cfg.SnapshotSeconds)
	}
	if cfg.SnapshotKeep < 0 {
		return fmt.Errorf("invalid SNAPSHOT_KEEP: %d (must be >= 0)", cfg.SnapshotKeep)
	}
	return nil
}
