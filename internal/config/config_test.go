package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.DeviceIndex != PromptDevice {
		t.Fatalf("expected prompt device, got %d", cfg.DeviceIndex)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"DEVICE_INDEX": 2, "RECORDER": "PortAudio", "CHORD": "ctrl+f9", "KEYWORD_PATH": " a.ppn "}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.DeviceIndex != 2 || cfg.Recorder != RecorderPortAudio || cfg.Chord != "ctrl+f9" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.KeywordPath != "a.ppn" {
		t.Fatalf("expected trimmed keyword path, got %q", cfg.KeywordPath)
	}
	if cfg.Sensitivity != 0.5 {
		t.Fatalf("expected default sensitivity, got %v", cfg.Sensitivity)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"DEVICE":1}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestSaveDefaultLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"recorder", func(c *Config) { c.Recorder = "alsa" }},
		{"wav without input", func(c *Config) { c.Recorder = RecorderWav }},
		{"device", func(c *Config) { c.DeviceIndex = -2 }},
		{"buffered frames", func(c *Config) { c.BufferedFrames = 0 }},
		{"sensitivity", func(c *Config) { c.Sensitivity = 1.5 }},
		{"keyword list", func(c *Config) { c.KeywordPath = "a.ppn,b.ppn" }},
		{"injector", func(c *Config) { c.Injector = "xdotool" }},
		{"chord", func(c *Config) { c.Chord = "" }},
		{"snapshot seconds", func(c *Config) { c.SnapshotSeconds = 0 }},
		{"snapshot keep", func(c *Config) { c.SnapshotKeep = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := Validate(&cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	args := []string{"-device", "1", "-keyword", "a.ppn", "-notification", "-sensitivity", "0.7"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !fv.AnySet() {
		t.Fatalf("expected AnySet")
	}
	cfg := DefaultConfig()
	ApplyFlags(&cfg, fv)
	if cfg.DeviceIndex != 1 {
		t.Fatalf("expected device 1, got %d", cfg.DeviceIndex)
	}
	if cfg.KeywordPath != "a.ppn" {
		t.Fatalf("unexpected keyword path: %q", cfg.KeywordPath)
	}
	if !cfg.Notification {
		t.Fatalf("expected notification enabled")
	}
	if cfg.Sensitivity != 0.7 {
		t.Fatalf("expected sensitivity 0.7, got %v", cfg.Sensitivity)
	}
	if cfg.Chord != "alt+f10" {
		t.Fatalf("unset flag changed chord: %s", cfg.Chord)
	}
}

func TestAnySetFalseWithoutFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fv.AnySet() {
		t.Fatalf("expected no flags set")
	}
}

func TestResolveAccessKey(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte(AccessKeyEnv+"=from-file\n"), 0600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	t.Setenv(AccessKeyEnv, "")

	cfg := DefaultConfig()
	if err := ResolveAccessKey(&cfg, envPath); err != nil {
		t.Fatalf("resolve from file: %v", err)
	}
	if cfg.AccessKey != "from-file" {
		t.Fatalf("expected key from file, got %q", cfg.AccessKey)
	}

	t.Setenv(AccessKeyEnv, "from-env")
	cfg = DefaultConfig()
	if err := ResolveAccessKey(&cfg, envPath); err != nil {
		t.Fatalf("resolve from env: %v", err)
	}
	if cfg.AccessKey != "from-env" {
		t.Fatalf("expected key from env, got %q", cfg.AccessKey)
	}

	cfg = DefaultConfig()
	cfg.AccessKey = " from-config "
	if err := ResolveAccessKey(&cfg, envPath); err != nil {
		t.Fatalf("resolve from config: %v", err)
	}
	if cfg.AccessKey != "from-config" {
		t.Fatalf("expected key from config, got %q", cfg.AccessKey)
	}
}

func TestResolveAccessKeyMissing(t *testing.T) {
	t.Setenv(AccessKeyEnv, "")
	cfg := DefaultConfig()
	err := ResolveAccessKey(&cfg, filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, ErrMissingAccessKey) {
		t.Fatalf("expected ErrMissingAccessKey, got %v", err)
	}
}
