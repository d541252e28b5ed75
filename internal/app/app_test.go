package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilcors-dev/clipclip/internal/config"
	"github.com/ilcors-dev/clipclip/internal/device"
	"github.com/ilcors-dev/clipclip/internal/listen"
	"github.com/ilcors-dev/clipclip/internal/platform"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"setup", wrap(KindSetup, errors.New("x")), 1},
		{"input", wrap(KindInput, device.ErrNotInteger), 2},
		{"runtime", wrap(KindRuntime, &listen.Error{Op: "read", Err: errors.New("x")}), 3},
		{"platform", wrap(KindPlatform, platform.ErrUnsupported), 4},
		{"wrapped", fmt.Errorf("outer: %w", wrap(KindInput, errors.New("x"))), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestWrapKeepsFirstKind(t *testing.T) {
	err := wrap(KindRuntime, wrap(KindInput, errors.New("x")))
	if ExitCode(err) != 2 {
		t.Fatalf("expected inner kind to win, got %d", ExitCode(err))
	}
	if wrap(KindSetup, nil) != nil {
		t.Fatalf("wrap(nil) must be nil")
	}
}

func TestResolvePathsPlatform(t *testing.T) {
	cfg := config.DefaultConfig()
	kw, model, err := ResolvePaths(cfg, "/srv/clip", "windows")
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(kw) != 1 || kw[0] != filepath.Join("/srv/clip", "wake_words", "fai-la-clip_it_windows_v2_1_0.ppn") {
		t.Fatalf("unexpected keywords %v", kw)
	}
	if model != filepath.Join("/srv/clip", "wake_words", "porcupine_params_it.pv") {
		t.Fatalf("unexpected model %s", model)
	}

	_, _, err = ResolvePaths(cfg, "/srv/clip", "linux")
	if !errors.Is(err, platform.ErrUnsupported) || ExitCode(err) != 4 {
		t.Fatalf("expected unsupported platform error, got %v", err)
	}
}

func TestResolvePathsOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WakeWordDir = "/opt/ww"
	kw, model, err := ResolvePaths(cfg, "/srv/clip", "darwin")
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if kw[0] != filepath.Join("/opt/ww", "wake_words", "fai-la-clip_it_mac_v2_1_0.ppn") {
		t.Fatalf("unexpected keywords %v", kw)
	}
	if !strings.HasPrefix(model, "/opt/ww") {
		t.Fatalf("unexpected model %s", model)
	}

	cfg.KeywordPath = "a.ppn"
	cfg.ModelPath = "m.pv"
	kw, model, err = ResolvePaths(cfg, "/srv/clip", "linux")
	if err != nil {
		t.Fatalf("explicit paths must skip platform lookup: %v", err)
	}
	if len(kw) != 1 || kw[0] != "a.ppn" || model != "m.pv" {
		t.Fatalf("unexpected paths %v %s", kw, model)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "k.ppn")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := checkFiles([]string{file}); err != nil {
		t.Fatalf("checkFiles failed: %v", err)
	}
	if err := checkFiles([]string{dir}); err == nil {
		t.Fatalf("expected directory error")
	}
	if err := checkFiles([]string{filepath.Join(dir, "missing.pv")}); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func twoDevices() ([]string, error) { return []string{"Built-in", "USB"}, nil }

func TestChooseDevicePrompt(t *testing.T) {
	cfg := config.DefaultConfig()
	var out bytes.Buffer
	index, devices, err := chooseDevice(cfg, twoDevices, strings.NewReader("1\n"), &out)
	if err != nil {
		t.Fatalf("chooseDevice failed: %v", err)
	}
	if index != 1 || len(devices) != 2 {
		t.Fatalf("unexpected selection %d %v", index, devices)
	}
	if !strings.Contains(out.String(), `index: 0, device name: "Built-in"`) {
		t.Fatalf("missing device list: %q", out.String())
	}
}

func TestChooseDevicePromptInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, in := range []string{"abc\n", "5\n"} {
		_, _, err := chooseDevice(cfg, twoDevices, strings.NewReader(in), &bytes.Buffer{})
		if ExitCode(err) != 2 {
			t.Fatalf("expected input error for %q, got %v", in, err)
		}
	}
}

func TestChooseDeviceConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DeviceIndex = 0
	var out bytes.Buffer
	index, devices, err := chooseDevice(cfg, twoDevices, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("chooseDevice failed: %v", err)
	}
	if index != 0 || len(devices) != 2 || out.Len() != 0 {
		t.Fatalf("configured device must not prompt: %d %q", index, out.String())
	}
}

func TestChooseDeviceEnumerateError(t *testing.T) {
	cfg := config.DefaultConfig()
	failing := func() ([]string, error) { return nil, errors.New("no audio") }
	_, _, err := chooseDevice(cfg, failing, strings.NewReader("0\n"), &bytes.Buffer{})
	if !errors.Is(err, device.ErrEnumerate) || ExitCode(err) != 1 {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestChooseDeviceNoLister(t *testing.T) {
	cfg := config.DefaultConfig()
	index, devices, err := chooseDevice(cfg, nil, strings.NewReader(""), &bytes.Buffer{})
	if err != nil || devices != nil || index != config.PromptDevice {
		t.Fatalf("unexpected result %d %v %v", index, devices, err)
	}
}

func TestRunListDevicesWav(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Recorder = config.RecorderWav
	if err := RunListDevices(cfg, &bytes.Buffer{}); ExitCode(err) != 1 {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestNewSnapshotDisabled(t *testing.T) {
	s, err := newSnapshot(config.DefaultConfig(), 16000, nil)
	if err != nil || s != nil {
		t.Fatalf("expected no snapshot, got %v %v", s, err)
	}
}

func TestNewSnapshotPrunes(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, fmt.Sprintf("detection-2024-01-0%d-00.00.00-abcd1234.wav", i+1))
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	cfg := config.DefaultConfig()
	cfg.SnapshotDir = dir
	cfg.SnapshotKeep = 1
	s, err := newSnapshot(cfg, 16000, func(string, ...any) {})
	if err != nil || s == nil {
		t.Fatalf("newSnapshot failed: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 snapshot kept, got %d", len(entries))
	}
}
