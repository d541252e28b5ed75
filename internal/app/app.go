package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ilcors-dev/clipclip/internal/config"
	"github.com/ilcors-dev/clipclip/internal/device"
	"github.com/ilcors-dev/clipclip/internal/inject"
	"github.com/ilcors-dev/clipclip/internal/listen"
	"github.com/ilcors-dev/clipclip/internal/notify"
	"github.com/ilcors-dev/clipclip/internal/platform"
	"github.com/ilcors-dev/clipclip/internal/record"
	"github.com/ilcors-dev/clipclip/internal/shutdown"
	"github.com/ilcors-dev/clipclip/internal/wakeword"
)

// RunListen selects the input device, builds the detector, recorder and
// injector, and runs the listener until it stops.
func RunListen(cfg config.Config, in io.Reader, out io.Writer, logf func(string, ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return wrap(KindSetup, fmt.Errorf("get working directory: %w", err))
	}
	keywords, model, err := ResolvePaths(cfg, cwd, runtime.GOOS)
	if err != nil {
		return err
	}
	if err := checkFiles(append([]string{model}, keywords...)); err != nil {
		return wrap(KindSetup, err)
	}

	index, devices, err := chooseDevice(cfg, record.Devices(cfg.Recorder), in, out)
	if err != nil {
		return err
	}
	lcfg, err := listen.NewConfig(cfg.AccessKey, index, devices, keywords, model)
	if err != nil {
		if errors.Is(err, device.ErrInvalidSource) {
			return wrap(KindInput, err)
		}
		return wrap(KindSetup, err)
	}

	chord, err := inject.ParseChord(cfg.Chord)
	if err != nil {
		return wrap(KindSetup, err)
	}
	injector, err := inject.New(cfg.Injector, chord, logf, cfg.INJECT_DEBUG)
	if err != nil {
		return wrap(KindSetup, err)
	}

	detector, err := wakeword.NewPorcupine(wakeword.PorcupineConfig{
		AccessKey:    lcfg.AccessKey,
		ModelPath:    lcfg.ModelPath,
		KeywordPaths: lcfg.KeywordPaths,
		Sensitivity:  float32(cfg.Sensitivity),
	})
	if err != nil {
		return wrap(KindSetup, err)
	}
	defer func() {
		if err := detector.Close(); err != nil {
			logf("[main] porcupine delete failed: %v", err)
		}
	}()

	rec, err := record.New(record.Options{
		Backend:        cfg.Recorder,
		DeviceIndex:    lcfg.DeviceIndex,
		FrameLength:    detector.FrameLength(),
		SampleRate:     detector.SampleRate(),
		BufferedFrames: cfg.BufferedFrames,
		InputWav:       cfg.InputWav,
		Debug:          cfg.RECORD_DEBUG,
		Logf:           logf,
	})
	if err != nil {
		return wrap(KindSetup, err)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logf("[main] recorder close failed: %v", err)
		}
	}()

	snapshot, err := newSnapshot(cfg, detector.SampleRate(), logf)
	if err != nil {
		return wrap(KindSetup, err)
	}

	var notifier listen.Notifier
	if cfg.Notification {
		notifier = notify.Desktop{}
	}

	flag := &shutdown.Flag{}
	stop, err := shutdown.Install(flag, logf)
	if err != nil {
		return wrap(KindSetup, err)
	}
	defer stop()

	labels := make([]string, len(lcfg.KeywordPaths))
	for i, p := range lcfg.KeywordPaths {
		labels[i] = wakeword.KeywordLabel(p)
	}
	l, err := listen.New(listen.Options{
		Detector: detector,
		Recorder: rec,
		Injector: injector,
		Chord:    chord,
		Flag:     flag,
		Keywords: labels,
		Notifier: notifier,
		Snapshot: snapshot,
		Out:      out,
		Logf:     logf,
		Debug:    cfg.LISTEN_DEBUG,
	})
	if err != nil {
		return wrap(KindSetup, err)
	}
	return wrap(KindRuntime, l.Run())
}

// RunListDevices prints the input devices of the configured recorder backend.
func RunListDevices(cfg config.Config, out io.Writer) error {
	list := record.Devices(cfg.Recorder)
	if list == nil {
		return wrap(KindSetup, fmt.Errorf("recorder %s has no input devices", cfg.Recorder))
	}
	if _, err := device.Enumerate(list, out); err != nil {
		return wrap(KindSetup, err)
	}
	return nil
}

// ResolvePaths returns the keyword and model files. Explicit KEYWORD_PATH and
// MODEL_PATH win; otherwise both are looked up under WAKE_WORD_DIR (or cwd).
func ResolvePaths(cfg config.Config, cwd, goos string) ([]string, string, error) {
	root := cwd
	if cfg.WakeWordDir != "" {
		root = cfg.WakeWordDir
	}
	keyword := cfg.KeywordPath
	if keyword == "" {
		p, err := platform.KeywordPath(root, goos)
		if err != nil {
			return nil, "", wrap(KindPlatform, err)
		}
		keyword = p
	}
	model := cfg.ModelPath
	if model == "" {
		model = platform.ModelPath(root)
	}
	return []string{keyword}, model, nil
}

func checkFiles(paths []string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("file '%s' stat failed: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("'%s' is a directory", p)
		}
	}
	return nil
}

// chooseDevice returns the device index to record from and the enumerated
// device set. A nil lister means the backend has no devices.
func chooseDevice(cfg config.Config, list device.Lister, in io.Reader, out io.Writer) (int, []device.Device, error) {
	if list == nil {
		return cfg.DeviceIndex, nil, nil
	}
	if cfg.DeviceIndex != config.PromptDevice {
		devices, err := device.Enumerate(list, nil)
		if err != nil {
			return 0, nil, wrap(KindSetup, err)
		}
		return cfg.DeviceIndex, devices, nil
	}
	devices, err := device.Enumerate(list, out)
	if err != nil {
		return 0, nil, wrap(KindSetup, err)
	}
	index, err := device.Select(in, out, devices)
	if err != nil {
		return 0, nil, wrap(KindInput, err)
	}
	return index, devices, nil
}

func newSnapshot(cfg config.Config, sampleRate int, logf func(string, ...any)) (*record.Snapshot, error) {
	if cfg.SnapshotDir == "" {
		return nil, nil
	}
	removed, err := record.Prune(cfg.SnapshotDir, cfg.SnapshotKeep)
	if err != nil {
		logf("[snapshot] prune failed: %v", err)
	}
	for _, p := range removed {
		if cfg.LISTEN_DEBUG {
			logf("[snapshot] removed %s", p)
		}
	}
	return record.NewSnapshot(cfg.SnapshotDir, sampleRate, cfg.SnapshotSeconds)
}
