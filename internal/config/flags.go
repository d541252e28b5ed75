package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// FlagValues holds parsed flags with explicit set tracking.
type FlagValues struct {
	AccessKey          string
	AccessKeySet       bool
	DeviceIndex        int
	DeviceIndexSet     bool
	Recorder           string
	RecorderSet        bool
	InputWav           string
	InputWavSet        bool
	BufferedFrames     int
	BufferedFramesSet  bool
	WakeWordDir        string
	WakeWordDirSet     bool
	KeywordPath        string
	KeywordPathSet     bool
	ModelPath          string
	ModelPathSet       bool
	Sensitivity        float64
	SensitivitySet     bool
	Injector           string
	InjectorSet        bool
	Chord              string
	ChordSet           bool
	Notification       bool
	NotificationSet    bool
	SnapshotDir        string
	SnapshotDirSet     bool
	SnapshotSeconds    float64
	SnapshotSecondsSet bool
	SnapshotKeep       int
	SnapshotKeepSet    bool
	LISTEN_DEBUG       bool
	LISTEN_DEBUGSet    bool
	RECORD_DEBUG       bool
	RECORD_DEBUGSet    bool
	INJECT_DEBUG       bool
	INJECT_DEBUGSet    bool
}

type stringFlag struct {
	target *string
	set    *bool
}

func (s *stringFlag) String() string {
	if s == nil || s.target == nil {
		return ""
	}
	return *s.target
}

func (s *stringFlag) Set(v string) error {
	if s.target != nil {
		*s.target = v
	}
	if s.set != nil {
		*s.set = true
	}
	return nil
}

type intFlag struct {
	target *int
	set    *bool
}

func (i *intFlag) String() string {
	if i == nil || i.target == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.target)
}

func (i *intFlag) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i.target != nil {
		*i.target = n
	}
	if i.set != nil {
		*i.set = true
	}
	return nil
}

type floatFlag struct {
	target *float64
	set    *bool
}

func (f *floatFlag) String() string {
	if f == nil || f.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *f.target)
}

func (f *floatFlag) Set(v string) error {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if f.target != nil {
		*f.target = n
	}
	if f.set != nil {
		*f.set = true
	}
	return nil
}

type boolFlag struct {
	target *bool
	set    *bool
}

func (b *boolFlag) String() string {
	if b == nil || b.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *b.target)
}

// IsBoolFlag lets "-notification" be passed without a value.
func (b *boolFlag) IsBoolFlag() bool { return true }

func parseBoolExt(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %s", v)
}

func (b *boolFlag) Set(v string) error {
	n, err := parseBoolExt(v)
	if err != nil {
		return err
	}
	if b.target != nil {
		*b.target = n
	}
	if b.set != nil {
		*b.set = true
	}
	return nil
}

// BindFlags registers all flags and returns the populated FlagValues.
func BindFlags(fs *flag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.Var(&stringFlag{&fv.AccessKey, &fv.AccessKeySet}, "access-key", "Porcupine access key (overrides PORCUPINE_ACCESS_KEY)")
	fs.Var(&intFlag{&fv.DeviceIndex, &fv.DeviceIndexSet}, "device", "input device index (-1 prompts)")
	fs.Var(&stringFlag{&fv.Recorder, &fv.RecorderSet}, "recorder", "recorder backend (pvrecorder, portaudio, wav)")
	fs.Var(&stringFlag{&fv.InputWav, &fv.InputWavSet}, "input-wav", "WAV file replayed by the wav recorder")
	fs.Var(&intFlag{&fv.BufferedFrames, &fv.BufferedFramesSet}, "buffered-frames", "pvrecorder buffered frame count")

	fs.Var(&stringFlag{&fv.WakeWordDir, &fv.WakeWordDirSet}, "wake-word-dir", "directory holding the wake_words folder (default cwd)")
	fs.Var(&stringFlag{&fv.KeywordPath, &fv.KeywordPathSet}, "keyword", "keyword (.ppn) path")
	fs.Var(&stringFlag{&fv.ModelPath, &fv.ModelPathSet}, "model", "model (.pv) path")
	fs.Var(&floatFlag{&fv.Sensitivity, &fv.SensitivitySet}, "sensitivity", "detection sensitivity 0..1 (float)")

	fs.Var(&stringFlag{&fv.Injector, &fv.InjectorSet}, "injector", "key injector (keybd, robotgo, none)")
	fs.Var(&stringFlag{&fv.Chord, &fv.ChordSet}, "chord", "chord sent on detection (e.g. alt+f10)")
	fs.Var(&boolFlag{&fv.Notification, &fv.NotificationSet}, "notification", "enable notifications (true/false)")

	fs.Var(&stringFlag{&fv.SnapshotDir, &fv.SnapshotDirSet}, "snapshot-dir", "directory for detection snapshots")
	fs.Var(&floatFlag{&fv.SnapshotSeconds, &fv.SnapshotSecondsSet}, "snapshot-seconds", "seconds of audio per snapshot (float)")
	fs.Var(&intFlag{&fv.SnapshotKeep, &fv.SnapshotKeepSet}, "snapshot-keep", "snapshots kept at startup (0 keeps all)")

	fs.Var(&boolFlag{&fv.LISTEN_DEBUG, &fv.LISTEN_DEBUGSet}, "listen-debug", "enable listen debug output (true/false)")
	fs.Var(&boolFlag{&fv.RECORD_DEBUG, &fv.RECORD_DEBUGSet}, "record-debug", "enable record debug output (true/false)")
	fs.Var(&boolFlag{&fv.INJECT_DEBUG, &fv.INJECT_DEBUGSet}, "inject-debug", "enable inject debug output (true/false)")

	return fv
}

// ApplyFlags applies present flags to the config.
func ApplyFlags(cfg *Config, fv *FlagValues) {
	if fv.AccessKeySet {
		cfg.AccessKey = fv.AccessKey
	}
	if fv.DeviceIndexSet {
		cfg.DeviceIndex = fv.DeviceIndex
	}
	if fv.RecorderSet {
		cfg.Recorder = fv.Recorder
	}
	if fv.InputWavSet {
		cfg.InputWav = fv.InputWav
	}
	if fv.BufferedFramesSet {
		cfg.BufferedFrames = fv.BufferedFrames
	}

	if fv.WakeWordDirSet {
		cfg.WakeWordDir = fv.WakeWordDir
	}
	if fv.KeywordPathSet {
		cfg.KeywordPath = fv.KeywordPath
	}
	if fv.ModelPathSet {
		cfg.ModelPath = fv.ModelPath
	}
	if fv.SensitivitySet {
		cfg.Sensitivity = fv.Sensitivity
	}

	if fv.InjectorSet {
		cfg.Injector = fv.Injector
	}
	if fv.ChordSet {
		cfg.Chord = fv.Chord
	}
	if fv.NotificationSet {
		cfg.Notification = fv.Notification
	}

	if fv.SnapshotDirSet {
		cfg.SnapshotDir = fv.SnapshotDir
	}
	if fv.SnapshotSecondsSet {
		cfg.SnapshotSeconds = fv.SnapshotSeconds
	}
	if fv.SnapshotKeepSet {
		cfg.SnapshotKeep = fv.SnapshotKeep
	}

	if fv.LISTEN_DEBUGSet {
		cfg.LISTEN_DEBUG = fv.LISTEN_DEBUG
	}
	if fv.RECORD_DEBUGSet {
		cfg.RECORD_DEBUG = fv.RECORD_DEBUG
	}
	if fv.INJECT_DEBUGSet {
		cfg.INJECT_DEBUG = fv.INJECT_DEBUG
	}
}

// AnySet reports whether any flag was explicitly set by the user.
func (fv *FlagValues) AnySet() bool {
	return fv.AccessKeySet ||
		fv.DeviceIndexSet ||
		fv.RecorderSet ||
		fv.InputWavSet ||
		fv.BufferedFramesSet ||
		fv.WakeWordDirSet ||
		fv.KeywordPathSet ||
		fv.ModelPathSet ||
		fv.SensitivitySet ||
		fv.InjectorSet ||
		fv.ChordSet ||
		fv.NotificationSet ||
		fv.SnapshotDirSet ||
		fv.SnapshotSecondsSet ||
		fv.SnapshotKeepSet ||
		fv.LISTEN_DEBUGSet ||
		fv.RECORD_DEBUGSet ||
		fv.INJECT_DEBUGSet
}
