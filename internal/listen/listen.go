// Package listen runs the wake word loop: read a frame, detect, dispatch.
package listen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ilcors-dev/clipclip/internal/device"
	"github.com/ilcors-dev/clipclip/internal/inject"
	"github.com/ilcors-dev/clipclip/internal/record"
	"github.com/ilcors-dev/clipclip/internal/shutdown"
	"github.com/ilcors-dev/clipclip/internal/wakeword"
)

// State is the listener lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DetectionMessage is printed, after a timestamp, on every detection.
const DetectionMessage = "clippo!"

// Config is what the listener needs to build its engine and recorder.
type Config struct {
	AccessKey    string
	DeviceIndex  int
	KeywordPaths []string
	ModelPath    string
}

// NewConfig validates and builds a Config. devices is the enumerated device
// set; nil means the recorder does not read from a device and the index is
// not checked.
func NewConfig(accessKey string, deviceIndex int, devices []device.Device, keywordPaths []string, modelPath string) (Config, error) {
	if strings.TrimSpace(accessKey) == "" {
		return Config{}, errors.New("empty access key")
	}
	if len(keywordPaths) == 0 {
		return Config{}, errors.New("at least one keyword path is required")
	}
	if strings.TrimSpace(modelPath) == "" {
		return Config{}, errors.New("empty model path")
	}
	if devices != nil {
		if err := device.Validate(deviceIndex, devices); err != nil {
			return Config{}, err
		}
	}
	paths := make([]string, len(keywordPaths))
	copy(paths, keywordPaths)
	return Config{
		AccessKey:    accessKey,
		DeviceIndex:  deviceIndex,
		KeywordPaths: paths,
		ModelPath:    modelPath,
	}, nil
}

// Error reports the step at which the loop failed.
type Error struct {
	Op    string // start, read, process or stop
	Frame int
	Err   error
}

func (e *Error) Error() string {
	if e.Op == "start" {
		return fmt.Sprintf("listen %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("listen %s (frame %d): %v", e.Op, e.Frame, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Notifier shows a message to the user on detection.
type Notifier interface {
	Notify(message string) error
}

// Options wires the listener collaborators. Detector, Recorder, Injector and
// Flag are required.
type Options struct {
	Detector wakeword.Detector
	Recorder record.Recorder
	Injector inject.Injector
	Chord    inject.Chord
	Flag     *shutdown.Flag

	// Keywords labels keyword indices in debug output.
	Keywords []string
	Notifier Notifier
	Snapshot *record.Snapshot

	Out   io.Writer
	Logf  func(string, ...any)
	Now   func() time.Time
	Debug bool
}

// Listener owns the recorder and detector for the duration of Run.
type Listener struct {
	opts       Options
	state      State
	frames     int
	detections int
}

// New checks opts and returns an uninitialized listener.
func New(opts Options) (*Listener, error) {
	if opts.Detector == nil {
		return nil, errors.New("listen: nil detector")
	}
	if opts.Recorder == nil {
		return nil, errors.New("listen: nil recorder")
	}
	if opts.Injector == nil {
		return nil, errors.New("listen: nil injector")
	}
	if opts.Flag == nil {
		return nil, errors.New("listen: nil shutdown flag")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Listener{opts: opts}, nil
}

func (l *Listener) State() State { return l.state }

// Frames returns the number of frames read so far.
func (l *Listener) Frames() int { return l.frames }

// Detections returns the number of detections so far.
func (l *Listener) Detections() int { return l.detections }

// Run starts recording and loops until the shutdown flag is set, the
// recorder reports io.EOF, or a read or detection error occurs. The
// recorder is stopped on every exit path.
func (l *Listener) Run() error {
	if l.state != StateUninitialized {
		return fmt.Errorf("listen: cannot run from state %s", l.state)
	}
	if err := l.opts.Recorder.Start(); err != nil {
		l.state = StateStopped
		return &Error{Op: "start", Err: err}
	}
	l.state = StateRecording
	fmt.Fprintln(l.opts.Out, "Listening for wake words...")

	for {
		if l.opts.Flag.Requested() {
			return l.stop(nil)
		}
		pcm, err := l.opts.Recorder.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.debugf("[listen] end of input after %d frames", l.frames)
				return l.stop(nil)
			}
			return l.stop(&Error{Op: "read", Frame: l.frames, Err: err})
		}
		l.frames++
		if l.opts.Snapshot != nil {
			l.opts.Snapshot.Add(pcm)
		}
		index, err := l.opts.Detector.Process(pcm)
		if err != nil {
			return l.stop(&Error{Op: "process", Frame: l.frames, Err: err})
		}
		if index >= 0 {
			l.detected(index)
		}
	}
}

func (l *Listener) detected(index int) {
	l.detections++
	at := l.opts.Now()
	fmt.Fprintf(l.opts.Out, "[%s] %s\n", at.Format("2006-01-02 15:04:05"), DetectionMessage)
	l.debugf("[listen] keyword %d (%s) at frame %d", index, l.keyword(index), l.frames)

	if err := l.opts.Injector.Press(l.opts.Chord); err != nil {
		l.opts.Logf("[inject] failed: %v", err)
	}
	if l.opts.Notifier != nil {
		if err := l.opts.Notifier.Notify(DetectionMessage); err != nil {
			l.opts.Logf("[notify] failed: %v", err)
		}
	}
	if l.opts.Snapshot != nil {
		path, err := l.opts.Snapshot.Save(at)
		if err != nil {
			l.opts.Logf("[snapshot] failed: %v", err)
		} else {
			l.debugf("[snapshot] saved %s", path)
		}
	}
}

// stop releases the recorder. A non-nil cause is returned unchanged; the
// stop notice is printed only for a clean stop.
func (l *Listener) stop(cause error) error {
	l.state = StateStopped
	stopErr := l.opts.Recorder.Stop()
	if cause != nil {
		if stopErr != nil {
			l.opts.Logf("[listen] stop after error failed: %v", stopErr)
		}
		return cause
	}
	fmt.Fprintln(l.opts.Out, "\nStopping...")
	if stopErr != nil {
		return &Error{Op: "stop", Frame: l.frames, Err: stopErr}
	}
	return nil
}

func (l *Listener) keyword(index int) string {
	if index < len(l.opts.Keywords) {
		return l.opts.Keywords[index]
	}
	return "?"
}

func (l *Listener) debugf(format string, args ...any) {
	if l.opts.Debug {
		l.opts.Logf(format, args...)
	}
}
