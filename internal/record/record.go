package record

import (
	"fmt"
	"sync"

	"github.com/ilcors-dev/clipclip/internal/config"
	"github.com/ilcors-dev/clipclip/internal/device"
)

// State represents recorder state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Recorder delivers fixed-size mono 16-bit PCM frames.
type Recorder interface {
	Start() error
	// Read blocks until one frame is available. It returns io.EOF when the
	// source is exhausted.
	Read() ([]int16, error)
	Stop() error
	// Close releases the underlying audio resource. It stops the recorder first
	// when it is still running.
	Close() error
}

// Options selects and sizes a recorder backend.
type Options struct {
	Backend        string
	DeviceIndex    int
	FrameLength    int
	SampleRate     int
	BufferedFrames int
	InputWav       string
	Debug          bool
	Logf           func(string, ...any)
}

// New creates the recorder named by opts.Backend.
func New(opts Options) (Recorder, error) {
	if opts.FrameLength <= 0 {
		return nil, fmt.Errorf("invalid frame length: %d", opts.FrameLength)
	}
	switch opts.Backend {
	case config.RecorderPv, "":
		return NewPvRecorder(opts)
	case config.RecorderPortAudio:
		return NewPortAudio(opts), nil
	case config.RecorderWav:
		return NewWavFile(opts), nil
	default:
		return nil, fmt.Errorf("unknown recorder: %s", opts.Backend)
	}
}

// Devices returns the device lister matching backend. WAV replay has no
// devices and returns nil.
func Devices(backend string) device.Lister {
	switch backend {
	case config.RecorderPv, "":
		return PvDevices
	case config.RecorderPortAudio:
		return PortAudioDevices
	default:
		return nil
	}
}

// lifecycle tracks the Idle -> Recording -> Stopped transitions shared by the backends.
type lifecycle struct {
	mu    sync.Mutex
	state State
}

func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *lifecycle) begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateIdle {
		return fmt.Errorf("recorder not idle (%s)", l.state)
	}
	l.state = StateRecording
	return nil
}

// end moves to Stopped and reports whether the recorder was running.
func (l *lifecycle) end() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	wasRunning := l.state == StateRecording
	l.state = StateStopped
	return wasRunning
}

func (l *lifecycle) recording() bool {
	return l.State() == StateRecording
}

func debugf(opts Options, format string, args ...any) {
	if opts.Debug && opts.Logf != nil {
		opts.Logf(format, args...)
	}
}
