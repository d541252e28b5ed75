package record

import (
	"fmt"

	pvrecorder "github.com/Picovoice/pvrecorder/binding/go"
)

// PvDevices lists the capture devices known to pvrecorder.
func PvDevices() ([]string, error) {
	return pvrecorder.GetAvailableDevices()
}

// PvRecorder reads frames through Picovoice pvrecorder.
type PvRecorder struct {
	lifecycle
	opts Options
	rec  *pvrecorder.PvRecorder
}

// NewPvRecorder opens the device selected in opts.
func NewPvRecorder(opts Options) (*PvRecorder, error) {
	buffered := opts.BufferedFrames
	if buffered <= 0 {
		buffered = 50
	}
	rec := &pvrecorder.PvRecorder{
		FrameLength:         opts.FrameLength,
		DeviceIndex:         opts.DeviceIndex,
		BufferedFramesCount: buffered,
	}
	if err := rec.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize pvrecorder: %w", err)
	}
	debugf(opts, "[record] pvrecorder device=%d frame=%d buffered=%d", opts.DeviceIndex, opts.FrameLength, buffered)
	return &PvRecorder{opts: opts, rec: rec}, nil
}

func (r *PvRecorder) Start() error {
	if err := r.begin(); err != nil {
		return err
	}
	if err := r.rec.Start(); err != nil {
		r.end()
		return fmt.Errorf("failed to start audio recording: %w", err)
	}
	debugf(r.opts, "[record] recording started")
	return nil
}

func (r *PvRecorder) Read() ([]int16, error) {
	if !r.recording() {
		return nil, fmt.Errorf("recorder not running")
	}
	pcm, err := r.rec.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio frame: %w", err)
	}
	return pcm, nil
}

func (r *PvRecorder) Stop() error {
	if !r.end() {
		return nil
	}
	if err := r.rec.Stop(); err != nil {
		return fmt.Errorf("failed to stop audio recording: %w", err)
	}
	return nil
}

func (r *PvRecorder) Close() error {
	err := r.Stop()
	r.rec.Delete()
	return err
}
