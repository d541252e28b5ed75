package record

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioDevices lists input-capable PortAudio devices. The subsystem is
// initialized only for the duration of the query.
func PortAudioDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init failed: %w", err)
	}
	defer portaudio.Terminate()

	inputs, err := portAudioInputs()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(inputs))
	for i, d := range inputs {
		names[i] = d.Name
	}
	return names, nil
}

// portAudioInputs must be called between Initialize and Terminate.
func portAudioInputs() ([]*portaudio.DeviceInfo, error) {
	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}
	var inputs []*portaudio.DeviceInfo
	for _, d := range all {
		if d.MaxInputChannels > 0 {
			inputs = append(inputs, d)
		}
	}
	return inputs, nil
}

// PortAudio reads mono frames from a PortAudio input stream.
type PortAudio struct {
	lifecycle
	opts   Options
	in     []int16
	stream *portaudio.Stream
}

// NewPortAudio creates a recorder; the stream is opened by Start.
func NewPortAudio(opts Options) *PortAudio {
	return &PortAudio{opts: opts}
}

func (r *PortAudio) Start() error {
	if err := r.begin(); err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		r.end()
		return fmt.Errorf("portaudio init failed: %w", err)
	}

	dev, err := r.inputDevice()
	if err != nil {
		portaudio.Terminate()
		r.end()
		return err
	}
	debugf(r.opts, "[record] portaudio device %q rate=%d frame=%d", dev.Name, r.opts.SampleRate, r.opts.FrameLength)

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(r.opts.SampleRate)
	params.FramesPerBuffer = r.opts.FrameLength

	r.in = make([]int16, r.opts.FrameLength)
	stream, err := portaudio.OpenStream(params, r.in)
	if err != nil {
		portaudio.Terminate()
		r.end()
		return fmt.Errorf("open stream failed: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		portaudio.Terminate()
		r.end()
		return fmt.Errorf("start stream failed: %w", err)
	}
	r.stream = stream
	return nil
}

func (r *PortAudio) inputDevice() (*portaudio.DeviceInfo, error) {
	if r.opts.DeviceIndex < 0 {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return dev, nil
	}
	inputs, err := portAudioInputs()
	if err != nil {
		return nil, err
	}
	if r.opts.DeviceIndex >= len(inputs) {
		return nil, fmt.Errorf("device index %d out of range", r.opts.DeviceIndex)
	}
	return inputs[r.opts.DeviceIndex], nil
}

func (r *PortAudio) Read() ([]int16, error) {
	if !r.recording() {
		return nil, fmt.Errorf("recorder not running")
	}
	if err := r.stream.Read(); err != nil {
		if !errors.Is(err, portaudio.InputOverflowed) {
			return nil, fmt.Errorf("stream read error: %w", err)
		}
		debugf(r.opts, "[record] input overflowed")
	}
	pcm := make([]int16, len(r.in))
	copy(pcm, r.in)
	return pcm, nil
}

func (r *PortAudio) Stop() error {
	if !r.end() {
		return nil
	}
	stopErr := r.stream.Stop()
	closeErr := r.stream.Close()
	termErr := portaudio.Terminate()
	r.stream = nil
	return errors.Join(stopErr, closeErr, termErr)
}

func (r *PortAudio) Close() error {
	return r.Stop()
}
