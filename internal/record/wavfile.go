package record

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavFile replays a 16-bit PCM WAV file as a sequence of frames. Only the
// first channel of multi-channel files is used. The final partial frame is
// zero padded.
type WavFile struct {
	lifecycle
	opts Options
	f    *os.File
	dec  *wav.Decoder
	buf  *audio.IntBuffer
	ch   int
	eof  bool
}

// NewWavFile creates a recorder reading opts.InputWav.
func NewWavFile(opts Options) *WavFile {
	return &WavFile{opts: opts}
}

func (r *WavFile) Start() error {
	if err := r.begin(); err != nil {
		return err
	}
	if err := r.open(); err != nil {
		r.end()
		return err
	}
	return nil
}

func (r *WavFile) open() error {
	f, err := os.Open(r.opts.InputWav)
	if err != nil {
		return fmt.Errorf("open wav failed: %w", err)
	}
	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		_ = f.Close()
		return fmt.Errorf("read wav header failed: %w", err)
	}
	if dec.BitDepth != 16 {
		_ = f.Close()
		return fmt.Errorf("wav %s: bit depth %d, want 16", r.opts.InputWav, dec.BitDepth)
	}
	if dec.NumChans < 1 {
		_ = f.Close()
		return fmt.Errorf("wav %s: no channels", r.opts.InputWav)
	}
	if r.opts.SampleRate > 0 && int(dec.SampleRate) != r.opts.SampleRate {
		_ = f.Close()
		return fmt.Errorf("wav %s: sample rate %d, want %d", r.opts.InputWav, dec.SampleRate, r.opts.SampleRate)
	}
	if err := dec.FwdToPCM(); err != nil {
		_ = f.Close()
		return fmt.Errorf("seek to pcm failed: %w", err)
	}

	r.ch = int(dec.NumChans)
	r.f = f
	r.dec = dec
	r.buf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: r.ch, SampleRate: int(dec.SampleRate)},
		Data:           make([]int, r.opts.FrameLength*r.ch),
		SourceBitDepth: 16,
	}
	debugf(r.opts, "[record] replaying %s (%d Hz, %d ch)", r.opts.InputWav, dec.SampleRate, r.ch)
	return nil
}

func (r *WavFile) Read() ([]int16, error) {
	if !r.recording() {
		return nil, fmt.Errorf("recorder not running")
	}
	if r.eof {
		return nil, io.EOF
	}
	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("wav read error: %w", err)
	}
	if n == 0 {
		r.eof = true
		return nil, io.EOF
	}
	if n < len(r.buf.Data) {
		r.eof = true
	}
	pcm := make([]int16, r.opts.FrameLength)
	for i := range pcm {
		j := i * r.ch
		if j >= n {
			break
		}
		pcm[i] = int16(r.buf.Data[j])
	}
	return pcm, nil
}

func (r *WavFile) Stop() error {
	if !r.end() {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func (r *WavFile) Close() error {
	return r.Stop()
}
