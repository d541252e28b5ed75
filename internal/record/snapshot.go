package record

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const snapshotPrefix = "detection-"

// Snapshot keeps the most recent audio and writes it to a WAV file when a
// keyword is detected.
type Snapshot struct {
	dir        string
	sampleRate int
	ring       []int16
	pos        int
	filled     int
}

// NewSnapshot creates dir if needed and keeps up to seconds of audio at sampleRate.
func NewSnapshot(dir string, sampleRate int, seconds float64) (*Snapshot, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	size := int(seconds * float64(sampleRate))
	if size <= 0 {
		return nil, fmt.Errorf("invalid snapshot length: %vs", seconds)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot dir path invalid '%s': %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("cannot create snapshot dir '%s': %w", abs, err)
	}
	return &Snapshot{dir: abs, sampleRate: sampleRate, ring: make([]int16, size)}, nil
}

// Dir returns the absolute snapshot directory.
func (s *Snapshot) Dir() string { return s.dir }

// Add appends a frame, overwriting the oldest samples.
func (s *Snapshot) Add(frame []int16) {
	for _, v := range frame {
		s.ring[s.pos] = v
		s.pos = (s.pos + 1) % len(s.ring)
		if s.filled < len(s.ring) {
			s.filled++
		}
	}
}

// Samples returns the buffered audio, oldest first.
func (s *Snapshot) Samples() []int16 {
	out := make([]int16, s.filled)
	start := (s.pos - s.filled + len(s.ring)) % len(s.ring)
	for i := range out {
		out[i] = s.ring[(start+i)%len(s.ring)]
	}
	return out
}

// Save writes the buffered audio to a new file in the snapshot directory and
// returns its path.
func (s *Snapshot) Save(at time.Time) (string, error) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	name := fmt.Sprintf("%s%s-%s.wav", snapshotPrefix, at.Format("2006-01-02-15.04.05"), id)
	path := filepath.Join(s.dir, name)

	samples := s.Samples()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create wav failed: %w", err)
	}
	enc := wav.NewEncoder(file, s.sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: s.sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("wav write failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("wav close failed: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Prune removes the oldest snapshots in dir so that at most keep remain.
// keep == 0 disables pruning. It returns the removed paths.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir '%s' failed: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || filepath.Ext(name) != ".wav" {
			continue
		}
		names = append(names, name)
	}
	if len(names) <= keep {
		return nil, nil
	}
	// names embed the timestamp, so lexical order is chronological
	sort.Strings(names)
	var removed []string
	var errs []string
	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		removed = append(removed, path)
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("failed removing snapshots: %s", strings.Join(errs, "; "))
	}
	return removed, nil
}
