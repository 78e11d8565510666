package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/milk9111/kickbomb/ecs/component"
)

var ErrClosed = errors.New("replay: recorder closed")

// Frame is everything observable that happened during one tick.
type Frame struct {
	Tick       uint64                    `json:"tick"`
	Elapsed    float64                   `json:"elapsed"`
	Entities   int                       `json:"entities"`
	Commands   int                       `json:"commands"`
	Audio      []component.AudioEvent    `json:"audio,omitempty"`
	Trauma     []component.CameraTrauma  `json:"trauma,omitempty"`
	Damage     []component.PlayerDamaged `json:"damage,omitempty"`
	Explosions []component.Explosion     `json:"explosions,omitempty"`
	Bombs      []BombState               `json:"bombs,omitempty"`
}

// BombState is a snapshot of one kick bomb at the end of a tick.
type BombState struct {
	Entity uint64  `json:"entity"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Lit    bool    `json:"lit"`
	Fuse   float64 `json:"fuse,omitempty"`
	Held   bool    `json:"held,omitempty"`

	// Spawner is the placement marker the bomb was hydrated from.
	Spawner uint64 `json:"spawner,omitempty"`
}

// Recorder writes one zstd compressed JSON line per frame.
type Recorder struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	frames int
}

// NewRecorder compresses frames into dst. Close flushes the stream but does
// not close dst.
func NewRecorder(dst io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Create opens path for writing, creating parent directories, and records
// into it. Close also closes the file.
func Create(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func (r *Recorder) Record(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrClosed
	}
	b, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("replay: encode tick %d: %w", frame.Tick, err)
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	var err1 error
	if err := r.w.Flush(); err != nil {
		err1 = err
	}
	if err := r.enc.Close(); err != nil && err1 == nil {
		err1 = err
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil && err1 == nil {
			err1 = err
		}
		r.closer = nil
	}
	r.w = nil
	r.enc = nil
	return err1
}

// ReadFrames decodes a stream written by a Recorder.
func ReadFrames(src io.Reader) ([]Frame, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var frames []Frame
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			return frames, fmt.Errorf("replay: line %d: %w", len(frames)+1, err)
		}
		frames = append(frames, f)
	}
	return frames, scanner.Err()
}

// Open reads every frame of a recording on disk.
func Open(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrames(f)
}
