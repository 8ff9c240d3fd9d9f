package debug

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nebulaemu/nebula/nebula/audio"
)

// WAVRecorder buffers mixer output in memory and writes it as an 8-bit mono
// WAV file on Close.
type WAVRecorder struct {
	path    string
	samples []int
}

func NewWAVRecorder(path string) *WAVRecorder {
	return &WAVRecorder{path: path}
}

// Append adds unsigned 8-bit samples.
func (r *WAVRecorder) Append(samples []uint8) {
	for _, s := range samples {
		r.samples = append(r.samples, int(s))
	}
}

func (r *WAVRecorder) Len() int { return len(r.samples) }

func (r *WAVRecorder) Close() (err error) {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wav: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, audio.SampleRate, 8, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: audio.SampleRate},
		Data:           r.samples,
		SourceBitDepth: 8,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	slog.Info("Audio written", "path", r.path, "samples", len(r.samples))
	return nil
}
