// Package speaker plays the APU sample stream on the default audio device.
package speaker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/nebulaemu/nebula/nebula/audio"
	"github.com/nebulaemu/nebula/nebula/backend"
)

const bufferLatency = 50 * time.Millisecond

// sampleReader adapts an AudioSource to the io.Reader oto pulls from. oto
// reads from its own goroutine; the source does its own locking.
type sampleReader struct {
	source backend.AudioSource
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return copy(p, r.source.GetSamples(len(p))), nil
}

// Speaker owns the oto context and player.
type Speaker struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
}

// New opens the audio device as unsigned 8-bit mono at the APU rate and
// starts playback from source.
func New(source backend.AudioSource) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatUnsignedInt8,
		BufferSize:   bufferLatency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	s := &Speaker{ctx: ctx}
	s.player = ctx.NewPlayer(&sampleReader{source: source})
	s.player.Play()

	slog.Info("Audio output started", "rate", audio.SampleRate, "latency", bufferLatency)
	return s, nil
}

// Close stops playback. The oto context stays alive for the process, as
// oto allows only one per program.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
