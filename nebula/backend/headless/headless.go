package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nebulaemu/nebula/nebula/backend"
	"github.com/nebulaemu/nebula/nebula/debug"
	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	wav            *debug.WAVRecorder
	snapshots      []string
}

// SnapshotConfig holds configuration for frame snapshots and audio capture
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
	Scale     int    // PNG upscale factor
	WAVPath   string // Audio dump, empty to disable
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	if h.snapshotConfig.WAVPath != "" {
		if config.Audio == nil {
			return fmt.Errorf("wav output requested without an audio source")
		}
		h.wav = debug.NewWAVRecorder(h.snapshotConfig.WAVPath)
	}

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory,
		"wav", h.snapshotConfig.WAVPath)

	return nil
}

// Update processes a frame and handles snapshots
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.frameCount++

	if h.wav != nil {
		h.wav.Append(h.config.Audio.Samples())
	}

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}

		if h.snapshotConfig.Enabled {
			slog.Info("Headless execution completed", "frames", h.maxFrames, "png_snapshots_saved_to", h.snapshotConfig.Directory)
		} else {
			slog.Info("Headless execution completed", "frames", h.maxFrames)
		}

		// Signal completion via quit event
		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}

	return events, nil
}

// Cleanup writes the WAV file when audio capture is on.
func (h *Backend) Cleanup() error {
	if h.wav == nil {
		return nil
	}
	return h.wav.Close()
}

// FrameCount is the number of frames presented so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// Snapshots lists the PNG files written so far.
func (h *Backend) Snapshots() []string {
	return h.snapshots
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		Scale:    1,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "nebula-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	path := filepath.Join(h.snapshotConfig.Directory, fmt.Sprintf("%s_frame_%d.png", h.snapshotConfig.ROMName, h.frameCount))

	if err := debug.SaveFramePNG(frame, path, h.snapshotConfig.Scale); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.snapshots = append(h.snapshots, path)
	slog.Debug("Saved frame snapshot", "frame", h.frameCount, "path", path)
}
