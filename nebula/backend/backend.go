package backend

import (
	"github.com/nebulaemu/nebula/nebula/debug"
	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/video"
)

// InputEvent is a platform input already translated to an action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, files, ...)
// - Translating platform-specific input events to InputEvents
// - Handling backend-specific features (snapshots, debug panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update presents the frame and returns the input collected since the
	// previous call. The session feeds the events to its input manager.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// AudioSource is the APU sample stream as seen by a backend.
type AudioSource interface {
	// GetSamples returns exactly count samples, padding when short.
	GetSamples(count int) []uint8
	// Samples drains whatever is buffered.
	Samples() []uint8
}

// DebugSource provides the data shown by debug panels.
type DebugSource interface {
	ExtractDebugData() *debug.CompleteDebugData
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	ShowDebug bool        // Backends may ignore unsupported features
	Audio     AudioSource // nil disables audio output
	Debug     DebugSource
	Callbacks BackendCallbacks
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// OnQuit is called when the platform asks to shut down (signal, window close)
	OnQuit func()
}
