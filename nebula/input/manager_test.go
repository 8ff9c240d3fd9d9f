package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/memory"
)

func TestManagerDrivesJoypad(t *testing.T) {
	pad := memory.NewJoypad()
	m := NewManager(pad)

	m.Trigger(action.NESButtonStart, event.Press)
	m.Trigger(action.NESDPadLeft, event.Press)
	assert.Equal(t, uint8(1<<memory.ButtonStart|1<<memory.ButtonLeft), pad.State())

	m.Trigger(action.NESButtonStart, event.Release)
	assert.Equal(t, uint8(1<<memory.ButtonLeft), pad.State())
}

func TestManagerCallbacks(t *testing.T) {
	m := NewManager(nil)
	clock := &fakeClock{}
	m.debounce.now = clock.Now

	calls := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { calls++ })
	m.Trigger(action.EmulatorPauseToggle, event.Press)
	m.Trigger(action.EmulatorPauseToggle, event.Release)
	assert.Equal(t, 1, calls)

	// Controller actions without a joypad are ignored.
	m.Trigger(action.NESButtonA, event.Press)
}

func TestDefaultKeyMapCoversController(t *testing.T) {
	seen := map[memory.Button]bool{}
	for _, act := range DefaultKeyMap {
		if b, ok := JoypadButton(act); ok {
			seen[b] = true
		}
	}
	require.Len(t, seen, 8)

	act, ok := GetDefaultMapping("Escape")
	require.True(t, ok)
	assert.Equal(t, action.EmulatorQuit, act)
}

func TestActionInfo(t *testing.T) {
	assert.Equal(t, action.CategoryGameInput, action.GetInfo(action.NESButtonB).Category)
	assert.Equal(t, action.CategoryAudio, action.GetInfo(action.AudioSoloNoise).Category)
	assert.Equal(t, "quit", action.EmulatorQuit.String())
	assert.Equal(t, "unknown", action.Action(-1).String())
}
