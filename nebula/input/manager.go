package input

import (
	"log/slog"

	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/memory"
)

// Manager routes actions: controller buttons go straight to the joypad,
// everything else to registered callbacks.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	debounce *Handler
	joypad   *memory.Joypad
}

func NewManager(j *memory.Joypad) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		debounce: NewHandler(),
		joypad:   j,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if !m.debounce.ProcessEvent(act, evt) {
		slog.Debug("Debounced input", "action", act, "type", evt)
		return
	}

	if button, ok := JoypadButton(act); ok {
		if m.joypad == nil {
			return
		}
		switch evt {
		case event.Press, event.Hold:
			m.joypad.Press(button)
		case event.Release:
			m.joypad.Release(button)
		}
		return
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// JoypadButton maps controller actions to joypad buttons.
func JoypadButton(act action.Action) (memory.Button, bool) {
	switch act {
	case action.NESButtonA:
		return memory.ButtonA, true
	case action.NESButtonB:
		return memory.ButtonB, true
	case action.NESButtonSelect:
		return memory.ButtonSelect, true
	case action.NESButtonStart:
		return memory.ButtonStart, true
	case action.NESDPadUp:
		return memory.ButtonUp, true
	case action.NESDPadDown:
		return memory.ButtonDown, true
	case action.NESDPadLeft:
		return memory.ButtonLeft, true
	case action.NESDPadRight:
		return memory.ButtonRight, true
	default:
		return 0, false
	}
}
