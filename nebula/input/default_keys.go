package input

import "github.com/nebulaemu/nebula/nebula/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Controller 1
	"z":     action.NESButtonA,
	"x":     action.NESButtonB,
	"Enter": action.NESButtonStart,
	"Tab":   action.NESButtonSelect,
	"Up":    action.NESDPadUp,
	"Down":  action.NESDPadDown,
	"Left":  action.NESDPadLeft,
	"Right": action.NESDPadRight,

	// WASD
	"w": action.NESDPadUp,
	"s": action.NESDPadDown,
	"a": action.NESDPadLeft,
	"d": action.NESDPadRight,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"f":      action.EmulatorStepFrame,
	"n":      action.EmulatorStepInstruction,
	"r":      action.EmulatorReset,
	"F10":    action.EmulatorDebugToggle,
	"F12":    action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,

	// Audio debug controls
	"F1": action.AudioTogglePulse1,
	"F2": action.AudioTogglePulse2,
	"F3": action.AudioToggleTriangle,
	"F4": action.AudioToggleNoise,
	"1":  action.AudioSoloPulse1,
	"2":  action.AudioSoloPulse2,
	"3":  action.AudioSoloTriangle,
	"4":  action.AudioSoloNoise,
	"0":  action.AudioUnmuteAll,
	"F5": action.AudioShowStatus,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease,
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
