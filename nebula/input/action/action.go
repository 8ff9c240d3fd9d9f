package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Controller 1 buttons
	NESButtonA Action = iota
	NESButtonB
	NESButtonSelect
	NESButtonStart
	NESDPadUp
	NESDPadDown
	NESDPadLeft
	NESDPadRight

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit

	// Audio debugging
	AudioTogglePulse1
	AudioTogglePulse2
	AudioToggleTriangle
	AudioToggleNoise
	AudioSoloPulse1
	AudioSoloPulse2
	AudioSoloTriangle
	AudioSoloNoise
	AudioUnmuteAll
	AudioShowStatus

	// Logging
	DebugLogLevelIncrease
	DebugLogLevelDecrease

	actionCount
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryGameInput Category = iota
	CategoryEmulator
	CategoryAudio
	CategoryDebug
)

// Info describes an action for logs and help text.
type Info struct {
	Name        string
	Description string
	Category    Category
}

var infos = [actionCount]Info{
	NESButtonA:      {"button_a", "A button", CategoryGameInput},
	NESButtonB:      {"button_b", "B button", CategoryGameInput},
	NESButtonSelect: {"button_select", "Select button", CategoryGameInput},
	NESButtonStart:  {"button_start", "Start button", CategoryGameInput},
	NESDPadUp:       {"dpad_up", "D-pad up", CategoryGameInput},
	NESDPadDown:     {"dpad_down", "D-pad down", CategoryGameInput},
	NESDPadLeft:     {"dpad_left", "D-pad left", CategoryGameInput},
	NESDPadRight:    {"dpad_right", "D-pad right", CategoryGameInput},

	EmulatorDebugToggle:     {"debug_toggle", "Toggle debug panel", CategoryEmulator},
	EmulatorSnapshot:        {"snapshot", "Save PNG snapshot", CategoryEmulator},
	EmulatorPauseToggle:     {"pause", "Pause/resume", CategoryEmulator},
	EmulatorStepFrame:       {"step_frame", "Step one frame", CategoryEmulator},
	EmulatorStepInstruction: {"step_instruction", "Step one instruction", CategoryEmulator},
	EmulatorReset:           {"reset", "Reset console", CategoryEmulator},
	EmulatorQuit:            {"quit", "Quit", CategoryEmulator},

	AudioTogglePulse1:   {"toggle_pulse1", "Toggle pulse 1", CategoryAudio},
	AudioTogglePulse2:   {"toggle_pulse2", "Toggle pulse 2", CategoryAudio},
	AudioToggleTriangle: {"toggle_triangle", "Toggle triangle", CategoryAudio},
	AudioToggleNoise:    {"toggle_noise", "Toggle noise", CategoryAudio},
	AudioSoloPulse1:     {"solo_pulse1", "Solo pulse 1", CategoryAudio},
	AudioSoloPulse2:     {"solo_pulse2", "Solo pulse 2", CategoryAudio},
	AudioSoloTriangle:   {"solo_triangle", "Solo triangle", CategoryAudio},
	AudioSoloNoise:      {"solo_noise", "Solo noise", CategoryAudio},
	AudioUnmuteAll:      {"unmute_all", "Unmute all channels", CategoryAudio},
	AudioShowStatus:     {"audio_status", "Log channel status", CategoryAudio},

	DebugLogLevelIncrease: {"log_more", "More verbose logs", CategoryDebug},
	DebugLogLevelDecrease: {"log_less", "Less verbose logs", CategoryDebug},
}

// GetInfo returns the description of act. Unknown actions get an empty
// name and the emulator category.
func GetInfo(act Action) Info {
	if act < 0 || act >= actionCount {
		return Info{Category: CategoryEmulator}
	}
	return infos[act]
}

func (a Action) String() string {
	if name := GetInfo(a).Name; name != "" {
		return name
	}
	return "unknown"
}
