package debug

// CPUState contains all CPU register information for debugging
type CPUState struct {
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8

	PC     uint16
	Cycles uint64
	Flags  string
}

// PPUState captures the PPU timing position and internal registers.
type PPUState struct {
	Scanline int
	Dot      int
	Frame    uint64

	Ctrl    uint8
	Mask    uint8
	Status  uint8
	OAMAddr uint8

	V     uint16
	T     uint16
	FineX uint8
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step-instruction"
	case DebuggerStepFrame:
		return "step-frame"
	default:
		return "unknown"
	}
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	OAM           *OAMData
	CPU           *CPUState
	PPU           *PPUState
	Audio         *AudioData
	Memory        *MemorySnapshot
	DebuggerState DebuggerState
	Halted        bool
	HaltReason    string
}
