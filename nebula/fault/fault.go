// Package fault defines the closed set of fatal conditions the emulator core
// can hit. Engines panic with *Error at the point of detection; the session
// recovers them and hands them back to its caller as ordinary errors.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal condition.
type Kind int

const (
	// UnsupportedContainer covers bad magic, NES 2.0 headers, trainers and unknown mappers.
	UnsupportedContainer Kind = iota
	// UnknownOpcode is an opcode outside the official 6502 set.
	UnknownOpcode
	// UnmappedAccess is a CPU or PPU access to a range the core does not implement.
	UnmappedAccess
	// UnsupportedMirroring is a nametable access under single-screen or four-screen wiring.
	UnsupportedMirroring
	// MissingBatteryRAM is an access to 0x6000-0x7FFF on a cartridge without battery RAM.
	MissingBatteryRAM
)

func (k Kind) String() string {
	switch k {
	case UnsupportedContainer:
		return "unsupported container"
	case UnknownOpcode:
		return "unknown opcode"
	case UnmappedAccess:
		return "unmapped access"
	case UnsupportedMirroring:
		return "unsupported mirroring"
	case MissingBatteryRAM:
		return "missing battery RAM"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a fatal emulation condition.
type Error struct {
	Kind  Kind
	Addr  uint16
	Value uint8
	Msg   string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s at 0x%04X", e.Kind, e.Addr)
	}
	return fmt.Sprintf("%s at 0x%04X: %s", e.Kind, e.Addr, e.Msg)
}

// New builds an Error with a formatted message.
func New(kind Kind, address uint16, format string, args ...any) *Error {
	return &Error{Kind: kind, Addr: address, Msg: fmt.Sprintf(format, args...)}
}

// Opcode builds an UnknownOpcode error for the opcode fetched at pc.
func Opcode(pc uint16, opcode uint8) *Error {
	return &Error{Kind: UnknownOpcode, Addr: pc, Value: opcode, Msg: fmt.Sprintf("opcode 0x%02X", opcode)}
}

// Is reports whether err wraps a fault of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// Recover converts a recovered *Error panic value into err. Any other panic
// value is re-raised. Intended for use as `defer fault.Recover(&err)`.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if fe, ok := r.(*Error); ok {
		*err = fe
		return
	}
	panic(r)
}
