// Package testrom reads the result conventions of NES test ROMs.
//
// Most of blargg's ROMs report through battery RAM: a status byte at $6000,
// the signature DE B0 61 at $6001-$6003 and NUL-terminated text from $6004.
// nestest instead leaves its error codes in zero page.
package testrom

import (
	"log/slog"
	"strings"
)

const (
	statusAddr    = 0x6000
	signatureAddr = 0x6001
	textAddr      = 0x6004
	textEnd       = 0x7FFF

	statusRunning    = 0x80
	statusNeedsReset = 0x81
)

var signature = [3]uint8{0xDE, 0xB0, 0x61}

// Peeker reads memory without side effects.
type Peeker interface {
	Peek(address uint16) uint8
}

// Status is the state a test ROM reports.
type Status int

const (
	// Absent means the signature is not written (yet).
	Absent Status = iota
	Running
	NeedsReset
	Passed
	Failed
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Running:
		return "running"
	case NeedsReset:
		return "needs-reset"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Monitor polls the $6000 protocol and logs the text output line by line.
type Monitor struct {
	mem    Peeker
	logger *slog.Logger

	code   uint8
	logged int // bytes of text already logged
}

type MonitorOption func(*Monitor)

// WithLogger sends the ROM's text output to logger instead of the default.
func WithLogger(logger *slog.Logger) MonitorOption {
	return func(m *Monitor) { m.logger = logger }
}

func NewMonitor(mem Peeker, opts ...MonitorOption) *Monitor {
	m := &Monitor{mem: mem, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Poll reads the current status and logs any completed output lines.
func (m *Monitor) Poll() Status {
	for i, b := range signature {
		if m.mem.Peek(signatureAddr+uint16(i)) != b {
			return Absent
		}
	}

	m.logLines()

	m.code = m.mem.Peek(statusAddr)
	switch m.code {
	case statusRunning:
		return Running
	case statusNeedsReset:
		return NeedsReset
	case 0:
		return Passed
	default:
		return Failed
	}
}

// Code is the raw status byte seen by the last Poll. Values below 0x80 are
// the ROM's result code.
func (m *Monitor) Code() uint8 {
	return m.code
}

// Text returns the output written so far.
func (m *Monitor) Text() string {
	var sb strings.Builder
	for a := uint16(textAddr); a < textEnd; a++ {
		b := m.mem.Peek(a)
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func (m *Monitor) logLines() {
	text := m.Text()
	if len(text) < m.logged {
		// ROM restarted its output
		m.logged = 0
	}
	pending := text[m.logged:]
	for {
		i := strings.IndexAny(pending, "\r\n")
		if i < 0 {
			return
		}
		if line := pending[:i]; line != "" {
			m.logger.Info("test rom", "line", line)
		}
		m.logged += i + 1
		pending = pending[i+1:]
	}
}

// NestestResult returns the official and unofficial opcode error codes that
// nestest stores at $02 and $03. Zero means no failure.
func NestestResult(mem Peeker) (official, unofficial uint8) {
	return mem.Peek(0x0002), mem.Peek(0x0003)
}
