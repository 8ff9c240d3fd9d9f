package cpu

import (
	"fmt"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/bit"
	"github.com/nebulaemu/nebula/nebula/fault"
)

// Bus is the CPU's view of the address space.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Flag is a bit of the processor status register P.
type Flag uint8

const (
	carryFlag     Flag = 0x01
	zeroFlag      Flag = 0x02
	interruptFlag Flag = 0x04
	decimalFlag   Flag = 0x08
	breakFlag     Flag = 0x10
	unusedFlag    Flag = 0x20
	overflowFlag  Flag = 0x40
	negativeFlag  Flag = 0x80
)

const (
	powerOnStatus uint8  = 0x34
	powerOnSP     uint8  = 0xFD
	stackPage     uint16 = 0x0100

	interruptCycles = 7
)

// CPU is a 2A03 core: a 6502 without decimal arithmetic.
//
// Step advances one clock. An instruction runs entirely on its first cycle
// and the remaining cycles are paid off as debt on the following Steps, so
// interrupt lines are only sampled between instructions.
type CPU struct {
	// registers
	a  uint8
	x  uint8
	y  uint8
	sp uint8
	p  uint8
	pc uint16

	// interrupt lines, latched until serviced
	nmiPending bool
	irqPending bool

	// metadata
	debt          int
	cycles        uint64
	currentOpcode uint8

	bus Bus
}

// New returns a CPU wired to bus. Reset must be called once the bus can
// serve the reset vector.
func New(bus Bus) *CPU {
	return &CPU{
		bus: bus,
		sp:  powerOnSP,
		p:   powerOnStatus,
	}
}

// Reset reinitializes the registers and jumps through the reset vector.
func (c *CPU) Reset() {
	c.a, c.x, c.y = 0, 0, 0
	c.sp = powerOnSP
	c.p = powerOnStatus
	c.pc = c.readWord(addr.ResetVector)
	c.nmiPending = false
	c.irqPending = false
	c.debt = 0
}

// RequestInterrupt raises an interrupt line. It is observed at the next
// instruction boundary.
func (c *CPU) RequestInterrupt(interrupt addr.Interrupt) {
	switch interrupt {
	case addr.NMI:
		c.nmiPending = true
	case addr.IRQ:
		c.irqPending = true
	default:
		panic(fmt.Sprintf("Unknown interrupt: 0x%02X", uint8(interrupt)))
	}
}

// ClearInterrupt drops a pending IRQ whose source was acknowledged before
// the CPU serviced it. NMI is edge triggered and cannot be withdrawn.
func (c *CPU) ClearInterrupt(interrupt addr.Interrupt) {
	if interrupt == addr.IRQ {
		c.irqPending = false
	}
}

// Stall suspends the CPU for the given number of cycles on top of whatever
// it still owes. Used by OAM DMA.
func (c *CPU) Stall(cycles int) {
	c.debt += cycles
}

// Step advances the CPU by exactly one clock cycle.
func (c *CPU) Step() {
	c.cycles++

	if c.debt > 0 {
		c.debt--
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(addr.NMIVector)
		c.debt += interruptCycles - 1
		return
	}
	if c.irqPending && !c.isSetFlag(interruptFlag) {
		c.irqPending = false
		c.interrupt(addr.IRQVector)
		c.debt += interruptCycles - 1
		return
	}

	opcodePC := c.pc
	opcode := c.readImmediate()
	c.currentOpcode = opcode

	base := opcodeCycles[opcode]
	if base == 0 {
		panic(fault.Opcode(opcodePC, opcode))
	}

	extra, ok := c.executeImplied(opcode)
	if !ok {
		extra, ok = c.executeBranch(opcode)
	}
	if !ok {
		extra, ok = c.executeGeneric(opcode)
	}
	if !ok {
		panic(fault.Opcode(opcodePC, opcode))
	}

	c.debt += base + extra - 1
}

// interrupt pushes PC and P (with B clear) and jumps through vector.
func (c *CPU) interrupt(vector uint16) {
	c.pushWord(c.pc)
	c.push((c.p &^ uint8(breakFlag)) | uint8(unusedFlag))
	c.setFlag(interruptFlag)
	c.pc = c.readWord(vector)
}

// readImmediate returns the byte at PC and advances PC.
func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

// readImmediateWord returns the little endian word at PC and advances PC twice.
func (c *CPU) readImmediateWord() uint16 {
	nn := c.readWord(c.pc)
	c.pc += 2
	return nn
}

func (c *CPU) readWord(address uint16) uint16 {
	low := c.bus.Read(address)
	high := c.bus.Read(address + 1)
	return bit.Combine(high, low)
}

func (c *CPU) push(value uint8) {
	c.bus.Write(stackPage|uint16(c.sp), value)
	c.sp--
}

func (c *CPU) pull() uint8 {
	c.sp++
	return c.bus.Read(stackPage | uint16(c.sp))
}

func (c *CPU) pushWord(value uint16) {
	c.push(bit.High(value))
	c.push(bit.Low(value))
}

func (c *CPU) pullWord() uint16 {
	low := c.pull()
	high := c.pull()
	return bit.Combine(high, low)
}

func (c *CPU) setFlag(flag Flag) {
	c.p |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.p &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.p&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
		return
	}
	c.resetFlag(flag)
}

func (c *CPU) setZN(value uint8) {
	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

// Debug getter methods for register display
func (c *CPU) GetA() uint8       { return c.a }
func (c *CPU) GetX() uint8       { return c.x }
func (c *CPU) GetY() uint8       { return c.y }
func (c *CPU) GetP() uint8       { return c.p }
func (c *CPU) GetSP() uint8      { return c.sp }
func (c *CPU) GetPC() uint16     { return c.pc }
func (c *CPU) GetCycles() uint64 { return c.cycles }

// SetPC moves execution to pc. The next instruction fetch happens once the
// current debt is paid.
func (c *CPU) SetPC(pc uint16) { c.pc = pc }

// Cycles is the number of clocks stepped since power on.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Debt is the number of cycles left before the next instruction boundary.
func (c *CPU) Debt() int { return c.debt }

// PendingNMI and PendingIRQ report the latched interrupt lines.
func (c *CPU) PendingNMI() bool { return c.nmiPending }
func (c *CPU) PendingIRQ() bool { return c.irqPending }

// GetFlagString returns a human-readable representation of P, NV-BDIZC.
func (c *CPU) GetFlagString() string {
	const names = "NV-BDIZC"
	out := []byte(names)
	for i := range 8 {
		if c.p&(0x80>>i) == 0 {
			out[i] = '-'
		}
	}
	return string(out)
}
