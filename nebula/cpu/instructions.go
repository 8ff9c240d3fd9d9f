package cpu

import (
	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/bit"
)

// implied and single-byte-decoded opcodes
const (
	opBRK  uint8 = 0x00
	opPHP  uint8 = 0x08
	opCLC  uint8 = 0x18
	opJSR  uint8 = 0x20
	opPLP  uint8 = 0x28
	opSEC  uint8 = 0x38
	opRTI  uint8 = 0x40
	opPHA  uint8 = 0x48
	opJMP  uint8 = 0x4C
	opCLI  uint8 = 0x58
	opRTS  uint8 = 0x60
	opPLA  uint8 = 0x68
	opJMPI uint8 = 0x6C
	opSEI  uint8 = 0x78
	opDEY  uint8 = 0x88
	opTXA  uint8 = 0x8A
	opTYA  uint8 = 0x98
	opTXS  uint8 = 0x9A
	opTAY  uint8 = 0xA8
	opTAX  uint8 = 0xAA
	opCLV  uint8 = 0xB8
	opTSX  uint8 = 0xBA
	opINY  uint8 = 0xC8
	opDEX  uint8 = 0xCA
	opCLD  uint8 = 0xD8
	opINX  uint8 = 0xE8
	opNOP  uint8 = 0xEA
	opSED  uint8 = 0xF8
)

// executeImplied handles the opcodes that don't fit the aaabbbcc pattern.
func (c *CPU) executeImplied(opcode uint8) (int, bool) {
	switch opcode {
	case opNOP:
	case opBRK:
		c.pushWord(c.pc + 1)
		c.push(c.p | uint8(breakFlag) | uint8(unusedFlag))
		c.setFlag(interruptFlag)
		c.pc = c.readWord(addr.IRQVector)
	case opJSR:
		// the pushed address is the last byte of the JSR instruction
		c.pushWord(c.pc + 1)
		c.pc = c.readImmediateWord()
	case opRTS:
		c.pc = c.pullWord() + 1
	case opRTI:
		c.p = c.pull()&^uint8(breakFlag) | uint8(unusedFlag)
		c.pc = c.pullWord()
	case opJMP:
		c.pc = c.readImmediateWord()
	case opJMPI:
		ptr := c.readImmediateWord()
		// the high byte never carries into the next page
		wrapped := ptr&0xFF00 | uint16(uint8(ptr)+1)
		c.pc = bit.Combine(c.bus.Read(wrapped), c.bus.Read(ptr))
	case opPHP:
		c.push(c.p | uint8(breakFlag) | uint8(unusedFlag))
	case opPLP:
		c.p = c.pull()&^uint8(breakFlag) | uint8(unusedFlag)
	case opPHA:
		c.push(c.a)
	case opPLA:
		c.a = c.pull()
		c.setZN(c.a)
	case opDEY:
		c.y--
		c.setZN(c.y)
	case opDEX:
		c.x--
		c.setZN(c.x)
	case opINY:
		c.y++
		c.setZN(c.y)
	case opINX:
		c.x++
		c.setZN(c.x)
	case opTAY:
		c.y = c.a
		c.setZN(c.y)
	case opTAX:
		c.x = c.a
		c.setZN(c.x)
	case opTYA:
		c.a = c.y
		c.setZN(c.a)
	case opTXA:
		c.a = c.x
		c.setZN(c.a)
	case opTSX:
		c.x = c.sp
		c.setZN(c.x)
	case opTXS:
		c.sp = c.x
	case opCLC:
		c.resetFlag(carryFlag)
	case opSEC:
		c.setFlag(carryFlag)
	case opCLI:
		c.resetFlag(interruptFlag)
	case opSEI:
		c.setFlag(interruptFlag)
	case opCLV:
		c.resetFlag(overflowFlag)
	case opCLD:
		c.resetFlag(decimalFlag)
	case opSED:
		c.setFlag(decimalFlag)
	default:
		return 0, false
	}
	return 0, true
}

// branch opcodes are xxy10000: xx selects the flag, y the value to compare against.
const (
	branchMask  uint8 = 0x1F
	branchMatch uint8 = 0x10
)

var branchFlags = [4]Flag{negativeFlag, overflowFlag, carryFlag, zeroFlag}

// executeBranch handles the eight relative branches. A taken branch costs one
// more cycle, two if the target is on another page.
func (c *CPU) executeBranch(opcode uint8) (int, bool) {
	if opcode&branchMask != branchMatch {
		return 0, false
	}

	offset := int8(c.readImmediate())
	flag := branchFlags[opcode>>6]
	want := bit.IsSet(5, opcode)
	if c.isSetFlag(flag) != want {
		return 0, true
	}

	target := c.pc + uint16(int16(offset))
	extra := 1
	if !bit.SamePage(c.pc, target) {
		extra++
	}
	c.pc = target
	return extra, true
}

// groups for the aaabbbcc decoding, cc selects the group
const (
	group0 uint8 = 0b00
	group1 uint8 = 0b01
	group2 uint8 = 0b10
)

// group 1 operations (aaa)
const (
	opORA uint8 = iota
	opAND
	opEOR
	opADC
	opSTA
	opLDA
	opCMP
	opSBC
)

// group 2 operations (aaa)
const (
	opASL uint8 = iota
	opROL
	opLSR
	opROR
	opSTX
	opLDX
	opDEC
	opINC
)

// group 0 operations (aaa), 0 and 2-3 are covered by implied/jumps
const (
	opBIT uint8 = 1
	opSTY uint8 = 4
	opLDY uint8 = 5
	opCPY uint8 = 6
	opCPX uint8 = 7
)

// executeGeneric splits the opcode into operation (aaa), addressing mode
// (bbb) and group (cc).
func (c *CPU) executeGeneric(opcode uint8) (int, bool) {
	op := opcode >> 5
	mode := (opcode >> 2) & 0x7

	switch opcode & 0x3 {
	case group1:
		return c.executeGroup1(op, mode), true
	case group2:
		return c.executeGroup2(op, mode)
	case group0:
		return c.executeGroup0(op, mode)
	}
	return 0, false
}

func (c *CPU) executeGroup1(op, mode uint8) int {
	// stores always pay the indexed cycle, which is already in the table
	penalize := op != opSTA

	var location uint16
	extra := 0
	switch mode {
	case 0:
		location = c.indexedIndirect()
	case 1:
		location = c.zeroPage()
	case 2:
		location = c.immediate()
	case 3:
		location = c.absolute()
	case 4:
		var crossed bool
		location, crossed = c.indirectIndexed()
		if penalize && crossed {
			extra = 1
		}
	case 5:
		location = c.zeroPageIndexed(c.x)
	case 6, 7:
		index := c.y
		if mode == 7 {
			index = c.x
		}
		var crossed bool
		location, crossed = c.absoluteIndexed(index)
		if penalize && crossed {
			extra = 1
		}
	}

	switch op {
	case opORA:
		c.a |= c.bus.Read(location)
		c.setZN(c.a)
	case opAND:
		c.a &= c.bus.Read(location)
		c.setZN(c.a)
	case opEOR:
		c.a ^= c.bus.Read(location)
		c.setZN(c.a)
	case opADC:
		c.adc(c.bus.Read(location))
	case opSTA:
		c.bus.Write(location, c.a)
	case opLDA:
		c.a = c.bus.Read(location)
		c.setZN(c.a)
	case opCMP:
		c.compare(c.a, c.bus.Read(location))
	case opSBC:
		c.sbc(c.bus.Read(location))
	}
	return extra
}

// group 2 addressing modes (bbb)
const (
	mode2Immediate   uint8 = 0
	mode2ZeroPage    uint8 = 1
	mode2Accumulator uint8 = 2
	mode2Absolute    uint8 = 3
	mode2Indexed     uint8 = 5
	mode2AbsIndexed  uint8 = 7
)

func (c *CPU) executeGroup2(op, mode uint8) (int, bool) {
	// LDX/STX index with Y instead of X
	index := c.x
	if op == opLDX || op == opSTX {
		index = c.y
	}

	var location uint16
	extra := 0
	switch mode {
	case mode2Immediate:
		location = c.immediate()
	case mode2ZeroPage:
		location = c.zeroPage()
	case mode2Accumulator:
	case mode2Absolute:
		location = c.absolute()
	case mode2Indexed:
		location = c.zeroPageIndexed(index)
	case mode2AbsIndexed:
		var crossed bool
		location, crossed = c.absoluteIndexed(index)
		if op == opLDX && crossed {
			extra = 1
		}
	default:
		return 0, false
	}

	switch op {
	case opASL, opROL, opLSR, opROR:
		if mode == mode2Accumulator {
			c.a = c.shift(op, c.a)
		} else {
			c.bus.Write(location, c.shift(op, c.bus.Read(location)))
		}
	case opSTX:
		c.bus.Write(location, c.x)
	case opLDX:
		c.x = c.bus.Read(location)
		c.setZN(c.x)
	case opDEC:
		value := c.bus.Read(location) - 1
		c.setZN(value)
		c.bus.Write(location, value)
	case opINC:
		value := c.bus.Read(location) + 1
		c.setZN(value)
		c.bus.Write(location, value)
	}
	return extra, true
}

// group 0 addressing modes (bbb)
const (
	mode0Immediate  uint8 = 0
	mode0ZeroPage   uint8 = 1
	mode0Absolute   uint8 = 3
	mode0Indexed    uint8 = 5
	mode0AbsIndexed uint8 = 7
)

func (c *CPU) executeGroup0(op, mode uint8) (int, bool) {
	var location uint16
	extra := 0
	switch mode {
	case mode0Immediate:
		location = c.immediate()
	case mode0ZeroPage:
		location = c.zeroPage()
	case mode0Absolute:
		location = c.absolute()
	case mode0Indexed:
		location = c.zeroPageIndexed(c.x)
	case mode0AbsIndexed:
		var crossed bool
		location, crossed = c.absoluteIndexed(c.x)
		if op == opLDY && crossed {
			extra = 1
		}
	default:
		return 0, false
	}

	switch op {
	case opBIT:
		value := c.bus.Read(location)
		c.setFlagToCondition(zeroFlag, c.a&value == 0)
		c.setFlagToCondition(negativeFlag, value&0x80 != 0)
		c.setFlagToCondition(overflowFlag, value&0x40 != 0)
	case opSTY:
		c.bus.Write(location, c.y)
	case opLDY:
		c.y = c.bus.Read(location)
		c.setZN(c.y)
	case opCPY:
		c.compare(c.y, c.bus.Read(location))
	case opCPX:
		c.compare(c.x, c.bus.Read(location))
	default:
		return 0, false
	}
	return extra, true
}

// adc adds with carry in binary mode; D is ignored on the 2A03.
func (c *CPU) adc(value uint8) {
	sum := uint16(c.a) + uint16(value) + uint16(c.flagToBit(carryFlag))
	result := uint8(sum)

	c.setFlagToCondition(carryFlag, sum > 0xFF)
	// overflow when both operands share a sign the result doesn't
	c.setFlagToCondition(overflowFlag, (c.a^result)&(value^result)&0x80 != 0)
	c.a = result
	c.setZN(c.a)
}

// sbc is adc of the one's complement: A - M - !C.
func (c *CPU) sbc(value uint8) {
	c.adc(^value)
}

func (c *CPU) compare(register, value uint8) {
	c.setFlagToCondition(carryFlag, register >= value)
	c.setZN(register - value)
}

// shift implements ASL, ROL, LSR and ROR.
func (c *CPU) shift(op, value uint8) uint8 {
	carryIn := c.flagToBit(carryFlag)
	var result uint8
	switch op {
	case opASL:
		c.setFlagToCondition(carryFlag, value&0x80 != 0)
		result = value << 1
	case opROL:
		c.setFlagToCondition(carryFlag, value&0x80 != 0)
		result = value<<1 | carryIn
	case opLSR:
		c.setFlagToCondition(carryFlag, value&0x01 != 0)
		result = value >> 1
	case opROR:
		c.setFlagToCondition(carryFlag, value&0x01 != 0)
		result = value>>1 | carryIn<<7
	}
	c.setZN(result)
	return result
}
