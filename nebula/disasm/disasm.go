package disasm

import (
	"fmt"

	"github.com/nebulaemu/nebula/nebula/bit"
)

// Memory is the side-effect free view of the CPU address space needed to
// disassemble live code.
type Memory interface {
	Peek(address uint16) uint8
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// InstructionLength returns the total byte length of the instruction
// starting with op. Unknown opcodes count as one data byte.
func InstructionLength(op uint8) int {
	info, ok := opcodes[op]
	if !ok {
		return 1
	}
	return 1 + operandBytes[info.mode]
}

// format renders an instruction given its opcode and up to two operand
// bytes. address is where the opcode lives, for branch targets.
func format(address uint16, op, lo, hi uint8) string {
	info, ok := opcodes[op]
	if !ok {
		return fmt.Sprintf(".DB $%02X", op)
	}

	word := bit.Combine(hi, lo)
	switch info.mode {
	case implied:
		return info.name
	case accumulator:
		return info.name + " A"
	case immediate:
		return fmt.Sprintf("%s #$%02X", info.name, lo)
	case zeroPage:
		return fmt.Sprintf("%s $%02X", info.name, lo)
	case zeroPageX:
		return fmt.Sprintf("%s $%02X,X", info.name, lo)
	case zeroPageY:
		return fmt.Sprintf("%s $%02X,Y", info.name, lo)
	case absolute:
		return fmt.Sprintf("%s $%04X", info.name, word)
	case absoluteX:
		return fmt.Sprintf("%s $%04X,X", info.name, word)
	case absoluteY:
		return fmt.Sprintf("%s $%04X,Y", info.name, word)
	case indirect:
		return fmt.Sprintf("%s ($%04X)", info.name, word)
	case indexedIndirect:
		return fmt.Sprintf("%s ($%02X,X)", info.name, lo)
	case indirectIndexed:
		return fmt.Sprintf("%s ($%02X),Y", info.name, lo)
	case relative:
		target := address + 2 + uint16(int8(lo))
		return fmt.Sprintf("%s $%04X", info.name, target)
	}
	return info.name
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, mem Memory) DisassemblyLine {
	op := mem.Peek(pc)
	length := InstructionLength(op)

	var lo, hi uint8
	if length > 1 {
		lo = mem.Peek(pc + 1)
	}
	if length > 2 {
		hi = mem.Peek(pc + 2)
	}

	return DisassemblyLine{
		Address:     pc,
		Instruction: format(pc, op, lo, hi),
		Length:      length,
	}
}

// DisassembleRange disassembles count instructions starting from startPC.
// The address wraps at 0xFFFF like the CPU's program counter.
func DisassembleRange(startPC uint16, count int, mem Memory) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for range count {
		line := DisassembleAt(pc, mem)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleBytes decodes the instruction at data[offset], which lives at
// CPU address address. Operands cut off by the end of data read as zero.
func DisassembleBytes(data []byte, offset int, address uint16) (string, int) {
	if offset < 0 || offset >= len(data) {
		return "??", 1
	}

	op := data[offset]
	length := InstructionLength(op)
	var lo, hi uint8
	if length > 1 && offset+1 < len(data) {
		lo = data[offset+1]
	}
	if length > 2 && offset+2 < len(data) {
		hi = data[offset+2]
	}
	return format(address, op, lo, hi), length
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}
