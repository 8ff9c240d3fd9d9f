package disasm

type mode uint8

const (
	implied mode = iota
	accumulator
	immediate
	zeroPage
	zeroPageX
	zeroPageY
	absolute
	absoluteX
	absoluteY
	indirect
	indexedIndirect
	indirectIndexed
	relative
)

// operandBytes is the operand length for each addressing mode.
var operandBytes = [...]int{
	implied:         0,
	accumulator:     0,
	immediate:       1,
	zeroPage:        1,
	zeroPageX:       1,
	zeroPageY:       1,
	absolute:        2,
	absoluteX:       2,
	absoluteY:       2,
	indirect:        2,
	indexedIndirect: 1,
	indirectIndexed: 1,
	relative:        1,
}

type opcode struct {
	name string
	mode mode
}

// opcodes holds the 151 official instructions. Missing entries are
// undocumented and disassemble as data bytes.
var opcodes = map[uint8]opcode{
	0x69: {"ADC", immediate}, 0x65: {"ADC", zeroPage}, 0x75: {"ADC", zeroPageX}, 0x6D: {"ADC", absolute},
	0x7D: {"ADC", absoluteX}, 0x79: {"ADC", absoluteY}, 0x61: {"ADC", indexedIndirect}, 0x71: {"ADC", indirectIndexed},

	0x29: {"AND", immediate}, 0x25: {"AND", zeroPage}, 0x35: {"AND", zeroPageX}, 0x2D: {"AND", absolute},
	0x3D: {"AND", absoluteX}, 0x39: {"AND", absoluteY}, 0x21: {"AND", indexedIndirect}, 0x31: {"AND", indirectIndexed},

	0x0A: {"ASL", accumulator}, 0x06: {"ASL", zeroPage}, 0x16: {"ASL", zeroPageX}, 0x0E: {"ASL", absolute}, 0x1E: {"ASL", absoluteX},

	0x90: {"BCC", relative}, 0xB0: {"BCS", relative}, 0xF0: {"BEQ", relative}, 0x30: {"BMI", relative},
	0xD0: {"BNE", relative}, 0x10: {"BPL", relative}, 0x50: {"BVC", relative}, 0x70: {"BVS", relative},

	0x24: {"BIT", zeroPage}, 0x2C: {"BIT", absolute},
	0x00: {"BRK", implied},

	0x18: {"CLC", implied}, 0xD8: {"CLD", implied}, 0x58: {"CLI", implied}, 0xB8: {"CLV", implied},

	0xC9: {"CMP", immediate}, 0xC5: {"CMP", zeroPage}, 0xD5: {"CMP", zeroPageX}, 0xCD: {"CMP", absolute},
	0xDD: {"CMP", absoluteX}, 0xD9: {"CMP", absoluteY}, 0xC1: {"CMP", indexedIndirect}, 0xD1: {"CMP", indirectIndexed},

	0xE0: {"CPX", immediate}, 0xE4: {"CPX", zeroPage}, 0xEC: {"CPX", absolute},
	0xC0: {"CPY", immediate}, 0xC4: {"CPY", zeroPage}, 0xCC: {"CPY", absolute},

	0xC6: {"DEC", zeroPage}, 0xD6: {"DEC", zeroPageX}, 0xCE: {"DEC", absolute}, 0xDE: {"DEC", absoluteX},
	0xCA: {"DEX", implied}, 0x88: {"DEY", implied},

	0x49: {"EOR", immediate}, 0x45: {"EOR", zeroPage}, 0x55: {"EOR", zeroPageX}, 0x4D: {"EOR", absolute},
	0x5D: {"EOR", absoluteX}, 0x59: {"EOR", absoluteY}, 0x41: {"EOR", indexedIndirect}, 0x51: {"EOR", indirectIndexed},

	0xE6: {"INC", zeroPage}, 0xF6: {"INC", zeroPageX}, 0xEE: {"INC", absolute}, 0xFE: {"INC", absoluteX},
	0xE8: {"INX", implied}, 0xC8: {"INY", implied},

	0x4C: {"JMP", absolute}, 0x6C: {"JMP", indirect},
	0x20: {"JSR", absolute},

	0xA9: {"LDA", immediate}, 0xA5: {"LDA", zeroPage}, 0xB5: {"LDA", zeroPageX}, 0xAD: {"LDA", absolute},
	0xBD: {"LDA", absoluteX}, 0xB9: {"LDA", absoluteY}, 0xA1: {"LDA", indexedIndirect}, 0xB1: {"LDA", indirectIndexed},

	0xA2: {"LDX", immediate}, 0xA6: {"LDX", zeroPage}, 0xB6: {"LDX", zeroPageY}, 0xAE: {"LDX", absolute}, 0xBE: {"LDX", absoluteY},
	0xA0: {"LDY", immediate}, 0xA4: {"LDY", zeroPage}, 0xB4: {"LDY", zeroPageX}, 0xAC: {"LDY", absolute}, 0xBC: {"LDY", absoluteX},

	0x4A: {"LSR", accumulator}, 0x46: {"LSR", zeroPage}, 0x56: {"LSR", zeroPageX}, 0x4E: {"LSR", absolute}, 0x5E: {"LSR", absoluteX},

	0xEA: {"NOP", implied},

	0x09: {"ORA", immediate}, 0x05: {"ORA", zeroPage}, 0x15: {"ORA", zeroPageX}, 0x0D: {"ORA", absolute},
	0x1D: {"ORA", absoluteX}, 0x19: {"ORA", absoluteY}, 0x01: {"ORA", indexedIndirect}, 0x11: {"ORA", indirectIndexed},

	0x48: {"PHA", implied}, 0x08: {"PHP", implied}, 0x68: {"PLA", implied}, 0x28: {"PLP", implied},

	0x2A: {"ROL", accumulator}, 0x26: {"ROL", zeroPage}, 0x36: {"ROL", zeroPageX}, 0x2E: {"ROL", absolute}, 0x3E: {"ROL", absoluteX},
	0x6A: {"ROR", accumulator}, 0x66: {"ROR", zeroPage}, 0x76: {"ROR", zeroPageX}, 0x6E: {"ROR", absolute}, 0x7E: {"ROR", absoluteX},

	0x40: {"RTI", implied}, 0x60: {"RTS", implied},

	0xE9: {"SBC", immediate}, 0xE5: {"SBC", zeroPage}, 0xF5: {"SBC", zeroPageX}, 0xED: {"SBC", absolute},
	0xFD: {"SBC", absoluteX}, 0xF9: {"SBC", absoluteY}, 0xE1: {"SBC", indexedIndirect}, 0xF1: {"SBC", indirectIndexed},

	0x38: {"SEC", implied}, 0xF8: {"SED", implied}, 0x78: {"SEI", implied},

	0x85: {"STA", zeroPage}, 0x95: {"STA", zeroPageX}, 0x8D: {"STA", absolute}, 0x9D: {"STA", absoluteX},
	0x99: {"STA", absoluteY}, 0x81: {"STA", indexedIndirect}, 0x91: {"STA", indirectIndexed},

	0x86: {"STX", zeroPage}, 0x96: {"STX", zeroPageY}, 0x8E: {"STX", absolute},
	0x84: {"STY", zeroPage}, 0x94: {"STY", zeroPageX}, 0x8C: {"STY", absolute},

	0xAA: {"TAX", implied}, 0xA8: {"TAY", implied}, 0xBA: {"TSX", implied},
	0x8A: {"TXA", implied}, 0x9A: {"TXS", implied}, 0x98: {"TYA", implied},
}
