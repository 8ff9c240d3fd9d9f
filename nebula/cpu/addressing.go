package cpu

import "github.com/nebulaemu/nebula/nebula/bit"

// Addressing modes resolve an effective address and advance PC past the
// operand. Indexed modes also report whether indexing crossed a page.

func (c *CPU) immediate() uint16 {
	location := c.pc
	c.pc++
	return location
}

func (c *CPU) zeroPage() uint16 {
	return uint16(c.readImmediate())
}

// zeroPageIndexed wraps within page zero.
func (c *CPU) zeroPageIndexed(index uint8) uint16 {
	return uint16(c.readImmediate() + index)
}

func (c *CPU) absolute() uint16 {
	return c.readImmediateWord()
}

func (c *CPU) absoluteIndexed(index uint8) (uint16, bool) {
	base := c.readImmediateWord()
	location := base + uint16(index)
	return location, !bit.SamePage(base, location)
}

// indexedIndirect is (zp,X): the pointer is read from page zero, wrapping.
func (c *CPU) indexedIndirect() uint16 {
	zp := c.readImmediate() + c.x
	return c.readZeroPageWord(zp)
}

// indirectIndexed is (zp),Y: the zero page pointer is indexed by Y.
func (c *CPU) indirectIndexed() (uint16, bool) {
	base := c.readZeroPageWord(c.readImmediate())
	location := base + uint16(c.y)
	return location, !bit.SamePage(base, location)
}

func (c *CPU) readZeroPageWord(zp uint8) uint16 {
	low := c.bus.Read(uint16(zp))
	high := c.bus.Read(uint16(zp + 1))
	return bit.Combine(high, low)
}
