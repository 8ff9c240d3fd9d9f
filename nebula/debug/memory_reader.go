package debug

// MemoryReader provides side-effect free access to the CPU address space.
// Reads through it must never clear latches or advance buffers.
type MemoryReader interface {
	Peek(addr uint16) uint8
}

// SnapshotAround copies the bytes from pc-before up to pc+after. The window
// is clipped at both ends of the address space instead of wrapping.
func SnapshotAround(reader MemoryReader, pc uint16, before, after int) *MemorySnapshot {
	start := int(pc) - before
	if start < 0 {
		start = 0
	}
	end := int(pc) + after
	if end > 0xFFFF {
		end = 0xFFFF
	}

	bytes := make([]uint8, 0, end-start+1)
	for a := start; a <= end; a++ {
		bytes = append(bytes, reader.Peek(uint16(a)))
	}
	return &MemorySnapshot{StartAddr: uint16(start), Bytes: bytes}
}
