package debug

import (
	"github.com/nebulaemu/nebula/nebula/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// DisasmBuffer holds pre-allocated buffers for disassembly lines
type DisasmBuffer struct {
	Lines    []DisasmLine
	AllLines []DisasmLine
}

func NewDisasmBuffer(maxLines int) *DisasmBuffer {
	return &DisasmBuffer{
		Lines:    make([]DisasmLine, 0, maxLines),
		AllLines: make([]DisasmLine, 0, maxLines*3),
	}
}

func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	return CreateDisassemblyWithBuffer(snapshot, pc, maxLines, NewDisasmBuffer(maxLines))
}

// CreateDisassemblyWithBuffer decodes the snapshot and returns up to maxLines
// lines centered on pc. Decoding starts at a fixed distance before pc, so
// the lines leading up to it may be misaligned on data bytes; the line
// closest to pc is used as the center when pc itself is not decoded.
func CreateDisassemblyWithBuffer(snapshot *MemorySnapshot, pc uint16, maxLines int, buf *DisasmBuffer) []DisasmLine {
	if snapshot == nil || maxLines <= 0 {
		return nil
	}

	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	if int(pc) < int(snapshot.StartAddr) || int(pc) >= end {
		buf.Lines = buf.Lines[:0]
		for i := 0; i < len(snapshot.Bytes) && len(buf.Lines) < maxLines-1; {
			text, length := disasm.DisassembleBytes(snapshot.Bytes, i, snapshot.StartAddr+uint16(i))
			buf.Lines = append(buf.Lines, DisasmLine{Address: snapshot.StartAddr + uint16(i), Instruction: text})
			i += length
		}
		buf.Lines = append(buf.Lines, DisasmLine{
			Address:     pc,
			Instruction: "[PC outside snapshot range]",
			IsCurrent:   true,
		})
		return buf.Lines
	}

	pcOffset := int(pc - snapshot.StartAddr)
	startOffset := max(pcOffset-30, 0)

	buf.AllLines = buf.AllLines[:0]
	for i := startOffset; i < len(snapshot.Bytes); {
		address := snapshot.StartAddr + uint16(i)
		text, length := disasm.DisassembleBytes(snapshot.Bytes, i, address)
		buf.AllLines = append(buf.AllLines, DisasmLine{
			Address:     address,
			Instruction: text,
			IsCurrent:   address == pc,
		})
		i += length
		if address > pc && len(buf.AllLines) > maxLines*2 {
			break
		}
	}
	if len(buf.AllLines) == 0 {
		return nil
	}

	center := 0
	closest := 0x10000
	for i, line := range buf.AllLines {
		dist := int(line.Address) - int(pc)
		if dist < 0 {
			dist = -dist
		}
		if dist < closest {
			closest = dist
			center = i
		}
	}

	startIdx := center - maxLines/2
	endIdx := center + maxLines/2 + 1
	if startIdx < 0 {
		startIdx = 0
		endIdx = maxLines
	}
	if endIdx > len(buf.AllLines) {
		endIdx = len(buf.AllLines)
		startIdx = max(endIdx-maxLines, 0)
	}

	buf.Lines = buf.Lines[:0]
	buf.Lines = append(buf.Lines, buf.AllLines[startIdx:endIdx]...)
	return buf.Lines
}
