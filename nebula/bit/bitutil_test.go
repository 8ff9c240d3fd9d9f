package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x80, 0x00, 0x8000},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 7, true},
		{0b10101010, 8, false},
	}

	for _, tt := range tests {
		result := IsSet(tt.index, tt.byte)
		if result != tt.expected {
			t.Errorf("IsSet(%d, %08b) = %v; want %v", tt.index, tt.byte, result, tt.expected)
		}
	}
}

func TestSetAndClear(t *testing.T) {
	tests := []struct {
		byte       uint8
		index      uint8
		set, clear uint8
	}{
		{0b10101010, 0, 0b10101011, 0b10101010},
		{0b10101010, 1, 0b10101010, 0b10101000},
		{0b10101010, 7, 0b10101010, 0b00101010},
		{0b10101010, 8, 0b10101010, 0b10101010},
	}

	for _, tt := range tests {
		if got := Set(tt.index, tt.byte); got != tt.set {
			t.Errorf("Set(%d, %08b) = %08b; want %08b", tt.index, tt.byte, got, tt.set)
		}
		if got := Clear(tt.index, tt.byte); got != tt.clear {
			t.Errorf("Clear(%d, %08b) = %08b; want %08b", tt.index, tt.byte, got, tt.clear)
		}
		if got := SetTo(tt.index, tt.byte, true); got != tt.set {
			t.Errorf("SetTo(%d, %08b, true) = %08b; want %08b", tt.index, tt.byte, got, tt.set)
		}
		if got := SetTo(tt.index, tt.byte, false); got != tt.clear {
			t.Errorf("SetTo(%d, %08b, false) = %08b; want %08b", tt.index, tt.byte, got, tt.clear)
		}
	}
}

func TestGetBitValue(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected uint8
	}{
		{0b10101010, 0, 0},
		{0b10101010, 1, 1},
		{0b10101010, 7, 1},
	}

	for _, tt := range tests {
		result := GetBitValue(tt.index, tt.byte)
		if result != tt.expected {
			t.Errorf("GetBitValue(%d, %08b) = %d; want %d", tt.index, tt.byte, result, tt.expected)
		}
	}
}

func TestLowHigh(t *testing.T) {
	tests := []struct {
		value     uint16
		low, high uint8
	}{
		{0xABCD, 0xCD, 0xAB},
		{0x0000, 0x00, 0x00},
		{0xFFFF, 0xFF, 0xFF},
	}

	for _, tt := range tests {
		if got := Low(tt.value); got != tt.low {
			t.Errorf("Low(%X) = %X; want %X", tt.value, got, tt.low)
		}
		if got := High(tt.value); got != tt.high {
			t.Errorf("High(%X) = %X; want %X", tt.value, got, tt.high)
		}
	}
}

func TestSamePage(t *testing.T) {
	if !SamePage(0x12FF, 0x1200) {
		t.Error("0x12FF and 0x1200 share a page")
	}
	if SamePage(0x12FF, 0x1300) {
		t.Error("0x12FF and 0x1300 are on different pages")
	}
}

func TestReverse(t *testing.T) {
	tests := []struct{ in, out uint8 }{
		{0b00000001, 0b10000000},
		{0b11000000, 0b00000011},
		{0b10110000, 0b00001101},
		{0xFF, 0xFF},
		{0x00, 0x00},
	}
	for _, tt := range tests {
		if got := Reverse(tt.in); got != tt.out {
			t.Errorf("Reverse(%08b) = %08b; want %08b", tt.in, got, tt.out)
		}
	}
}
