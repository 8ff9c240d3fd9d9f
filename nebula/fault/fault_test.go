package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := Opcode(0xC123, 0x02)
	assert.Equal(t, "unknown opcode at 0xC123: opcode 0x02", err.Error())

	bare := &Error{Kind: UnmappedAccess, Addr: 0x4800}
	assert.Equal(t, "unmapped access at 0x4800", bare.Error())
}

func TestIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading rom: %w", New(UnsupportedContainer, 0, "trainer present"))

	assert.True(t, Is(wrapped, UnsupportedContainer))
	assert.False(t, Is(wrapped, UnknownOpcode))
	assert.False(t, Is(errors.New("plain"), UnsupportedContainer))
}

func TestRecover(t *testing.T) {
	run := func(f func()) (err error) {
		defer Recover(&err)
		f()
		return nil
	}

	err := run(func() { panic(New(MissingBatteryRAM, 0x6000, "read")) })
	assert.True(t, Is(err, MissingBatteryRAM))

	assert.NoError(t, run(func() {}))

	assert.Panics(t, func() {
		_ = run(func() { panic("not a fault") })
	})
}
