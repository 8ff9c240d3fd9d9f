package nebula

import (
	"testing"

	"github.com/nebulaemu/nebula/nebula/backend"
	"github.com/nebulaemu/nebula/nebula/backend/headless"
	"github.com/nebulaemu/nebula/nebula/memory"
	"github.com/nebulaemu/nebula/nebula/timing"
)

// busyProgram renders with background and sprites on and keeps the CPU
// writing to RAM so every chip does work.
var busyProgram = []byte{
	0xA9, 0x1E, // LDA #$1E
	0x8D, 0x01, 0x20, // STA $2001
	0xE8,             // INX
	0x9D, 0x00, 0x03, // STA $0300,X
	0x4C, 0x05, 0x80, // JMP $8005
}

func BenchmarkEmulatorHeadless(b *testing.B) {
	cases := []struct {
		name   string
		frames int
	}{
		{"frames_10", 10},
		{"frames_100", 100},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			cart, err := memory.NewCartridgeWithData(buildROM(busyProgram, 0))
			if err != nil {
				b.Fatalf("Failed to load cartridge: %v", err)
			}
			emu, err := New(cart, Options{Limiter: timing.LimiterNone})
			if err != nil {
				b.Fatalf("Failed to create emulator: %v", err)
			}

			// Use large frame count to avoid quit condition allocations
			hBackend := headless.New(tc.frames*(b.N+1), headless.SnapshotConfig{})
			if err := hBackend.Init(backend.BackendConfig{Title: "Benchmark"}); err != nil {
				b.Fatalf("Failed to initialize backend: %v", err)
			}
			defer hBackend.Cleanup()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				for range tc.frames {
					if err := emu.RunUntilFrame(); err != nil {
						b.Fatalf("Emulation failed: %v", err)
					}
					if _, err := hBackend.Update(emu.GetCurrentFrame()); err != nil {
						b.Fatalf("Backend update failed: %v", err)
					}
					emu.apu.Samples()
				}
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	cart, err := memory.NewCartridgeWithData(buildROM(busyProgram, 0))
	if err != nil {
		b.Fatal(err)
	}
	emu, err := New(cart, Options{Limiter: timing.LimiterNone})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		emu.tick()
	}
}
