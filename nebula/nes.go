package nebula

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nebulaemu/nebula/nebula/audio"
	"github.com/nebulaemu/nebula/nebula/backend"
	"github.com/nebulaemu/nebula/nebula/cpu"
	"github.com/nebulaemu/nebula/nebula/debug"
	"github.com/nebulaemu/nebula/nebula/fault"
	"github.com/nebulaemu/nebula/nebula/input"
	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/memory"
	"github.com/nebulaemu/nebula/nebula/timing"
	"github.com/nebulaemu/nebula/nebula/video"
)

const (
	ppuDotsPerCPUCycle = 3

	debugBytesBeforePC = 32
	debugBytesAfterPC  = 64
)

// Options configures a session.
type Options struct {
	Limiter timing.LimiterKind
	// SavePath receives the battery RAM on Close. Empty disables saving.
	SavePath string
	// LogLevel, when set, is adjusted by the log level actions.
	LogLevel *slog.LevelVar
}

// NES is the console: it owns every chip and drives them from one
// goroutine, one CPU cycle at a time.
type NES struct {
	cpu  *cpu.CPU
	ppu  *video.PPU
	apu  *audio.APU
	mmu  *memory.MMU
	cart *memory.Cartridge

	input   *input.Manager
	clock   timing.Clock
	limiter timing.Limiter
	opts    Options

	// paced sessions advance by measured wall-clock time; unpaced ones run
	// a whole frame per iteration as fast as the host allows.
	paced       bool
	now         func() time.Time
	lastAdvance time.Time

	debuggerState debug.DebuggerState
	halted        error
}

// NewWithFile loads an iNES file, and its battery save when present, and
// powers the console on.
func NewWithFile(path string, opts Options) (*NES, error) {
	cart, err := memory.LoadCartridge(path)
	if err != nil {
		return nil, err
	}
	if opts.SavePath == "" && cart.HasBattery() {
		opts.SavePath = memory.SavePath(path)
	}
	return New(cart, opts)
}

// New builds a console around cart and runs the reset sequence.
func New(cart *memory.Cartridge, opts Options) (*NES, error) {
	limiter, err := timing.NewLimiter(opts.Limiter)
	if err != nil {
		return nil, err
	}

	mmu, err := memory.NewWithCartridge(cart)
	if err != nil {
		return nil, err
	}

	e := &NES{
		mmu:     mmu,
		cart:    cart,
		limiter: limiter,
		opts:    opts,
		paced:   opts.Limiter != timing.LimiterNone,
		now:     time.Now,
	}
	e.cpu = cpu.New(mmu)
	e.ppu = video.New(mmu.Mapper(), e.cpu)
	e.apu = audio.New(e.cpu)
	mmu.Attach(e.ppu, e.apu, e.cpu)

	e.input = input.NewManager(mmu.Joypads[0])
	e.registerActions()

	if err := e.Reset(); err != nil {
		return nil, err
	}

	slog.Info("Console powered on", "mapper", mmu.Mapper().Kind(), "pc", fmt.Sprintf("0x%04X", e.cpu.GetPC()))
	return e, nil
}

// Reset runs the reset sequence on every chip. RAM and VRAM keep their
// contents, as on the real console.
func (e *NES) Reset() (err error) {
	defer fault.Recover(&err)

	e.ppu.Reset()
	e.apu.Reset()
	e.cpu.Reset()
	e.clock.Reset()
	e.halted = nil
	return nil
}

func (e *NES) registerActions() {
	e.input.On(action.EmulatorPauseToggle, event.Press, e.togglePause)
	e.input.On(action.EmulatorStepFrame, event.Press, func() { e.debuggerState = debug.DebuggerStepFrame })
	e.input.On(action.EmulatorStepInstruction, event.Press, func() { e.debuggerState = debug.DebuggerStepInstruction })
	e.input.On(action.EmulatorReset, event.Press, func() {
		if err := e.Reset(); err != nil {
			slog.Error("Reset failed", "error", err)
		}
	})
	e.input.On(action.EmulatorSnapshot, event.Press, func() { debug.TakeSnapshot(e.GetCurrentFrame()) })

	e.registerAudioActions(e.apu)
	e.input.On(action.AudioShowStatus, event.Press, e.logAudioStatus)

	e.input.On(action.DebugLogLevelIncrease, event.Press, func() { e.shiftLogLevel(-4) })
	e.input.On(action.DebugLogLevelDecrease, event.Press, func() { e.shiftLogLevel(4) })
}

// registerAudioActions binds the channel mute keys to p.
func (e *NES) registerAudioActions(p audio.Provider) {
	channelActions := []struct {
		toggle, solo action.Action
		channel      int
	}{
		{action.AudioTogglePulse1, action.AudioSoloPulse1, audio.ChannelPulse1},
		{action.AudioTogglePulse2, action.AudioSoloPulse2, audio.ChannelPulse2},
		{action.AudioToggleTriangle, action.AudioSoloTriangle, audio.ChannelTriangle},
		{action.AudioToggleNoise, action.AudioSoloNoise, audio.ChannelNoise},
	}
	for _, ca := range channelActions {
		channel := ca.channel
		e.input.On(ca.toggle, event.Press, func() { p.ToggleChannel(channel) })
		e.input.On(ca.solo, event.Press, func() { p.SoloChannel(channel) })
	}
	e.input.On(action.AudioUnmuteAll, event.Press, p.UnmuteAll)
}

func (e *NES) togglePause() {
	if e.debuggerState == debug.DebuggerRunning {
		e.debuggerState = debug.DebuggerPaused
		slog.Info("Emulation paused")
		return
	}
	e.debuggerState = debug.DebuggerRunning
	e.limiter.Reset()
	e.lastAdvance = e.now()
	slog.Info("Emulation resumed")
}

func (e *NES) shiftLogLevel(delta slog.Level) {
	if e.opts.LogLevel == nil {
		return
	}
	level := min(max(e.opts.LogLevel.Level()+delta, slog.LevelDebug), slog.LevelError)
	e.opts.LogLevel.Set(level)
	slog.Info("Log level changed", "level", level)
}

func (e *NES) logAudioStatus() {
	p1, p2, tri, noise := e.apu.GetChannelStatus()
	data := debug.ExtractAudioData(e.apu)
	slog.Info("Audio mix", "pulse1", p1, "pulse2", p2, "triangle", tri, "noise", noise,
		"rate", data.SampleRate, "dropped", data.DroppedSamples)
	for _, ch := range data.Channels {
		slog.Info("Audio channel", "status", ch.String())
	}
}

// tick advances the console by one CPU cycle without fault recovery.
func (e *NES) tick() {
	e.cpu.Step()
	for range ppuDotsPerCPUCycle {
		e.ppu.Step()
	}
	e.apu.Step()
}

// halt records a fault so later calls keep failing with it.
func (e *NES) halt(err *error) {
	if *err != nil {
		e.halted = *err
		slog.Error("Emulation halted", "error", *err, "pc", fmt.Sprintf("0x%04X", e.cpu.GetPC()))
	}
}

// Tick advances the console by one CPU cycle: one CPU step, three PPU dots
// and one APU step.
func (e *NES) Tick() (err error) {
	if e.halted != nil {
		return e.halted
	}
	defer e.halt(&err)
	defer fault.Recover(&err)

	e.tick()
	return nil
}

// RunFor ticks for the number of CPU cycles that fit in d, carrying the
// fraction of a cycle over to the next call.
func (e *NES) RunFor(d time.Duration) (err error) {
	if e.halted != nil {
		return e.halted
	}
	defer e.halt(&err)
	defer fault.Recover(&err)

	for n := e.clock.Ticks(d); n > 0; n-- {
		e.tick()
	}
	return nil
}

// RunUntilFrame ticks until the PPU publishes a complete frame.
func (e *NES) RunUntilFrame() (err error) {
	if e.halted != nil {
		return e.halted
	}
	defer e.halt(&err)
	defer fault.Recover(&err)

	for !e.ppu.ConsumeFrame() {
		e.tick()
	}
	return nil
}

// StepInstruction runs until the CPU finishes the instruction (or interrupt
// entry) it starts on the next cycle.
func (e *NES) StepInstruction() (err error) {
	if e.halted != nil {
		return e.halted
	}
	defer e.halt(&err)
	defer fault.Recover(&err)

	e.tick()
	for e.cpu.Debt() > 0 {
		e.tick()
	}
	return nil
}

// Run drives the console, presenting the latest frame through b once per
// limiter period. A paced session runs exactly the CPU cycles that fit in
// the wall-clock time since the previous iteration, so emulation speed
// follows the real clock rather than the limiter's frame rate. It returns
// nil when the backend asks to quit or ctx is cancelled, and the fault when
// emulation halts.
func (e *NES) Run(ctx context.Context, b backend.Backend) error {
	e.limiter.Reset()
	e.lastAdvance = e.now()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Run loop cancelled", "frames", e.FrameCount())
			return nil
		default:
		}

		if err := e.advance(); err != nil {
			return err
		}

		events, err := b.Update(e.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}
		for _, evt := range events {
			if evt.Action == action.EmulatorQuit && evt.Type == event.Press {
				slog.Info("Quit requested", "frames", e.FrameCount())
				return nil
			}
			e.HandleAction(evt.Action, evt.Type)
		}

		e.limiter.WaitForNextFrame()
	}
}

// advance runs the amount of emulation the debugger state allows.
func (e *NES) advance() error {
	switch e.debuggerState {
	case debug.DebuggerRunning:
		if !e.paced {
			return e.RunUntilFrame()
		}
		now := e.now()
		elapsed := now.Sub(e.lastAdvance)
		e.lastAdvance = now
		if err := e.RunFor(elapsed); err != nil {
			return err
		}
		// The backend shows the newest frame; the flag only marks that one
		// completed, and must not leak into a later frame step.
		e.ppu.ConsumeFrame()
		return nil
	case debug.DebuggerStepFrame:
		e.debuggerState = debug.DebuggerPaused
		return e.RunUntilFrame()
	case debug.DebuggerStepInstruction:
		e.debuggerState = debug.DebuggerPaused
		return e.StepInstruction()
	}
	return nil
}

// HandleAction feeds one input event to the controller or the session.
func (e *NES) HandleAction(act action.Action, evt event.Type) {
	e.input.Trigger(act, evt)
}

// Close persists battery RAM when the cartridge has it.
func (e *NES) Close() error {
	if e.opts.SavePath == "" {
		return nil
	}
	return e.cart.SaveBattery(e.opts.SavePath)
}

func (e *NES) GetCurrentFrame() *video.FrameBuffer {
	return e.ppu.GetCurrentFrame()
}

func (e *NES) FrameCount() uint64 {
	return e.ppu.FrameCount()
}

// Audio exposes the APU sample stream for audio backends.
func (e *NES) Audio() backend.AudioSource {
	return e.apu
}

// Joypad returns controller port 1 or 2.
func (e *NES) Joypad(port int) (*memory.Joypad, error) {
	if port < 1 || port > len(e.mmu.Joypads) {
		return nil, fmt.Errorf("invalid controller port %d: want 1 or 2", port)
	}
	return e.mmu.Joypads[port-1], nil
}

// Peek reads CPU memory without side effects.
func (e *NES) Peek(address uint16) uint8 {
	return e.mmu.Peek(address)
}

// JumpTo moves the program counter, for ROMs with alternate entry points.
func (e *NES) JumpTo(pc uint16) {
	slog.Debug("Program counter moved", "from", fmt.Sprintf("0x%04X", e.cpu.GetPC()), "to", fmt.Sprintf("0x%04X", pc))
	e.cpu.SetPC(pc)
}

// Halted returns the fault that stopped emulation, if any.
func (e *NES) Halted() error {
	return e.halted
}

func (e *NES) DebuggerState() debug.DebuggerState {
	return e.debuggerState
}

// ExtractDebugData snapshots the console state for debug displays.
func (e *NES) ExtractDebugData() *debug.CompleteDebugData {
	pc := e.cpu.GetPC()

	spriteHeight := 8
	if e.ppu.GetCtrl()&0x20 != 0 {
		spriteHeight = 16
	}

	data := &debug.CompleteDebugData{
		CPU: &debug.CPUState{
			A:      e.cpu.GetA(),
			X:      e.cpu.GetX(),
			Y:      e.cpu.GetY(),
			P:      e.cpu.GetP(),
			SP:     e.cpu.GetSP(),
			PC:     pc,
			Cycles: e.cpu.GetCycles(),
			Flags:  e.cpu.GetFlagString(),
		},
		PPU: &debug.PPUState{
			Scanline: e.ppu.Scanline(),
			Dot:      e.ppu.Dot(),
			Frame:    e.ppu.FrameCount(),
			Ctrl:     e.ppu.GetCtrl(),
			Mask:     e.ppu.GetMask(),
			Status:   e.ppu.GetStatus(),
			OAMAddr:  e.ppu.GetOAMAddr(),
			V:        e.ppu.GetV(),
			T:        e.ppu.GetT(),
			FineX:    e.ppu.GetFineX(),
		},
		OAM:           debug.ExtractOAMData(e.ppu.OAM(), e.ppu.Scanline(), spriteHeight),
		Audio:         debug.ExtractAudioData(e.apu),
		Memory:        debug.SnapshotAround(e.mmu, pc, debugBytesBeforePC, debugBytesAfterPC),
		DebuggerState: e.debuggerState,
		Halted:        e.halted != nil,
	}
	if e.halted != nil {
		data.HaltReason = e.halted.Error()
	}
	return data
}
