package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/nebulaemu/nebula/nebula/backend"
	"github.com/nebulaemu/nebula/nebula/backend/speaker"
	"github.com/nebulaemu/nebula/nebula/backend/terminal/render"
	"github.com/nebulaemu/nebula/nebula/debug"
	"github.com/nebulaemu/nebula/nebula/input"
	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
	"github.com/nebulaemu/nebula/nebula/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	panelWidth     = 40
	registerHeight = 9
	disasmHeight   = 9
	audioHeight    = 4
	logCapacity    = 200

	// Key expiry timeout - slightly longer than typical key repeat interval
	keyTimeout = 100 * time.Millisecond
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	now       func() time.Time

	logBuffer  *render.LogBuffer
	logLevel   slog.Level // display filter for the log panel
	prevLogger *slog.Logger

	config     backend.BackendConfig
	eventQueue []backend.InputEvent

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	signals   chan os.Signal
	speaker   *speaker.Speaker
	disasmBuf *debug.DisasmBuffer
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		newScreen: openTerminal,
		now:       time.Now,
		logLevel:  slog.LevelInfo,
	}
}

func openTerminal() (tcell.Screen, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdout is not a terminal, use --headless")
	}
	if cols, rows, err := term.GetSize(fd); err == nil {
		slog.Debug("Terminal size", "cols", cols, "rows", rows)
	}
	return tcell.NewScreen()
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)
	t.disasmBuf = debug.NewDisasmBuffer(disasmHeight)

	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	// Logs go to the panel while tcell owns the terminal.
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	if config.Audio != nil {
		sp, err := speaker.New(config.Audio)
		if err != nil {
			slog.Warn("Audio disabled", "error", err)
		} else {
			t.speaker = sp
		}
	}

	slog.Info("Terminal backend initialized", "title", config.Title, "debug", config.ShowDebug)
	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.queue(action.EmulatorQuit)
		if t.config.Callbacks.OnQuit != nil {
			t.config.Callbacks.OnQuit()
		}
	default:
	}

	events := t.keyEvents(now)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	t.render(frame)
	t.screen.Show()

	return events, nil
}

// keyEvents turns the key timestamps into Press/Hold/Release events. tcell
// reports no key releases, so a key counts as released once its repeats
// stop for keyTimeout.
func (t *Backend) keyEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		currentlyActive[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	var err error
	if t.speaker != nil {
		err = t.speaker.Close()
	}
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	return err
}

func (t *Backend) queue(act action.Action) {
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// handleLocal consumes the actions that only concern the terminal display.
func (t *Backend) handleLocal(act action.Action) bool {
	switch act {
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		slog.Info("Debug display toggled", "enabled", t.config.ShowDebug)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	default:
		return false
	}
	return true
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if action.GetInfo(act).Category != action.CategoryGameInput {
		if !t.handleLocal(act) {
			t.queue(act)
		}
		return
	}

	if isDirection(act) {
		// d-pad directions are exclusive
		delete(t.keyStates, action.NESDPadUp)
		delete(t.keyStates, action.NESDPadDown)
		delete(t.keyStates, action.NESDPadLeft)
		delete(t.keyStates, action.NESDPadRight)
	}
	t.keyStates[act] = now
}

func isDirection(act action.Action) bool {
	switch act {
	case action.NESDPadUp, action.NESDPadDown, action.NESDPadLeft, action.NESDPadRight:
		return true
	}
	return false
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyTab:    "Tab",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF10:    "F10",
	tcell.KeyF12:    "F12",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

// buildRuneMapping maps every single-character key name, plus the space bar.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for keyName, act := range input.DefaultKeyMap {
		if r := []rune(keyName); len(r) == 1 {
			mapping[r[0]] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	// slog levels are 4 apart; a higher filter shows fewer entries.
	next := t.logLevel - slog.Level(4*direction)
	t.logLevel = min(max(next, slog.LevelDebug), slog.LevelError)
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	availWidth := termWidth
	if t.config.ShowDebug {
		availWidth -= panelWidth + 1
	}
	step := render.FitStep(width, height, availWidth, termHeight-2)
	if step == 0 {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", width/8+panelWidth+1, height/16+2)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := width / step
	panelX := dividerX + 1
	panelW := termWidth - panelX

	t.drawFrame(frame, step)
	t.drawBorders(termWidth, termHeight, dividerX)

	logsY := 1
	if t.config.ShowDebug && t.config.Debug != nil {
		if data := t.config.Debug.ExtractDebugData(); data != nil {
			t.drawRegisters(data, panelX, 1, panelW)
			t.drawDisassembly(data, panelX, registerHeight+2, panelW)
			t.drawAudio(data, panelX, registerHeight+disasmHeight+3, panelW)
			logsY = registerHeight + disasmHeight + audioHeight + 4
		}
	}
	t.drawLogs(panelX, logsY, panelW, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= maxWidth {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " NES "
	if t.config.Title != "" {
		title = " " + t.config.Title + " "
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	if t.config.ShowDebug {
		for _, sep := range []int{registerHeight + 1, registerHeight + disasmHeight + 2, registerHeight + disasmHeight + audioHeight + 3} {
			if sep >= termHeight-1 {
				break
			}
			for x := dividerX + 1; x < termWidth; x++ {
				t.screen.SetContent(x, sep, '─', nil, borderStyle)
			}
			t.screen.SetContent(dividerX, sep, '├', nil, borderStyle)
		}
		t.drawText(dividerX+2, 0, termWidth-dividerX-2, " CPU / PPU ", titleStyle)
	}

	help := " F10=debug SPACE=pause N=step F=frame R=reset F12=snapshot F1-F4=mute +/-=logs ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawFrame(frame *video.FrameBuffer, step int) {
	pixels := frame.ToSlice()
	for row := 0; row*2*step < height; row++ {
		y0 := row * 2 * step
		y1 := y0 + step
		for col := 0; col*step < width; col++ {
			x := col * step
			top := pixels[y0*width+x]
			bottom := top
			if y1 < height {
				bottom = pixels[y1*width+x]
			}

			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(render.PixelRGB(top))).
				Background(tcell.NewRGBColor(render.PixelRGB(bottom)))
			t.screen.SetContent(col, row+1, render.GetHalfBlockChar(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(data *debug.CompleteDebugData, x, y, w int) {
	if data.CPU == nil || data.PPU == nil {
		return
	}
	cpu, ppu := data.CPU, data.PPU

	status := data.DebuggerState.String()
	if data.Halted {
		status = "HALTED: " + data.HaltReason
	}

	lines := []string{
		"Status: " + status,
		fmt.Sprintf("A:$%02X X:$%02X Y:$%02X SP:$%02X", cpu.A, cpu.X, cpu.Y, cpu.SP),
		fmt.Sprintf("PC:$%04X P:$%02X %s", cpu.PC, cpu.P, cpu.Flags),
		fmt.Sprintf("Cycles: %d", cpu.Cycles),
		fmt.Sprintf("Line:%3d Dot:%3d Frame:%d", ppu.Scanline, ppu.Dot, ppu.Frame),
		fmt.Sprintf("v:$%04X t:$%04X x:%d", ppu.V, ppu.T, ppu.FineX),
		fmt.Sprintf("CTRL:$%02X MASK:$%02X STAT:$%02X", ppu.Ctrl, ppu.Mask, ppu.Status),
	}
	if data.OAM != nil {
		lines = append(lines, data.OAM.FormatSummary())
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(x, y+i, w, line, style)
	}
}

func (t *Backend) drawDisassembly(data *debug.CompleteDebugData, x, y, w int) {
	if data.CPU == nil || data.Memory == nil {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := debug.CreateDisassemblyWithBuffer(data.Memory, data.CPU.PC, disasmHeight, t.disasmBuf)
	for i, line := range lines {
		if i >= disasmHeight {
			break
		}
		prefix, useStyle := " ", style
		if line.IsCurrent {
			prefix, useStyle = "→", currentStyle
		}
		t.drawText(x, y+i, w, fmt.Sprintf("%s$%04X: %s", prefix, line.Address, line.Instruction), useStyle)
	}
}

func (t *Backend) drawAudio(data *debug.CompleteDebugData, x, y, w int) {
	if data.Audio == nil {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	for i, ch := range data.Audio.Channels {
		t.drawText(x, y+i, w, ch.String(), style)
	}
}

func (t *Backend) drawLogs(x, y, w, termHeight int) {
	availableHeight := termHeight - y - 1
	if w <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	row := 0
	for _, entry := range t.logBuffer.GetRecent(availableHeight * 4) {
		if row >= availableHeight {
			break
		}
		if entry.Level < t.logLevel {
			continue
		}

		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		text := render.FormatLogEntry(entry)
		if runes := []rune(text); len(runes) > w && w > 3 {
			text = string(runes[:w-3]) + "..."
		}
		t.drawText(x, y+row, w, text, style)
		row++
	}
}
