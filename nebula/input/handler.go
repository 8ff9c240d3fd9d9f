package input

import (
	"time"

	"github.com/nebulaemu/nebula/nebula/input/action"
	"github.com/nebulaemu/nebula/nebula/input/event"
)

const debounceDuration = 300 * time.Millisecond

// Handler debounces repeated presses of UI actions. Terminals deliver key
// repeats as fresh presses, which would otherwise toggle pause or the debug
// panel several times per keystroke. Controller buttons are never debounced.
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  debounceDuration,
		now:            time.Now,
	}
}

// ProcessEvent reports whether the event should be handled (false if it
// was debounced).
func (h *Handler) ProcessEvent(act action.Action, evt event.Type) bool {
	if evt != event.Press || action.GetInfo(act).Category == action.CategoryGameInput {
		return true
	}

	now := h.now()
	if lastTime, exists := h.lastActionTime[act]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[act] = now
	return true
}
