package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry is one captured log record, attributes already flattened.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer keeps the last N entries. The terminal reads it from the render
// loop while any goroutine may log, so access is locked.
type LogBuffer struct {
	mu   sync.Mutex
	ring []LogEntry
	next int
	full bool
}

func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{ring: make([]LogEntry, size)}
}

func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.ring[lb.next] = entry
	lb.next++
	if lb.next == len(lb.ring) {
		lb.next = 0
		lb.full = true
	}
}

func (lb *LogBuffer) len() int {
	if lb.full {
		return len(lb.ring)
	}
	return lb.next
}

// GetRecent returns up to maxCount entries, newest first. maxCount <= 0
// returns everything held.
func (lb *LogBuffer) GetRecent(maxCount int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	n := lb.len()
	if n == 0 {
		return nil
	}
	if maxCount > 0 {
		n = min(n, maxCount)
	}

	out := make([]LogEntry, 0, n)
	for i := lb.next - 1; len(out) < n; i-- {
		if i < 0 {
			i += len(lb.ring)
		}
		out = append(out, lb.ring[i])
	}
	return out
}

func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.next, lb.full = 0, false
}

// LogBufferHandler is a slog.Handler that captures logs to a LogBuffer.
// Attributes are flattened into the message as key=value pairs.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	attrs  string
	group  string
}

// NewLogBufferHandler creates a new handler that writes to the given buffer
func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{
		buffer: buffer,
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level
func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle processes a log record
func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, a)
		return true
	})

	h.buffer.Add(LogEntry{Time: record.Time, Level: record.Level, Message: sb.String()})
	return nil
}

func (h *LogBufferHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value)
}

func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		h.writeAttr(&sb, a)
	}
	clone.attrs = sb.String()
	return &clone
}

func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// FormatLogEntry renders an entry as "15:04:05.000 [INF] message".
func FormatLogEntry(entry LogEntry) string {
	var tag string
	switch {
	case entry.Level < slog.LevelInfo:
		tag = "DBG"
	case entry.Level < slog.LevelWarn:
		tag = "INF"
	case entry.Level < slog.LevelError:
		tag = "WRN"
	default:
		tag = "ERR"
	}
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05.000"), tag, entry.Message)
}
