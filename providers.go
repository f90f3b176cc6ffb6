package vtcore

import (
	"io"
	"sync"
)

// ResponseProvider writes terminal responses (e.g., cursor position reports) back to the PTY.
// Typically an io.Writer connected to the PTY input.
type ResponseProvider = io.Writer

// NoopResponse discards all response data (useful when responses are not needed).
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// --- Bell Provider ---

// BellProvider handles bell/beep events triggered by BEL (0x07) characters.
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- Title Provider ---

// TitleProvider handles window title changes (OSC 0, 1, 2).
type TitleProvider interface {
	// SetTitle is called when the title changes.
	SetTitle(title string)
	// PushTitle saves the current title to the stack.
	PushTitle()
	// PopTitle restores the title from the stack.
	PopTitle()
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

// --- APC Provider ---

// APCProvider handles Application Program Command sequences (ESC _).
type APCProvider interface {
	// Receive is called with the payload of an APC sequence.
	Receive(data []byte)
}

// NoopAPC ignores all APC sequences.
type NoopAPC struct{}

func (NoopAPC) Receive(data []byte) {}

// --- PM Provider ---

// PMProvider handles Privacy Message sequences (ESC ^).
type PMProvider interface {
	// Receive is called with the payload of a PM sequence.
	Receive(data []byte)
}

// NoopPM ignores all PM sequences.
type NoopPM struct{}

func (NoopPM) Receive(data []byte) {}

// --- SOS Provider ---

// SOSProvider handles Start of String sequences (ESC X).
type SOSProvider interface {
	// Receive is called with the payload of a SOS sequence.
	Receive(data []byte)
}

// NoopSOS ignores all SOS sequences.
type NoopSOS struct{}

func (NoopSOS) Receive(data []byte) {}

// Ensure implementations satisfy their interfaces
var _ ResponseProvider = NoopResponse{}

// ClipboardProvider handles clipboard read/write operations (OSC 52).
type ClipboardProvider interface {
	// Read returns content from the specified clipboard ('c' for clipboard, 'p' for primary selection).
	Read(clipboard byte) string
	// Write stores content to the specified clipboard.
	Write(clipboard byte, data []byte)
}

// ScrollbackProvider stores lines scrolled off the top of the primary buffer.
// Implementations can use in-memory storage, disk, database, etc.
type ScrollbackProvider interface {
	// Push appends a line to scrollback. Oldest lines should be removed if MaxLines is exceeded.
	Push(line []Cell)
	// Len returns the current number of stored lines.
	Len() int
	// Line returns the line at index, where 0 is the oldest line. Returns nil if out of range.
	Line(index int) []Cell
	// Clear removes all stored lines.
	Clear()
	// SetMaxLines sets the maximum capacity. Implementations should trim oldest lines if needed.
	SetMaxLines(max int)
	// MaxLines returns the current maximum capacity.
	MaxLines() int
}

// scrollbackPopper is an optional ScrollbackProvider capability: storage
// that can hand back its most recent line lets a growing Resize restore
// evicted content instead of exposing blank rows.
type scrollbackPopper interface {
	// Pop removes and returns the newest stored line, or nil when empty.
	Pop() []Cell
}

// --- Clipboard Implementations ---

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

// --- Scrollback Implementations ---

// NoopScrollback discards all scrollback lines (useful for alternate buffer which has no scrollback).
type NoopScrollback struct{}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) SetMaxLines(max int)   {}
func (NoopScrollback) MaxLines() int         { return 0 }

// MemoryScrollback is an in-memory ring buffer of evicted rows, bounded
// by maxLines. Index 0 is always the oldest retained line.
type MemoryScrollback struct {
	mu       sync.Mutex
	lines    [][]Cell
	maxLines int
}

// NewMemoryScrollback creates a scrollback store retaining at most
// maxLines rows. A non-positive maxLines means unbounded.
func NewMemoryScrollback(maxLines int) *MemoryScrollback {
	return &MemoryScrollback{maxLines: maxLines}
}

// Push appends line, evicting the oldest line if the store is at capacity.
func (s *MemoryScrollback) Push(line []Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, line)
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		overflow := len(s.lines) - s.maxLines
		s.lines = s.lines[overflow:]
	}
}

// Len returns the number of retained lines.
func (s *MemoryScrollback) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Line returns the line at index (0 is oldest), or nil if out of range.
func (s *MemoryScrollback) Line(index int) []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.lines) {
		return nil
	}
	return s.lines[index]
}

// Pop removes and returns the newest retained line, or nil when empty.
func (s *MemoryScrollback) Pop() []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return nil
	}
	line := s.lines[len(s.lines)-1]
	s.lines = s.lines[:len(s.lines)-1]
	return line
}

// Clear removes all retained lines.
func (s *MemoryScrollback) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// SetMaxLines changes the retention bound, trimming existing lines from
// the front if the new bound is smaller.
func (s *MemoryScrollback) SetMaxLines(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLines = max
	if max > 0 && len(s.lines) > max {
		overflow := len(s.lines) - max
		s.lines = s.lines[overflow:]
	}
}

// MaxLines returns the current retention bound (non-positive means
// unbounded).
func (s *MemoryScrollback) MaxLines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxLines
}

// --- Recording Provider ---

// RecordingProvider captures raw input bytes before ANSI parsing for replay or debugging.
type RecordingProvider interface {
	// Record appends raw bytes to the recording.
	Record(data []byte)
	// Data returns all captured bytes since the last Clear call.
	Data() []byte
	// Clear discards all recorded data.
	Clear()
}

// NoopRecording discards all input recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// --- Logger ---

// Logger receives diagnostics for recoverable conditions: unsupported
// sequences, clamped parameters, and clamped cursor/column positions.
// The core never aborts on these; it only reports them.
type Logger interface {
	// Debugf logs an unsupported-but-harmless condition, such as an
	// unrecognized escape sequence being discarded.
	Debugf(format string, args ...any)
	// Warnf logs a condition that required clamping or another
	// corrective action to keep the terminal state consistent.
	Warnf(format string, args ...any)
}

// NoopLogger discards all diagnostics.
type NoopLogger struct{}

func (NoopLogger) Debugf(format string, args ...any) {}
func (NoopLogger) Warnf(format string, args ...any)  {}

// --- Renderer Provider ---

// RendererProvider is the notification protocol a front-end subscribes
// to in order to learn what changed without polling the whole screen
// after every write.
type RendererProvider interface {
	// RowChanged is called when a row's content is modified in place.
	RowChanged(row int)
	// RowInserted is called when a new row appears at the given index.
	RowInserted(row int)
	// RowRemoved is called when a row is evicted (e.g. to scrollback).
	RowRemoved(row int)
	// CursorMoved is called whenever the cursor's position changes.
	CursorMoved(row, col int)
	// TitleChanged is called when the window or icon title changes.
	TitleChanged(title string)
	// Bell is called on BEL.
	Bell()
	// ClipboardWrite is called when the host stores clipboard content
	// via OSC 52.
	ClipboardWrite(clipboard byte, data []byte)
}

// NoopRenderer discards all renderer notifications.
type NoopRenderer struct{}

func (NoopRenderer) RowChanged(row int)                         {}
func (NoopRenderer) RowInserted(row int)                        {}
func (NoopRenderer) RowRemoved(row int)                         {}
func (NoopRenderer) CursorMoved(row, col int)                   {}
func (NoopRenderer) TitleChanged(title string)                  {}
func (NoopRenderer) Bell()                                      {}
func (NoopRenderer) ClipboardWrite(clipboard byte, data []byte) {}

// --- Size Provider ---

// SizeProvider answers pixel-level queries (current font cell size),
// consulted by the Sixel/Kitty graphics decoders when a sequence omits
// explicit pixel dimensions.
type SizeProvider interface {
	// CellSizePixels returns the renderer's current font cell size in
	// pixels. A zero value means "unknown"; callers fall back to a
	// built-in default.
	CellSizePixels() (width, height int)
}

// Ensure implementations satisfy their interfaces
var _ BellProvider = (*NoopBell)(nil)
var _ TitleProvider = (*NoopTitle)(nil)
var _ APCProvider = (*NoopAPC)(nil)
var _ PMProvider = (*NoopPM)(nil)
var _ SOSProvider = (*NoopSOS)(nil)
var _ ClipboardProvider = (*NoopClipboard)(nil)
var _ ScrollbackProvider = (*NoopScrollback)(nil)
var _ RecordingProvider = (*NoopRecording)(nil)
var _ Logger = (*NoopLogger)(nil)
var _ RendererProvider = (*NoopRenderer)(nil)
var _ ScrollbackProvider = (*MemoryScrollback)(nil)
