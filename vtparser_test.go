package vtcore

import (
	"strings"
	"testing"
)

func TestParserPlainText(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello\r\nWorld")

	if term.LineContent(0) != "Hello" {
		t.Errorf("expected 'Hello', got '%s'", term.LineContent(0))
	}
	if term.LineContent(1) != "World" {
		t.Errorf("expected 'World', got '%s'", term.LineContent(1))
	}
	row, col := term.CursorPos()
	if row != 1 || col != 5 {
		t.Errorf("expected cursor at (1, 5), got (%d, %d)", row, col)
	}
}

func TestParserEraseInLine(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDE")
	term.WriteString("\x1b[1;3H") // cursor to (0, 2)
	term.WriteString("\x1b[0K")

	if term.LineContent(0) != "AB" {
		t.Errorf("expected 'AB', got '%s'", term.LineContent(0))
	}
	row, col := term.CursorPos()
	if row != 0 || col != 2 {
		t.Errorf("expected cursor unchanged at (0, 2), got (%d, %d)", row, col)
	}
}

func TestParserEraseInLineLeft(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDE")
	term.WriteString("\x1b[1;3H")
	term.WriteString("\x1b[1K")

	// Columns 0-2 erased, D and E survive.
	if term.LineContent(0) != "   DE" {
		t.Errorf("expected '   DE', got '%s'", term.LineContent(0))
	}
}

func TestParserSGRBoldRedThenReset(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[1;31mX\x1b[0mY")

	x := term.Cell(0, 0)
	if x.Char != 'X' {
		t.Fatalf("expected 'X', got %q", x.Char)
	}
	if !x.HasFlag(CellFlagBold) {
		t.Error("expected bold flag on X")
	}
	fg, ok := x.Fg.(*NamedColor)
	if !ok || fg.Name != 1 {
		t.Errorf("expected red (palette 1) foreground, got %#v", x.Fg)
	}

	y := term.Cell(0, 1)
	if y.Char != 'Y' {
		t.Fatalf("expected 'Y', got %q", y.Char)
	}
	if y.HasFlag(CellFlagBold) {
		t.Error("expected Y without bold")
	}
	yfg, ok := y.Fg.(*NamedColor)
	if !ok || yfg.Name != NamedColorForeground {
		t.Errorf("expected default foreground on Y, got %#v", y.Fg)
	}
}

func TestParserDECGraphics(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b(0lq\x1b(Bl")

	if c := term.Cell(0, 0); c.Char != '┌' {
		t.Errorf("expected U+250C, got %q", c.Char)
	}
	if c := term.Cell(0, 1); c.Char != '─' {
		t.Errorf("expected U+2500, got %q", c.Char)
	}
	if c := term.Cell(0, 2); c.Char != 'l' {
		t.Errorf("expected literal 'l' after reverting to ASCII, got %q", c.Char)
	}
}

func TestParserShiftOutShiftIn(t *testing.T) {
	term := New(WithSize(24, 80))

	// Designate DEC graphics into G1, select it with SO, back with SI.
	term.WriteString("\x1b)0\x0eq\x0fq")

	if c := term.Cell(0, 0); c.Char != '─' {
		t.Errorf("expected line-drawing q via G1, got %q", c.Char)
	}
	if c := term.Cell(0, 1); c.Char != 'q' {
		t.Errorf("expected literal q after SI, got %q", c.Char)
	}
}

func TestParserSingleShift(t *testing.T) {
	term := New(WithSize(24, 80))

	// Designate DEC graphics into G2; SS2 applies it for one scalar only.
	term.WriteString("\x1b*0\x1bNqq")

	if c := term.Cell(0, 0); c.Char != '─' {
		t.Errorf("expected line-drawing q via SS2, got %q", c.Char)
	}
	if c := term.Cell(0, 1); c.Char != 'q' {
		t.Errorf("expected literal q after one-shot expired, got %q", c.Char)
	}
}

func TestParserWrapAndReverseWrap(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString(strings.Repeat("X", 81))

	if c := term.Cell(1, 0); c.Char != 'X' {
		t.Errorf("expected wrapped X at (1, 0), got %q", c.Char)
	}
	row, col := term.CursorPos()
	if row != 1 || col != 1 {
		t.Errorf("expected cursor at (1, 1), got (%d, %d)", row, col)
	}
	if !term.IsWrapped(0) {
		t.Error("expected row 0 marked wrapped")
	}

	// Reverse wraparound: BS at column 0 moves to the end of the
	// previous row.
	term.WriteString("\x1b[?45h\x08\x08")

	row, col = term.CursorPos()
	if row != 0 || col != 79 {
		t.Errorf("expected cursor at (0, 79) after reverse wrap, got (%d, %d)", row, col)
	}
}

func TestParserBackspaceStopsAtColumnZero(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("AB\r\n\x08")

	row, col := term.CursorPos()
	if row != 1 || col != 0 {
		t.Errorf("expected cursor pinned at (1, 0), got (%d, %d)", row, col)
	}
}

func TestParserAlternateScreen1049(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("some text")
	term.WriteString("\x1b[6;11H") // cursor to (5, 10)

	term.WriteString("\x1b[?1049h")

	if !term.IsAlternateScreen() {
		t.Fatal("expected alternate screen")
	}
	if term.LineContent(0) != "" {
		t.Error("expected alternate screen blank")
	}
	row, col := term.CursorPos()
	if row != 0 || col != 0 {
		t.Errorf("expected cursor at (0, 0) on alternate, got (%d, %d)", row, col)
	}

	term.WriteString("\x1b[?1049l")

	if term.IsAlternateScreen() {
		t.Fatal("expected primary screen")
	}
	if term.LineContent(0) != "some text" {
		t.Errorf("expected primary content restored, got '%s'", term.LineContent(0))
	}
	row, col = term.CursorPos()
	if row != 5 || col != 10 {
		t.Errorf("expected cursor restored to (5, 10), got (%d, %d)", row, col)
	}
}

// Feeding a byte stream one byte at a time must land in exactly the
// same state as feeding it whole: parser state (including a split
// UTF-8 rune, CSI, and OSC) survives chunk boundaries.
func TestParserChunkInsensitivity(t *testing.T) {
	input := "héllo\x1b[2;31m中\x1b[0m\x1b]2;chunked\x07\x1b(0q\x1b(B!"

	whole := New(WithSize(24, 80))
	whole.WriteString(input)

	split := New(WithSize(24, 80))
	for _, b := range []byte(input) {
		split.Write([]byte{b})
	}

	if whole.String() != split.String() {
		t.Errorf("screen mismatch:\nwhole: %q\nsplit: %q", whole.String(), split.String())
	}
	wr, wc := whole.CursorPos()
	sr, sc := split.CursorPos()
	if wr != sr || wc != sc {
		t.Errorf("cursor mismatch: whole (%d, %d), split (%d, %d)", wr, wc, sr, sc)
	}
	if whole.Title() != split.Title() {
		t.Errorf("title mismatch: %q vs %q", whole.Title(), split.Title())
	}
	if whole.Title() != "chunked" {
		t.Errorf("expected title 'chunked', got %q", whole.Title())
	}
}

func TestParserChunkInsensitivityArbitraryPartitions(t *testing.T) {
	input := "\x1b[4;7r\x1b[?6h\x1b[2;2Habc\x1b[1Kあ\x1b[m!"

	whole := New(WithSize(24, 80))
	whole.WriteString(input)

	for _, size := range []int{1, 2, 3, 5, 7} {
		split := New(WithSize(24, 80))
		data := []byte(input)
		for len(data) > 0 {
			n := size
			if n > len(data) {
				n = len(data)
			}
			split.Write(data[:n])
			data = data[n:]
		}

		if whole.String() != split.String() {
			t.Errorf("chunk size %d: screen mismatch:\nwhole: %q\nsplit: %q", size, whole.String(), split.String())
		}
		wr, wc := whole.CursorPos()
		sr, sc := split.CursorPos()
		if wr != sr || wc != sc {
			t.Errorf("chunk size %d: cursor mismatch: (%d, %d) vs (%d, %d)", size, wr, wc, sr, sc)
		}
	}
}

// RIS from a dirtied terminal must behave like a fresh one for any
// subsequent sequence.
func TestParserResetIdempotent(t *testing.T) {
	sequence := "\x1b[3;10r\x1b[1;35mstate\x1b(0qq\x1b[5;5Hmore"

	dirty := New(WithSize(24, 80))
	dirty.WriteString("\x1b[7mjunk\x1b[2;2H\x1b]2;old\x07")
	dirty.WriteString("\x1bc")
	dirty.WriteString(sequence)

	fresh := New(WithSize(24, 80))
	fresh.WriteString(sequence)

	if dirty.String() != fresh.String() {
		t.Errorf("screen mismatch after RIS:\nreset: %q\nfresh: %q", dirty.String(), fresh.String())
	}
	dr, dc := dirty.CursorPos()
	fr, fc := fresh.CursorPos()
	if dr != fr || dc != fc {
		t.Errorf("cursor mismatch after RIS: (%d, %d) vs (%d, %d)", dr, dc, fr, fc)
	}
}

func TestParserRepeatLastGraphic(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ab\x1b[3b")

	if term.LineContent(0) != "abbbb" {
		t.Errorf("expected 'abbbb', got '%s'", term.LineContent(0))
	}
}

func TestParserRepeatWithNothingPrinted(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[5b")

	if term.LineContent(0) != "" {
		t.Errorf("expected REP before any graphic to be a no-op, got '%s'", term.LineContent(0))
	}
}

func TestParserDeviceAttributes(t *testing.T) {
	var responses []byte
	term := New(WithSize(24, 80), WithResponse(&testWriter{data: &responses}))

	term.WriteString("\x1b[c")
	if string(responses) != "\x1b[?62;c" {
		t.Errorf("unexpected DA1 response: %q", responses)
	}

	responses = responses[:0]
	term.WriteString("\x1b[>c")
	if string(responses) != "\x1b[>1;10;0c" {
		t.Errorf("unexpected DA2 response: %q", responses)
	}
}

func TestParserCursorPositionReport(t *testing.T) {
	var responses []byte
	term := New(WithSize(24, 80), WithResponse(&testWriter{data: &responses}))

	term.WriteString("\x1b[4;8H\x1b[6n")

	if string(responses) != "\x1b[4;8R" {
		t.Errorf("unexpected DSR response: %q", responses)
	}
}

func TestParserScrollingRegion(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[5;10r")

	top, bottom := term.ScrollRegion()
	if top != 4 || bottom != 10 {
		t.Errorf("expected region [4, 10), got [%d, %d)", top, bottom)
	}
	row, col := term.CursorPos()
	if row != 0 || col != 0 {
		t.Errorf("expected cursor home after DECSTBM, got (%d, %d)", row, col)
	}
}

func TestParserOriginModeClampsToRegion(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[5;10r\x1b[?6h")

	// Addressing is now relative to the top margin, pinned inside it.
	term.WriteString("\x1b[2;3H")
	row, col := term.CursorPos()
	if row != 5 || col != 2 {
		t.Errorf("expected cursor at (5, 2), got (%d, %d)", row, col)
	}

	term.WriteString("\x1b[99;1H")
	row, _ = term.CursorPos()
	if row != 9 {
		t.Errorf("expected cursor pinned to bottom margin row 9, got %d", row)
	}
}

func TestParserTabStops(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\t")
	if _, col := term.CursorPos(); col != 8 {
		t.Errorf("expected tab to column 8, got %d", col)
	}

	// Set a custom stop at column 11, clear all defaults first.
	term.WriteString("\x1b[3g\x1b[1;12H\x1bH\x1b[1;1H\t")
	if _, col := term.CursorPos(); col != 11 {
		t.Errorf("expected tab to custom stop 11, got %d", col)
	}

	// With every stop cleared, tab runs to the last column.
	term.WriteString("\x1b[3g\x1b[1;1H\t")
	if _, col := term.CursorPos(); col != 79 {
		t.Errorf("expected tab to last column, got %d", col)
	}
}

func TestParserInsertDeleteChars(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDEF\x1b[1;3H\x1b[2@")
	if term.LineContent(0) != "AB  CDEF" {
		t.Errorf("expected 'AB  CDEF' after ICH, got '%s'", term.LineContent(0))
	}

	term.WriteString("\x1b[2P")
	if term.LineContent(0) != "ABCDEF" {
		t.Errorf("expected 'ABCDEF' after DCH, got '%s'", term.LineContent(0))
	}
}

func TestParserInsertDeleteLines(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("one\r\ntwo\r\nthree")
	term.WriteString("\x1b[2;1H\x1b[1L")

	if term.LineContent(1) != "" {
		t.Errorf("expected blank inserted line, got '%s'", term.LineContent(1))
	}
	if term.LineContent(2) != "two" {
		t.Errorf("expected 'two' shifted down, got '%s'", term.LineContent(2))
	}

	term.WriteString("\x1b[1M")
	if term.LineContent(1) != "two" {
		t.Errorf("expected 'two' back after DL, got '%s'", term.LineContent(1))
	}
}

func TestParserEraseInDisplayBelow(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("aaa\r\nbbb\r\nccc")
	term.WriteString("\x1b[2;2H\x1b[0J")

	if term.LineContent(0) != "aaa" {
		t.Errorf("expected row 0 untouched, got '%s'", term.LineContent(0))
	}
	if term.LineContent(1) != "b" {
		t.Errorf("expected 'b' (erase from cursor), got '%s'", term.LineContent(1))
	}
	if term.LineContent(2) != "" {
		t.Errorf("expected row 2 cleared, got '%s'", term.LineContent(2))
	}
}

func TestParserEraseScrollback(t *testing.T) {
	term := New(WithSize(5, 20), WithScrollback(NewMemoryScrollback(100)))

	for i := 0; i < 10; i++ {
		term.WriteString("line\r\n")
	}
	if term.ScrollbackLen() == 0 {
		t.Fatal("expected scrollback content")
	}

	before := term.LineContent(0)
	term.WriteString("\x1b[3J")

	if term.ScrollbackLen() != 0 {
		t.Errorf("expected scrollback cleared, got %d lines", term.ScrollbackLen())
	}
	if term.LineContent(0) != before {
		t.Error("ED 3 must not blank the visible screen")
	}
}

func TestParserEraseChars(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDEF\x1b[1;2H\x1b[3X")

	if term.LineContent(0) != "A   EF" {
		t.Errorf("expected 'A   EF' after ECH, got '%s'", term.LineContent(0))
	}
	// ECH never shifts, so the cursor stays put.
	if _, col := term.CursorPos(); col != 1 {
		t.Errorf("expected cursor at column 1, got %d", col)
	}
}

func TestParserCursorMovementClamps(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[999A")
	if row, _ := term.CursorPos(); row != 0 {
		t.Errorf("expected CUU clamped to row 0, got %d", row)
	}

	term.WriteString("\x1b[999B")
	if row, _ := term.CursorPos(); row != 23 {
		t.Errorf("expected CUD clamped to row 23, got %d", row)
	}

	term.WriteString("\x1b[999C")
	if _, col := term.CursorPos(); col != 79 {
		t.Errorf("expected CUF clamped to column 79, got %d", col)
	}

	term.WriteString("\x1b[999D")
	if _, col := term.CursorPos(); col != 0 {
		t.Errorf("expected CUB clamped to column 0, got %d", col)
	}
}

func TestParserScrollUpDown(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("one\r\ntwo\r\nthree")
	term.WriteString("\x1b[1S")

	if term.LineContent(0) != "two" {
		t.Errorf("expected 'two' at top after SU, got '%s'", term.LineContent(0))
	}

	term.WriteString("\x1b[1T")
	if term.LineContent(1) != "two" {
		t.Errorf("expected 'two' pushed back down after SD, got '%s'", term.LineContent(1))
	}
	if term.LineContent(0) != "" {
		t.Errorf("expected blank top row after SD, got '%s'", term.LineContent(0))
	}
}

func TestParserLineFeedScrollsAtBottomMargin(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("\x1b[1;3r") // margins rows 0-2
	term.WriteString("top\r\nmid\r\nbot")
	term.WriteString("\n") // LF on the bottom margin scrolls the region

	if term.LineContent(0) != "mid" {
		t.Errorf("expected 'mid' scrolled to top, got '%s'", term.LineContent(0))
	}
	if term.LineContent(1) != "bot" {
		t.Errorf("expected 'bot' at row 1, got '%s'", term.LineContent(1))
	}
	if row, _ := term.CursorPos(); row != 2 {
		t.Errorf("expected cursor held at bottom margin, got row %d", row)
	}
}

func TestParserReverseIndexScrollsAtTopMargin(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("first\r\nsecond")
	term.WriteString("\x1b[1;1H\x1bM")

	if term.LineContent(0) != "" {
		t.Errorf("expected blank row scrolled in at top, got '%s'", term.LineContent(0))
	}
	if term.LineContent(1) != "first" {
		t.Errorf("expected 'first' shifted down, got '%s'", term.LineContent(1))
	}
}

func TestParserOSCTitleWithSTTerminator(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]0;st-title\x1b\\after")

	if term.Title() != "st-title" {
		t.Errorf("expected title 'st-title', got %q", term.Title())
	}
	if term.LineContent(0) != "after" {
		t.Errorf("expected ground text to resume after ST, got '%s'", term.LineContent(0))
	}
}

func TestParserOversizeOSCDropped(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]2;before\x07")

	// A title payload past the string-length cap is dropped whole, not
	// truncated and applied.
	term.WriteString("\x1b]2;" + strings.Repeat("x", (1<<20)+64) + "\x07")

	if term.Title() != "before" {
		t.Errorf("expected oversize OSC dropped, got title of length %d", len(term.Title()))
	}

	// The parser is back in ground state and the next sequence works.
	term.WriteString("\x1b]2;after\x07ok")
	if term.Title() != "after" {
		t.Errorf("expected title 'after', got %q", term.Title())
	}
	if term.LineContent(0) != "ok" {
		t.Errorf("expected 'ok' printed after recovery, got '%s'", term.LineContent(0))
	}
}

func TestParserOversizeOSCDroppedAcrossChunks(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]2;")
	payload := strings.Repeat("y", 1<<16)
	for i := 0; i < 20; i++ { // 20 * 64 KiB > 1 MiB cap
		term.WriteString(payload)
	}
	term.WriteString("\x1b\\")

	if term.Title() != "" {
		t.Errorf("expected no title from chunked oversize OSC, got len %d", len(term.Title()))
	}
}

func TestParserCancelAbortsCSI(t *testing.T) {
	term := New(WithSize(24, 80))

	// CAN in the middle of a CSI drops the sequence with no effect; the
	// following bytes print as ordinary text.
	term.WriteString("\x1b[31\x18mX")

	if term.LineContent(0) != "mX" {
		t.Fatalf("expected 'mX', got '%s'", term.LineContent(0))
	}
	c := term.Cell(0, 1)
	if fg, ok := c.Fg.(*NamedColor); !ok || fg.Name != NamedColorForeground {
		t.Errorf("expected aborted SGR to leave default foreground, got %#v", c.Fg)
	}
}

func TestParserEscRestartsInsideCSI(t *testing.T) {
	term := New(WithSize(24, 80))

	// An ESC inside an unterminated CSI abandons it and starts over.
	term.WriteString("\x1b[31\x1b[1mX")

	c := term.Cell(0, 0)
	if !c.HasFlag(CellFlagBold) {
		t.Error("expected bold from the restarted sequence")
	}
	if fg, ok := c.Fg.(*NamedColor); !ok || fg.Name != NamedColorForeground {
		t.Errorf("expected abandoned 31 to have no effect, got %#v", c.Fg)
	}
}

func TestParserDECALN(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b#8")

	if c := term.Cell(0, 0); c.Char != 'E' {
		t.Errorf("expected 'E' fill at (0, 0), got %q", c.Char)
	}
	if c := term.Cell(23, 79); c.Char != 'E' {
		t.Errorf("expected 'E' fill at (23, 79), got %q", c.Char)
	}
}

func TestParserDECALNDoesNotPoisonRestoreCursor(t *testing.T) {
	term := New(WithSize(24, 80))

	// ESC # 8 then a later plain ESC 8 must restore the cursor, not
	// re-run the alignment fill.
	term.WriteString("\x1b[3;4H\x1b7\x1b#8\x1b[1;1HX\x1b8")

	row, col := term.CursorPos()
	if row != 2 || col != 3 {
		t.Errorf("expected DECRC back to (2, 3), got (%d, %d)", row, col)
	}
	if c := term.Cell(0, 0); c.Char != 'X' {
		t.Errorf("expected X to survive, got %q", c.Char)
	}
}

func TestParserSaveRestoreCursorState(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[5;6H\x1b[1m\x1b(0\x1b7")
	term.WriteString("\x1b[m\x1b(B\x1b[1;1H")
	term.WriteString("\x1b8q")

	row, col := term.CursorPos()
	// The restored q prints at the saved position with the saved charset
	// and attributes.
	if row != 4 || col != 6 {
		t.Errorf("expected cursor at (4, 6) after printing, got (%d, %d)", row, col)
	}
	c := term.Cell(4, 5)
	if c.Char != '─' {
		t.Errorf("expected line-drawing q from restored charset, got %q", c.Char)
	}
	if !c.HasFlag(CellFlagBold) {
		t.Error("expected restored bold attribute")
	}
}

func TestParserApplicationKeypadEscapes(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b=")
	if !term.HasMode(ModeKeypadApplication) {
		t.Error("expected DECKPAM to set application keypad mode")
	}

	term.WriteString("\x1b>")
	if term.HasMode(ModeKeypadApplication) {
		t.Error("expected DECKPNM to clear application keypad mode")
	}
}

func TestParserPrivateModes(t *testing.T) {
	term := New(WithSize(24, 80))

	cases := []struct {
		seq  string
		mode TerminalMode
	}{
		{"\x1b[?1h", ModeCursorKeys},
		{"\x1b[?6h", ModeOrigin},
		{"\x1b[?1000h", ModeReportMouseClicks},
		{"\x1b[?1004h", ModeReportFocusInOut},
		{"\x1b[?1006h", ModeSGRMouse},
		{"\x1b[?2004h", ModeBracketedPaste},
		{"\x1b[?45h", ModeReverseWrap},
	}

	for _, tc := range cases {
		term.WriteString(tc.seq)
		if !term.HasMode(tc.mode) {
			t.Errorf("%q: expected mode set", tc.seq)
		}
	}

	term.WriteString("\x1b[?7l")
	if term.HasMode(ModeLineWrap) {
		t.Error("expected DECAWM cleared")
	}

	term.WriteString("\x1b[?25l")
	if term.CursorVisible() {
		t.Error("expected cursor hidden after DECTCEM reset")
	}
}

func TestParserAutowrapDisabledOverwritesLastColumn(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?7l")
	term.WriteString(strings.Repeat("A", 80) + "BC")

	if c := term.Cell(0, 79); c.Char != 'C' {
		t.Errorf("expected last column overwritten with 'C', got %q", c.Char)
	}
	if row, _ := term.CursorPos(); row != 0 {
		t.Errorf("expected no wrap with DECAWM off, got row %d", row)
	}
}

func TestParserOSC99Notification(t *testing.T) {
	var got *NotificationPayload
	term := New(WithSize(24, 80), WithNotification(notifyFunc(func(p *NotificationPayload) string {
		got = p
		return ""
	})))

	term.WriteString("\x1b]99;i=1:p=body;hello\x07")

	if got == nil {
		t.Fatal("expected notification dispatched")
	}
	if got.ID != "1" || got.PayloadType != "body" || string(got.Data) != "hello" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

type notifyFunc func(*NotificationPayload) string

func (f notifyFunc) Notify(p *NotificationPayload) string { return f(p) }

func TestParserFallbackSequencesStillWork(t *testing.T) {
	term := New(WithSize(24, 80))

	// OSC 8 hyperlinks ride the fallback decoder; the surrounding text
	// must be unaffected.
	term.WriteString("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\")

	if term.LineContent(0) != "link" {
		t.Errorf("expected 'link', got '%s'", term.LineContent(0))
	}
	c := term.Cell(0, 0)
	if c.Hyperlink == nil || c.Hyperlink.URI != "https://example.com" {
		t.Errorf("expected hyperlink attached, got %+v", c.Hyperlink)
	}
}

func TestParserCursorStyleDECSCUSR(t *testing.T) {
	term := New(WithSize(24, 80))

	// DECSCUSR carries an intermediate byte (SP) and is handled directly by dispatchCSI.
	term.WriteString("\x1b[4 q")

	if term.CursorStyle() != CursorStyleSteadyUnderline {
		t.Errorf("expected steady underline, got %v", term.CursorStyle())
	}
}

func TestParserWidthConservation(t *testing.T) {
	term := New(WithSize(24, 20))

	inputs := []string{
		"plain",
		strings.Repeat("x", 25),
		"中中中中中中中中中中中", // 22 columns of wide characters
		"\x1b[5;5H\x1b[3@shift",
		"\x1b[2;1H\x1b[4P",
	}

	for _, in := range inputs {
		term.WriteString(in)
		for row := 0; row < term.Rows(); row++ {
			width := 0
			for col := 0; col < term.Cols(); col++ {
				c := term.Cell(row, col)
				if c == nil {
					t.Fatalf("nil cell at (%d, %d)", row, col)
				}
				width++
			}
			if width != 20 {
				t.Errorf("after %q: row %d has %d columns", in, row, width)
			}
		}
	}
}

func TestParserWideCharIntegrityAfterDelete(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("中ab")
	term.WriteString("\x1b[1;1H\x1b[1P") // delete the wide char's first column

	for col := 0; col < 5; col++ {
		c := term.Cell(0, col)
		if c.IsWideSpacer() {
			prev := term.Cell(0, col-1)
			if prev == nil || !prev.IsWide() {
				t.Errorf("orphan wide-char spacer at column %d", col)
			}
		}
	}
}

func TestSetCursorVisibleAndBlink(t *testing.T) {
	term := New(WithSize(24, 80))

	term.SetCursorVisible(false)
	if term.CursorVisible() || term.HasMode(ModeShowCursor) {
		t.Error("expected cursor hidden")
	}
	term.SetCursorVisible(true)
	if !term.CursorVisible() {
		t.Error("expected cursor visible")
	}

	term.SetCursorBlink(true)
	if !term.HasMode(ModeBlinkingCursor) {
		t.Error("expected blink mode set")
	}
	term.SetCursorBlink(false)
	if term.HasMode(ModeBlinkingCursor) {
		t.Error("expected blink mode cleared")
	}
}

func TestParserSoftReset(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("keep me")
	term.WriteString("\x1b]2;kept-title\x07")
	term.WriteString("\x1b[1;31m\x1b[5;10r\x1b[?6h\x1b[?25l\x1b(0")

	term.WriteString("\x1b[!p")

	if term.LineContent(0) != "keep me" {
		t.Error("expected screen content preserved by DECSTR")
	}
	if term.Title() != "kept-title" {
		t.Error("expected title preserved by DECSTR")
	}
	if top, bottom := term.ScrollRegion(); top != 0 || bottom != 24 {
		t.Errorf("expected margins reset, got [%d, %d)", top, bottom)
	}
	if term.HasMode(ModeOrigin) {
		t.Error("expected origin mode cleared")
	}
	if !term.CursorVisible() {
		t.Error("expected cursor visible again")
	}

	// Attributes and charsets are back to defaults.
	term.WriteString("\x1b[1;1Hq")
	c := term.Cell(0, 0)
	if c.Char != 'q' {
		t.Errorf("expected literal q after charset reset, got %q", c.Char)
	}
	if c.HasFlag(CellFlagBold) {
		t.Error("expected SGR state reset")
	}
}

func TestParserCarriageReturnStopsAtLeftMargin(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?69h\x1b[5;20s")
	term.WriteString("\x1b[1;10H\r")

	if _, col := term.CursorPos(); col != 4 {
		t.Errorf("expected CR to stop at left margin 4, got %d", col)
	}

	// Left of the margin, CR still reaches column 0.
	term.WriteString("\x1b[1;3H\r")
	if _, col := term.CursorPos(); col != 0 {
		t.Errorf("expected CR to column 0 from left of margin, got %d", col)
	}
}

func TestParserTabObeysRightMargin(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?69h\x1b[5;20s")
	term.WriteString("\x1b[1;18H\t")

	if _, col := term.CursorPos(); col != 19 {
		t.Errorf("expected tab clamped to right margin column 19, got %d", col)
	}
}

func TestParserLatin1HighHalfThroughGR(t *testing.T) {
	term := New(WithSize(24, 80), WithReceiveEncoding(ReceiveRaw))

	// Latin-1 é (0xE9) with default maps passes through untranslated.
	term.Write([]byte{0xE9})

	if c := term.Cell(0, 0); c.Char != 'é' {
		t.Errorf("expected Latin-1 é preserved, got %q", c.Char)
	}
}
