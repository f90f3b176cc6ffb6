package vtcore

import (
	"fmt"
	"unicode/utf8"
)

// KeyCode identifies a normalized key independent of the character it
// produces, covering cursor keys, editing keys, function keys, and the
// numeric keypad.
type KeyCode int

const (
	// KeyNone means the event carries only a printable rune (Ch) and no
	// special key identity.
	KeyNone KeyCode = iota

	KeyArrowUp
	KeyArrowDown
	KeyArrowRight
	KeyArrowLeft

	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown

	KeyBackspace
	KeyTab
	KeyBacktab
	KeyEnter
	KeyEscape

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeypadMultiply
	KeypadAdd
	KeypadSeparator
	KeypadSubtract
	KeypadDecimal
	KeypadDivide
	KeypadEnter
	Keypad0
	Keypad1
	Keypad2
	Keypad3
	Keypad4
	Keypad5
	Keypad6
	Keypad7
	Keypad8
	Keypad9
)

// AltSendsWhat selects how a key event with Alt held is encoded.
type AltSendsWhat int

const (
	// AltSendsEscape prefixes the unmodified encoding with ESC (0x1B).
	// This is the default and matches most terminal emulators.
	AltSendsEscape AltSendsWhat = iota
	// AltSends8Bit sets the high bit of a single-byte printable
	// character instead of prefixing ESC.
	AltSends8Bit
	// AltSendsNothing passes the key through as if Alt were not held,
	// leaving modifier handling to the host ("browser default").
	AltSendsNothing
)

// KeyEvent is a normalized keyboard event, independent of any front-end
// key-map representation.
type KeyEvent struct {
	Code  KeyCode
	Ch    rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Encode translates a normalized key event into the byte sequence a host
// process connected to the terminal expects, honoring DECCKM
// (application cursor keys), DECPAM (application keypad), and the
// configured alt-sends-what policy.
func (t *Terminal) Encode(ev KeyEvent) []byte {
	t.mu.RLock()
	appCursor := t.modes&ModeCursorKeys != 0
	appKeypad := t.modes&ModeKeypadApplication != 0
	altMode := t.altSendsWhat
	t.mu.RUnlock()

	return encodeKey(ev, appCursor, appKeypad, altMode)
}

// WrapPaste wraps data for bracketed-paste mode if the mode is active,
// returning it unchanged otherwise (DEC private mode 2004).
func (t *Terminal) WrapPaste(data []byte) []byte {
	t.mu.RLock()
	bracketed := t.modes&ModeBracketedPaste != 0
	t.mu.RUnlock()

	if !bracketed {
		return data
	}
	out := make([]byte, 0, len(data)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, data...)
	out = append(out, "\x1b[201~"...)
	return out
}

// modifierParameter encodes the xterm "PC-style function key" modifier
// number: 1 plus a bitmask of Shift(1)/Alt(2)/Ctrl(4)/Meta(8). A value of
// 1 means "no modifiers" and is omitted from the emitted sequence.
func modifierParameter(ev KeyEvent) int {
	bits := 0
	if ev.Shift {
		bits |= 1
	}
	if ev.Alt {
		bits |= 2
	}
	if ev.Ctrl {
		bits |= 4
	}
	if ev.Meta {
		bits |= 8
	}
	return 1 + bits
}

// cursorFinal maps a cursor KeyCode to its CSI/SS3 final byte.
func cursorFinal(code KeyCode) (byte, bool) {
	switch code {
	case KeyArrowUp:
		return 'A', true
	case KeyArrowDown:
		return 'B', true
	case KeyArrowRight:
		return 'C', true
	case KeyArrowLeft:
		return 'D', true
	case KeyHome:
		return 'H', true
	case KeyEnd:
		return 'F', true
	}
	return 0, false
}

// tildeCode maps an editing/function KeyCode to its "CSI n ~" parameter.
func tildeCode(code KeyCode) (int, bool) {
	switch code {
	case KeyInsert:
		return 2, true
	case KeyDelete:
		return 3, true
	case KeyPageUp:
		return 5, true
	case KeyPageDown:
		return 6, true
	case KeyF5:
		return 15, true
	case KeyF6:
		return 17, true
	case KeyF7:
		return 18, true
	case KeyF8:
		return 19, true
	case KeyF9:
		return 20, true
	case KeyF10:
		return 21, true
	case KeyF11:
		return 23, true
	case KeyF12:
		return 24, true
	}
	return 0, false
}

// ss3Final maps F1-F4 to their SS3 final byte.
func ss3Final(code KeyCode) (byte, bool) {
	switch code {
	case KeyF1:
		return 'P', true
	case KeyF2:
		return 'Q', true
	case KeyF3:
		return 'R', true
	case KeyF4:
		return 'S', true
	}
	return 0, false
}

// keypadNumeric maps a numeric-keypad KeyCode to the digit/operator it
// produces in DECPNM (numeric keypad) mode; keypadApplication below maps
// it to the application-mode SS3 final byte in DECPAM mode.
var keypadNumeric = map[KeyCode]byte{
	Keypad0: '0', Keypad1: '1', Keypad2: '2', Keypad3: '3', Keypad4: '4',
	Keypad5: '5', Keypad6: '6', Keypad7: '7', Keypad8: '8', Keypad9: '9',
	KeypadMultiply: '*', KeypadAdd: '+', KeypadSeparator: ',',
	KeypadSubtract: '-', KeypadDecimal: '.', KeypadDivide: '/',
	KeypadEnter: '\r',
}

var keypadApplication = map[KeyCode]byte{
	Keypad0: 'p', Keypad1: 'q', Keypad2: 'r', Keypad3: 's', Keypad4: 't',
	Keypad5: 'u', Keypad6: 'v', Keypad7: 'w', Keypad8: 'x', Keypad9: 'y',
	KeypadMultiply: 'j', KeypadAdd: 'k', KeypadSeparator: 'l',
	KeypadSubtract: 'm', KeypadDecimal: 'n', KeypadDivide: 'o',
	KeypadEnter: 'M',
}

// applyAlt applies the configured alt-sends-what policy to an otherwise
// fully-encoded byte sequence for a printable/control key.
func applyAlt(seq []byte, ev KeyEvent, mode AltSendsWhat) []byte {
	if !ev.Alt {
		return seq
	}
	switch mode {
	case AltSends8Bit:
		if len(seq) == 1 && seq[0] < 0x80 {
			return []byte{seq[0] | 0x80}
		}
		return append([]byte{0x1B}, seq...)
	case AltSendsNothing:
		return seq
	default: // AltSendsEscape
		return append([]byte{0x1B}, seq...)
	}
}

// encodeKey is the pure-function core of key encoding: given a
// normalized event and the mode flags that affect it, it returns the
// exact bytes to send to the host. It has no access to Terminal state
// beyond what its parameters carry, so it is trivially testable.
func encodeKey(ev KeyEvent, appCursor, appKeypad bool, altMode AltSendsWhat) []byte {
	mod := modifierParameter(ev)

	if final, ok := cursorFinal(ev.Code); ok {
		if mod == 1 {
			if appCursor {
				return []byte{0x1B, 'O', final}
			}
			return []byte{0x1B, '[', final}
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mod, final))
	}

	if final, ok := ss3Final(ev.Code); ok {
		if mod == 1 {
			return []byte{0x1B, 'O', final}
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mod, final))
	}

	if n, ok := tildeCode(ev.Code); ok {
		if mod == 1 {
			return []byte(fmt.Sprintf("\x1b[%d~", n))
		}
		return []byte(fmt.Sprintf("\x1b[%d;%d~", n, mod))
	}

	if b, ok := keypadNumeric[ev.Code]; ok {
		if appKeypad {
			return []byte{0x1B, 'O', keypadApplication[ev.Code]}
		}
		return []byte{b}
	}

	switch ev.Code {
	case KeyTab:
		return applyAlt([]byte{0x09}, ev, altMode)
	case KeyBacktab:
		return []byte("\x1b[Z")
	case KeyEnter:
		return applyAlt([]byte{0x0D}, ev, altMode)
	case KeyBackspace:
		return applyAlt([]byte{0x7F}, ev, altMode)
	case KeyEscape:
		return []byte{0x1B}
	}

	if ev.Ch != 0 {
		if ev.Ctrl && ev.Ch >= 'a' && ev.Ch <= 'z' {
			return applyAlt([]byte{byte(ev.Ch) - 0x60}, ev, altMode)
		}
		if ev.Ctrl && ev.Ch >= 'A' && ev.Ch <= 'Z' {
			return applyAlt([]byte{byte(ev.Ch) - 0x40}, ev, altMode)
		}
		if ev.Ctrl {
			switch ev.Ch {
			case '@', ' ':
				return applyAlt([]byte{0x00}, ev, altMode)
			case '[':
				return applyAlt([]byte{0x1B}, ev, altMode)
			case '\\':
				return applyAlt([]byte{0x1C}, ev, altMode)
			case ']':
				return applyAlt([]byte{0x1D}, ev, altMode)
			case '^':
				return applyAlt([]byte{0x1E}, ev, altMode)
			case '_', '?':
				return applyAlt([]byte{0x1F}, ev, altMode)
			}
		}

		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, ev.Ch)
		return applyAlt(buf[:n], ev, altMode)
	}

	return nil
}
