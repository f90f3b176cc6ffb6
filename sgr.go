package vtcore

import "image/color"

// applySGR applies one CSI "m" (Select Graphic Rendition) parameter list
// to the current cell template. Parsed and dispatched directly from CSI
// parameters, independent of go-ansicode's TerminalCharAttribute: the
// codes below are the standard ECMA-48/xterm SGR table, not an internal
// detail of any one decoder, so this parser owns the full 0-107 + 38/48/58
// extended-color range itself. link marks colon-attached sub-parameters
// (ISO 8613-6): 4:N selects an underline style, and sub-parameters a
// leading code does not consume are skipped rather than misread as
// top-level codes.
func (t *Terminal) applySGR(params []int, link []bool) {
	if len(params) == 0 {
		params = []int{0}
	}
	isSub := func(i int) bool {
		return i < len(link) && link[i]
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < len(params); i++ {
		if isSub(i) {
			// Unconsumed sub-parameter of a code handled (or ignored)
			// above; never a code of its own.
			continue
		}
		p := params[i]
		switch {
		case p == 0:
			t.template = NewCellTemplate()
		case p == 1:
			t.template.SetFlag(CellFlagBold)
		case p == 2:
			t.template.SetFlag(CellFlagDim)
		case p == 3:
			t.template.SetFlag(CellFlagItalic)
		case p == 4:
			style := 1
			if isSub(i + 1) {
				style = params[i+1]
			}
			t.applyUnderlineStyle(style)
		case p == 5:
			t.template.SetFlag(CellFlagBlinkSlow)
		case p == 6:
			t.template.SetFlag(CellFlagBlinkFast)
		case p == 7:
			t.template.SetFlag(CellFlagReverse)
		case p == 8:
			t.template.SetFlag(CellFlagHidden)
		case p == 9:
			t.template.SetFlag(CellFlagStrike)
		case p == 21:
			t.applyUnderlineStyle(2)
		case p == 22:
			t.template.ClearFlag(CellFlagBold | CellFlagDim)
		case p == 23:
			t.template.ClearFlag(CellFlagItalic)
		case p == 24:
			t.template.ClearFlag(allUnderlineFlags)
		case p == 25:
			t.template.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)
		case p == 27:
			t.template.ClearFlag(CellFlagReverse)
		case p == 28:
			t.template.ClearFlag(CellFlagHidden)
		case p == 29:
			t.template.ClearFlag(CellFlagStrike)
		case p >= 30 && p <= 37:
			t.template.Fg = &NamedColor{Name: p - 30}
		case p == 38:
			c, n := parseExtendedColor(params[i+1:])
			if c != nil {
				t.template.Fg = c
			}
			i += n
		case p == 39:
			t.template.Fg = &NamedColor{Name: NamedColorForeground}
		case p >= 40 && p <= 47:
			t.template.Bg = &NamedColor{Name: p - 40}
		case p == 48:
			c, n := parseExtendedColor(params[i+1:])
			if c != nil {
				t.template.Bg = c
			}
			i += n
		case p == 49:
			t.template.Bg = &NamedColor{Name: NamedColorBackground}
		case p == 58:
			c, n := parseExtendedColor(params[i+1:])
			if c != nil {
				t.template.UnderlineColor = c
			}
			i += n
		case p == 59:
			t.template.UnderlineColor = nil
		case p >= 90 && p <= 97:
			t.template.Fg = &NamedColor{Name: 8 + p - 90}
		case p >= 100 && p <= 107:
			t.template.Bg = &NamedColor{Name: 8 + p - 100}
		}
	}
}

const allUnderlineFlags = CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline

// applyUnderlineStyle sets the underline named by a "4:N" sub-parameter
// (4:0 none, 4:1 single, 4:2 double, 4:3 curly, 4:4 dotted, 4:5 dashed).
// A bare SGR 4 is style 1. Unknown styles degrade to single, matching
// how xterm treats future style numbers.
func (t *Terminal) applyUnderlineStyle(style int) {
	t.template.ClearFlag(allUnderlineFlags)
	switch style {
	case 0:
		// Cleared above.
	case 2:
		t.template.SetFlag(CellFlagDoubleUnderline)
	case 3:
		t.template.SetFlag(CellFlagCurlyUnderline)
	case 4:
		t.template.SetFlag(CellFlagDottedUnderline)
	case 5:
		t.template.SetFlag(CellFlagDashedUnderline)
	default:
		t.template.SetFlag(CellFlagUnderline)
	}
}

// parseExtendedColor parses the tail of a 38/48/58 SGR parameter, i.e.
// "5;Pi" (indexed) or "2;Pr;Pg;Pb" (truecolor), and reports how many
// extra parameters it consumed.
func parseExtendedColor(rest []int) (color.Color, int) {
	if len(rest) == 0 {
		return nil, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return nil, len(rest)
		}
		return &IndexedColor{Index: rest[1]}, 2
	case 2:
		if len(rest) < 4 {
			return nil, len(rest)
		}
		return color.RGBA{
			R: clampByte(rest[1]),
			G: clampByte(rest[2]),
			B: clampByte(rest[3]),
			A: 255,
		}, 4
	default:
		return nil, 0
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
