package vtcore

import "image/color"

// Run is a maximal horizontal span of cells on one row that share the
// same rendering attributes (colors, flags, hyperlink, underline color).
// LineRuns folds a row's flat cell slice into these spans on demand: the
// grid itself stays a plain [][]Cell because every mutation (Input,
// ScrollUp, InsertBlanks, ...) touches individual cells or contiguous
// cell ranges, and a run-structured store would have to re-split and
// re-merge on nearly every one of them.
// Runs are a read view materialized for consumers that care about
// attribute spans rather than individual cells: snapshot export,
// double-width-aware re-segmentation, and anything rendering a line as a
// sequence of styled spans instead of a grid of glyphs.
type Run struct {
	Row      int
	StartCol int
	EndCol   int // exclusive
	Template Cell
}

// Text returns the run's characters as a string, expanding any combining
// marks attached to each cell and skipping wide-character spacer cells.
func (r Run) Text(b *Buffer) string {
	row := b.cells[r.Row]
	runes := make([]rune, 0, r.EndCol-r.StartCol)
	for col := r.StartCol; col < r.EndCol; col++ {
		c := &row[col]
		if c.IsWideSpacer() {
			continue
		}
		ch := c.Char
		if ch == 0 {
			ch = ' '
		}
		runes = append(runes, ch)
		runes = append(runes, c.Combining...)
	}
	return string(runes)
}

// matchesContainer reports whether two cells belong to the same run: all
// rendering attributes equal, ignoring the per-cell dirty flag, the
// structural wide-character/spacer markers (those describe column
// layout, not style), and the actual character (a run is a span of
// attribute-equal cells, not equal-character cells).
func matchesContainer(a, b *Cell) bool {
	const attrMask = ^(CellFlagDirty | CellFlagWideChar | CellFlagWideCharSpacer)
	if a.Flags&attrMask != b.Flags&attrMask {
		return false
	}
	if !colorsEqual(a.Fg, b.Fg) || !colorsEqual(a.Bg, b.Bg) || !colorsEqual(a.UnderlineColor, b.UnderlineColor) {
		return false
	}
	if (a.Hyperlink == nil) != (b.Hyperlink == nil) {
		return false
	}
	if a.Hyperlink != nil && (a.Hyperlink.ID != b.Hyperlink.ID || a.Hyperlink.URI != b.Hyperlink.URI) {
		return false
	}
	return true
}

// colorsEqual compares cell colors by their semantic identity:
// NamedColor and IndexedColor resolve at render time, so their RGBA()
// placeholders cannot distinguish them — the name/index is the value.
func colorsEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *NamedColor:
		bv, ok := b.(*NamedColor)
		return ok && av.Name == bv.Name
	case *IndexedColor:
		bv, ok := b.(*IndexedColor)
		return ok && av.Index == bv.Index
	}
	if _, ok := b.(*NamedColor); ok {
		return false
	}
	if _, ok := b.(*IndexedColor); ok {
		return false
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// LineRuns returns row as a sequence of attribute-merged runs. Adjacent
// cells with equal attributes are folded into one run regardless of the
// characters they hold, so two neighboring runs in the result never
// compare attribute-equal to each other.
func (b *Buffer) LineRuns(row int) []Run {
	if row < 0 || row >= b.rows {
		return nil
	}
	cells := b.cells[row]
	if len(cells) == 0 {
		return nil
	}

	var runs []Run
	start := 0
	for col := 1; col <= len(cells); col++ {
		if col < len(cells) && matchesContainer(&cells[col-1], &cells[col]) {
			continue
		}
		runs = append(runs, Run{
			Row:      row,
			StartCol: start,
			EndCol:   col,
			Template: cells[start],
		})
		start = col
	}
	return runs
}

// splitWidecharString splits s into the units a terminal grid stores one
// per cell: each unit is exactly one graphic rune, with any zero-width
// combining marks that follow it folded into the same unit (mirroring
// how Input attaches combining runes to the previously written cell
// instead of giving them a column of their own). A wide (2-column) rune
// still yields a single unit; the caller is expected to reserve two grid
// columns for it, same as Input does via runeWidth.
func splitWidecharString(s string) []string {
	runes := []rune(s)
	var out []string
	for _, r := range runes {
		if runeWidth(r) == 0 && len(out) > 0 {
			out[len(out)-1] += string(r)
			continue
		}
		out = append(out, string(r))
	}
	return out
}
