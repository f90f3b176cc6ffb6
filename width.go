package vtcore

import "github.com/unilibs/uniwidth"

// displayWidth returns the display width of r: 2 for wide characters
// (CJK, emoji), 1 for normal, 0 for zero-width (combining marks,
// control chars). ambiguousWide selects how East-Asian-Ambiguous runes
// render; it is a per-Terminal setting (WithAmbiguousWidth), threaded
// through here rather than read from shared state so two terminals in
// one process can disagree.
func displayWidth(r rune, ambiguousWide bool) int {
	w := uniwidth.RuneWidth(r)
	if w == 1 && ambiguousWide && isAmbiguousWidthRune(r) {
		return 2
	}
	return w
}

// runeWidth is displayWidth under the default ambiguous-narrow policy,
// for contexts with no terminal in hand (string splitting, measuring).
func runeWidth(r rune) int {
	return displayWidth(r, false)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs, fullwidth forms, emoji).
func isWideRune(r rune) bool {
	return runeWidth(r) == 2
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	width := 0
	for _, r := range s {
		width += runeWidth(r)
	}
	return width
}

// ambiguousWidthRanges lists the commonly cited Unicode "East Asian
// Ambiguous" blocks (UAX #11): Latin-1 Supplement punctuation, Greek,
// Cyrillic, general punctuation/currency symbols, and CJK-adjacent
// symbol blocks that render double-width in East-Asian legacy encodings.
// Not exhaustive, but covers the ranges implementers most commonly need
// to toggle.
var ambiguousWidthRanges = [][2]rune{
	{0x00A1, 0x00A1}, {0x00A4, 0x00A4}, {0x00A7, 0x00A8},
	{0x00AA, 0x00AA}, {0x00AD, 0x00AE}, {0x00B0, 0x00B4},
	{0x00B6, 0x00BA}, {0x00BC, 0x00BF}, {0x00C6, 0x00C6},
	{0x00D0, 0x00D0}, {0x00D7, 0x00D8}, {0x00DE, 0x00E1},
	{0x00E6, 0x00E6}, {0x00E8, 0x00EA}, {0x00EC, 0x00ED},
	{0x00F0, 0x00F0}, {0x00F2, 0x00F3}, {0x00F7, 0x00FA},
	{0x00FC, 0x00FC}, {0x00FE, 0x00FE}, {0x0101, 0x0101},
	{0x0111, 0x0111}, {0x0113, 0x0113}, {0x011B, 0x011B},
	{0x0126, 0x0127}, {0x012B, 0x012B}, {0x0131, 0x0133},
	{0x0138, 0x0138}, {0x013F, 0x0142}, {0x0144, 0x0144},
	{0x0148, 0x014B}, {0x014D, 0x014D}, {0x0152, 0x0153},
	{0x0166, 0x0167}, {0x016B, 0x016B}, {0x0391, 0x03A9},
	{0x03B1, 0x03C9}, {0x0401, 0x0401}, {0x0410, 0x044F},
	{0x0451, 0x0451}, {0x2010, 0x2010}, {0x2013, 0x2016},
	{0x2018, 0x2019}, {0x201C, 0x201D}, {0x2020, 0x2022},
	{0x2024, 0x2027}, {0x2030, 0x2030}, {0x2032, 0x2033},
	{0x2035, 0x2035}, {0x203B, 0x203B}, {0x203E, 0x203E},
	{0x2074, 0x2074}, {0x207F, 0x207F}, {0x2081, 0x2084},
	{0x20AC, 0x20AC}, {0x2103, 0x2103}, {0x2105, 0x2105},
	{0x2109, 0x2109}, {0x2113, 0x2113}, {0x2116, 0x2116},
	{0x2121, 0x2122}, {0x2126, 0x2126}, {0x212B, 0x212B},
	{0x2153, 0x2154}, {0x215B, 0x215E}, {0x2160, 0x216B},
	{0x2170, 0x2179}, {0x2190, 0x2199}, {0x21D2, 0x21D2},
	{0x21D4, 0x21D4}, {0x2200, 0x2200}, {0x2202, 0x2203},
	{0x2207, 0x2208}, {0x220B, 0x220B}, {0x220F, 0x220F},
	{0x2211, 0x2211}, {0x2215, 0x2215}, {0x221A, 0x221A},
	{0x221D, 0x2220}, {0x2223, 0x2223}, {0x2225, 0x2225},
	{0x2227, 0x222C}, {0x222E, 0x222E}, {0x2234, 0x2237},
	{0x223C, 0x223D}, {0x2248, 0x2248}, {0x224C, 0x224C},
	{0x2252, 0x2252}, {0x2260, 0x2261}, {0x2264, 0x2267},
	{0x226A, 0x226B}, {0x226E, 0x226F}, {0x2282, 0x2283},
	{0x2286, 0x2287}, {0x2295, 0x2295}, {0x2299, 0x2299},
	{0x22A5, 0x22A5}, {0x22BF, 0x22BF}, {0x2312, 0x2312},
}

func isAmbiguousWidthRune(r rune) bool {
	for _, rng := range ambiguousWidthRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
		if r < rng[0] {
			break
		}
	}
	return false
}
