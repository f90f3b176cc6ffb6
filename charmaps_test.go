package vtcore

import "testing"

func TestCharacterMapGLLineDrawing(t *testing.T) {
	maps := DefaultCharacterMaps()

	cm, ok := maps.Lookup('0')
	if !ok {
		t.Fatal("expected DEC special graphics registered under '0'")
	}

	cases := map[byte]rune{
		'l': '┌',
		'q': '─',
		'x': '│',
		'j': '┘',
	}
	for in, want := range cases {
		if got := cm.GL(in); got != want {
			t.Errorf("GL(%q): expected %q, got %q", in, want, got)
		}
	}

	// Bytes without a table entry pass through unchanged.
	if got := cm.GL('A'); got != 'A' {
		t.Errorf("expected identity for unmapped byte, got %q", got)
	}
}

func TestCharacterMapASCIIIsIdentity(t *testing.T) {
	maps := DefaultCharacterMaps()

	cm, ok := maps.Lookup('B')
	if !ok {
		t.Fatal("expected US ASCII registered under 'B'")
	}

	for ch := byte(0x20); ch <= 0x7E; ch++ {
		if got := cm.GL(ch); got != rune(ch) {
			t.Errorf("GL(%q): expected identity, got %q", ch, got)
		}
	}
}

func TestCharacterMapNationalSets(t *testing.T) {
	maps := DefaultCharacterMaps()

	cases := []struct {
		designator byte
		in         byte
		want       rune
	}{
		{'A', '#', '£'},  // British
		{'K', '[', 'Ä'},  // German
		{'K', '~', 'ß'},  // German
		{'R', '@', 'à'},  // French
		{'Z', '\\', 'Ñ'}, // Spanish
		{'7', '[', 'Ä'},  // Swedish
		{'=', '#', 'ù'},  // Swiss
		{'E', '[', 'Æ'},  // Norwegian/Danish
	}

	for _, tc := range cases {
		cm, ok := maps.Lookup(tc.designator)
		if !ok {
			t.Errorf("designator %q: not registered", tc.designator)
			continue
		}
		if got := cm.GL(tc.in); got != tc.want {
			t.Errorf("%q GL(%q): expected %q, got %q", tc.designator, tc.in, tc.want, got)
		}
	}
}

func TestCharacterMapAliases(t *testing.T) {
	maps := DefaultCharacterMaps()

	pairs := [][2]byte{
		{'C', '5'}, // Finnish
		{'E', '6'}, // Norwegian/Danish
		{'7', 'H'}, // Swedish
	}

	for _, p := range pairs {
		a, okA := maps.Lookup(p[0])
		b, okB := maps.Lookup(p[1])
		if !okA || !okB {
			t.Errorf("alias pair %q/%q: missing registration", p[0], p[1])
			continue
		}
		if a.Name() != b.Name() {
			t.Errorf("alias pair %q/%q: expected same map, got %q and %q", p[0], p[1], a.Name(), b.Name())
		}
	}
}

// Every entry in a built-in map must translate to exactly the scalar the
// table defines for it.
func TestCharacterMapRoundTrip(t *testing.T) {
	maps := DefaultCharacterMaps()

	for _, designator := range []byte{'0', 'A', '4', 'C', 'R', 'Q', 'K', 'Y', 'E', 'Z', '7', '='} {
		cm, ok := maps.Lookup(designator)
		if !ok {
			t.Errorf("designator %q missing", designator)
			continue
		}
		for ch := byte(0x20); ch <= 0x7E; ch++ {
			mapped, has := cm.mapped(ch)
			got := cm.GL(ch)
			if has && got != mapped {
				t.Errorf("%q GL(%q): expected table value %q, got %q", designator, ch, mapped, got)
			}
			if !has && got != rune(ch) {
				t.Errorf("%q GL(%q): expected identity, got %q", designator, ch, got)
			}
		}
	}
}

func TestCharacterMapWithOverride(t *testing.T) {
	maps := DefaultCharacterMaps()
	cm, _ := maps.Lookup('B')

	overridden := cm.WithOverride('#', '£')

	if got := overridden.GL('#'); got != '£' {
		t.Errorf("expected override applied, got %q", got)
	}
	if got := cm.GL('#'); got != '#' {
		t.Errorf("expected original map untouched, got %q", got)
	}

	// A second override layers on top without mutating the first copy.
	twice := overridden.WithOverride('@', '§')
	if got := twice.GL('#'); got != '£' {
		t.Errorf("expected earlier override preserved, got %q", got)
	}
	if got := overridden.GL('@'); got != '@' {
		t.Errorf("expected first copy unaffected by later override, got %q", got)
	}
}

func TestCharacterMapsCloneIsIndependent(t *testing.T) {
	clone := DefaultCharacterMaps().Clone()
	custom := CharacterMap{name: "custom", base: map[byte]rune{'z': 'Ω'}}

	clone.Override('B', custom)

	if cm, _ := clone.Lookup('B'); cm.GL('z') != 'Ω' {
		t.Error("expected clone to carry the override")
	}
	if cm, _ := DefaultCharacterMaps().Lookup('B'); cm.GL('z') != 'z' {
		t.Error("expected shared default table untouched by clone override")
	}
}

func TestCharacterMapsResetDropsOverrides(t *testing.T) {
	clone := DefaultCharacterMaps().Clone()
	clone.Override('B', CharacterMap{name: "custom", base: map[byte]rune{'z': 'Ω'}})

	clone.Reset()

	if cm, _ := clone.Lookup('B'); cm.GL('z') != 'z' {
		t.Error("expected reset to restore the default map")
	}
}

func TestCharacterMapsOverrideAfterResetPreservesDefaults(t *testing.T) {
	clone := DefaultCharacterMaps().Clone()
	clone.Reset()

	clone.Override('B', CharacterMap{name: "custom", base: map[byte]rune{'z': 'Ω'}})

	if cm, _ := DefaultCharacterMaps().Lookup('B'); cm.GL('z') != 'z' {
		t.Error("expected shared default table untouched by post-reset override")
	}
	if cm, _ := clone.Lookup('B'); cm.GL('z') != 'Ω' {
		t.Error("expected instance override applied")
	}
}

func TestTerminalUsesOverriddenCharacterMap(t *testing.T) {
	term := New(WithSize(24, 80))

	// Rebind G0's ASCII designator so 'z' renders as omega.
	term.characterMaps.Override('B', CharacterMap{name: "custom", base: map[byte]rune{'z': 'Ω'}})
	term.WriteString("z")

	if c := term.Cell(0, 0); c.Char != 'Ω' {
		t.Errorf("expected overridden translation, got %q", c.Char)
	}
}
