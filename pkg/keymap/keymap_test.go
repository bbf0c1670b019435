package keymap

import "testing"

// seqLen returns the number of actions before the zero terminator.
func seqLen(s Sequence) int {
	for i, a := range s {
		if a == 0 {
			return i
		}
	}
	return len(s)
}

func TestPrintableSequencesUnwindToNeutral(t *testing.T) {
	for c := 0; c < 0x80; c++ {
		seq := Sequences[c]
		n := seqLen(seq)
		if n == 0 {
			continue // unassigned
		}

		last := seq[n-1]
		if last&(Down|Up|EndSeq) != 0 {
			t.Errorf("code 0x%02x: printable sequence ends with flags 0x%04x", c, last)
		}
		if last.Key() != KeyNone && n > 1 {
			t.Errorf("code 0x%02x: multi-report sequence does not unwind, last=0x%04x", c, last)
		}
		// Every sequence is zero-terminated within the array.
		if n == len(seq) {
			t.Errorf("code 0x%02x: sequence has no terminator", c)
		}
	}
}

func TestShiftedLetterSequence(t *testing.T) {
	seq := Sequences[0x41] // 'A'
	want := Sequence{ModShift, ModShift | Action(KeyA), ModShift}
	if seq != want {
		t.Errorf("0x41: expected %v, got %v", want, seq)
	}
}

func TestSpecialKeyPairsAreSymmetric(t *testing.T) {
	// Every down special (0xe0-0xea) with a Down flag has a matching up
	// entry 0x10 higher carrying the same payload.
	for c := 0xe0; c <= 0xea; c++ {
		down := Sequences[c][0]
		if down&Down == 0 {
			continue // NO/YES use ENDSEQ sequences instead
		}
		up := Sequences[c+0x10][0]
		if up&Up == 0 {
			t.Errorf("code 0x%02x: down event has no matching up at 0x%02x", c, c+0x10)
			continue
		}
		if (down &^ Down) != (up &^ Up) {
			t.Errorf("code 0x%02x: down payload 0x%04x != up payload 0x%04x",
				c, down&^Down, up&^Up)
		}
	}
}

func TestStickyModifierEntries(t *testing.T) {
	for _, tc := range []struct {
		code byte
		want Action
	}{
		{0xe8, Down | ModMeta}, // SYM down
		{0xf8, Up | ModMeta},   // SYM up
		{0xea, Down | ModAlt},  // TV/NABU down
		{0xfa, Up | ModAlt},    // TV/NABU up
	} {
		got := Sequences[tc.code][0]
		if got != tc.want {
			t.Errorf("code 0x%02x: expected 0x%04x, got 0x%04x", tc.code, tc.want, got)
		}
		if got.Key() != KeyNone {
			t.Errorf("code 0x%02x: sticky modifier entry carries a key", tc.code)
		}
	}
}

func TestMapped(t *testing.T) {
	if !Mapped(0x61) {
		t.Error("0x61 ('a') should be mapped")
	}
	if Mapped(0x5c) {
		t.Error("0x5c is unassigned and should not be mapped")
	}
	if Mapped(0xa5) {
		t.Error("joystick data range should have no keyboard mapping")
	}
}

func TestOppositeDirectionsMapToCentered(t *testing.T) {
	for _, dir := range []byte{
		JoyLeft | JoyRight,
		JoyUp | JoyDown,
		JoyLeft | JoyRight | JoyUp,
		JoyUp | JoyDown | JoyLeft,
		JoyLeft | JoyRight | JoyUp | JoyDown,
	} {
		if hat := DirToHat[dir]; hat != HatCentered {
			t.Errorf("direction 0x%02x: expected centered, got %d", dir, hat)
		}
	}
}

func TestDiagonalDirections(t *testing.T) {
	for _, tc := range []struct {
		dir  byte
		want byte
	}{
		{JoyUp, HatUp},
		{JoyUp | JoyRight, HatUpRight},
		{JoyDown | JoyLeft, HatDownLeft},
		{JoyLeft, HatLeft},
	} {
		if got := DirToHat[tc.dir]; got != tc.want {
			t.Errorf("direction 0x%02x: expected %d, got %d", tc.dir, tc.want, got)
		}
	}
}
