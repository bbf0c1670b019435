package report

import (
	"testing"

	"github.com/thorpej/nabu-keyboard-usb/pkg/keymap"
	"github.com/thorpej/nabu-keyboard-usb/pkg/protocol"
	"github.com/thorpej/nabu-keyboard-usb/pkg/queue"
)

type kbdReport struct {
	mod, key byte
}

type joyReport struct {
	hat, buttons byte
}

type fakeOutput struct {
	notReady map[Channel]bool
	kbd      []kbdReport
	joy      [2][]joyReport
}

func (o *fakeOutput) Ready(ch Channel) bool {
	return !o.notReady[ch]
}

func (o *fakeOutput) SendKeyboard(mod, key byte) {
	o.kbd = append(o.kbd, kbdReport{mod, key})
}

func (o *fakeOutput) SendJoystick(which int, hat, buttons byte) {
	o.joy[which] = append(o.joy[which], joyReport{hat, buttons})
}

func newKeyboard() (*Keyboard, *queue.Queue, *fakeOutput) {
	q := &queue.Queue{}
	out := &fakeOutput{notReady: map[Channel]bool{}}
	k := &Keyboard{Queue: q, Out: out}
	return k, q, out
}

func ticks(k *Keyboard, n int) {
	for i := 0; i < n; i++ {
		k.Tick()
	}
}

func TestShiftedCharacterTakesFourTicks(t *testing.T) {
	k, q, out := newKeyboard()
	q.TryEnqueue(0x41) // 'A'

	ticks(k, 4)

	shift := keymap.ModShift.ModifierByte()
	want := []kbdReport{
		{shift, keymap.KeyNone},
		{shift, keymap.KeyA},
		{shift, keymap.KeyNone},
		{0, keymap.KeyNone},
	}
	if len(out.kbd) != len(want) {
		t.Fatalf("expected %d reports, got %v", len(want), out.kbd)
	}
	for i, w := range want {
		if out.kbd[i] != w {
			t.Errorf("tick %d: expected %+v, got %+v", i+1, w, out.kbd[i])
		}
	}

	// One report per tick, so a fifth tick with an empty queue is silent.
	k.Tick()
	if len(out.kbd) != len(want) {
		t.Errorf("idle tick emitted a report: %v", out.kbd[len(want):])
	}
}

func TestPlainCharacterTakesTwoTicks(t *testing.T) {
	k, q, out := newKeyboard()
	q.TryEnqueue(0x61) // 'a'

	ticks(k, 2)

	want := []kbdReport{
		{0, keymap.KeyA},
		{0, keymap.KeyNone},
	}
	if len(out.kbd) != len(want) {
		t.Fatalf("expected %d reports, got %v", len(want), out.kbd)
	}
	for i, w := range want {
		if out.kbd[i] != w {
			t.Errorf("tick %d: expected %+v, got %+v", i+1, w, out.kbd[i])
		}
	}
}

func TestStickyMetaLatchedThroughSequence(t *testing.T) {
	k, q, out := newKeyboard()
	meta := keymap.ModMeta.ModifierByte()

	// SYM down.
	q.TryEnqueue(0xe8)
	k.Tick()
	if len(out.kbd) != 1 || (out.kbd[0] != kbdReport{meta, keymap.KeyNone}) {
		t.Fatalf("SYM down: expected {meta, none}, got %v", out.kbd)
	}

	// 'a' while Meta is latched.
	q.TryEnqueue(0x61)
	ticks(k, 2)
	if len(out.kbd) != 3 {
		t.Fatalf("expected 3 reports, got %v", out.kbd)
	}
	if (out.kbd[1] != kbdReport{meta, keymap.KeyA}) {
		t.Errorf("expected {meta, a}, got %+v", out.kbd[1])
	}
	if (out.kbd[2] != kbdReport{meta, keymap.KeyNone}) {
		t.Errorf("expected {meta, none}, got %+v", out.kbd[2])
	}

	// SYM up unlatches and reports the cleared state.
	q.TryEnqueue(0xf8)
	k.Tick()
	if (out.kbd[3] != kbdReport{0, keymap.KeyNone}) {
		t.Errorf("SYM up: expected {none, none}, got %+v", out.kbd[3])
	}
}

func TestStickyTogglePairsAreIdempotent(t *testing.T) {
	k, q, _ := newKeyboard()

	before := k.Modifiers()
	for _, pair := range [][2]byte{
		{0xe8, 0xf8}, // SYM
		{0xea, 0xfa}, // TV/NABU
	} {
		q.TryEnqueue(pair[0])
		k.Tick()
		q.TryEnqueue(pair[1])
		k.Tick()
		if k.Modifiers() != before {
			t.Errorf("pair %02x/%02x: modifiers 0x%04x != 0x%04x",
				pair[0], pair[1], k.Modifiers(), before)
		}
	}

	// Order independence: both down, then both up in swapped order.
	for _, c := range []byte{0xe8, 0xea, 0xf8, 0xfa} {
		q.TryEnqueue(c)
		k.Tick()
	}
	if k.Modifiers() != before {
		t.Errorf("interleaved pairs left modifiers 0x%04x", k.Modifiers())
	}
}

func TestArrowKeyDownUp(t *testing.T) {
	k, q, out := newKeyboard()

	q.TryEnqueue(0xe0) // right arrow down
	q.TryEnqueue(0xf0) // right arrow up
	ticks(k, 2)

	want := []kbdReport{
		{0, keymap.KeyArrowRight},
		{0, keymap.KeyNone},
	}
	for i, w := range want {
		if out.kbd[i] != w {
			t.Errorf("report %d: expected %+v, got %+v", i, w, out.kbd[i])
		}
	}
}

func TestEndSeqKeyDoesNotUnwind(t *testing.T) {
	k, q, out := newKeyboard()

	q.TryEnqueue(0xe6) // NO down -> backslash, host-side repeat
	k.Tick()
	if len(out.kbd) != 1 || (out.kbd[0] != kbdReport{0, keymap.KeyBackslash}) {
		t.Fatalf("expected single backslash report, got %v", out.kbd)
	}

	// No sequence was entered: next tick is silent.
	k.Tick()
	if len(out.kbd) != 1 {
		t.Fatalf("EndSeq key entered a sequence: %v", out.kbd)
	}

	// NO up collapses to an all-neutral report.
	q.TryEnqueue(0xf6)
	k.Tick()
	if (out.kbd[1] != kbdReport{0, keymap.KeyNone}) {
		t.Errorf("NO up: expected {none, none}, got %+v", out.kbd[1])
	}
}

func TestNotReadyStallsWithoutDropping(t *testing.T) {
	k, q, out := newKeyboard()
	q.TryEnqueue(0x41)

	out.notReady[ChannelKeyboard] = true
	ticks(k, 3)
	if len(out.kbd) != 0 {
		t.Fatalf("reports emitted while not ready: %v", out.kbd)
	}

	// Emission resumes where it left off, nothing dropped or reordered.
	out.notReady[ChannelKeyboard] = false
	ticks(k, 4)
	if len(out.kbd) != 4 {
		t.Fatalf("expected full 4-report sequence after stall, got %v", out.kbd)
	}
	if out.kbd[1].key != keymap.KeyA {
		t.Errorf("sequence reordered after stall: %v", out.kbd)
	}
}

func TestZombieDeferredBehindSequence(t *testing.T) {
	k, q, out := newKeyboard()

	q.TryEnqueue(0xe8) // latch Meta so the zombie has something to clear
	k.Tick()
	q.TryEnqueue(0x41)
	k.Tick() // now mid-sequence
	k.MarkZombie()

	// The in-flight sequence finishes before the zombie report; Meta is
	// still latched through the sequence's own unwind.
	ticks(k, 3)
	n := len(out.kbd)
	if n != 5 {
		t.Fatalf("expected 5 reports, got %v", out.kbd)
	}
	last := out.kbd[n-1]
	if last.key != keymap.KeyNone || last.mod != keymap.ModMeta.ModifierByte() {
		t.Errorf("final sequence report wrong: %+v", last)
	}

	// One more tick delivers the zombie key-up and clears the stickies.
	k.Tick()
	if len(out.kbd) != 6 {
		t.Fatalf("zombie report missing: %v", out.kbd)
	}
	if (out.kbd[5] != kbdReport{0, keymap.KeyNone}) {
		t.Errorf("zombie report: expected {none, none}, got %+v", out.kbd[5])
	}
	if k.Modifiers() != 0 {
		t.Errorf("zombie did not clear sticky modifiers: 0x%04x", k.Modifiers())
	}

	// Exactly once per reboot.
	k.Tick()
	if len(out.kbd) != 6 {
		t.Errorf("zombie report repeated: %v", out.kbd)
	}
}

func TestLinkControlDispatch(t *testing.T) {
	k, q, out := newKeyboard()

	var seen []byte
	recover := false
	k.Control = func(c byte) bool {
		seen = append(seen, c)
		return recover
	}

	q.TryEnqueue(protocol.CodeErrPing)
	if k.Tick() {
		t.Error("ping must not consume the tick")
	}
	if len(seen) != 1 || seen[0] != protocol.CodeErrPing {
		t.Fatalf("control codes seen: %v", seen)
	}
	if len(out.kbd) != 0 {
		t.Fatalf("ping produced a report: %v", out.kbd)
	}

	recover = true
	q.TryEnqueue(protocol.CodeErrRAM)
	if !k.Tick() {
		t.Error("RAM fault recovery must consume the tick")
	}
}

func TestJoystickSampleMapping(t *testing.T) {
	q := &queue.Queue{}
	out := &fakeOutput{notReady: map[Channel]bool{}}
	j := &Joystick{Queue: q, Out: out, Which: 1}

	q.TryEnqueue(0xa0 | keymap.JoyUp | keymap.JoyRight | keymap.JoyFire)
	j.Tick()

	if len(out.joy[1]) != 1 {
		t.Fatalf("expected 1 report on stick 1, got %v", out.joy)
	}
	got := out.joy[1][0]
	if got.hat != keymap.HatUpRight {
		t.Errorf("expected hat %d, got %d", keymap.HatUpRight, got.hat)
	}
	if got.buttons != keymap.ButtonFire {
		t.Errorf("expected fire button, got 0x%02x", got.buttons)
	}
	if len(out.joy[0]) != 0 {
		t.Errorf("report leaked onto stick 0: %v", out.joy[0])
	}
}

func TestJoystickImpossibleDirectionCentered(t *testing.T) {
	q := &queue.Queue{}
	out := &fakeOutput{notReady: map[Channel]bool{}}
	j := &Joystick{Queue: q, Out: out}

	q.TryEnqueue(0xa0 | keymap.JoyLeft | keymap.JoyRight)
	j.Tick()

	if got := out.joy[0][0]; got.hat != keymap.HatCentered {
		t.Errorf("opposite directions: expected centered, got %d", got.hat)
	}
}

func TestJoystickZombieNeutralReport(t *testing.T) {
	q := &queue.Queue{}
	out := &fakeOutput{notReady: map[Channel]bool{}}
	j := &Joystick{Queue: q, Out: out}

	q.TryEnqueue(0xa0 | keymap.JoyUp) // stale pre-reboot sample
	q.Drain()
	j.MarkZombie()

	j.Tick()
	if len(out.joy[0]) != 1 || (out.joy[0][0] != joyReport{keymap.HatCentered, 0}) {
		t.Fatalf("expected neutral zombie report, got %v", out.joy[0])
	}

	j.Tick()
	if len(out.joy[0]) != 1 {
		t.Errorf("zombie report repeated: %v", out.joy[0])
	}
}
