package bytecode

import "testing"

func TestCallFrameReturnDescriptor(t *testing.T) {
	noReturn := newCallFrame(0, 0)
	if noReturn.HasReturn() {
		t.Error("HasReturn() = true for descriptor 0, want false")
	}

	withReturn := newCallFrame(0, 6) // register 5, encoded as 5+1
	if !withReturn.HasReturn() {
		t.Error("HasReturn() = false for descriptor 6, want true")
	}
	if withReturn.CallerRegister() != 5 {
		t.Errorf("CallerRegister() = %d, want 5", withReturn.CallerRegister())
	}
}

func TestLocalStackPushAndOutOfRange(t *testing.T) {
	f := newCallFrame(0, 0)
	f.PushLocal(10)
	f.PushLocal(20)

	if f.Local(0) != 10 || f.Local(1) != 20 {
		t.Errorf("Local(0),Local(1) = %d,%d, want 10,20", f.Local(0), f.Local(1))
	}
	if f.Local(5) != 0 {
		t.Errorf("Local(5) = %d, want 0 (out of range)", f.Local(5))
	}
}
