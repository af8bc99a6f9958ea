package bytecode

import "testing"

func TestThreadStreamReading(t *testing.T) {
	chunk := &Chunk{Code: []byte{0x10, 0x20, 0x30}}
	th := newThread(chunk)
	th.Init(0)

	if th.Now() != 0x10 {
		t.Errorf("Now() = %#x, want 0x10", th.Now())
	}
	if th.Next() != 0x10 {
		t.Error("Next() did not return the peeked byte")
	}
	if th.Next() != 0x20 {
		t.Error("Next() did not advance")
	}
	if th.AtEOF() {
		t.Error("AtEOF() = true before reaching the end")
	}
	th.Next()
	if !th.AtEOF() {
		t.Error("AtEOF() = false after consuming the last byte")
	}
	if th.Now() != 0 || th.Next() != 0 {
		t.Error("Now()/Next() past EOF should return 0")
	}
}

func TestThreadInitAndCleanUp(t *testing.T) {
	chunk := &Chunk{Code: []byte{byte(OpReturn)}}
	th := newThread(chunk)

	th.Init(0)
	if !th.IsActive() {
		t.Error("IsActive() = false after Init")
	}
	if th.StackEmpty() {
		t.Error("StackEmpty() = true immediately after Init, want a bottom frame")
	}

	th.CleanUp()
	if th.IsActive() {
		t.Error("IsActive() = true after CleanUp")
	}
	if !th.StackEmpty() {
		t.Error("StackEmpty() = false after CleanUp")
	}
}
