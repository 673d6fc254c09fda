package picoc

import "testing"

func TestArenaPushPopBalanced(t *testing.T) {
	a := NewArena(1024)
	top0 := a.StackTop()

	base, err := a.Push(24)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if base != top0 {
		t.Fatalf("expected base %d, got %d", top0, base)
	}
	if err := a.Pop(24); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if a.StackTop() != top0 {
		t.Fatalf("stack top not restored: got %d want %d", a.StackTop(), top0)
	}
}

func TestArenaPopUnderrun(t *testing.T) {
	a := NewArena(64)
	if err := a.Pop(8); err == nil {
		t.Fatal("expected stack underrun error")
	}
}

func TestArenaStackHeapCollision(t *testing.T) {
	a := NewArena(64)
	if _, err := a.AllocHeap(32); err != nil {
		t.Fatalf("AllocHeap: %v", err)
	}
	if _, err := a.Push(64); err == nil {
		t.Fatal("expected out of memory when stack would cross heap frontier")
	}
}

func TestArenaFrameRewind(t *testing.T) {
	a := NewArena(256)
	top0 := a.StackTop()

	if _, err := a.PushFrame(); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	a.Push(40)
	a.Push(16)

	if err := a.PopFrame(); err != nil {
		t.Fatalf("PopFrame: %v", err)
	}
	if a.StackTop() != top0 {
		t.Fatalf("frame pop did not rewind to %d, got %d", top0, a.StackTop())
	}
}

func TestArenaPopFrameWithoutPush(t *testing.T) {
	a := NewArena(64)
	if err := a.PopFrame(); err == nil {
		t.Fatal("expected error popping a frame that was never pushed")
	}
}

func TestArenaHeapReuse(t *testing.T) {
	a := NewArena(256)
	off, err := a.AllocHeap(32)
	if err != nil {
		t.Fatalf("AllocHeap: %v", err)
	}
	a.FreeHeap(off, 32)
	off2, err := a.AllocHeap(32)
	if err != nil {
		t.Fatalf("AllocHeap after free: %v", err)
	}
	if off2 != off {
		t.Fatalf("expected freed block to be reused at %d, got %d", off, off2)
	}
}
