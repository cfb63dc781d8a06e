package ringcmd

import "testing"

func TestPushPopOrder(t *testing.T) {
	r := New[int](4)
	for i := 1; i <= 3; i++ {
		if !r.Push(i) {
			t.Fatalf("Push(%d) = false, want true", i)
		}
	}
	for i := 1; i <= 3; i++ {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %d, %v, want %d, true", v, ok, i)
		}
	}
}

func TestPopEmpty(t *testing.T) {
	r := New[int](4)
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop() on empty ring = true, want false")
	}
}

func TestPushFullReportsFalse(t *testing.T) {
	r := New[int](2) // rounds up to a power of two, capacity 2
	for r.Push(1) {
	}
	if r.Push(1) {
		t.Fatal("Push() on a full ring = true, want false")
	}
}

func TestWrapAround(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	v, _ := r.Pop()
	if v != 1 {
		t.Fatalf("Pop() = %d, want 1", v)
	}
	r.Push(2)
	r.Push(3)
	v2, _ := r.Pop()
	v3, _ := r.Pop()
	if v2 != 2 || v3 != 3 {
		t.Errorf("wrap-around pops = %d, %d, want 2, 3", v2, v3)
	}
}

func TestLen(t *testing.T) {
	r := New[int](8)
	r.Push(1)
	r.Push(2)
	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	r.Pop()
	if got := r.Len(); got != 1 {
		t.Errorf("Len() after one Pop = %d, want 1", got)
	}
}
