package sample

import "testing"

func TestNewMonoPadding(t *testing.T) {
	h, err := NewMono([]float32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := h.LenWithPad(), 3+2*PadSizeEach; got != want {
		t.Errorf("LenWithPad() = %d, want %d", got, want)
	}
	if got := h.Index(PadSizeEach); got != Mono(1) {
		t.Errorf("Index(PadSizeEach) = %v, want Mono(1)", got)
	}
	if got := h.Index(0); got != Mono(0) {
		t.Errorf("Index(0) (leading pad) = %v, want silence", got)
	}
}

func TestNewStereoOddLength(t *testing.T) {
	if _, err := NewStereo([]float32{1, 2, 3}); err == nil {
		t.Fatal("NewStereo with odd length = nil error, want error")
	}
}

func TestNewMonoTooLarge(t *testing.T) {
	if _, err := NewMono(make([]float32, MaxLength+1)); err == nil {
		t.Fatal("NewMono over MaxLength = nil error, want ErrTooLarge")
	}
}

func TestCloneRefcount(t *testing.T) {
	h, err := NewMono([]float32{1})
	if err != nil {
		t.Fatal(err)
	}
	if got := h.StrongCount(); got != 1 {
		t.Fatalf("StrongCount() = %d, want 1", got)
	}
	c := h.Clone()
	if got := h.StrongCount(); got != 2 {
		t.Fatalf("StrongCount() after Clone = %d, want 2", got)
	}
	c.Release()
	if got := h.StrongCount(); got != 1 {
		t.Fatalf("StrongCount() after Release = %d, want 1", got)
	}
}

func TestFrameOps(t *testing.T) {
	a := Frame{1, 2}
	b := Frame{3, 4}
	if got, want := a.Add(b), (Frame{4, 6}); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := b.Sub(a), (Frame{2, 2}); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Scale(2), (Frame{2, 4}); got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if got, want := a.SumToMono(), float32(3); got != want {
		t.Errorf("SumToMono = %v, want %v", got, want)
	}
}

func TestCompute2Stereo(t *testing.T) {
	h, err := NewStereo([]float32{1, -1, 2, -2})
	if err != nil {
		t.Fatal(err)
	}
	got := h.Compute2(PadSizeEach, func(a, b Frame) Frame { return a })
	if want := (Frame{1, -1}); got != want {
		t.Errorf("Compute2 = %v, want %v", got, want)
	}
}
