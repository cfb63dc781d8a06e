package voice

import (
	"testing"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/sample"
)

func newTestHandle(t *testing.T, data []float32) sample.Handle {
	t.Helper()
	h, err := sample.NewMono(data)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestComputeStepSizeUnison(t *testing.T) {
	// Same note, same rate: step size is exactly 1.
	got := computeStepSize(44100, 44100, note.Default, note.Default)
	if got != 1 {
		t.Errorf("computeStepSize unison = %v, want 1", got)
	}
}

func TestComputeStepSizeOctaveUp(t *testing.T) {
	got := computeStepSize(44100, 44100, note.Default, note.Default+12)
	if got < 1.99 || got > 2.01 {
		t.Errorf("computeStepSize +12 semitones = %v, want ~2", got)
	}
}

func TestComputeStepSizeResample(t *testing.T) {
	got := computeStepSize(22050, 44100, note.Default, note.Default)
	if got < 1.99 || got > 2.01 {
		t.Errorf("computeStepSize 22050->44100 = %v, want ~2", got)
	}
}

func TestPlayerNextAdvancesAndTerminates(t *testing.T) {
	data := make([]float32, 8)
	for i := range data {
		data[i] = float32(i)
	}
	h := newTestHandle(t, data)
	meta := sample.Meta{SampleRate: 44100, BaseNote: note.Default}
	p := NewPlayer(h, meta, note.Default, 44100, Nearest{})

	count := 0
	for {
		_, ok := p.Next()
		if !ok {
			break
		}
		count++
		if count > len(data)+10 {
			t.Fatal("Player.Next never terminated")
		}
	}
	if !p.Done() {
		t.Error("Done() = false after Next returned ok=false")
	}
	// At step 1 every position from PadSizeEach through
	// LenWithPad()-PadSizeEach is read: the 8 data frames plus the first
	// trailing guard frame.
	if count != len(data)+1 {
		t.Errorf("produced %d frames, want %d", count, len(data)+1)
	}
}

func TestPlayerDoubleSpeedProducesHalfFrames(t *testing.T) {
	data := make([]float32, 8)
	h := newTestHandle(t, data)
	meta := sample.Meta{SampleRate: 44100, BaseNote: note.Default}
	// An octave up doubles the step size, so roughly half the frames
	// are produced before the position runs past the sample.
	p := NewPlayer(h, meta, note.Default+12, 44100, Linear{})

	count := 0
	for {
		if _, ok := p.Next(); !ok {
			break
		}
		count++
		if count > len(data)+10 {
			t.Fatal("Player.Next never terminated")
		}
	}
	if count >= len(data) {
		t.Errorf("octave-up playback produced %d frames, want fewer than %d", count, len(data))
	}
}

func TestLinearInterpolationBlend(t *testing.T) {
	a := sample.Frame{0, 0}
	b := sample.Frame{10, -10}
	got := Linear{}.interpolate(a, b, 0.5)
	want := sample.Frame{5, -5}
	if got != want {
		t.Errorf("Linear.interpolate at 0.5 = %v, want %v", got, want)
	}
}

func TestNearestInterpolationSwitchesAtMidpoint(t *testing.T) {
	a := sample.Frame{1, 1}
	b := sample.Frame{2, 2}
	if got := (Nearest{}).interpolate(a, b, 0.49); got != a {
		t.Errorf("Nearest.interpolate(0.49) = %v, want a", got)
	}
	if got := (Nearest{}).interpolate(a, b, 0.5); got != b {
		t.Errorf("Nearest.interpolate(0.5) = %v, want b", got)
	}
}
