package comb

import (
	"testing"

	"github.com/beatforge/trackerengine/sample"
)

func impulseFrames(n int) []sample.Frame {
	frames := make([]sample.Frame, n)
	frames[0] = sample.Frame{1, 1}
	return frames
}

func TestApplyAddsDelayedDecayedTap(t *testing.T) {
	const delayMs, sampleRate = 10, 1000 // delayOffset = 10 frames
	frames := impulseFrames(30)

	r := Apply(frames, 0.5, delayMs, sampleRate)

	out := make([]sample.Frame, len(frames))
	if n := r.Read(out); n != len(frames) {
		t.Fatalf("Read returned %d frames, want %d", n, len(frames))
	}

	if out[0] != (sample.Frame{1, 1}) {
		t.Errorf("out[0] = %v, want the untouched impulse", out[0])
	}
	if out[10] != (sample.Frame{0.5, 0.5}) {
		t.Errorf("out[10] = %v, want the decayed tap {0.5, 0.5}", out[10])
	}
	for i, f := range out {
		if i == 0 || i == 10 {
			continue
		}
		if f != (sample.Frame{}) {
			t.Errorf("out[%d] = %v, want silence", i, f)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	frames := impulseFrames(20)
	orig := make([]sample.Frame, len(frames))
	copy(orig, frames)

	Apply(frames, 0.5, 5, 1000)

	for i := range frames {
		if frames[i] != orig[i] {
			t.Fatalf("Apply mutated its input at frame %d", i)
		}
	}
}

func TestReadAdvancesCursorAndStopsAtEnd(t *testing.T) {
	frames := impulseFrames(10)
	r := Apply(frames, 0.3, 1, 1000)

	first := make([]sample.Frame, 6)
	if n := r.Read(first); n != 6 {
		t.Fatalf("first Read = %d, want 6", n)
	}

	rest := make([]sample.Frame, 10)
	n := r.Read(rest)
	if n != 4 {
		t.Fatalf("second Read = %d, want 4 (remaining frames)", n)
	}
	if n := r.Read(rest); n != 0 {
		t.Errorf("Read past the end = %d, want 0", n)
	}
}

func TestDelayOffsetScalesWithSampleRate(t *testing.T) {
	frames := impulseFrames(200)

	r44k := Apply(frames, 0.5, 10, 44100)
	r48k := Apply(frames, 0.5, 10, 48000)

	if r44k.delayOffset == r48k.delayOffset {
		t.Error("delayOffset should differ between sample rates for the same delayMs")
	}
	if r44k.delayOffset != 441 {
		t.Errorf("r44k.delayOffset = %d, want 441", r44k.delayOffset)
	}
	if r48k.delayOffset != 480 {
		t.Errorf("r48k.delayOffset = %d, want 480", r48k.delayOffset)
	}
}
