// Package voice implements single-voice sample playback: a fixed-point
// phase accumulator stepping over a padded sample buffer through a
// compile-time-selected interpolation kernel.
package voice

import (
	"math"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/sample"
)

// Kernel is implemented by each interpolation mode. It is a concrete
// type, not a runtime switch, so Player.Next never branches per frame on
// which interpolation was selected; the caller picks the kernel once
// when constructing a Player.
type Kernel interface {
	// interpolate blends the two frames bracketing the fractional
	// position frac (0..1) into the output frame.
	interpolate(a, b sample.Frame, frac float32) sample.Frame
}

// Nearest rounds to whichever of the two bracketing frames is closer.
type Nearest struct{}

func (Nearest) interpolate(a, b sample.Frame, frac float32) sample.Frame {
	if frac < 0.5 {
		return a
	}
	return b
}

// Linear blends the two bracketing frames proportionally to frac.
type Linear struct{}

func (Linear) interpolate(a, b sample.Frame, frac float32) sample.Frame {
	return a.Add(b.Sub(a).Scale(frac))
}

// Player steps one voice's playback position through a sample buffer at
// a rate derived from the sample's native rate, the engine's output
// rate, and the played note relative to the sample's base note.
type Player[K Kernel] struct {
	handle sample.Handle
	meta   sample.Meta
	note   note.Note
	kernel K

	// intPos, frac together form a fixed-point position: intPos is the
	// frame index of the last fully consumed sample, frac in [0,1) is
	// the fractional offset toward the next frame. Starting at
	// PadSizeEach keeps index 0 and negative offsets addressable
	// without a bounds check.
	intPos int
	frac   float32

	outRate  uint32
	stepSize float32
}

// NewPlayer creates a Player positioned at the start of handle, ready to
// play note at outRate.
func NewPlayer[K Kernel](handle sample.Handle, meta sample.Meta, playedNote note.Note, outRate uint32, kernel K) *Player[K] {
	p := &Player[K]{
		handle:  handle,
		meta:    meta,
		note:    playedNote,
		kernel:  kernel,
		intPos:  sample.PadSizeEach,
		outRate: outRate,
	}
	p.setStepSize()
	return p
}

// computeStepSize derives the phase increment per output frame:
// 2^((playedNote-baseNote)/12) * (outRate/inRate), the MIDI pitch ratio
// times the resample ratio, reduced to one exp2 call.
func computeStepSize(inRate, outRate uint32, baseNote, playedNote note.Note) float32 {
	semitones := float32(int16(playedNote.Get()) - int16(baseNote.Get()))
	return float32(math.Exp2(float64(semitones/12))) * (float32(outRate) / float32(inRate))
}

func (p *Player[K]) setStepSize() {
	p.stepSize = computeStepSize(p.meta.SampleRate, p.outRate, p.meta.BaseNote, p.note)
}

// SetOutSampleRate updates the output rate (e.g. on device reconfigure)
// and recomputes the step size.
func (p *Player[K]) SetOutSampleRate(rate uint32) {
	p.outRate = rate
	p.setStepSize()
}

// Done reports whether the position has advanced beyond the first frame
// of the sample's trailing guard region (index LenWithPad()-PadSizeEach);
// once true, Next returns false forever.
func (p *Player[K]) Done() bool {
	return p.intPos > p.handle.LenWithPad()-sample.PadSizeEach
}

func (p *Player[K]) step() {
	p.frac += p.stepSize
	whole := float32(math.Trunc(float64(p.frac)))
	p.frac -= whole
	p.intPos += int(whole)
}

// Next produces the next interpolated output frame and advances the
// phase accumulator, or reports ok=false once playback has run past the
// end of the sample.
func (p *Player[K]) Next() (out sample.Frame, ok bool) {
	if p.Done() {
		return sample.Frame{}, false
	}
	out = p.handle.Compute2(p.intPos, func(a, b sample.Frame) sample.Frame {
		return p.kernel.interpolate(a, b, p.frac)
	})
	p.step()
	return out, true
}
