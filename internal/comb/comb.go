// Package comb implements a single comb-filter reverb tap applied to a
// fully rendered stereo buffer. render.ToWAV is the only caller: offline
// rendering always has the whole buffer in hand before writing it out,
// so there's no need for an incremental/streaming variant the way a
// live mixer would require.
package comb

import "github.com/beatforge/trackerengine/sample"

// Reverb holds a stereo buffer with a decayed, delayed copy of itself
// summed back in.
type Reverb struct {
	frames      []sample.Frame
	delayOffset int
	readPos     int
}

// Apply builds a Reverb from frames: each frame past delayOffset gets a
// copy of the frame delayOffset samples earlier, scaled by decay, added
// on top. frames is copied; the caller's slice is left untouched.
func Apply(frames []sample.Frame, decay float32, delayMs, sampleRate int) *Reverb {
	r := &Reverb{
		delayOffset: (delayMs * sampleRate) / 1000,
		frames:      make([]sample.Frame, len(frames)),
	}
	copy(r.frames, frames)

	for i := 0; i < len(r.frames)-r.delayOffset; i++ {
		tap := frames[i].Scale(decay)
		r.frames[i+r.delayOffset] = r.frames[i+r.delayOffset].Add(tap)
	}

	return r
}

// Read copies up to len(out) processed frames into out, advancing the
// read cursor, and reports how many frames were copied.
func (r *Reverb) Read(out []sample.Frame) int {
	n := len(out)
	if r.readPos+n > len(r.frames) {
		n = len(r.frames) - r.readPos
	}
	copy(out, r.frames[r.readPos:r.readPos+n])
	r.readPos += n
	return n
}
