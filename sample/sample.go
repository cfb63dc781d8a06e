// Package sample implements the sample store: immutable PCM buffers in
// any of six encodings, padded with guard frames so that interpolation
// kernels never read out of bounds, and shared between the song
// snapshot and the audio thread as refcounted handles.
//
// The refcount is not what keeps the backing slice alive, the runtime
// collects it whenever it becomes unreachable regardless. It is
// bookkeeping for the reclaimer (package reclaim): it answers "is the
// editor's retained copy the only one left", so that a large sample
// buffer is only ever dropped by the editor and never by the audio
// thread.
package sample

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/beatforge/trackerengine/note"
)

// PadSizeEach is the number of guard frames of silence held at both ends
// of every sample. 4 is enough for any interpolation kernel this engine
// supports (current max kernel radius is 1 tap each side).
const PadSizeEach = 4

// MaxLength is the largest sample length (in frames, excluding pad) this
// store accepts.
const MaxLength = 16_000_000

// ErrTooLarge is returned by the constructors when length exceeds MaxLength.
var ErrTooLarge = errors.New("sample: length exceeds MaxLength")

// Frame is a single stereo output sample pair.
type Frame [2]float32

func (f Frame) Add(o Frame) Frame { return Frame{f[0] + o[0], f[1] + o[1]} }
func (f Frame) Sub(o Frame) Frame { return Frame{f[0] - o[0], f[1] - o[1]} }
func (f Frame) Scale(v float32) Frame {
	return Frame{f[0] * v, f[1] * v}
}

// SumToMono folds a stereo frame down to a single channel.
func (f Frame) SumToMono() float32 { return f[0] + f[1] }

// Mono builds a Frame that broadcasts a single value to both channels.
func Mono(v float32) Frame { return Frame{v, v} }

type shared struct {
	mono bool
	// data holds PadSizeEach silent frames, then the real samples, then
	// PadSizeEach more silent frames. For stereo data this is
	// interleaved L/R, so its length is frame count * 2.
	data []float32
	refs atomic.Int32
}

// Handle is a refcounted reference to an immutable Sample. The zero
// Handle is not valid; use one of the New* constructors.
type Handle struct {
	s *shared
}

// IsZero reports whether h is the zero Handle (no sample assigned).
func (h Handle) IsZero() bool { return h.s == nil }

func newHandle(mono bool, padded []float32) Handle {
	h := Handle{s: &shared{mono: mono, data: padded}}
	h.s.refs.Store(1)
	return h
}

func frameLen(mono bool, paddedLen int) int {
	if mono {
		return paddedLen
	}
	return paddedLen / 2
}

func padMono(data []float32) []float32 {
	out := make([]float32, len(data)+2*PadSizeEach)
	copy(out[PadSizeEach:], data)
	return out
}

func padStereo(interleaved []float32) []float32 {
	out := make([]float32, len(interleaved)+2*PadSizeEach*2)
	copy(out[PadSizeEach*2:], interleaved)
	return out
}

func checkLength(frames int) error {
	if frames > MaxLength {
		return fmt.Errorf("%w: %d frames", ErrTooLarge, frames)
	}
	return nil
}

// NewMono constructs an owned mono sample, prepending and appending
// PadSizeEach frames of silence.
func NewMono(data []float32) (Handle, error) {
	if err := checkLength(len(data)); err != nil {
		return Handle{}, err
	}
	return newHandle(true, padMono(data)), nil
}

// NewStereo constructs an owned stereo sample from interleaved L/R data.
func NewStereo(interleaved []float32) (Handle, error) {
	if len(interleaved)%2 != 0 {
		return Handle{}, fmt.Errorf("sample: stereo data length %d is not even", len(interleaved))
	}
	if err := checkLength(len(interleaved) / 2); err != nil {
		return Handle{}, err
	}
	return newHandle(false, padStereo(interleaved)), nil
}

// NewMonoInt16 converts signed 16-bit PCM to the internal float32 store.
func NewMonoInt16(data []int16) (Handle, error) {
	f := make([]float32, len(data))
	for i, v := range data {
		f[i] = float32(v) / 32768
	}
	return NewMono(f)
}

// NewStereoInt16 converts interleaved signed 16-bit PCM.
func NewStereoInt16(interleaved []int16) (Handle, error) {
	f := make([]float32, len(interleaved))
	for i, v := range interleaved {
		f[i] = float32(v) / 32768
	}
	return NewStereo(f)
}

// NewMonoInt8 converts signed 8-bit PCM.
func NewMonoInt8(data []int8) (Handle, error) {
	f := make([]float32, len(data))
	for i, v := range data {
		f[i] = float32(v) / 128
	}
	return NewMono(f)
}

// NewStereoInt8 converts interleaved signed 8-bit PCM.
func NewStereoInt8(interleaved []int8) (Handle, error) {
	f := make([]float32, len(interleaved))
	for i, v := range interleaved {
		f[i] = float32(v) / 128
	}
	return NewStereo(f)
}

// IsMono reports whether the sample has one channel.
func (h Handle) IsMono() bool { return h.s.mono }

// LenWithPad returns the frame count including the guard frames at both ends.
func (h Handle) LenWithPad() int { return frameLen(h.s.mono, len(h.s.data)) }

// Index returns the frame at i, broadcasting mono data to both channels.
func (h Handle) Index(i int) Frame {
	if h.s.mono {
		return Mono(h.s.data[i])
	}
	return Frame{h.s.data[i*2], h.s.data[i*2+1]}
}

// Compute2 applies a two-tap kernel over the window [i, i+1]. This is the
// only width any supported interpolation kernel needs (current kernels:
// Nearest, Linear), mirroring the sole interface the voice package uses
// against the sample store.
func (h Handle) Compute2(i int, kernel func(a, b Frame) Frame) Frame {
	return kernel(h.Index(i), h.Index(i+1))
}

// Clone returns a new strong reference to the same backing data,
// incrementing the refcount. Wait-free: a single atomic add.
func (h Handle) Clone() Handle {
	h.s.refs.Add(1)
	return h
}

// Release drops one strong reference. Must never be the call that
// observes the resulting count and then frees real audio-thread-owned
// memory, only the reclaimer's Collect, running on the editor thread,
// acts on a refcount reaching 1.
func (h Handle) Release() {
	h.s.refs.Add(-1)
}

// StrongCount returns the number of outstanding strong references.
func (h Handle) StrongCount() int32 {
	return h.s.refs.Load()
}

// Meta is the per-sample metadata accompanying a Handle in a song slot.
type Meta struct {
	DefaultVolume uint8
	GlobalVolume  uint8
	// DefaultPan is nil when the sample uses the channel's pan instead.
	DefaultPan   *uint8
	VibratoSpeed uint8
	VibratoDepth uint8
	VibratoRate  uint8
	SampleRate   uint32 // > 0
	BaseNote     note.Note
}
