// Package note implements the data model shared by the song and playback
// packages: notes, note events, and the small tagged-union types that ride
// along with them (volume effects, note commands, pan).
package note

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoteOutOfRange is returned by New when value exceeds MaxValue.
var ErrNoteOutOfRange = errors.New("note: value out of range")

// MaxValue is the highest representable note (199, per spec).
const MaxValue = 199

// Note is an integer 0..=199; name and octave derive from it, and pitch
// ratio relative to a base note is 2^((note-base)/12).
type Note uint8

// Default is C-5, the conventional starting note.
const Default Note = 60

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// New validates value against MaxValue.
func New(value uint8) (Note, error) {
	if value > MaxValue {
		return 0, fmt.Errorf("%w: %d", ErrNoteOutOfRange, value)
	}
	return Note(value), nil
}

// Octave returns the note's octave.
func (n Note) Octave() uint8 {
	return uint8(n) / 12
}

// Name returns the note letter name, e.g. "C#".
func (n Note) Name() string {
	return noteNames[uint8(n)%12]
}

// Frequency returns the MIDI-tuning-standard frequency of the note.
func (n Note) Frequency() float64 {
	return 440 * math.Exp2((float64(n)-69)/12)
}

func (n Note) String() string {
	return fmt.Sprintf("%s-%d", n.Name(), n.Octave())
}

// Get returns the raw note value.
func (n Note) Get() uint8 {
	return uint8(n)
}

// VolumeKind tags the variant held by a VolumeEffect.
type VolumeKind uint8

const (
	VolumeNone VolumeKind = iota
	VolumeSet
	FineVolSlideUp
	FineVolSlideDown
	VolSlideUp
	VolSlideDown
	PitchSlideUp
	PitchSlideDown
	SlideToNote
	Vibrato
	Panning
)

// VolumeEffect is a tagged variant over the legacy single-byte volume
// column encoding used by Impulse-Tracker-derived formats.
type VolumeEffect struct {
	Kind VolumeKind
	// Param is the kind-specific parameter (the slide speed, target
	// volume, pan position, ...). Unused for VolumeNone.
	Param uint8
}

// FromLegacyByte decodes the single-byte volume column encoding.
// There is no byte value that decodes to VolumeNone: a note with no
// volume column simply omits the byte.
func FromLegacyByte(value uint8) (VolumeEffect, error) {
	switch {
	case value <= 64:
		return VolumeEffect{Kind: VolumeSet, Param: value}, nil
	case value >= 65 && value <= 74:
		return VolumeEffect{Kind: FineVolSlideUp, Param: value - 65}, nil
	case value >= 75 && value <= 84:
		return VolumeEffect{Kind: FineVolSlideDown, Param: value - 75}, nil
	case value >= 85 && value <= 94:
		return VolumeEffect{Kind: VolSlideUp, Param: value - 85}, nil
	case value >= 95 && value <= 104:
		return VolumeEffect{Kind: VolSlideDown, Param: value - 95}, nil
	case value >= 105 && value <= 114:
		return VolumeEffect{Kind: PitchSlideDown, Param: value - 105}, nil
	case value >= 115 && value <= 124:
		return VolumeEffect{Kind: PitchSlideUp, Param: value - 115}, nil
	case value >= 128 && value <= 192:
		return VolumeEffect{Kind: Panning, Param: value - 128}, nil
	case value >= 193 && value <= 202:
		return VolumeEffect{Kind: SlideToNote, Param: value - 193}, nil
	case value >= 203 && value <= 212:
		return VolumeEffect{Kind: Vibrato, Param: value - 203}, nil
	default:
		return VolumeEffect{}, fmt.Errorf("note: volume byte %d has no effect mapping", value)
	}
}

// CommandKind tags the effect-letter the playback engine cares about.
// Tracker formats define dozens of effect letters; only the subset that
// influences pitch, volume and tempo is modeled here, so everything
// else collapses into CommandNone.
type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandSetSpeed
	CommandSetTempo
)

// NoteCommand is an effect-letter tagged variant.
type NoteCommand struct {
	Kind  CommandKind
	Param uint8
}

// Pan is a tagged variant: a position 0..=64, full Surround, or Disabled.
type PanKind uint8

const (
	PanValue PanKind = iota
	PanSurround
	PanDisabled
)

type Pan struct {
	Kind  PanKind
	Value uint8 // meaningful only when Kind == PanValue, 0..=64
}

// NewPan validates value against the 0..=64 range required by PanValue.
func NewPan(value uint8) (Pan, error) {
	if value > 64 {
		return Pan{}, fmt.Errorf("note: pan value %d out of range 0..=64", value)
	}
	return Pan{Kind: PanValue, Value: value}, nil
}

// Event is one note slot inside a pattern row.
type Event struct {
	Note        Note
	SampleInstr uint8
	Vol         VolumeEffect
	Command     NoteCommand
}
