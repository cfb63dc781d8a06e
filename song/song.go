// Package song implements the song data model: patterns, the orderlist,
// and the mutation log (Operation / ValidOperation / Absorb) that the
// double-buffer layer (package leftright) replays against both snapshot
// copies.
package song

import (
	"fmt"

	clone "github.com/huandu/go-clone/generic"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/sample"
)

// Limits bound the song's structural capacity.
const (
	MaxOrders       = 256
	MaxPatterns     = 240
	MaxSamplesInstr = 236
	MaxChannels     = 64
)

// Slot is one song sample slot: metadata plus the shared sample handle.
// A zero Slot (Handle.IsZero()) means the slot is empty.
type Slot struct {
	Meta   sample.Meta
	Handle sample.Handle
}

// Song is the central, fully self-contained mutable state: patterns,
// orderlist, per-channel mixer state, and sample slots. Exactly two
// copies of a Song are ever live at once, owned by package leftright.
type Song struct {
	GlobalVolume     uint8
	MixVolume        uint8
	InitialSpeed     uint8 // > 0; ticks per row
	InitialTempo     uint8 // > 0; tempo/2 = ticks per second
	PanSeparation    uint8
	PitchWheelDepth  uint8
	Patterns         [MaxPatterns]Pattern
	PatternOrder     [MaxOrders]Order
	Volume           [MaxChannels]uint8
	Pan              [MaxChannels]note.Pan
	Samples          [MaxSamplesInstr]Slot
}

// New returns a Song with conventional tracker defaults: global volume
// 128, speed 6, tempo 125, center pan, 64 channel volume.
func New() *Song {
	s := &Song{
		GlobalVolume:  128,
		InitialSpeed:  6,
		InitialTempo:  125,
		PanSeparation: 128,
	}
	for i := range s.Patterns {
		s.Patterns[i] = DefaultPattern()
	}
	for i := range s.Volume {
		s.Volume[i] = 64
	}
	for i := range s.Pan {
		s.Pan[i] = note.Pan{Kind: note.PanValue, Value: 32}
	}
	return s
}

// GetOrder returns the orderlist entry at idx; out of bounds is
// EndOfSong, an implicit trailing terminator.
func (s *Song) GetOrder(idx uint16) Order {
	if int(idx) >= len(s.PatternOrder) {
		return EndOfSong
	}
	return s.PatternOrder[idx]
}

// NextPattern advances *order past any Skip entries and returns the next
// playable pattern number, or ok=false at EndOfSong. order is updated to
// point at the returned (or terminating) entry.
func (s *Song) NextPattern(order *uint16) (pattern uint8, ok bool) {
	for {
		entry := s.GetOrder(*order)
		switch entry.Kind {
		case OrderNumber:
			return entry.Number, true
		case OrderEndOfSong:
			return 0, false
		case OrderSkip:
			*order++
		default:
			return 0, false
		}
	}
}

// Clone deep-copies the song via go-clone (which walks the pattern
// slices and fixed-size arrays for us), then fixes up every occupied
// sample slot to hold a new strong reference (Handle.Clone) rather than
// the library's naive reflection-based copy of the shared backing data.
// leftright.NewWriter calls this to seed the second snapshot copy.
func (s Song) Clone() Song {
	out := clone.Clone(s)
	for i := range out.Samples {
		if !s.Samples[i].Handle.IsZero() {
			out.Samples[i].Handle = s.Samples[i].Handle.Clone()
		}
	}
	return out
}

// String gives a short, log-friendly summary.
func (s *Song) String() string {
	nonEmpty := 0
	for i := range s.Patterns {
		if !s.Patterns[i].IsEmpty() {
			nonEmpty++
		}
	}
	orders := 0
	for i := range s.PatternOrder {
		if s.PatternOrder[i].Kind != OrderEndOfSong {
			orders++
		}
	}
	samples := 0
	for i := range s.Samples {
		if !s.Samples[i].Handle.IsZero() {
			samples++
		}
	}
	return fmt.Sprintf("global_volume=%d tempo=%d speed=%d patterns=%d orders=%d samples=%d",
		s.GlobalVolume, s.InitialTempo, s.InitialSpeed, nonEmpty, orders, samples)
}
