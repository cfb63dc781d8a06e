package song

import (
	"fmt"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/reclaim"
	"github.com/beatforge/trackerengine/sample"
)

// OperationKind tags the mutation an Operation carries.
type OperationKind uint8

const (
	OpSetVolume OperationKind = iota
	OpSetPan
	OpSetSample
	OpRemoveSample
	OpPattern
	OpSetOrder
	OpSetInitialSpeed
	OpSetInitialTempo
	OpSetGlobalVolume
)

// Operation is editor intent: a sum type over every mutation the song
// model supports. Construct one with the New* helpers below; it only
// becomes applicable once NewValidOperation accepts it.
type Operation struct {
	Kind OperationKind

	Channel uint8 // OpSetVolume, OpSetPan
	Volume  uint8 // OpSetVolume, OpSetGlobalVolume
	Pan     note.Pan

	SampleSlot   uint8 // OpSetSample, OpRemoveSample
	SampleMeta   sample.Meta
	SampleHandle sample.Handle

	PatternIdx uint8
	PatternOp  PatternOperation

	OrderIdx uint16
	Order    Order

	InitialSpeed uint8
	InitialTempo uint8
}

// NewSetVolume builds a per-channel volume operation.
func NewSetVolume(channel, volume uint8) Operation {
	return Operation{Kind: OpSetVolume, Channel: channel, Volume: volume}
}

// NewSetPan builds a per-channel pan operation.
func NewSetPan(channel uint8, pan note.Pan) Operation {
	return Operation{Kind: OpSetPan, Channel: channel, Pan: pan}
}

// NewSetSample builds an operation that publishes a sample into slot,
// replacing whatever was there.
func NewSetSample(slot uint8, meta sample.Meta, handle sample.Handle) Operation {
	return Operation{Kind: OpSetSample, SampleSlot: slot, SampleMeta: meta, SampleHandle: handle}
}

// NewRemoveSample builds an operation that clears a sample slot.
func NewRemoveSample(slot uint8) Operation {
	return Operation{Kind: OpRemoveSample, SampleSlot: slot}
}

// NewPatternOperation builds an operation targeting one pattern.
func NewPatternOperation(patternIdx uint8, op PatternOperation) Operation {
	return Operation{Kind: OpPattern, PatternIdx: patternIdx, PatternOp: op}
}

// NewSetOrder builds an operation that sets one orderlist entry.
func NewSetOrder(idx uint16, order Order) Operation {
	return Operation{Kind: OpSetOrder, OrderIdx: idx, Order: order}
}

// NewSetInitialSpeed builds an operation changing the song's tick-per-row
// speed. speed must be > 0.
func NewSetInitialSpeed(speed uint8) Operation {
	return Operation{Kind: OpSetInitialSpeed, InitialSpeed: speed}
}

// NewSetInitialTempo builds an operation changing the song's tempo.
// tempo must be > 0.
func NewSetInitialTempo(tempo uint8) Operation {
	return Operation{Kind: OpSetInitialTempo, InitialTempo: tempo}
}

// NewSetGlobalVolume builds an operation changing the song-wide volume.
func NewSetGlobalVolume(volume uint8) Operation {
	return Operation{Kind: OpSetGlobalVolume, Volume: volume}
}

// InvalidOperationError is returned by NewValidOperation; it carries the
// rejected Operation back to the caller unchanged, per the "no side
// effect occurs" error handling policy.
type InvalidOperationError struct {
	Op     Operation
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("song: invalid operation (kind %d): %s", e.Op.Kind, e.Reason)
}

// ValidOperation is an Operation that has passed validation against a
// specific Song. It is the only thing Song.Absorb accepts, keeping the
// double-buffer replay (package leftright) total: nothing it applies can
// ever fail.
type ValidOperation struct {
	op Operation
}

// NewValidOperation validates op against song's current state. On
// success it also hands the strong reference carried by any sample handle
// being published over to the reclaimer, so the editor keeps the sample
// alive independent of whatever the snapshot ends up holding; Absorb
// takes its own reference for each snapshot copy.
func NewValidOperation(op Operation, gc *reclaim.Collector, s *Song) (ValidOperation, error) {
	valid, reason := validate(op, s)
	if !valid {
		return ValidOperation{}, &InvalidOperationError{Op: op, Reason: reason}
	}
	if op.Kind == OpSetSample {
		gc.AddSample(op.SampleHandle)
	}
	return ValidOperation{op: op}, nil
}

func validate(op Operation, s *Song) (bool, string) {
	switch op.Kind {
	case OpSetVolume, OpSetPan:
		if int(op.Channel) >= MaxChannels {
			return false, "channel out of range"
		}
		return true, ""
	case OpSetSample, OpRemoveSample:
		if int(op.SampleSlot) >= MaxSamplesInstr {
			return false, "sample slot out of range"
		}
		return true, ""
	case OpPattern:
		if int(op.PatternIdx) >= MaxPatterns {
			return false, "pattern index out of range"
		}
		if !s.Patterns[op.PatternIdx].OperationIsValid(op.PatternOp) {
			return false, "pattern operation precondition failed"
		}
		return true, ""
	case OpSetOrder:
		if int(op.OrderIdx) >= MaxOrders {
			return false, "order index out of range"
		}
		return true, ""
	case OpSetInitialSpeed:
		if op.InitialSpeed == 0 {
			return false, "initial speed must be > 0"
		}
		return true, ""
	case OpSetInitialTempo:
		if op.InitialTempo == 0 {
			return false, "initial tempo must be > 0"
		}
		return true, ""
	case OpSetGlobalVolume:
		return true, ""
	default:
		return false, "unknown operation kind"
	}
}

// Absorb applies a validated operation and returns the resulting song,
// implementing leftright.Absorber[Song, ValidOperation] with a value
// receiver so package leftright's generic Writer can work with Song by
// value (two full Song values, per the snapshot design) instead of
// needing a pointer-method constraint.
//
// Absorb is called once per snapshot copy, so any sample handle it
// stores is explicitly cloned here rather than relying on the caller to
// have done so, that keeps the reclaimer's refcount bookkeeping correct
// regardless of how many times, or in what order, the double-buffer
// layer replays this operation.
func (s Song) Absorb(valid ValidOperation) Song {
	op := valid.op
	switch op.Kind {
	case OpSetVolume:
		s.Volume[op.Channel] = op.Volume
	case OpSetPan:
		s.Pan[op.Channel] = op.Pan
	case OpSetSample:
		if old := s.Samples[op.SampleSlot].Handle; !old.IsZero() {
			old.Release()
		}
		s.Samples[op.SampleSlot] = Slot{Meta: op.SampleMeta, Handle: op.SampleHandle.Clone()}
	case OpRemoveSample:
		if old := s.Samples[op.SampleSlot].Handle; !old.IsZero() {
			old.Release()
		}
		s.Samples[op.SampleSlot] = Slot{}
	case OpPattern:
		s.Patterns[op.PatternIdx].ApplyOperation(op.PatternOp)
	case OpSetOrder:
		s.PatternOrder[op.OrderIdx] = op.Order
	case OpSetInitialSpeed:
		s.InitialSpeed = op.InitialSpeed
	case OpSetInitialTempo:
		s.InitialTempo = op.InitialTempo
	case OpSetGlobalVolume:
		s.GlobalVolume = op.Volume
	}
	return s
}
