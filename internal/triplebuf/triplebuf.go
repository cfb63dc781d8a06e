// Package triplebuf implements wait-free triple-buffered status
// publication: the audio thread publishes a status snapshot once per
// audio callback without ever blocking on a reader, and the editor/UI thread reads the
// latest published snapshot without ever blocking the writer. See
// DESIGN.md for why this is plain atomics rather than a library.
package triplebuf

import "sync/atomic"

// Buf holds three copies of T: one owned by the writer, one "backed up"
// for the reader to pick up, and one currently held by the reader. A
// single atomic word encodes which buffer is which and whether a fresh
// value is waiting to be picked up.
type Buf[T any] struct {
	slots [3]T

	// state packs, from the low bit: newWritten (a published value the
	// reader hasn't picked up yet), then two 2-bit fields: the index
	// the reader currently owns, and the index the writer currently
	// owns. The third slot is always whichever index neither field
	// names.
	state atomic.Uint32
}

const (
	bitNewWritten  uint32 = 1
	shiftReaderIdx        = 1
	shiftWriterIdx        = 3
	idxMask        uint32 = 0b11
)

// New builds a Buf with every slot initialized to initial.
func New[T any](initial T) *Buf[T] {
	b := &Buf[T]{}
	for i := range b.slots {
		b.slots[i] = initial
	}
	// writer owns slot 1, reader owns slot 0, backup is slot 2.
	b.state.Store(uint32(1)<<shiftWriterIdx | uint32(0)<<shiftReaderIdx)
	return b
}

func backupIndex(readerIdx, writerIdx uint32) uint32 {
	return 3 - readerIdx - writerIdx
}

// Write stores v into the writer's slot and publishes it by swapping it
// into the backup slot, setting the new-data flag. Never blocks;
// producer-side only (the audio thread).
func (b *Buf[T]) Write(v T) {
	word := b.state.Load()
	writerIdx := (word >> shiftWriterIdx) & idxMask
	readerIdx := (word >> shiftReaderIdx) & idxMask
	b.slots[writerIdx] = v

	backup := backupIndex(readerIdx, writerIdx)
	for {
		newWord := (backup << shiftWriterIdx) | (readerIdx << shiftReaderIdx) | bitNewWritten
		if b.state.CompareAndSwap(word, newWord) {
			return
		}
		word = b.state.Load()
		readerIdx = (word >> shiftReaderIdx) & idxMask
		backup = backupIndex(readerIdx, writerIdx)
	}
}

// Read returns the most recently published value. If nothing new has
// been published since the last Read, it returns the previously read
// value again. Never blocks; consumer-side only.
func (b *Buf[T]) Read() T {
	for {
		word := b.state.Load()
		if word&bitNewWritten == 0 {
			readerIdx := (word >> shiftReaderIdx) & idxMask
			return b.slots[readerIdx]
		}
		writerIdx := (word >> shiftWriterIdx) & idxMask
		readerIdx := (word >> shiftReaderIdx) & idxMask
		backup := backupIndex(readerIdx, writerIdx)
		newWord := (writerIdx << shiftWriterIdx) | (backup << shiftReaderIdx)
		if b.state.CompareAndSwap(word, newWord) {
			return b.slots[backup]
		}
	}
}
