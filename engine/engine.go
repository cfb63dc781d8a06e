// Package engine implements the editor/audio-thread facade: it owns the
// song's double buffer and sample reclaimer, wires the bounded command
// ring and status triple buffer between an editor and an installed
// audio callback, and hands out SongEdit sessions that apply a batch of
// operations atomically from the editor's point of view.
package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/frostbyte73/core"

	"github.com/beatforge/trackerengine/internal/ringcmd"
	"github.com/beatforge/trackerengine/internal/triplebuf"
	"github.com/beatforge/trackerengine/leftright"
	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/playback"
	"github.com/beatforge/trackerengine/reclaim"
	"github.com/beatforge/trackerengine/sample"
	"github.com/beatforge/trackerengine/song"
	"github.com/beatforge/trackerengine/voice"
)

// toWorkerCapacity is the capacity requested for the bounded command
// ring (ringcmd.New rounds it up to 8): enough for a play/stop/live-note
// burst without the editor ever blocking.
const toWorkerCapacity = 5

// ToWorkerMsg is editor-to-audio-thread intent, pushed through the
// bounded command ring.
type ToWorkerMsg struct {
	kind     toWorkerKind
	settings playback.Settings
	liveNote note.Event
}

type toWorkerKind uint8

const (
	msgPlayback toWorkerKind = iota
	msgStopPlayback
	msgPlayEvent
	msgStopLiveNote
)

// Playback builds a message that starts (or restarts) playback.
func Playback(settings playback.Settings) ToWorkerMsg {
	return ToWorkerMsg{kind: msgPlayback, settings: settings}
}

// StopPlayback builds a message that stops song playback, leaving any
// live note playing.
func StopPlayback() ToWorkerMsg { return ToWorkerMsg{kind: msgStopPlayback} }

// PlayEvent builds a message that plays ev as a one-shot live note,
// replacing whatever live note was already sounding.
func PlayEvent(ev note.Event) ToWorkerMsg {
	return ToWorkerMsg{kind: msgPlayEvent, liveNote: ev}
}

// StopLiveNote builds a message that silences the live note.
func StopLiveNote() ToWorkerMsg { return ToWorkerMsg{kind: msgStopLiveNote} }

// SendResult reports whether try-sending a command to the audio thread
// succeeded.
type SendResult uint8

const (
	SendSuccess SendResult = iota
	SendBufferFull
	SendAudioInactive
)

// Status is the editor-visible playback snapshot, published once per
// audio callback. Playing is false when no playback is currently
// active (song stopped, or a live note sounding alone).
type Status struct {
	Playing  bool
	Position playback.Position
}

// OutputConfig describes the audio device the callback returned by
// InstallOutput will be driven by. It must match the device exactly;
// mismatches here are a programmer error, not something this package
// tries to recover from.
type OutputConfig struct {
	BufferSize   uint32
	ChannelCount uint16
	SampleRate   uint32
}

type activeStream struct {
	bufferTime time.Duration
	send       *ringcmd.Ring[ToWorkerMsg]
	status     *triplebuf.Buf[Status]
	reader     *leftright.Reader[song.Song]
}

// Manager is the editor-side facade: the only type editor code needs to
// hold. It is not safe for concurrent use by multiple editor goroutines
// (callers should put it behind a single mutex); the audio callback
// returned by InstallOutput talks to it only through the wait-free ring
// and triple buffer, never through Manager's own fields.
type Manager struct {
	song   *leftright.Writer[song.Song, song.ValidOperation]
	gc     reclaim.Collector
	stream *activeStream
	closed core.Fuse
}

// New builds a Manager owning initial, retaining a strong reference to
// every sample already present in it.
func New(initial song.Song) *Manager {
	gc := reclaim.Collector{}
	for i := range initial.Samples {
		if !initial.Samples[i].Handle.IsZero() {
			gc.AddSample(initial.Samples[i].Handle.Clone())
		}
	}
	return &Manager{song: leftright.NewWriter[song.Song, song.ValidOperation](initial), gc: gc}
}

// TryEditSong returns a SongEdit session if the double-buffer writer is
// not currently blocked by an in-progress reader swap. If it returns
// ok=false, waiting BufferTime should (threading hiccups aside) always
// be enough for a retry to succeed.
func (m *Manager) TryEditSong() (*SongEdit, bool) {
	guard, ok := m.song.TryLock()
	if !ok {
		return nil, false
	}
	return &SongEdit{guard: guard, gc: &m.gc}, true
}

// EditSong blocks (spin, calling sleep between attempts) until a
// SongEdit session can be started. Passing a nil sleep busy-spins.
func (m *Manager) EditSong(sleep func()) *SongEdit {
	return &SongEdit{guard: m.song.Lock(sleep), gc: &m.gc}
}

// CollectGarbage releases every sample the reclaimer is retaining solely
// on the editor's behalf, i.e. every sample neither song snapshot nor
// any voice still references. Editor-thread-only.
func (m *Manager) CollectGarbage() {
	m.gc.Collect()
}

// TrySendCommand pushes msg to the audio thread's command ring without
// blocking.
func (m *Manager) TrySendCommand(msg ToWorkerMsg) SendResult {
	if m.stream == nil {
		return SendAudioInactive
	}
	if m.stream.send.Push(msg) {
		return SendSuccess
	}
	return SendBufferFull
}

// PlaybackStatus returns the most recent status the audio callback
// published, or ok=false if no output stream is currently installed.
func (m *Manager) PlaybackStatus() (Status, bool) {
	if m.stream == nil {
		return Status{}, false
	}
	return m.stream.status.Read(), true
}

// BufferTime reports the approximate wall-clock time one audio buffer
// takes to render, or ok=false if no stream is installed. Useful as a
// spin/sleep interval for TryEditSong and CollectGarbage retries.
func (m *Manager) BufferTime() (time.Duration, bool) {
	if m.stream == nil {
		return 0, false
	}
	return m.stream.bufferTime, true
}

// InstallOutput builds the realtime audio callback for config, wiring a
// fresh Reader, command ring, and status triple buffer. It panics if a
// stream is already installed; call CloseStream first. config must
// match the device exactly.
func (m *Manager) InstallOutput(config OutputConfig) func(out []int16) {
	if m.stream != nil {
		panic("engine: output stream already installed")
	}
	reader, ok := m.song.BuildReader()
	if !ok {
		panic("engine: a Reader already exists for this song")
	}

	send := ringcmd.New[ToWorkerMsg](toWorkerCapacity)
	status := triplebuf.New(Status{})
	bufferTime := time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate)

	m.stream = &activeStream{bufferTime: bufferTime, send: send, status: status, reader: reader}

	la := newLiveAudio(reader, send, status, config)
	return la.callback
}

// CloseStream must be called once the audio stream driving the callback
// from InstallOutput has been fully torn down (stopped and closed by the
// host audio library), before a new one is installed or this Manager is
// discarded.
func (m *Manager) CloseStream() {
	if m.stream != nil {
		m.stream.reader.Close()
	}
	m.stream = nil
}

// Leaked reports every sample the reclaimer is still retaining on
// behalf of something other than the editor itself, after every
// occupied slot in the live song has been cleared and CollectGarbage
// has run. A non-empty result here after shutdown indicates a stream
// wasn't closed, or a voice is still holding a reference somewhere.
func (m *Manager) Leaked() []sample.Handle {
	return m.gc.Leaked()
}

// Close shuts the Manager down: it asks any active stream to stop
// playback, clears every sample slot, collects garbage, and reports any
// sample still leaked afterward. Idempotent; only the first call has an
// effect. Go has no destructors, so callers must invoke this explicitly
// during shutdown.
func (m *Manager) Close() {
	if m.closed.IsBroken() {
		return
	}
	m.closed.Break()

	if m.stream != nil {
		okLive := m.stream.send.Push(StopLiveNote())
		okSong := m.stream.send.Push(StopPlayback())
		if okLive && okSong {
			fmt.Fprintln(os.Stderr, "engine: audio playback stopped")
		} else {
			fmt.Fprintln(os.Stderr, "engine: audio playback couldn't be stopped completely, command ring full")
		}
	}

	edit := m.EditSong(nil)
	for i := range edit.Song().Samples {
		_ = edit.ApplyOperation(song.NewRemoveSample(uint8(i)))
	}
	edit.Finish()

	// The first Finish only swaps the published buffer; the idle buffer
	// still holds the old sample handles until something locks again
	// (see leftright.Writer.newGuard's lazy replay). Lock once more,
	// with nothing to apply, purely to flush that replay before
	// collecting garbage.
	m.EditSong(nil).Finish()

	m.CollectGarbage()
	for _, h := range m.Leaked() {
		fmt.Fprintf(os.Stderr, "engine: sample leaked at shutdown (strong count %d)\n", h.StrongCount())
	}
}

// SongEdit batches a sequence of operations: none of them are visible
// to the playing audio until Finish is called, so the audio thread
// never observes a half-applied edit. Callers must call Finish (there
// are no destructors in Go to do it for them).
type SongEdit struct {
	guard *leftright.WriteGuard[song.Song, song.ValidOperation]
	gc    *reclaim.Collector
}

// ApplyOperation validates op against the edit's in-progress song and,
// if valid, applies it. On failure op is returned unchanged inside the
// error, and no state changed.
func (e *SongEdit) ApplyOperation(op song.Operation) error {
	valid, err := song.NewValidOperation(op, e.gc, e.guard.Value())
	if err != nil {
		return err
	}
	e.guard.ApplyOp(valid)
	return nil
}

// Song returns the in-progress song for read-only inspection.
func (e *SongEdit) Song() *song.Song {
	return e.guard.Value()
}

// Finish publishes every operation applied during this session to the
// live playing song.
func (e *SongEdit) Finish() {
	e.guard.Finish()
}
