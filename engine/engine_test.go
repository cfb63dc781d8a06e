package engine

import (
	"testing"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/playback"
	"github.com/beatforge/trackerengine/sample"
	"github.com/beatforge/trackerengine/song"
)

func testSong(t *testing.T) song.Song {
	t.Helper()
	s := song.New()
	h, err := sample.NewMono([]float32{1, 1, 1, 1, 1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	s.Samples[0] = song.Slot{Meta: sample.Meta{SampleRate: 44100, BaseNote: note.Default}, Handle: h}

	p := song.DefaultPattern()
	_ = p.SetLength(2)
	_ = p.SetEvent(song.Position{Row: 0, Channel: 0}, note.Event{Note: note.Default, SampleInstr: 0})
	s.Patterns[0] = p

	order0, _ := song.NewOrderNumber(0)
	s.PatternOrder[0] = order0
	s.PatternOrder[1] = song.EndOfSong
	return *s
}

func TestEditSongAppliesOperation(t *testing.T) {
	mgr := New(testSong(t))
	defer mgr.Close()

	edit, ok := mgr.TryEditSong()
	if !ok {
		t.Fatal("TryEditSong() = false on a fresh Manager, want true")
	}
	if err := edit.ApplyOperation(song.NewSetVolume(0, 10)); err != nil {
		t.Fatal(err)
	}
	if got := edit.Song().Volume[0]; got != 10 {
		t.Errorf("Volume[0] mid-edit = %d, want 10", got)
	}
	edit.Finish()
}

func TestApplyOperationRejectsInvalid(t *testing.T) {
	mgr := New(testSong(t))
	defer mgr.Close()

	edit, _ := mgr.TryEditSong()
	defer edit.Finish()
	if err := edit.ApplyOperation(song.NewSetVolume(song.MaxChannels, 1)); err == nil {
		t.Fatal("ApplyOperation with out-of-range channel = nil error, want error")
	}
}

func TestPlaybackStatusBeforeInstallOutput(t *testing.T) {
	mgr := New(testSong(t))
	defer mgr.Close()
	if _, ok := mgr.PlaybackStatus(); ok {
		t.Fatal("PlaybackStatus() before InstallOutput = true, want false")
	}
	if got := mgr.TrySendCommand(StopPlayback()); got != SendAudioInactive {
		t.Errorf("TrySendCommand before InstallOutput = %v, want SendAudioInactive", got)
	}
}

func TestInstallOutputAndPlaybackProducesStatus(t *testing.T) {
	mgr := New(testSong(t))
	defer mgr.Close()

	config := OutputConfig{BufferSize: 64, ChannelCount: 2, SampleRate: 44100}
	callback := mgr.InstallOutput(config)
	defer mgr.CloseStream()

	if got := mgr.TrySendCommand(Playback(playback.Settings{FollowOrder: true, Loop: true})); got != SendSuccess {
		t.Fatalf("TrySendCommand(Playback) = %v, want SendSuccess", got)
	}

	out := make([]int16, int(config.BufferSize)*int(config.ChannelCount))
	callback(out)

	status, ok := mgr.PlaybackStatus()
	if !ok {
		t.Fatal("PlaybackStatus() after a callback ran = false, want true")
	}
	if !status.Playing {
		t.Error("Status.Playing = false after sending Playback and running the callback")
	}

	nonZero := false
	for _, v := range out {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("callback produced an all-silent buffer with an active voice")
	}
}

func TestInstallOutputPanicsWhenAlreadyInstalled(t *testing.T) {
	mgr := New(testSong(t))
	defer mgr.Close()
	config := OutputConfig{BufferSize: 64, ChannelCount: 2, SampleRate: 44100}
	mgr.InstallOutput(config)
	defer mgr.CloseStream()

	defer func() {
		if recover() == nil {
			t.Fatal("InstallOutput a second time did not panic")
		}
	}()
	mgr.InstallOutput(config)
}

func TestCloseIsIdempotentAndClearsSamples(t *testing.T) {
	mgr := New(testSong(t))
	mgr.Close()
	mgr.Close() // must not panic or double-release

	if leaked := mgr.Leaked(); len(leaked) != 0 {
		t.Errorf("Leaked() after Close = %d, want 0", len(leaked))
	}
}

func TestCloseAfterInstallOutputReportsNoLeaks(t *testing.T) {
	mgr := New(testSong(t))

	config := OutputConfig{BufferSize: 64, ChannelCount: 2, SampleRate: 44100}
	mgr.InstallOutput(config)

	mgr.Close()

	if leaked := mgr.Leaked(); len(leaked) != 0 {
		t.Errorf("Leaked() after Close with a Reader built = %d, want 0", len(leaked))
	}
}
