// Package render implements offline WAV rendering: drive a playback run
// to completion without any audio host and write the result straight to
// a WAV file, optionally passing it through the comb reverb afterward.
// Never used from the realtime audio thread; the hard realtime rules
// that bind engine.liveAudio don't apply here, but there's also no
// reason to run extra processing on a thread an audio device is waiting
// on.
package render

import (
	"fmt"
	"io"

	"github.com/beatforge/trackerengine/internal/comb"
	"github.com/beatforge/trackerengine/playback"
	"github.com/beatforge/trackerengine/sample"
	"github.com/beatforge/trackerengine/song"
	"github.com/beatforge/trackerengine/voice"
	"github.com/beatforge/trackerengine/wav"
)

// Options controls an offline render.
type Options struct {
	SampleRate uint32
	Settings   playback.Settings

	// MaxFrames caps the render length; 0 means render until playback
	// finishes on its own (Settings.Loop must then be false, or the
	// render never terminates).
	MaxFrames int

	// Reverb, if non-nil, post-processes the fully rendered buffer
	// before it is written out.
	Reverb *ReverbOptions
}

// ReverbOptions configures the offline comb-filter reverb pass.
type ReverbOptions struct {
	Decay   float32
	DelayMs int
}

// ErrWouldNotTerminate is returned when MaxFrames is 0 and Settings
// loops, since such a render would never finish.
var ErrWouldNotTerminate = fmt.Errorf("render: MaxFrames is 0 but Settings loops forever")

// ToWAV renders s per opts and writes a 16-bit stereo WAV file to w.
func ToWAV(w io.WriteSeeker, s *song.Song, opts Options) error {
	if opts.MaxFrames == 0 && opts.Settings.Loop {
		return ErrWouldNotTerminate
	}

	state, ok := playback.New(s, opts.SampleRate, opts.Settings, voice.Linear{})
	if !ok {
		return fmt.Errorf("render: settings name nothing playable")
	}

	frames := make([]sample.Frame, 0, 1024)
	for n := 0; opts.MaxFrames == 0 || n < opts.MaxFrames; n++ {
		frame, ok := state.Next(s)
		if !ok {
			break
		}
		frames = append(frames, frame)
	}

	if opts.Reverb != nil {
		reverbed := comb.Apply(frames, opts.Reverb.Decay, opts.Reverb.DelayMs, int(opts.SampleRate))
		reverbed.Read(frames)
	}

	writer, err := wav.NewWriter(w, int(opts.SampleRate))
	if err != nil {
		return err
	}
	if err := writer.WriteFrames(frames); err != nil {
		return err
	}
	_, err = writer.Finish()
	return err
}
