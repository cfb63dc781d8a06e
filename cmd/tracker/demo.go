package main

import (
	"math"

	"github.com/beatforge/trackerengine/note"
	"github.com/beatforge/trackerengine/sample"
	"github.com/beatforge/trackerengine/song"
)

// demoSong builds a small in-memory song: a single sine-wave sample
// triggered on channel 0 every 8 rows of one pattern, which is the only
// entry of the orderlist before EndOfSong. There is
// no file-format loader in this repo (MOD/S3M parsing is out of scope,
// see DESIGN.md); this lets the play/livenote/render subcommands have
// something to demonstrate the engine against without one.
func demoSong() *song.Song {
	s := song.New()

	const sampleRate = 44100
	const freq = 440.0
	const cycles = 4
	n := int(float64(sampleRate) * cycles / freq)
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
	}
	handle, err := sample.NewMono(data)
	if err != nil {
		panic(err) // fixed small buffer, can't exceed sample.MaxLength
	}

	s.Samples[0] = song.Slot{
		Meta: sample.Meta{
			DefaultVolume: 64,
			GlobalVolume:  64,
			SampleRate:    sampleRate,
			BaseNote:      note.Default,
		},
		Handle: handle,
	}

	pattern := song.DefaultPattern()
	for row := uint16(0); row < pattern.RowCount(); row += 8 {
		_ = pattern.SetEvent(song.Position{Row: row, Channel: 0}, note.Event{
			Note:        note.Default,
			SampleInstr: 0,
		})
	}
	s.Patterns[0] = pattern

	order0, _ := song.NewOrderNumber(0)
	s.PatternOrder[0] = order0
	s.PatternOrder[1] = song.EndOfSong

	return s
}
