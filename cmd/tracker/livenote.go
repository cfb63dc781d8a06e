package main

import (
	"flag"
	"fmt"
	"log"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/gordonklaus/portaudio"

	"github.com/beatforge/trackerengine/engine"
	"github.com/beatforge/trackerengine/note"
)

// liveKeys maps a row of the keyboard to notes a semitone apart,
// starting at the demo sample's base note.
var liveKeys = []rune{'a', 's', 'd', 'f', 'g', 'h', 'j', 'k'}

// runLiveNote lets you trigger the demo sample at different pitches
// from the keyboard, with no pattern playback running.
func runLiveNote(args []string) {
	var flagHz int
	parseFlags("livenote", args, func(fs *flag.FlagSet) {
		fs.IntVar(&flagHz, "hz", 44100, "output sample rate")
	})

	mgr := engine.New(*demoSong())
	defer mgr.Close()

	if err := portaudio.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer portaudio.Terminate()

	config := engine.OutputConfig{BufferSize: 512, ChannelCount: 2, SampleRate: uint32(flagHz)}
	callback := mgr.InstallOutput(config)

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(flagHz), int(config.BufferSize), callback)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		stream.Stop()
		stream.Close()
		mgr.CloseStream()
	}()
	if err := stream.Start(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("keys %q play notes, space stops the note, ctrl-c/esc quits\n", string(liveKeys))

	keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		if key.Code == keys.CtrlC || key.Code == keys.Escape {
			return true, nil
		}
		if key.Code == keys.Space {
			mgr.TrySendCommand(engine.StopLiveNote())
			return false, nil
		}
		if key.Code == keys.RuneKey && len(key.Runes) > 0 {
			for i, k := range liveKeys {
				if key.Runes[0] == k {
					played, nerr := note.New(note.Default.Get() + uint8(i))
					if nerr != nil {
						return false, nil
					}
					mgr.TrySendCommand(engine.PlayEvent(note.Event{Note: played, SampleInstr: 0}))
					return false, nil
				}
			}
		}
		return false, nil
	})
}
