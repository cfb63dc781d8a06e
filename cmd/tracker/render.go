package main

import (
	"flag"
	"log"
	"os"

	"github.com/beatforge/trackerengine/cmd/tracker/internal/config"
	"github.com/beatforge/trackerengine/playback"
	"github.com/beatforge/trackerengine/render"
)

// runRender writes the demo song to a WAV file with no audio device
// involved, optionally passing it through the offline comb reverb.
func runRender(args []string) {
	var (
		flagHz     int
		flagOut    string
		flagFrames int
		flagReverb string
	)
	parseFlags("render", args, func(fs *flag.FlagSet) {
		fs.IntVar(&flagHz, "hz", 44100, "output sample rate")
		fs.StringVar(&flagOut, "out", "out.wav", "output WAV path")
		fs.IntVar(&flagFrames, "frames", 44100*10, "frames to render (the demo song's orderlist doesn't loop, so this just caps a runaway render)")
		fs.StringVar(&flagReverb, "reverb", "none", "reverb preset: none, light, medium, silly")
	})

	reverb, err := config.ReverbFromFlag(flagReverb)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(flagOut)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	opts := render.Options{
		SampleRate: uint32(flagHz),
		Settings:   playback.Settings{FollowOrder: true, Loop: false},
		MaxFrames:  flagFrames,
		Reverb:     reverb,
	}

	if err := render.ToWAV(f, demoSong(), opts); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", flagOut)
}
