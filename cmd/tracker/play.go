package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	"github.com/beatforge/trackerengine/engine"
	"github.com/beatforge/trackerengine/playback"
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

var (
	white = color.New(color.FgWhite).SprintfFunc()
	cyan  = color.New(color.FgCyan).SprintfFunc()
)

// runPlay plays the demo song through the default output device,
// following the orderlist and looping, until ctrl-C or 'q'.
func runPlay(args []string) {
	var flagHz int
	parseFlags("play", args, func(fs *flag.FlagSet) {
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

	mgr.TrySendCommand(engine.Playback(playback.Settings{FollowOrder: true, Loop: true}))

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)

	done := make(chan struct{})
	go func() {
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape || (key.Code == keys.RuneKey && len(key.Runes) > 0 && key.Runes[0] == 'q') {
				return true, nil
			}
			return false, nil
		})
		close(done)
	}()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	var last playback.Position
	for {
		select {
		case <-sigch:
			return
		case <-done:
			return
		default:
		}
		if status, ok := mgr.PlaybackStatus(); ok && status.Position != last {
			last = status.Position
			fmt.Fprintf(os.Stdout, "%s pattern %s row %s\r",
				white("playing"), cyan("%d", status.Position.Pattern), cyan("%d", status.Position.Row))
		}
	}
}
