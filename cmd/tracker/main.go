// Command tracker is a small interactive host for the trackerengine
// module: it plays the built-in demo song through PortAudio (play), lets
// you trigger one-shot notes from the keyboard (livenote), or renders
// the demo song to a WAV file with no audio device at all (render).
// There is no tracker-module file loader here (MOD/S3M parsing is out
// of scope, see DESIGN.md); all three subcommands operate on demoSong.
package main

import (
	"flag"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("tracker: ")

	if len(os.Args) < 2 {
		log.Fatal("usage: tracker <play|livenote|render> [flags]")
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "play":
		runPlay(args)
	case "livenote":
		runLiveNote(args)
	case "render":
		runRender(args)
	default:
		log.Fatalf("unknown subcommand %q, want play, livenote, or render", cmd)
	}
}

func parseFlags(name string, args []string, setup func(*flag.FlagSet)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	setup(fs)
	fs.Parse(args)
	return fs
}
