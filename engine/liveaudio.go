package engine

import (
	"github.com/beatforge/trackerengine/internal/ringcmd"
	"github.com/beatforge/trackerengine/internal/triplebuf"
	"github.com/beatforge/trackerengine/leftright"
	"github.com/beatforge/trackerengine/playback"
	"github.com/beatforge/trackerengine/sample"
	"github.com/beatforge/trackerengine/song"
	"github.com/beatforge/trackerengine/voice"
)

// liveAudio is the audio-thread state behind the callback InstallOutput
// returns. Every method on it runs on the realtime audio thread and
// must neither block nor panic. It is not allocation-free: handling a
// Playback or PlayEvent command, and every row advance that starts a
// voice, allocates a new playback.State or voice.Player.
type liveAudio struct {
	songReader *leftright.Reader[song.Song]
	playback   *playback.State[voice.Linear]
	liveNote   *voice.Player[voice.Linear]
	commands   *ringcmd.Ring[ToWorkerMsg]
	status     *triplebuf.Buf[Status]
	config     OutputConfig

	buffer []sample.Frame
}

func newLiveAudio(reader *leftright.Reader[song.Song], commands *ringcmd.Ring[ToWorkerMsg], status *triplebuf.Buf[Status], config OutputConfig) *liveAudio {
	return &liveAudio{
		songReader: reader,
		commands:   commands,
		status:     status,
		config:     config,
		buffer:     make([]sample.Frame, config.BufferSize),
	}
}

func (la *liveAudio) sendStatus() {
	st := Status{}
	if la.playback != nil {
		st.Playing = true
		st.Position = la.playback.Status().Position
	}
	la.status.Write(st)
}

// fillInternalBuffer drains pending commands, advances live-note and
// song playback by n frames into la.buffer, and reports whether any
// work was done (false means the caller need not touch the output
// buffer at all beyond whatever silence it already holds).
func (la *liveAudio) fillInternalBuffer(n int) bool {
	buffer := la.buffer[:n]

	guard := la.songReader.Lock()
	defer guard.Release()
	currentSong := guard.Value()

	for {
		msg, ok := la.commands.Pop()
		if !ok {
			break
		}
		switch msg.kind {
		case msgStopPlayback:
			la.playback = nil
		case msgPlayback:
			la.playback, _ = playback.New(currentSong, la.config.SampleRate, msg.settings, voice.Linear{})
		case msgPlayEvent:
			slot := currentSong.Samples[msg.liveNote.SampleInstr]
			if !slot.Handle.IsZero() {
				la.liveNote = voice.NewPlayer(slot.Handle, slot.Meta, msg.liveNote.Note, la.config.SampleRate, voice.Linear{})
			}
		case msgStopLiveNote:
			la.liveNote = nil
		}
	}

	if la.liveNote == nil && la.playback == nil {
		return false
	}

	for i := range buffer {
		buffer[i] = sample.Frame{}
	}

	if la.liveNote != nil {
		for i := range buffer {
			frame, ok := la.liveNote.Next()
			if !ok {
				la.liveNote = nil
				break
			}
			buffer[i] = buffer[i].Add(frame)
		}
	}

	if la.playback != nil {
		for i := range buffer {
			frame, ok := la.playback.Next(currentSong)
			if !ok {
				la.playback = nil
				break
			}
			buffer[i] = buffer[i].Add(frame)
		}
	}

	return true
}

// fillFromInternal converts la.buffer (stereo float32) into the
// device's output format: summed to mono if the device is mono,
// otherwise the first two channels get the stereo pair and any
// remaining channels get silence.
func (la *liveAudio) fillFromInternal(out []int16) {
	channels := int(la.config.ChannelCount)
	if channels == 1 {
		for i, f := range la.buffer {
			out[i] = floatToInt16(f.SumToMono())
		}
		return
	}
	for i, f := range la.buffer {
		base := i * channels
		out[base] = floatToInt16(f[0])
		out[base+1] = floatToInt16(f[1])
		for c := 2; c < channels; c++ {
			out[base+c] = 0
		}
	}
}

func floatToInt16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

// callback is the function InstallOutput hands to the audio host
// library. data is the interleaved output buffer for one period, sized
// frames * ChannelCount.
func (la *liveAudio) callback(data []int16) {
	channels := int(la.config.ChannelCount)
	frames := len(data) / channels

	if la.fillInternalBuffer(frames) {
		la.fillFromInternal(data[:frames*channels])
	} else {
		for i := range data {
			data[i] = 0
		}
	}
	la.sendStatus()
}
