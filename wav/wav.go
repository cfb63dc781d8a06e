// Package wav writes a 16-bit stereo PCM WAVE file from a stream of
// sample.Frame values, without needing to know the total frame count up
// front: the RIFF and data chunk sizes are patched in by Finish once
// everything has been written.
// See http://soundfile.sapp.org/doc/WaveFormat/ for format documentation.
package wav

import (
	"encoding/binary"
	"io"

	"github.com/beatforge/trackerengine/sample"
)

const pcmFormat = 1

// Writer writes a WAVE file incrementally to ws.
type Writer struct {
	ws io.WriteSeeker
}

type waveFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter writes the RIFF/WAVE header and a format chunk for 16-bit
// stereo PCM at sampleRate, leaving placeholder sizes that Finish fills
// in, then returns a Writer ready to accept frames.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{ws: ws}

	if _, err := ws.Write([]byte("RIFF")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil { // patched by Finish
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("fmt ")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(16)); err != nil {
		return nil, err
	}
	format := waveFormat{
		AudioFormat:   pcmFormat,
		Channels:      2,
		SampleRate:    uint32(sampleRate),
		BitsPerSample: 16,
	}
	format.ByteRate = format.SampleRate * 2 * (16 / 8)
	format.BlockAlign = 2 * (16 / 8)
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("data")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil { // patched by Finish
		return nil, err
	}

	return w, nil
}

// WriteFrames writes frames as interleaved 16-bit stereo samples,
// clamping each channel to [-1, 1] before scaling to int16 range.
func (w *Writer) WriteFrames(frames []sample.Frame) error {
	for _, f := range frames {
		pair := [2]int16{floatToInt16(f[0]), floatToInt16(f[1])}
		if err := binary.Write(w.ws, binary.LittleEndian, pair); err != nil {
			return err
		}
	}
	return nil
}

func floatToInt16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

// Finish patches the RIFF and data chunk sizes now that the total
// written length is known, and returns the file's final length.
func (w *Writer) Finish() (int64, error) {
	length, err := w.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(length-8)); err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(length-44)); err != nil {
		return 0, err
	}

	return length, nil
}
