// Package wavinfo reads the header of a WAV file.
package wavinfo

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// formatPCM is the WAVE_FORMAT_PCM tag in the fmt chunk.
const formatPCM = 1

var ErrNotWAV = errors.New("not a valid WAV file")

// Info describes the stream stored in a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	PCM        bool
	Duration   time.Duration
}

// IsMonoPCM16 reports whether the file holds the format the recognizer
// expects.
func (i Info) IsMonoPCM16() bool {
	return i.PCM && i.Channels == 1 && i.BitDepth == 16
}

// Inspect reads the header of the WAV file at path.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return Info{}, fmt.Errorf("read wav header: %w", err)
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		PCM:        dec.WavAudioFormat == formatPCM,
	}
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
	}
	return info, nil
}
