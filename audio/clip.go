package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// Channels is the channel count of every clip and of the output stream.
const Channels = 2

// Clip is a decoded sound held in memory as interleaved stereo samples in
// [-1, 1].
type Clip struct {
	Samples    []float32
	SampleRate int
}

// Frames is the number of sample frames in the clip.
func (c *Clip) Frames() int { return len(c.Samples) / Channels }

// DecodeMP3 decodes a whole MP3 stream. go-mp3 always yields 16 bit little
// endian stereo, even for mono sources.
func DecodeMP3(r io.Reader) (*Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	clip := &Clip{SampleRate: dec.SampleRate()}
	if n := dec.Length(); n > 0 {
		clip.Samples = make([]float32, 0, n/2)
	}

	chunk := make([]byte, 4096)
	for {
		n, err := dec.Read(chunk)
		for i := 0; i+1 < n; i += 2 {
			s := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			clip.Samples = append(clip.Samples, float32(s)/32768)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}
	}
	return clip, nil
}

// LoadClip decodes an MP3 file.
func LoadClip(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	clip, err := DecodeMP3(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return clip, nil
}

// Resample returns the clip converted to rate by linear interpolation.
func (c *Clip) Resample(rate int) *Clip {
	if rate == c.SampleRate || rate <= 0 || c.SampleRate <= 0 || c.Frames() == 0 {
		return c
	}
	frames := int(int64(c.Frames()) * int64(rate) / int64(c.SampleRate))
	out := &Clip{Samples: make([]float32, frames*Channels), SampleRate: rate}
	step := float64(c.SampleRate) / float64(rate)
	last := c.Frames() - 1

	for i := 0; i < frames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := float32(pos - float64(j))
		k := min(j+1, last)
		for ch := 0; ch < Channels; ch++ {
			a := c.Samples[j*Channels+ch]
			b := c.Samples[k*Channels+ch]
			out.Samples[i*Channels+ch] = a + (b-a)*frac
		}
	}
	return out
}
