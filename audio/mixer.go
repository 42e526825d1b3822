package audio

import (
	"sync"
	"time"
)

type voice struct {
	clip *Clip
	pos  int // next frame
	loop bool

	riseAt   int // frames into the rise ramp, -1 when not rising
	fallAt   int // frames into the fall ramp, -1 when not stopping
	finished bool
}

// Mixer sums the playing cues into an interleaved stereo buffer. Play and
// Stop are called from the UI thread while Mix runs on the audio callback
// thread, so all state is guarded by mu.
type Mixer struct {
	mu     sync.Mutex
	rate   int
	clips  map[string]*Clip
	voices map[string]*voice
	rise   []float32
	fall   []float32
}

// NewMixer returns a mixer producing rate Hz output with declick ramps of
// the given length.
func NewMixer(rate int, declick time.Duration) *Mixer {
	rise, fall := Declick(int(declick * time.Duration(rate) / time.Second))
	return &Mixer{
		rate:   rate,
		clips:  make(map[string]*Clip),
		voices: make(map[string]*voice),
		rise:   rise,
		fall:   fall,
	}
}

func (m *Mixer) SampleRate() int { return m.rate }

// Add registers a clip under name, resampling it to the output rate.
func (m *Mixer) Add(name string, clip *Clip) {
	clip = clip.Resample(m.rate)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clips[name] = clip
}

// Play starts name from offset, restarting it if it is already playing.
// It returns false for an unknown cue.
func (m *Mixer) Play(name string, offset time.Duration, loop bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	clip, ok := m.clips[name]
	if !ok || clip.Frames() == 0 {
		return false
	}
	start := int(offset * time.Duration(m.rate) / time.Second)
	if start < 0 || start >= clip.Frames() {
		start = 0
	}
	v := &voice{clip: clip, pos: start, loop: loop, riseAt: -1, fallAt: -1}
	if start > 0 && len(m.rise) > 0 {
		v.riseAt = 0
	}
	m.voices[name] = v
	return true
}

// Stop fades name out over the declick ramp.
func (m *Mixer) Stop(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.voices[name]
	if !ok {
		return
	}
	if len(m.fall) == 0 {
		delete(m.voices, name)
		return
	}
	if v.fallAt < 0 {
		v.fallAt = 0
	}
}

// Playing reports whether name is still audible.
func (m *Mixer) Playing(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.voices[name]
	return ok
}

// Mix overwrites out with the next len(out)/Channels frames.
func (m *Mixer) Mix(out []float32) {
	clear(out)

	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(out) / Channels
	for name, v := range m.voices {
		m.mixVoice(v, out[:frames*Channels])
		if v.finished {
			delete(m.voices, name)
		}
	}

	for i, s := range out {
		out[i] = min(max(s, -1), 1)
	}
}

func (m *Mixer) mixVoice(v *voice, out []float32) {
	frames := len(out) / Channels
	total := v.clip.Frames()

	for f := 0; f < frames; f++ {
		if v.pos >= total {
			if !v.loop {
				v.finished = true
				return
			}
			v.pos = 0
		}

		gain := float32(1)
		if v.riseAt >= 0 {
			gain = m.rise[v.riseAt]
			if v.riseAt++; v.riseAt >= len(m.rise) {
				v.riseAt = -1
			}
		}
		if v.fallAt >= 0 {
			if v.fallAt >= len(m.fall) {
				v.finished = true
				return
			}
			gain *= m.fall[v.fallAt]
			v.fallAt++
		}

		src := v.clip.Samples[v.pos*Channels : v.pos*Channels+Channels]
		for ch := 0; ch < Channels; ch++ {
			out[f*Channels+ch] += src[ch] * gain
		}
		v.pos++
	}
}
