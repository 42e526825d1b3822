package audio

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/richinsley/luckybolt/shell"
)

// We'll be using portaudio for audio output.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// Player plays shell cues through the default PortAudio output device.
type Player struct {
	mixer       *Mixer
	stream      *portaudio.Stream
	logger      *log.Logger
	isStreaming bool
}

var _ shell.Cues = (*Player)(nil)

func NewPlayer(sampleRate int, declick time.Duration, logger *log.Logger) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		mixer:  NewMixer(sampleRate, declick),
		logger: logger.WithPrefix("audio"),
	}, nil
}

// Load decodes the MP3 at path and registers it as cue.
func (p *Player) Load(cue shell.Cue, path string) error {
	clip, err := LoadClip(path)
	if err != nil {
		return err
	}
	p.mixer.Add(string(cue), clip)
	p.logger.Debug("cue loaded", "cue", cue, "path", path, "rate", clip.SampleRate, "frames", clip.Frames())
	return nil
}

// audioCallback fills PortAudio's interleaved output buffer.
func (p *Player) audioCallback(out []float32) {
	p.mixer.Mix(out)
}

func (p *Player) Start() error {
	host, err := portaudio.DefaultHostApi()
	if err != nil {
		return err
	}

	params := portaudio.HighLatencyParameters(nil, host.DefaultOutputDevice)
	params.Output.Channels = Channels
	params.SampleRate = float64(p.mixer.SampleRate())

	stream, err := portaudio.OpenStream(params, p.audioCallback)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}
	p.stream = stream
	p.isStreaming = true
	return nil
}

func (p *Player) Play(cue shell.Cue, offset time.Duration, loop bool) {
	if !p.mixer.Play(string(cue), offset, loop) {
		p.logger.Debug("cue not loaded", "cue", cue)
	}
}

func (p *Player) Stop(cue shell.Cue) {
	p.mixer.Stop(string(cue))
}

// Close stops the stream and releases PortAudio.
func (p *Player) Close() error {
	if p.isStreaming {
		p.isStreaming = false
		if err := p.stream.Close(); err != nil {
			portaudio.Terminate()
			return err
		}
	}
	return portaudio.Terminate()
}

// NullPlayer accepts every cue and plays nothing. Used when muted or when no
// output device is available.
type NullPlayer struct {
	logger *log.Logger
}

var _ shell.Cues = (*NullPlayer)(nil)

func NewNullPlayer(logger *log.Logger) *NullPlayer {
	if logger == nil {
		logger = log.Default()
	}
	return &NullPlayer{logger: logger.WithPrefix("audio")}
}

func (n *NullPlayer) Play(cue shell.Cue, offset time.Duration, loop bool) {
	n.logger.Debug("play (muted)", "cue", cue, "offset", offset, "loop", loop)
}

func (n *NullPlayer) Stop(cue shell.Cue) {
	n.logger.Debug("stop (muted)", "cue", cue)
}

func (n *NullPlayer) Close() error { return nil }
