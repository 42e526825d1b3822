package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/luckybolt.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration, identical to the embedded
// default file.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:        1280,
			Height:       720,
			VSync:        true,
			CompactBelow: 640,
		},
		Lightning: LightningConfig{
			Wide:    Profile{Hue: 220, XOffset: 0, Speed: 0.7, Intensity: 1.2, Size: 1.8},
			Compact: Profile{Hue: 220, XOffset: 0, Speed: 0.7, Intensity: 1.7, Size: 1.2},
		},
		Timing: TimingConfig{
			GuideDelay:   10 * time.Second,
			GogogoOffset: 400 * time.Millisecond,
			FinalDelay:   3 * time.Second,
			AnimateFor:   5 * time.Second,
			FadeFor:      700 * time.Millisecond,
			GenerateFor:  2 * time.Second,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SoundDir:   "sound",
			SampleRate: 44100,
			Declick:    5 * time.Millisecond,
			Cues: map[string]string{
				"init":   "init.mp3",
				"gogogo": "gogogo.mp3",
				"final":  "Final.mp3",
			},
		},
		Record: RecordConfig{
			Width:    1280,
			Height:   720,
			FPS:      30,
			Duration: 10 * time.Second,
			Output:   "lightning.mp4",
			FFmpeg:   "ffmpeg",
		},
	}
}

// DefaultYAML returns the embedded default file.
func DefaultYAML() []byte {
	return defaultYAML
}
