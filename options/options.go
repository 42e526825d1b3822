// Package options holds the command-line settings shared by the luckybolt
// commands and layers them over the loaded configuration.
package options

import (
	"time"

	"github.com/richinsley/luckybolt/config"
)

type Options struct {
	ConfigPath string
	Verbose    bool
	Seed       uint64

	// Window
	Width  int
	Height int
	VSync  bool
	Mute   bool
	Hue    float64

	// draw
	Count int
	PNG   string

	// record
	Duration   time.Duration
	FPS        int
	Output     string
	FFmpegPath string
	Codec      string
}

// FromConfig seeds the options from cfg so flag defaults show the effective
// configuration.
func FromConfig(cfg config.Config) *Options {
	return &Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		VSync:      cfg.Window.VSync,
		Mute:       !cfg.Audio.Enabled,
		Hue:        float64(cfg.Lightning.Wide.Hue),
		Count:      1,
		Duration:   cfg.Record.Duration,
		FPS:        cfg.Record.FPS,
		Output:     cfg.Record.Output,
		FFmpegPath: cfg.Record.FFmpeg,
	}
}

// Apply copies every option the user set explicitly into cfg. changed
// reports whether the flag with the given name was set.
func (o *Options) Apply(cfg *config.Config, changed func(name string) bool) {
	if changed("width") {
		cfg.Window.Width = o.Width
		cfg.Record.Width = o.Width
	}
	if changed("height") {
		cfg.Window.Height = o.Height
		cfg.Record.Height = o.Height
	}
	if changed("vsync") {
		cfg.Window.VSync = o.VSync
	}
	if changed("mute") {
		cfg.Audio.Enabled = !o.Mute
	}
	if changed("hue") {
		cfg.Lightning.Wide.Hue = float32(o.Hue)
		cfg.Lightning.Compact.Hue = float32(o.Hue)
	}
	if changed("duration") {
		cfg.Record.Duration = o.Duration
	}
	if changed("fps") {
		cfg.Record.FPS = o.FPS
	}
	if changed("output") {
		cfg.Record.Output = o.Output
	}
	if changed("ffmpeg") {
		cfg.Record.FFmpeg = o.FFmpegPath
	}
}
