// Package config provides YAML-based configuration loading for luckybolt.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/richinsley/luckybolt/renderer"
	"github.com/richinsley/luckybolt/shell"
)

// Config contains all luckybolt settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Lightning LightningConfig `yaml:"lightning"`
	Timing    TimingConfig    `yaml:"timing"`
	Audio     AudioConfig     `yaml:"audio"`
	Record    RecordConfig    `yaml:"record"`
}

type WindowConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	VSync        bool `yaml:"vsync"`
	CompactBelow int  `yaml:"compact_below"` // window width below which the compact profile is used
}

// Profile is one set of renderer parameters.
type Profile struct {
	Hue       float32 `yaml:"hue"`
	XOffset   float32 `yaml:"x_offset"`
	Speed     float32 `yaml:"speed"`
	Intensity float32 `yaml:"intensity"`
	Size      float32 `yaml:"size"`
}

func (p Profile) Params() renderer.Params {
	return renderer.Params{Hue: p.Hue, XOffset: p.XOffset, Speed: p.Speed, Intensity: p.Intensity, Size: p.Size}
}

type LightningConfig struct {
	Wide    Profile `yaml:"wide"`
	Compact Profile `yaml:"compact"`
}

type TimingConfig struct {
	GuideDelay   time.Duration `yaml:"guide_delay"`
	GogogoOffset time.Duration `yaml:"gogogo_offset"`
	FinalDelay   time.Duration `yaml:"final_delay"`
	AnimateFor   time.Duration `yaml:"animate_for"`
	FadeFor      time.Duration `yaml:"fade_for"`
	GenerateFor  time.Duration `yaml:"generate_for"`
}

type AudioConfig struct {
	Enabled    bool              `yaml:"enabled"`
	SoundDir   string            `yaml:"sound_dir"`
	SampleRate int               `yaml:"sample_rate"`
	Declick    time.Duration     `yaml:"declick"`
	Cues       map[string]string `yaml:"cues"` // cue name -> mp3 file, relative to SoundDir
}

// CuePath resolves the file for a named cue.
func (a AudioConfig) CuePath(name string) (string, bool) {
	file, ok := a.Cues[name]
	if !ok || file == "" {
		return "", false
	}
	if filepath.IsAbs(file) {
		return file, true
	}
	return filepath.Join(a.SoundDir, file), true
}

type RecordConfig struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	FPS      int           `yaml:"fps"`
	Duration time.Duration `yaml:"duration"`
	Output   string        `yaml:"output"`
	FFmpeg   string        `yaml:"ffmpeg"`
}

// Shell converts the lightning and timing sections into shell settings.
func (c Config) Shell() shell.Settings {
	return shell.Settings{
		Wide:         c.Lightning.Wide.Params(),
		Compact:      c.Lightning.Compact.Params(),
		CompactBelow: c.Window.CompactBelow,
		Timings: shell.Timings{
			GuideDelay:   c.Timing.GuideDelay,
			GogogoOffset: c.Timing.GogogoOffset,
			FinalDelay:   c.Timing.FinalDelay,
			AnimateFor:   c.Timing.AnimateFor,
			FadeFor:      c.Timing.FadeFor,
			GenerateFor:  c.Timing.GenerateFor,
		},
	}
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Record.Width <= 0 || c.Record.Height <= 0:
		return fmt.Errorf("%w: record size %dx%d", ErrInvalidConfig, c.Record.Width, c.Record.Height)
	case c.Record.FPS <= 0:
		return fmt.Errorf("%w: record fps %d", ErrInvalidConfig, c.Record.FPS)
	case c.Record.Duration <= 0:
		return fmt.Errorf("%w: record duration %v", ErrInvalidConfig, c.Record.Duration)
	case c.Audio.Enabled && c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	for name, d := range map[string]time.Duration{
		"guide_delay":   c.Timing.GuideDelay,
		"gogogo_offset": c.Timing.GogogoOffset,
		"final_delay":   c.Timing.FinalDelay,
		"animate_for":   c.Timing.AnimateFor,
		"fade_for":      c.Timing.FadeFor,
		"generate_for":  c.Timing.GenerateFor,
	} {
		if d < 0 {
			return fmt.Errorf("%w: timing.%s is negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
