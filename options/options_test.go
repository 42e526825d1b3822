package options

import (
	"testing"
	"time"

	"github.com/richinsley/luckybolt/config"
)

func TestApplyOnlyChanged(t *testing.T) {
	cfg := config.Default()
	o := FromConfig(cfg)
	o.Width = 800
	o.Hue = 30
	o.FPS = 60
	o.Mute = true

	set := map[string]bool{"hue": true, "mute": true}
	o.Apply(&cfg, func(name string) bool { return set[name] })

	if cfg.Window.Width != 1280 {
		t.Errorf("unset width applied: %d", cfg.Window.Width)
	}
	if cfg.Record.FPS != 30 {
		t.Errorf("unset fps applied: %d", cfg.Record.FPS)
	}
	if cfg.Lightning.Wide.Hue != 30 || cfg.Lightning.Compact.Hue != 30 {
		t.Errorf("hue not applied to both profiles: %v/%v", cfg.Lightning.Wide.Hue, cfg.Lightning.Compact.Hue)
	}
	if cfg.Audio.Enabled {
		t.Error("mute not applied")
	}
}

func TestApplyRecordFlags(t *testing.T) {
	cfg := config.Default()
	o := FromConfig(cfg)
	o.Width, o.Height = 640, 360
	o.Duration = 3 * time.Second
	o.Output = "clip.webm"
	o.FFmpegPath = "/opt/ffmpeg"

	o.Apply(&cfg, func(string) bool { return true })

	if cfg.Record.Width != 640 || cfg.Record.Height != 360 {
		t.Errorf("record size = %dx%d", cfg.Record.Width, cfg.Record.Height)
	}
	if cfg.Record.Duration != 3*time.Second || cfg.Record.Output != "clip.webm" || cfg.Record.FFmpeg != "/opt/ffmpeg" {
		t.Errorf("record = %+v", cfg.Record)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	o := FromConfig(config.Default())
	if o.Width != 1280 || o.Height != 720 || o.Hue != 220 || o.Mute || o.Count != 1 {
		t.Errorf("FromConfig = %+v", o)
	}
}
