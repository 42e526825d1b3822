package renderer

import (
	"time"

	"github.com/richinsley/luckybolt/graphics"
	"github.com/richinsley/luckybolt/shader"
)

// LoopPeriod is the length of the time sawtooth fed to the shader.
const LoopPeriod = 5 * time.Second

// FrameClock turns a monotonic timestamp into the shader's iTime.
type FrameClock struct {
	start time.Duration
}

func NewFrameClock(now time.Duration) FrameClock {
	return FrameClock{start: now}
}

// Elapsed is ((now - start) mod 5000ms) / 1000, in seconds. It is always in
// [0, 5) and resets to 0 at every period boundary.
func (c FrameClock) Elapsed(now time.Duration) float32 {
	period := LoopPeriod.Milliseconds()
	ms := (now - c.start).Milliseconds() % period
	if ms < 0 {
		ms += period
	}
	return float32(ms) / 1000
}

// tick draws one frame and schedules the next. It is the only place that
// issues uniform writes or draw calls.
func (l *Lightning) tick() {
	l.s.frame = 0
	dev := l.s.dev
	if !l.mounted || !l.s.running || dev == nil || dev.IsContextLost() || l.s.gpu == nil {
		l.cancelFrame()
		return
	}

	gpu := l.s.gpu
	dev.UseProgram(gpu.program)

	w, h := l.surface.BackingSize()
	uniform2f(dev, gpu.loc.resolution, float32(w), float32(h))
	uniform1f(dev, gpu.loc.time, l.s.clock.Elapsed(l.surface.Now()))
	uniform1f(dev, gpu.loc.hue, l.params.Hue)
	uniform1f(dev, gpu.loc.xOffset, l.params.XOffset)
	uniform1f(dev, gpu.loc.speed, l.params.Speed)
	uniform1f(dev, gpu.loc.intensity, l.params.Intensity)
	uniform1f(dev, gpu.loc.size, l.params.Size)

	dev.DrawTriangles(0, shader.QuadVertexCount)

	l.s.frame = l.scheduler.RequestFrame(l.tick)
}

func uniform1f(dev graphics.Device, loc graphics.UniformLocation, v float32) {
	if loc.Valid() {
		dev.Uniform1f(loc, v)
	}
}

func uniform2f(dev graphics.Device, loc graphics.UniformLocation, x, y float32) {
	if loc.Valid() {
		dev.Uniform2f(loc, x, y)
	}
}
