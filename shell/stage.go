package shell

import (
	"github.com/charmbracelet/log"

	"github.com/richinsley/luckybolt/graphics"
	"github.com/richinsley/luckybolt/renderer"
)

// RendererStage is the Stage backed by a real renderer.Lightning on a surface.
type RendererStage struct {
	surface   graphics.Surface
	scheduler graphics.FrameScheduler
	logger    *log.Logger
	lightning *renderer.Lightning
}

func NewRendererStage(surface graphics.Surface, scheduler graphics.FrameScheduler, logger *log.Logger) *RendererStage {
	return &RendererStage{surface: surface, scheduler: scheduler, logger: logger}
}

func (r *RendererStage) Mount(params renderer.Params) {
	if r.lightning != nil {
		r.lightning.Update(params)
		return
	}
	r.lightning = renderer.Mount(r.surface, r.scheduler, params, r.logger)
}

// Update changes the parameters of a mounted renderer and is a no-op otherwise.
func (r *RendererStage) Update(params renderer.Params) {
	if r.lightning == nil {
		return
	}
	r.lightning.Update(params)
}

func (r *RendererStage) Unmount() {
	if r.lightning == nil {
		return
	}
	r.lightning.Unmount()
	r.lightning = nil
}

// Lightning returns the mounted renderer, or nil.
func (r *RendererStage) Lightning() *renderer.Lightning {
	return r.lightning
}
