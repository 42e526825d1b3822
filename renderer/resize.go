package renderer

import "math"

// Used when neither the container nor the surface itself has a layout box.
const (
	FallbackWidth  = 300
	FallbackHeight = 150
)

// Size is a surface's display size and its dpr-scaled backing store.
type Size struct {
	DisplayWidth, DisplayHeight int
	BackingWidth, BackingHeight int
}

// ComputeSize picks the display box (container first, then the surface's
// own client box, then the fallback per dimension) and scales it by dpr.
func ComputeSize(containerW, containerH, clientW, clientH int, dpr float64) Size {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	w, h := containerW, containerH
	if w <= 0 || h <= 0 {
		w, h = clientW, clientH
		if w <= 0 {
			w = FallbackWidth
		}
		if h <= 0 {
			h = FallbackHeight
		}
	}
	return Size{
		DisplayWidth:  w,
		DisplayHeight: h,
		BackingWidth:  int(math.Round(float64(w) * dpr)),
		BackingHeight: int(math.Round(float64(h) * dpr)),
	}
}

// resize matches the backing store to the container. Safe before a device
// exists and after it is lost.
func (l *Lightning) resize() {
	cw, ch := l.surface.ContainerSize()
	w, h := l.surface.ClientSize()
	size := ComputeSize(cw, ch, w, h, l.surface.PixelRatio())

	l.surface.SetBackingSize(size.BackingWidth, size.BackingHeight)
	l.surface.SetDisplaySize(size.DisplayWidth, size.DisplayHeight)

	if dev := l.s.dev; dev != nil && !dev.IsContextLost() {
		dev.Viewport(0, 0, size.BackingWidth, size.BackingHeight)
	}
}
