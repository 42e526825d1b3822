package renderer

import "github.com/richinsley/luckybolt/graphics"

// handleContextLost moves the session to Lost. The default is prevented so
// the surface will later report a restore.
func (l *Lightning) handleContextLost(e *graphics.ContextEvent) {
	e.PreventDefault()
	l.s.running = false
	l.cancelFrame()
	l.releaseObjects()
	l.s.state = Lost
	l.logger.Warn("graphics context lost", "error", ErrContextLost)
}

// handleContextRestored rebuilds the session from scratch. A failed rebuild
// leaves the renderer in Lost; the surface decides whether to try again.
func (l *Lightning) handleContextRestored() {
	if !l.mounted || l.s.state == Active {
		return
	}
	if err := l.setup(); err != nil {
		l.s.state = Lost
		l.logger.Error("session restore failed", "error", err)
		return
	}
	l.logger.Info("graphics context restored")
}
