package graphics

// ContextLoss tracks whether a surface's context is lost and delivers loss
// and restore notifications to its listeners. It is single-threaded.
//
// The surface outlives any one renderer, so a restore always clears the
// lost flag. Restore listeners only run when a loss listener prevented the
// default, or when one was attached while the context was already lost.
type ContextLoss struct {
	lost       bool
	restorable bool

	next        int
	lostFns     map[int]func(*ContextEvent)
	restoredFns map[int]func()
}

func NewContextLoss() *ContextLoss {
	return &ContextLoss{
		lostFns:     make(map[int]func(*ContextEvent)),
		restoredFns: make(map[int]func()),
	}
}

func (c *ContextLoss) OnLost(fn func(*ContextEvent)) (detach func()) {
	c.next++
	id := c.next
	c.lostFns[id] = fn
	return func() { delete(c.lostFns, id) }
}

func (c *ContextLoss) OnRestored(fn func()) (detach func()) {
	c.next++
	id := c.next
	c.restoredFns[id] = fn
	if c.lost {
		c.restorable = true
	}
	return func() { delete(c.restoredFns, id) }
}

// Lose runs the loss listeners, then marks the context lost. Listeners run
// first so they can still delete their objects. It reports false when the
// context was already lost.
func (c *ContextLoss) Lose() bool {
	if c.lost {
		return false
	}
	e := &ContextEvent{}
	for _, fn := range values(c.lostFns) {
		fn(e)
	}
	c.lost = true
	c.restorable = e.DefaultPrevented()
	return true
}

// Restore clears the lost flag and reports whether restore listeners were
// notified.
func (c *ContextLoss) Restore() bool {
	if !c.lost {
		return false
	}
	c.lost = false
	if !c.restorable {
		return false
	}
	c.restorable = false
	for _, fn := range values(c.restoredFns) {
		fn()
	}
	return true
}

func (c *ContextLoss) IsLost() bool { return c.lost }

// Listeners is the number of attached loss and restore listeners.
func (c *ContextLoss) Listeners() int { return len(c.lostFns) + len(c.restoredFns) }

// values copies the listeners so one may detach itself while running.
func values[F any](m map[int]F) []F {
	out := make([]F, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}
