package graphics

// FrameID identifies a pending frame callback. Zero means "none".
type FrameID uint64

// FrameScheduler runs a callback once before the next repaint.
type FrameScheduler interface {
	RequestFrame(cb func()) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	cb func()
}

// FrameQueue is a single-threaded FrameScheduler. The owner of the display
// loop calls RunFrame once per repaint; callbacks requested while RunFrame
// is draining are deferred to the following frame.
type FrameQueue struct {
	next     FrameID
	pending  []pendingFrame
	draining map[FrameID]bool // ids of the batch being run; false once cancelled
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(cb func()) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, cb: cb})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	if _, ok := q.draining[id]; ok {
		q.draining[id] = false
		return
	}
	for i, f := range q.pending {
		if f.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending reports how many callbacks are waiting for the next frame.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// RunFrame invokes every callback that was pending when it was called and
// returns how many ran. A callback cancelled by an earlier callback in the
// same frame does not run.
func (q *FrameQueue) RunFrame() int {
	batch := q.pending
	q.pending = nil
	if len(batch) == 0 {
		return 0
	}

	q.draining = make(map[FrameID]bool, len(batch))
	for _, f := range batch {
		q.draining[f.id] = true
	}
	defer func() { q.draining = nil }()

	ran := 0
	for _, f := range batch {
		if !q.draining[f.id] {
			continue
		}
		delete(q.draining, f.id)
		f.cb()
		ran++
	}
	return ran
}
