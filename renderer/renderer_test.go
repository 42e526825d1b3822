package renderer

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/richinsley/luckybolt/graphics"
	"github.com/richinsley/luckybolt/shader"
)

var testParams = Params{Hue: 220, XOffset: 0, Speed: 0.7, Intensity: 1.2, Size: 1.8}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func mountFake(t *testing.T, s *fakeSurface) (*Lightning, *graphics.FrameQueue) {
	t.Helper()
	q := graphics.NewFrameQueue()
	return Mount(s, q, testParams, quietLogger()), q
}

func expectLive(t *testing.T, d *fakeDevice, programs, shaders, buffers int) {
	t.Helper()
	p, s, b := d.live()
	if p != programs || s != shaders || b != buffers {
		t.Errorf("live objects = %d programs, %d shaders, %d buffers; expected %d, %d, %d",
			p, s, b, programs, shaders, buffers)
	}
}

func TestMountCreatesOneSession(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)

	expectLive(t, s.dev, 1, 2, 1)
	if l.State() != Active || !l.Running() {
		t.Errorf("state = %v running = %v, expected active and running", l.State(), l.Running())
	}
	if q.Pending() != 1 {
		t.Errorf("pending frames = %d, expected exactly 1", q.Pending())
	}
	if s.listeners() != 3 {
		t.Errorf("listeners = %d, expected resize + lost + restored", s.listeners())
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)
	q.RunFrame()

	l.Unmount()

	expectLive(t, s.dev, 0, 0, 0)
	if q.Pending() != 0 {
		t.Errorf("pending frames after unmount = %d", q.Pending())
	}
	if s.listeners() != 0 {
		t.Errorf("listeners after unmount = %d", s.listeners())
	}
	if l.State() != Stopped || l.Running() {
		t.Errorf("state = %v running = %v after unmount", l.State(), l.Running())
	}

	// second unmount must not double-release
	l.Unmount()
	expectLive(t, s.dev, 0, 0, 0)
}

func TestTickWritesUniformsAndDraws(t *testing.T) {
	s := newFakeSurface()
	s.dpr = 2
	_, q := mountFake(t, s)

	s.now = 1500 * time.Millisecond
	q.RunFrame()

	if s.dev.draws != 1 {
		t.Fatalf("draws = %d, expected 1", s.dev.draws)
	}
	res := s.dev.values[shader.UniformResolution]
	if len(res) != 2 || res[0] != 1600 || res[1] != 1200 {
		t.Errorf("iResolution = %v, expected [1600 1200]", res)
	}
	expected := map[string]float32{
		shader.UniformTime:      1.5,
		shader.UniformHue:       testParams.Hue,
		shader.UniformXOffset:   testParams.XOffset,
		shader.UniformSpeed:     testParams.Speed,
		shader.UniformIntensity: testParams.Intensity,
		shader.UniformSize:      testParams.Size,
	}
	for name, want := range expected {
		got := s.dev.values[name]
		if len(got) != 1 || got[0] != want {
			t.Errorf("%s = %v, expected [%v]", name, got, want)
		}
	}
	if q.Pending() != 1 {
		t.Errorf("tick did not reschedule exactly once: pending = %d", q.Pending())
	}
}

func TestMissingUniformIsSkipped(t *testing.T) {
	s := newFakeSurface()
	s.dev.missing[shader.UniformSize] = true
	l, q := mountFake(t, s)

	q.RunFrame()
	q.RunFrame()

	if l.State() != Active {
		t.Fatalf("state = %v, a missing uniform must not abort the session", l.State())
	}
	if s.dev.draws != 2 {
		t.Errorf("draws = %d, expected 2", s.dev.draws)
	}
	if _, ok := s.dev.values[shader.UniformSize]; ok {
		t.Error("wrote to a uniform that has no location")
	}
}

func TestSetupFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *fakeSurface)
		err     error
		resize  bool // resize listener still attached
		created bool // any GL object was ever created
	}{
		{
			name:   "context unavailable",
			setup:  func(s *fakeSurface) { s.acquireErr = errors.New("webgl not supported") },
			err:    ErrContextUnavailable,
			resize: true,
		},
		{
			name:    "vertex compile failure",
			setup:   func(s *fakeSurface) { s.dev.failCompile[graphics.VertexShader] = true },
			err:     ErrShaderCompile,
			created: true,
		},
		{
			name:    "fragment compile failure",
			setup:   func(s *fakeSurface) { s.dev.failCompile[graphics.FragmentShader] = true },
			err:     ErrShaderCompile,
			created: true,
		},
		{
			name:    "link failure",
			setup:   func(s *fakeSurface) { s.dev.failLink = true },
			err:     ErrProgramLink,
			created: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeSurface()
			tc.setup(s)
			l, q := mountFake(t, s)

			expectLive(t, s.dev, 0, 0, 0)
			if l.State() != Stopped || l.Running() {
				t.Errorf("state = %v running = %v, expected stopped", l.State(), l.Running())
			}
			if q.Pending() != 0 {
				t.Errorf("pending frames = %d, expected none", q.Pending())
			}
			if got := len(s.resize) == 1; got != tc.resize {
				t.Errorf("resize listener attached = %v, expected %v", got, tc.resize)
			}
			if got := s.dev.next > 0; got != tc.created {
				t.Errorf("objects created = %v, expected %v", got, tc.created)
			}

			// the direct error classification
			s2 := newFakeSurface()
			tc.setup(s2)
			l2 := &Lightning{surface: s2, scheduler: graphics.NewFrameQueue(), logger: quietLogger(), mounted: true}
			if err := l2.setup(); !errors.Is(err, tc.err) {
				t.Errorf("setup() error = %v, expected %v", err, tc.err)
			}

			l.Unmount()
			expectLive(t, s.dev, 0, 0, 0)
			if s.listeners() != 0 {
				t.Errorf("listeners after unmount = %d", s.listeners())
			}
		})
	}
}

func TestResizeZeroContainerFallsBack(t *testing.T) {
	s := newFakeSurface()
	s.containerW, s.containerH = 0, 0
	s.dpr = 2
	mountFake(t, s)

	if s.displayW != FallbackWidth || s.displayH != FallbackHeight {
		t.Errorf("display = %dx%d, expected %dx%d", s.displayW, s.displayH, FallbackWidth, FallbackHeight)
	}
	if s.backingW != 600 || s.backingH != 300 {
		t.Errorf("backing = %dx%d, expected 600x300", s.backingW, s.backingH)
	}
}

func TestResizeBeforeDeviceIsSafe(t *testing.T) {
	s := newFakeSurface()
	l := &Lightning{surface: s, scheduler: graphics.NewFrameQueue(), logger: quietLogger()}

	l.resize()
	l.resize()

	if s.backingW != 800 || s.backingH != 600 {
		t.Errorf("backing = %dx%d, expected 800x600", s.backingW, s.backingH)
	}
	if len(s.dev.viewports) != 0 {
		t.Errorf("viewport set without a device: %v", s.dev.viewports)
	}
}

func TestResizeEventUpdatesViewport(t *testing.T) {
	s := newFakeSurface()
	s.dpr = 1.5
	mountFake(t, s)

	s.containerW, s.containerH = 1000, 500
	s.fireResize()
	s.fireResize()

	if s.backingW != 1500 || s.backingH != 750 {
		t.Errorf("backing = %dx%d, expected 1500x750", s.backingW, s.backingH)
	}
	if s.displayW != 1000 || s.displayH != 500 {
		t.Errorf("display = %dx%d, expected 1000x500", s.displayW, s.displayH)
	}
	last := s.dev.viewports[len(s.dev.viewports)-1]
	if last != [4]int{0, 0, 1500, 750} {
		t.Errorf("viewport = %v, expected [0 0 1500 750]", last)
	}
}

func TestComputeSize(t *testing.T) {
	tests := []struct {
		name                             string
		containerW, containerH           int
		clientW, clientH                 int
		dpr                              float64
		displayW, displayH, backW, backH int
	}{
		{"container wins", 400, 300, 10, 10, 2, 400, 300, 800, 600},
		{"client when container empty", 0, 300, 200, 100, 1, 200, 100, 200, 100},
		{"fallback both", 0, 0, 0, 0, 1, 300, 150, 300, 150},
		{"fallback per dimension", 0, 0, 120, 0, 1, 120, 150, 120, 150},
		{"fractional dpr rounds", 101, 51, 0, 0, 1.5, 101, 51, 152, 77},
		{"invalid dpr treated as 1", 10, 10, 0, 0, 0, 10, 10, 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSize(tc.containerW, tc.containerH, tc.clientW, tc.clientH, tc.dpr)
			want := Size{tc.displayW, tc.displayH, tc.backW, tc.backH}
			if got != want {
				t.Errorf("ComputeSize() = %+v, expected %+v", got, want)
			}
		})
	}
}

func TestContextLossStopsLoopAndReleases(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)
	q.RunFrame()
	draws := s.dev.draws

	s.loseContext()

	if l.State() != Lost || l.Running() {
		t.Fatalf("state = %v running = %v, expected lost", l.State(), l.Running())
	}
	if !s.prevented {
		t.Error("loss handler did not prevent the default, restore would never fire")
	}
	if q.Pending() != 0 {
		t.Errorf("pending frames after loss = %d", q.Pending())
	}
	for i := 0; i < 3; i++ {
		q.RunFrame()
	}
	s.fireResize()
	if s.dev.draws != draws {
		t.Errorf("drew %d frames against a lost context", s.dev.draws-draws)
	}
	if len(s.dev.deadCalls) != 0 {
		t.Errorf("calls against a lost context: %v", s.dev.deadCalls)
	}
}

func TestLossThenRestoreMatchesFreshMount(t *testing.T) {
	fresh := newFakeSurface()
	fl, fq := mountFake(t, fresh)

	s := newFakeSurface()
	l, q := mountFake(t, s)
	q.RunFrame()
	s.loseContext()
	s.restoreContext()

	fp, fs, fb := fresh.dev.live()
	p, sh, b := s.dev.live()
	if p != fp || sh != fs || b != fb {
		t.Errorf("after restore: %d/%d/%d objects, fresh mount: %d/%d/%d", p, sh, b, fp, fs, fb)
	}
	if l.Running() != fl.Running() || l.State() != fl.State() {
		t.Errorf("after restore running=%v state=%v, fresh running=%v state=%v",
			l.Running(), l.State(), fl.Running(), fl.State())
	}
	if q.Pending() != fq.Pending() {
		t.Errorf("pending frames = %d, fresh = %d", q.Pending(), fq.Pending())
	}
	if s.listeners() != fresh.listeners() {
		t.Errorf("listeners = %d, fresh = %d", s.listeners(), fresh.listeners())
	}

	before := s.dev.draws
	q.RunFrame()
	if s.dev.draws != before+1 {
		t.Error("restored session does not draw")
	}
}

func TestRestoreFailureStaysLost(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)
	s.loseContext()
	s.dev.failCompile[graphics.FragmentShader] = true
	s.restoreContext()

	if l.State() != Lost || l.Running() {
		t.Errorf("state = %v running = %v, expected lost", l.State(), l.Running())
	}
	expectLive(t, s.dev, 0, 0, 0)
	if q.Pending() != 0 {
		t.Errorf("pending frames = %d, expected none", q.Pending())
	}

	// the surface may fire restore again; a fixed shader recovers
	s.dev.failCompile[graphics.FragmentShader] = false
	s.restoreContext()
	if l.State() != Active {
		t.Errorf("state = %v after second restore, expected active", l.State())
	}
	expectLive(t, s.dev, 1, 2, 1)
}

func TestSpuriousRestoreKeepsSingleSession(t *testing.T) {
	s := newFakeSurface()
	s.prevented = true
	_, q := mountFake(t, s)

	s.restoreContext()

	expectLive(t, s.dev, 1, 2, 1)
	if q.Pending() != 1 {
		t.Errorf("pending frames = %d, expected 1", q.Pending())
	}
}

func TestUnmountMidLoopCancelsFrames(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)
	for i := 0; i < 3; i++ {
		q.RunFrame()
	}
	draws := s.dev.draws

	l.Unmount()
	for i := 0; i < 3; i++ {
		if ran := q.RunFrame(); ran != 0 {
			t.Fatalf("a frame callback ran after unmount")
		}
	}
	if s.dev.draws != draws {
		t.Errorf("draws after unmount: %d", s.dev.draws-draws)
	}
}

func TestUnmountFromInsideFrame(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)

	// another callback in the same frame unmounts before the tick runs
	q.CancelFrame(l.s.frame)
	q.RequestFrame(func() { l.Unmount() })
	l.s.frame = q.RequestFrame(l.tick)
	q.RunFrame()

	if s.dev.draws != 0 {
		t.Errorf("tick drew after unmount in the same frame")
	}
	if q.Pending() != 0 {
		t.Errorf("pending frames = %d", q.Pending())
	}
}

func TestUpdateRecreatesSessionPerParameter(t *testing.T) {
	changes := []struct {
		name   string
		modify func(p *Params)
	}{
		{"hue", func(p *Params) { p.Hue = 10 }},
		{"xOffset", func(p *Params) { p.XOffset = 0.25 }},
		{"speed", func(p *Params) { p.Speed = 2 }},
		{"intensity", func(p *Params) { p.Intensity = 3 }},
		{"size", func(p *Params) { p.Size = 0.5 }},
	}

	for _, tc := range changes {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeSurface()
			l, q := mountFake(t, s)
			q.RunFrame()
			oldProgram := l.s.gpu.program
			oldBuffer := l.s.gpu.buffer

			next := testParams
			tc.modify(&next)
			l.Update(next)

			if s.dev.createdPrograms != 2 || s.dev.createdBuffers != 2 {
				t.Errorf("created programs=%d buffers=%d, expected 2 each",
					s.dev.createdPrograms, s.dev.createdBuffers)
			}
			if l.s.gpu.program == oldProgram || l.s.gpu.buffer == oldBuffer {
				t.Error("session reused a stale program or buffer")
			}
			expectLive(t, s.dev, 1, 2, 1)
			if q.Pending() != 1 {
				t.Errorf("pending frames = %d, expected 1", q.Pending())
			}
			if l.Params() != next {
				t.Errorf("Params() = %+v, expected %+v", l.Params(), next)
			}
		})
	}
}

func TestUpdateWithSameParamsKeepsSession(t *testing.T) {
	s := newFakeSurface()
	l, _ := mountFake(t, s)

	l.Update(testParams)

	if s.dev.createdPrograms != 1 {
		t.Errorf("created programs = %d, expected 1", s.dev.createdPrograms)
	}
}

func TestUpdateAfterUnmountRemounts(t *testing.T) {
	s := newFakeSurface()
	l, _ := mountFake(t, s)
	l.Unmount()

	l.Update(testParams)

	if !l.Mounted() || l.State() != Active {
		t.Errorf("mounted = %v state = %v, expected a live session", l.Mounted(), l.State())
	}
	expectLive(t, s.dev, 1, 2, 1)
}

func TestUpdateWhileLostStaysLost(t *testing.T) {
	s := newFakeSurface()
	l, q := mountFake(t, s)
	q.RunFrame()
	s.loseContext()

	next := testParams
	next.Hue = 10
	l.Update(next)

	if l.State() != Lost || l.Running() {
		t.Fatalf("state = %v running = %v after update during loss, expected lost", l.State(), l.Running())
	}
	if q.Pending() != 0 {
		t.Errorf("pending frames = %d, expected 0", q.Pending())
	}
	if len(s.dev.deadCalls) != 0 {
		t.Errorf("calls against a lost context: %v", s.dev.deadCalls)
	}

	s.restoreContext()
	if l.State() != Active || !l.Running() {
		t.Errorf("state = %v running = %v after restore, expected active", l.State(), l.Running())
	}
	expectLive(t, s.dev, 1, 2, 1)
	if l.Params() != next {
		t.Errorf("Params() = %+v, expected %+v", l.Params(), next)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{Stopped: "stopped", Active: "active", Lost: "lost", State(9): "unknown"} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, expected %q", state, got, want)
		}
	}
}
