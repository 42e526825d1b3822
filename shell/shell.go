// Package shell drives the application flow: when the lightning renderer is
// on screen, which parameters it gets, which sound cues play and when a draw
// happens. It is a timed state machine advanced by the caller's clock.
package shell

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/richinsley/luckybolt/lotto"
	"github.com/richinsley/luckybolt/renderer"
)

type State int

const (
	Idle State = iota
	WaitingForTouch
	Animating
	FadingOut
	Generating
	ShowingResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WaitingForTouch:
		return "waiting-for-touch"
	case Animating:
		return "animating"
	case FadingOut:
		return "fading-out"
	case Generating:
		return "generating"
	case ShowingResult:
		return "showing-result"
	}
	return "unknown"
}

// lightning reports whether the renderer is on screen in s.
func (s State) lightning() bool {
	return s == WaitingForTouch || s == Animating || s == FadingOut
}

type Cue string

const (
	CueInit   Cue = "init"
	CueGogogo Cue = "gogogo"
	CueFinal  Cue = "final"
)

// Cues plays named sound cues. Play restarts a cue that is already playing.
type Cues interface {
	Play(cue Cue, offset time.Duration, loop bool)
	Stop(cue Cue)
}

// Stage shows and hides the lightning renderer.
type Stage interface {
	Mount(params renderer.Params)
	Update(params renderer.Params)
	Unmount()
}

// Observer is notified of everything the presentation layer shows.
type Observer interface {
	StateChanged(from, to State)
	GuideChanged(visible bool)
	DrawReady(d lotto.Draw)
}

type Timings struct {
	GuideDelay   time.Duration
	GogogoOffset time.Duration
	FinalDelay   time.Duration
	AnimateFor   time.Duration
	FadeFor      time.Duration
	GenerateFor  time.Duration
}

type Settings struct {
	Wide    renderer.Params
	Compact renderer.Params
	// CompactBelow selects the compact profile for narrower windows.
	CompactBelow int
	Timings      Timings
}

func DefaultSettings() Settings {
	return Settings{
		Wide:         renderer.Params{Hue: 220, XOffset: 0, Speed: 0.7, Intensity: 1.2, Size: 1.8},
		Compact:      renderer.Params{Hue: 220, XOffset: 0, Speed: 0.7, Intensity: 1.7, Size: 1.2},
		CompactBelow: 640,
		Timings: Timings{
			GuideDelay:   10 * time.Second,
			GogogoOffset: 400 * time.Millisecond,
			FinalDelay:   3 * time.Second,
			AnimateFor:   5 * time.Second,
			FadeFor:      700 * time.Millisecond,
			GenerateFor:  2 * time.Second,
		},
	}
}

// ParamsFor picks the renderer profile for a window width.
func (s Settings) ParamsFor(width int) renderer.Params {
	if width < s.CompactBelow {
		return s.Compact
	}
	return s.Wide
}

type deadline struct {
	at    time.Duration
	epoch uint64
	fire  func(at time.Duration)
}

// Shell is not safe for concurrent use; every method runs on the UI thread.
type Shell struct {
	settings  Settings
	stage     Stage
	cues      Cues
	rng       *rand.Rand
	logger    *log.Logger
	observers []Observer

	state   State
	epoch   uint64
	entered time.Duration
	now     time.Duration
	width   int
	sized   bool
	mounted bool
	guide   bool

	deadlines []deadline
	draw      lotto.Draw
	hasDraw   bool
}

func New(settings Settings, stage Stage, cues Cues, rng *rand.Rand, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = lotto.NewRand(0)
	}
	return &Shell{
		settings: settings,
		stage:    stage,
		cues:     cues,
		rng:      rng,
		logger:   logger.WithPrefix("shell"),
	}
}

func (s *Shell) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Shell) State() State { return s.state }

func (s *Shell) GuideVisible() bool { return s.guide }

// Result returns the last finished draw.
func (s *Shell) Result() (lotto.Draw, bool) { return s.draw, s.hasDraw }

// Pending is the number of armed deadlines.
func (s *Shell) Pending() int { return len(s.deadlines) }

// Fade is the lightning opacity, 1 outside FadingOut and falling to 0 across it.
func (s *Shell) Fade() float64 {
	if s.state != FadingOut || s.settings.Timings.FadeFor <= 0 {
		return 1
	}
	f := 1 - float64(s.now-s.entered)/float64(s.settings.Timings.FadeFor)
	return min(max(f, 0), 1)
}

// Start leaves the title screen.
func (s *Shell) Start() {
	if s.state != Idle {
		s.logger.Debug("start ignored", "state", s.state)
		return
	}
	s.transition(WaitingForTouch, s.now)
}

// Touch starts the animation once the touch guide is showing.
func (s *Shell) Touch() {
	if s.state != WaitingForTouch || !s.guide {
		s.logger.Debug("touch ignored", "state", s.state, "guide", s.guide)
		return
	}
	s.transition(Animating, s.now)
}

// Again returns from the result screen to the lightning.
func (s *Shell) Again() {
	if s.state != ShowingResult {
		s.logger.Debug("again ignored", "state", s.state)
		return
	}
	s.cues.Stop(CueFinal)
	s.transition(WaitingForTouch, s.now)
}

// Resize re-selects the renderer profile for the new window width.
func (s *Shell) Resize(width int) {
	if s.sized && width == s.width {
		return
	}
	s.width, s.sized = width, true
	if s.mounted {
		s.stage.Update(s.params())
	}
}

// params is the wide profile until a window width is known.
func (s *Shell) params() renderer.Params {
	if !s.sized {
		return s.settings.Wide
	}
	return s.settings.ParamsFor(s.width)
}

// Advance moves the clock to now and fires every deadline that is due, in
// order. Chained deadlines are measured from when their predecessor was due,
// not from now.
func (s *Shell) Advance(now time.Duration) {
	if now > s.now {
		s.now = now
	}
	for {
		i := s.nextDue()
		if i < 0 {
			return
		}
		d := s.deadlines[i]
		s.deadlines = slices.Delete(s.deadlines, i, i+1)
		d.fire(d.at)
	}
}

// Close unmounts the renderer, silences every cue and returns to Idle.
func (s *Shell) Close() {
	if s.state != Idle {
		s.transition(Idle, s.now)
	}
	s.cues.Stop(CueFinal)
}

func (s *Shell) nextDue() int {
	best := -1
	for i, d := range s.deadlines {
		if d.epoch != s.epoch || d.at > s.now {
			continue
		}
		if best < 0 || d.at < s.deadlines[best].at {
			best = i
		}
	}
	return best
}

func (s *Shell) after(at, delay time.Duration, fire func(at time.Duration)) {
	s.deadlines = append(s.deadlines, deadline{at: at + delay, epoch: s.epoch, fire: fire})
}

func (s *Shell) transition(to State, at time.Duration) {
	from := s.state
	s.leave(from)

	s.epoch++
	s.deadlines = s.deadlines[:0]
	s.state = to
	s.entered = at

	switch {
	case to.lightning() && !s.mounted:
		s.stage.Mount(s.params())
		s.mounted = true
	case !to.lightning() && s.mounted:
		s.stage.Unmount()
		s.mounted = false
	}

	s.logger.Debug("state", "from", from, "to", to)
	for _, o := range s.observers {
		o.StateChanged(from, to)
	}
	s.enter(to, at)
}

func (s *Shell) leave(from State) {
	switch from {
	case WaitingForTouch:
		s.cues.Stop(CueInit)
		s.setGuide(false)
	case Animating:
		s.cues.Stop(CueGogogo)
	}
}

func (s *Shell) enter(to State, at time.Duration) {
	t := s.settings.Timings
	switch to {
	case WaitingForTouch:
		s.cues.Play(CueInit, 0, true)
		s.after(at, t.GuideDelay, func(time.Duration) { s.setGuide(true) })
	case Animating:
		s.cues.Play(CueGogogo, t.GogogoOffset, false)
		s.after(at, t.FinalDelay, func(time.Duration) { s.cues.Play(CueFinal, 0, false) })
		s.after(at, t.AnimateFor, func(due time.Duration) { s.transition(FadingOut, due) })
	case FadingOut:
		s.after(at, t.FadeFor, func(due time.Duration) { s.transition(Generating, due) })
	case Generating:
		s.after(at, t.GenerateFor, func(due time.Duration) {
			s.draw = lotto.Generate(s.rng)
			s.hasDraw = true
			s.logger.Info("draw", "numbers", s.draw.String())
			s.transition(ShowingResult, due)
		})
	case ShowingResult:
		for _, o := range s.observers {
			o.DrawReady(s.draw)
		}
	}
}

func (s *Shell) setGuide(visible bool) {
	if s.guide == visible {
		return
	}
	s.guide = visible
	for _, o := range s.observers {
		o.GuideChanged(visible)
	}
}
