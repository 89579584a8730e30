package session

import (
	"errors"
	"log"
	"time"

	"git.lost.host/meutraa/eots/internal/game"
	"git.lost.host/meutraa/eots/internal/input"
	"git.lost.host/meutraa/eots/internal/render"
	"git.lost.host/meutraa/eots/internal/score"
)

type State int

const (
	Idle State = iota
	LeadIn
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LeadIn:
		return "lead-in"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	// ErrChartUnavailable means Start was given no chart, or an empty one.
	ErrChartUnavailable = errors.New("chart unavailable")
	// ErrResourceNotReady means the audio clock has nothing loaded.
	ErrResourceNotReady = errors.New("resources not ready")
)

// LeadInDuration is how long notes scroll on a virtual clock before the
// audio starts.
const LeadInDuration = 2 * time.Second

// Clock is the session's handle on the audio clock service.
type Clock interface {
	Play(offset, duration time.Duration, loop bool, volume float64) error
	Pause()
	Resume()
	Stop()
	CurrentTime() time.Duration
	Duration() time.Duration
	HasEnded() bool
	Loaded() bool
}

// Hooks are the only outward notifications the session emits: state
// transitions, a judgement per consumed press, one score snapshot per
// tick, and the final results once.
type Hooks struct {
	OnState     func(State)
	OnJudgement func(lane uint8, tier score.Tier)
	OnScore     func(score.GameScore)
	OnResults   func(score.Results)
}

// Session sequences one play-through of a chart. The host drives it by
// calling Tick with its own timestamps; the session owns no timer.
type Session struct {
	clock  Clock
	poller *input.Poller
	hooks  Hooks
	geo    render.Geometry
	volume float64

	chart  *game.Chart
	states []game.NoteState
	gs     *score.GameScore
	judge  *score.Judge
	holds  *score.HoldTracker

	state    State
	virtual  time.Duration // LeadIn song time, counts up from -LeadInDuration
	lastTick time.Time
	frame    []render.ProjectedNote
}

func New(clock Clock, poller *input.Poller, geo render.Geometry, hooks Hooks) *Session {
	return &Session{
		clock:  clock,
		poller: poller,
		geo:    geo,
		hooks:  hooks,
	}
}

func (s *Session) SetVolume(v float64) {
	s.volume = v
}

func (s *Session) State() State {
	return s.state
}

// Frame is the most recent render projection.
func (s *Session) Frame() []render.ProjectedNote {
	return s.frame
}

// Score is a snapshot copy of the live score.
func (s *Session) Score() score.GameScore {
	if s.gs == nil {
		return *score.NewGameScore(0)
	}
	return *s.gs
}

// Start validates its resources, resets all per-session state, and enters
// the lead-in. Failures report synchronously and leave the session Idle.
func (s *Session) Start(chart *game.Chart) error {
	if s.state != Idle && s.state != Finished {
		return nil
	}
	if chart == nil || len(chart.Notes) == 0 {
		return ErrChartUnavailable
	}
	if !s.clock.Loaded() {
		return ErrResourceNotReady
	}

	s.chart = chart
	s.states = chart.NewStates()
	s.gs = score.NewGameScore(chart.NoteCount())
	s.holds = score.NewHoldTracker()
	s.judge = score.NewJudge(chart, s.states, s.gs, s.holds)
	s.poller.Reset()
	s.virtual = -LeadInDuration
	s.lastTick = time.Time{}
	s.frame = nil
	s.setState(LeadIn)
	return nil
}

// Tick advances the session by one frame and reports whether the session
// still wants ticks. Ordering within a playing tick is fixed: clock, poll,
// judge presses, miss sweep, holds, end check, projection, score
// notification.
func (s *Session) Tick(now time.Time) bool {
	switch s.state {
	case LeadIn:
		if !s.lastTick.IsZero() {
			s.virtual += now.Sub(s.lastTick)
		}
		s.lastTick = now
		if s.virtual >= 0 {
			if err := s.clock.Play(0, 0, false, s.volume); nil != err {
				log.Println("unable to start playback:", err)
				s.Stop()
				return false
			}
			s.setState(Playing)
			return true
		}
		s.frame = render.Project(s.chart, s.states, s.virtual, s.geo)
		return true

	case Playing:
		t := s.clock.CurrentTime()
		for _, ev := range s.poller.Poll(t) {
			if ev.Pressed {
				tier, ok := s.judge.Press(ev.Lane, ev.Time)
				if ok && s.hooks.OnJudgement != nil {
					s.hooks.OnJudgement(ev.Lane, tier)
				}
			} else {
				s.judge.Release(ev.Lane, ev.Time)
			}
		}
		s.judge.MissSweep(t)
		s.holds.Update(t)

		if s.clock.HasEnded() || t >= s.clock.Duration() {
			s.finish()
			return false
		}

		s.frame = render.Project(s.chart, s.states, t, s.geo)
		if s.hooks.OnScore != nil {
			s.hooks.OnScore(*s.gs)
		}
		return true

	case Paused:
		// Render-only tick, judging stays suspended.
		s.frame = render.Project(s.chart, s.states, s.clock.CurrentTime(), s.geo)
		return true

	default:
		return false
	}
}

// Pause is a no-op outside Playing, so a double invocation from the UI is
// harmless.
func (s *Session) Pause() {
	if s.state != Playing {
		return
	}
	s.clock.Pause()
	s.setState(Paused)
}

func (s *Session) Resume() {
	if s.state != Paused {
		return
	}
	s.clock.Resume()
	s.setState(Playing)
}

// Stop is valid from any state, including mid-tick; after it returns no
// further tick does any work.
func (s *Session) Stop() {
	if s.state == Idle {
		return
	}
	s.clock.Stop()
	s.poller.Reset()
	s.setState(Idle)
}

// Restart tears the session down and starts the same chart over.
func (s *Session) Restart() error {
	chart := s.chart
	s.Stop()
	return s.Start(chart)
}

// Resize forwards new dimensions to the render geometry only.
func (s *Session) Resize(width, height int) {
	s.geo = s.geo.Resize(width, height)
}

// ActiveHolds reports lanes with a live hold body and its tail time.
func (s *Session) ActiveHolds() map[uint8]time.Duration {
	if s.holds == nil {
		return nil
	}
	return s.holds.ActiveEnds()
}

func (s *Session) finish() {
	s.clock.Stop()
	s.poller.Reset()
	s.setState(Finished)
	if s.hooks.OnResults != nil {
		s.hooks.OnResults(s.gs.Finalize())
	}
}

func (s *Session) setState(st State) {
	s.state = st
	if s.hooks.OnState != nil {
		s.hooks.OnState(st)
	}
}
