package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/eots/internal/game"
	"git.lost.host/meutraa/eots/internal/testdata"
)

func newJudge(chart *game.Chart) (*Judge, []game.NoteState, *GameScore) {
	states := chart.NewStates()
	gs := NewGameScore(chart.NoteCount())
	return NewJudge(chart, states, gs, NewHoldTracker()), states, gs
}

var windowTests = map[time.Duration]struct {
	Tier   Tier
	Judged bool
}{
	time.Second:                     {Fantastic, true},
	time.Second + 22500*time.Microsecond: {Fantastic, true},
	time.Second - 22500*time.Microsecond: {Fantastic, true},
	time.Second + 22600*time.Microsecond: {Excellent, true},
	time.Second + 45*time.Millisecond:    {Excellent, true},
	time.Second + 46*time.Millisecond:    {Great, true},
	time.Second + 90*time.Millisecond:    {Great, true},
	time.Second + 91*time.Millisecond:    {Decent, true},
	time.Second - 135*time.Millisecond:   {Decent, true},
	time.Second + 135100*time.Microsecond: {Miss, false}, // ghost
	time.Second - 140*time.Millisecond:    {Miss, false}, // ghost
}

func TestPressWindows(t *testing.T) {
	for at, expected := range windowTests {
		j, states, gs := newJudge(testdata.TapChart(0, time.Second))
		tier, judged := j.Press(0, at)
		if tier != expected.Tier || judged != expected.Judged {
			t.Log("press at", at)
			t.Log("got     ", tier, judged)
			t.Log("expected", expected.Tier, expected.Judged)
			t.Fail()
		}
		if judged != states[0].Hit {
			t.Log("hit flag does not match judgement at", at)
			t.Fail()
		}
		if !judged && gs.Score != 0 {
			t.Log("ghost press changed the score at", at)
			t.Fail()
		}
	}
}

func TestPressWrongLaneIsGhost(t *testing.T) {
	j, states, _ := newJudge(testdata.TapChart(0, time.Second))
	if _, judged := j.Press(1, time.Second); judged {
		t.Fail()
	}
	if states[0].Hit {
		t.Fail()
	}
}

func TestPressConsumesNearestNote(t *testing.T) {
	chart := testdata.TapChart(0, 1000*time.Millisecond, 1100*time.Millisecond)
	j, states, _ := newJudge(chart)
	// 60ms from the first note, 40ms from the second
	if _, judged := j.Press(0, 1060*time.Millisecond); !judged {
		t.Fail()
	}
	if states[0].Hit || !states[1].Hit {
		t.Log("states", states)
		t.Fail()
	}
}

func TestPressTieBreaksToEarlierNote(t *testing.T) {
	chart := testdata.TapChart(0, 1000*time.Millisecond, 1200*time.Millisecond)
	j, states, _ := newJudge(chart)
	// Exactly 100ms from both
	if _, judged := j.Press(0, 1100*time.Millisecond); !judged {
		t.Fail()
	}
	if !states[0].Hit || states[1].Hit {
		t.Log("states", states)
		t.Fail()
	}
}

func TestOneNotePerPress(t *testing.T) {
	chart := testdata.TapChart(0, time.Second, time.Second)
	j, states, gs := newJudge(chart)
	j.Press(0, time.Second)
	if states[0].Hit == states[1].Hit {
		t.Log("one press consumed both notes:", states)
		t.Fail()
	}
	j.Press(0, time.Second)
	if !states[0].Hit || !states[1].Hit {
		t.Fail()
	}
	if gs.Judgments[Fantastic] != 2 {
		t.Fail()
	}
}

func TestMissSweep(t *testing.T) {
	chart := testdata.TapChart(0, time.Second)
	j, states, gs := newJudge(chart)

	// Still inside the window, nothing to sweep
	if n := j.MissSweep(time.Second + 135*time.Millisecond); n != 0 {
		t.Fail()
	}
	if n := j.MissSweep(time.Second + 136*time.Millisecond); n != 1 {
		t.Fail()
	}
	if !states[0].Missed || states[0].Hit {
		t.Fail()
	}
	if gs.Judgments[Miss] != 1 {
		t.Fail()
	}
}

func TestMissIsIdempotent(t *testing.T) {
	chart := testdata.TapChart(0, time.Second)
	j, states, gs := newJudge(chart)
	j.MissSweep(time.Second + 200*time.Millisecond)

	// A late press against a missed note is a ghost
	if _, judged := j.Press(0, 1100*time.Millisecond); judged {
		t.Fail()
	}
	j.MissSweep(time.Second + 300*time.Millisecond)
	if states[0].Hit {
		t.Fail()
	}
	if gs.Judgments[Miss] != 1 {
		t.Log("judgments", gs.Judgments)
		t.Fail()
	}
}

func TestJumpFirstLaneConsumesNote(t *testing.T) {
	chart := testdata.Chart(testdata.Jump(0, 2, time.Second))
	j, states, gs := newJudge(chart)

	if _, judged := j.Press(0, time.Second); !judged {
		t.Fail()
	}
	if !states[0].Hit {
		t.Fail()
	}
	// The sibling lane's press finds nothing left to hit
	if _, judged := j.Press(2, 1050*time.Millisecond); judged {
		t.Fail()
	}
	if gs.Judgments[Fantastic] != 1 {
		t.Log("judgments", gs.Judgments)
		t.Fail()
	}
}

func TestPressActivatesHold(t *testing.T) {
	chart := testdata.Chart(testdata.Hold(1, time.Second, 3*time.Second))
	states := chart.NewStates()
	holds := NewHoldTracker()
	j := NewJudge(chart, states, NewGameScore(1), holds)

	if tier, judged := j.Press(1, time.Second); !judged || tier != Fantastic {
		t.Fail()
	}
	if holds.State(0) != HoldActive || !states[0].HoldActive {
		t.Fail()
	}
}
