package score

import (
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// Judge matches press edges against unconsumed notes and sweeps for misses.
// It mutates only the NoteState array and the GameScore, never the chart.
type Judge struct {
	chart  *game.Chart
	states []game.NoteState
	score  *GameScore
	holds  *HoldTracker
}

func NewJudge(chart *game.Chart, states []game.NoteState, score *GameScore, holds *HoldTracker) *Judge {
	return &Judge{chart: chart, states: states, score: score, holds: holds}
}

// Press consumes at most one note: the nearest unconsumed note on the lane
// within the widest window. Equal distances resolve to the earlier chart
// index. A press that finds no note is a ghost and changes nothing.
func (j *Judge) Press(lane uint8, at time.Duration) (Tier, bool) {
	best := -1
	bestAbs := time.Duration(0)
	for i := range j.chart.Notes {
		note := &j.chart.Notes[i]
		if j.states[i].Consumed() || !note.OccupiesLane(lane) {
			continue
		}
		d := note.Time - at
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestAbs {
			best, bestAbs = i, d
		} else {
			// notes are time sorted, the distance only grows from here
			break
		}
	}
	if best < 0 || bestAbs > MissWindow {
		return Miss, false
	}

	tier, _ := JudgeDistance(bestAbs)
	j.states[best].Hit = true
	j.score.RecordJudgment(tier)
	if j.chart.Notes[best].Kind == game.Hold {
		j.holds.Activate(best, &j.chart.Notes[best], &j.states[best])
	}
	return tier, true
}

// Release forwards a release edge to the hold tracker. Releases outside an
// active hold are no-ops.
func (j *Judge) Release(lane uint8, at time.Duration) {
	j.holds.Release(lane, at)
}

// MissSweep marks every unconsumed note whose window has fully elapsed.
// It runs after press processing within a tick, so a press exactly on the
// window boundary still counts as a hit.
func (j *Judge) MissSweep(at time.Duration) int {
	missed := 0
	for i := range j.chart.Notes {
		if at-j.chart.Notes[i].Time <= MissWindow {
			break
		}
		if j.states[i].Consumed() {
			continue
		}
		j.states[i].Missed = true
		j.score.RecordJudgment(Miss)
		missed++
	}
	return missed
}
