package testdata

import (
	"sort"
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// Chart builds a chart from notes, sorting them the way a loaded chart is
// guaranteed to be.
func Chart(notes ...game.Note) *game.Chart {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return &game.Chart{Notes: notes}
}

// TapChart builds a single-lane chart of taps at the given times.
func TapChart(lane uint8, times ...time.Duration) *game.Chart {
	notes := make([]game.Note, 0, len(times))
	for _, t := range times {
		notes = append(notes, game.Note{Kind: game.Tap, Index: lane, Time: t})
	}
	return Chart(notes...)
}

func Tap(lane uint8, at time.Duration) game.Note {
	return game.Note{Kind: game.Tap, Index: lane, Time: at}
}

func Jump(a, b uint8, at time.Duration) game.Note {
	return game.Note{Kind: game.Jump, Pair: [2]uint8{a, b}, Time: at}
}

func Hold(lane uint8, at, end time.Duration) game.Note {
	return game.Note{Kind: game.Hold, Index: lane, Time: at, TimeEnd: end}
}
