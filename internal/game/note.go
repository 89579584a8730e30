package game

import (
	"time"
)

// NumLanes is fixed, this is a 4 panel game.
const NumLanes = 4

type Kind uint8

const (
	Tap Kind = iota
	Jump
	Hold
)

type Note struct {
	Kind  Kind
	Index uint8    // The chart column, Tap and Hold only
	Pair  [2]uint8 // The two columns of a Jump
	Denom int      // The beat length, as a denominator, 4 = 1/4 beat

	Time    time.Duration // The time the note should be hit
	TimeEnd time.Duration // The time a Hold should be released, > Time
}

// OccupiesLane reports whether a press on lane can consume this note.
func (n *Note) OccupiesLane(lane uint8) bool {
	if n.Kind == Jump {
		return n.Pair[0] == lane || n.Pair[1] == lane
	}
	return n.Index == lane
}

// NoteState is the per-session judging state of a note. Hit and Missed are
// mutually exclusive and never revert once set.
type NoteState struct {
	Hit        bool
	Missed     bool
	HoldActive bool // Hold notes only
}

func (s *NoteState) Consumed() bool {
	return s.Hit || s.Missed
}
