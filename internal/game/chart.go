package game

// Chart is immutable once loaded. Notes are sorted ascending by Time; the
// judging engine relies on that ordering to stop scanning early.
type Chart struct {
	Notes      []Note
	Difficulty Difficulty
}

func (c *Chart) NoteCount() int {
	return len(c.Notes)
}

// NewStates allocates fresh judging state for one session over this chart.
func (c *Chart) NewStates() []NoteState {
	return make([]NoteState, len(c.Notes))
}

type Difficulty struct {
	Name   string
	Rating int // feet rating, display only
}

type BPM struct {
	StartingBeat float64
	Value        float64
}
