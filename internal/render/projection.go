package render

import (
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// drawBuffer keeps just-passed notes on screen briefly.
const drawBuffer = 500 * time.Millisecond

// Geometry is the screen-space layout the projection maps note times into.
// Resize touches geometry only; nothing else in the engine cares about
// pixels.
type Geometry struct {
	Width, Height int
	BarOffset     float64       // receptor distance from the bottom edge
	ScrollSpeed   float64       // pixels per second of note travel
	Visible       time.Duration // how far ahead of now notes are drawn
}

func (g Geometry) ReceptorY() float64 {
	return float64(g.Height) - g.BarOffset
}

func (g Geometry) Resize(width, height int) Geometry {
	g.Width = width
	g.Height = height
	return g
}

type ProjectedNote struct {
	Note       *game.Note
	Index      int
	Y          float64
	EndY       float64 // Hold tail position, Hold notes only
	Hit        bool
	Missed     bool
	HoldActive bool
}

// Project maps the chart onto screen positions for one instant. It is pure:
// no mutation, idempotent for identical inputs, callable any number of
// times per frame.
func Project(chart *game.Chart, states []game.NoteState, now time.Duration, geo Geometry) []ProjectedNote {
	lo := now - drawBuffer
	hi := now + geo.Visible + drawBuffer

	var out []ProjectedNote
	for i := range chart.Notes {
		note := &chart.Notes[i]
		if note.Time < lo {
			continue
		}
		if note.Time > hi {
			break
		}
		p := ProjectedNote{
			Note:       note,
			Index:      i,
			Y:          geo.ReceptorY() + (note.Time - now).Seconds()*geo.ScrollSpeed,
			Hit:        states[i].Hit,
			Missed:     states[i].Missed,
			HoldActive: states[i].HoldActive,
		}
		if note.Kind == game.Hold {
			p.EndY = geo.ReceptorY() + (note.TimeEnd - now).Seconds()*geo.ScrollSpeed
		}
		out = append(out, p)
	}
	return out
}
