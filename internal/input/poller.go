package input

import (
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// State is the per-lane held vector.
type State [game.NumLanes]bool

// Source reports which lanes a physical device currently holds down.
type Source interface {
	State() State
}

// Poller diffs the merged device state against the previous poll and emits
// press/release edges. It knows nothing about notes or timing windows.
type Poller struct {
	prev    State
	sources []Source
}

func NewPoller(sources ...Source) *Poller {
	return &Poller{sources: sources}
}

// Poll merges all sources (a lane is down if any source holds it), then
// emits one edge per lane transition, stamped with the caller's time. A lane
// held across polls produces no event.
func (p *Poller) Poll(t time.Duration) []game.Input {
	var cur State
	for _, src := range p.sources {
		s := src.State()
		for lane, down := range s {
			if down {
				cur[lane] = true
			}
		}
	}

	var events []game.Input
	for lane := range cur {
		if cur[lane] == p.prev[lane] {
			continue
		}
		events = append(events, game.Input{
			Lane:    uint8(lane),
			Pressed: cur[lane],
			Time:    t,
		})
	}
	p.prev = cur
	return events
}

// Reset clears the held vector so a restarted session does not see stale
// release edges.
func (p *Poller) Reset() {
	p.prev = State{}
}
