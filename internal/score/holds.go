package score

import (
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

type HoldState int

const (
	HoldNotStarted HoldState = iota
	HoldActive
	HoldCompleted
	HoldDropped
)

// DropGrace is how close to the hold tail a release stops counting as a
// drop. Completion past that point is time based only.
const DropGrace = 50 * time.Millisecond

type activeHold struct {
	index int
	note  *game.Note
	state *game.NoteState
}

// HoldTracker manages sustained notes from their head hit through
// completion or early release. Dropping a hold carries no score effect; the
// head judgement stands regardless of the hold outcome.
type HoldTracker struct {
	holds  map[int]HoldState
	active [game.NumLanes]*activeHold
}

func NewHoldTracker() *HoldTracker {
	return &HoldTracker{holds: map[int]HoldState{}}
}

// Activate moves a hold to Active on its head hit.
func (h *HoldTracker) Activate(index int, note *game.Note, state *game.NoteState) {
	if h.holds[index] != HoldNotStarted {
		return
	}
	h.holds[index] = HoldActive
	state.HoldActive = true
	h.active[note.Index] = &activeHold{index: index, note: note, state: state}
}

// Release handles a release edge on a lane. A release strictly before the
// grace window drops the hold; inside the window completion stays time
// based. Releases with no active hold on the lane are ignored.
func (h *HoldTracker) Release(lane uint8, at time.Duration) {
	if int(lane) >= len(h.active) {
		return
	}
	a := h.active[lane]
	if a == nil {
		return
	}
	if at < a.note.TimeEnd-DropGrace {
		h.holds[a.index] = HoldDropped
		a.state.HoldActive = false
		h.active[lane] = nil
	}
}

// Update completes every active hold whose tail time has passed.
func (h *HoldTracker) Update(at time.Duration) {
	for lane, a := range h.active {
		if a == nil || at < a.note.TimeEnd {
			continue
		}
		h.holds[a.index] = HoldCompleted
		a.state.HoldActive = false
		h.active[lane] = nil
	}
}

func (h *HoldTracker) State(index int) HoldState {
	return h.holds[index]
}

// ActiveEnds reports the tail time of each lane's live hold so the render
// side can draw a continuous body.
func (h *HoldTracker) ActiveEnds() map[uint8]time.Duration {
	ends := map[uint8]time.Duration{}
	for lane, a := range h.active {
		if a != nil {
			ends[uint8(lane)] = a.note.TimeEnd
		}
	}
	return ends
}
