package score

import (
	"time"
)

type Tier int

const (
	Fantastic Tier = iota
	Excellent
	Great
	Decent
	Miss
)

type Judgement struct {
	Name   string
	Window time.Duration // widest absolute distance for this tier, inclusive
	Value  float64
}

// Judgements is ordered best to worst. The point values are the scoring
// scale, not weights; do not rescale them.
var Judgements = [...]Judgement{
	{Name: "Fantastic", Window: 22500 * time.Microsecond, Value: 100},
	{Name: "Excellent", Window: 45 * time.Millisecond, Value: 98},
	{Name: "Great", Window: 90 * time.Millisecond, Value: 65},
	{Name: "Decent", Window: 135 * time.Millisecond, Value: 25},
	{Name: "Miss", Window: 0, Value: 0},
}

// MissWindow is the widest distance a press can still consume a note.
// Beyond it a press is a ghost, and an unpressed note becomes a miss.
const MissWindow = 135 * time.Millisecond

// JudgeDistance maps an absolute timing error to a tier. ok is false when
// the distance is outside every hittable window.
func JudgeDistance(d time.Duration) (Tier, bool) {
	if d < 0 {
		d = -d
	}
	for i := Tier(0); i < Miss; i++ {
		if d <= Judgements[i].Window {
			return i, true
		}
	}
	return Miss, false
}
