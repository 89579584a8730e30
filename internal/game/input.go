package game

import (
	"time"
)

// Input is a single press or release edge on a lane. Time is the game-logic
// time the poller was given, not wall clock.
type Input struct {
	Lane    uint8
	Pressed bool
	Time    time.Duration
}
