package clock

import (
	"testing"
	"time"

	"github.com/faiface/beep"
)

// fakeNow installs a controllable wall clock.
func fakeNow(c *Clock) func(time.Duration) {
	base := time.Unix(1000, 0)
	c.now = func() time.Time { return base }
	return func(d time.Duration) { base = time.Unix(1000, 0).Add(d) }
}

func TestCurrentTimeProjection(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()
	c.startOffset = 500 * time.Millisecond

	advance(100 * time.Millisecond)
	if got := c.CurrentTime(); got != 600*time.Millisecond {
		t.Log("got", got)
		t.Fail()
	}
}

func TestCurrentTimeMonotonicNoDrift(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()

	prev := time.Duration(-1)
	for i := 0; i < 1000; i++ {
		advance(time.Duration(i) * 100 * time.Microsecond)
		got := c.CurrentTime()
		if got < prev {
			t.Log("time went backwards at read", i, got, prev)
			t.Fail()
		}
		// The projection must match the formula exactly, no compounding
		if got != time.Duration(i)*100*time.Microsecond {
			t.Log("drift at read", i, got)
			t.Fail()
		}
		prev = got
	}
}

func TestCurrentTimeRate(t *testing.T) {
	c := New(1.5)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()

	advance(2 * time.Second)
	if got := c.CurrentTime(); got != 3*time.Second {
		t.Log("got", got)
		t.Fail()
	}
}

func TestLoopWraps(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()
	c.startOffset = time.Second
	c.loop = true
	c.playDuration = 2 * time.Second

	advance(4500 * time.Millisecond)
	// 4.5s into a 2s loop starting at 1s: 1s + 0.5s
	if got := c.CurrentTime(); got != 1500*time.Millisecond {
		t.Log("got", got)
		t.Fail()
	}
}

func TestPauseCapturesExactPosition(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()
	c.current = &segment{ctrl: &beep.Ctrl{}}

	advance(1234 * time.Millisecond)
	c.Pause()
	if c.current.ctrl.Paused != true {
		t.Fail()
	}

	// Reads while paused are frozen at the captured position
	advance(5 * time.Second)
	if got := c.CurrentTime(); got != 1234*time.Millisecond {
		t.Log("got", got)
		t.Fail()
	}

	c.Resume()
	advance(6 * time.Second)
	if got := c.CurrentTime(); got != 2234*time.Millisecond {
		t.Log("got", got)
		t.Fail()
	}
}

func TestPauseResumeNotReentrant(t *testing.T) {
	c := New(1)
	fakeNow(c)
	c.current = &segment{ctrl: &beep.Ctrl{}}

	// Pause when not playing is a no-op
	c.pauseOffset = time.Second
	c.Pause()
	if c.pauseOffset != time.Second {
		t.Fail()
	}

	c.playing = true
	c.Resume() // resume when playing is a no-op
	if !c.playing {
		t.Fail()
	}
}

func TestHasEnded(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()
	c.end = 2 * time.Second

	if c.HasEnded() {
		t.Fail()
	}
	advance(2 * time.Second)
	if !c.HasEnded() {
		t.Fail()
	}

	c.loop = true
	if c.HasEnded() {
		t.Log("looping playback never ends")
		t.Fail()
	}
}

func TestPlayBeforeLoad(t *testing.T) {
	c := New(1)
	if err := c.Play(0, 0, false, 0); err != ErrNotLoaded {
		t.Log("err", err)
		t.Fail()
	}
}

func TestStopResetsPosition(t *testing.T) {
	c := New(1)
	advance := fakeNow(c)
	c.playing = true
	c.startRef = c.now()
	advance(3 * time.Second)

	c.Stop()
	if c.CurrentTime() != 0 {
		t.Fail()
	}
}
