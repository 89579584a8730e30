package input

import (
	"testing"
	"time"
)

type fakeSource struct {
	held State
}

func (s *fakeSource) State() State {
	return s.held
}

func TestPollEmitsEdgesOnly(t *testing.T) {
	src := &fakeSource{}
	p := NewPoller(src)

	if events := p.Poll(0); len(events) != 0 {
		t.Fail()
	}

	src.held[2] = true
	events := p.Poll(time.Second)
	if len(events) != 1 {
		t.Fatal("events", events)
	}
	if events[0].Lane != 2 || !events[0].Pressed || events[0].Time != time.Second {
		t.Log("event", events[0])
		t.Fail()
	}

	// Held across polls, no duplicate press
	if events := p.Poll(2 * time.Second); len(events) != 0 {
		t.Log("events", events)
		t.Fail()
	}

	src.held[2] = false
	events = p.Poll(3 * time.Second)
	if len(events) != 1 || events[0].Pressed || events[0].Lane != 2 {
		t.Log("events", events)
		t.Fail()
	}
}

func TestPollMergesSources(t *testing.T) {
	kb := &fakeSource{}
	js := &fakeSource{}
	p := NewPoller(kb, js)

	kb.held[0] = true
	js.held[0] = true
	js.held[3] = true
	events := p.Poll(0)
	if len(events) != 2 {
		t.Fatal("events", events)
	}

	// Lane 0 stays down while only the keyboard releases
	kb.held[0] = false
	if events := p.Poll(time.Second); len(events) != 0 {
		t.Log("events", events)
		t.Fail()
	}

	js.held[0] = false
	events = p.Poll(2 * time.Second)
	if len(events) != 1 || events[0].Lane != 0 || events[0].Pressed {
		t.Log("events", events)
		t.Fail()
	}
}

func TestPollStampsCallerTime(t *testing.T) {
	src := &fakeSource{}
	p := NewPoller(src)
	src.held[1] = true
	events := p.Poll(1234 * time.Millisecond)
	if len(events) != 1 || events[0].Time != 1234*time.Millisecond {
		t.Fail()
	}
}

func TestResetClearsHeldVector(t *testing.T) {
	src := &fakeSource{}
	p := NewPoller(src)
	src.held[1] = true
	p.Poll(0)

	p.Reset()
	src.held[1] = false
	// Without the reset this would emit a release edge
	if events := p.Poll(time.Second); len(events) != 0 {
		t.Log("events", events)
		t.Fail()
	}

	src.held[1] = true
	if events := p.Poll(2 * time.Second); len(events) != 1 {
		t.Fail()
	}
}
