package parser

import (
	"testing"
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// 120 BPM, one line per beat, so lines land half a second apart.
const chartData = `#TITLE:test;
#OFFSET:0.000;
#BPMS:0.000=120.000;

#NOTES:
     dance-single:
     :
     Challenge:
     12:
     :
1000
0000
1100
0000
,
2000
0000
3000
0001
;
`

func TestParse(t *testing.T) {
	p := &DefaultParser{}
	charts, err := p.parse(chartData)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 {
		t.Fatal("charts", len(charts))
	}

	chart := charts[0]
	if chart.Difficulty.Rating != 12 || chart.Difficulty.Name != "Challenge" {
		t.Log("difficulty", chart.Difficulty)
		t.Fail()
	}
	if chart.NoteCount() != 4 {
		t.Fatal("notes", chart.Notes)
	}

	expected := []game.Note{
		{Kind: game.Tap, Index: 0, Time: 0},
		{Kind: game.Jump, Pair: [2]uint8{0, 1}, Time: time.Second},
		{Kind: game.Hold, Index: 0, Time: 2 * time.Second, TimeEnd: 3 * time.Second},
		{Kind: game.Tap, Index: 3, Time: 3500 * time.Millisecond},
	}
	for i, e := range expected {
		n := chart.Notes[i]
		if n.Kind != e.Kind || n.Index != e.Index || n.Pair != e.Pair ||
			n.Time != e.Time || n.TimeEnd != e.TimeEnd {
			t.Log("note    ", i, n)
			t.Log("expected", e)
			t.Fail()
		}
	}
}

func TestParseSkipsOtherModes(t *testing.T) {
	data := `#OFFSET:0.000;
#BPMS:0.000=120.000;

#NOTES:
     dance-double:
     :
     Hard:
     9:
     :
10000000
;
`
	p := &DefaultParser{}
	charts, err := p.parse(data)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 0 {
		t.Log("charts", charts)
		t.Fail()
	}
}

func TestParseNotesAreSorted(t *testing.T) {
	p := &DefaultParser{}
	charts, err := p.parse(chartData)
	if nil != err {
		t.Fatal(err)
	}
	notes := charts[0].Notes
	for i := 1; i < len(notes); i++ {
		if notes[i].Time < notes[i-1].Time {
			t.Log("unsorted at", i)
			t.Fail()
		}
	}
}

func TestParseTaillessHoldBecomesTap(t *testing.T) {
	data := `#OFFSET:0.000;
#BPMS:0.000=120.000;

#NOTES:
     dance-single:
     :
     Easy:
     3:
     :
2000
0000
0000
0000
;
`
	p := &DefaultParser{}
	charts, err := p.parse(data)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts[0].Notes) != 1 {
		t.Fatal(charts[0].Notes)
	}
	if charts[0].Notes[0].Kind != game.Tap {
		t.Log("note", charts[0].Notes[0])
		t.Fail()
	}
}
