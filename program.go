package main

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"git.lost.host/meutraa/eots/internal/config"
	"git.lost.host/meutraa/eots/internal/game"
	"git.lost.host/meutraa/eots/internal/input"
	"git.lost.host/meutraa/eots/internal/render"
	"git.lost.host/meutraa/eots/internal/score"
	"git.lost.host/meutraa/eots/internal/session"
	"git.lost.host/meutraa/eots/internal/theme"
)

// pulseSource turns terminal key events into one-poll lane presses. The
// terminal cannot report releases, so each press reads as held for exactly
// one poll.
type pulseSource struct {
	mu      sync.Mutex
	pending input.State
}

func (s *pulseSource) Push(lane int) {
	if lane < 0 || lane >= game.NumLanes {
		return
	}
	s.mu.Lock()
	s.pending[lane] = true
	s.mu.Unlock()
}

func (s *pulseSource) State() input.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.pending
	s.pending = input.State{}
	return st
}

type cell struct {
	row, col int
}

type Program struct {
	Renderer *render.Terminal
	Theme    *theme.DefaultTheme
	Session  *session.Session
	Store    score.Store

	keyChannel <-chan keyboard.KeyEvent
	pulse      *pulseSource
	chart      *game.Chart

	width, height int
	laneCols      [game.NumLanes]int
	sideCol       int
	receptorRow   int

	drawn   []cell
	results *score.Results
}

func (p *Program) Resize(width, height int) {
	p.width, p.height = width, height
	mc := width / 2
	spacing := int(*config.ColumnSpacing)
	p.laneCols = [game.NumLanes]int{
		mc - spacing*3,
		mc - spacing,
		mc + spacing,
		mc + spacing*3,
	}
	p.sideCol = p.laneCols[0] - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}
	p.receptorRow = height - int(*config.BarRow)
	p.Session.Resize(width, height)
}

func (p *Program) Run() error {
	if err := p.Session.Start(p.chart); nil != err {
		return err
	}
	for {
		p.Renderer.Loop(*config.FramePeriod, p.frame)
		if p.Session.State() != session.Finished {
			return nil
		}
		if !p.resultsScreen() {
			return nil
		}
		if err := p.Session.Restart(); nil != err {
			return err
		}
	}
}

func (p *Program) frame(now time.Time) bool {
	// Drain the terminal keys that arrived since the last frame
	for i := 0; i < len(p.keyChannel); i++ {
		key := <-p.keyChannel
		switch {
		case key.Key == keyboard.KeyEsc:
			p.Session.Stop()
			return false
		case key.Key == keyboard.KeySpace:
			if p.Session.State() == session.Paused {
				p.Session.Resume()
			} else {
				p.Session.Pause()
			}
		default:
			p.pulse.Push(config.KeyColumn(key.Rune))
		}
	}

	if columns, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil &&
		(columns != p.width || rows != p.height) {
		p.Renderer.Fill(1, 1, "\033[2J")
		p.Resize(columns, rows)
	}

	alive := p.Session.Tick(now)

	// Clear last frame's notes, then redraw
	for _, c := range p.drawn {
		p.Renderer.Fill(c.row, c.col, " ")
	}
	p.drawn = p.drawn[:0]

	for i := uint8(0); i < game.NumLanes; i++ {
		p.Renderer.Fill(p.receptorRow, p.laneCols[i], p.Theme.RenderReceptor(i))
	}

	for _, pn := range p.Session.Frame() {
		p.drawNote(pn)
	}

	p.drawStats()
	return alive
}

func (p *Program) drawNote(pn render.ProjectedNote) {
	if pn.Missed && pn.Note.Kind != game.Hold {
		return
	}
	row := int(math.Round(pn.Y))

	switch pn.Note.Kind {
	case game.Jump:
		if pn.Hit {
			return
		}
		p.draw(row, p.laneCols[pn.Note.Pair[0]], p.Theme.RenderNote(pn.Note.Pair[0], pn.Note.Denom))
		p.draw(row, p.laneCols[pn.Note.Pair[1]], p.Theme.RenderNote(pn.Note.Pair[1], pn.Note.Denom))
	case game.Hold:
		endRow := int(math.Round(pn.EndY))
		for r := endRow; r < row; r++ {
			p.draw(r, p.laneCols[pn.Note.Index], p.Theme.RenderHoldBody(pn.Note.Index, pn.Note.Denom, pn.HoldActive))
		}
		if !pn.Hit {
			p.draw(row, p.laneCols[pn.Note.Index], p.Theme.RenderNote(pn.Note.Index, pn.Note.Denom))
		}
	default:
		if pn.Hit {
			return
		}
		p.draw(row, p.laneCols[pn.Note.Index], p.Theme.RenderNote(pn.Note.Index, pn.Note.Denom))
	}
}

func (p *Program) draw(row, col int, content string) {
	if row <= 0 || row >= p.height {
		return
	}
	p.Renderer.Fill(row, col, content)
	p.drawn = append(p.drawn, cell{row: row, col: col})
}

func (p *Program) drawStats() {
	gs := p.Session.Score()
	p.Renderer.Fill(10, p.sideCol, fmt.Sprintf("      Score:  %6.0f", gs.Score))
	p.Renderer.Fill(11, p.sideCol, fmt.Sprintf("   Accuracy:  %6.2f%%", gs.Accuracy*100))
	p.Renderer.Fill(12, p.sideCol, fmt.Sprintf("      Grade:  %6v", gs.Grade))
	p.Renderer.Fill(13, p.sideCol, fmt.Sprintf("      Combo:  %6v", gs.Combo))
	p.Renderer.Fill(14, p.sideCol, fmt.Sprintf("  Max Combo:  %6v", gs.MaxCombo))
	p.Renderer.Fill(15, p.sideCol, fmt.Sprintf("      Notes:  %6v", p.chart.NoteCount()))
	for i := range score.Judgements {
		p.Renderer.Fill(18+i, p.sideCol, fmt.Sprintf("%11v:  %6v",
			p.Theme.RenderJudgement(score.Tier(i)), gs.Judgments[i]))
	}
}

// flashFrames is how long a receptor flash stays up.
const flashFrames = 12

// onJudgement flashes corners around the judged lane's receptor in the
// tier colour. Misses are already obvious from the note sailing past.
func (p *Program) onJudgement(lane uint8, tier score.Tier) {
	if tier == score.Miss {
		return
	}
	corners := p.Theme.RenderFlash(tier)
	col, row := p.laneCols[lane], p.receptorRow
	p.Renderer.AddDecoration(col-1, row-1, corners[0], flashFrames)
	p.Renderer.AddDecoration(col+1, row-1, corners[1], flashFrames)
	p.Renderer.AddDecoration(col-1, row, corners[2], flashFrames)
	p.Renderer.AddDecoration(col+1, row, corners[3], flashFrames)
}

func (p *Program) onResults(r score.Results) {
	p.results = &r
	if err := p.Store.Save(p.chart, r); nil != err {
		// Recoverable, the run still shows on screen
		p.Renderer.Fill(2, p.sideCol, "unable to save results")
	}
}

// resultsScreen blocks on the next key. 'r' restarts the chart.
func (p *Program) resultsScreen() bool {
	r := p.results
	if r == nil {
		return false
	}
	cen := p.height / 2
	p.Renderer.Fill(cen-4, p.sideCol, fmt.Sprintf("      Score:  %6.0f", r.Score))
	p.Renderer.Fill(cen-3, p.sideCol, fmt.Sprintf("   Accuracy:  %6.2f%%", r.Accuracy*100))
	p.Renderer.Fill(cen-2, p.sideCol, fmt.Sprintf("      Grade:  %6v", r.Grade))
	p.Renderer.Fill(cen-1, p.sideCol, fmt.Sprintf("  Max Combo:  %6v", r.MaxCombo))
	if r.TopFullCombo {
		p.Renderer.Fill(cen, p.sideCol, "   Top Full Combo!")
	} else if r.PerfectFullCombo {
		p.Renderer.Fill(cen, p.sideCol, "   Perfect Full Combo!")
	} else if r.FullCombo {
		p.Renderer.Fill(cen, p.sideCol, "   Full Combo!")
	}
	if histories, err := p.Store.Load(p.chart); err == nil && len(histories) > 0 {
		best := histories[0]
		for _, h := range histories {
			if h.Score > best.Score {
				best = h
			}
		}
		p.Renderer.Fill(cen+2, p.sideCol, fmt.Sprintf(" Best Score:  %6.0f (%v)", best.Score, best.Grade))
	}
	p.Renderer.Fill(cen+4, p.sideCol, "   r to retry, any other key to quit")
	p.Renderer.Flush()

	key := <-p.keyChannel
	return key.Rune == 'r'
}
