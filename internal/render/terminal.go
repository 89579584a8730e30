package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// Terminal draws into the alternate screen buffer with ANSI positioning.
// It batches every Fill into one write per frame.
type Terminal struct {
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

func (r *Terminal) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Printf("%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *Terminal) Deinit() error {
	fmt.Printf("%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *Terminal) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *Terminal) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, " ")
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// Loop calls frame at the given period until it returns false. The host
// owns the timestamps; the engine tick is fed from here.
func (r *Terminal) Loop(period time.Duration, frame func(now time.Time) bool) {
	for {
		now := time.Now()
		deadline := now.Add(period)

		cont := frame(now)

		r.tickDecorations()
		r.flush()

		if !cont {
			return
		}
		time.Sleep(time.Until(deadline))
	}
}

func (r *Terminal) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

// Flush writes everything buffered since the last flush.
func (r *Terminal) Flush() {
	r.flush()
}

func (r *Terminal) flush() {
	os.Stdout.WriteString(r.buffer.String())
	r.buffer.Reset()
}
