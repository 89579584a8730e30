package theme

import (
	"fmt"

	"git.lost.host/meutraa/eots/internal/score"
)

type Color struct {
	R, G, B uint8
}

type DefaultTheme struct{}

func (t *DefaultTheme) RenderNote(column uint8, denom int) string {
	color := getNoteColor(denom)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", color.R, color.G, color.B, noteSym)
}

func (t *DefaultTheme) RenderHoldBody(column uint8, denom int, active bool) string {
	color := getNoteColor(denom)
	if active {
		color = Color{255, 255, 255}
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", color.R, color.G, color.B, holdSym)
}

func (t *DefaultTheme) RenderReceptor(column uint8) string {
	return receptorSym
}

func (t *DefaultTheme) RenderJudgement(tier score.Tier) string {
	color, ok := tierColors[tier]
	if !ok {
		color = Color{255, 255, 255}
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", color.R, color.G, color.B, score.Judgements[tier].Name)
}

// RenderFlash is the four receptor corner glyphs in the tier colour,
// ordered top-left, top-right, bottom-left, bottom-right.
func (t *DefaultTheme) RenderFlash(tier score.Tier) [4]string {
	color, ok := tierColors[tier]
	if !ok {
		color = Color{255, 255, 255}
	}
	var out [4]string
	for i, sym := range [4]string{"╭", "╮", "╰", "╯"} {
		out[i] = fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", color.R, color.G, color.B, sym)
	}
	return out
}

const (
	noteSym     = "⬤"
	holdSym     = "┃"
	receptorSym = "-"
)

var (
	tierColors = map[score.Tier]Color{
		score.Fantastic: {153, 204, 255},
		score.Excellent: {255, 204, 0},
		score.Great:     {0, 204, 102},
		score.Decent:    {204, 102, 255},
		score.Miss:      {236, 30, 0},
	}
	noteColors = map[int]Color{
		1:  {236, 30, 0},    // 1/4 red
		2:  {0, 118, 236},   // 1/8 blue
		3:  {106, 0, 236},   // 1/12 purple
		4:  {236, 195, 0},   // 1/16 yellow
		6:  {236, 0, 106},   // 1/24 pink
		8:  {236, 128, 0},   // 1/32 orange
		12: {173, 236, 236}, // 1/48 light blue
		16: {0, 236, 128},   // 1/64 green
		-1: {255, 255, 255}, // other white
	}
)

func getNoteColor(d int) Color {
	col, ok := noteColors[d]
	if !ok {
		return noteColors[-1]
	}
	return col
}
