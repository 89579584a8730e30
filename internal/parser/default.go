package parser

import (
	"io/ioutil"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/eots/internal/game"
)

// DefaultParser imports StepMania .sm charts as the engine's chart input
// boundary. Only dance-single (4 lane) sections are kept; the session never
// sees this format, just the resulting game.Chart.
type DefaultParser struct{}

type difficulty struct {
	name    string
	msd     string
	section string
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (skipped, the engine has no mine variant)

func (p *DefaultParser) getSecondsPerNote(rates []game.BPM, currentBeat float64, bpn float64) float64 {
	sel := float64(0.0)
	for _, bpm := range rates {
		if currentBeat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	return bpn * (60.0 / sel)
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}
	return p.parse(string(data))
}

func (p *DefaultParser) parse(str string) ([]*game.Chart, error) {
	str = strings.ReplaceAll(str, "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	difficulties := []difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		if chartType != "dance-single" {
			continue
		}
		difficulties = append(difficulties, difficulty{
			name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			msd:     strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			section: lines[6],
		})
	}

	offset := 0.0
	bpms := []game.BPM{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimSpace(mdl)
		if strings.HasPrefix(mdl, "OFFSET:") {
			mdl = strings.TrimPrefix(mdl, "OFFSET:")
			mdl = strings.TrimSuffix(mdl, ";")
			offs, err := strconv.ParseFloat(mdl, 64)
			if nil != err {
				return nil, err
			}
			offset = -offs
		} else if strings.HasPrefix(mdl, "BPMS:") {
			mdl = strings.TrimPrefix(mdl, "BPMS:")
			mdl = strings.ReplaceAll(mdl, "\n", "")
			for _, bpm := range strings.Split(strings.TrimSuffix(mdl, ";"), ",") {
				as := strings.Split(bpm, "=")
				if len(as) != 2 {
					continue
				}
				sb, err := strconv.ParseFloat(as[0], 64)
				if nil != err {
					return nil, err
				}
				value, err := strconv.ParseFloat(as[1], 64)
				if nil != err {
					return nil, err
				}
				bpms = append(bpms, game.BPM{StartingBeat: sb, Value: value})
			}
		}
	}

	charts := []*game.Chart{}
	for _, diff := range difficulties {
		notes := p.parseSection(diff.section, offset, bpms)
		rating, _ := strconv.Atoi(diff.msd)
		charts = append(charts, &game.Chart{
			Notes: notes,
			Difficulty: game.Difficulty{
				Name:   diff.name,
				Rating: rating,
			},
		})
	}
	return charts, nil
}

func (p *DefaultParser) parseSection(section string, offset float64, bpms []game.BPM) []game.Note {
	seconds := offset
	currentBeat := 0.0
	notes := []game.Note{}

	for _, block := range strings.Split(section, "\n,") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			if strings.HasPrefix(l, " ") || strings.Contains(l, "-") {
				continue
			}
			l = strings.TrimSpace(l)
			if len(l) > 3 {
				lines = append(lines, l)
			}
		}

		// Beat count is 4 per block
		lineCount := int64(len(lines))
		beatsPerNote := 4.0 / float64(lineCount) // 1/4, 1/8, 1/16, 1/24 etc

		for i, line := range lines {
			r := big.NewRat(int64(i*4), lineCount)
			denom := int(r.Denom().Int64())
			secondsPerNote := p.getSecondsPerNote(bpms, currentBeat, beatsPerNote)
			at := time.Duration(seconds * float64(time.Second))

			taps := []uint8{}
			for col, c := range []byte(line) {
				if col >= game.NumLanes {
					break
				}
				switch c {
				case '1':
					taps = append(taps, uint8(col))
				case '2', '4':
					notes = append(notes, game.Note{
						Kind:  game.Hold,
						Index: uint8(col),
						Denom: denom,
						Time:  at,
					})
				case '3':
					// Tail of the most recent open hold in this column
					for j := len(notes) - 1; j >= 0; j-- {
						n := &notes[j]
						if n.Kind != game.Hold || int(n.Index) != col {
							continue
						}
						if n.TimeEnd == 0 {
							n.TimeEnd = at
						}
						break
					}
				}
			}

			// Two simultaneous taps fuse into a Jump
			if len(taps) == 2 {
				notes = append(notes, game.Note{
					Kind:  game.Jump,
					Pair:  [2]uint8{taps[0], taps[1]},
					Denom: denom,
					Time:  at,
				})
			} else {
				for _, lane := range taps {
					notes = append(notes, game.Note{
						Kind:  game.Tap,
						Index: lane,
						Denom: denom,
						Time:  at,
					})
				}
			}

			seconds += secondsPerNote
			currentBeat += beatsPerNote
		}
	}

	// A hold that never saw its tail is just a tap
	for i := range notes {
		if notes[i].Kind == game.Hold && notes[i].TimeEnd <= notes[i].Time {
			notes[i].Kind = game.Tap
			notes[i].TimeEnd = 0
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return notes
}
