package score

// GameScore accumulates judgements. It has no timing logic; the judge tells
// it what happened and it keeps the derived values current.
type GameScore struct {
	Judgments   [len(Judgements)]int
	Score       float64
	MaxPossible float64
	Combo       int
	MaxCombo    int
	Accuracy    float64
	Grade       Grade
}

func NewGameScore(noteCount int) *GameScore {
	return &GameScore{
		MaxPossible: float64(noteCount) * Judgements[Fantastic].Value,
		Accuracy:    1,
		Grade:       GradeFor(1),
	}
}

// RecordJudgment applies one judgement: counts, score, combo, then the
// derived accuracy and grade. Combo resets to zero exactly on a miss.
func (g *GameScore) RecordJudgment(tier Tier) {
	g.Judgments[tier]++
	g.Score += Judgements[tier].Value
	if tier == Miss {
		g.Combo = 0
	} else {
		g.Combo++
		if g.Combo > g.MaxCombo {
			g.MaxCombo = g.Combo
		}
	}

	judged := 0
	for _, c := range g.Judgments {
		judged += c
	}
	if judged > 0 {
		g.Accuracy = g.Score / (float64(judged) * Judgements[Fantastic].Value)
	}
	g.Grade = GradeFor(g.Accuracy)
}

// Results is the immutable end-of-session snapshot. The combo booleans are
// hierarchical, each implies the previous.
type Results struct {
	Score            float64
	Accuracy         float64
	Grade            Grade
	MaxCombo         int
	Judgments        [len(Judgements)]int
	FullCombo        bool
	PerfectFullCombo bool
	TopFullCombo     bool
}

func (g *GameScore) Finalize() Results {
	r := Results{
		Score:     g.Score,
		Accuracy:  g.Accuracy,
		Grade:     g.Grade,
		MaxCombo:  g.MaxCombo,
		Judgments: g.Judgments,
	}
	r.FullCombo = g.Judgments[Miss] == 0
	r.PerfectFullCombo = r.FullCombo && g.Judgments[Great] == 0 && g.Judgments[Decent] == 0
	r.TopFullCombo = r.PerfectFullCombo && g.Judgments[Excellent] == 0
	return r
}
