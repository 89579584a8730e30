package score

type Grade int

const (
	GradeAAA Grade = iota
	GradeAA
	GradeA
	GradeB
	GradeC
	GradeD
	GradeF
)

func (g Grade) String() string {
	switch g {
	case GradeAAA:
		return "AAA"
	case GradeAA:
		return "AA"
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "F"
	}
}

var gradeThresholds = [...]struct {
	Min   float64
	Grade Grade
}{
	{1.00, GradeAAA},
	{0.99, GradeAA},
	{0.96, GradeA},
	{0.89, GradeB},
	{0.80, GradeC},
	{0.65, GradeD},
}

func GradeFor(accuracy float64) Grade {
	for _, t := range gradeThresholds {
		if accuracy >= t.Min {
			return t.Grade
		}
	}
	return GradeF
}
