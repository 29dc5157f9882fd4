package models

import "time"

// Criterion is one of the fixed rubric dimensions an essay is scored on.
type Criterion string

const (
	CriterionArgument    Criterion = "argument"
	CriterionLogic       Criterion = "logic"
	CriterionClarity     Criterion = "clarity"
	CriterionOriginality Criterion = "originality"
)

// Criteria lists the rubric in feedback order.
var Criteria = []Criterion{
	CriterionArgument,
	CriterionLogic,
	CriterionClarity,
	CriterionOriginality,
}

// Label is the capitalised criterion name used in feedback lines.
func (c Criterion) Label() string {
	switch c {
	case CriterionArgument:
		return "Argument"
	case CriterionLogic:
		return "Logic"
	case CriterionClarity:
		return "Clarity"
	case CriterionOriginality:
		return "Originality"
	}
	return string(c)
}

// ScoreSet holds one score per criterion, each in [1.0, 5.0].
type ScoreSet struct {
	Argument    float64
	Logic       float64
	Clarity     float64
	Originality float64
}

func (s ScoreSet) Get(c Criterion) float64 {
	switch c {
	case CriterionArgument:
		return s.Argument
	case CriterionLogic:
		return s.Logic
	case CriterionClarity:
		return s.Clarity
	case CriterionOriginality:
		return s.Originality
	}
	return 0
}

func (s *ScoreSet) Set(c Criterion, v float64) {
	switch c {
	case CriterionArgument:
		s.Argument = v
	case CriterionLogic:
		s.Logic = v
	case CriterionClarity:
		s.Clarity = v
	case CriterionOriginality:
		s.Originality = v
	}
}

// Submission is an immutable ledger record.
type Submission struct {
	ID        string
	StudentID string
	TeacherID string
	CreatedAt time.Time
	Essay     string
	Scores    ScoreSet
	Feedback  string
}

// Progress is a student's history, oldest first, with per-criterion means.
type Progress struct {
	StudentID   string
	Submissions []*Submission
	Averages    ScoreSet
}

// StudentStats is one row of a teacher's group statistics.
type StudentStats struct {
	StudentID   string
	Submissions int
	Averages    ScoreSet
}

// AverageScores returns the unweighted per-criterion mean. An empty slice
// yields the zero ScoreSet.
func AverageScores(subs []*Submission) ScoreSet {
	var avg ScoreSet
	if len(subs) == 0 {
		return avg
	}
	n := float64(len(subs))
	for _, c := range Criteria {
		var sum float64
		for _, s := range subs {
			sum += s.Scores.Get(c)
		}
		avg.Set(c, sum/n)
	}
	return avg
}
