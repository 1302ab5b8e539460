package entities

import "time"

// Score is the atomic judging fact. At most one exists per
// (judge, contestant, criterion); its value is never edited after creation.
type Score struct {
	ScoreID      string
	JudgeID      string
	ContestantID string
	CategoryID   string
	CriterionID  string
	Value        *float64
	Comment      string
	IsCertified  bool
	CertifiedBy  string
	CertifiedAt  *time.Time
	CreatedAt    time.Time
}

// HasValue reports whether the score contributes to aggregation.
func (s Score) HasValue() bool {
	return s.Value != nil
}

// OverallDeduction is a per (contestant, category) penalty applied at
// aggregation time only.
type OverallDeduction struct {
	DeductionID  string
	ContestantID string
	CategoryID   string
	Amount       float64
	Reason       string
	RecordedBy   string
	CreatedAt    time.Time
}

// ScoreScope selects scores for bulk removal or uncertification. An empty
// ContestantID covers every contestant the judge scored in the category.
type ScoreScope struct {
	CategoryID   string
	JudgeID      string
	ContestantID string
}

func (s ScoreScope) Matches(score Score) bool {
	if score.CategoryID != s.CategoryID || score.JudgeID != s.JudgeID {
		return false
	}
	if s.ContestantID != "" && score.ContestantID != s.ContestantID {
		return false
	}
	return true
}
