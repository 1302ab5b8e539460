package entities

import "time"

// Event, Contest, Category, Criterion and Judge are read projections owned by
// the administrative surface. This module never creates or deletes them.

type Event struct {
	EventID  string
	TenantID string
	Name     string
}

type Contest struct {
	ContestID string
	EventID   string
	TenantID  string
	Name      string
}

type Category struct {
	CategoryID string
	ContestID  string
	TenantID   string
	Name       string
	ScoreCap   float64
	// TallyTotalsCertified reflects Tally Master action only. It is not the
	// four-role verdict reported by CertificationProgress.FullyCertified.
	TallyTotalsCertified bool
	UpdatedAt            time.Time
}

type Criterion struct {
	CriterionID string
	CategoryID  string
	Name        string
	MaxScore    int
	SortOrder   int
}

type Judge struct {
	JudgeID  string
	TenantID string
	UserID   string
	Name     string
}

// TotalPossibleScore sums criterion caps. A category with no criteria has no
// cap at all, which is reported as nil rather than zero.
func TotalPossibleScore(criteria []Criterion) *float64 {
	if len(criteria) == 0 {
		return nil
	}
	total := 0.0
	for _, criterion := range criteria {
		total += float64(criterion.MaxScore)
	}
	return &total
}
