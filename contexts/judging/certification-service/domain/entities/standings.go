package entities

// ContestantStanding is one contestant's adjusted total inside a category.
type ContestantStanding struct {
	ContestantID string
	RawTotal     float64
	Deduction    float64
	TotalScore   float64
	JudgeIDs     []string
	Rank         int
}

type CategoryStandings struct {
	CategoryID         string
	ContestID          string
	CategoryName       string
	Contestants        []ContestantStanding
	TotalPossibleScore *float64
	CanShowWinners     bool
	AllSigned          bool
	BoardSigned        bool
	// Redacted is set when contestant totals were withheld from the caller.
	Redacted bool
}

type CategoryBreakdown struct {
	CategoryID         string
	CategoryName       string
	TotalScore         float64
	TotalPossibleScore float64
}

type ContestantTotal struct {
	ContestantID           string
	TotalScore             float64
	TotalPossibleScore     float64
	CategoriesParticipated int
	Rank                   int
	Breakdown              []CategoryBreakdown
}

type SkippedCategory struct {
	CategoryID string
	Reason     string
}

type ContestStandings struct {
	ContestID          string
	EventID            string
	ContestName        string
	Contestants        []ContestantTotal
	CategoriesIncluded []string
	CategoriesHidden   []string
	CategoriesSkipped  []SkippedCategory
}

type SkippedContest struct {
	ContestID string
	Reason    string
}

type EventStandings struct {
	EventID         string
	Contests        []ContestStandings
	ContestsSkipped []SkippedContest
}
