package services

import (
	"reflect"
	"testing"

	"verdict/contexts/judging/certification-service/domain/entities"
)

func value(v float64) *float64 {
	return &v
}

func eveningGown() entities.Category {
	return entities.Category{CategoryID: "gown", ContestID: "pageant", Name: "Evening Gown"}
}

func gownCriteria() []entities.Criterion {
	return []entities.Criterion{
		{CriterionID: "poise", CategoryID: "gown", MaxScore: 50},
		{CriterionID: "presence", CategoryID: "gown", MaxScore: 50},
	}
}

func TestComputeCategoryStandingsAppliesDeductions(t *testing.T) {
	in := CategoryInput{
		Category: eveningGown(),
		Criteria: gownCriteria(),
		Scores: []entities.Score{
			{JudgeID: "judge-a", ContestantID: "007", CategoryID: "gown", CriterionID: "poise", Value: value(45)},
			{JudgeID: "judge-a", ContestantID: "007", CategoryID: "gown", CriterionID: "presence", Value: value(48)},
		},
		Deductions: []entities.OverallDeduction{
			{ContestantID: "007", CategoryID: "gown", Amount: 5},
		},
		CallerRole: entities.RoleJudge,
	}

	standings := ComputeCategoryStandings(in)
	if len(standings.Contestants) != 1 {
		t.Fatalf("expected one contestant, got %d", len(standings.Contestants))
	}
	got := standings.Contestants[0]
	if got.RawTotal != 93 || got.Deduction != 5 || got.TotalScore != 88 || got.Rank != 1 {
		t.Fatalf("unexpected standing %+v", got)
	}
	if standings.TotalPossibleScore == nil || *standings.TotalPossibleScore != 100 {
		t.Fatalf("expected total possible 100, got %v", standings.TotalPossibleScore)
	}
	if standings.CanShowWinners {
		t.Fatalf("expected judge blocked before board certification")
	}

	in.CallerRole = entities.RoleAdmin
	if !ComputeCategoryStandings(in).CanShowWinners {
		t.Fatalf("expected admin to see winners regardless of board state")
	}

	in.CallerRole = entities.RoleJudge
	in.BoardSigned = true
	if !ComputeCategoryStandings(in).CanShowWinners {
		t.Fatalf("expected judge to see winners after board certification")
	}
}

func TestComputeCategoryStandingsFloorsAtZero(t *testing.T) {
	standings := ComputeCategoryStandings(CategoryInput{
		Category: eveningGown(),
		Criteria: gownCriteria(),
		Scores: []entities.Score{
			{JudgeID: "judge-a", ContestantID: "011", CategoryID: "gown", CriterionID: "poise", Value: value(3)},
		},
		Deductions: []entities.OverallDeduction{
			{ContestantID: "011", CategoryID: "gown", Amount: 2},
			{ContestantID: "011", CategoryID: "gown", Amount: 4},
		},
	})
	got := standings.Contestants[0]
	if got.TotalScore != 0 || got.Deduction != 6 {
		t.Fatalf("expected floored total with summed deductions, got %+v", got)
	}
}

func TestComputeCategoryStandingsSkipsUnvaluedScores(t *testing.T) {
	standings := ComputeCategoryStandings(CategoryInput{
		Category: eveningGown(),
		Criteria: gownCriteria(),
		Scores: []entities.Score{
			{JudgeID: "judge-a", ContestantID: "001", CategoryID: "gown", CriterionID: "poise"},
			{JudgeID: "judge-b", ContestantID: "002", CategoryID: "gown", CriterionID: "poise", Value: value(0)},
			{JudgeID: "judge-c", ContestantID: "003", CategoryID: "other", CriterionID: "poise", Value: value(40)},
		},
	})
	if len(standings.Contestants) != 1 || standings.Contestants[0].ContestantID != "002" {
		t.Fatalf("expected only the zero-valued score to count, got %+v", standings.Contestants)
	}
}

func TestComputeCategoryStandingsSharesRankOnTies(t *testing.T) {
	standings := ComputeCategoryStandings(CategoryInput{
		Category: eveningGown(),
		Criteria: gownCriteria(),
		Scores: []entities.Score{
			{JudgeID: "judge-a", ContestantID: "b", CategoryID: "gown", CriterionID: "poise", Value: value(40)},
			{JudgeID: "judge-a", ContestantID: "a", CategoryID: "gown", CriterionID: "poise", Value: value(40)},
			{JudgeID: "judge-a", ContestantID: "c", CategoryID: "gown", CriterionID: "poise", Value: value(45)},
			{JudgeID: "judge-a", ContestantID: "d", CategoryID: "gown", CriterionID: "poise", Value: value(30)},
			{JudgeID: "judge-b", ContestantID: "c", CategoryID: "gown", CriterionID: "presence", Value: value(1)},
		},
	})

	wantOrder := []string{"c", "b", "a", "d"}
	wantRanks := []int{1, 2, 2, 4}
	for i, standing := range standings.Contestants {
		if standing.ContestantID != wantOrder[i] || standing.Rank != wantRanks[i] {
			t.Fatalf("position %d: expected %s rank %d, got %+v", i, wantOrder[i], wantRanks[i], standing)
		}
	}
	if judges := standings.Contestants[0].JudgeIDs; len(judges) != 2 || judges[0] != "judge-a" || judges[1] != "judge-b" {
		t.Fatalf("expected sorted distinct judges, got %v", judges)
	}
}

func TestComputeCategoryStandingsIsDeterministic(t *testing.T) {
	in := CategoryInput{
		Category: eveningGown(),
		Criteria: gownCriteria(),
		Scores: []entities.Score{
			{JudgeID: "judge-b", ContestantID: "011", CategoryID: "gown", CriterionID: "poise", Value: value(38)},
			{JudgeID: "judge-a", ContestantID: "007", CategoryID: "gown", CriterionID: "poise", Value: value(45)},
			{JudgeID: "judge-c", ContestantID: "011", CategoryID: "gown", CriterionID: "presence", Value: value(44)},
			{JudgeID: "judge-a", ContestantID: "019", CategoryID: "gown", CriterionID: "poise", Value: value(41)},
			{JudgeID: "judge-b", ContestantID: "007", CategoryID: "gown", CriterionID: "presence", Value: value(37)},
			{JudgeID: "judge-c", ContestantID: "019", CategoryID: "gown", CriterionID: "presence", Value: value(41)},
		},
		Deductions: []entities.OverallDeduction{
			{ContestantID: "011", CategoryID: "gown", Amount: 2.5},
			{ContestantID: "019", CategoryID: "gown", Amount: 1},
		},
		JudgeCertifications: 2,
		CallerRole:          entities.RoleAdmin,
	}

	first := ComputeCategoryStandings(in)
	for i := 0; i < 20; i++ {
		if again := ComputeCategoryStandings(in); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
	if first.Contestants[0].ContestantID != "007" || first.Contestants[0].TotalScore != 82 {
		t.Fatalf("unexpected leader %+v", first.Contestants[0])
	}
}

func TestComputeCategoryStandingsKeepsInputOrderAcrossTiePermutations(t *testing.T) {
	for _, tied := range permutations([]string{"a", "b", "c", "d"}) {
		scores := []entities.Score{
			{JudgeID: "judge-a", ContestantID: "leader", CategoryID: "gown", CriterionID: "poise", Value: value(49)},
		}
		for _, contestantID := range tied {
			scores = append(scores, entities.Score{
				JudgeID: "judge-a", ContestantID: contestantID, CategoryID: "gown", CriterionID: "poise", Value: value(40),
			})
		}
		scores = append(scores, entities.Score{
			JudgeID: "judge-a", ContestantID: "trailer", CategoryID: "gown", CriterionID: "poise", Value: value(12),
		})

		standings := ComputeCategoryStandings(CategoryInput{Category: eveningGown(), Criteria: gownCriteria(), Scores: scores})
		want := append(append([]string{"leader"}, tied...), "trailer")
		wantRanks := []int{1, 2, 2, 2, 2, 6}
		for i, standing := range standings.Contestants {
			if standing.ContestantID != want[i] || standing.Rank != wantRanks[i] {
				t.Fatalf("input %v position %d: expected %s rank %d, got %+v", tied, i, want[i], wantRanks[i], standing)
			}
		}
	}
}

func TestComputeCategoryStandingsWithoutCriteriaHasNoCap(t *testing.T) {
	standings := ComputeCategoryStandings(CategoryInput{Category: eveningGown()})
	if standings.TotalPossibleScore != nil {
		t.Fatalf("expected nil total possible score, got %v", *standings.TotalPossibleScore)
	}
	if standings.Contestants == nil || len(standings.Contestants) != 0 {
		t.Fatalf("expected empty non-nil contestants")
	}
}

func TestCombineContestStandingsSumsVisibleCategories(t *testing.T) {
	hundred := 100.0
	fifty := 50.0
	categories := []entities.CategoryStandings{
		{
			CategoryID:         "gown",
			CategoryName:       "Evening Gown",
			TotalPossibleScore: &hundred,
			CanShowWinners:     true,
			Contestants: []entities.ContestantStanding{
				{ContestantID: "007", TotalScore: 88},
				{ContestantID: "011", TotalScore: 70},
			},
		},
		{
			CategoryID:         "talent",
			CategoryName:       "Talent",
			TotalPossibleScore: &fifty,
			CanShowWinners:     true,
			Contestants: []entities.ContestantStanding{
				{ContestantID: "011", TotalScore: 45},
			},
		},
		{
			CategoryID:     "interview",
			CanShowWinners: false,
			Contestants: []entities.ContestantStanding{
				{ContestantID: "007", TotalScore: 99},
			},
		},
	}

	totals, included, hidden := CombineContestStandings(categories, true)
	if len(included) != 2 || len(hidden) != 1 || hidden[0] != "interview" {
		t.Fatalf("unexpected visibility split included=%v hidden=%v", included, hidden)
	}
	if len(totals) != 2 {
		t.Fatalf("expected two contestants, got %d", len(totals))
	}
	first := totals[0]
	if first.ContestantID != "011" || first.TotalScore != 115 || first.TotalPossibleScore != 150 || first.CategoriesParticipated != 2 {
		t.Fatalf("unexpected leader %+v", first)
	}
	if len(first.Breakdown) != 2 || first.Breakdown[1].CategoryID != "talent" {
		t.Fatalf("expected per-category breakdown, got %+v", first.Breakdown)
	}
	if totals[1].ContestantID != "007" || totals[1].TotalScore != 88 || totals[1].Rank != 2 {
		t.Fatalf("expected hidden category excluded from 007, got %+v", totals[1])
	}

	totals, _, _ = CombineContestStandings(categories, false)
	if totals[0].Breakdown != nil {
		t.Fatalf("expected no breakdown when not requested")
	}
}
