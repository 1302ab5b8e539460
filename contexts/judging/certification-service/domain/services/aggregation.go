package services

import (
	"sort"

	"verdict/contexts/judging/certification-service/domain/entities"
)

// CategoryInput is everything needed to rank one category. Callers load it;
// ranking itself has no side effects.
type CategoryInput struct {
	Category            entities.Category
	Criteria            []entities.Criterion
	Scores              []entities.Score
	Deductions          []entities.OverallDeduction
	JudgeCertifications int
	BoardSigned         bool
	CallerRole          entities.Role
}

// ComputeCategoryStandings groups valued scores by contestant, subtracts the
// contestant's deductions (never below zero) and ranks by adjusted total,
// highest first. Equal totals keep their input order and share a rank.
func ComputeCategoryStandings(in CategoryInput) entities.CategoryStandings {
	type accumulator struct {
		raw    float64
		judges map[string]struct{}
	}

	order := make([]string, 0)
	byContestant := make(map[string]*accumulator)
	for _, score := range in.Scores {
		if !score.HasValue() || score.CategoryID != in.Category.CategoryID {
			continue
		}
		acc, ok := byContestant[score.ContestantID]
		if !ok {
			acc = &accumulator{judges: make(map[string]struct{})}
			byContestant[score.ContestantID] = acc
			order = append(order, score.ContestantID)
		}
		acc.raw += *score.Value
		acc.judges[score.JudgeID] = struct{}{}
	}

	deductions := make(map[string]float64)
	for _, deduction := range in.Deductions {
		if deduction.CategoryID != in.Category.CategoryID {
			continue
		}
		deductions[deduction.ContestantID] += deduction.Amount
	}

	contestants := make([]entities.ContestantStanding, 0, len(order))
	for _, contestantID := range order {
		acc := byContestant[contestantID]
		judgeIDs := make([]string, 0, len(acc.judges))
		for judgeID := range acc.judges {
			judgeIDs = append(judgeIDs, judgeID)
		}
		sort.Strings(judgeIDs)

		deduction := deductions[contestantID]
		total := acc.raw - deduction
		if total < 0 {
			total = 0
		}
		contestants = append(contestants, entities.ContestantStanding{
			ContestantID: contestantID,
			RawTotal:     acc.raw,
			Deduction:    deduction,
			TotalScore:   total,
			JudgeIDs:     judgeIDs,
		})
	}

	sort.SliceStable(contestants, func(i, j int) bool {
		return contestants[i].TotalScore > contestants[j].TotalScore
	})
	for i := range contestants {
		if i > 0 && contestants[i].TotalScore == contestants[i-1].TotalScore {
			contestants[i].Rank = contestants[i-1].Rank
			continue
		}
		contestants[i].Rank = i + 1
	}

	return entities.CategoryStandings{
		CategoryID:         in.Category.CategoryID,
		ContestID:          in.Category.ContestID,
		CategoryName:       in.Category.Name,
		Contestants:        contestants,
		TotalPossibleScore: entities.TotalPossibleScore(in.Criteria),
		CanShowWinners:     CanShowWinners(in.BoardSigned, in.CallerRole),
		AllSigned:          in.JudgeCertifications > 0,
		BoardSigned:        in.BoardSigned,
	}
}

// CanShowWinners holds once the board has certified, or always for callers
// allowed to see unpublished standings.
func CanShowWinners(boardSigned bool, callerRole entities.Role) bool {
	return boardSigned || IsAuthorizedFor(ActionViewHiddenStandings, callerRole)
}

// CombineContestStandings sums visible categories per contestant. Categories
// that cannot show winners to the caller are listed in hidden and contribute
// nothing.
func CombineContestStandings(
	categories []entities.CategoryStandings,
	includeBreakdown bool,
) (totals []entities.ContestantTotal, included []string, hidden []string) {
	order := make([]string, 0)
	byContestant := make(map[string]*entities.ContestantTotal)

	for _, category := range categories {
		if !category.CanShowWinners {
			hidden = append(hidden, category.CategoryID)
			continue
		}
		included = append(included, category.CategoryID)

		possible := 0.0
		if category.TotalPossibleScore != nil {
			possible = *category.TotalPossibleScore
		}
		for _, standing := range category.Contestants {
			total, ok := byContestant[standing.ContestantID]
			if !ok {
				total = &entities.ContestantTotal{ContestantID: standing.ContestantID}
				byContestant[standing.ContestantID] = total
				order = append(order, standing.ContestantID)
			}
			total.TotalScore += standing.TotalScore
			total.TotalPossibleScore += possible
			total.CategoriesParticipated++
			if includeBreakdown {
				total.Breakdown = append(total.Breakdown, entities.CategoryBreakdown{
					CategoryID:         category.CategoryID,
					CategoryName:       category.CategoryName,
					TotalScore:         standing.TotalScore,
					TotalPossibleScore: possible,
				})
			}
		}
	}

	totals = make([]entities.ContestantTotal, 0, len(order))
	for _, contestantID := range order {
		totals = append(totals, *byContestant[contestantID])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalScore > totals[j].TotalScore
	})
	for i := range totals {
		if i > 0 && totals[i].TotalScore == totals[i-1].TotalScore {
			totals[i].Rank = totals[i-1].Rank
			continue
		}
		totals[i].Rank = i + 1
	}
	return totals, included, hidden
}
