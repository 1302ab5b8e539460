package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "verdict/contexts/judging/certification-service/application"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/domain/services"
	"verdict/contexts/judging/certification-service/ports"

	"golang.org/x/sync/errgroup"
)

const defaultFanOut = 4

// StandingsUseCase recomputes winner totals from raw scores on every call.
// Nothing is cached and nothing is written.
type StandingsUseCase struct {
	Catalog ports.CatalogReader
	Scores  ports.ScoreRepository
	Ledger  ports.CertificationLedger
	Metrics ports.Metrics
	// FanOut bounds concurrent category and contest computations.
	FanOut int
	Logger *slog.Logger
}

// CategoryStandings ranks one category for callerRole. It never redacts.
func (uc StandingsUseCase) CategoryStandings(
	ctx context.Context,
	categoryID string,
	callerRole entities.Role,
) (entities.CategoryStandings, error) {
	started := time.Now()
	standings, err := uc.categoryStandings(ctx, strings.TrimSpace(categoryID), callerRole)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	application.ResolveMetrics(uc.Metrics).ObserveStandings("category", time.Since(started))
	return standings, nil
}

func (uc StandingsUseCase) categoryStandings(
	ctx context.Context,
	categoryID string,
	callerRole entities.Role,
) (entities.CategoryStandings, error) {
	if categoryID == "" {
		return entities.CategoryStandings{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	criteria, err := uc.Catalog.ListCriteria(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	scores, err := uc.Scores.ListScores(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	deductions, err := uc.Scores.ListDeductions(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	judgeCertifications, err := uc.Ledger.ListJudgeCertifications(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	certifications, err := uc.Ledger.ListCategoryCertifications(ctx, categoryID)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	boardSigned := false
	for _, certification := range certifications {
		if certification.Role == entities.RoleBoard {
			boardSigned = true
			break
		}
	}

	return services.ComputeCategoryStandings(services.CategoryInput{
		Category:            category,
		Criteria:            criteria,
		Scores:              scores,
		Deductions:          deductions,
		JudgeCertifications: entities.ActiveJudgeCertifications(judgeCertifications),
		BoardSigned:         boardSigned,
		CallerRole:          callerRole,
	}), nil
}

// ContestStandings sums each contestant over the contest's categories that can
// show winners to callerRole. A category that fails to compute, including one
// without criteria, is logged and skipped rather than failing the contest.
func (uc StandingsUseCase) ContestStandings(
	ctx context.Context,
	contestID string,
	callerRole entities.Role,
	includeBreakdown bool,
) (entities.ContestStandings, error) {
	started := time.Now()
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return entities.ContestStandings{}, domainerrors.ErrInvalidInput
	}
	contest, err := uc.Catalog.GetContest(ctx, contestID)
	if err != nil {
		return entities.ContestStandings{}, err
	}
	categories, err := uc.Catalog.ListCategoriesByContest(ctx, contestID)
	if err != nil {
		return entities.ContestStandings{}, err
	}

	results := make([]entities.CategoryStandings, len(categories))
	failures := make([]error, len(categories))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.fanOut())
	for i, category := range categories {
		group.Go(func() error {
			standings, err := uc.categoryStandings(groupCtx, category.CategoryID, callerRole)
			if err == nil && standings.TotalPossibleScore == nil {
				err = domainerrors.ErrNoCriteria
			}
			results[i] = standings
			failures[i] = err
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return entities.ContestStandings{}, err
	}

	logger := application.ResolveLogger(uc.Logger)
	metrics := application.ResolveMetrics(uc.Metrics)
	computed := make([]entities.CategoryStandings, 0, len(categories))
	result := entities.ContestStandings{
		ContestID:   contest.ContestID,
		EventID:     contest.EventID,
		ContestName: contest.Name,
	}
	for i, category := range categories {
		if failures[i] != nil {
			logger.Warn("category skipped in contest standings",
				"event", "judging_contest_standings_category_skipped",
				"module", application.ModuleName,
				"layer", "application",
				"contest_id", contestID,
				"category_id", category.CategoryID,
				"error", failures[i].Error(),
			)
			metrics.ObserveSkipped("contest")
			result.CategoriesSkipped = append(result.CategoriesSkipped, entities.SkippedCategory{
				CategoryID: category.CategoryID,
				Reason:     failures[i].Error(),
			})
			continue
		}
		computed = append(computed, results[i])
	}

	result.Contestants, result.CategoriesIncluded, result.CategoriesHidden =
		services.CombineContestStandings(computed, includeBreakdown)
	metrics.ObserveStandings("contest", time.Since(started))
	return result, nil
}

// EventStandings fans out over the event's contests with the same tolerance
// for failing members.
func (uc StandingsUseCase) EventStandings(
	ctx context.Context,
	eventID string,
	callerRole entities.Role,
	includeBreakdown bool,
) (entities.EventStandings, error) {
	started := time.Now()
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return entities.EventStandings{}, domainerrors.ErrInvalidInput
	}
	event, err := uc.Catalog.GetEvent(ctx, eventID)
	if err != nil {
		return entities.EventStandings{}, err
	}
	contests, err := uc.Catalog.ListContestsByEvent(ctx, eventID)
	if err != nil {
		return entities.EventStandings{}, err
	}

	results := make([]entities.ContestStandings, len(contests))
	failures := make([]error, len(contests))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.fanOut())
	for i, contest := range contests {
		group.Go(func() error {
			results[i], failures[i] = uc.ContestStandings(groupCtx, contest.ContestID, callerRole, includeBreakdown)
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return entities.EventStandings{}, err
	}

	logger := application.ResolveLogger(uc.Logger)
	metrics := application.ResolveMetrics(uc.Metrics)
	result := entities.EventStandings{
		EventID:  event.EventID,
		Contests: make([]entities.ContestStandings, 0, len(contests)),
	}
	for i, contest := range contests {
		if failures[i] != nil {
			logger.Warn("contest skipped in event standings",
				"event", "judging_event_standings_contest_skipped",
				"module", application.ModuleName,
				"layer", "application",
				"event_id", eventID,
				"contest_id", contest.ContestID,
				"error", failures[i].Error(),
			)
			metrics.ObserveSkipped("event")
			result.ContestsSkipped = append(result.ContestsSkipped, entities.SkippedContest{
				ContestID: contest.ContestID,
				Reason:    failures[i].Error(),
			})
			continue
		}
		result.Contests = append(result.Contests, results[i])
	}
	metrics.ObserveStandings("event", time.Since(started))
	return result, nil
}

func (uc StandingsUseCase) fanOut() int {
	if uc.FanOut <= 0 {
		return defaultFanOut
	}
	return uc.FanOut
}
