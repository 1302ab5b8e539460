package workflow

import (
	"context"
	"log/slog"
	"strings"

	application "verdict/contexts/judging/certification-service/application"
	"verdict/contexts/judging/certification-service/application/commands"
	"verdict/contexts/judging/certification-service/application/queries"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
)

// Orchestrator is the entry point for category sign-off. It composes the
// ledger writes with progress and standings reads and decides what a caller
// is allowed to see.
type Orchestrator struct {
	Certifications commands.CertificationUseCase
	Progress       queries.ProgressUseCase
	Standings      queries.StandingsUseCase
	Logger         *slog.Logger
}

type CertifyScoresResult struct {
	Certification entities.CategoryCertification
	Progress      entities.CertificationProgress
}

// CertifyScores certifies the category for the actor's role and returns the
// progress read back after the write.
func (o Orchestrator) CertifyScores(
	ctx context.Context,
	cmd commands.CertifyCategoryCommand,
) (CertifyScoresResult, error) {
	certification, err := o.Certifications.Certify(ctx, cmd)
	if err != nil {
		return CertifyScoresResult{}, err
	}
	progress, err := o.Progress.CertificationProgress(ctx, certification.CategoryID)
	if err != nil {
		return CertifyScoresResult{}, err
	}
	return CertifyScoresResult{Certification: certification, Progress: progress}, nil
}

func (o Orchestrator) SignWinners(ctx context.Context, cmd commands.SignWinnersCommand) (commands.SignWinnersResult, error) {
	return o.Certifications.SignWinners(ctx, cmd)
}

func (o Orchestrator) CertifyJudgeScores(
	ctx context.Context,
	cmd commands.CertifyJudgeScoresCommand,
) (commands.CertifyJudgeScoresResult, error) {
	return o.Certifications.CertifyJudgeScores(ctx, cmd)
}

func (o Orchestrator) CertificationProgress(
	ctx context.Context,
	categoryID string,
	actor entities.Actor,
) (entities.CertificationProgress, error) {
	if err := o.ensureCategoryVisible(ctx, categoryID, actor); err != nil {
		return entities.CertificationProgress{}, err
	}
	return o.Progress.CertificationProgress(ctx, categoryID)
}

func (o Orchestrator) ListCertifications(
	ctx context.Context,
	categoryID string,
	actor entities.Actor,
) (queries.CertificationListing, error) {
	if err := o.ensureCategoryVisible(ctx, categoryID, actor); err != nil {
		return queries.CertificationListing{}, err
	}
	return o.Progress.ListCertifications(ctx, categoryID)
}

// CategoryStandings returns the ranked category, withholding contestant totals
// when the caller cannot see winners yet.
func (o Orchestrator) CategoryStandings(
	ctx context.Context,
	categoryID string,
	actor entities.Actor,
) (entities.CategoryStandings, error) {
	if err := o.ensureCategoryVisible(ctx, categoryID, actor); err != nil {
		return entities.CategoryStandings{}, err
	}
	standings, err := o.Standings.CategoryStandings(ctx, categoryID, actor.Role)
	if err != nil {
		return entities.CategoryStandings{}, err
	}
	if standings.CanShowWinners {
		return standings, nil
	}
	application.ResolveLogger(o.Logger).Debug("category standings redacted",
		"event", "judging_category_standings_redacted",
		"module", application.ModuleName,
		"layer", "application",
		"category_id", standings.CategoryID,
		"role", string(actor.Role),
	)
	return Redact(standings), nil
}

// ContestStandings only ever sums categories visible to the caller, so the
// result needs no further redaction.
func (o Orchestrator) ContestStandings(
	ctx context.Context,
	contestID string,
	actor entities.Actor,
	includeBreakdown bool,
) (entities.ContestStandings, error) {
	contest, err := o.Standings.Catalog.GetContest(ctx, strings.TrimSpace(contestID))
	if err != nil {
		return entities.ContestStandings{}, err
	}
	if !actor.InTenant(contest.TenantID) {
		return entities.ContestStandings{}, domainerrors.ErrContestNotFound
	}
	return o.Standings.ContestStandings(ctx, contestID, actor.Role, includeBreakdown)
}

func (o Orchestrator) EventStandings(
	ctx context.Context,
	eventID string,
	actor entities.Actor,
	includeBreakdown bool,
) (entities.EventStandings, error) {
	event, err := o.Standings.Catalog.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return entities.EventStandings{}, err
	}
	if !actor.InTenant(event.TenantID) {
		return entities.EventStandings{}, domainerrors.ErrEventNotFound
	}
	return o.Standings.EventStandings(ctx, eventID, actor.Role, includeBreakdown)
}

func (o Orchestrator) ensureCategoryVisible(ctx context.Context, categoryID string, actor entities.Actor) error {
	category, err := o.Progress.Catalog.GetCategory(ctx, strings.TrimSpace(categoryID))
	if err != nil {
		return err
	}
	if !actor.InTenant(category.TenantID) {
		return domainerrors.ErrCategoryNotFound
	}
	return nil
}

// Redact keeps the standings shape but drops every contestant total.
func Redact(standings entities.CategoryStandings) entities.CategoryStandings {
	standings.Contestants = []entities.ContestantStanding{}
	standings.Redacted = true
	return standings
}
