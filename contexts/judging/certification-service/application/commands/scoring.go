package commands

import (
	"context"
	"log/slog"
	"strings"

	application "verdict/contexts/judging/certification-service/application"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/domain/services"
	"verdict/contexts/judging/certification-service/ports"
)

type SubmitScoreCommand struct {
	CategoryID   string
	JudgeID      string
	ContestantID string
	CriterionID  string
	Value        *float64
	Comment      string
	Actor        entities.Actor
}

type RecordDeductionCommand struct {
	CategoryID   string
	ContestantID string
	Amount       float64
	Reason       string
	Actor        entities.Actor
}

// ScoringUseCase writes raw judging facts. Scores are insert-only.
type ScoringUseCase struct {
	Catalog ports.CatalogReader
	Scores  ports.ScoreRepository
	Ledger  ports.CertificationLedger
	Quorum  ports.QuorumRepository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func (uc ScoringUseCase) SubmitScore(ctx context.Context, cmd SubmitScoreCommand) (entities.Score, error) {
	logger := application.ResolveLogger(uc.Logger)
	categoryID := strings.TrimSpace(cmd.CategoryID)
	judgeID := strings.TrimSpace(cmd.JudgeID)
	contestantID := strings.TrimSpace(cmd.ContestantID)
	criterionID := strings.TrimSpace(cmd.CriterionID)
	if categoryID == "" || judgeID == "" || contestantID == "" || criterionID == "" {
		logger.Warn("score submission validation failed",
			"event", "judging_score_submit_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"category_id", categoryID,
			"judge_id", judgeID,
		)
		return entities.Score{}, domainerrors.ErrInvalidInput
	}

	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.Score{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return entities.Score{}, domainerrors.ErrCategoryNotFound
	}
	if !services.IsAuthorizedFor(services.ActionSubmitScore, cmd.Actor.Role) {
		return entities.Score{}, domainerrors.ErrRoleForbidden
	}
	judge, err := uc.Catalog.GetJudge(ctx, judgeID)
	if err != nil {
		return entities.Score{}, err
	}
	if !cmd.Actor.InTenant(judge.TenantID) {
		return entities.Score{}, domainerrors.ErrJudgeNotFound
	}
	if cmd.Actor.Role == entities.RoleJudge && judge.UserID != strings.TrimSpace(cmd.Actor.UserID) {
		return entities.Score{}, domainerrors.ErrRoleForbidden
	}

	criterion, err := uc.findCriterion(ctx, categoryID, criterionID)
	if err != nil {
		return entities.Score{}, err
	}
	if cmd.Value != nil && (*cmd.Value < 0 || *cmd.Value > float64(criterion.MaxScore)) {
		return entities.Score{}, domainerrors.ErrScoreOutOfRange
	}
	reopened := entities.ScoreScope{CategoryID: categoryID, JudgeID: judgeID, ContestantID: contestantID}
	if err := uc.ensureOpen(ctx, category, &reopened); err != nil {
		return entities.Score{}, err
	}

	now := resolveNow(uc.Clock)
	scoreID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Score{}, err
	}
	score := entities.Score{
		ScoreID:      scoreID,
		JudgeID:      judgeID,
		ContestantID: contestantID,
		CategoryID:   categoryID,
		CriterionID:  criterionID,
		Comment:      strings.TrimSpace(cmd.Comment),
		CreatedAt:    now,
	}
	if cmd.Value != nil {
		value := *cmd.Value
		score.Value = &value
	}

	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventScoreSubmitted, map[string]any{
		"score_id":      score.ScoreID,
		"category_id":   score.CategoryID,
		"judge_id":      score.JudgeID,
		"contestant_id": score.ContestantID,
		"criterion_id":  score.CriterionID,
		"value":         score.Value,
	}); err != nil {
		return entities.Score{}, err
	}
	if err := uc.Scores.CreateScore(ctx, score, events.events); err != nil {
		return entities.Score{}, err
	}

	logger.Info("score submitted",
		"event", "judging_score_submitted",
		"module", application.ModuleName,
		"layer", "application",
		"score_id", score.ScoreID,
		"category_id", score.CategoryID,
		"judge_id", score.JudgeID,
		"contestant_id", score.ContestantID,
	)
	return score, nil
}

func (uc ScoringUseCase) RecordDeduction(
	ctx context.Context,
	cmd RecordDeductionCommand,
) (entities.OverallDeduction, error) {
	logger := application.ResolveLogger(uc.Logger)
	categoryID := strings.TrimSpace(cmd.CategoryID)
	contestantID := strings.TrimSpace(cmd.ContestantID)
	if categoryID == "" || contestantID == "" || cmd.Amount <= 0 {
		return entities.OverallDeduction{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.OverallDeduction{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return entities.OverallDeduction{}, domainerrors.ErrCategoryNotFound
	}
	if !services.IsAuthorizedFor(services.ActionRecordDeduction, cmd.Actor.Role) {
		return entities.OverallDeduction{}, domainerrors.ErrRoleForbidden
	}
	if err := uc.ensureOpen(ctx, category, nil); err != nil {
		return entities.OverallDeduction{}, err
	}

	now := resolveNow(uc.Clock)
	deductionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.OverallDeduction{}, err
	}
	deduction := entities.OverallDeduction{
		DeductionID:  deductionID,
		ContestantID: contestantID,
		CategoryID:   categoryID,
		Amount:       cmd.Amount,
		Reason:       strings.TrimSpace(cmd.Reason),
		RecordedBy:   strings.TrimSpace(cmd.Actor.UserID),
		CreatedAt:    now,
	}
	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventDeductionRecorded, map[string]any{
		"deduction_id":  deduction.DeductionID,
		"category_id":   deduction.CategoryID,
		"contestant_id": deduction.ContestantID,
		"amount":        deduction.Amount,
		"recorded_by":   deduction.RecordedBy,
	}); err != nil {
		return entities.OverallDeduction{}, err
	}
	if err := uc.Scores.CreateDeduction(ctx, deduction, events.events); err != nil {
		return entities.OverallDeduction{}, err
	}

	logger.Info("deduction recorded",
		"event", "judging_deduction_recorded",
		"module", application.ModuleName,
		"layer", "application",
		"deduction_id", deduction.DeductionID,
		"category_id", deduction.CategoryID,
		"contestant_id", deduction.ContestantID,
		"amount", deduction.Amount,
	)
	return deduction, nil
}

func (uc ScoringUseCase) findCriterion(ctx context.Context, categoryID string, criterionID string) (entities.Criterion, error) {
	criteria, err := uc.Catalog.ListCriteria(ctx, categoryID)
	if err != nil {
		return entities.Criterion{}, err
	}
	for _, criterion := range criteria {
		if criterion.CriterionID == criterionID {
			return criterion, nil
		}
	}
	return entities.Criterion{}, domainerrors.ErrCriterionNotFound
}

// ensureOpen rejects writes once the board has certified the category. A
// score write stays possible where an executed removal request cleared the
// judge's scores, so removed scores can be re-entered.
func (uc ScoringUseCase) ensureOpen(ctx context.Context, category entities.Category, score *entities.ScoreScope) error {
	certifications, err := uc.Ledger.ListCategoryCertifications(ctx, category.CategoryID)
	if err != nil {
		return err
	}
	locked := false
	for _, certification := range certifications {
		if certification.Role == entities.RoleBoard {
			locked = true
			break
		}
	}
	if !locked {
		return nil
	}
	if score == nil || uc.Quorum == nil {
		return domainerrors.ErrCategoryLocked
	}

	removals, err := uc.Quorum.ListRequests(ctx, entities.RequestFilter{
		Kind:       entities.RequestKindScoreRemoval,
		CategoryID: category.CategoryID,
		Status:     entities.RequestStatusApproved,
		TenantID:   category.TenantID,
	})
	if err != nil {
		return err
	}
	for _, removal := range removals {
		if removal.ExecutionCount == 0 {
			continue
		}
		if removal.Scope().Matches(entities.Score{
			CategoryID:   score.CategoryID,
			JudgeID:      score.JudgeID,
			ContestantID: score.ContestantID,
		}) {
			return nil
		}
	}
	return domainerrors.ErrCategoryLocked
}
