package commands

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
)

// CertifyCategoryCommand is one role's sign-off on a category's scores.
type CertifyCategoryCommand struct {
	CategoryID    string
	Actor         entities.Actor
	SignatureName string
	Comments      string
}

// SignWinnersCommand is a sign-off carrying request audit data.
type SignWinnersCommand struct {
	CategoryID    string
	Actor         entities.Actor
	SignatureName string
	IPAddress     string
	UserAgent     string
}

type SignWinnersResult struct {
	Signature       string
	CertificationID string
	Certification   entities.CategoryCertification
}

// CertifyJudgeScoresCommand is a judge attesting their own scores.
type CertifyJudgeScoresCommand struct {
	CategoryID    string
	JudgeID       string
	Actor         entities.Actor
	SignatureName string
}

type CertifyJudgeScoresResult struct {
	Certification   entities.JudgeCertification
	ScoresCertified int
}

// CertificationUseCase owns writes to the certification ledger.
type CertificationUseCase struct {
	Catalog ports.CatalogReader
	Scores  ports.ScoreRepository
	Ledger  ports.CertificationLedger
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Metrics ports.Metrics
	Logger  *slog.Logger
}

// Certify records role's certification of a category. Checks run in order:
// category exists, role may certify, the category has valued scores, and the
// (category, role) slot is free.
func (uc CertificationUseCase) Certify(
	ctx context.Context,
	cmd CertifyCategoryCommand,
) (entities.CategoryCertification, error) {
	logger := application.ResolveLogger(uc.Logger)
	certification, err := uc.certify(ctx, cmd)
	application.ResolveMetrics(uc.Metrics).ObserveCertification(string(cmd.Actor.Role), outcomeLabel(err))
	if err != nil {
		logger.Warn("category certification rejected",
			"event", "judging_category_certify_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"category_id", strings.TrimSpace(cmd.CategoryID),
			"user_id", strings.TrimSpace(cmd.Actor.UserID),
			"role", string(cmd.Actor.Role),
			"error", err.Error(),
		)
		return entities.CategoryCertification{}, err
	}
	logger.Info("category certified",
		"event", "judging_category_certified",
		"module", application.ModuleName,
		"layer", "application",
		"category_id", certification.CategoryID,
		"certification_id", certification.CertificationID,
		"user_id", certification.UserID,
		"role", string(certification.Role),
	)
	return certification, nil
}

func (uc CertificationUseCase) certify(
	ctx context.Context,
	cmd CertifyCategoryCommand,
) (entities.CategoryCertification, error) {
	categoryID := strings.TrimSpace(cmd.CategoryID)
	userID := strings.TrimSpace(cmd.Actor.UserID)
	if categoryID == "" || userID == "" {
		return entities.CategoryCertification{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.CategoryCertification{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return entities.CategoryCertification{}, domainerrors.ErrCategoryNotFound
	}
	if !services.IsAuthorizedFor(services.ActionCertifyCategory, cmd.Actor.Role) {
		return entities.CategoryCertification{}, domainerrors.ErrRoleForbidden
	}
	if err := uc.ensureCertifiableScores(ctx, categoryID, ""); err != nil {
		return entities.CategoryCertification{}, err
	}

	now := resolveNow(uc.Clock)
	certification, err := uc.newCertification(ctx, category.CategoryID, cmd.Actor, cmd.SignatureName, now)
	if err != nil {
		return entities.CategoryCertification{}, err
	}
	certification.Comments = strings.TrimSpace(cmd.Comments)
	certification.Signature = services.WinnerSignature(userID, categoryID, cmd.Actor.Role, now, "", "")

	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventCategoryCertified, certificationEventData(certification)); err != nil {
		return entities.CategoryCertification{}, err
	}
	return uc.Ledger.InsertCategoryCertification(ctx, uc.ledgerWrite(certification, now, events.events))
}

// SignWinners records a fingerprinted winners sign-off. A user may sign a
// category once per role; the ledger's (category, role) slot still applies.
func (uc CertificationUseCase) SignWinners(ctx context.Context, cmd SignWinnersCommand) (SignWinnersResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	result, err := uc.signWinners(ctx, cmd)
	application.ResolveMetrics(uc.Metrics).ObserveSignature("winners", string(cmd.Actor.Role), outcomeLabel(err))
	if err != nil {
		logger.Warn("winners signature rejected",
			"event", "judging_winners_sign_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"category_id", strings.TrimSpace(cmd.CategoryID),
			"user_id", strings.TrimSpace(cmd.Actor.UserID),
			"role", string(cmd.Actor.Role),
			"error", err.Error(),
		)
		return SignWinnersResult{}, err
	}
	logger.Info("winners signed",
		"event", "judging_winners_signed",
		"module", application.ModuleName,
		"layer", "application",
		"category_id", result.Certification.CategoryID,
		"certification_id", result.CertificationID,
		"role", string(result.Certification.Role),
	)
	return result, nil
}

func (uc CertificationUseCase) signWinners(ctx context.Context, cmd SignWinnersCommand) (SignWinnersResult, error) {
	categoryID := strings.TrimSpace(cmd.CategoryID)
	userID := strings.TrimSpace(cmd.Actor.UserID)
	if categoryID == "" || userID == "" {
		return SignWinnersResult{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return SignWinnersResult{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return SignWinnersResult{}, domainerrors.ErrCategoryNotFound
	}
	if !services.IsAuthorizedFor(services.ActionSignWinners, cmd.Actor.Role) {
		return SignWinnersResult{}, domainerrors.ErrRoleForbidden
	}

	existing, err := uc.Ledger.ListCategoryCertifications(ctx, categoryID)
	if err != nil {
		return SignWinnersResult{}, err
	}
	for _, certification := range existing {
		if certification.Role == cmd.Actor.Role && certification.UserID == userID {
			return SignWinnersResult{}, domainerrors.ErrWinnersAlreadySigned
		}
	}

	now := resolveNow(uc.Clock)
	certification, err := uc.newCertification(ctx, categoryID, cmd.Actor, cmd.SignatureName, now)
	if err != nil {
		return SignWinnersResult{}, err
	}
	certification.IPAddress = strings.TrimSpace(cmd.IPAddress)
	certification.UserAgent = strings.TrimSpace(cmd.UserAgent)
	certification.Signature = services.WinnerSignature(
		userID,
		categoryID,
		cmd.Actor.Role,
		now,
		certification.IPAddress,
		certification.UserAgent,
	)

	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventWinnersSigned, certificationEventData(certification)); err != nil {
		return SignWinnersResult{}, err
	}
	stored, err := uc.Ledger.InsertCategoryCertification(ctx, uc.ledgerWrite(certification, now, events.events))
	if err != nil {
		return SignWinnersResult{}, err
	}
	return SignWinnersResult{
		Signature:       stored.Signature,
		CertificationID: stored.CertificationID,
		Certification:   stored,
	}, nil
}

// CertifyJudgeScores records a judge's attestation and marks their scores in
// the category certified.
func (uc CertificationUseCase) CertifyJudgeScores(
	ctx context.Context,
	cmd CertifyJudgeScoresCommand,
) (CertifyJudgeScoresResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	result, err := uc.certifyJudgeScores(ctx, cmd)
	application.ResolveMetrics(uc.Metrics).ObserveCertification(string(entities.RoleJudge), outcomeLabel(err))
	if err != nil {
		logger.Warn("judge certification rejected",
			"event", "judging_judge_certify_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"category_id", strings.TrimSpace(cmd.CategoryID),
			"judge_id", strings.TrimSpace(cmd.JudgeID),
			"user_id", strings.TrimSpace(cmd.Actor.UserID),
			"error", err.Error(),
		)
		return CertifyJudgeScoresResult{}, err
	}
	logger.Info("judge certified scores",
		"event", "judging_judge_certified",
		"module", application.ModuleName,
		"layer", "application",
		"category_id", result.Certification.CategoryID,
		"judge_id", result.Certification.JudgeID,
		"scores_certified", result.ScoresCertified,
	)
	return result, nil
}

func (uc CertificationUseCase) certifyJudgeScores(
	ctx context.Context,
	cmd CertifyJudgeScoresCommand,
) (CertifyJudgeScoresResult, error) {
	categoryID := strings.TrimSpace(cmd.CategoryID)
	judgeID := strings.TrimSpace(cmd.JudgeID)
	userID := strings.TrimSpace(cmd.Actor.UserID)
	if categoryID == "" || judgeID == "" || userID == "" {
		return CertifyJudgeScoresResult{}, domainerrors.ErrInvalidInput
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return CertifyJudgeScoresResult{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return CertifyJudgeScoresResult{}, domainerrors.ErrCategoryNotFound
	}
	judge, err := uc.Catalog.GetJudge(ctx, judgeID)
	if err != nil {
		return CertifyJudgeScoresResult{}, err
	}
	if !cmd.Actor.InTenant(judge.TenantID) {
		return CertifyJudgeScoresResult{}, domainerrors.ErrJudgeNotFound
	}
	if !services.IsAuthorizedFor(services.ActionCertifyJudgeScores, cmd.Actor.Role) {
		return CertifyJudgeScoresResult{}, domainerrors.ErrRoleForbidden
	}
	if cmd.Actor.Role == entities.RoleJudge && judge.UserID != userID {
		return CertifyJudgeScoresResult{}, domainerrors.ErrRoleForbidden
	}
	if err := uc.ensureCertifiableScores(ctx, categoryID, judgeID); err != nil {
		return CertifyJudgeScoresResult{}, err
	}

	now := resolveNow(uc.Clock)
	certificationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CertifyJudgeScoresResult{}, err
	}
	certification := entities.JudgeCertification{
		CertificationID: certificationID,
		CategoryID:      categoryID,
		JudgeID:         judgeID,
		UserID:          userID,
		SignatureName:   signatureNameOrUser(cmd.SignatureName, userID),
		CertifiedAt:     now,
	}
	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventJudgeCertified, map[string]any{
		"certification_id": certification.CertificationID,
		"category_id":      certification.CategoryID,
		"judge_id":         certification.JudgeID,
		"user_id":          certification.UserID,
	}); err != nil {
		return CertifyJudgeScoresResult{}, err
	}

	stored, affected, err := uc.Ledger.InsertJudgeCertification(ctx, ports.JudgeCertificationWrite{
		Certification: certification,
		Workflow: func(existing entities.CategoryWorkflow, found bool) entities.CategoryWorkflow {
			if !found {
				return services.StartWorkflow(categoryID, now)
			}
			return services.AdvanceWorkflow(existing, entities.RoleJudge, now)
		},
		Events: events.events,
	})
	if err != nil {
		return CertifyJudgeScoresResult{}, err
	}
	return CertifyJudgeScoresResult{Certification: stored, ScoresCertified: affected}, nil
}

// ensureCertifiableScores requires at least one valued score in the category,
// optionally restricted to one judge.
func (uc CertificationUseCase) ensureCertifiableScores(ctx context.Context, categoryID string, judgeID string) error {
	scores, err := uc.Scores.ListScores(ctx, categoryID)
	if err != nil {
		return err
	}
	for _, score := range scores {
		if !score.HasValue() {
			continue
		}
		if judgeID == "" || score.JudgeID == judgeID {
			return nil
		}
	}
	return domainerrors.ErrNoScoresToCertify
}

func (uc CertificationUseCase) newCertification(
	ctx context.Context,
	categoryID string,
	actor entities.Actor,
	signatureName string,
	now time.Time,
) (entities.CategoryCertification, error) {
	certificationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.CategoryCertification{}, err
	}
	userID := strings.TrimSpace(actor.UserID)
	return entities.CategoryCertification{
		CertificationID: certificationID,
		CategoryID:      categoryID,
		Role:            actor.Role,
		UserID:          userID,
		SignatureName:   signatureNameOrUser(signatureName, userID),
		CertifiedAt:     now,
	}, nil
}

func (uc CertificationUseCase) ledgerWrite(
	certification entities.CategoryCertification,
	now time.Time,
	events []ports.EventEnvelope,
) ports.CertificationWrite {
	role := certification.Role
	return ports.CertificationWrite{
		Certification: certification,
		Advance: func(workflow entities.CategoryWorkflow) entities.CategoryWorkflow {
			// Judges advance the workflow through CertifyJudgeScores only.
			if role == entities.RoleJudge {
				return workflow
			}
			return services.AdvanceWorkflow(workflow, role, now)
		},
		MarkTallyTotals: role == entities.RoleTallyMaster,
		Events:          events,
	}
}

func certificationEventData(certification entities.CategoryCertification) map[string]any {
	return map[string]any{
		"certification_id": certification.CertificationID,
		"category_id":      certification.CategoryID,
		"role":             string(certification.Role),
		"user_id":          certification.UserID,
		"signature":        certification.Signature,
		"certified_at":     certification.CertifiedAt.UTC(),
	}
}

func signatureNameOrUser(signatureName string, userID string) string {
	if trimmed := strings.TrimSpace(signatureName); trimmed != "" {
		return trimmed
	}
	return userID
}
