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

type CreateRequestCommand struct {
	Kind         entities.RequestKind
	JudgeID      string
	CategoryID   string
	ContestantID string
	Reason       string
	Actor        entities.Actor
}

type SignRequestCommand struct {
	RequestID     string
	Actor         entities.Actor
	SignatureName string
}

type SignRequestResult struct {
	Request   entities.QuorumRequest
	AllSigned bool
}

type RejectRequestCommand struct {
	RequestID string
	Actor     entities.Actor
	Reason    string
}

// ExecuteRequestCommand runs an approved request. TenantID, when set, scopes
// the lookup.
type ExecuteRequestCommand struct {
	RequestID string
	TenantID  string
}

type ExecutionResult struct {
	Request entities.QuorumRequest
	// Affected counts rows changed by this call only; retries report zero.
	Affected int
}

// QuorumUseCase runs the three-party co-signature workflow for score removal
// and judge uncertification.
type QuorumUseCase struct {
	Catalog ports.CatalogReader
	Quorum  ports.QuorumRepository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Metrics ports.Metrics
	Logger  *slog.Logger
}

func (uc QuorumUseCase) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (entities.QuorumRequest, error) {
	logger := application.ResolveLogger(uc.Logger)
	judgeID := strings.TrimSpace(cmd.JudgeID)
	categoryID := strings.TrimSpace(cmd.CategoryID)
	if !cmd.Kind.Valid() || judgeID == "" || categoryID == "" || strings.TrimSpace(cmd.Actor.UserID) == "" {
		logger.Warn("quorum request validation failed",
			"event", "judging_request_create_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"kind", string(cmd.Kind),
			"judge_id", judgeID,
			"category_id", categoryID,
		)
		return entities.QuorumRequest{}, domainerrors.ErrInvalidInput
	}
	if !services.IsAuthorizedFor(services.ActionCreateQuorumRequest, cmd.Actor.Role) {
		return entities.QuorumRequest{}, domainerrors.ErrRoleForbidden
	}

	judge, err := uc.Catalog.GetJudge(ctx, judgeID)
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	if !cmd.Actor.InTenant(judge.TenantID) {
		return entities.QuorumRequest{}, domainerrors.ErrJudgeNotFound
	}
	category, err := uc.Catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	if !cmd.Actor.InTenant(category.TenantID) {
		return entities.QuorumRequest{}, domainerrors.ErrCategoryNotFound
	}

	now := resolveNow(uc.Clock)
	requestID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	request := entities.QuorumRequest{
		RequestID:       requestID,
		Kind:            cmd.Kind,
		TenantID:        strings.TrimSpace(cmd.Actor.TenantID),
		JudgeID:         judgeID,
		CategoryID:      categoryID,
		ContestantID:    strings.TrimSpace(cmd.ContestantID),
		Reason:          strings.TrimSpace(cmd.Reason),
		RequestedBy:     strings.TrimSpace(cmd.Actor.UserID),
		RequestedByRole: cmd.Actor.Role,
		Status:          entities.RequestStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	events := envelopeBuilder{idGen: uc.IDGen, categoryID: categoryID, occurredAt: now}
	if err := events.add(ctx, EventRequestCreated, requestEventData(request)); err != nil {
		return entities.QuorumRequest{}, err
	}
	if err := uc.Quorum.CreateRequest(ctx, request, events.events); err != nil {
		return entities.QuorumRequest{}, err
	}

	logger.Info("quorum request created",
		"event", "judging_request_created",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", request.RequestID,
		"kind", string(request.Kind),
		"judge_id", request.JudgeID,
		"category_id", request.CategoryID,
	)
	return request, nil
}

// SignRequest fills the actor role's slot as one atomic read-modify-write; the
// third signature approves the request in the same update.
func (uc QuorumUseCase) SignRequest(ctx context.Context, cmd SignRequestCommand) (SignRequestResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	requestID := strings.TrimSpace(cmd.RequestID)
	signerID := strings.TrimSpace(cmd.Actor.UserID)
	if requestID == "" || signerID == "" {
		return SignRequestResult{}, domainerrors.ErrInvalidInput
	}

	var kind entities.RequestKind
	request, err := uc.Quorum.UpdateRequest(ctx, requestID, func(current entities.QuorumRequest) (entities.QuorumRequest, []ports.EventEnvelope, error) {
		kind = current.Kind
		if !cmd.Actor.InTenant(current.TenantID) {
			return current, nil, domainerrors.ErrRequestNotFound
		}
		now := resolveNow(uc.Clock)
		signatureName := signatureNameOrUser(cmd.SignatureName, signerID)
		next, err := services.ApplySignature(current, cmd.Actor.Role, entities.QuorumSignature{
			SignerID:      signerID,
			SignatureName: signatureName,
			Fingerprint:   services.QuorumSignatureFingerprint(current.RequestID, cmd.Actor.Role, signerID, signatureName, now),
			SignedAt:      now,
		}, now)
		if err != nil {
			return current, nil, err
		}

		events := envelopeBuilder{idGen: uc.IDGen, categoryID: next.CategoryID, occurredAt: now}
		if err := events.add(ctx, EventRequestSigned, map[string]any{
			"request_id": next.RequestID,
			"kind":       string(next.Kind),
			"role":       string(cmd.Actor.Role),
			"signer_id":  signerID,
		}); err != nil {
			return current, nil, err
		}
		if next.Status == entities.RequestStatusApproved {
			if err := events.add(ctx, EventRequestApproved, requestEventData(next)); err != nil {
				return current, nil, err
			}
		}
		return next, events.events, nil
	})
	application.ResolveMetrics(uc.Metrics).ObserveSignature(string(kind), string(cmd.Actor.Role), outcomeLabel(err))
	if err != nil {
		logger.Warn("quorum signature rejected",
			"event", "judging_request_sign_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"request_id", requestID,
			"role", string(cmd.Actor.Role),
			"error", err.Error(),
		)
		return SignRequestResult{}, err
	}

	allSigned := request.Status == entities.RequestStatusApproved
	logger.Info("quorum request signed",
		"event", "judging_request_signed",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", request.RequestID,
		"role", string(cmd.Actor.Role),
		"all_signed", allSigned,
	)
	return SignRequestResult{Request: request, AllSigned: allSigned}, nil
}

func (uc QuorumUseCase) RejectRequest(ctx context.Context, cmd RejectRequestCommand) (entities.QuorumRequest, error) {
	logger := application.ResolveLogger(uc.Logger)
	requestID := strings.TrimSpace(cmd.RequestID)
	actorID := strings.TrimSpace(cmd.Actor.UserID)
	if requestID == "" || actorID == "" {
		return entities.QuorumRequest{}, domainerrors.ErrInvalidInput
	}
	if !services.IsAuthorizedFor(services.ActionRejectQuorumRequest, cmd.Actor.Role) {
		return entities.QuorumRequest{}, domainerrors.ErrRoleForbidden
	}

	request, err := uc.Quorum.UpdateRequest(ctx, requestID, func(current entities.QuorumRequest) (entities.QuorumRequest, []ports.EventEnvelope, error) {
		if !cmd.Actor.InTenant(current.TenantID) {
			return current, nil, domainerrors.ErrRequestNotFound
		}
		now := resolveNow(uc.Clock)
		next, err := services.RejectRequest(current, actorID, strings.TrimSpace(cmd.Reason), now)
		if err != nil {
			return current, nil, err
		}
		events := envelopeBuilder{idGen: uc.IDGen, categoryID: next.CategoryID, occurredAt: now}
		if err := events.add(ctx, EventRequestRejected, requestEventData(next)); err != nil {
			return current, nil, err
		}
		return next, events.events, nil
	})
	if err != nil {
		return entities.QuorumRequest{}, err
	}

	logger.Info("quorum request rejected",
		"event", "judging_request_rejected",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", request.RequestID,
		"rejected_by", actorID,
	)
	return request, nil
}

// ExecuteRemoval deletes the scores an approved score-removal request covers.
func (uc QuorumUseCase) ExecuteRemoval(ctx context.Context, cmd ExecuteRequestCommand) (ExecutionResult, error) {
	return uc.execute(ctx, cmd, entities.RequestKindScoreRemoval)
}

// ExecuteUncertification clears isCertified on the scores an approved judge
// uncertification request covers.
func (uc QuorumUseCase) ExecuteUncertification(ctx context.Context, cmd ExecuteRequestCommand) (ExecutionResult, error) {
	return uc.execute(ctx, cmd, entities.RequestKindJudgeUncertification)
}

func (uc QuorumUseCase) execute(
	ctx context.Context,
	cmd ExecuteRequestCommand,
	kind entities.RequestKind,
) (ExecutionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return ExecutionResult{}, domainerrors.ErrInvalidInput
	}

	request, affected, err := uc.Quorum.ExecuteRequest(ctx, requestID,
		func(current entities.QuorumRequest) error {
			if strings.TrimSpace(cmd.TenantID) != "" && !entities.SameTenant(current.TenantID, cmd.TenantID) {
				return domainerrors.ErrRequestNotFound
			}
			if current.Kind != kind {
				return domainerrors.ErrInvalidInput
			}
			return services.EnsureExecutable(current)
		},
		func(current entities.QuorumRequest, affected int) (entities.QuorumRequest, []ports.EventEnvelope, error) {
			now := resolveNow(uc.Clock)
			next := services.RecordExecution(current, affected, now)
			events := envelopeBuilder{idGen: uc.IDGen, categoryID: next.CategoryID, occurredAt: now}
			data := requestEventData(next)
			data["affected"] = affected
			data["execution_count"] = next.ExecutionCount
			if err := events.add(ctx, EventRequestExecuted, data); err != nil {
				return current, nil, err
			}
			return next, events.events, nil
		},
	)
	if err != nil {
		logger.Warn("quorum request execution rejected",
			"event", "judging_request_execute_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"request_id", requestID,
			"kind", string(kind),
			"error", err.Error(),
		)
		return ExecutionResult{}, err
	}
	application.ResolveMetrics(uc.Metrics).ObserveExecution(string(kind), affected)

	logger.Info("quorum request executed",
		"event", "judging_request_executed",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", request.RequestID,
		"kind", string(kind),
		"affected", affected,
		"execution_count", request.ExecutionCount,
	)
	return ExecutionResult{Request: request, Affected: affected}, nil
}

func requestEventData(request entities.QuorumRequest) map[string]any {
	return map[string]any{
		"request_id":    request.RequestID,
		"kind":          string(request.Kind),
		"status":        string(request.Status),
		"judge_id":      request.JudgeID,
		"category_id":   request.CategoryID,
		"contestant_id": request.ContestantID,
		"requested_by":  request.RequestedBy,
	}
}
