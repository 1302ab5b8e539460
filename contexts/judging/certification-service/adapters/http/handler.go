package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "verdict/contexts/judging/certification-service/application"
	"verdict/contexts/judging/certification-service/application/commands"
	"verdict/contexts/judging/certification-service/application/queries"
	"verdict/contexts/judging/certification-service/application/workflow"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	httptransport "verdict/contexts/judging/certification-service/transport/http"
)

type Handler struct {
	Orchestrator workflow.Orchestrator
	Scoring      commands.ScoringUseCase
	Quorum       commands.QuorumUseCase
	Requests     queries.RequestsUseCase
	Logger       *slog.Logger
}

// SubmitScoreHandler godoc
// @Summary Submit a judge score
// @Description Records one score for a (judge, contestant, criterion) triple.
// @Tags judging-certification
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller user id"
// @Param X-User-Role header string true "Caller role"
// @Param X-Tenant-Id header string true "Caller tenant"
// @Param category_id path string true "Category id"
// @Param request body httptransport.SubmitScoreRequest true "Score"
// @Success 201 {object} httptransport.SubmitScoreResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/scores [post]
func (h Handler) SubmitScoreHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
	req httptransport.SubmitScoreRequest,
) (httptransport.SubmitScoreResponse, error) {
	score, err := h.Scoring.SubmitScore(ctx, commands.SubmitScoreCommand{
		CategoryID:   categoryID,
		JudgeID:      req.JudgeID,
		ContestantID: req.ContestantID,
		CriterionID:  req.CriterionID,
		Value:        req.Value,
		Comment:      req.Comment,
		Actor:        actor,
	})
	if err != nil {
		return httptransport.SubmitScoreResponse{}, err
	}
	return httptransport.SubmitScoreResponse{Item: httptransport.ScoreDTO{
		ScoreID:      score.ScoreID,
		JudgeID:      score.JudgeID,
		ContestantID: score.ContestantID,
		CategoryID:   score.CategoryID,
		CriterionID:  score.CriterionID,
		Value:        score.Value,
		Comment:      score.Comment,
		IsCertified:  score.IsCertified,
		CreatedAt:    formatTime(score.CreatedAt),
	}}, nil
}

// RecordDeductionHandler godoc
// @Summary Record an overall deduction
// @Description Subtracts a penalty from a contestant's category total.
// @Tags judging-certification
// @Accept json
// @Produce json
// @Param category_id path string true "Category id"
// @Param request body httptransport.RecordDeductionRequest true "Deduction"
// @Success 201 {object} httptransport.RecordDeductionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/deductions [post]
func (h Handler) RecordDeductionHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
	req httptransport.RecordDeductionRequest,
) (httptransport.RecordDeductionResponse, error) {
	deduction, err := h.Scoring.RecordDeduction(ctx, commands.RecordDeductionCommand{
		CategoryID:   categoryID,
		ContestantID: req.ContestantID,
		Amount:       req.Amount,
		Reason:       req.Reason,
		Actor:        actor,
	})
	if err != nil {
		return httptransport.RecordDeductionResponse{}, err
	}
	return httptransport.RecordDeductionResponse{Item: httptransport.DeductionDTO{
		DeductionID:  deduction.DeductionID,
		ContestantID: deduction.ContestantID,
		CategoryID:   deduction.CategoryID,
		Amount:       deduction.Amount,
		Reason:       deduction.Reason,
		RecordedBy:   deduction.RecordedBy,
		CreatedAt:    formatTime(deduction.CreatedAt),
	}}, nil
}

// CertifyCategoryHandler godoc
// @Summary Certify category scores for the caller's role
// @Description Claims the (category, role) certification slot and returns updated progress.
// @Tags judging-certification
// @Accept json
// @Produce json
// @Param category_id path string true "Category id"
// @Param request body httptransport.CertifyCategoryRequest true "Signature"
// @Success 201 {object} httptransport.CertifyCategoryResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/certify [post]
func (h Handler) CertifyCategoryHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
	req httptransport.CertifyCategoryRequest,
) (httptransport.CertifyCategoryResponse, error) {
	result, err := h.Orchestrator.CertifyScores(ctx, commands.CertifyCategoryCommand{
		CategoryID:    categoryID,
		Actor:         actor,
		SignatureName: req.SignatureName,
		Comments:      req.Comments,
	})
	if err != nil {
		return httptransport.CertifyCategoryResponse{}, err
	}
	return httptransport.CertifyCategoryResponse{
		Certification: mapCategoryCertification(result.Certification),
		Progress:      mapProgress(result.Progress),
	}, nil
}

// SignWinnersHandler godoc
// @Summary Sign category winners
// @Description Records the caller's winner sign-off with an audit fingerprint.
// @Tags judging-certification
// @Accept json
// @Produce json
// @Param category_id path string true "Category id"
// @Param request body httptransport.SignWinnersRequest true "Signature"
// @Success 201 {object} httptransport.SignWinnersResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/sign-winners [post]
func (h Handler) SignWinnersHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
	req httptransport.SignWinnersRequest,
	ipAddress string,
	userAgent string,
) (httptransport.SignWinnersResponse, error) {
	result, err := h.Orchestrator.SignWinners(ctx, commands.SignWinnersCommand{
		CategoryID:    categoryID,
		Actor:         actor,
		SignatureName: req.SignatureName,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
	if err != nil {
		return httptransport.SignWinnersResponse{}, err
	}
	return httptransport.SignWinnersResponse{
		Signature:       result.Signature,
		CertificationID: result.CertificationID,
		Certification:   mapCategoryCertification(result.Certification),
	}, nil
}

// CertifyJudgeScoresHandler godoc
// @Summary Certify a judge's own scores
// @Tags judging-certification
// @Accept json
// @Produce json
// @Param category_id path string true "Category id"
// @Param judge_id path string true "Judge id"
// @Param request body httptransport.CertifyJudgeScoresRequest true "Signature"
// @Success 201 {object} httptransport.CertifyJudgeScoresResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/judges/{judge_id}/certify [post]
func (h Handler) CertifyJudgeScoresHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
	judgeID string,
	req httptransport.CertifyJudgeScoresRequest,
) (httptransport.CertifyJudgeScoresResponse, error) {
	result, err := h.Orchestrator.CertifyJudgeScores(ctx, commands.CertifyJudgeScoresCommand{
		CategoryID:    categoryID,
		JudgeID:       judgeID,
		Actor:         actor,
		SignatureName: req.SignatureName,
	})
	if err != nil {
		return httptransport.CertifyJudgeScoresResponse{}, err
	}
	return httptransport.CertifyJudgeScoresResponse{
		Certification:   mapJudgeCertification(result.Certification),
		ScoresCertified: result.ScoresCertified,
	}, nil
}

// ProgressHandler godoc
// @Summary Certification progress of a category
// @Tags judging-certification
// @Produce json
// @Param category_id path string true "Category id"
// @Success 200 {object} httptransport.ProgressResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/categories/{category_id}/progress [get]
func (h Handler) ProgressHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
) (httptransport.ProgressResponse, error) {
	progress, err := h.Orchestrator.CertificationProgress(ctx, categoryID, actor)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return httptransport.ProgressResponse{Progress: mapProgress(progress)}, nil
}

// ListCertificationsHandler godoc
// @Summary List category and judge certifications
// @Tags judging-certification
// @Produce json
// @Param category_id path string true "Category id"
// @Success 200 {object} httptransport.ListCertificationsResponse
// @Router /api/judging/v1/categories/{category_id}/certifications [get]
func (h Handler) ListCertificationsHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
) (httptransport.ListCertificationsResponse, error) {
	listing, err := h.Orchestrator.ListCertifications(ctx, categoryID, actor)
	if err != nil {
		return httptransport.ListCertificationsResponse{}, err
	}
	resp := httptransport.ListCertificationsResponse{
		CategoryCertifications: make([]httptransport.CategoryCertificationDTO, 0, len(listing.CategoryCertifications)),
		JudgeCertifications:    make([]httptransport.JudgeCertificationDTO, 0, len(listing.JudgeCertifications)),
	}
	for _, item := range listing.CategoryCertifications {
		resp.CategoryCertifications = append(resp.CategoryCertifications, mapCategoryCertification(item))
	}
	for _, item := range listing.JudgeCertifications {
		resp.JudgeCertifications = append(resp.JudgeCertifications, mapJudgeCertification(item))
	}
	return resp, nil
}

// CategoryStandingsHandler godoc
// @Summary Ranked standings of a category
// @Description Contestant totals are withheld until the board has certified, except for ADMIN and BOARD callers.
// @Tags judging-certification
// @Produce json
// @Param category_id path string true "Category id"
// @Success 200 {object} httptransport.CategoryStandingsResponse
// @Router /api/judging/v1/categories/{category_id}/standings [get]
func (h Handler) CategoryStandingsHandler(
	ctx context.Context,
	actor entities.Actor,
	categoryID string,
) (httptransport.CategoryStandingsResponse, error) {
	standings, err := h.Orchestrator.CategoryStandings(ctx, categoryID, actor)
	if err != nil {
		return httptransport.CategoryStandingsResponse{}, err
	}
	return mapCategoryStandings(standings), nil
}

// ContestStandingsHandler godoc
// @Summary Combined standings across a contest's visible categories
// @Tags judging-certification
// @Produce json
// @Param contest_id path string true "Contest id"
// @Param breakdown query bool false "Include per-category breakdown"
// @Success 200 {object} httptransport.ContestStandingsResponse
// @Router /api/judging/v1/contests/{contest_id}/standings [get]
func (h Handler) ContestStandingsHandler(
	ctx context.Context,
	actor entities.Actor,
	contestID string,
	includeBreakdown bool,
) (httptransport.ContestStandingsResponse, error) {
	standings, err := h.Orchestrator.ContestStandings(ctx, contestID, actor, includeBreakdown)
	if err != nil {
		return httptransport.ContestStandingsResponse{}, err
	}
	return mapContestStandings(standings), nil
}

// EventStandingsHandler godoc
// @Summary Standings of every contest in an event
// @Tags judging-certification
// @Produce json
// @Param event_id path string true "Event id"
// @Param breakdown query bool false "Include per-category breakdown"
// @Success 200 {object} httptransport.EventStandingsResponse
// @Router /api/judging/v1/events/{event_id}/standings [get]
func (h Handler) EventStandingsHandler(
	ctx context.Context,
	actor entities.Actor,
	eventID string,
	includeBreakdown bool,
) (httptransport.EventStandingsResponse, error) {
	standings, err := h.Orchestrator.EventStandings(ctx, eventID, actor, includeBreakdown)
	if err != nil {
		return httptransport.EventStandingsResponse{}, err
	}
	resp := httptransport.EventStandingsResponse{
		EventID:         standings.EventID,
		Contests:        make([]httptransport.ContestStandingsResponse, 0, len(standings.Contests)),
		ContestsSkipped: make([]httptransport.SkippedDTO, 0, len(standings.ContestsSkipped)),
	}
	for _, contest := range standings.Contests {
		resp.Contests = append(resp.Contests, mapContestStandings(contest))
	}
	for _, skipped := range standings.ContestsSkipped {
		resp.ContestsSkipped = append(resp.ContestsSkipped, httptransport.SkippedDTO{
			ID:     skipped.ContestID,
			Reason: skipped.Reason,
		})
	}
	return resp, nil
}

// CreateRequestHandler godoc
// @Summary Open a quorum request
// @Description Starts a score removal or judge uncertification needing AUDITOR, TALLY_MASTER and BOARD signatures.
// @Tags judging-quorum
// @Accept json
// @Produce json
// @Param request body httptransport.CreateRequestRequest true "Request"
// @Success 201 {object} httptransport.RequestResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests [post]
func (h Handler) CreateRequestHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateRequestRequest,
) (httptransport.RequestResponse, error) {
	request, err := h.Quorum.CreateRequest(ctx, commands.CreateRequestCommand{
		Kind:         entities.RequestKind(req.Kind),
		JudgeID:      req.JudgeID,
		CategoryID:   req.CategoryID,
		ContestantID: req.ContestantID,
		Reason:       req.Reason,
		Actor:        actor,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Item: mapRequest(request)}, nil
}

// GetRequestHandler godoc
// @Summary Get a quorum request
// @Tags judging-quorum
// @Produce json
// @Param request_id path string true "Request id"
// @Success 200 {object} httptransport.RequestResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests/{request_id} [get]
func (h Handler) GetRequestHandler(
	ctx context.Context,
	actor entities.Actor,
	requestID string,
) (httptransport.RequestResponse, error) {
	request, err := h.Requests.GetRequest(ctx, requestID, actor.TenantID)
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Item: mapRequest(request)}, nil
}

// ListRequestsHandler godoc
// @Summary List quorum requests of the caller's tenant
// @Tags judging-quorum
// @Produce json
// @Param kind query string false "SCORE_REMOVAL or JUDGE_UNCERTIFICATION"
// @Param category_id query string false "Category id"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} httptransport.ListRequestsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests [get]
func (h Handler) ListRequestsHandler(
	ctx context.Context,
	actor entities.Actor,
	kind string,
	categoryID string,
	status string,
) (httptransport.ListRequestsResponse, error) {
	requests, err := h.Requests.ListRequests(ctx, entities.RequestFilter{
		Kind:       entities.RequestKind(kind),
		CategoryID: categoryID,
		Status:     entities.RequestStatus(status),
		TenantID:   actor.TenantID,
	})
	if err != nil {
		return httptransport.ListRequestsResponse{}, err
	}
	items := make([]httptransport.QuorumRequestDTO, 0, len(requests))
	for _, request := range requests {
		items = append(items, mapRequest(request))
	}
	return httptransport.ListRequestsResponse{Items: items}, nil
}

// SignRequestHandler godoc
// @Summary Co-sign a quorum request
// @Description Fills the caller role's signature slot; the third signature approves the request.
// @Tags judging-quorum
// @Accept json
// @Produce json
// @Param request_id path string true "Request id"
// @Param request body httptransport.SignRequestRequest true "Signature"
// @Success 200 {object} httptransport.SignRequestResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests/{request_id}/sign [post]
func (h Handler) SignRequestHandler(
	ctx context.Context,
	actor entities.Actor,
	requestID string,
	req httptransport.SignRequestRequest,
) (httptransport.SignRequestResponse, error) {
	result, err := h.Quorum.SignRequest(ctx, commands.SignRequestCommand{
		RequestID:     requestID,
		Actor:         actor,
		SignatureName: req.SignatureName,
	})
	if err != nil {
		return httptransport.SignRequestResponse{}, err
	}
	return httptransport.SignRequestResponse{
		Item:      mapRequest(result.Request),
		AllSigned: result.AllSigned,
	}, nil
}

// RejectRequestHandler godoc
// @Summary Reject a pending quorum request
// @Tags judging-quorum
// @Accept json
// @Produce json
// @Param request_id path string true "Request id"
// @Param request body httptransport.RejectRequestRequest true "Reason"
// @Success 200 {object} httptransport.RequestResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests/{request_id}/reject [post]
func (h Handler) RejectRequestHandler(
	ctx context.Context,
	actor entities.Actor,
	requestID string,
	req httptransport.RejectRequestRequest,
) (httptransport.RequestResponse, error) {
	request, err := h.Quorum.RejectRequest(ctx, commands.RejectRequestCommand{
		RequestID: requestID,
		Actor:     actor,
		Reason:    req.Reason,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Item: mapRequest(request)}, nil
}

// ExecuteRequestHandler godoc
// @Summary Execute an approved quorum request
// @Description Deletes or uncertifies the scores the request names. Repeating the call affects nothing.
// @Tags judging-quorum
// @Produce json
// @Param request_id path string true "Request id"
// @Success 200 {object} httptransport.ExecuteRequestResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/judging/v1/requests/{request_id}/execute [post]
func (h Handler) ExecuteRequestHandler(
	ctx context.Context,
	actor entities.Actor,
	requestID string,
) (httptransport.ExecuteRequestResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	request, err := h.Requests.GetRequest(ctx, requestID, actor.TenantID)
	if err != nil {
		return httptransport.ExecuteRequestResponse{}, err
	}

	cmd := commands.ExecuteRequestCommand{RequestID: request.RequestID, TenantID: actor.TenantID}
	var result commands.ExecutionResult
	switch request.Kind {
	case entities.RequestKindScoreRemoval:
		result, err = h.Quorum.ExecuteRemoval(ctx, cmd)
	case entities.RequestKindJudgeUncertification:
		result, err = h.Quorum.ExecuteUncertification(ctx, cmd)
	default:
		err = domainerrors.ErrInvalidInput
	}
	if err != nil {
		return httptransport.ExecuteRequestResponse{}, err
	}

	logger.Info("quorum request executed over http",
		"event", "http_judging_request_executed",
		"module", application.ModuleName,
		"layer", "transport",
		"request_id", request.RequestID,
		"user_id", actor.UserID,
		"affected", result.Affected,
	)
	return httptransport.ExecuteRequestResponse{
		Item:     mapRequest(result.Request),
		Affected: result.Affected,
	}, nil
}

func mapCategoryCertification(item entities.CategoryCertification) httptransport.CategoryCertificationDTO {
	return httptransport.CategoryCertificationDTO{
		CertificationID: item.CertificationID,
		CategoryID:      item.CategoryID,
		Role:            string(item.Role),
		UserID:          item.UserID,
		SignatureName:   item.SignatureName,
		Signature:       item.Signature,
		IPAddress:       item.IPAddress,
		UserAgent:       item.UserAgent,
		Comments:        item.Comments,
		CertifiedAt:     formatTime(item.CertifiedAt),
	}
}

func mapJudgeCertification(item entities.JudgeCertification) httptransport.JudgeCertificationDTO {
	return httptransport.JudgeCertificationDTO{
		CertificationID: item.CertificationID,
		CategoryID:      item.CategoryID,
		JudgeID:         item.JudgeID,
		UserID:          item.UserID,
		SignatureName:   item.SignatureName,
		CertifiedAt:     formatTime(item.CertifiedAt),
		RevokedAt:       formatOptionalTime(item.RevokedAt),
		RevokedBy:       item.RevokedBy,
	}
}

func mapProgress(progress entities.CertificationProgress) httptransport.ProgressDTO {
	return httptransport.ProgressDTO{
		CategoryID:           progress.CategoryID,
		RolesCertified:       roleNames(progress.RolesCertified),
		RolesRemaining:       roleNames(progress.RolesRemaining),
		Percent:              progress.Percent,
		FullyCertified:       progress.FullyCertified,
		TallyTotalsCertified: progress.TallyTotalsCertified,
		State:                string(progress.State),
		CurrentStep:          progress.CurrentStep,
	}
}

func mapCategoryStandings(standings entities.CategoryStandings) httptransport.CategoryStandingsResponse {
	contestants := make([]httptransport.ContestantStandingDTO, 0, len(standings.Contestants))
	for _, item := range standings.Contestants {
		contestants = append(contestants, httptransport.ContestantStandingDTO{
			ContestantID: item.ContestantID,
			RawTotal:     item.RawTotal,
			Deduction:    item.Deduction,
			TotalScore:   item.TotalScore,
			JudgeIDs:     append([]string{}, item.JudgeIDs...),
			Rank:         item.Rank,
		})
	}
	return httptransport.CategoryStandingsResponse{
		CategoryID:         standings.CategoryID,
		ContestID:          standings.ContestID,
		CategoryName:       standings.CategoryName,
		Contestants:        contestants,
		TotalPossibleScore: standings.TotalPossibleScore,
		CanShowWinners:     standings.CanShowWinners,
		AllSigned:          standings.AllSigned,
		BoardSigned:        standings.BoardSigned,
		Redacted:           standings.Redacted,
	}
}

func mapContestStandings(standings entities.ContestStandings) httptransport.ContestStandingsResponse {
	contestants := make([]httptransport.ContestantTotalDTO, 0, len(standings.Contestants))
	for _, item := range standings.Contestants {
		var breakdown []httptransport.CategoryBreakdownDTO
		for _, entry := range item.Breakdown {
			breakdown = append(breakdown, httptransport.CategoryBreakdownDTO{
				CategoryID:         entry.CategoryID,
				CategoryName:       entry.CategoryName,
				TotalScore:         entry.TotalScore,
				TotalPossibleScore: entry.TotalPossibleScore,
			})
		}
		contestants = append(contestants, httptransport.ContestantTotalDTO{
			ContestantID:           item.ContestantID,
			TotalScore:             item.TotalScore,
			TotalPossibleScore:     item.TotalPossibleScore,
			CategoriesParticipated: item.CategoriesParticipated,
			Rank:                   item.Rank,
			Breakdown:              breakdown,
		})
	}
	skipped := make([]httptransport.SkippedDTO, 0, len(standings.CategoriesSkipped))
	for _, item := range standings.CategoriesSkipped {
		skipped = append(skipped, httptransport.SkippedDTO{ID: item.CategoryID, Reason: item.Reason})
	}
	return httptransport.ContestStandingsResponse{
		ContestID:          standings.ContestID,
		EventID:            standings.EventID,
		ContestName:        standings.ContestName,
		Contestants:        contestants,
		CategoriesIncluded: append([]string{}, standings.CategoriesIncluded...),
		CategoriesHidden:   append([]string{}, standings.CategoriesHidden...),
		CategoriesSkipped:  skipped,
	}
}

func mapRequest(request entities.QuorumRequest) httptransport.QuorumRequestDTO {
	return httptransport.QuorumRequestDTO{
		RequestID:        request.RequestID,
		Kind:             string(request.Kind),
		JudgeID:          request.JudgeID,
		CategoryID:       request.CategoryID,
		ContestantID:     request.ContestantID,
		Reason:           request.Reason,
		RequestedBy:      request.RequestedBy,
		RequestedByRole:  string(request.RequestedByRole),
		Status:           string(request.Status),
		AuditorSignature: mapSignature(request.AuditorSignature),
		TallySignature:   mapSignature(request.TallySignature),
		BoardSignature:   mapSignature(request.BoardSignature),
		RejectedBy:       request.RejectedBy,
		RejectedReason:   request.RejectedReason,
		RejectedAt:       formatOptionalTime(request.RejectedAt),
		ExecutedAt:       formatOptionalTime(request.ExecutedAt),
		ExecutionCount:   request.ExecutionCount,
		AffectedTotal:    request.AffectedTotal,
		CreatedAt:        formatTime(request.CreatedAt),
		UpdatedAt:        formatTime(request.UpdatedAt),
	}
}

func mapSignature(signature *entities.QuorumSignature) *httptransport.QuorumSignatureDTO {
	if signature == nil {
		return nil
	}
	return &httptransport.QuorumSignatureDTO{
		SignerID:      signature.SignerID,
		SignatureName: signature.SignatureName,
		Fingerprint:   signature.Fingerprint,
		SignedAt:      formatTime(signature.SignedAt),
	}
}

func roleNames(roles []entities.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return names
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return formatTime(*value)
}
