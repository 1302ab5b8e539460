package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	judgingerrors "verdict/contexts/judging/certification-service/domain/errors"
	judginghttp "verdict/contexts/judging/certification-service/transport/http"
)

const judgingPrefix = "/api/judging/v1"

func (s *Server) registerJudgingRoutes() {
	s.mux.HandleFunc("POST "+judgingPrefix+"/categories/{category_id}/scores", s.handleSubmitScore)
	s.mux.HandleFunc("POST "+judgingPrefix+"/categories/{category_id}/deductions", s.handleRecordDeduction)
	s.mux.HandleFunc("POST "+judgingPrefix+"/categories/{category_id}/certify", s.handleCertifyCategory)
	s.mux.HandleFunc("POST "+judgingPrefix+"/categories/{category_id}/sign-winners", s.handleSignWinners)
	s.mux.HandleFunc("POST "+judgingPrefix+"/categories/{category_id}/judges/{judge_id}/certify", s.handleCertifyJudgeScores)
	s.mux.HandleFunc("GET "+judgingPrefix+"/categories/{category_id}/progress", s.handleProgress)
	s.mux.HandleFunc("GET "+judgingPrefix+"/categories/{category_id}/certifications", s.handleListCertifications)
	s.mux.HandleFunc("GET "+judgingPrefix+"/categories/{category_id}/standings", s.handleCategoryStandings)
	s.mux.HandleFunc("GET "+judgingPrefix+"/contests/{contest_id}/standings", s.handleContestStandings)
	s.mux.HandleFunc("GET "+judgingPrefix+"/events/{event_id}/standings", s.handleEventStandings)

	s.mux.HandleFunc("POST "+judgingPrefix+"/requests", s.handleCreateRequest)
	s.mux.HandleFunc("GET "+judgingPrefix+"/requests", s.handleListRequests)
	s.mux.HandleFunc("GET "+judgingPrefix+"/requests/{request_id}", s.handleGetRequest)
	s.mux.HandleFunc("POST "+judgingPrefix+"/requests/{request_id}/sign", s.handleSignRequest)
	s.mux.HandleFunc("POST "+judgingPrefix+"/requests/{request_id}/reject", s.handleRejectRequest)
	s.mux.HandleFunc("POST "+judgingPrefix+"/requests/{request_id}/execute", s.handleExecuteRequest)
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.SubmitScoreRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.SubmitScoreHandler(r.Context(), actor, r.PathValue("category_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRecordDeduction(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.RecordDeductionRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.RecordDeductionHandler(r.Context(), actor, r.PathValue("category_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCertifyCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.CertifyCategoryRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.CertifyCategoryHandler(r.Context(), actor, r.PathValue("category_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSignWinners(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.SignWinnersRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.SignWinnersHandler(
		r.Context(),
		actor,
		r.PathValue("category_id"),
		req,
		resolveClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCertifyJudgeScores(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.CertifyJudgeScoresRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.CertifyJudgeScoresHandler(
		r.Context(),
		actor,
		r.PathValue("category_id"),
		r.PathValue("judge_id"),
		req,
	)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.ProgressHandler(r.Context(), actor, r.PathValue("category_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCertifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.ListCertificationsHandler(r.Context(), actor, r.PathValue("category_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategoryStandings(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.CategoryStandingsHandler(r.Context(), actor, r.PathValue("category_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContestStandings(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	breakdown, ok := parseBreakdown(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.ContestStandingsHandler(r.Context(), actor, r.PathValue("contest_id"), breakdown)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEventStandings(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	breakdown, ok := parseBreakdown(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.EventStandingsHandler(r.Context(), actor, r.PathValue("event_id"), breakdown)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.CreateRequestRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.CreateRequestHandler(r.Context(), actor, req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.judging.Handler.ListRequestsHandler(
		r.Context(),
		actor,
		query.Get("kind"),
		query.Get("category_id"),
		query.Get("status"),
	)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.GetRequestHandler(r.Context(), actor, r.PathValue("request_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.SignRequestRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.SignRequestHandler(r.Context(), actor, r.PathValue("request_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	var req judginghttp.RejectRequestRequest
	if !decodeJudgingBody(w, r, &req) {
		return
	}
	resp, err := s.judging.Handler.RejectRequestHandler(r.Context(), actor, r.PathValue("request_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.judging.Handler.ExecuteRequestHandler(r.Context(), actor, r.PathValue("request_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveActor reads the caller identity set by the authenticating proxy.
func resolveActor(w http.ResponseWriter, r *http.Request) (entities.Actor, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeJudgingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required", nil)
		return entities.Actor{}, false
	}
	tenantID := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
	if tenantID == "" {
		writeJudgingError(w, http.StatusUnauthorized, "missing_tenant", "X-Tenant-Id header is required", nil)
		return entities.Actor{}, false
	}
	role, ok := entities.ParseRole(r.Header.Get("X-User-Role"))
	if !ok {
		writeJudgingError(w, http.StatusBadRequest, "invalid_role", "X-User-Role header must name a judging role", nil)
		return entities.Actor{}, false
	}
	return entities.Actor{UserID: userID, Role: role, TenantID: tenantID}, true
}

func decodeJudgingBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJudgingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return false
	}
	return true
}

func parseBreakdown(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("breakdown")
	if raw == "" {
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		writeJudgingError(w, http.StatusBadRequest, "invalid_breakdown", "breakdown must be a boolean", nil)
		return false, false
	}
	return value, true
}

func writeJudgingDomainError(w http.ResponseWriter, err error) {
	var conflict *judgingerrors.CertificationConflictError
	if errors.As(err, &conflict) {
		writeJudgingError(w, http.StatusConflict, "already_certified", err.Error(), map[string]any{
			"category_id":      conflict.CategoryID,
			"role":             conflict.Role,
			"existing_user_id": conflict.ExistingUserID,
			"certified_at":     conflict.CertifiedAt.UTC().Format(time.RFC3339),
		})
		return
	}

	switch judgingerrors.KindOf(err) {
	case judgingerrors.ErrNotFound:
		writeJudgingError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case judgingerrors.ErrBadRequest:
		writeJudgingError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
	case judgingerrors.ErrForbidden:
		writeJudgingError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case judgingerrors.ErrConflict:
		writeJudgingError(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		writeJudgingError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeJudgingError(w http.ResponseWriter, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, judginghttp.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
