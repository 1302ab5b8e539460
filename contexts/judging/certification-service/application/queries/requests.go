package queries

import (
	"context"
	"strings"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/ports"
)

type RequestsUseCase struct {
	Quorum ports.QuorumRepository
}

// GetRequest hides requests of other tenants behind ErrRequestNotFound.
func (uc RequestsUseCase) GetRequest(ctx context.Context, requestID string, tenantID string) (entities.QuorumRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.QuorumRequest{}, domainerrors.ErrInvalidInput
	}
	request, err := uc.Quorum.GetRequest(ctx, requestID)
	if err != nil {
		return entities.QuorumRequest{}, err
	}
	if !entities.SameTenant(request.TenantID, tenantID) {
		return entities.QuorumRequest{}, domainerrors.ErrRequestNotFound
	}
	return request, nil
}

func (uc RequestsUseCase) ListRequests(ctx context.Context, filter entities.RequestFilter) ([]entities.QuorumRequest, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domainerrors.ErrInvalidInput
	}
	switch filter.Status {
	case "", entities.RequestStatusPending, entities.RequestStatusApproved, entities.RequestStatusRejected:
	default:
		return nil, domainerrors.ErrInvalidInput
	}
	filter.TenantID = strings.TrimSpace(filter.TenantID)
	filter.CategoryID = strings.TrimSpace(filter.CategoryID)
	return uc.Quorum.ListRequests(ctx, filter)
}
