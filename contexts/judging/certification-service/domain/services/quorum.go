package services

import (
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
)

// ApplySignature fills role's slot on a pending request and approves it once
// all three slots hold a signature. The input is not modified.
func ApplySignature(
	request entities.QuorumRequest,
	role entities.Role,
	signature entities.QuorumSignature,
	now time.Time,
) (entities.QuorumRequest, error) {
	if request.Status != entities.RequestStatusPending {
		return request, domainerrors.ErrRequestAlreadyClosed
	}
	slot, ok := request.Slot(role)
	if !ok {
		return request, domainerrors.ErrNoSignatureSlot
	}
	if *slot != nil {
		return request, domainerrors.ErrSignatureSlotOccupied
	}

	signed := signature
	signed.SignedAt = signed.SignedAt.UTC()
	*slot = &signed
	if request.AllSigned() {
		request.Status = entities.RequestStatusApproved
	}
	request.UpdatedAt = now.UTC()
	return request, nil
}

// RejectRequest closes a pending request for good.
func RejectRequest(
	request entities.QuorumRequest,
	rejectedBy string,
	reason string,
	now time.Time,
) (entities.QuorumRequest, error) {
	if request.Status != entities.RequestStatusPending {
		return request, domainerrors.ErrRequestAlreadyClosed
	}
	rejectedAt := now.UTC()
	request.Status = entities.RequestStatusRejected
	request.RejectedBy = rejectedBy
	request.RejectedReason = reason
	request.RejectedAt = &rejectedAt
	request.UpdatedAt = rejectedAt
	return request, nil
}

// EnsureExecutable gates execution on approval.
func EnsureExecutable(request entities.QuorumRequest) error {
	if request.Status != entities.RequestStatusApproved {
		return domainerrors.ErrRequestNotApproved
	}
	return nil
}

// RecordExecution books one execution pass. affected is the row count of this
// pass only; the first execution timestamp is kept across retries.
func RecordExecution(request entities.QuorumRequest, affected int, now time.Time) entities.QuorumRequest {
	executedAt := now.UTC()
	if request.ExecutedAt == nil {
		request.ExecutedAt = &executedAt
	}
	request.ExecutionCount++
	request.AffectedTotal += affected
	request.UpdatedAt = executedAt
	return request
}
