package services

import (
	"errors"
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
)

func pendingRemoval() entities.QuorumRequest {
	return entities.QuorumRequest{
		RequestID:  "req-1",
		Kind:       entities.RequestKindScoreRemoval,
		JudgeID:    "judge-j",
		CategoryID: "cat-c",
		Status:     entities.RequestStatusPending,
	}
}

func sign(t *testing.T, request entities.QuorumRequest, role entities.Role) entities.QuorumRequest {
	t.Helper()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	next, err := ApplySignature(request, role, entities.QuorumSignature{SignerID: string(role) + "-user", SignedAt: now}, now)
	if err != nil {
		t.Fatalf("sign as %s: %v", role, err)
	}
	return next
}

func TestApplySignatureApprovesOnThirdSlot(t *testing.T) {
	request := pendingRemoval()

	request = sign(t, request, entities.RoleAuditor)
	if request.Status != entities.RequestStatusPending || request.AllSigned() {
		t.Fatalf("expected pending after auditor, got %s", request.Status)
	}
	request = sign(t, request, entities.RoleTallyMaster)
	if request.Status != entities.RequestStatusPending {
		t.Fatalf("expected pending after tally master, got %s", request.Status)
	}
	request = sign(t, request, entities.RoleBoard)
	if request.Status != entities.RequestStatusApproved || !request.AllSigned() {
		t.Fatalf("expected approved after board, got %s", request.Status)
	}

	_, err := ApplySignature(request, entities.RoleAuditor, entities.QuorumSignature{SignerID: "late"}, time.Now())
	if !errors.Is(err, domainerrors.ErrBadRequest) {
		t.Fatalf("expected bad request for fourth signature, got %v", err)
	}
}

// permutations returns every ordering of items.
func permutations[T any](items []T) [][]T {
	if len(items) <= 1 {
		return [][]T{append([]T(nil), items...)}
	}
	var out [][]T
	for i := range items {
		rest := make([]T, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, tail := range permutations(rest) {
			out = append(out, append([]T{items[i]}, tail...))
		}
	}
	return out
}

func TestApplySignatureCompletesForEveryOrdering(t *testing.T) {
	orders := permutations([]entities.Role{entities.RoleAuditor, entities.RoleTallyMaster, entities.RoleBoard})
	if len(orders) != 6 {
		t.Fatalf("expected six orderings, got %d", len(orders))
	}
	for _, order := range orders {
		request := pendingRemoval()
		for i, role := range order {
			request = sign(t, request, role)
			approved := request.Status == entities.RequestStatusApproved
			if approved != (i == len(order)-1) || request.AllSigned() != approved {
				t.Fatalf("order %v: unexpected status %s after %d signatures", order, request.Status, i+1)
			}
		}
		if request.AuditorSignature.SignerID != "AUDITOR-user" || request.BoardSignature.SignerID != "BOARD-user" {
			t.Fatalf("order %v: signatures landed in the wrong slots %+v", order, request)
		}
	}
}

func TestApplySignatureRejectsOccupiedAndMissingSlots(t *testing.T) {
	request := sign(t, pendingRemoval(), entities.RoleAuditor)

	_, err := ApplySignature(request, entities.RoleAuditor, entities.QuorumSignature{SignerID: "again"}, time.Now())
	if !errors.Is(err, domainerrors.ErrSignatureSlotOccupied) {
		t.Fatalf("expected occupied slot, got %v", err)
	}
	_, err = ApplySignature(request, entities.RoleJudge, entities.QuorumSignature{SignerID: "judge"}, time.Now())
	if !errors.Is(err, domainerrors.ErrNoSignatureSlot) {
		t.Fatalf("expected missing slot, got %v", err)
	}
	if request.TallySignature != nil {
		t.Fatalf("expected failed signatures to leave slots untouched")
	}
}

func TestRejectRequestClosesPendingOnly(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rejected, err := RejectRequest(pendingRemoval(), "auditor-1", "insufficient evidence", now)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != entities.RequestStatusRejected || rejected.RejectedAt == nil || rejected.RejectedBy != "auditor-1" {
		t.Fatalf("unexpected rejected request %+v", rejected)
	}

	if _, err := RejectRequest(rejected, "board-1", "again", now); !errors.Is(err, domainerrors.ErrRequestAlreadyClosed) {
		t.Fatalf("expected closed request error, got %v", err)
	}
	if _, err := ApplySignature(rejected, entities.RoleBoard, entities.QuorumSignature{}, now); !errors.Is(err, domainerrors.ErrRequestAlreadyClosed) {
		t.Fatalf("expected signing a rejected request to fail, got %v", err)
	}
	if err := EnsureExecutable(rejected); !errors.Is(err, domainerrors.ErrRequestNotApproved) {
		t.Fatalf("expected rejected request not executable, got %v", err)
	}
}

func TestRecordExecutionKeepsFirstTimestamp(t *testing.T) {
	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	request := RecordExecution(pendingRemoval(), 3, first)
	request = RecordExecution(request, 0, second)
	if request.ExecutionCount != 2 || request.AffectedTotal != 3 {
		t.Fatalf("unexpected execution counters %+v", request)
	}
	if !request.ExecutedAt.Equal(first) || !request.UpdatedAt.Equal(second) {
		t.Fatalf("expected first execution time kept, got executed=%s updated=%s", request.ExecutedAt, request.UpdatedAt)
	}
}
