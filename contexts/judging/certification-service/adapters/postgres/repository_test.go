package postgresadapter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateUniqueViolationMapsNamedConstraints(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{constraint: constraintScoreIdentity, want: domainerrors.ErrDuplicateScore},
		{constraint: constraintCategoryRole, want: domainerrors.ErrAlreadyCertified},
		{constraint: constraintJudgeCertification, want: domainerrors.ErrJudgeAlreadyCertified},
		{constraint: constraintOutboxPrimaryKey, want: domainerrors.ErrOutboxConflict},
	}
	for _, tc := range cases {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})
		got := translateUniqueViolation(err)
		if !errors.Is(got, tc.want) {
			t.Fatalf("constraint %s: expected %v, got %v", tc.constraint, tc.want, got)
		}
		if !errors.Is(got, domainerrors.ErrConflict) {
			t.Fatalf("constraint %s: expected conflict kind, got %v", tc.constraint, got)
		}
	}
}

func TestTranslateUniqueViolationPassesOtherErrorsThrough(t *testing.T) {
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "judging_scores_judge_id_fkey"}
	if got := translateUniqueViolation(foreignKey); got != error(foreignKey) {
		t.Fatalf("expected foreign key violation untouched, got %v", got)
	}

	unknown := &pgconn.PgError{Code: "23505", ConstraintName: "some_other_unique"}
	if got := translateUniqueViolation(unknown); domainerrors.KindOf(got) != nil {
		t.Fatalf("expected unknown constraint to stay infrastructure error, got %v", got)
	}
}

func TestQuorumRequestModelKeepsSignatureSlots(t *testing.T) {
	signedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	request := entities.QuorumRequest{
		RequestID:  "req-1",
		Kind:       entities.RequestKindScoreRemoval,
		TenantID:   "tenant-1",
		JudgeID:    "judge-1",
		CategoryID: "cat-1",
		Status:     entities.RequestStatusPending,
		AuditorSignature: &entities.QuorumSignature{
			SignerID:      "auditor-1",
			SignatureName: "A. Auditor",
			Fingerprint:   "abc",
			SignedAt:      signedAt,
		},
		CreatedAt: signedAt,
	}

	row := quorumRequestModelFromEntity(request)
	if row.ContestantID != nil {
		t.Fatalf("expected empty contestant to be stored as NULL")
	}
	if row.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at defaulted from created_at")
	}

	restored := row.toEntity()
	if restored.AuditorSignature == nil || restored.AuditorSignature.SignerID != "auditor-1" {
		t.Fatalf("expected auditor slot restored, got %+v", restored.AuditorSignature)
	}
	if restored.TallySignature != nil || restored.BoardSignature != nil {
		t.Fatalf("expected empty tally and board slots")
	}
	if restored.AuditorSignature.SignedAt.Location() != time.UTC {
		t.Fatalf("expected signature timestamp normalized to UTC")
	}
	if restored.ContestantID != "" {
		t.Fatalf("expected empty contestant, got %q", restored.ContestantID)
	}
}

func TestScoreModelKeepsUnsetValue(t *testing.T) {
	row := scoreModelFromEntity(entities.Score{
		ScoreID:      "s-1",
		JudgeID:      "judge-1",
		ContestantID: "c-1",
		CategoryID:   "cat-1",
		CriterionID:  "crit-1",
	})
	if row.Value != nil {
		t.Fatalf("expected nil value to stay nil")
	}
	if row.CertifiedBy != nil {
		t.Fatalf("expected empty certified_by stored as NULL")
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("expected created_at defaulted")
	}
	if row.toEntity().HasValue() {
		t.Fatalf("expected restored score without value")
	}
}

func TestWorkflowModelDefaultsCreatedAt(t *testing.T) {
	updatedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	row := workflowModelFromEntity(entities.CategoryWorkflow{
		CategoryID:  "cat-1",
		CurrentStep: entities.StepTally,
		Status:      entities.WorkflowStatusInProgress,
		UpdatedAt:   updatedAt,
	})
	if !row.CreatedAt.Equal(updatedAt) {
		t.Fatalf("expected created_at %s, got %s", updatedAt, row.CreatedAt)
	}
	if got := row.toEntity().CurrentStep; got != entities.StepTally {
		t.Fatalf("expected step %d, got %d", entities.StepTally, got)
	}
}
