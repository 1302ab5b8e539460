package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/ports"
)

func envelope(eventID string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:      eventID,
		EventType:    "judging.score.submitted",
		OccurredAt:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		PartitionKey: "gown",
		Data:         []byte(`{}`),
	}
}

func TestCreateScoreRejectsDuplicateIdentity(t *testing.T) {
	store := NewStore()
	value := 40.0
	score := entities.Score{ScoreID: "s-1", JudgeID: "j", ContestantID: "c", CategoryID: "gown", CriterionID: "poise", Value: &value}
	if err := store.CreateScore(context.Background(), score, []ports.EventEnvelope{envelope("evt-1")}); err != nil {
		t.Fatalf("create score: %v", err)
	}

	score.ScoreID = "s-2"
	err := store.CreateScore(context.Background(), score, []ports.EventEnvelope{envelope("evt-2")})
	if !errors.Is(err, domainerrors.ErrDuplicateScore) {
		t.Fatalf("expected duplicate score, got %v", err)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 {
		t.Fatalf("expected rejected write to leave no outbox row, got %d", len(pending))
	}

	value = 1
	scores, _ := store.ListScores(context.Background(), "gown")
	if *scores[0].Value != 40 {
		t.Fatalf("expected stored score isolated from caller mutation")
	}
}

func TestOutboxConflictLeavesNothingBehind(t *testing.T) {
	store := NewStore()
	if err := store.CreateDeduction(context.Background(), entities.OverallDeduction{DeductionID: "d-1", CategoryID: "gown"}, []ports.EventEnvelope{envelope("evt-1")}); err != nil {
		t.Fatalf("create deduction: %v", err)
	}

	err := store.CreateDeduction(context.Background(), entities.OverallDeduction{DeductionID: "d-2", CategoryID: "gown"},
		[]ports.EventEnvelope{envelope("evt-2"), envelope("evt-1")})
	if !errors.Is(err, domainerrors.ErrOutboxConflict) {
		t.Fatalf("expected outbox conflict, got %v", err)
	}
	deductions, _ := store.ListDeductions(context.Background(), "gown")
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(deductions) != 1 || len(pending) != 1 {
		t.Fatalf("expected atomic rollback, got %d deductions and %d outbox rows", len(deductions), len(pending))
	}

	if err := store.MarkOutboxPublished(context.Background(), "evt-1", time.Now()); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	if err := store.MarkOutboxPublished(context.Background(), "evt-9", time.Now()); !errors.Is(err, domainerrors.ErrOutboxNotFound) {
		t.Fatalf("expected unknown outbox row, got %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected published row excluded, got %d", len(pending))
	}
}

func TestInsertCategoryCertificationAdvancesTrackedWorkflow(t *testing.T) {
	store := NewStore()
	store.SetCategory(entities.Category{CategoryID: "gown", TenantID: "tenant-1"})
	certifiedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := store.InsertJudgeCertification(context.Background(), ports.JudgeCertificationWrite{
		Certification: entities.JudgeCertification{CertificationID: "jc-1", CategoryID: "gown", JudgeID: "j"},
		Workflow: func(existing entities.CategoryWorkflow, found bool) entities.CategoryWorkflow {
			if found {
				t.Fatalf("expected no workflow before first judge certification")
			}
			return entities.CategoryWorkflow{CategoryID: "gown", CurrentStep: entities.StepJudges, Status: entities.WorkflowStatusInProgress}
		},
	})
	if err != nil {
		t.Fatalf("insert judge certification: %v", err)
	}

	write := ports.CertificationWrite{
		Certification: entities.CategoryCertification{
			CertificationID: "cc-1",
			CategoryID:      "gown",
			Role:            entities.RoleTallyMaster,
			UserID:          "tally-1",
			CertifiedAt:     certifiedAt,
		},
		Advance: func(workflow entities.CategoryWorkflow) entities.CategoryWorkflow {
			workflow.CurrentStep = entities.StepTally
			workflow.TallyCertified = true
			return workflow
		},
		MarkTallyTotals: true,
	}
	if _, err := store.InsertCategoryCertification(context.Background(), write); err != nil {
		t.Fatalf("insert certification: %v", err)
	}
	workflow, found, _ := store.GetWorkflow(context.Background(), "gown")
	if !found || workflow.CurrentStep != entities.StepTally || !workflow.TallyCertified {
		t.Fatalf("expected workflow advanced, got %+v", workflow)
	}
	category, _ := store.GetCategory(context.Background(), "gown")
	if !category.TallyTotalsCertified || !category.UpdatedAt.Equal(certifiedAt) {
		t.Fatalf("expected tally totals marked, got %+v", category)
	}

	write.Certification.CertificationID = "cc-2"
	write.Certification.UserID = "tally-2"
	_, err = store.InsertCategoryCertification(context.Background(), write)
	var conflict *domainerrors.CertificationConflictError
	if !errors.As(err, &conflict) || conflict.ExistingUserID != "tally-1" || !conflict.CertifiedAt.Equal(certifiedAt) {
		t.Fatalf("expected conflict naming tally-1, got %v", err)
	}
}

func TestListRequestsScopesByTenantInCreationOrder(t *testing.T) {
	store := NewStore()
	for _, request := range []entities.QuorumRequest{
		{RequestID: "r-2", TenantID: "tenant-1", Kind: entities.RequestKindScoreRemoval, Status: entities.RequestStatusPending},
		{RequestID: "r-1", TenantID: "tenant-1", Kind: entities.RequestKindJudgeUncertification, Status: entities.RequestStatusPending},
		{RequestID: "r-3", TenantID: "tenant-2", Kind: entities.RequestKindScoreRemoval, Status: entities.RequestStatusPending},
	} {
		if err := store.CreateRequest(context.Background(), request, nil); err != nil {
			t.Fatalf("create request: %v", err)
		}
	}

	items, _ := store.ListRequests(context.Background(), entities.RequestFilter{TenantID: "tenant-1"})
	if len(items) != 2 || items[0].RequestID != "r-2" || items[1].RequestID != "r-1" {
		t.Fatalf("unexpected listing %+v", items)
	}
	items, _ = store.ListRequests(context.Background(), entities.RequestFilter{TenantID: "tenant-1", Kind: entities.RequestKindJudgeUncertification})
	if len(items) != 1 || items[0].RequestID != "r-1" {
		t.Fatalf("expected kind filter applied, got %+v", items)
	}
	if err := store.CreateRequest(context.Background(), entities.QuorumRequest{RequestID: "r-1"}, nil); !errors.Is(err, domainerrors.ErrConflict) {
		t.Fatalf("expected duplicate request id conflict, got %v", err)
	}
}
