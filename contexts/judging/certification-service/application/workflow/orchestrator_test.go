package workflow

import (
	"context"
	"errors"
	"testing"

	"verdict/contexts/judging/certification-service/adapters/memory"
	"verdict/contexts/judging/certification-service/application/commands"
	"verdict/contexts/judging/certification-service/application/queries"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
)

func newOrchestrator(t *testing.T) (Orchestrator, commands.ScoringUseCase) {
	t.Helper()
	orchestrator, scoring, _ := newOrchestratorWithStore(t)
	return orchestrator, scoring
}

func newOrchestratorWithStore(t *testing.T) (Orchestrator, commands.ScoringUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SetContest(entities.Contest{ContestID: "contest-1", TenantID: "tenant-1"})
	store.SetCategory(entities.Category{CategoryID: "gown", ContestID: "contest-1", TenantID: "tenant-1", Name: "Evening Gown"})
	store.SetCriterion(entities.Criterion{CriterionID: "poise", CategoryID: "gown", MaxScore: 50})
	store.SetCriterion(entities.Criterion{CriterionID: "presence", CategoryID: "gown", MaxScore: 50})
	store.SetJudge(entities.Judge{JudgeID: "judge-a", TenantID: "tenant-1", UserID: "user-a"})

	orchestrator := Orchestrator{
		Certifications: commands.CertificationUseCase{Catalog: store, Scores: store, Ledger: store, Clock: store, IDGen: store},
		Progress:       queries.ProgressUseCase{Catalog: store, Ledger: store},
		Standings:      queries.StandingsUseCase{Catalog: store, Scores: store, Ledger: store},
	}
	scoring := commands.ScoringUseCase{Catalog: store, Scores: store, Ledger: store, Quorum: store, Clock: store, IDGen: store}
	return orchestrator, scoring, store
}

func submit(t *testing.T, scoring commands.ScoringUseCase, criterionID string, value float64) {
	t.Helper()
	_, err := scoring.SubmitScore(context.Background(), commands.SubmitScoreCommand{
		CategoryID:   "gown",
		JudgeID:      "judge-a",
		ContestantID: "007",
		CriterionID:  criterionID,
		Value:        &value,
		Actor:        entities.Actor{UserID: "user-a", Role: entities.RoleJudge, TenantID: "tenant-1"},
	})
	if err != nil {
		t.Fatalf("submit score: %v", err)
	}
}

func TestCategoryStandingsRedactedForJudgeUntilBoardCertifies(t *testing.T) {
	orchestrator, scoring := newOrchestrator(t)
	submit(t, scoring, "poise", 45)
	submit(t, scoring, "presence", 48)

	judge := entities.Actor{UserID: "user-a", Role: entities.RoleJudge, TenantID: "tenant-1"}
	standings, err := orchestrator.CategoryStandings(context.Background(), "gown", judge)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if !standings.Redacted || len(standings.Contestants) != 0 || standings.CanShowWinners {
		t.Fatalf("expected redacted standings, got %+v", standings)
	}
	if standings.TotalPossibleScore == nil || *standings.TotalPossibleScore != 100 {
		t.Fatalf("expected redacted standings to keep total possible score")
	}

	admin := entities.Actor{UserID: "admin-1", Role: entities.RoleAdmin, TenantID: "tenant-1"}
	full, err := orchestrator.CategoryStandings(context.Background(), "gown", admin)
	if err != nil {
		t.Fatalf("admin standings: %v", err)
	}
	if full.Redacted || len(full.Contestants) != 1 || full.Contestants[0].TotalScore != 93 {
		t.Fatalf("expected full standings for admin, got %+v", full)
	}

	result, err := orchestrator.CertifyScores(context.Background(), commands.CertifyCategoryCommand{
		CategoryID: "gown",
		Actor:      entities.Actor{UserID: "board-1", Role: entities.RoleBoard, TenantID: "tenant-1"},
	})
	if err != nil {
		t.Fatalf("board certify: %v", err)
	}
	if result.Progress.Percent != 25 || result.Certification.Role != entities.RoleBoard {
		t.Fatalf("unexpected certify result %+v", result)
	}

	visible, err := orchestrator.CategoryStandings(context.Background(), "gown", judge)
	if err != nil {
		t.Fatalf("standings after board: %v", err)
	}
	if visible.Redacted || len(visible.Contestants) != 1 || !visible.BoardSigned {
		t.Fatalf("expected visible standings after board sign-off, got %+v", visible)
	}
}

func TestOrchestratorHidesOtherTenants(t *testing.T) {
	orchestrator, _ := newOrchestrator(t)
	outsider := entities.Actor{UserID: "admin-2", Role: entities.RoleAdmin, TenantID: "tenant-2"}

	if _, err := orchestrator.CertificationProgress(context.Background(), "gown", outsider); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected category hidden from other tenant, got %v", err)
	}
	if _, err := orchestrator.ContestStandings(context.Background(), "contest-1", outsider, false); !errors.Is(err, domainerrors.ErrContestNotFound) {
		t.Fatalf("expected contest hidden from other tenant, got %v", err)
	}
}

func TestOrchestratorTenantMatchIgnoresWhitespace(t *testing.T) {
	orchestrator, _ := newOrchestrator(t)
	padded := entities.Actor{UserID: "admin-1", Role: entities.RoleAdmin, TenantID: " tenant-1 "}

	if _, err := orchestrator.CertificationProgress(context.Background(), "gown", padded); err != nil {
		t.Fatalf("expected category visible, got %v", err)
	}
	if _, err := orchestrator.ContestStandings(context.Background(), "contest-1", padded, false); err != nil {
		t.Fatalf("expected contest visible, got %v", err)
	}
}

func TestJudgeRoleProgressComesFromJudgeAttestations(t *testing.T) {
	orchestrator, scoring, store := newOrchestratorWithStore(t)
	submit(t, scoring, "poise", 45)
	ctx := context.Background()
	judge := entities.Actor{UserID: "user-a", Role: entities.RoleJudge, TenantID: "tenant-1"}

	if _, err := orchestrator.SignWinners(ctx, commands.SignWinnersCommand{CategoryID: "gown", Actor: judge}); err != nil {
		t.Fatalf("judge sign winners: %v", err)
	}
	progress, err := orchestrator.CertificationProgress(ctx, "gown", judge)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress.RolesCertified) != 0 || progress.State != entities.StateScoring || progress.Percent != 0 {
		t.Fatalf("expected winner sign-off not to satisfy the judge role, got %+v", progress)
	}

	if _, err := orchestrator.CertifyJudgeScores(ctx, commands.CertifyJudgeScoresCommand{
		CategoryID: "gown",
		JudgeID:    "judge-a",
		Actor:      judge,
	}); err != nil {
		t.Fatalf("certify judge scores: %v", err)
	}
	progress, _ = orchestrator.CertificationProgress(ctx, "gown", judge)
	if progress.State != entities.StateJudgesCertified || progress.Percent != 25 || progress.CurrentStep != entities.StepJudges {
		t.Fatalf("expected judge attestation to count, got %+v", progress)
	}

	quorum := commands.QuorumUseCase{Catalog: store, Quorum: store, Clock: store, IDGen: store}
	request, err := quorum.CreateRequest(ctx, commands.CreateRequestCommand{
		Kind:       entities.RequestKindJudgeUncertification,
		JudgeID:    "judge-a",
		CategoryID: "gown",
		Reason:     "recused",
		Actor:      entities.Actor{UserID: "board-1", Role: entities.RoleBoard, TenantID: "tenant-1"},
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	for _, role := range []entities.Role{entities.RoleBoard, entities.RoleAuditor, entities.RoleTallyMaster} {
		if _, err := quorum.SignRequest(ctx, commands.SignRequestCommand{
			RequestID: request.RequestID,
			Actor:     entities.Actor{UserID: string(role) + "-1", Role: role, TenantID: "tenant-1"},
		}); err != nil {
			t.Fatalf("sign as %s: %v", role, err)
		}
	}
	if _, err := quorum.ExecuteUncertification(ctx, commands.ExecuteRequestCommand{RequestID: request.RequestID}); err != nil {
		t.Fatalf("execute uncertification: %v", err)
	}

	progress, _ = orchestrator.CertificationProgress(ctx, "gown", judge)
	if progress.State != entities.StateScoring || progress.Percent != 0 {
		t.Fatalf("expected revoked attestation to drop the judge role, got %+v", progress)
	}
	listing, err := orchestrator.ListCertifications(ctx, "gown", judge)
	if err != nil {
		t.Fatalf("list certifications: %v", err)
	}
	if len(listing.JudgeCertifications) != 1 || listing.JudgeCertifications[0].Active() {
		t.Fatalf("expected revoked attestation listed, got %+v", listing.JudgeCertifications)
	}
}

func TestRedactKeepsShape(t *testing.T) {
	possible := 100.0
	redacted := Redact(entities.CategoryStandings{
		CategoryID:         "gown",
		TotalPossibleScore: &possible,
		Contestants:        []entities.ContestantStanding{{ContestantID: "007", TotalScore: 88}},
	})
	if !redacted.Redacted || redacted.Contestants == nil || len(redacted.Contestants) != 0 {
		t.Fatalf("expected empty contestant list, got %+v", redacted.Contestants)
	}
	if redacted.CategoryID != "gown" || redacted.TotalPossibleScore != &possible {
		t.Fatalf("expected category metadata kept")
	}
}
