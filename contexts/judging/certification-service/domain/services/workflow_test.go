package services

import (
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
)

func TestAdvanceWorkflowCertifiesAfterAllSignOffRoles(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	workflow := StartWorkflow("cat-1", now)
	if workflow.CurrentStep != entities.StepJudges || !workflow.JudgesCertified {
		t.Fatalf("unexpected initial workflow %+v", workflow)
	}

	workflow = AdvanceWorkflow(workflow, entities.RoleBoard, now)
	if workflow.CurrentStep != entities.StepBoard || workflow.Status != entities.WorkflowStatusInProgress {
		t.Fatalf("expected board step in progress, got %+v", workflow)
	}
	workflow = AdvanceWorkflow(workflow, entities.RoleTallyMaster, now)
	if workflow.CurrentStep != entities.StepBoard {
		t.Fatalf("expected step never to move backwards, got %d", workflow.CurrentStep)
	}
	workflow = AdvanceWorkflow(workflow, entities.RoleAuditor, now.Add(time.Minute))
	if workflow.Status != entities.WorkflowStatusCertified {
		t.Fatalf("expected certified workflow, got %s", workflow.Status)
	}
	if !workflow.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("expected updated_at advanced")
	}
}

func TestBuildProgressCountsJudgeAttestations(t *testing.T) {
	category := entities.Category{CategoryID: "cat-1", TallyTotalsCertified: true}
	certifications := []entities.CategoryCertification{
		{CategoryID: "cat-1", Role: entities.RoleTallyMaster},
		{CategoryID: "cat-1", Role: entities.RoleAdmin},
	}

	progress := BuildProgress(category, certifications, 0, nil)
	if progress.Percent != 25 || progress.State != entities.StateScoring {
		t.Fatalf("expected 25 percent in scoring state, got %+v", progress)
	}
	if len(progress.RolesRemaining) != 3 || progress.FullyCertified {
		t.Fatalf("unexpected remaining roles %v", progress.RolesRemaining)
	}

	workflow := entities.CategoryWorkflow{CurrentStep: entities.StepTally}
	progress = BuildProgress(category, certifications, 2, &workflow)
	if progress.Percent != 50 || progress.State != entities.StateTallyCertified || progress.CurrentStep != entities.StepTally {
		t.Fatalf("expected tally state at 50 percent, got %+v", progress)
	}
	if !progress.TallyTotalsCertified {
		t.Fatalf("expected tally totals flag carried from category")
	}
}

func TestBuildProgressIgnoresJudgeLedgerRows(t *testing.T) {
	category := entities.Category{CategoryID: "cat-1"}
	certifications := []entities.CategoryCertification{
		{CategoryID: "cat-1", Role: entities.RoleJudge, UserID: "user-a"},
		{CategoryID: "cat-1", Role: entities.RoleTallyMaster, UserID: "tally-1"},
	}

	progress := BuildProgress(category, certifications, 0, nil)
	if progress.State != entities.StateScoring || progress.Percent != 25 {
		t.Fatalf("expected only tally counted, got %+v", progress)
	}
	if len(progress.RolesRemaining) != 3 || progress.RolesRemaining[0] != entities.RoleJudge {
		t.Fatalf("expected judge still remaining, got %v", progress.RolesRemaining)
	}

	progress = BuildProgress(category, certifications, 1, nil)
	if progress.State != entities.StateTallyCertified || progress.Percent != 50 {
		t.Fatalf("expected attestation to satisfy judge, got %+v", progress)
	}
}

func TestRevokeJudgesKeepsStep(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	workflow := AdvanceWorkflow(StartWorkflow("cat-1", now), entities.RoleTallyMaster, now)

	revoked := RevokeJudges(workflow, 0, now.Add(time.Hour))
	if revoked.JudgesCertified || revoked.CurrentStep != entities.StepTally || !revoked.TallyCertified {
		t.Fatalf("unexpected revoked workflow %+v", revoked)
	}
	if kept := RevokeJudges(workflow, 1, now); !kept.JudgesCertified {
		t.Fatalf("expected remaining attestation to keep the judges flag")
	}
}

func TestDeriveStateStopsAtFirstGap(t *testing.T) {
	state := DeriveState(map[entities.Role]bool{
		entities.RoleJudge:   true,
		entities.RoleAuditor: true,
		entities.RoleBoard:   true,
	})
	if state != entities.StateJudgesCertified {
		t.Fatalf("expected judges certified, got %s", state)
	}
	all := DeriveState(map[entities.Role]bool{
		entities.RoleJudge:       true,
		entities.RoleTallyMaster: true,
		entities.RoleAuditor:     true,
		entities.RoleBoard:       true,
	})
	if all != entities.StateBoardCertified {
		t.Fatalf("expected board certified, got %s", all)
	}
}

func TestWinnerSignatureIsDeterministic(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("x", 7200))
	a := WinnerSignature("user-1", "cat-1", entities.RoleBoard, at, "10.0.0.1", "curl")
	b := WinnerSignature(" user-1 ", "cat-1", entities.RoleBoard, at.UTC(), "10.0.0.1", "curl")
	if a != b || len(a) != 64 {
		t.Fatalf("expected stable hex digest, got %q and %q", a, b)
	}
	if a == WinnerSignature("user-1", "cat-1", entities.RoleAuditor, at, "10.0.0.1", "curl") {
		t.Fatalf("expected role to change the digest")
	}
}

func TestIsAuthorizedForDeniesUnknownAction(t *testing.T) {
	if IsAuthorizedFor(Action("drop_tables"), entities.RoleAdmin) {
		t.Fatalf("expected unknown action denied")
	}
	if IsAuthorizedFor(ActionSignWinners, entities.RoleContestant) || IsAuthorizedFor(ActionSignWinners, entities.RoleEmcee) {
		t.Fatalf("expected contestant and emcee forbidden from signing winners")
	}
	if !IsAuthorizedFor(ActionCertifyCategory, entities.RoleOrganizer) {
		t.Fatalf("expected organizer allowed to certify")
	}
}
