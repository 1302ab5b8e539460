package services

import (
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
)

// StartWorkflow opens the tracking record when the first judge certifies.
func StartWorkflow(categoryID string, now time.Time) entities.CategoryWorkflow {
	return entities.CategoryWorkflow{
		CategoryID:      categoryID,
		CurrentStep:     entities.StepJudges,
		JudgesCertified: true,
		Status:          entities.WorkflowStatusInProgress,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// AdvanceWorkflow records role's certification. The step never moves
// backwards and the status only becomes CERTIFIED once tally, auditor and
// board have all signed.
func AdvanceWorkflow(workflow entities.CategoryWorkflow, role entities.Role, now time.Time) entities.CategoryWorkflow {
	step := 0
	switch role {
	case entities.RoleTallyMaster:
		workflow.TallyCertified = true
		step = entities.StepTally
	case entities.RoleAuditor:
		workflow.AuditorCertified = true
		step = entities.StepAuditor
	case entities.RoleBoard:
		workflow.BoardCertified = true
		step = entities.StepBoard
	case entities.RoleJudge:
		workflow.JudgesCertified = true
		step = entities.StepJudges
	}
	if step > workflow.CurrentStep {
		workflow.CurrentStep = step
	}
	if workflow.TallyCertified && workflow.AuditorCertified && workflow.BoardCertified {
		workflow.Status = entities.WorkflowStatusCertified
	} else if workflow.Status == "" {
		workflow.Status = entities.WorkflowStatusInProgress
	}
	workflow.UpdatedAt = now.UTC()
	return workflow
}

// BuildProgress measures certification over the fixed progress role set. The
// JUDGE role counts as certified only through active judge attestations;
// ledger rows carrying the JUDGE role (winner sign-offs by a judge) do not
// satisfy it.
func BuildProgress(
	category entities.Category,
	certifications []entities.CategoryCertification,
	judgeCertifications int,
	workflow *entities.CategoryWorkflow,
) entities.CertificationProgress {
	certified := make(map[entities.Role]bool, len(certifications)+1)
	for _, certification := range certifications {
		if certification.Role == entities.RoleJudge {
			continue
		}
		certified[certification.Role] = true
	}
	if judgeCertifications > 0 {
		certified[entities.RoleJudge] = true
	}

	progress := entities.CertificationProgress{
		CategoryID:           category.CategoryID,
		RolesCertified:       make([]entities.Role, 0, len(entities.ProgressRoles)),
		RolesRemaining:       make([]entities.Role, 0, len(entities.ProgressRoles)),
		TallyTotalsCertified: category.TallyTotalsCertified,
	}
	for _, role := range entities.ProgressRoles {
		if certified[role] {
			progress.RolesCertified = append(progress.RolesCertified, role)
		} else {
			progress.RolesRemaining = append(progress.RolesRemaining, role)
		}
	}
	progress.Percent = len(progress.RolesCertified) * 100 / len(entities.ProgressRoles)
	progress.FullyCertified = len(progress.RolesRemaining) == 0
	progress.State = DeriveState(certified)
	if workflow != nil {
		progress.CurrentStep = workflow.CurrentStep
	}
	return progress
}

// DeriveState walks the sign-off chain in order and stops at the first gap.
func DeriveState(certified map[entities.Role]bool) entities.CertificationState {
	chain := []struct {
		role  entities.Role
		state entities.CertificationState
	}{
		{entities.RoleJudge, entities.StateJudgesCertified},
		{entities.RoleTallyMaster, entities.StateTallyCertified},
		{entities.RoleAuditor, entities.StateAuditorCertified},
		{entities.RoleBoard, entities.StateBoardCertified},
	}
	state := entities.StateScoring
	for _, link := range chain {
		if !certified[link.role] {
			break
		}
		state = link.state
	}
	return state
}

// RevokeJudges reflects an executed uncertification on the tracking record.
// The step stays where it is; only the judges flag follows the remaining
// active attestations.
func RevokeJudges(workflow entities.CategoryWorkflow, activeJudges int, now time.Time) entities.CategoryWorkflow {
	workflow.JudgesCertified = activeJudges > 0
	workflow.UpdatedAt = now.UTC()
	return workflow
}
