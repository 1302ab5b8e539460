package entities

import "time"

// CategoryCertification is one role's sign-off on a category. At most one
// exists per (category, role).
type CategoryCertification struct {
	CertificationID string
	CategoryID      string
	Role            Role
	UserID          string
	SignatureName   string
	Signature       string
	IPAddress       string
	UserAgent       string
	Comments        string
	CertifiedAt     time.Time
}

// JudgeCertification is a judge's attestation of their own scores. An
// executed uncertification request revokes it; revoked rows stay for audit
// and free the (category, judge) slot for a new attestation.
type JudgeCertification struct {
	CertificationID string
	CategoryID      string
	JudgeID         string
	UserID          string
	SignatureName   string
	CertifiedAt     time.Time
	RevokedAt       *time.Time
	RevokedBy       string
}

func (c JudgeCertification) Active() bool {
	return c.RevokedAt == nil
}

// ActiveJudgeCertifications counts attestations that have not been revoked.
func ActiveJudgeCertifications(items []JudgeCertification) int {
	count := 0
	for _, item := range items {
		if item.Active() {
			count++
		}
	}
	return count
}

type WorkflowStatus string

const (
	WorkflowStatusInProgress WorkflowStatus = "IN_PROGRESS"
	WorkflowStatusCertified  WorkflowStatus = "CERTIFIED"
)

// CategoryWorkflow tracks step progression once judges start certifying.
type CategoryWorkflow struct {
	CategoryID       string
	CurrentStep      int
	JudgesCertified  bool
	TallyCertified   bool
	AuditorCertified bool
	BoardCertified   bool
	Status           WorkflowStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const (
	StepJudges  = 1
	StepTally   = 2
	StepAuditor = 3
	StepBoard   = 4
)

// CertificationState is the derived name of a category's position in the
// sign-off chain.
type CertificationState string

const (
	StateScoring          CertificationState = "SCORING"
	StateJudgesCertified  CertificationState = "JUDGES_CERTIFIED"
	StateTallyCertified   CertificationState = "TALLY_CERTIFIED"
	StateAuditorCertified CertificationState = "AUDITOR_CERTIFIED"
	StateBoardCertified   CertificationState = "BOARD_CERTIFIED"
)

// ProgressRoles is the fixed role set certification progress is measured on.
var ProgressRoles = []Role{RoleJudge, RoleTallyMaster, RoleAuditor, RoleBoard}

type CertificationProgress struct {
	CategoryID     string
	RolesCertified []Role
	RolesRemaining []Role
	Percent        int
	// FullyCertified requires all four progress roles.
	FullyCertified bool
	// TallyTotalsCertified mirrors the category flag set by the Tally Master.
	TallyTotalsCertified bool
	State                CertificationState
	CurrentStep          int
}
