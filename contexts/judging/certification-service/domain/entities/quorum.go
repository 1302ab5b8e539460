package entities

import "time"

type RequestKind string

const (
	RequestKindScoreRemoval         RequestKind = "SCORE_REMOVAL"
	RequestKindJudgeUncertification RequestKind = "JUDGE_UNCERTIFICATION"
)

func (k RequestKind) Valid() bool {
	return k == RequestKindScoreRemoval || k == RequestKindJudgeUncertification
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// QuorumSignature fills one role slot on a request.
type QuorumSignature struct {
	SignerID      string
	SignatureName string
	Fingerprint   string
	SignedAt      time.Time
}

// QuorumRequest is a score removal or judge uncertification that needs the
// Auditor, Tally Master and Board to co-sign before it can be executed.
type QuorumRequest struct {
	RequestID       string
	Kind            RequestKind
	TenantID        string
	JudgeID         string
	CategoryID      string
	ContestantID    string
	Reason          string
	RequestedBy     string
	RequestedByRole Role
	Status          RequestStatus

	AuditorSignature *QuorumSignature
	TallySignature   *QuorumSignature
	BoardSignature   *QuorumSignature

	RejectedBy     string
	RejectedReason string
	RejectedAt     *time.Time

	ExecutedAt     *time.Time
	ExecutionCount int
	AffectedTotal  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the signature slot owned by role. Roles without a slot report
// false.
func (r *QuorumRequest) Slot(role Role) (**QuorumSignature, bool) {
	switch role {
	case RoleAuditor:
		return &r.AuditorSignature, true
	case RoleTallyMaster:
		return &r.TallySignature, true
	case RoleBoard:
		return &r.BoardSignature, true
	default:
		return nil, false
	}
}

func (r QuorumRequest) AllSigned() bool {
	return r.AuditorSignature != nil && r.TallySignature != nil && r.BoardSignature != nil
}

// Scope is the score predicate the request executes against.
func (r QuorumRequest) Scope() ScoreScope {
	return ScoreScope{
		CategoryID:   r.CategoryID,
		JudgeID:      r.JudgeID,
		ContestantID: r.ContestantID,
	}
}

// RequestFilter narrows request listings. Empty fields match everything
// except TenantID, which always scopes the listing.
type RequestFilter struct {
	Kind       RequestKind
	CategoryID string
	Status     RequestStatus
	TenantID   string
}

func (f RequestFilter) Matches(request QuorumRequest) bool {
	if f.Kind != "" && request.Kind != f.Kind {
		return false
	}
	if f.CategoryID != "" && request.CategoryID != f.CategoryID {
		return false
	}
	if f.Status != "" && request.Status != f.Status {
		return false
	}
	return request.TenantID == f.TenantID
}
