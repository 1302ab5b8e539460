package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind sentinels. Every error raised by this module is-a exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrEventNotFound     = newKindError(ErrNotFound, "event not found")
	ErrContestNotFound   = newKindError(ErrNotFound, "contest not found")
	ErrCategoryNotFound  = newKindError(ErrNotFound, "category not found")
	ErrCriterionNotFound = newKindError(ErrNotFound, "criterion not found")
	ErrJudgeNotFound     = newKindError(ErrNotFound, "judge not found")
	ErrRequestNotFound   = newKindError(ErrNotFound, "request not found")
	ErrOutboxNotFound    = newKindError(ErrNotFound, "outbox message not found")

	ErrInvalidInput          = newKindError(ErrBadRequest, "invalid input")
	ErrNoScoresToCertify     = newKindError(ErrBadRequest, "Cannot certify category with no scores")
	ErrNoCriteria            = newKindError(ErrBadRequest, "category has no criteria")
	ErrScoreOutOfRange       = newKindError(ErrBadRequest, "score value is outside the criterion range")
	ErrCategoryLocked        = newKindError(ErrBadRequest, "category is already certified by the board")
	ErrRequestAlreadyClosed  = newKindError(ErrBadRequest, "request is no longer pending")
	ErrNoSignatureSlot       = newKindError(ErrBadRequest, "role has no signature slot on this request")
	ErrSignatureSlotOccupied = newKindError(ErrBadRequest, "role has already signed this request")
	ErrRequestNotApproved    = newKindError(ErrBadRequest, "request is not approved")

	ErrRoleForbidden  = newKindError(ErrForbidden, "role is not allowed to perform this action")
	ErrTenantMismatch = newKindError(ErrForbidden, "resource belongs to another tenant")

	ErrAlreadyCertified      = newKindError(ErrConflict, "category already certified for role")
	ErrWinnersAlreadySigned  = newKindError(ErrConflict, "winners already signed by this user for role")
	ErrDuplicateScore        = newKindError(ErrConflict, "score already recorded for judge, contestant and criterion")
	ErrJudgeAlreadyCertified = newKindError(ErrConflict, "judge already certified scores for category")
	ErrOutboxConflict        = newKindError(ErrConflict, "outbox event id reused with a different payload")
)

type kindError struct {
	kind    error
	message string
}

func newKindError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func (e *kindError) Error() string {
	return e.message
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// CertificationConflictError names the certification already holding the
// (category, role) slot.
type CertificationConflictError struct {
	CategoryID     string
	Role           string
	ExistingUserID string
	CertifiedAt    time.Time
}

func (e *CertificationConflictError) Error() string {
	return fmt.Sprintf("category %s already certified for role %s by %s at %s",
		e.CategoryID,
		e.Role,
		e.ExistingUserID,
		e.CertifiedAt.UTC().Format(time.RFC3339),
	)
}

func (e *CertificationConflictError) Unwrap() error {
	return ErrAlreadyCertified
}

// KindOf returns the kind sentinel err belongs to, or nil for infrastructure
// failures.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrBadRequest, ErrForbidden, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is the stable label used in error bodies and metrics.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "not_found"
	case ErrBadRequest:
		return "bad_request"
	case ErrForbidden:
		return "forbidden"
	case ErrConflict:
		return "conflict"
	default:
		return "internal"
	}
}
