package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestKindNameClassifiesWrappedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("load: %w", ErrCategoryNotFound), want: "not_found"},
		{err: ErrNoScoresToCertify, want: "bad_request"},
		{err: ErrRoleForbidden, want: "forbidden"},
		{err: ErrDuplicateScore, want: "conflict"},
		{err: errors.New("connection reset"), want: "internal"},
	}
	for _, tc := range cases {
		if got := KindName(tc.err); got != tc.want {
			t.Fatalf("KindName(%v): expected %s, got %s", tc.err, tc.want, got)
		}
	}
	if KindOf(errors.New("boom")) != nil {
		t.Fatalf("expected infrastructure error to have no kind")
	}
}

func TestCertificationConflictErrorUnwrapsToConflict(t *testing.T) {
	err := error(&CertificationConflictError{
		CategoryID:     "gown",
		Role:           "BOARD",
		ExistingUserID: "board-1",
		CertifiedAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrAlreadyCertified) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict chain, got %v", err)
	}
	want := "category gown already certified for role BOARD by board-1 at 2026-05-01T10:00:00Z"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
