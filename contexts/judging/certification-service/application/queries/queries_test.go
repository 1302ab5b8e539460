package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"verdict/contexts/judging/certification-service/adapters/memory"
	"verdict/contexts/judging/certification-service/domain/entities"
	domainerrors "verdict/contexts/judging/certification-service/domain/errors"
	"verdict/contexts/judging/certification-service/ports"
)

var errScoresUnavailable = errors.New("scores unavailable")

// flakyScores fails score reads for one category.
type flakyScores struct {
	*memory.Store
	failCategoryID string
}

func (f flakyScores) ListScores(ctx context.Context, categoryID string) ([]entities.Score, error) {
	if categoryID == f.failCategoryID {
		return nil, errScoresUnavailable
	}
	return f.Store.ListScores(ctx, categoryID)
}

func seedScore(t *testing.T, store *memory.Store, categoryID string, criterionID string, contestantID string, value float64) {
	t.Helper()
	err := store.CreateScore(context.Background(), entities.Score{
		ScoreID:      categoryID + "-" + criterionID + "-" + contestantID,
		JudgeID:      "judge-a",
		ContestantID: contestantID,
		CategoryID:   categoryID,
		CriterionID:  criterionID,
		Value:        &value,
		CreatedAt:    time.Now().UTC(),
	}, []ports.EventEnvelope{})
	if err != nil {
		t.Fatalf("seed score: %v", err)
	}
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.SetEvent(entities.Event{EventID: "event-1", TenantID: "tenant-1"})
	store.SetContest(entities.Contest{ContestID: "contest-1", EventID: "event-1", TenantID: "tenant-1", Name: "Finals"})
	store.SetContest(entities.Contest{ContestID: "contest-2", EventID: "event-1", TenantID: "tenant-1", Name: "Prelims"})
	for _, categoryID := range []string{"gown", "talent", "interview", "swimwear"} {
		store.SetCategory(entities.Category{CategoryID: categoryID, ContestID: "contest-1", TenantID: "tenant-1", Name: categoryID})
	}
	store.SetCategory(entities.Category{CategoryID: "walk", ContestID: "contest-2", TenantID: "tenant-1", Name: "walk"})
	store.SetCriterion(entities.Criterion{CriterionID: "gown-c1", CategoryID: "gown", MaxScore: 100})
	store.SetCriterion(entities.Criterion{CriterionID: "talent-c1", CategoryID: "talent", MaxScore: 50})
	store.SetCriterion(entities.Criterion{CriterionID: "swimwear-c1", CategoryID: "swimwear", MaxScore: 10})
	store.SetCriterion(entities.Criterion{CriterionID: "walk-c1", CategoryID: "walk", MaxScore: 10})

	seedScore(t, store, "gown", "gown-c1", "007", 88)
	seedScore(t, store, "gown", "gown-c1", "011", 70)
	seedScore(t, store, "talent", "talent-c1", "011", 45)
	seedScore(t, store, "swimwear", "swimwear-c1", "007", 9)
	seedScore(t, store, "walk", "walk-c1", "007", 5)
	return store
}

func TestContestStandingsSkipsFailingCategories(t *testing.T) {
	store := seededStore(t)
	uc := StandingsUseCase{
		Catalog: store,
		Scores:  flakyScores{Store: store, failCategoryID: "swimwear"},
		Ledger:  store,
		FanOut:  2,
	}

	standings, err := uc.ContestStandings(context.Background(), "contest-1", entities.RoleAdmin, false)
	if err != nil {
		t.Fatalf("contest standings: %v", err)
	}
	if len(standings.CategoriesSkipped) != 2 {
		t.Fatalf("expected interview and swimwear skipped, got %+v", standings.CategoriesSkipped)
	}
	skipped := map[string]string{}
	for _, item := range standings.CategoriesSkipped {
		skipped[item.CategoryID] = item.Reason
	}
	if skipped["interview"] != domainerrors.ErrNoCriteria.Error() || skipped["swimwear"] != errScoresUnavailable.Error() {
		t.Fatalf("unexpected skip reasons %v", skipped)
	}
	if len(standings.CategoriesIncluded) != 2 {
		t.Fatalf("expected two included categories, got %v", standings.CategoriesIncluded)
	}
	if len(standings.Contestants) != 2 || standings.Contestants[0].ContestantID != "011" || standings.Contestants[0].TotalScore != 115 {
		t.Fatalf("unexpected contestant totals %+v", standings.Contestants)
	}
	if standings.Contestants[1].TotalPossibleScore != 100 {
		t.Fatalf("expected possible score of the categories 007 entered, got %v", standings.Contestants[1].TotalPossibleScore)
	}
}

func TestContestStandingsHidesUnsignedCategoriesFromJudges(t *testing.T) {
	store := seededStore(t)
	uc := StandingsUseCase{Catalog: store, Scores: store, Ledger: store}

	standings, err := uc.ContestStandings(context.Background(), "contest-1", entities.RoleJudge, true)
	if err != nil {
		t.Fatalf("contest standings: %v", err)
	}
	if len(standings.CategoriesIncluded) != 0 || len(standings.CategoriesHidden) != 3 {
		t.Fatalf("expected every computed category hidden, got included=%v hidden=%v",
			standings.CategoriesIncluded, standings.CategoriesHidden)
	}
	if len(standings.Contestants) != 0 {
		t.Fatalf("expected no contestant totals, got %+v", standings.Contestants)
	}
}

func TestEventStandingsCoversEveryContest(t *testing.T) {
	store := seededStore(t)
	uc := StandingsUseCase{Catalog: store, Scores: store, Ledger: store}

	standings, err := uc.EventStandings(context.Background(), "event-1", entities.RoleBoard, false)
	if err != nil {
		t.Fatalf("event standings: %v", err)
	}
	if len(standings.Contests) != 2 || len(standings.ContestsSkipped) != 0 {
		t.Fatalf("expected both contests, got %+v", standings)
	}

	if _, err := uc.EventStandings(context.Background(), "event-missing", entities.RoleBoard, false); !errors.Is(err, domainerrors.ErrEventNotFound) {
		t.Fatalf("expected missing event, got %v", err)
	}
}

func TestCertificationProgressReadsLedger(t *testing.T) {
	store := seededStore(t)
	_, err := store.InsertCategoryCertification(context.Background(), ports.CertificationWrite{
		Certification: entities.CategoryCertification{
			CertificationID: "cert-1",
			CategoryID:      "gown",
			Role:            entities.RoleAuditor,
			UserID:          "auditor-1",
			CertifiedAt:     time.Now().UTC(),
		},
	})
	if err != nil {
		t.Fatalf("seed certification: %v", err)
	}

	uc := ProgressUseCase{Catalog: store, Ledger: store}
	progress, err := uc.CertificationProgress(context.Background(), "gown")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress.Percent != 25 || len(progress.RolesCertified) != 1 || progress.RolesCertified[0] != entities.RoleAuditor {
		t.Fatalf("unexpected progress %+v", progress)
	}
	if progress.State != entities.StateScoring {
		t.Fatalf("expected scoring state while judges are outstanding, got %s", progress.State)
	}

	listing, err := uc.ListCertifications(context.Background(), "gown")
	if err != nil || len(listing.CategoryCertifications) != 1 || len(listing.JudgeCertifications) != 0 {
		t.Fatalf("unexpected listing %+v err=%v", listing, err)
	}
}

func TestListRequestsValidatesFilter(t *testing.T) {
	store := memory.NewStore()
	uc := RequestsUseCase{Quorum: store}

	if _, err := uc.ListRequests(context.Background(), entities.RequestFilter{Status: "DONE", TenantID: "tenant-1"}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := uc.ListRequests(context.Background(), entities.RequestFilter{Kind: "OTHER", TenantID: "tenant-1"}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid kind, got %v", err)
	}

	request := entities.QuorumRequest{
		RequestID:  "req-1",
		Kind:       entities.RequestKindScoreRemoval,
		TenantID:   "tenant-1",
		JudgeID:    "judge-a",
		CategoryID: "gown",
		Status:     entities.RequestStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.CreateRequest(context.Background(), request, nil); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	items, err := uc.ListRequests(context.Background(), entities.RequestFilter{TenantID: "tenant-1"})
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one request, got %d err=%v", len(items), err)
	}
	if _, err := uc.GetRequest(context.Background(), "req-1", "tenant-2"); !errors.Is(err, domainerrors.ErrRequestNotFound) {
		t.Fatalf("expected other tenant to see not found, got %v", err)
	}
}
