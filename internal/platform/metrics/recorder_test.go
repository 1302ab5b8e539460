package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsCertificationsByOutcome(t *testing.T) {
	recorder := NewRecorder("test")
	recorder.ObserveCertification("BOARD", "ok")
	recorder.ObserveCertification("BOARD", "ok")
	recorder.ObserveCertification("BOARD", "conflict")

	if got := testutil.ToFloat64(recorder.certifications.WithLabelValues("BOARD", "ok")); got != 2 {
		t.Fatalf("expected 2 ok certifications, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.certifications.WithLabelValues("BOARD", "conflict")); got != 1 {
		t.Fatalf("expected 1 conflict certification, got %v", got)
	}
}

func TestRecorderTracksExecutionRows(t *testing.T) {
	recorder := NewRecorder("test")
	recorder.ObserveExecution("SCORE_REMOVAL", 3)
	recorder.ObserveExecution("SCORE_REMOVAL", 0)

	if got := testutil.ToFloat64(recorder.executions.WithLabelValues("SCORE_REMOVAL")); got != 2 {
		t.Fatalf("expected 2 executions, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.executedRows.WithLabelValues("SCORE_REMOVAL")); got != 3 {
		t.Fatalf("expected 3 affected rows, got %v", got)
	}
}

func TestRecorderHandlerExposesJudgingMetrics(t *testing.T) {
	recorder := NewRecorder("test")
	recorder.ObserveSkipped("contest")
	recorder.ObserveStandings("category", 5*time.Millisecond)
	recorder.ObserveSignature("winners", "JUDGE", "ok")

	rr := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{
		"test_judging_standings_skipped_total",
		"test_judging_standings_duration_seconds",
		"test_judging_signatures_total",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
