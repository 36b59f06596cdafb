package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op"))

	RecordDBQuery("test_op", time.Millisecond, nil)
	RecordDBQuery("test_op", time.Millisecond, errors.New("database is locked"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op")) - before; got != 1 {
		t.Errorf("error counter delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))

	RecordAPIRequest("GET", "/api/movies", "200", 3*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/movies", "200")) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestDomainCounters(t *testing.T) {
	reviewsBefore := testutil.ToFloat64(ReviewsSubmitted.WithLabelValues("duplicate"))
	importBefore := testutil.ToFloat64(MoviesImported.WithLabelValues("seed"))

	RecordReview("duplicate")
	RecordImport("seed", 8)

	if got := testutil.ToFloat64(ReviewsSubmitted.WithLabelValues("duplicate")) - reviewsBefore; got != 1 {
		t.Errorf("review counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(MoviesImported.WithLabelValues("seed")) - importBefore; got != 8 {
		t.Errorf("import counter delta = %v, want 8", got)
	}
}
