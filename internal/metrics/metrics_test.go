package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordMarketFetch(t *testing.T) {
	before := testutil.ToFloat64(MarketFetches.WithLabelValues("error"))

	RecordMarketFetch(150*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(MarketFetches.WithLabelValues("error")); got != before+1 {
		t.Errorf("Expected error counter %v, got %v", before+1, got)
	}
}

func TestRecordCapacityRejection(t *testing.T) {
	before := testutil.ToFloat64(CapacityRejections.WithLabelValues("alerts"))

	RecordCapacityRejection("alerts")

	if got := testutil.ToFloat64(CapacityRejections.WithLabelValues("alerts")); got != before+1 {
		t.Errorf("Expected %v, got %v", before+1, got)
	}
}

func TestHandler(t *testing.T) {
	Init()
	Init()
	AlertsFired.Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "crypto_dashboard_alerts_fired_total") {
		t.Error("Expected alerts counter in exposition output")
	}
}
