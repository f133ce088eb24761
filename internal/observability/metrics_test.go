package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/users", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObservePackageUpload("stored", 3, time.Second)
	m.IncEventPublished("enrollment.created", true)
	if err := m.RegisterDBStats(nil, "x"); err != nil {
		t.Fatalf("RegisterDBStats on nil: %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil metrics handler: got %d", rec.Code)
	}
	if Init(false) != nil {
		t.Fatalf("Init(false) should return nil")
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/statement", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/statement", "200", 30*time.Millisecond)
	m.ObservePackageUpload("stored", 12, time.Second)
	m.ObservePackageUpload("rejected", 0, time.Millisecond)
	m.IncEventPublished("statement.recorded", false)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", "/api/statement", "200")); got != 2 {
		t.Fatalf("api requests: want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.packageUploads.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("rejected uploads: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues("statement.recorded", "error")); got != 1 {
		t.Fatalf("event errors: want 1 got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics handler: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cmi5_package_uploads_total") {
		t.Fatalf("exposition missing package counter")
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders(" api-key = abc , bad, =x, tenant=t1 ")
	if len(h) != 2 || h["api-key"] != "abc" || h["tenant"] != "t1" {
		t.Fatalf("unexpected headers: %v", h)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 || clampRatio(2) != 1 || clampRatio(0.25) != 0.25 {
		t.Fatalf("clampRatio out of range")
	}
}
