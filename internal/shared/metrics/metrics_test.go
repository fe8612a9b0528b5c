package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesPlannerCounters(t *testing.T) {
	before := plannerTransitionsTotal.Load()
	IncPlannerTurn()
	IncPlannerTransition()
	ObserveNarratorDurationMs(320)

	out := Render()
	for _, name := range []string{
		"planner_turns_total",
		"planner_transitions_total",
		"planner_rejections_total",
		"narrator_failures_total",
		"narrator_duration_ms_bucket{le=\"500\"}",
		"narrator_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output:\n%s", name, out)
		}
	}
	if plannerTransitionsTotal.Load() != before+1 {
		t.Fatalf("expected transition counter to increment")
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
}
