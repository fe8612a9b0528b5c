package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	plannerTurnsTotal       atomic.Uint64
	plannerTransitionsTotal atomic.Uint64
	plannerRejectionsTotal  atomic.Uint64
	fragmentsDegradedTotal  atomic.Uint64
	narratorFailuresTotal   atomic.Uint64
	chatAnswersTotal        atomic.Uint64

	narratorDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPlannerTurn counts every planner turn handled, accepted or not.
func IncPlannerTurn() {
	plannerTurnsTotal.Add(1)
}

// IncPlannerTransition counts accepted transitions (one per history event).
func IncPlannerTransition() {
	plannerTransitionsTotal.Add(1)
}

// IncPlannerRejection counts answers rejected by validation.
func IncPlannerRejection() {
	plannerRejectionsTotal.Add(1)
}

// IncFragmentsDegraded counts turns that fell back to title-only evidence.
func IncFragmentsDegraded() {
	fragmentsDegradedTotal.Add(1)
}

// IncNarratorFailure counts failed plan narrations.
func IncNarratorFailure() {
	narratorFailuresTotal.Add(1)
}

// IncChatAnswer counts answered plain chat turns.
func IncChatAnswer() {
	chatAnswersTotal.Add(1)
}

// ObserveNarratorDurationMs records a narrator call duration in milliseconds.
func ObserveNarratorDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	narratorDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "planner_turns_total", "Total planner turns handled", plannerTurnsTotal.Load())
	writeCounter(&buf, "planner_transitions_total", "Total accepted planner transitions", plannerTransitionsTotal.Load())
	writeCounter(&buf, "planner_rejections_total", "Total planner answers rejected by validation", plannerRejectionsTotal.Load())
	writeCounter(&buf, "planner_fragments_degraded_total", "Total turns using title-only evidence", fragmentsDegradedTotal.Load())
	writeCounter(&buf, "narrator_failures_total", "Total failed plan narrations", narratorFailuresTotal.Load())
	writeCounter(&buf, "chat_answers_total", "Total answered chat turns", chatAnswersTotal.Load())
	writeHistogram(&buf, "narrator_duration_ms", "Narrator call duration in milliseconds", narratorDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
