package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesDomainSeries(t *testing.T) {
	IncIntakeRejected("file-too-large")
	IncIntakeRejected("file-too-large")
	IncExtractionStarted()
	IncExtractionCompleted()
	ObserveExtractionDurationMs(1200)
	IncExport()

	out := Render()
	for _, want := range []string{
		"# TYPE intake_rejected_total counter",
		`intake_rejected_total{code="file-too-large"}`,
		"extraction_started_total",
		"extraction_completed_total",
		"extraction_failed_total",
		`extraction_duration_ms_bucket{le="1500"}`,
		`extraction_duration_ms_bucket{le="+Inf"}`,
		"export_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	var cumulative uint64
	for _, c := range snap.counts {
		cumulative += c
	}
	if cumulative != 2 {
		t.Fatalf("expected 2 observations inside bounds, got %d", cumulative)
	}
}
