package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/observability"
)

func setupTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q: expected Sum[int64] data type", name)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func testDoc(status document.Status) *document.Document {
	submitted := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	decided := submitted.Add(90 * time.Second)
	doc := &document.Document{
		ID:          1,
		Submitter:   "submitter",
		Category:    "legal",
		Status:      status,
		SubmittedAt: submitted,
	}
	if status.Terminal() {
		doc.DecidedAt = &decided
	}
	return doc
}

func TestMetricsExtension_Name(t *testing.T) {
	e := observability.NewMetricsExtension()
	if e.Name() != "observability-metrics" {
		t.Errorf("Name() = %q, want %q", e.Name(), "observability-metrics")
	}
}

func TestMetricsExtension_Submitted(t *testing.T) {
	reader, mp := setupTestMeter()
	e := observability.NewMetricsExtensionWithMeter(mp.Meter("test"))

	if err := e.OnDocumentSubmitted(context.Background(), testDoc(document.StatusPending)); err != nil {
		t.Fatalf("OnDocumentSubmitted: %v", err)
	}

	rm := collectMetrics(t, reader)
	if got := counterValue(t, rm, "chainsign.document.submitted"); got != 1 {
		t.Errorf("submitted = %d, want 1", got)
	}
}

func TestMetricsExtension_Approvals(t *testing.T) {
	reader, mp := setupTestMeter()
	e := observability.NewMetricsExtensionWithMeter(mp.Meter("test"))
	ctx := context.Background()

	if err := e.OnDocumentApproved(ctx, testDoc(document.StatusPending), "alice", false); err != nil {
		t.Fatalf("OnDocumentApproved: %v", err)
	}
	if err := e.OnDocumentApproved(ctx, testDoc(document.StatusApproved), "bob", true); err != nil {
		t.Fatalf("OnDocumentApproved(final): %v", err)
	}

	rm := collectMetrics(t, reader)
	if got := counterValue(t, rm, "chainsign.document.approvals"); got != 2 {
		t.Errorf("approvals = %d, want 2", got)
	}

	// The final approval also records turnaround.
	m := findMetric(rm, "chainsign.document.turnaround")
	if m == nil {
		t.Fatal("chainsign.document.turnaround metric not found")
	}
	hist, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected Histogram[float64] data type")
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 1 {
		t.Errorf("turnaround datapoints = %+v, want one recording", hist.DataPoints)
	}
	if got := hist.DataPoints[0].Sum; got != 90 {
		t.Errorf("turnaround sum = %v, want 90", got)
	}
}

func TestMetricsExtension_Rejected(t *testing.T) {
	reader, mp := setupTestMeter()
	e := observability.NewMetricsExtensionWithMeter(mp.Meter("test"))

	if err := e.OnDocumentRejected(context.Background(), testDoc(document.StatusRejected), "bob"); err != nil {
		t.Fatalf("OnDocumentRejected: %v", err)
	}

	rm := collectMetrics(t, reader)
	if got := counterValue(t, rm, "chainsign.document.rejected"); got != 1 {
		t.Errorf("rejected = %d, want 1", got)
	}
	if m := findMetric(rm, "chainsign.document.turnaround"); m == nil {
		t.Error("turnaround not recorded on rejection")
	}
}

func TestMetricsExtension_Denied(t *testing.T) {
	reader, mp := setupTestMeter()
	e := observability.NewMetricsExtensionWithMeter(mp.Meter("test"))

	err := e.OnDecisionDenied(context.Background(), 1, chainsign.Identity("mallory"), errors.New("denied"))
	if err != nil {
		t.Fatalf("OnDecisionDenied: %v", err)
	}

	rm := collectMetrics(t, reader)
	if got := counterValue(t, rm, "chainsign.decision.denied"); got != 1 {
		t.Errorf("denied = %d, want 1", got)
	}
}
