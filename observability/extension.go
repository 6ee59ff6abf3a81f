package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/ext"
)

// meterName is the instrumentation scope name for chainsign metrics.
const meterName = "github.com/numboxia/chainsign/observability"

// Compile-time interface checks.
var (
	_ ext.Extension         = (*MetricsExtension)(nil)
	_ ext.DocumentSubmitted = (*MetricsExtension)(nil)
	_ ext.DocumentApproved  = (*MetricsExtension)(nil)
	_ ext.DocumentRejected  = (*MetricsExtension)(nil)
	_ ext.DecisionDenied    = (*MetricsExtension)(nil)
)

// MetricsExtension records document lifecycle metrics. Register it with
// the engine to automatically track submission rates, approvals,
// completions, rejections, denied attempts, and end-to-end turnaround
// of decided documents.
//
// Instruments:
//   - chainsign.document.submitted (Int64Counter)
//   - chainsign.document.approvals (Int64Counter): every approval,
//     with attribute final ("true" for the completing one)
//   - chainsign.document.rejected (Int64Counter)
//   - chainsign.decision.denied (Int64Counter)
//   - chainsign.document.turnaround (Float64Histogram): submission to
//     terminal decision, in seconds, with attribute status
type MetricsExtension struct {
	submitted  metric.Int64Counter
	approvals  metric.Int64Counter
	rejected   metric.Int64Counter
	denied     metric.Int64Counter
	turnaround metric.Float64Histogram
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider. If no MeterProvider is configured, noop instruments
// are used and the extension becomes a pass-through.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter. This variant allows injecting a specific
// MeterProvider for testing.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	// Instruments are created once here; on error the OTel API returns
	// noop instruments so the extension degrades gracefully.
	submitted, _ := meter.Int64Counter(
		"chainsign.document.submitted",
		metric.WithDescription("Total number of submitted documents"),
		metric.WithUnit("{document}"),
	)
	approvals, _ := meter.Int64Counter(
		"chainsign.document.approvals",
		metric.WithDescription("Total number of recorded approvals"),
		metric.WithUnit("{approval}"),
	)
	rejected, _ := meter.Int64Counter(
		"chainsign.document.rejected",
		metric.WithDescription("Total number of rejected documents"),
		metric.WithUnit("{document}"),
	)
	denied, _ := meter.Int64Counter(
		"chainsign.decision.denied",
		metric.WithDescription("Total number of denied decision attempts"),
		metric.WithUnit("{attempt}"),
	)
	turnaround, _ := meter.Float64Histogram(
		"chainsign.document.turnaround",
		metric.WithDescription("Time from submission to terminal decision in seconds"),
		metric.WithUnit("s"),
	)

	return &MetricsExtension{
		submitted:  submitted,
		approvals:  approvals,
		rejected:   rejected,
		denied:     denied,
		turnaround: turnaround,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnDocumentSubmitted implements ext.DocumentSubmitted.
func (m *MetricsExtension) OnDocumentSubmitted(ctx context.Context, doc *document.Document) error {
	m.submitted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", doc.Category),
	))
	return nil
}

// OnDocumentApproved implements ext.DocumentApproved.
func (m *MetricsExtension) OnDocumentApproved(ctx context.Context, doc *document.Document, _ chainsign.Identity, final bool) error {
	m.approvals.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("final", final),
	))
	if final {
		m.recordTurnaround(ctx, doc)
	}
	return nil
}

// OnDocumentRejected implements ext.DocumentRejected.
func (m *MetricsExtension) OnDocumentRejected(ctx context.Context, doc *document.Document, _ chainsign.Identity) error {
	m.rejected.Add(ctx, 1)
	m.recordTurnaround(ctx, doc)
	return nil
}

// OnDecisionDenied implements ext.DecisionDenied.
func (m *MetricsExtension) OnDecisionDenied(ctx context.Context, _ uint64, _ chainsign.Identity, _ error) error {
	m.denied.Add(ctx, 1)
	return nil
}

func (m *MetricsExtension) recordTurnaround(ctx context.Context, doc *document.Document) {
	if doc.DecidedAt == nil {
		return
	}
	elapsed := doc.DecidedAt.Sub(doc.SubmittedAt).Seconds()
	m.turnaround.Record(ctx, elapsed, metric.WithAttributes(
		attribute.String("status", string(doc.Status)),
	))
}
