// Package observability provides an OpenTelemetry metrics extension for
// ChainSign. The MetricsExtension implements lifecycle hooks to record
// system-wide counters for submissions, approvals, rejections, denied
// attempts, and document turnaround time.
//
// For per-operation tracing, see middleware.Tracing().
package observability
