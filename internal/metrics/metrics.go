// Package metrics defines the backend seam used to publish check-run
// metrics, and the canonical metric names backends are expected to accept.
// The analyzer emits through this interface; backends (see metrics/datadog)
// decide transport and naming on the wire.
package metrics

// Metric names emitted by the analyzer.
const (
	// MetricColumns counts analyzed columns.
	MetricColumns = "check_columns_total"

	// MetricFindings counts recorded findings, labeled column/pattern.
	MetricFindings = "check_findings_total"

	// MetricRareValues counts distinct rare values found, labeled
	// column/pattern.
	MetricRareValues = "check_rare_values_total"

	// MetricColumnDuration observes per-column analysis duration in seconds,
	// labeled column.
	MetricColumnDuration = "check_column_duration_seconds"
)

// Labels are metric tag key/values.
type Labels map[string]string

// Backend receives counter increments and histogram observations. Backends
// must be safe for concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Nop is a Backend that discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}

var _ Backend = Nop{}
