package metrics

import (
	"time"

	"github.com/chatlens/chatlens/internal/model"
)

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveAnalysisDuration is a no-op.
func (n *NoopRecorder) ObserveAnalysisDuration(duration time.Duration) {}

// IncAnalysisTimeout is a no-op.
func (n *NoopRecorder) IncAnalysisTimeout() {}

// ObserveParseStats is a no-op.
func (n *NoopRecorder) ObserveParseStats(stats model.ParseStats) {}

// IncReportCreated is a no-op.
func (n *NoopRecorder) IncReportCreated(anonymized bool) {}

// IncReportServed is a no-op.
func (n *NoopRecorder) IncReportServed(source string) {}

// IncReportExpired is a no-op.
func (n *NoopRecorder) IncReportExpired() {}

// AddReportsCleaned is a no-op.
func (n *NoopRecorder) AddReportsCleaned(count int64) {}

// IncShareIssued is a no-op.
func (n *NoopRecorder) IncShareIssued(variant string) {}

// IncShareVerified is a no-op.
func (n *NoopRecorder) IncShareVerified(status string) {}
