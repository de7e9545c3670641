// Package metrics provides lightweight hooks for instrumentation.
package metrics

import (
	"time"

	"github.com/chatlens/chatlens/internal/model"
)

// Status labels shared by recorders.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusExpired = "expired"

	SourceCache = "cache"
	SourceDB    = "db"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Analysis metrics
	ObserveAnalysisDuration(duration time.Duration)
	IncAnalysisTimeout()
	ObserveParseStats(stats model.ParseStats)

	// Report lifecycle metrics
	IncReportCreated(anonymized bool)
	IncReportServed(source string) // source: "cache" or "db"
	IncReportExpired()
	AddReportsCleaned(n int64)

	// Share metrics
	IncShareIssued(variant string)
	IncShareVerified(status string) // status: "ok", "invalid", "expired"
}
