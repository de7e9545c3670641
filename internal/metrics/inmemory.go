package metrics

import (
	"sync/atomic"
	"time"

	"github.com/chatlens/chatlens/internal/model"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AnalysisCount       uint64
	AnalysisTotalNs     int64
	AnalysisTimeouts    uint64
	LinesParsed         uint64
	MessagesParsed      uint64
	LinesSystemFiltered uint64
	LinesUnparsed       uint64
	ReportsCreated      uint64
	ReportsAnonymized   uint64
	ReportsFromCache    uint64
	ReportsFromDB       uint64
	ReportsExpired      uint64
	ReportsCleaned      uint64
	SharesIssued        uint64
	SharesVerified      uint64
	SharesRejected      uint64
	SharesExpired       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	s Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		AnalysisCount:       atomic.LoadUint64(&m.s.AnalysisCount),
		AnalysisTotalNs:     atomic.LoadInt64(&m.s.AnalysisTotalNs),
		AnalysisTimeouts:    atomic.LoadUint64(&m.s.AnalysisTimeouts),
		LinesParsed:         atomic.LoadUint64(&m.s.LinesParsed),
		MessagesParsed:      atomic.LoadUint64(&m.s.MessagesParsed),
		LinesSystemFiltered: atomic.LoadUint64(&m.s.LinesSystemFiltered),
		LinesUnparsed:       atomic.LoadUint64(&m.s.LinesUnparsed),
		ReportsCreated:      atomic.LoadUint64(&m.s.ReportsCreated),
		ReportsAnonymized:   atomic.LoadUint64(&m.s.ReportsAnonymized),
		ReportsFromCache:    atomic.LoadUint64(&m.s.ReportsFromCache),
		ReportsFromDB:       atomic.LoadUint64(&m.s.ReportsFromDB),
		ReportsExpired:      atomic.LoadUint64(&m.s.ReportsExpired),
		ReportsCleaned:      atomic.LoadUint64(&m.s.ReportsCleaned),
		SharesIssued:        atomic.LoadUint64(&m.s.SharesIssued),
		SharesVerified:      atomic.LoadUint64(&m.s.SharesVerified),
		SharesRejected:      atomic.LoadUint64(&m.s.SharesRejected),
		SharesExpired:       atomic.LoadUint64(&m.s.SharesExpired),
	}
}

// ObserveAnalysisDuration records how long an analysis took.
func (m *InMemoryRecorder) ObserveAnalysisDuration(duration time.Duration) {
	atomic.AddUint64(&m.s.AnalysisCount, 1)
	atomic.AddInt64(&m.s.AnalysisTotalNs, duration.Nanoseconds())
}

// IncAnalysisTimeout increments the analysis timeout counter.
func (m *InMemoryRecorder) IncAnalysisTimeout() {
	atomic.AddUint64(&m.s.AnalysisTimeouts, 1)
}

// ObserveParseStats adds parser diagnostics to the line counters.
func (m *InMemoryRecorder) ObserveParseStats(stats model.ParseStats) {
	atomic.AddUint64(&m.s.LinesParsed, uint64(stats.TotalLines))
	atomic.AddUint64(&m.s.MessagesParsed, uint64(stats.Messages))
	atomic.AddUint64(&m.s.LinesSystemFiltered, uint64(stats.SystemFiltered))
	atomic.AddUint64(&m.s.LinesUnparsed, uint64(stats.Unparsed))
}

// IncReportCreated increments the report created counter.
func (m *InMemoryRecorder) IncReportCreated(anonymized bool) {
	atomic.AddUint64(&m.s.ReportsCreated, 1)
	if anonymized {
		atomic.AddUint64(&m.s.ReportsAnonymized, 1)
	}
}

// IncReportServed counts a report read by where it came from.
func (m *InMemoryRecorder) IncReportServed(source string) {
	if source == SourceCache {
		atomic.AddUint64(&m.s.ReportsFromCache, 1)
		return
	}
	atomic.AddUint64(&m.s.ReportsFromDB, 1)
}

// IncReportExpired increments the lazily expired counter.
func (m *InMemoryRecorder) IncReportExpired() {
	atomic.AddUint64(&m.s.ReportsExpired, 1)
}

// AddReportsCleaned adds n to the cleanup counter.
func (m *InMemoryRecorder) AddReportsCleaned(n int64) {
	if n > 0 {
		atomic.AddUint64(&m.s.ReportsCleaned, uint64(n))
	}
}

// IncShareIssued increments the share issued counter.
func (m *InMemoryRecorder) IncShareIssued(variant string) {
	atomic.AddUint64(&m.s.SharesIssued, 1)
}

// IncShareVerified counts a share token check by outcome.
func (m *InMemoryRecorder) IncShareVerified(status string) {
	switch status {
	case StatusOK:
		atomic.AddUint64(&m.s.SharesVerified, 1)
	case StatusExpired:
		atomic.AddUint64(&m.s.SharesExpired, 1)
	default:
		atomic.AddUint64(&m.s.SharesRejected, 1)
	}
}
