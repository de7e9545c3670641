// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chatlens/chatlens/internal/cache"
	"github.com/chatlens/chatlens/internal/export"
	"github.com/chatlens/chatlens/internal/metrics"
	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/repository"
	"github.com/chatlens/chatlens/internal/share"
	"github.com/chatlens/chatlens/internal/stats"
)

// Service errors.
var (
	ErrNoMessages        = errors.New("no messages found in chat export")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file is empty")
	ErrFileTooLarge      = errors.New("file too large")
	ErrReportNotFound    = errors.New("report not found")
	ErrReportExpired     = errors.New("report has expired")
	ErrAnalysisTimeout   = errors.New("analysis timed out")
	ErrInvalidShareToken = errors.New("invalid share token")
	ErrShareTokenExpired = errors.New("share token expired")
	ErrInvalidVariant    = errors.New("variant must be free or pro")
)

// DefaultAnalysisTimeout bounds a single parse and compute run.
const DefaultAnalysisTimeout = 30 * time.Second

// ReportStore persists reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// ReportCache is a read-through cache in front of ReportStore.
type ReportCache interface {
	GetReport(ctx context.Context, id string) (*model.Report, error)
	SetReport(ctx context.Context, report *model.Report) error
	DeleteReport(ctx context.Context, id string) error
	IsNegativelyCached(ctx context.Context, id string) (bool, error)
	SetNegativeCache(ctx context.Context, id string) error
}

// Config holds ReportService dependencies. Cache, Recorder, Logger and Now
// are optional.
type Config struct {
	Parser          *parser.Parser
	Engine          *stats.Engine
	Store           ReportStore
	Cache           ReportCache
	Signer          *share.Signer
	Recorder        metrics.Recorder
	Logger          *slog.Logger
	ReportTTL       time.Duration
	AnalysisTimeout time.Duration
	Now             func() time.Time
}

// ReportService turns uploaded exports into stored reports.
type ReportService struct {
	parser          *parser.Parser
	engine          *stats.Engine
	store           ReportStore
	cache           ReportCache
	signer          *share.Signer
	metrics         metrics.Recorder
	logger          *slog.Logger
	reportTTL       time.Duration
	analysisTimeout time.Duration
	now             func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(cfg Config) (*ReportService, error) {
	if cfg.Parser == nil || cfg.Engine == nil || cfg.Store == nil || cfg.Signer == nil {
		return nil, errors.New("report service requires parser, engine, store and signer")
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ReportTTL <= 0 {
		cfg.ReportTTL = model.DefaultReportTTL
	}
	if cfg.AnalysisTimeout <= 0 {
		cfg.AnalysisTimeout = DefaultAnalysisTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ReportService{
		parser:          cfg.Parser,
		engine:          cfg.Engine,
		store:           cfg.Store,
		cache:           cfg.Cache,
		signer:          cfg.Signer,
		metrics:         cfg.Recorder,
		logger:          cfg.Logger.With("component", "report.service"),
		reportTTL:       cfg.ReportTTL,
		analysisTimeout: cfg.AnalysisTimeout,
		now:             cfg.Now,
	}, nil
}

// Analysis is the result of parsing and computing one export.
type Analysis struct {
	Metrics    *model.Metrics
	ParseStats model.ParseStats
}

// Analyze parses raw chat text and computes its metrics. The work runs in a
// separate goroutine bounded by the analysis timeout; on timeout the result
// is discarded.
func (s *ReportService) Analyze(ctx context.Context, raw string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	start := time.Now()
	result := make(chan *Analysis, 1)
	go func() {
		chat, parseStats := s.parser.Parse(raw)
		if len(chat.Messages) == 0 {
			result <- &Analysis{ParseStats: parseStats}
			return
		}
		result <- &Analysis{
			Metrics:    s.engine.Compute(chat.Messages),
			ParseStats: parseStats,
		}
	}()

	select {
	case a := <-result:
		s.metrics.ObserveAnalysisDuration(time.Since(start))
		s.metrics.ObserveParseStats(a.ParseStats)
		if a.Metrics == nil {
			return a, ErrNoMessages
		}
		return a, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.metrics.IncAnalysisTimeout()
			s.logger.Warn("analysis timed out", "timeout", s.analysisTimeout)
			return nil, ErrAnalysisTimeout
		}
		return nil, ctx.Err()
	}
}

// CreateReportInput defines input for creating a report.
type CreateReportInput struct {
	Filename  string
	Data      []byte
	Anonymize bool
}

// CreateReportOutput is what an upload returns.
type CreateReportOutput struct {
	Report     *model.Report
	Teaser     model.Teaser
	ParseStats model.ParseStats
}

// CreateReport extracts, analyses and stores an uploaded export.
func (s *ReportService) CreateReport(ctx context.Context, input CreateReportInput) (*CreateReportOutput, error) {
	if len(input.Data) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := export.Extract(input.Filename, input.Data)
	if err != nil {
		return nil, mapExportError(err)
	}

	analysis, err := s.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	m := analysis.Metrics
	if input.Anonymize {
		m = stats.ApplyAliases(m, stats.BuildAliasMap(m.Participants))
	}

	now := s.now().UTC()
	report := &model.Report{
		ID:           ulid.Make().String(),
		Metrics:      m,
		Participants: m.Participants,
		Anonymized:   input.Anonymize,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.reportTTL),
	}

	if err := s.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	s.metrics.IncReportCreated(input.Anonymize)

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, report); err != nil {
			s.logger.Warn("failed to cache report", "report_id", report.ID, "error", err)
		}
	}

	s.logger.Info("report created",
		"report_id", report.ID,
		"messages", m.TotalMessages,
		"participants", len(m.Participants),
		"anonymized", input.Anonymize,
	)

	return &CreateReportOutput{
		Report:     report,
		Teaser:     stats.BuildTeaser(m),
		ParseStats: analysis.ParseStats,
	}, nil
}

// GetReport returns a live report. Cache first, then the store. An expired
// report is deleted on read and reported as ErrReportExpired.
func (s *ReportService) GetReport(ctx context.Context, id string) (*model.Report, error) {
	report, source, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if report.IsExpired(s.now()) {
		s.expire(ctx, id)
		return nil, ErrReportExpired
	}

	s.metrics.IncReportServed(source)
	return report, nil
}

func (s *ReportService) lookup(ctx context.Context, id string) (*model.Report, string, error) {
	if s.cache != nil {
		report, err := s.cache.GetReport(ctx, id)
		if err == nil {
			return report, metrics.SourceCache, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			if neg, _ := s.cache.IsNegativelyCached(ctx, id); neg {
				return nil, "", ErrReportNotFound
			}
		} else {
			s.logger.Warn("report cache unavailable", "report_id", id, "error", err)
		}
	}

	report, err := s.store.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			if s.cache != nil {
				_ = s.cache.SetNegativeCache(ctx, id)
			}
			return nil, "", ErrReportNotFound
		}
		return nil, "", fmt.Errorf("failed to load report: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, report); err != nil {
			s.logger.Warn("failed to backfill report cache", "report_id", id, "error", err)
		}
	}

	return report, metrics.SourceDB, nil
}

// expire removes an expired report from the store and cache.
func (s *ReportService) expire(ctx context.Context, id string) {
	s.metrics.IncReportExpired()

	if err := s.store.DeleteReport(ctx, id); err != nil && !errors.Is(err, repository.ErrReportNotFound) {
		s.logger.Warn("failed to delete expired report", "report_id", id, "error", err)
	}
	if s.cache != nil {
		_ = s.cache.DeleteReport(ctx, id)
		_ = s.cache.SetNegativeCache(ctx, id)
	}
}

// Teaser returns the public summary of a report.
func (s *ReportService) Teaser(ctx context.Context, id string) (model.Teaser, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return model.Teaser{}, err
	}
	return stats.BuildTeaser(report.Metrics), nil
}

// ShareOutput is a freshly issued share token.
type ShareOutput struct {
	Token     string
	ExpiresAt time.Time
}

// Share issues a signed token for a live report.
func (s *ReportService) Share(ctx context.Context, id string, variant model.ShareVariant) (*ShareOutput, error) {
	if !variant.IsValid() {
		return nil, ErrInvalidVariant
	}
	if _, err := s.GetReport(ctx, id); err != nil {
		return nil, err
	}

	token, payload, err := s.signer.Issue(id, variant)
	if err != nil {
		return nil, fmt.Errorf("failed to issue share token: %w", err)
	}
	s.metrics.IncShareIssued(string(variant))

	return &ShareOutput{Token: token, ExpiresAt: payload.ExpiresAt()}, nil
}

// SharedReport is what a share token reveals. Metrics is set only for the
// pro variant.
type SharedReport struct {
	ReportID      string
	Variant       model.ShareVariant
	Teaser        model.Teaser
	TotalMessages int
	Participants  []string
	Badges        []model.Badge
	Metrics       *model.Metrics
}

// Shared verifies a share token and loads the report it references.
func (s *ReportService) Shared(ctx context.Context, token string) (*SharedReport, error) {
	payload, err := s.signer.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, share.ErrTokenExpired):
			s.metrics.IncShareVerified(metrics.StatusExpired)
			return nil, ErrShareTokenExpired
		default:
			s.metrics.IncShareVerified(metrics.StatusInvalid)
			return nil, ErrInvalidShareToken
		}
	}
	s.metrics.IncShareVerified(metrics.StatusOK)

	report, err := s.GetReport(ctx, payload.ReportID)
	if err != nil {
		return nil, err
	}

	m := report.Metrics
	view := &SharedReport{
		ReportID:      report.ID,
		Variant:       payload.Variant,
		Teaser:        stats.BuildTeaser(m),
		TotalMessages: m.TotalMessages,
		Participants:  m.Participants,
		Badges:        m.Badges,
	}
	if payload.Variant == model.SharePro {
		view.Metrics = m
	}
	return view, nil
}

func mapExportError(err error) error {
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat), errors.Is(err, export.ErrNoChatFile):
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	case errors.Is(err, export.ErrEmptyText):
		return ErrEmptyFile
	case errors.Is(err, export.ErrEntryTooLarge):
		return ErrFileTooLarge
	default:
		return fmt.Errorf("failed to extract chat: %w", err)
	}
}
