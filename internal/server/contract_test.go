package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"

	"github.com/chatlens/chatlens/internal/handler"
	"github.com/chatlens/chatlens/internal/middleware"
	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/service"
)

var (
	specOnce sync.Once
	spec     *openapi3.T
	specErr  error
)

// loadSpec loads and validates docs/api/openapi.yaml once per test binary.
func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()

	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		spec, specErr = loader.LoadFromFile(filepath.Join("..", "..", "docs", "api", "openapi.yaml"))
		if specErr == nil {
			specErr = spec.Validate(context.Background())
		}
	})
	if specErr != nil {
		t.Fatalf("OpenAPI spec invalid: %v", specErr)
	}
	return spec
}

// contractReports returns fully populated values so every documented
// required field is present.
type contractReports struct {
	err error
}

var contractTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func (c contractReports) CreateReport(ctx context.Context, in service.CreateReportInput) (*service.CreateReportOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &service.CreateReportOutput{
		Report:     &model.Report{ID: routerReportID, ExpiresAt: contractTime, Anonymized: in.Anonymize},
		Teaser:     model.Teaser{TopInitiator: &model.TopInitiator{User: "Ana", Count: 4}, LoveCount: 2},
		ParseStats: model.ParseStats{TotalLines: 12, Messages: 10, Participants: 2, SystemFiltered: 1, Unparsed: 1},
	}, nil
}

func (c contractReports) GetReport(ctx context.Context, id string) (*model.Report, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.Report{
		ID:           id,
		Metrics:      &model.Metrics{Participants: []string{"Ana", "Bob"}, TotalMessages: 10},
		Participants: []string{"Ana", "Bob"},
		CreatedAt:    contractTime.Add(-time.Hour),
		ExpiresAt:    contractTime,
	}, nil
}

func (c contractReports) Teaser(ctx context.Context, id string) (model.Teaser, error) {
	if c.err != nil {
		return model.Teaser{}, c.err
	}
	return model.Teaser{}, nil
}

func (c contractReports) Share(ctx context.Context, id string, v model.ShareVariant) (*service.ShareOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &service.ShareOutput{Token: "eyJ9.abc", ExpiresAt: contractTime}, nil
}

func (c contractReports) Shared(ctx context.Context, token string) (*service.SharedReport, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &service.SharedReport{
		ReportID:      routerReportID,
		Variant:       model.SharePro,
		TotalMessages: 10,
		Participants:  []string{"Ana", "Bob"},
		Badges:        []model.Badge{{Badge: "El Bromista", User: "Ana", Description: "Más de 10 risas"}},
		Metrics:       &model.Metrics{Participants: []string{"Ana", "Bob"}, TotalMessages: 10},
	}, nil
}

func contractRouter(svc handler.ReportService) http.Handler {
	logger := discardLogger()
	return NewRouter(RouterConfig{
		Logger:        logger,
		Version:       "contract",
		Health:        handler.NewHealthHandler(nil, nil, logger),
		Reports:       handler.NewReportHandler(svc, logger),
		CORS:          middleware.DefaultCORSConfig(),
		MaxUploadSize: 1 << 20,
		RateLimit:     middleware.RateLimitConfig{Logger: logger},
	})
}

func TestOpenAPISpecValid(t *testing.T) {
	t.Parallel()

	s := loadSpec(t)

	for _, path := range []string{
		"/healthz",
		"/readyz",
		"/api/v1/reports",
		"/api/v1/reports/{id}",
		"/api/v1/reports/{id}/teaser",
		"/api/v1/reports/{id}/share",
		"/api/v1/shared/{token}",
	} {
		if s.Paths.Find(path) == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}
}

func TestResponsesMatchSpec(t *testing.T) {
	t.Parallel()

	s := loadSpec(t)

	tests := []struct {
		name       string
		svc        handler.ReportService
		method     string
		target     string
		pattern    string
		body       func(t *testing.T) (io.Reader, string)
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, target: "/healthz", pattern: "/healthz", wantStatus: http.StatusOK},
		{name: "readyz", method: http.MethodGet, target: "/readyz", pattern: "/readyz", wantStatus: http.StatusOK},
		{name: "hello", method: http.MethodGet, target: "/", pattern: "/", wantStatus: http.StatusOK},
		{
			name: "create report", method: http.MethodPost,
			target: "/api/v1/reports?anonymize=true", pattern: "/api/v1/reports",
			body: multipartBody, wantStatus: http.StatusCreated,
		},
		{
			name: "create report without messages", svc: contractReports{err: service.ErrNoMessages},
			method: http.MethodPost, target: "/api/v1/reports", pattern: "/api/v1/reports",
			body: multipartBody, wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "get report", method: http.MethodGet,
			target: "/api/v1/reports/" + routerReportID, pattern: "/api/v1/reports/{id}",
			wantStatus: http.StatusOK,
		},
		{
			name: "expired report", svc: contractReports{err: service.ErrReportExpired},
			method: http.MethodGet, target: "/api/v1/reports/" + routerReportID, pattern: "/api/v1/reports/{id}",
			wantStatus: http.StatusGone,
		},
		{
			name: "invalid report id", method: http.MethodGet,
			target: "/api/v1/reports/nope", pattern: "/api/v1/reports/{id}",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "teaser with no initiator", method: http.MethodGet,
			target: "/api/v1/reports/" + routerReportID + "/teaser", pattern: "/api/v1/reports/{id}/teaser",
			wantStatus: http.StatusOK,
		},
		{
			name: "share", method: http.MethodPost,
			target: "/api/v1/reports/" + routerReportID + "/share", pattern: "/api/v1/reports/{id}/share",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"variant":"free"}`), "application/json"
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "shared", method: http.MethodGet,
			target: "/api/v1/shared/eyJ9.abc", pattern: "/api/v1/shared/{token}",
			wantStatus: http.StatusOK,
		},
		{
			name: "shared token expired", svc: contractReports{err: service.ErrShareTokenExpired},
			method: http.MethodGet, target: "/api/v1/shared/eyJ9.abc", pattern: "/api/v1/shared/{token}",
			wantStatus: http.StatusGone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := tt.svc
			if svc == nil {
				svc = contractReports{}
			}

			var body io.Reader
			contentType := ""
			if tt.body != nil {
				body, contentType = tt.body(t)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}

			rec := httptest.NewRecorder()
			contractRouter(svc).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			pathItem := s.Paths.Find(tt.pattern)
			if pathItem == nil {
				t.Fatalf("path %s not documented", tt.pattern)
			}
			operation := pathItem.GetOperation(tt.method)
			if operation == nil {
				t.Fatalf("%s %s not documented", tt.method, tt.pattern)
			}

			input := &openapi3filter.ResponseValidationInput{
				RequestValidationInput: &openapi3filter.RequestValidationInput{
					Request: req,
					Route: &routers.Route{
						Spec:      s,
						Path:      tt.pattern,
						PathItem:  pathItem,
						Method:    tt.method,
						Operation: operation,
					},
				},
				Status: rec.Code,
				Header: rec.Header(),
				Body:   io.NopCloser(bytes.NewReader(rec.Body.Bytes())),
				Options: &openapi3filter.Options{
					IncludeResponseStatus: true,
				},
			}
			if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
				t.Errorf("response does not match spec: %v\nbody: %s", err, rec.Body.String())
			}
		})
	}
}

func multipartBody(t *testing.T) (io.Reader, string) {
	t.Helper()

	req := upload(t)
	return req.Body, req.Header.Get("Content-Type")
}
