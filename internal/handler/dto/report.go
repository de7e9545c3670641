// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/service"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateReportResponse is returned by POST /api/v1/reports.
type CreateReportResponse struct {
	ID         string           `json:"id"`
	ExpiresAt  time.Time        `json:"expiresAt"`
	Anonymized bool             `json:"anonymized"`
	Teaser     model.Teaser     `json:"teaser"`
	ParseStats model.ParseStats `json:"parseStats"`
}

// ReportResponse is a full report.
type ReportResponse struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpiresAt  time.Time      `json:"expiresAt"`
	Anonymized bool           `json:"anonymized"`
	Metrics    *model.Metrics `json:"metrics"`
}

// ShareRequest is the body of POST /api/v1/reports/{id}/share.
type ShareRequest struct {
	Variant string `json:"variant"`
}

// ShareResponse carries a share token.
type ShareResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedResponse is what GET /api/v1/shared/{token} reveals. Metrics is
// omitted for the free variant.
type SharedResponse struct {
	ReportID      string         `json:"reportId"`
	Variant       string         `json:"variant"`
	Teaser        model.Teaser   `json:"teaser"`
	TotalMessages int            `json:"totalMessages"`
	Participants  []string       `json:"participants"`
	Badges        []model.Badge  `json:"badges"`
	Metrics       *model.Metrics `json:"metrics,omitempty"`
}

// ToCreateReportResponse converts an upload result.
func ToCreateReportResponse(out *service.CreateReportOutput) *CreateReportResponse {
	return &CreateReportResponse{
		ID:         out.Report.ID,
		ExpiresAt:  out.Report.ExpiresAt,
		Anonymized: out.Report.Anonymized,
		Teaser:     out.Teaser,
		ParseStats: out.ParseStats,
	}
}

// ToReportResponse converts a Report model to ReportResponse DTO.
func ToReportResponse(report *model.Report) *ReportResponse {
	return &ReportResponse{
		ID:         report.ID,
		CreatedAt:  report.CreatedAt,
		ExpiresAt:  report.ExpiresAt,
		Anonymized: report.Anonymized,
		Metrics:    report.Metrics,
	}
}

// ToShareResponse converts an issued token.
func ToShareResponse(out *service.ShareOutput) *ShareResponse {
	return &ShareResponse{Token: out.Token, ExpiresAt: out.ExpiresAt}
}

// ToSharedResponse converts a verified share view.
func ToSharedResponse(view *service.SharedReport) *SharedResponse {
	resp := &SharedResponse{
		ReportID:      view.ReportID,
		Variant:       string(view.Variant),
		Teaser:        view.Teaser,
		TotalMessages: view.TotalMessages,
		Participants:  view.Participants,
		Badges:        view.Badges,
		Metrics:       view.Metrics,
	}
	if resp.Participants == nil {
		resp.Participants = []string{}
	}
	if resp.Badges == nil {
		resp.Badges = []model.Badge{}
	}
	return resp
}
