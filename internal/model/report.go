package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultReportTTL is how long a stored report stays readable.
const DefaultReportTTL = 24 * time.Hour

// Report is a stored analysis result.
type Report struct {
	ID           string    `json:"id"`
	Metrics      *Metrics  `json:"metrics"`
	Participants []string  `json:"participants"`
	Anonymized   bool      `json:"anonymized"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// IsExpired reports whether the report is past its expiry at now.
func (r *Report) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// ShareVariant selects how much of a report a share link reveals.
type ShareVariant string

const (
	ShareFree ShareVariant = "free"
	SharePro  ShareVariant = "pro"
)

// IsValid checks if the share variant is known.
func (v ShareVariant) IsValid() bool {
	return v == ShareFree || v == SharePro
}

// CachedReport is a report as stored in a Redis hash.
type CachedReport struct {
	Metrics      string `redis:"metrics"`      // JSON-encoded Metrics
	Participants string `redis:"participants"` // JSON-encoded []string
	Anonymized   string `redis:"anonymized"`   // "1" or "0"
	CreatedAt    string `redis:"created_at"`   // Unix millis
	ExpiresAt    string `redis:"expires_at"`   // Unix millis
}

// ToCachedReport converts a Report to its cached form.
func (r *Report) ToCachedReport() (*CachedReport, error) {
	metricsJSON, err := json.Marshal(r.Metrics)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	participantsJSON, err := json.Marshal(r.Participants)
	if err != nil {
		return nil, fmt.Errorf("encode participants: %w", err)
	}

	return &CachedReport{
		Metrics:      string(metricsJSON),
		Participants: string(participantsJSON),
		Anonymized:   boolToString(r.Anonymized),
		CreatedAt:    strconv.FormatInt(r.CreatedAt.UnixMilli(), 10),
		ExpiresAt:    strconv.FormatInt(r.ExpiresAt.UnixMilli(), 10),
	}, nil
}

// ToReport converts a CachedReport back to a Report.
func (c *CachedReport) ToReport(id string) (*Report, error) {
	report := &Report{
		ID:         id,
		Anonymized: c.Anonymized == "1",
	}

	if err := json.Unmarshal([]byte(c.Metrics), &report.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if c.Participants != "" {
		if err := json.Unmarshal([]byte(c.Participants), &report.Participants); err != nil {
			return nil, fmt.Errorf("decode participants: %w", err)
		}
	}

	createdAt, err := strconv.ParseInt(c.CreatedAt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(c.ExpiresAt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode expires_at: %w", err)
	}
	report.CreatedAt = time.UnixMilli(createdAt).UTC()
	report.ExpiresAt = time.UnixMilli(expiresAt).UTC()

	return report, nil
}

// boolToString converts boolean to "1" or "0".
func boolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
