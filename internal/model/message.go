// Package model defines domain entities for the application.
package model

import "time"

// DayKeyLayout is the layout of Message.DayKey.
const DayKeyLayout = "2006-01-02"

// MonthKeyLayout is the layout of month buckets in the love timeline.
const MonthKeyLayout = "2006-01"

// Message is one conversational turn recovered from an export.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// DayKey is the calendar day of Timestamp in the parser's location.
	DayKey string `json:"dayKey"`
}

// UnixMilli returns the message timestamp in epoch milliseconds.
func (m Message) UnixMilli() int64 {
	return m.Timestamp.UnixMilli()
}

// Chat is the assembled result of parsing an export.
type Chat struct {
	// Participants in order of first appearance.
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
}

// ParseStats reports what the parser saw and discarded.
type ParseStats struct {
	TotalLines     int `json:"totalLines" yaml:"totalLines"`
	Messages       int `json:"messages" yaml:"messages"`
	Participants   int `json:"participants" yaml:"participants"`
	SystemFiltered int `json:"systemFiltered" yaml:"systemFiltered"`
	Unparsed       int `json:"unparsed" yaml:"unparsed"`
}
