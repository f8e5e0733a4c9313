package event

import "github.com/explorastur/explorastur/internal/dates"

// RawRecord is a single listing as extracted by a source fetcher, before any
// cleaning. No field is guaranteed to be well-formed.
type RawRecord struct {
	Title        string `json:"title"`
	DateText     string `json:"date"`
	LocationText string `json:"location,omitempty"`
	URL          string `json:"url,omitempty"`
	SourceID     string `json:"source_id"`
}

// Event is the canonical output unit: cleaned, dated and filtered. Events are
// never mutated after creation.
type Event struct {
	Title    string           `json:"title"`
	Date     dates.ParsedDate `json:"-"`
	DateText string           `json:"date"`
	Time     string           `json:"time,omitempty"`
	Location string           `json:"location,omitempty"`
	URL      string           `json:"url,omitempty"`
	SourceID string           `json:"source_id"`
}

// DropReason explains why a raw record was filtered out instead of becoming
// an Event. Drops are expected outcomes, not errors.
type DropReason string

const (
	DropNone            DropReason = ""
	DropEmptyTitle      DropReason = "empty_title"
	DropNonEvent        DropReason = "non_event"
	DropUnparseableDate DropReason = "unparseable_date"
	DropPastEvent       DropReason = "past_event"
)
