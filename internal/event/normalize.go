package event

import (
	"net/url"
	"strings"
	"time"

	"github.com/explorastur/explorastur/internal/dates"
	"github.com/explorastur/explorastur/internal/text"
)

// Normalizer turns raw records from one source into canonical Events. It is a
// pure function of its inputs plus the supplied reference day, so runs are
// replayable in tests.
type Normalizer struct {
	// BaseURL resolves relative record URLs to absolute ones.
	BaseURL string
	// DefaultLocation is used when no location cue is found in the record,
	// typically the source display name. Never empty in practice.
	DefaultLocation string
}

// Normalize cleans, parses and filters a single record. It returns the Event
// and DropNone, or nil and the reason the record was filtered out.
func (n Normalizer) Normalize(rec RawRecord, today time.Time) (*Event, DropReason) {
	title := text.CleanTitle(rec.Title)
	if title == "" {
		return nil, DropEmptyTitle
	}
	if text.IsNonEvent(title) {
		return nil, DropNonEvent
	}

	date := dates.Parse(rec.DateText, today.Month())
	if date.IsUnknown() {
		return nil, DropUnparseableDate
	}
	if isStale(date, today) {
		return nil, DropPastEvent
	}

	return &Event{
		Title:    title,
		Date:     date,
		DateText: date.String(),
		Time:     dates.ExtractTime(rec.DateText),
		Location: text.ExtractLocation(rec.LocationText, n.DefaultLocation),
		URL:      n.resolveURL(rec.URL),
		SourceID: rec.SourceID,
	}, DropNone
}

// isStale reports whether the date's last covered day falls before today.
// A range is stale only once its end day has passed; a month-long event is
// stale only once its whole month has passed.
func isStale(d dates.ParsedDate, today time.Time) bool {
	year := resolveYear(d.Month, today)
	if d.Kind == dates.MonthLong {
		return year < today.Year() || (year == today.Year() && d.Month < today.Month())
	}
	end := time.Date(year, d.Month, d.LastDay(), 0, 0, 0, 0, time.UTC)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return end.Before(midnight)
}

// resolveYear places a year-free month relative to today. A month more than
// six months behind the current one is assumed to belong to next year, so a
// January listing scraped in December is kept rather than discarded.
func resolveYear(m time.Month, today time.Time) int {
	if int(today.Month())-int(m) > 6 {
		return today.Year() + 1
	}
	return today.Year()
}

// resolveURL makes a relative record URL absolute against the source base
// URL. Malformed URLs are kept as-is; presence matters more than validity.
func (n Normalizer) resolveURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || n.BaseURL == "" {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	base, err := url.Parse(n.BaseURL)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}
