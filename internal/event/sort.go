package event

import (
	"sort"
	"strings"

	"github.com/explorastur/explorastur/internal/dates"
)

// Sort orders events into canonical display order, in place: month-long
// events first regardless of month, then by month and earliest day ascending.
// Identical date keys break by lowercased title so the order is reproducible
// across runs regardless of input order.
func Sort(events []*Event) {
	sort.Slice(events, func(i, j int) bool {
		return less(events[i], events[j])
	})
}

func less(a, b *Event) bool {
	ra, rb := rank(a.Date), rank(b.Date)
	if ra != rb {
		return ra < rb
	}
	if a.Date.Month != b.Date.Month {
		return a.Date.Month < b.Date.Month
	}
	if da, db := a.Date.FirstDay(), b.Date.FirstDay(); da != db {
		return da < db
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

// rank surfaces month-long listings ahead of day-specific ones: they are
// ongoing exhibitions meant to be read first.
func rank(d dates.ParsedDate) int {
	if d.Kind == dates.MonthLong {
		return 0
	}
	return 1
}
