package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
	"github.com/explorastur/explorastur/internal/logger"
	"github.com/explorastur/explorastur/internal/source"
)

var today = time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC)

// stubFetcher returns canned pages keyed by cursor. An empty cursor is the
// first page.
type stubFetcher struct {
	pages map[string]stubPage
	err   error
}

type stubPage struct {
	records []event.RawRecord
	next    string
}

func (s *stubFetcher) Fetch(_ context.Context, cursor string) ([]event.RawRecord, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	page := s.pages[cursor]
	return page.records, page.next, nil
}

func rec(id, title, date string) event.RawRecord {
	return event.RawRecord{Title: title, DateText: date, SourceID: id}
}

func testSource(id string) config.Source {
	return config.Source{
		ID:       id,
		Name:     id,
		Type:     "cards",
		BaseURL:  "https://example.org",
		StartURL: "https://example.org/" + id,
		MaxPages: 3,
	}
}

func newRunner(sources []config.Source, fetchers map[string]source.Fetcher) *Runner {
	return &Runner{
		Sources: sources,
		Today:   today,
		NewFetcher: func(cfg config.Source) (source.Fetcher, error) {
			f, ok := fetchers[cfg.ID]
			if !ok {
				return nil, fmt.Errorf("no stub for %s", cfg.ID)
			}
			return f, nil
		},
	}
}

func TestRunIsolatesFailedSource(t *testing.T) {
	sources := []config.Source{testSource("a"), testSource("broken"), testSource("c")}
	fetchers := map[string]source.Fetcher{
		"a": &stubFetcher{pages: map[string]stubPage{
			"": {records: []event.RawRecord{rec("a", "Concierto", "20 de mayo")}},
		}},
		"broken": &stubFetcher{err: errors.New("connection refused")},
		"c": &stubFetcher{pages: map[string]stubPage{
			"": {records: []event.RawRecord{rec("c", "Feria", "22 de mayo")}},
		}},
	}

	groups, sum := newRunner(sources, fetchers).Run(context.Background())

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[1].SourceID != "broken" || len(groups[1].Events) != 0 {
		t.Errorf("failed source should yield an empty group, got %+v", groups[1])
	}
	if len(groups[0].Events) != 1 || len(groups[2].Events) != 1 {
		t.Errorf("healthy sources should keep their events")
	}
	if !sum.Sources[1].Failed() {
		t.Error("broken source not reported as failed")
	}
	if sum.Sources[0].Failed() || sum.Sources[2].Failed() {
		t.Error("healthy sources reported as failed")
	}
	if sum.AllFailed() {
		t.Error("AllFailed should be false when any source succeeds")
	}
}

func TestRunAllFailed(t *testing.T) {
	sources := []config.Source{testSource("a"), testSource("b")}
	fetchers := map[string]source.Fetcher{
		"a": &stubFetcher{err: errors.New("down")},
		"b": &stubFetcher{err: errors.New("down")},
	}

	_, sum := newRunner(sources, fetchers).Run(context.Background())
	if !sum.AllFailed() {
		t.Error("AllFailed should be true when every source fails")
	}
}

func TestRunPreservesConfiguredOrder(t *testing.T) {
	sources := []config.Source{testSource("z"), testSource("a"), testSource("m")}
	fetchers := map[string]source.Fetcher{
		"z": &stubFetcher{},
		"a": &stubFetcher{},
		"m": &stubFetcher{},
	}

	groups, _ := newRunner(sources, fetchers).Run(context.Background())
	got := []string{groups[0].SourceID, groups[1].SourceID, groups[2].SourceID}
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group order = %v, want %v", got, want)
		}
	}
}

func TestRunSkipsDisabledSource(t *testing.T) {
	disabled := false
	src := testSource("off")
	src.Enabled = &disabled
	sources := []config.Source{testSource("on"), src}
	fetchers := map[string]source.Fetcher{
		"on": &stubFetcher{},
	}

	groups, sum := newRunner(sources, fetchers).Run(context.Background())
	if len(groups) != 1 || groups[0].SourceID != "on" {
		t.Fatalf("expected only the enabled source, got %+v", groups)
	}
	if len(sum.Sources) != 1 {
		t.Errorf("summary should not include disabled sources")
	}
}

func TestRunEmptySourceStillYieldsGroup(t *testing.T) {
	sources := []config.Source{testSource("empty")}
	fetchers := map[string]source.Fetcher{
		"empty": &stubFetcher{pages: map[string]stubPage{"": {}}},
	}

	groups, sum := newRunner(sources, fetchers).Run(context.Background())
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Events == nil || len(groups[0].Events) != 0 {
		t.Errorf("empty source should yield a non-nil empty event list")
	}
	if sum.Sources[0].Failed() {
		t.Error("empty source is not a failure")
	}
}

func TestRunPaginationBoundedByMaxPages(t *testing.T) {
	// Pages chain forever; max_pages must cut the loop off.
	src := testSource("pager")
	src.MaxPages = 2
	fetchers := map[string]source.Fetcher{
		"pager": &stubFetcher{pages: map[string]stubPage{
			"":   {records: []event.RawRecord{rec("pager", "Uno", "20 de mayo")}, next: "p2"},
			"p2": {records: []event.RawRecord{rec("pager", "Dos", "21 de mayo")}, next: "p3"},
			"p3": {records: []event.RawRecord{rec("pager", "Tres", "22 de mayo")}, next: "p4"},
		}},
	}

	groups, sum := newRunner([]config.Source{src}, fetchers).Run(context.Background())
	if sum.Sources[0].Pages != 2 {
		t.Errorf("Pages = %d, want 2", sum.Sources[0].Pages)
	}
	if len(groups[0].Events) != 2 {
		t.Errorf("kept %d events, want 2", len(groups[0].Events))
	}
}

func TestRunPaginationStopsOnEmptyCursor(t *testing.T) {
	fetchers := map[string]source.Fetcher{
		"s": &stubFetcher{pages: map[string]stubPage{
			"": {records: []event.RawRecord{rec("s", "Solo", "20 de mayo")}},
		}},
	}

	_, sum := newRunner([]config.Source{testSource("s")}, fetchers).Run(context.Background())
	if sum.Sources[0].Pages != 1 {
		t.Errorf("Pages = %d, want 1", sum.Sources[0].Pages)
	}
}

// failAfterFirst succeeds on the first page and fails on the second.
type failAfterFirst struct{}

func (failAfterFirst) Fetch(_ context.Context, cursor string) ([]event.RawRecord, string, error) {
	if cursor != "" {
		return nil, "", errors.New("timeout")
	}
	return []event.RawRecord{rec("flaky", "Primero", "20 de mayo")}, "p2", nil
}

func TestRunKeepsPartialResultsOnLatePageFailure(t *testing.T) {
	fetchers := map[string]source.Fetcher{"flaky": failAfterFirst{}}

	groups, sum := newRunner([]config.Source{testSource("flaky")}, fetchers).Run(context.Background())
	if sum.Sources[0].Failed() {
		t.Error("late page failure should not mark the source as failed")
	}
	if len(groups[0].Events) != 1 {
		t.Errorf("kept %d events, want the first page's 1", len(groups[0].Events))
	}
}

func TestRunTalliesDropReasons(t *testing.T) {
	fetchers := map[string]source.Fetcher{
		"mix": &stubFetcher{pages: map[string]stubPage{
			"": {records: []event.RawRecord{
				rec("mix", "Concierto bueno", "20 de mayo"),
				rec("mix", "", "20 de mayo"),
				rec("mix", "Sin fecha", "proximamente"),
				rec("mix", "Pasado", "3 de mayo"),
			}},
		}},
	}

	r := newRunner([]config.Source{testSource("mix")}, fetchers)
	r.Counters = logger.NewCounters()
	groups, sum := r.Run(context.Background())

	if len(groups[0].Events) != 1 {
		t.Fatalf("kept %d events, want 1", len(groups[0].Events))
	}
	s := sum.Sources[0]
	if s.Fetched != 4 || s.Kept != 1 {
		t.Errorf("Fetched = %d, Kept = %d", s.Fetched, s.Kept)
	}
	wantDrops := map[event.DropReason]int{
		event.DropEmptyTitle:      1,
		event.DropUnparseableDate: 1,
		event.DropPastEvent:       1,
	}
	for reason, n := range wantDrops {
		if s.Dropped[reason] != n {
			t.Errorf("Dropped[%s] = %d, want %d", reason, s.Dropped[reason], n)
		}
	}
	if got := r.Counters.Get("dropped." + string(event.DropPastEvent)); got != 1 {
		t.Errorf("counter dropped.past_event = %d, want 1", got)
	}
	if got := r.Counters.Get("kept"); got != 1 {
		t.Errorf("counter kept = %d, want 1", got)
	}
}

func TestRunSortsEventsWithinGroup(t *testing.T) {
	fetchers := map[string]source.Fetcher{
		"s": &stubFetcher{pages: map[string]stubPage{
			"": {records: []event.RawRecord{
				rec("s", "Tarde", "28 de mayo"),
				rec("s", "Todo el mes", "durante todo el mes de mayo"),
				rec("s", "Pronto", "16 de mayo"),
			}},
		}},
	}

	groups, _ := newRunner([]config.Source{testSource("s")}, fetchers).Run(context.Background())
	events := groups[0].Events
	if len(events) != 3 {
		t.Fatalf("kept %d events, want 3", len(events))
	}
	got := []string{events[0].Title, events[1].Title, events[2].Title}
	want := []string{"Todo el mes", "Pronto", "Tarde"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRunReportsInvalidSourceConfig(t *testing.T) {
	src := testSource("bad")
	src.StartURL = ""

	groups, sum := newRunner([]config.Source{src}, nil).Run(context.Background())
	if len(groups) != 1 {
		t.Fatalf("invalid source should still yield a group")
	}
	if !sum.Sources[0].Failed() {
		t.Error("invalid source config should be reported as failed")
	}
}
