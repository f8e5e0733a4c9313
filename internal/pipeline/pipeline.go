// Package pipeline orchestrates a full aggregation run: fetch every
// configured source page by page, normalize the raw records, sort each
// source's events and report per-source counts.
//
// Failure isolation is the central property: a bad record is dropped and
// counted, an unreachable site is recorded as a failed source, and in both
// cases the run continues with whatever remains. Nothing inside the pipeline
// aborts the batch.
package pipeline

import (
	"context"
	"time"

	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
	"github.com/explorastur/explorastur/internal/logger"
	"github.com/explorastur/explorastur/internal/source"
)

// SourceGroup is one source's sorted events. Every configured enabled source
// produces a group, even an empty or failed one, so silent breakage stays
// visible.
type SourceGroup struct {
	SourceID string         `json:"source_id"`
	Name     string         `json:"name"`
	URL      string         `json:"url,omitempty"`
	Events   []*event.Event `json:"events"`
}

// SourceSummary is the per-source accounting for the end-of-run report.
type SourceSummary struct {
	SourceID string                   `json:"source_id"`
	Pages    int                      `json:"pages"`
	Fetched  int                      `json:"fetched"`
	Kept     int                      `json:"kept"`
	Dropped  map[event.DropReason]int `json:"dropped,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Failed reports whether the source's fetch failed outright.
func (s SourceSummary) Failed() bool { return s.Error != "" }

// Summary is the end-of-run report across all sources.
type Summary struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Sources     []SourceSummary `json:"sources"`
}

// AllFailed reports whether every configured source failed, the only state a
// caller may reasonably treat as a hard error.
func (s Summary) AllFailed() bool {
	if len(s.Sources) == 0 {
		return true
	}
	for _, src := range s.Sources {
		if !src.Failed() {
			return false
		}
	}
	return true
}

// NewFetcher builds a fetch collaborator for one source. Injectable so tests
// can run the pipeline against stub fetchers.
type NewFetcher func(cfg config.Source) (source.Fetcher, error)

// Runner executes aggregation runs over a fixed source list.
type Runner struct {
	Sources    []config.Source
	Today      time.Time
	NewFetcher NewFetcher
	Counters   *logger.Counters
}

// Run processes every enabled source in configured order and returns the
// groups in that same order plus the run summary. Sources are sequential;
// pagination within a source is sequential and bounded by max_pages.
func (r *Runner) Run(ctx context.Context) ([]SourceGroup, Summary) {
	summary := Summary{GeneratedAt: r.Today}
	var groups []SourceGroup

	for _, cfg := range r.Sources {
		if !cfg.IsEnabled() {
			continue
		}
		group, srcSummary := r.runSource(ctx, cfg)
		groups = append(groups, group)
		summary.Sources = append(summary.Sources, srcSummary)
	}
	return groups, summary
}

func (r *Runner) runSource(ctx context.Context, cfg config.Source) (SourceGroup, SourceSummary) {
	group := SourceGroup{
		SourceID: cfg.ID,
		Name:     cfg.Name,
		URL:      cfg.StartURL,
		Events:   []*event.Event{},
	}
	sum := SourceSummary{
		SourceID: cfg.ID,
		Dropped:  make(map[event.DropReason]int),
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid source configuration", logger.Fields{"source": cfg.ID}, err)
		sum.Error = err.Error()
		return group, sum
	}

	fetcher, err := r.NewFetcher(cfg)
	if err != nil {
		logger.Error("building fetcher failed", logger.Fields{"source": cfg.ID}, err)
		sum.Error = err.Error()
		return group, sum
	}

	norm := event.Normalizer{BaseURL: cfg.BaseURL, DefaultLocation: cfg.Name}

	cursor := ""
	for page := 1; page <= cfg.MaxPages; page++ {
		records, next, err := fetcher.Fetch(ctx, cursor)
		if err != nil {
			if page == 1 {
				logger.Error("source fetch failed", logger.Fields{"source": cfg.ID}, err)
				sum.Error = err.Error()
				return group, sum
			}
			// Later pages keep what the earlier ones yielded.
			logger.Warn("pagination stopped early", logger.Fields{
				"source": cfg.ID,
				"page":   page,
				"error":  err.Error(),
			})
			break
		}
		sum.Pages++
		sum.Fetched += len(records)

		for _, rec := range records {
			evt, reason := norm.Normalize(rec, r.Today)
			if reason != event.DropNone {
				sum.Dropped[reason]++
				r.count("dropped." + string(reason))
				logger.Debug("record dropped", logger.Fields{
					"source": cfg.ID,
					"reason": string(reason),
					"title":  rec.Title,
				})
				continue
			}
			group.Events = append(group.Events, evt)
		}

		if next == "" {
			break
		}
		cursor = next
	}

	event.Sort(group.Events)
	sum.Kept = len(group.Events)
	if r.Counters != nil {
		r.Counters.Add("kept", int64(sum.Kept))
	}

	logger.Info("source processed", logger.Fields{
		"source":  cfg.ID,
		"pages":   sum.Pages,
		"fetched": sum.Fetched,
		"kept":    sum.Kept,
	})
	return group, sum
}

func (r *Runner) count(name string) {
	if r.Counters != nil {
		r.Counters.Incr(name)
	}
}
