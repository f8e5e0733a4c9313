package source

import (
	"context"
	"fmt"

	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
)

// Fetcher is the contract between the pipeline and a source. An empty cursor
// requests the first page; the returned cursor is passed back verbatim to get
// the next page, and an empty returned cursor signals no further pages.
type Fetcher interface {
	Fetch(ctx context.Context, cursor string) (records []event.RawRecord, next string, err error)
}

// New builds the fetcher variant selected by the source's type tag.
func New(cfg config.Source, client *Client, llm config.LLM) (Fetcher, error) {
	switch cfg.Type {
	case "cards":
		return newCardsFetcher(cfg, client), nil
	case "bloglist":
		return newBlogListFetcher(cfg, client), nil
	case "weekagenda":
		return newWeekAgendaFetcher(cfg, client), nil
	case "llm":
		return newLLMFetcher(cfg, client, llm)
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}
