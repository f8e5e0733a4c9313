package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
)

// cardsFetcher handles agenda sites that render one card per event in a
// paginated grid, with a "Siguiente" link to the next result page.
type cardsFetcher struct {
	cfg    config.Source
	client *Client
	sel    config.Selectors
}

func newCardsFetcher(cfg config.Source, client *Client) *cardsFetcher {
	sel := cfg.Selectors
	if sel.Item == "" {
		sel.Item = ".template-cards .card"
	}
	if sel.Title == "" {
		sel.Title = ".card-title"
	}
	if sel.Date == "" {
		sel.Date = ".date"
	}
	if sel.Location == "" {
		sel.Location = ".address"
	}
	if sel.Link == "" {
		sel.Link = "a[href]"
	}
	if sel.NextPage == "" {
		sel.NextPage = "ul.lfr-pagination-buttons li a"
	}
	return &cardsFetcher{cfg: cfg, client: client, sel: sel}
}

func (f *cardsFetcher) Fetch(ctx context.Context, cursor string) ([]event.RawRecord, string, error) {
	pageURL := cursor
	if pageURL == "" {
		pageURL = f.cfg.StartURL
	}
	body, err := f.client.Get(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}
	return f.parse(bytes.NewReader(body), pageURL)
}

func (f *cardsFetcher) parse(r io.Reader, pageURL string) ([]event.RawRecord, string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("parsing HTML: %w", err)
	}

	var records []event.RawRecord
	doc.Find(f.sel.Item).Each(func(_ int, card *goquery.Selection) {
		title := selText(card, f.sel.Title)
		if title == "" {
			return
		}
		records = append(records, event.RawRecord{
			Title:        title,
			DateText:     selText(card, f.sel.Date),
			LocationText: selText(card, f.sel.Location),
			URL:          selHref(card, f.sel.Link),
			SourceID:     f.cfg.ID,
		})
	})

	return records, nextPageURL(doc, f.sel.NextPage, f.cfg.BaseURL, pageURL), nil
}
