package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/dates"
	"github.com/explorastur/explorastur/internal/event"
)

// blogListFetcher handles agenda posts published as one long article: event
// titles in bold inside paragraphs, with the date either prefixing the title
// ("2 de mayo: Concierto...") or embedded in the paragraph text. Always a
// single page.
type blogListFetcher struct {
	cfg    config.Source
	client *Client
	sel    config.Selectors
}

func newBlogListFetcher(cfg config.Source, client *Client) *blogListFetcher {
	sel := cfg.Selectors
	if sel.Item == "" {
		sel.Item = ".article-body p, article p, .entry-content p"
	}
	if sel.Title == "" {
		sel.Title = "b, strong"
	}
	if sel.Link == "" {
		sel.Link = "a[href]"
	}
	return &blogListFetcher{cfg: cfg, client: client, sel: sel}
}

func (f *blogListFetcher) Fetch(ctx context.Context, cursor string) ([]event.RawRecord, string, error) {
	pageURL := cursor
	if pageURL == "" {
		pageURL = f.cfg.StartURL
	}
	body, err := f.client.Get(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}
	records, err := f.parse(bytes.NewReader(body))
	return records, "", err
}

func (f *blogListFetcher) parse(r io.Reader) ([]event.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var records []event.RawRecord
	doc.Find(f.sel.Item).Each(func(_ int, p *goquery.Selection) {
		title := selText(p, f.sel.Title)
		if len(title) < 3 {
			return
		}
		paragraph := collapse(p.Text())

		// "2 de mayo: Concierto" puts the date before the colon; otherwise
		// the date sits somewhere in the paragraph body.
		dateText, rest, found := strings.Cut(title, ":")
		if found && dates.ExtractExpression(dateText) != "" && strings.TrimSpace(rest) != "" {
			title = strings.TrimSpace(rest)
		} else {
			dateText = dates.ExtractExpression(paragraph)
		}
		if dateText == "" {
			return
		}

		records = append(records, event.RawRecord{
			Title:        title,
			DateText:     dateText,
			LocationText: paragraph,
			URL:          selHref(p, f.sel.Link),
			SourceID:     f.cfg.ID,
		})
	})

	return records, nil
}
