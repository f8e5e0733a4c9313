package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
)

// weekAgendaFetcher handles agenda sites laid out as a week view: one block
// per day carrying the day number and month name, with the day's events
// nested inside. The next-week link acts as the pagination cursor.
type weekAgendaFetcher struct {
	cfg    config.Source
	client *Client
	sel    config.Selectors
}

func newWeekAgendaFetcher(cfg config.Source, client *Client) *weekAgendaFetcher {
	sel := cfg.Selectors
	if sel.Item == "" {
		sel.Item = ".week-view .day-entry"
	}
	if sel.Date == "" {
		sel.Date = ".day"
	}
	if sel.Title == "" {
		sel.Title = ".title"
	}
	if sel.Location == "" {
		sel.Location = ".location"
	}
	if sel.Link == "" {
		sel.Link = "a[href]"
	}
	if sel.NextPage == "" {
		sel.NextPage = ".paginator .pager li a"
	}
	return &weekAgendaFetcher{cfg: cfg, client: client, sel: sel}
}

func (f *weekAgendaFetcher) Fetch(ctx context.Context, cursor string) ([]event.RawRecord, string, error) {
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

func (f *weekAgendaFetcher) parse(r io.Reader, pageURL string) ([]event.RawRecord, string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("parsing HTML: %w", err)
	}

	var records []event.RawRecord
	doc.Find(f.sel.Item).Each(func(_ int, day *goquery.Selection) {
		dayDate := f.dayDate(day)
		if dayDate == "" {
			return
		}
		day.Find(".entry").Each(func(_ int, entry *goquery.Selection) {
			title := selText(entry, f.sel.Title)
			if title == "" {
				// Some entries only carry the title on the link.
				title = strings.TrimPrefix(collapse(entry.Find(f.sel.Link).First().AttrOr("title", "")), "Ver evento ")
			}
			if title == "" {
				return
			}
			hour := selText(entry, ".hour")
			dateText := dayDate
			if hour != "" {
				dateText = dayDate + " a las " + hour
			}
			records = append(records, event.RawRecord{
				Title:        title,
				DateText:     dateText,
				LocationText: selText(entry, f.sel.Location),
				URL:          selHref(entry, f.sel.Link),
				SourceID:     f.cfg.ID,
			})
		})
	})

	return records, nextPageURL(doc, f.sel.NextPage, f.cfg.BaseURL, pageURL), nil
}

// dayDate rebuilds "12 de mayo" from the day block's number and month name.
func (f *weekAgendaFetcher) dayDate(day *goquery.Selection) string {
	block := day.Find(f.sel.Date).First()
	num := collapse(block.Find(".day-of-month").Text())
	month := collapse(block.Find(".month").Text())
	if num == "" || month == "" {
		return ""
	}
	return strings.TrimLeft(num, "0") + " de " + month
}
