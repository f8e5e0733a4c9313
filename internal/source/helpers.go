package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var wsRe = regexp.MustCompile(`\s+`)

// selText returns the collapsed text of the first element matching selector,
// or "" when the selector matches nothing.
func selText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return collapse(s.Find(selector).First().Text())
}

// selHref returns the href of the first element matching selector.
func selHref(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	href, _ := s.Find(selector).First().Attr("href")
	return strings.TrimSpace(href)
}

func collapse(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// absoluteURL resolves href against base. Unresolvable values are returned
// unchanged.
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// nextPageURL finds the pagination link for the page that follows current.
// Candidates whose text contains "siguiente" win over positional matches.
// Returns "" when there is no usable next link, which ends pagination.
func nextPageURL(doc *goquery.Document, selector, base, current string) string {
	if selector == "" {
		return ""
	}
	var href string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("disabled") || s.Closest(".disabled").Length() > 0 {
			return true
		}
		h, ok := s.Attr("href")
		if !ok || strings.TrimSpace(h) == "" || strings.HasPrefix(h, "#") {
			return true
		}
		if strings.Contains(strings.ToLower(s.Text()), "siguiente") {
			href = h
			return false
		}
		if href == "" {
			href = h
		}
		return true
	})
	if href == "" {
		return ""
	}
	next := absoluteURL(base, strings.TrimSpace(href))
	if next == current {
		// A next link pointing at itself would paginate forever.
		return ""
	}
	return next
}
