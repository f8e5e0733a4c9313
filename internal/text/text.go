// Package text cleans scraped title and location fields.
package text

import (
	"html"
	"regexp"
	"strings"
)

// Venue keywords that mark the start of a location inside free text.
var venueWords = []string{
	"Teatro", "Auditorio", "Sala", "Centro", "Pabellón",
	"Plaza", "Factoría", "Recinto", "Museo",
}

// Titles matching these are section headers or promo lines, not events.
var nonEventRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bagenda\b`),
	regexp.MustCompile(`(?i)\basturias en [a-záéíóú]+`),
	regexp.MustCompile(`(?i)¿quieres saber`),
	regexp.MustCompile(`(?i)\bplanes\b`),
	regexp.MustCompile(`(?i)\bvamos allá\b`),
}

var (
	spaceRe         = regexp.MustCompile(`\s+`)
	leadingPunctRe  = regexp.MustCompile(`^[:\-–—.,;]+\s*`)
	trailingPunctRe = regexp.MustCompile(`[\-–—,:;]+$`)
	datePrefixRe    = regexp.MustCompile(`^(?i)(hasta el \d{1,2} de [a-záéíóú]+|durante todo el mes de [a-záéíóú]+|\d{1,2}\s*(?:a|al|-)\s*\d{1,2} de [a-záéíóú]+|\d{1,2} de [a-záéíóú]+)[\s:,.-]*`)
	lugarRe         = regexp.MustCompile(`(?i)lugar:?\s*([^.,\n]+)`)
	enPrefixRe      = regexp.MustCompile(`(?i)^en\s+`)
	enPlaceRe       = regexp.MustCompile(`(?i)\ben\s+([\wÁÉÍÓÚáéíóúñÑ][\wÁÉÍÓÚáéíóúñÑ\s./-]{2,60})`)
	parenPlaceRe    = regexp.MustCompile(`\(([^()]{2,40})\)\s*$`)
	// Lowercase articles are filler ("en el teatro"); a capitalized one is
	// part of a proper name ("La Florida") and stays.
	articleRe = regexp.MustCompile(`^(?:el|la|los|las)\s+`)
)

// CleanTitle strips date prefixes, surrounding quotes, HTML entities and
// stray punctuation from an extracted event title. Returns "" when nothing
// usable remains.
func CleanTitle(raw string) string {
	title := html.UnescapeString(raw)
	title = spaceRe.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	if title == "" || title == ":" {
		return ""
	}

	title = datePrefixRe.ReplaceAllString(title, "")
	title = leadingPunctRe.ReplaceAllString(title, "")

	// Drop a quote pair when the whole title is quoted, then any dangling
	// quote left behind by truncated markup.
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}, {"«", "»"}} {
		open, close := pair[0], pair[1]
		if strings.HasPrefix(title, open) && strings.HasSuffix(title, close) && len(title) > len(open)+len(close) {
			title = strings.TrimSpace(title[len(open) : len(title)-len(close)])
		}
	}
	if strings.Count(title, `"`) == 1 {
		title = strings.Replace(title, `"`, "", 1)
	}

	title = trailingPunctRe.ReplaceAllString(title, "")
	title = spaceRe.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// IsNonEvent reports whether a cleaned title looks like a listing header or
// promotional line rather than an actual event.
func IsNonEvent(title string) bool {
	for _, re := range nonEventRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// ExtractLocation pulls a venue/place out of free text using common Spanish
// cues: a "lugar:" label, a venue keyword, an "en el/la ..." preposition or a
// trailing "(Ciudad)" parenthesis. Falls back to def, never to "".
func ExtractLocation(raw, def string) string {
	text := strings.TrimSpace(spaceRe.ReplaceAllString(html.UnescapeString(raw), " "))
	if text == "" {
		return def
	}

	if m := lugarRe.FindStringSubmatch(text); m != nil {
		return tidyLocation(m[1], def)
	}
	for _, word := range venueWords {
		re := regexp.MustCompile(`(?i)\b` + word + `\b[\wÁÉÍÓÚáéíóúñÑ\s.'/-]*`)
		if m := re.FindString(text); m != "" {
			return tidyLocation(m, def)
		}
	}
	if m := enPlaceRe.FindStringSubmatch(text); m != nil {
		return tidyLocation(m[1], def)
	}
	if m := parenPlaceRe.FindStringSubmatch(text); m != nil {
		return tidyLocation(m[1], def)
	}
	return def
}

func tidyLocation(loc, def string) string {
	loc = enPrefixRe.ReplaceAllString(loc, "")
	loc = articleRe.ReplaceAllString(loc, "")
	loc = strings.TrimSpace(strings.Trim(loc, "-,:; "))
	if r := []rune(loc); len(r) > 80 {
		loc = strings.TrimSpace(string(r[:77])) + "..."
	}
	if loc == "" {
		return def
	}
	return loc
}
