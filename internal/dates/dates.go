package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies the shape of a parsed date expression.
type Kind int

const (
	Unknown Kind = iota
	SingleDay
	DayRange
	MonthLong
)

// ParsedDate is the day-level value extracted from raw date text. Year is
// never part of the value; the current year is assumed downstream.
type ParsedDate struct {
	Kind  Kind
	Month time.Month
	Day   int // day for SingleDay, start day for DayRange
	End   int // end day for DayRange
}

// IsUnknown reports whether parsing failed to produce a usable date.
func (d ParsedDate) IsUnknown() bool {
	return d.Kind == Unknown
}

// FirstDay returns the earliest day covered by the date.
func (d ParsedDate) FirstDay() int {
	switch d.Kind {
	case SingleDay:
		return d.Day
	case DayRange:
		return d.Day
	case MonthLong:
		return 1
	}
	return 0
}

// LastDay returns the latest day covered by the date, used for staleness.
func (d ParsedDate) LastDay() int {
	switch d.Kind {
	case SingleDay:
		return d.Day
	case DayRange:
		return d.End
	case MonthLong:
		return daysInMonth(d.Month)
	}
	return 0
}

// String renders the date back into display form, e.g. "11 de mayo",
// "9 - 18 de mayo", "Todo el mes de mayo".
func (d ParsedDate) String() string {
	switch d.Kind {
	case SingleDay:
		return fmt.Sprintf("%d de %s", d.Day, MonthName(d.Month))
	case DayRange:
		return fmt.Sprintf("%d - %d de %s", d.Day, d.End, MonthName(d.Month))
	case MonthLong:
		return "Todo el mes de " + MonthName(d.Month)
	}
	return ""
}

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
	// Common abbreviations seen in listings.
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dic": time.December,
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the lowercase Spanish name for a month.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// February is kept at 29 because the parsed value carries no year.
var monthDays = [...]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(m time.Month) int {
	if m < time.January || m > time.December {
		return 31
	}
	return monthDays[m-1]
}

// monthAlt is a regex alternation of all month names, longest first so that
// "mayo" wins over the "may" abbreviation.
var monthAlt = func() string {
	names := make([]string, 0, len(spanishMonths))
	for name := range spanishMonths {
		names = append(names, name)
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if len(names[j]) > len(names[i]) {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	return strings.Join(names, "|")
}()

var (
	monthLongRe = regexp.MustCompile(`(?:durante\s+)?todo\s+el\s+mes(?:\s+de\s+(` + monthAlt + `))?`)
	delAlRe     = regexp.MustCompile(`del\s+(\d{1,2})\s+al\s+(\d{1,2})\s+de\s+(` + monthAlt + `)\b`)
	// Both sides carry a month name: "9 mayo - 18 mayo".
	twoMonthRangeRe = regexp.MustCompile(`(\d{1,2})\s*(?:de\s+)?(` + monthAlt + `)\b\s*(?:-|–|/|al|a)\s*(\d{1,2})\s*(?:de\s+)?(` + monthAlt + `)\b`)
	rangeRe         = regexp.MustCompile(`(\d{1,2})\s*(?:-|–|/|\bal\b|\ba\b)\s*(\d{1,2})\s+(?:de\s+)?(` + monthAlt + `)\b`)
	singleDayRe     = regexp.MustCompile(`(\d{1,2})\s*(?:de\s+)?(` + monthAlt + `)\b`)
	monthOnlyRe     = regexp.MustCompile(`\b(` + monthAlt + `)\b`)

	weekdayRe = regexp.MustCompile(`\b(?:lunes|martes|miercoles|jueves|viernes|sabado|domingo)\b,?\s*`)
	yearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// foldAccents strips combining diacritics so "miércoles" and "miercoles"
// compare equal.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalize lowercases, folds accents, drops weekday prefixes and explicit
// years, and collapses whitespace runs.
func normalize(raw string) string {
	text := foldAccents(strings.ToLower(raw))
	text = weekdayRe.ReplaceAllString(text, "")
	text = yearRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Parse turns raw Spanish date text into a ParsedDate. currentMonth supplies
// the month for month-long expressions that name none. A text with no month
// name anywhere fails with Unknown: the system never guesses a month.
func Parse(raw string, currentMonth time.Month) ParsedDate {
	text := normalize(raw)
	if text == "" {
		return ParsedDate{}
	}

	if m := monthLongRe.FindStringSubmatch(text); m != nil {
		month := currentMonth
		if m[1] != "" {
			month = spanishMonths[m[1]]
		}
		if month < time.January || month > time.December {
			return ParsedDate{}
		}
		return ParsedDate{Kind: MonthLong, Month: month}
	}

	if monthOnlyRe.FindString(text) == "" {
		return ParsedDate{}
	}

	if m := delAlRe.FindStringSubmatch(text); m != nil {
		return makeRange(m[1], m[2], spanishMonths[m[3]])
	}
	if m := twoMonthRangeRe.FindStringSubmatch(text); m != nil {
		if m[2] != m[4] && spanishMonths[m[2]] != spanishMonths[m[4]] {
			// Cross-month ranges are out of scope.
			return ParsedDate{}
		}
		return makeRange(m[1], m[3], spanishMonths[m[2]])
	}
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		return makeRange(m[1], m[2], spanishMonths[m[3]])
	}
	if m := singleDayRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := spanishMonths[m[2]]
		if day < 1 || day > daysInMonth(month) {
			return ParsedDate{}
		}
		return ParsedDate{Kind: SingleDay, Month: month, Day: day}
	}

	return ParsedDate{}
}

func makeRange(startText, endText string, month time.Month) ParsedDate {
	start, _ := strconv.Atoi(startText)
	end, _ := strconv.Atoi(endText)
	if start > end || start < 1 || end > daysInMonth(month) {
		return ParsedDate{}
	}
	return ParsedDate{Kind: DayRange, Month: month, Day: start, End: end}
}

// ExtractExpression returns the first date expression found inside free text,
// in normalized form, or "" when none is present. Used by fetchers whose
// listings embed the date in the item text instead of a dedicated field.
func ExtractExpression(raw string) string {
	text := normalize(raw)
	if text == "" {
		return ""
	}
	for _, re := range []*regexp.Regexp{monthLongRe, delAlRe, twoMonthRangeRe, rangeRe, singleDayRe} {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

var (
	clockRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	hourHRe = regexp.MustCompile(`\b(\d{1,2})h(\d{2})?\b`)
	aLasRe  = regexp.MustCompile(`a\s+las?\s+(\d{1,2})(?:[.:](\d{2}))?`)
)

// ExtractTime pulls an HH:MM time out of raw text. Recognizes "19:00",
// "19h30", "19h" and "a las 19" forms. Returns "" when no time is present;
// absence of a time is not an error.
func ExtractTime(raw string) string {
	text := normalize(raw)
	for _, re := range []*regexp.Regexp{clockRe, hourHRe, aLasRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			continue
		}
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
			if minute > 59 {
				continue
			}
		}
		return fmt.Sprintf("%d:%02d", hour, minute)
	}
	return ""
}
