package dates

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ParsedDate
	}{
		{
			name: "single day with de",
			raw:  "11 de mayo",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 11},
		},
		{
			name: "single day without de",
			raw:  "11 mayo",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 11},
		},
		{
			name: "single day with weekday prefix",
			raw:  "lunes 12 de mayo",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 12},
		},
		{
			name: "single day with leading zero",
			raw:  "05 de mayo",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 5},
		},
		{
			name: "explicit year is discarded",
			raw:  "11 de mayo 2025",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 11},
		},
		{
			name: "single day with time suffix",
			raw:  "12 de mayo a las 19:00",
			want: ParsedDate{Kind: SingleDay, Month: time.May, Day: 12},
		},
		{
			name: "month abbreviation",
			raw:  "3 sep",
			want: ParsedDate{Kind: SingleDay, Month: time.September, Day: 3},
		},
		{
			name: "accented month septiembre variant",
			raw:  "3 de setiembre",
			want: ParsedDate{Kind: SingleDay, Month: time.September, Day: 3},
		},
		{
			name: "range with al connector",
			raw:  "9 al 18 de mayo",
			want: ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18},
		},
		{
			name: "range with dash",
			raw:  "9-18 mayo",
			want: ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18},
		},
		{
			name: "range with month on both sides",
			raw:  "9 mayo - 18 mayo",
			want: ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18},
		},
		{
			name: "del al range",
			raw:  "Del 9 al 18 de mayo",
			want: ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18},
		},
		{
			name: "cross month range fails",
			raw:  "28 de mayo a 2 de junio",
			want: ParsedDate{},
		},
		{
			name: "inverted range fails",
			raw:  "18 al 9 de mayo",
			want: ParsedDate{},
		},
		{
			name: "day beyond month maximum fails",
			raw:  "35 de mayo",
			want: ParsedDate{},
		},
		{
			name: "month long with month",
			raw:  "Durante todo el mes de mayo",
			want: ParsedDate{Kind: MonthLong, Month: time.May},
		},
		{
			name: "month long without month defaults to current",
			raw:  "todo el mes",
			want: ParsedDate{Kind: MonthLong, Month: time.March},
		},
		{
			name: "no month name fails",
			raw:  "fecha por confirmar",
			want: ParsedDate{},
		},
		{
			name: "day number without month fails",
			raw:  "el 12, a las 20:00",
			want: ParsedDate{},
		},
		{
			name: "empty input fails",
			raw:  "",
			want: ParsedDate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, time.March)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	raw := "del 9 al 18 de mayo"
	first := Parse(raw, time.May)
	for i := 0; i < 5; i++ {
		if got := Parse(raw, time.May); got != first {
			t.Fatalf("Parse(%q) changed between calls: %+v vs %+v", raw, got, first)
		}
	}
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12 de mayo a las 19:00", "19:00"},
		{"a las 19", "19:00"},
		{"a las 19.30", "19:30"},
		{"apertura 19h30", "19:30"},
		{"apertura 19h", "19:00"},
		{"7:05 de la mañana", "7:05"},
		{"12 de mayo", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ExtractTime(tt.raw); got != tt.want {
				t.Errorf("ExtractTime(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractExpression(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Gran concierto el 11 de mayo en el Teatro Campoamor", "11 de mayo"},
		{"Feria del 9 al 18 de mayo en el recinto ferial", "del 9 al 18 de mayo"},
		{"Exposición durante todo el mes de mayo", "durante todo el mes de mayo"},
		{"Sin fecha conocida", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ExtractExpression(tt.raw); got != tt.want {
				t.Errorf("ExtractExpression(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsedDateString(t *testing.T) {
	tests := []struct {
		date ParsedDate
		want string
	}{
		{ParsedDate{Kind: SingleDay, Month: time.May, Day: 11}, "11 de mayo"},
		{ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18}, "9 - 18 de mayo"},
		{ParsedDate{Kind: MonthLong, Month: time.May}, "Todo el mes de mayo"},
		{ParsedDate{}, ""},
	}

	for _, tt := range tests {
		if got := tt.date.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestLastDay(t *testing.T) {
	tests := []struct {
		name string
		date ParsedDate
		want int
	}{
		{"single day", ParsedDate{Kind: SingleDay, Month: time.May, Day: 11}, 11},
		{"range uses end", ParsedDate{Kind: DayRange, Month: time.May, Day: 9, End: 18}, 18},
		{"month long uses month length", ParsedDate{Kind: MonthLong, Month: time.April}, 30},
		{"unknown", ParsedDate{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.LastDay(); got != tt.want {
				t.Errorf("LastDay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(time.May); got != "mayo" {
		t.Errorf("MonthName(May) = %q, want %q", got, "mayo")
	}
	if got := MonthName(0); got != "" {
		t.Errorf("MonthName(0) = %q, want empty", got)
	}
}
