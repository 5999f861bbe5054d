package table

import (
	"regexp"
	"strings"
	"time"
)

// Russian month names map to month numbers; nominative, genitive and
// abbreviated forms all appear in real files ("Январь 2024", "марта", "янв").
var russianMonths = map[string]time.Month{
	"январь": 1, "января": 1, "янв": 1,
	"февраль": 2, "февраля": 2, "фев": 2,
	"март": 3, "марта": 3, "мар": 3,
	"апрель": 4, "апреля": 4, "апр": 4,
	"май": 5, "мая": 5,
	"июнь": 6, "июня": 6, "июн": 6,
	"июль": 7, "июля": 7, "июл": 7,
	"август": 8, "августа": 8, "авг": 8,
	"сентябрь": 9, "сентября": 9, "сен": 9,
	"октябрь": 10, "октября": 10, "окт": 10,
	"ноябрь": 11, "ноября": 11, "ноя": 11,
	"декабрь": 12, "декабря": 12, "дек": 12,
}

var yearRe = regexp.MustCompile(`(\d{4})`)

// Numeric layouts tried in order. Day-before-month comes first: ambiguous
// dates like 05/04/2024 are read the European way.
var periodLayouts = []string{
	"2006-01",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

// ParsePeriod turns a raw period cell into a date. Supports Russian month
// names with or without a year (missing year defaults to the current one),
// ISO dates, and numeric dates with day-first preference.
func ParsePeriod(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	}

	s := strings.ToLower(strings.TrimSpace(toString(value)))
	if _, empty := emptyMarkers[s]; empty {
		return time.Time{}, false
	}

	for name, month := range russianMonths {
		if !strings.Contains(s, name) {
			continue
		}
		year := time.Now().Year()
		if m := yearRe.FindString(s); m != "" {
			year = atoiFour(m)
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func atoiFour(s string) int {
	year := 0
	for _, r := range s {
		year = year*10 + int(r-'0')
	}
	return year
}
