package table

import "strings"

// SynonymSet binds one canonical field to the header substrings that denote it.
type SynonymSet struct {
	Field string   `yaml:"field"`
	Match []string `yaml:"match"`
}

// SynonymTable is an ordered lookup: the first field whose synonym is found
// as a substring of the header wins. Order matters, so it is a slice.
type SynonymTable []SynonymSet

// DefaultSynonyms covers the header variants seen in real SMB files,
// Russian and English.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		{Field: FieldPeriod, Match: []string{"месяц", "период", "date", "дата", "month", "год/месяц"}},
		{Field: FieldRevenue, Match: []string{"выручка", "revenue", "доход", "sales", "продажи", "оборот"}},
		{Field: FieldCOGS, Match: []string{"себестоимость", "cogs", "cost of goods", "закупка", "себест"}},
		{Field: FieldRent, Match: []string{"аренда", "rent"}},
		{Field: FieldPayroll, Match: []string{"фот", "зарплат", "payroll", "salaries", "зп", "оплата труда"}},
		{Field: FieldMarketing, Match: []string{"маркетинг", "marketing", "реклама", "продвижение", "ads"}},
		{Field: FieldOtherExpenses, Match: []string{"прочие расходы", "other", "прочее", "другие расходы", "остальное"}},
	}
}

// MapColumn resolves a raw header to its canonical field name.
// Returns false when no synonym matches; unmapped headers are reported by the
// cleaner but never abort processing on their own.
func (t SynonymTable) MapColumn(header string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, set := range t {
		for _, syn := range set.Match {
			if strings.Contains(h, syn) {
				return set.Field, true
			}
		}
	}
	return "", false
}
