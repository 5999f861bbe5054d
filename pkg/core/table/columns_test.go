package table

import "testing"

func TestMapColumn(t *testing.T) {
	synonyms := DefaultSynonyms()

	cases := []struct {
		header string
		want   string
		mapped bool
	}{
		{"Выручка (руб)", FieldRevenue, true},
		{"Revenue", FieldRevenue, true},
		{"  Месяц  ", FieldPeriod, true},
		{"ФОТ", FieldPayroll, true},
		{"Себест.", FieldCOGS, true},
		{"Маркетинг и реклама", FieldMarketing, true},
		{"Аренда помещения", FieldRent, true},
		{"Прочие расходы", FieldOtherExpenses, true},
		{"Итого", "", false},
		{"Комментарий", "", false},
	}

	for _, c := range cases {
		got, ok := synonyms.MapColumn(c.header)
		if ok != c.mapped {
			t.Errorf("MapColumn(%q) mapped=%v, expected %v", c.header, ok, c.mapped)
			continue
		}
		if ok && got != c.want {
			t.Errorf("MapColumn(%q) = %q, expected %q", c.header, got, c.want)
		}
	}
}

func TestMapColumnFirstFieldWins(t *testing.T) {
	// "date" appears before any revenue synonym in the table order.
	synonyms := DefaultSynonyms()
	got, ok := synonyms.MapColumn("Date of sales")
	if !ok || got != FieldPeriod {
		t.Errorf("expected period (first matching field wins), got %q ok=%v", got, ok)
	}
}
