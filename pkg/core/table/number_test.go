package table

import (
	"math"
	"testing"
)

func TestCleanNumberStrings(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		missing bool
	}{
		{"1 200 000", 1200000, false},
		{"1,200,000", 1200000, false},
		{"1200000,50", 1200000.5, false},
		{"1 200,50", 1200.5, false},
		{"1,200.50", 1200.5, false},
		{"1200000.50", 1200000.5, false},
		{"₽500000", 500000, false},
		{"500 000 руб", 500000, false},
		{"0", 0, false},
		{"—", 0, true},
		{"-", 0, true},
		{"нет", 0, true},
		{"n/a", 0, true},
		{"none", 0, true},
		{"", 0, true},
		{"1.2.3", 0, true},
		{"-500", 0, true},
		{"abc", 0, true},
	}

	for _, c := range cases {
		got, ok := CleanNumber(c.in)
		if c.missing {
			if ok {
				t.Errorf("CleanNumber(%q) = %v, expected missing", c.in, got)
			}
			continue
		}
		if !ok {
			t.Errorf("CleanNumber(%q) reported missing, expected %v", c.in, c.want)
			continue
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("CleanNumber(%q) = %v, expected %v", c.in, got, c.want)
		}
	}
}

func TestCleanNumberNumerics(t *testing.T) {
	if v, ok := CleanNumber(float64(1500.5)); !ok || v != 1500.5 {
		t.Errorf("numeric passthrough failed: %v %v", v, ok)
	}
	if v, ok := CleanNumber(42); !ok || v != 42 {
		t.Errorf("int passthrough failed: %v %v", v, ok)
	}
	// Negative numeric input is data-entry noise, not an error.
	if _, ok := CleanNumber(float64(-100)); ok {
		t.Error("negative numeric input should be missing")
	}
	if _, ok := CleanNumber(math.NaN()); ok {
		t.Error("NaN should be missing")
	}
	if _, ok := CleanNumber(nil); ok {
		t.Error("nil should be missing")
	}
}
