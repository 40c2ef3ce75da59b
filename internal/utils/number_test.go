package utils

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"120", 120, true},
		{"1,234.50", 1234.5, true},
		{"1 234,50", 1234.5, true},
		{"1.234,50", 1234.5, true},
		{"197 ,00", 197, true},
		{"2,5", 2.5, true},
		{"12,000", 12000, true},
		{"(12.5)", -12.5, true},
		{"AED 1,200", 1200, true},
		{"12 m3", 12, true},
		{"\u00A0450\u202F000", 450000, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
