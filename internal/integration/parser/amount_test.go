package parser

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"brazilian with thousands", "1.234,56", "1234.56", true},
		{"brazilian negative prefix", "-1.234,56", "-1234.56", true},
		{"brazilian trailing minus", "1.234,56-", "-1234.56", true},
		{"debit marker", "1.234,56D", "-1234.56", true},
		{"credit marker", "1.234,56C", "1234.56", true},
		{"currency prefix", "R$ 1.234,56", "1234.56", true},
		{"american plain", "1500.00", "1500", true},
		{"american with thousands", "1,234.56", "1234.56", true},
		{"american thousands comma only", "1,234", "1234", true},
		{"integer", "6000", "6000", true},
		{"plus sign", "+ 318,00", "318", true},
		{"empty", "", "", false},
		{"not a number", "abc", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := parseAmount(c.in)
			if ok != c.ok {
				t.Fatalf("parseAmount(%q) ok = %v, want %v", c.in, ok, c.ok)
			}
			if ok && got.String() != c.want {
				t.Errorf("parseAmount(%q) = %s, want %s", c.in, got.String(), c.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	valid := map[string]string{
		"10/03/2025": "2025-03-10",
		"10/03/25":   "2025-03-10",
		"2025-03-10": "2025-03-10",
		"10-03-2025": "2025-03-10",
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, ok := parseDate(in)
			if !ok {
				t.Fatalf("parseDate(%q) failed", in)
			}
			if got.Format("2006-01-02") != want {
				t.Errorf("parseDate(%q) = %s, want %s", in, got.Format("2006-01-02"), want)
			}
		})
	}

	for _, in := range []string{"0000", "6000", "X", "32/01/2025", "10/13/2025", ""} {
		t.Run("rejects "+in, func(t *testing.T) {
			if _, ok := parseDate(in); ok {
				t.Errorf("parseDate(%q) accepted a non-date", in)
			}
		})
	}
}
