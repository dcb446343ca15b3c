package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewNormalizedKey(t *testing.T) {
	t.Run("discards time of day", func(t *testing.T) {
		morning := time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC)
		evening := time.Date(2025, 3, 10, 22, 45, 0, 0, time.UTC)

		a := NewNormalizedKey(morning, decimal.NewFromFloat(150.00))
		b := NewNormalizedKey(evening, decimal.NewFromFloat(150.00))

		if a != b {
			t.Errorf("expected identical keys, got %v and %v", a, b)
		}
	})

	t.Run("rounds half to even cents", func(t *testing.T) {
		cases := []struct {
			amount string
			cents  int64
		}{
			{"10.005", 1000},
			{"10.015", 1002},
			{"10.025", 1002},
			{"-10.005", -1000},
			{"150.00", 15000},
		}
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		for _, c := range cases {
			amount, err := decimal.NewFromString(c.amount)
			if err != nil {
				t.Fatalf("bad amount %q: %v", c.amount, err)
			}
			key := NewNormalizedKey(day, amount)
			if key.AmountCents != c.cents {
				t.Errorf("amount %s: expected %d cents, got %d", c.amount, c.cents, key.AmountCents)
			}
		}
	})

	t.Run("keeps sign in the key", func(t *testing.T) {
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		credit := NewNormalizedKey(day, decimal.NewFromFloat(150.00))
		debit := NewNormalizedKey(day, decimal.NewFromFloat(-150.00))

		if credit == debit {
			t.Error("expected credit and debit keys to differ")
		}
	})
}

func TestNormalizeDescription(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and strips accents", "Transferência PIX", "transferencia pix"},
		{"removes document numbers", "PAGTO 123456789 ENERGIA", "energia"},
		{"removes tax ids", "FORNECEDOR ACME 12.345.678/0001-90", "fornecedor acme"},
		{"removes masked digits", "CARTAO ****1234 COMPRA", "cartao compra"},
		{"collapses punctuation and spacing", "TED - Cliente;  Silva", "ted cliente silva"},
		{"keeps short numbers", "PARCELA 2 DE 12", "parcela 2 de 12"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeDescription(c.in); got != c.want {
				t.Errorf("NormalizeDescription(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestDescriptionSimilarity(t *testing.T) {
	t.Run("identical descriptions score one", func(t *testing.T) {
		if got := DescriptionSimilarity("pagamento cliente silva", "pagamento cliente silva"); got != 1 {
			t.Errorf("expected 1, got %f", got)
		}
	})

	t.Run("disjoint descriptions score zero", func(t *testing.T) {
		if got := DescriptionSimilarity("tarifa bancaria", "pagamento cliente"); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("partial overlap scores between", func(t *testing.T) {
		got := DescriptionSimilarity("pagamento cliente silva", "pagamento cliente souza")
		if got <= 0 || got >= 1 {
			t.Errorf("expected score in (0,1), got %f", got)
		}
	})

	t.Run("empty against non-empty scores zero", func(t *testing.T) {
		if got := DescriptionSimilarity("", "tarifa"); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})
}
