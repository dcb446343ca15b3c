package parser

import (
	"errors"
	"strings"
	"testing"

	domainerror "github.com/concilia/backend/internal/domain/error"
)

func TestParseChartCSV(t *testing.T) {
	t.Run("full column set", func(t *testing.T) {
		data := []byte(strings.Join([]string{
			"Codigo;Descricao;Nivel;Conta Pai;Tipo;Natureza",
			"1;ATIVO;1;;sintetica;devedora",
			"1.1;ATIVO CIRCULANTE;2;1;sintetica;devedora",
			"1.1.2;CLIENTES;3;1.1;analitica;devedora",
		}, "\n"))

		accounts, err := parseChartCSV("plano.csv", data, "plano.csv")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(accounts) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(accounts))
		}
		leaf := accounts[2]
		if leaf.Code != "1.1.2" || leaf.Name != "CLIENTES" {
			t.Errorf("account = %s %s", leaf.Code, leaf.Name)
		}
		if leaf.Level != 3 {
			t.Errorf("level = %d, want 3", leaf.Level)
		}
		if leaf.ParentCode != "1.1" {
			t.Errorf("parent = %q, want 1.1", leaf.ParentCode)
		}
		if leaf.SourceTag != "plano.csv" {
			t.Errorf("source tag = %q", leaf.SourceTag)
		}
	})

	t.Run("level derived from dotted depth", func(t *testing.T) {
		data := []byte("Conta,Nome\n2.1.1.3,FORNECEDORES NACIONAIS\n")

		accounts, err := parseChartCSV("plano.csv", data, "plano.csv")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if accounts[0].Level != 4 {
			t.Errorf("level = %d, want 4", accounts[0].Level)
		}
	})

	t.Run("rows without code are skipped", func(t *testing.T) {
		data := []byte("Codigo;Nome\n;SEM CODIGO\n1.1;CAIXA\n")

		accounts, err := parseChartCSV("plano.csv", data, "plano.csv")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(accounts) != 1 {
			t.Fatalf("expected 1 account, got %d", len(accounts))
		}
	})

	t.Run("missing code column is a configuration error", func(t *testing.T) {
		data := []byte("Nome;Saldo\nCAIXA;100\n")

		_, err := parseChartCSV("plano.csv", data, "plano.csv")
		var cfgErr *domainerror.ValidationConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ValidationConfigError, got %v", err)
		}
		if cfgErr.Code != domainerror.ErrCodeChartUnreadable {
			t.Errorf("code = %s, want %s", cfgErr.Code, domainerror.ErrCodeChartUnreadable)
		}
	})

	t.Run("header only file is a configuration error", func(t *testing.T) {
		data := []byte("Codigo;Nome\n")

		_, err := parseChartCSV("plano.csv", data, "plano.csv")
		if !errors.Is(err, domainerror.ErrChartEmpty) {
			t.Fatalf("expected chart empty error, got %v", err)
		}
	})
}
