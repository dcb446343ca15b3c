package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

func TestParseLedgerTXT(t *testing.T) {
	t.Run("date first layout with direction marker", func(t *testing.T) {
		data := []byte(strings.Join([]string{
			"10/03/2025 PAGAMENTO FORNECEDOR ACME 1.500,00 D",
			"11/03/2025 RECEBIMENTO CLIENTE SILVA 2.000,00 C",
		}, "\n"))

		entries, skipped, _, err := parseLedgerTXT("diario.txt", data, entity.RoleUnspecified)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if skipped != 0 {
			t.Errorf("expected 0 skipped lines, got %d", skipped)
		}
		if entries[0].Amount.String() != "-1500" {
			t.Errorf("debit entry amount = %s, want -1500", entries[0].Amount.String())
		}
		if entries[1].Amount.String() != "2000" {
			t.Errorf("credit entry amount = %s, want 2000", entries[1].Amount.String())
		}
		if entries[0].Description != "PAGAMENTO FORNECEDOR ACME" {
			t.Errorf("unexpected description %q", entries[0].Description)
		}
		if entries[0].SourceLine != 1 || entries[1].SourceLine != 2 {
			t.Errorf("source lines = %d, %d", entries[0].SourceLine, entries[1].SourceLine)
		}
	})

	t.Run("delimited layout with account code", func(t *testing.T) {
		data := []byte("|6100|16/10/2025|266|543|2500,00||TRANSFERENCIA ENVIADA PARA FORNECEDOR XYZ|\n")

		entries, _, _, err := parseLedgerTXT("diario.txt", data, entity.RoleUnspecified)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		e := entries[0]
		if e.Date.Format("2006-01-02") != "2025-10-16" {
			t.Errorf("date = %s", e.Date.Format("2006-01-02"))
		}
		if e.Amount.String() != "2500" {
			t.Errorf("amount = %s, want 2500", e.Amount.String())
		}
		if e.AccountCode != "6100" {
			t.Errorf("account code = %q, want 6100", e.AccountCode)
		}
		if e.DocumentRef != "266" {
			t.Errorf("document ref = %q, want 266", e.DocumentRef)
		}
		if !strings.Contains(e.Description, "TRANSFERENCIA ENVIADA") {
			t.Errorf("description = %q", e.Description)
		}
	})

	t.Run("date in the middle layout", func(t *testing.T) {
		data := []byte("LANC CONTABIL 12/03/2025 TARIFA BANCARIA MENSAL 45,90\n")

		entries, _, _, err := parseLedgerTXT("diario.txt", data, entity.RoleUnspecified)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Amount.String() != "45.9" {
			t.Errorf("amount = %s, want 45.9", entries[0].Amount.String())
		}
	})

	t.Run("unmatched lines are skipped and counted", func(t *testing.T) {
		data := []byte(strings.Join([]string{
			"DATA HISTORICO DOCUMENTO VALOR",
			"linha sem nada de util",
			"10/03/2025 PAGAMENTO CONTA LUZ 150,00 D",
		}, "\n"))

		entries, skipped, issues, err := parseLedgerTXT("diario.txt", data, entity.RoleUnspecified)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if skipped != 1 {
			t.Errorf("expected 1 skipped line, got %d", skipped)
		}
		if len(issues) != 1 {
			t.Errorf("expected 1 issue, got %d", len(issues))
		}
	})

	t.Run("zero entries is a hard failure", func(t *testing.T) {
		data := []byte("nada aqui\noutra linha inutil\n")

		_, _, _, err := parseLedgerTXT("vazio.txt", data, entity.RoleUnspecified)
		if err == nil {
			t.Fatal("expected error for file with no entries")
		}
		var parseErr *domainerror.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %T", err)
		}
		if parseErr.Code != domainerror.ErrCodeEmptyResult {
			t.Errorf("code = %s, want %s", parseErr.Code, domainerror.ErrCodeEmptyResult)
		}
		if parseErr.File != "vazio.txt" {
			t.Errorf("file = %q", parseErr.File)
		}
		if !errors.Is(err, domainerror.ErrEmptyResult) {
			t.Error("expected errors.Is match on ErrEmptyResult")
		}
	})

	t.Run("payable role forces debits", func(t *testing.T) {
		data := []byte("10/03/2025 PAGAMENTO FORNECEDOR 1.500,00 C\n")

		entries, _, _, err := parseLedgerTXT("pagar.txt", data, entity.RolePayable)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entries[0].Amount.String() != "-1500" {
			t.Errorf("amount = %s, want -1500", entries[0].Amount.String())
		}
	})

	t.Run("receivable role forces credits", func(t *testing.T) {
		data := []byte("10/03/2025 RECEBIMENTO CLIENTE 1.500,00 D\n")

		entries, _, _, err := parseLedgerTXT("receber.txt", data, entity.RoleReceivable)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entries[0].Amount.String() != "1500" {
			t.Errorf("amount = %s, want 1500", entries[0].Amount.String())
		}
	})
}
