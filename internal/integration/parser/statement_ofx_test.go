package parser

import (
	"errors"
	"strings"
	"testing"

	domainerror "github.com/concilia/backend/internal/domain/error"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250310120000[-3:BRT]
<TRNAMT>-1500.00
<FITID>2025031001
<MEMO>PAGAMENTO FORNECEDOR ACME
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250311
<TRNAMT>2000.00
<FITID>2025031102
<NAME>RECEBIMENTO CLIENTE SILVA
</STMTTRN>
</BANKTRANLIST>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParseStatementOFX(t *testing.T) {
	t.Run("sgml transactions", func(t *testing.T) {
		entries, skipped, issues, err := parseStatementOFX("extrato.ofx", []byte(sampleOFX))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if skipped != 0 || len(issues) != 0 {
			t.Errorf("skipped = %d, issues = %v", skipped, issues)
		}

		first := entries[0]
		if first.Date.Format("2006-01-02") != "2025-03-10" {
			t.Errorf("date = %s", first.Date.Format("2006-01-02"))
		}
		if first.Amount.String() != "-1500" {
			t.Errorf("amount = %s, want -1500", first.Amount.String())
		}
		if first.Description != "PAGAMENTO FORNECEDOR ACME" {
			t.Errorf("description = %q", first.Description)
		}
		if first.DocumentRef != "2025031001" {
			t.Errorf("document ref = %q", first.DocumentRef)
		}

		second := entries[1]
		if second.Amount.String() != "2000" {
			t.Errorf("amount = %s, want 2000", second.Amount.String())
		}
		if second.Description != "RECEBIMENTO CLIENTE SILVA" {
			t.Errorf("name fallback description = %q", second.Description)
		}
	})

	t.Run("xml style closing tags", func(t *testing.T) {
		data := []byte(`<OFX><STMTTRN>` +
			`<DTPOSTED>20250315</DTPOSTED>` +
			`<TRNAMT>99.90</TRNAMT>` +
			`<MEMO>TARIFA MENSAL</MEMO>` +
			`</STMTTRN></OFX>`)

		entries, _, _, err := parseStatementOFX("extrato.ofx", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Amount.String() != "99.9" {
			t.Errorf("amount = %s, want 99.9", entries[0].Amount.String())
		}
		if entries[0].Description != "TARIFA MENSAL" {
			t.Errorf("description = %q", entries[0].Description)
		}
	})

	t.Run("transaction without posting date is reported", func(t *testing.T) {
		data := []byte(strings.Join([]string{
			"<OFX>",
			"<STMTTRN>",
			"<TRNAMT>10.00",
			"</STMTTRN>",
			"<STMTTRN>",
			"<DTPOSTED>20250310",
			"<TRNAMT>20.00",
			"</STMTTRN>",
			"</OFX>",
		}, "\n"))

		entries, skipped, issues, err := parseStatementOFX("extrato.ofx", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if skipped != 1 {
			t.Errorf("skipped = %d, want 1", skipped)
		}
		if len(issues) != 1 || !strings.Contains(issues[0], "DTPOSTED missing") {
			t.Errorf("issues = %v", issues)
		}
		if entries[0].Description != "sem descricao" {
			t.Errorf("description = %q", entries[0].Description)
		}
	})

	t.Run("file without transactions is empty result", func(t *testing.T) {
		_, _, _, err := parseStatementOFX("vazio.ofx", []byte("<OFX></OFX>"))
		if !errors.Is(err, domainerror.ErrEmptyResult) {
			t.Fatalf("expected empty result error, got %v", err)
		}
	})
}
