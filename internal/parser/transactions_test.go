package parser

import (
	"errors"
	"testing"

	"github.com/statementworks/comdirect-parser/internal/models"
)

type checkpoint struct {
	date    string
	balance string
}

func tokX(text string, x float64) models.Token {
	return models.Token{Text: text, Indent: 7, X: x}
}

func boldTok(text string) models.Token {
	return models.Token{Text: text, Indent: 7, Bold: true}
}

// accountSection builds a per-account section: caption, the fixed header
// block (token 9 toggles the issuer column), opening checkpoint, body,
// closing checkpoint.
func accountSection(name string, withIssuer bool, opening, closing checkpoint, rows []models.Token) []models.Token {
	column9 := "Buchungstext"
	column10 := "Umsatz in EUR"
	if withIssuer {
		column9 = "Auftraggeber/Empfänger"
		column10 = "Buchungstext"
	}
	section := []models.Token{
		caption(name),
		body("Ihre Umsätze im Überblick"),
		body("Zeitraum:"),
		body("01.01.2024"),
		body("-"),
		body("31.01.2024"),
		body("Buchungstag"),
		body("Wertstellung (Valuta)"),
		body("Vorgang"),
		body(column9),
		body(column10),
		body("Umsatz in EUR"),
		boldTok("Alter Saldo"), body(opening.date), body(opening.balance),
	}
	section = append(section, rows...)
	section = append(section,
		boldTok("Neuer Saldo"), body(closing.date), body(closing.balance))
	return section
}

func collect(t *testing.T, s *TransactionScanner) []models.Transaction {
	t.Helper()
	var txns []models.Transaction
	for s.Next() {
		txns = append(txns, s.Transaction())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return txns
}

func TestTransactionScanner_WithIssuer(t *testing.T) {
	rows := []models.Token{
		// first row: multi-fragment process/reference and text runs
		tokX("01.01.2024", 57), tokX("02.01.2024", 93),
		tokX("Lastschrift", 115), tokX("HX3PPP0291234567/2", 120),
		tokX("EDEKA", 190), tokX("MUENCHEN", 250),
		tokX("Kartenzahlung", 310), tokX("girocard", 400),
		tokX("-23,45", 520),
		// page-break column header repeat, bold, must be filtered out
		boldTok("Buchungstag"),
		// second row: bare 15-digit reference, empty issuer run
		tokX("03.01.2024", 57), tokX("03.01.2024", 93),
		tokX("Wertpapierkauf", 115), tokX("123456789012345", 130),
		tokX("Komm. Wertpapiere", 310),
		tokX("-1.000,00", 520),
	}
	section := accountSection("Girokonto", true,
		checkpoint{"01.01.2024", "2.000,00"},
		checkpoint{"03.01.2024", "976,55"},
		rows)

	scanner, err := NewTransactionScanner(section, "Girokonto", NewLedger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txns := collect(t, scanner)

	// Every body token must land in exactly one field of exactly one
	// transaction; an unattributed leftover would either start a bogus
	// third row or fail the scan.
	want := []models.Transaction{
		{
			DateOfEntry: models.Date{Year: 2024, Month: 1, Day: 1},
			Valuta:      models.Date{Year: 2024, Month: 1, Day: 2},
			Process:     "Lastschrift",
			Reference:   "HX3PPP0291234567/2",
			Issuer:      "EDEKA MUENCHEN",
			Text:        "Kartenzahlung girocard",
			Amount:      -2345,
		},
		{
			DateOfEntry: models.Date{Year: 2024, Month: 1, Day: 3},
			Valuta:      models.Date{Year: 2024, Month: 1, Day: 3},
			Process:     "Wertpapierkauf",
			Reference:   "123456789012345",
			Issuer:      "",
			Text:        "Komm. Wertpapiere",
			Amount:      -100000,
		},
	}
	if len(txns) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(txns), len(want))
	}
	for i := range want {
		if txns[i] != want[i] {
			t.Errorf("transaction %d = %+v, want %+v", i, txns[i], want[i])
		}
	}
}

func TestTransactionScanner_WithoutIssuer(t *testing.T) {
	rows := []models.Token{
		tokX("01.01.2024", 57), tokX("01.01.2024", 93),
		tokX("Übertrag", 115), tokX("123456789012345", 130),
		// x positions below 300 belong to the text band when there is no
		// issuer column
		tokX("Übertrag auf", 190), tokX("Tagesgeld", 310),
		tokX("500,00", 520),
	}
	section := accountSection("Tagesgeld", false,
		checkpoint{"01.01.2024", "0,00"},
		checkpoint{"01.01.2024", "500,00"},
		rows)

	scanner, err := NewTransactionScanner(section, "Tagesgeld", NewLedger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txns := collect(t, scanner)

	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	if txns[0].Issuer != "" {
		t.Errorf("issuer must be empty without an issuer column, got %q", txns[0].Issuer)
	}
	if txns[0].Text != "Übertrag auf Tagesgeld" {
		t.Errorf("text = %q, want the full [188,500) run", txns[0].Text)
	}
	if txns[0].Amount != 50000 {
		t.Errorf("amount = %d, want 50000", txns[0].Amount)
	}
}

func TestTransactionScanner_GlitchCorrection(t *testing.T) {
	// Some exports split a leading "A" off the first token of a row into a
	// stray fragment. The pair ("A01.01.2024", "A") must decode as if the
	// row had started with "01.01.2024".
	rows := []models.Token{
		tokX("A01.01.2024", 57), tokX("A", 60), tokX("02.01.2024", 93),
		tokX("Lastschrift", 115), tokX("123456789012345", 130),
		tokX("Miete", 310),
		tokX("-800,00", 520),
	}
	section := accountSection("Girokonto", true,
		checkpoint{"01.01.2024", "1.000,00"},
		checkpoint{"02.01.2024", "200,00"},
		rows)

	scanner, err := NewTransactionScanner(section, "Girokonto", NewLedger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txns := collect(t, scanner)

	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	if want := (models.Date{Year: 2024, Month: 1, Day: 1}); txns[0].DateOfEntry != want {
		t.Errorf("date of entry = %v, want %v", txns[0].DateOfEntry, want)
	}
}

func TestTransactionScanner_MissingCheckpoints(t *testing.T) {
	section := accountSection("Girokonto", false,
		checkpoint{"01.01.2024", "0,00"},
		checkpoint{"01.01.2024", "0,00"},
		nil)

	noOpening := make([]models.Token, len(section))
	copy(noOpening, section)
	noOpening[12].Bold = false // label present but not bold does not count
	if _, err := NewTransactionScanner(noOpening, "Girokonto", NewLedger()); !errors.Is(err, ErrMissingOpeningCheckpoint) {
		t.Errorf("expected ErrMissingOpeningCheckpoint, got %v", err)
	}

	noClosing := section[:len(section)-3]
	if _, err := NewTransactionScanner(noClosing, "Girokonto", NewLedger()); !errors.Is(err, ErrMissingClosingCheckpoint) {
		t.Errorf("expected ErrMissingClosingCheckpoint, got %v", err)
	}
}

func TestTransactionScanner_BadReference(t *testing.T) {
	rows := []models.Token{
		tokX("01.01.2024", 57), tokX("01.01.2024", 93),
		tokX("Lastschrift", 115), // no reference shape at the end
		tokX("Miete", 310),
		tokX("-800,00", 520),
	}
	section := accountSection("Girokonto", false,
		checkpoint{"01.01.2024", "0,00"},
		checkpoint{"01.01.2024", "0,00"},
		rows)

	scanner, err := NewTransactionScanner(section, "Girokonto", NewLedger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for scanner.Next() {
	}
	if !errors.Is(scanner.Err(), ErrUnrecognizedProcessReference) {
		t.Errorf("expected ErrUnrecognizedProcessReference, got %v", scanner.Err())
	}
}

func TestTransactionScanner_ChecksLedger(t *testing.T) {
	section := accountSection("Girokonto", false,
		checkpoint{"01.01.2024", "1.000,00"},
		checkpoint{"31.01.2024", "1.000,00"},
		nil)

	ledger := NewLedger()
	if err := ledger.AssertCheckpoint("Girokonto",
		models.Date{Year: 2024, Month: 1, Day: 1}, 99999); err != nil {
		t.Fatal(err)
	}

	_, err := NewTransactionScanner(section, "Girokonto", ledger)
	if !errors.Is(err, ErrCheckpointMismatch) {
		t.Fatalf("expected ErrCheckpointMismatch, got %v", err)
	}

	// With a fresh ledger the same section records both checkpoints.
	fresh := NewLedger()
	if _, err := NewTransactionScanner(section, "Girokonto", fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = fresh.AssertCheckpoint("Girokonto",
		models.Date{Year: 2024, Month: 1, Day: 31}, 1)
	if !errors.Is(err, ErrCheckpointMismatch) {
		t.Errorf("closing checkpoint was not recorded, got %v", err)
	}
}
