package parser

import (
	"errors"
	"testing"

	"github.com/statementworks/comdirect-parser/internal/models"
)

func TestLedger_AssertCheckpoint(t *testing.T) {
	ledger := NewLedger()
	date := models.Date{Year: 2024, Month: 1, Day: 1}

	if err := ledger.AssertCheckpoint("Girokonto", date, 10000); err != nil {
		t.Fatalf("first observation must record: %v", err)
	}

	// Identical repeat observations never fail, no matter how often.
	for i := 0; i < 3; i++ {
		if err := ledger.AssertCheckpoint("Girokonto", date, 10000); err != nil {
			t.Fatalf("repeat observation %d failed: %v", i, err)
		}
	}

	err := ledger.AssertCheckpoint("Girokonto", date, 10001)
	if !errors.Is(err, ErrCheckpointMismatch) {
		t.Fatalf("expected ErrCheckpointMismatch, got %v", err)
	}

	// The recorded value survives a failed assertion.
	if err := ledger.AssertCheckpoint("Girokonto", date, 10000); err != nil {
		t.Errorf("original value no longer accepted: %v", err)
	}
}

func TestLedger_IndependentKeys(t *testing.T) {
	ledger := NewLedger()
	jan := models.Date{Year: 2024, Month: 1, Day: 1}
	feb := models.Date{Year: 2024, Month: 2, Day: 1}

	if err := ledger.AssertCheckpoint("Girokonto", jan, 100); err != nil {
		t.Fatal(err)
	}
	if err := ledger.AssertCheckpoint("Girokonto", feb, 200); err != nil {
		t.Errorf("different date must not conflict: %v", err)
	}
	if err := ledger.AssertCheckpoint("Tagesgeld", jan, 300); err != nil {
		t.Errorf("different account must not conflict: %v", err)
	}
}
