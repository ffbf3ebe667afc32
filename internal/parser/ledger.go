package parser

import (
	"fmt"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// Ledger records every checkpoint balance observed during a run, keyed by
// account name and date. Statements overlap, so the same checkpoint shows
// up in more than one document; a later observation that disagrees with an
// earlier one means one of the documents is lying. The ledger lives for one
// batch run, is never persisted, and assumes single-threaded access.
type Ledger struct {
	balances map[string]map[models.Date]models.Money
}

// NewLedger returns an empty checkpoint ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]map[models.Date]models.Money)}
}

// AssertCheckpoint records the balance for the account and date on first
// observation, and on repeat observations verifies it against the recorded
// value. Entries are never removed or overwritten.
func (l *Ledger) AssertCheckpoint(account string, date models.Date, balance models.Money) error {
	byDate := l.balances[account]
	if byDate == nil {
		byDate = make(map[models.Date]models.Money)
		l.balances[account] = byDate
	}
	if prev, ok := byDate[date]; ok {
		if prev != balance {
			return fmt.Errorf("%w: %s on %s recorded as %s, now %s",
				ErrCheckpointMismatch, account, date, prev, balance)
		}
		return nil
	}
	byDate[date] = balance
	return nil
}
