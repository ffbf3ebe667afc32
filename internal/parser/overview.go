package parser

import (
	"fmt"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// overviewHeader is the fixed label sequence that opens the overview
// section: title, subtitle, then the three column headers.
var overviewHeader = [...]string{"Kontoübersicht", "Ihre aktuellen Salden", "IBAN", "Saldo in", "EUR"}

// ParseOverview consumes the first section of a document and returns a
// Report seeded with the statement summary and one account per balance row.
// Rows are not pre-delimited; tokens sharing an exact y coordinate form one
// visual row (the layout grid is precise, so no tolerance is applied). The
// row with the lowest y is the grand total; the sum of the account balances
// must equal it.
func ParseOverview(section []models.Token) (*models.Report, error) {
	if len(section) < len(overviewHeader) {
		return nil, fmt.Errorf("%w: section has only %d tokens", ErrUnexpectedOverviewHeader, len(section))
	}
	for i, want := range overviewHeader {
		if section[i].Text != want {
			return nil, fmt.Errorf("%w: header token %d is %q, want %q", ErrUnexpectedOverviewHeader, i, section[i].Text, want)
		}
	}

	rows := make(map[float64][]models.Token)
	for _, t := range section[len(overviewHeader):] {
		rows[t.Y] = append(rows[t.Y], t)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no balance rows below the header", ErrUnexpectedOverviewHeader)
	}

	summaryY := 0.0
	first := true
	for y := range rows {
		if first || y < summaryY {
			summaryY = y
			first = false
		}
	}
	summaryRow := rows[summaryY]
	if len(summaryRow) < 3 {
		return nil, fmt.Errorf("%w: truncated summary row", ErrUnexpectedOverviewHeader)
	}
	date, err := ParseDate(summaryRow[1].Text)
	if err != nil {
		return nil, err
	}
	total, err := ParseAmount(summaryRow[2].Text)
	if err != nil {
		return nil, err
	}

	accounts := make(map[string]*models.Account)
	var sum models.Money
	for y, row := range rows {
		if y == summaryY {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: truncated account row %q", ErrUnexpectedOverviewHeader, row[0].Text)
		}
		account := &models.Account{Transactions: []models.Transaction{}}
		if len(row) > 2 {
			account.IBAN = row[1].Text
			account.EndBalance, err = ParseAmount(row[2].Text)
		} else {
			// accounts without an IBAN, e.g. credit cards
			account.EndBalance, err = ParseAmount(row[1].Text)
		}
		if err != nil {
			return nil, err
		}
		accounts[row[0].Text] = account
		sum += account.EndBalance
	}

	if sum != total {
		return nil, fmt.Errorf("%w: accounts sum to %s, total says %s", ErrOverviewBalanceMismatch, sum, total)
	}

	return &models.Report{
		Summary:  models.Summary{Date: date, TotalBalance: total},
		Accounts: accounts,
	}, nil
}
