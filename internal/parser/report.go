package parser

import (
	"fmt"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// Section markers that are not account names.
const (
	// taxSummaryCaption ends document processing; everything below it is
	// tax reporting, not account ledgers.
	taxSummaryCaption = "Steuerübersicht"
	// depotCaption marks a securities section. Those carry positions, not
	// cash movements, and are skipped. TODO: parse Depot holdings once a
	// document with a non-empty Depot section is available.
	depotCaption = "Depot"
)

// ParseDocument recovers a structured Report from the positioned token
// stream of one statement document. The ledger accumulates checkpoint
// observations across documents of a run. Any failure aborts the document
// and comes back wrapped with docName; the failure kind stays matchable
// with errors.Is.
func ParseDocument(docName string, tokens []models.Token, ledger *Ledger) (*models.Report, error) {
	report, err := parseDocument(tokens, ledger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docName, err)
	}
	return report, nil
}

func parseDocument(tokens []models.Token, ledger *Ledger) (*models.Report, error) {
	queue := tokens

	section, err := PopSection(&queue)
	if err != nil {
		return nil, err
	}
	report, err := ParseOverview(section)
	if err != nil {
		return nil, err
	}

	for len(queue) > 0 {
		section, err := PopSection(&queue)
		if err != nil {
			return nil, err
		}
		name := section[0].Text
		if name == taxSummaryCaption {
			break
		}
		account, ok := report.Accounts[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAccountSection, name)
		}
		if name == depotCaption {
			continue
		}

		scanner, err := NewTransactionScanner(section, name, ledger)
		if err != nil {
			return nil, err
		}
		for scanner.Next() {
			account.Transactions = append(account.Transactions, scanner.Transaction())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}

		start := account.EndBalance
		for _, t := range account.Transactions {
			start += t.Amount
		}
		account.StartBalance = &start
	}

	return report, nil
}
