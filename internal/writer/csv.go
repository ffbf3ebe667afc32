package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// CSVWriter writes a parsed report to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the report to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, report *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, report)
}

// Write writes the report in CSV format to the given writer. Accounts come
// out in name order so output is stable across runs.
func (w *CSVWriter) Write(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Statement Date", report.Summary.Date.String()})
		writer.Write([]string{"# Total Balance", report.Summary.TotalBalance.String()})
	}

	header := []string{"Account", "Date", "Valuta", "Process", "Reference", "Issuer", "Text", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	names := make([]string, 0, len(report.Accounts))
	for name := range report.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		account := report.Accounts[name]
		if w.IncludeHeader {
			writer.Write([]string{"# Account", name})
			if account.IBAN != "" {
				writer.Write([]string{"# IBAN", account.IBAN})
			}
			if account.StartBalance != nil {
				writer.Write([]string{"# Start Balance", account.StartBalance.String()})
			}
			writer.Write([]string{"# End Balance", account.EndBalance.String()})
		}
		for _, txn := range account.Transactions {
			row := []string{
				name,
				txn.DateOfEntry.String(),
				txn.Valuta.String(),
				txn.Process,
				txn.Reference,
				txn.Issuer,
				txn.Text,
				txn.Amount.String(),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return nil
}
