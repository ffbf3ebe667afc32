package models

import (
	"fmt"
	"strconv"
	"time"
)

// Token is one positioned text fragment from a statement page. Fragments
// arrive in reading order, whitespace-trimmed and already cropped to the
// page's content band.
type Token struct {
	Text   string
	Indent float64 // layout block signal; values above the caption threshold start a new visual block
	X      float64
	Y      float64
	Bold   bool
}

// Money is an amount in minor currency units (euro cents). All arithmetic
// on Money is exact integer arithmetic.
type Money int64

// String formats the amount the way the statement prints it:
// grouping dots every three digits, a comma and two fractional digits,
// e.g. -1.234,56.
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	grouped := ""
	for len(whole) > 3 {
		grouped = "." + whole[len(whole)-3:] + grouped
		whole = whole[:len(whole)-3]
	}
	return fmt.Sprintf("%s%s%s,%02d", sign, whole, grouped, v%100)
}

// Date is a calendar date with no time component. It compares by calendar
// identity and is usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as DD.MM.YYYY, the statement's native form.
func (d Date) String() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year)
}

// MarshalJSON encodes the date in DD.MM.YYYY form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// Transaction is a single booked entry of an account section, in document
// order. Issuer is empty for layouts without an issuer column.
type Transaction struct {
	DateOfEntry Date   `json:"dateOfEntry"`
	Valuta      Date   `json:"valuta"`
	Process     string `json:"process"`
	Reference   string `json:"reference"`
	Issuer      string `json:"issuer,omitempty"`
	Text        string `json:"text"`
	Amount      Money  `json:"amount"`
}

// Account holds one account of a statement. StartBalance is nil until it
// has been derived from the end balance and the transaction amounts.
type Account struct {
	IBAN         string        `json:"iban,omitempty"`
	EndBalance   Money         `json:"endBalance"`
	StartBalance *Money        `json:"startBalance,omitempty"`
	Transactions []Transaction `json:"transactions"`
}

// Summary is the statement-wide balance line of the overview section.
type Summary struct {
	Date         Date  `json:"date"`
	TotalBalance Money `json:"totalBalance"`
}

// Report is the structured result of parsing one statement document.
type Report struct {
	Summary  Summary             `json:"summary"`
	Accounts map[string]*Account `json:"accounts"`
}
