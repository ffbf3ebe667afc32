package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// Column bands of the transaction table, in page coordinates. Each band is
// a half-open x range owning one field. The numbers are fixed properties of
// this statement layout, not tunables.
const (
	processColLeft  = 115.0
	processColRight = 188.0
	issuerColRight  = 300.0
	textColRight    = 500.0
)

// Checkpoint and header labels of an account section.
const (
	openingLabel = "Alter Saldo"
	closingLabel = "Neuer Saldo"
	issuerHeader = "Auftraggeber/Empfänger"
)

// issuerHeaderPos is where the issuer column header sits in sections that
// carry one; the header block has a fixed token count.
const issuerHeaderPos = 9

// checkpointLen is the token count of a checkpoint row: label, date, balance.
const checkpointLen = 3

// processReferencePattern splits the concatenated process/reference column
// into a free-text process description and either a 16-character
// alphanumeric reference with a slash-separated counter, or a bare
// 15-digit reference.
var processReferencePattern = regexp.MustCompile(`^(.*)([\dA-Z]{16}/\d+|\d{15})$`)

// TransactionScanner walks the body of one account section and produces
// one transaction per Next call, in document order. It is finite and not
// restartable; every body token is attributed to exactly one field of
// exactly one transaction.
type TransactionScanner struct {
	items     []models.Token
	pos       int
	hasIssuer bool
	cur       models.Transaction
	err       error
}

// NewTransactionScanner locates the two bold checkpoint rows of the
// section, verifies both against the ledger, and prepares a scanner over
// the non-bold tokens between them. Checkpoints are committed before any
// body row is decoded, so a decode failure never leaves unverified ledger
// entries behind.
func NewTransactionScanner(section []models.Token, account string, ledger *Ledger) (*TransactionScanner, error) {
	opening := findBold(section, openingLabel)
	if opening < 0 {
		return nil, ErrMissingOpeningCheckpoint
	}
	closing := findBold(section, closingLabel)
	if closing < 0 {
		return nil, ErrMissingClosingCheckpoint
	}
	if err := verifyCheckpoint(section, opening, account, ledger, ErrMissingOpeningCheckpoint); err != nil {
		return nil, err
	}
	if err := verifyCheckpoint(section, closing, account, ledger, ErrMissingClosingCheckpoint); err != nil {
		return nil, err
	}

	hasIssuer := len(section) > issuerHeaderPos && section[issuerHeaderPos].Text == issuerHeader

	bodyStart := opening + checkpointLen
	if bodyStart > closing {
		bodyStart = closing
	}
	var items []models.Token
	for _, t := range section[bodyStart:closing] {
		if !t.Bold {
			items = append(items, t)
		}
	}
	return &TransactionScanner{items: items, hasIssuer: hasIssuer}, nil
}

func findBold(section []models.Token, label string) int {
	for i, t := range section {
		if t.Bold && t.Text == label {
			return i
		}
	}
	return -1
}

// verifyCheckpoint decodes the date and balance tokens following a
// checkpoint label and checks them against the ledger.
func verifyCheckpoint(section []models.Token, at int, account string, ledger *Ledger, missing error) error {
	if at+2 >= len(section) {
		return fmt.Errorf("%w: truncated checkpoint row", missing)
	}
	date, err := ParseDate(section[at+1].Text)
	if err != nil {
		return err
	}
	balance, err := ParseAmount(section[at+2].Text)
	if err != nil {
		return err
	}
	return ledger.AssertCheckpoint(account, date, balance)
}

// Next advances to the next transaction. It returns false when the body is
// exhausted or a row failed to decode; Err distinguishes the two.
func (s *TransactionScanner) Next() bool {
	if s.err != nil || s.pos >= len(s.items) {
		return false
	}

	// An export range from late 2019 occasionally splits a leading "A" off
	// the first token of a row into a stray fragment of its own. Glue it
	// back before decoding: strip the duplicate prefix and drop the stray.
	if s.pos+1 < len(s.items) &&
		strings.HasPrefix(s.items[s.pos].Text, "A") && s.items[s.pos+1].Text == "A" {
		s.items[s.pos].Text = s.items[s.pos].Text[1:]
		s.items = append(s.items[:s.pos+1], s.items[s.pos+2:]...)
	}

	var t models.Transaction
	if t.DateOfEntry, s.err = s.nextDate(); s.err != nil {
		return false
	}
	if t.Valuta, s.err = s.nextDate(); s.err != nil {
		return false
	}

	// The process/reference column wraps without separators.
	processReference := strings.Join(s.columnRun(processColLeft, processColRight), "")
	m := processReferencePattern.FindStringSubmatch(processReference)
	if m == nil {
		s.err = fmt.Errorf("%w: %q", ErrUnrecognizedProcessReference, processReference)
		return false
	}
	t.Process, t.Reference = m[1], m[2]

	textColLeft := processColRight
	if s.hasIssuer {
		t.Issuer = strings.Join(s.columnRun(processColRight, issuerColRight), " ")
		textColLeft = issuerColRight
	}
	t.Text = strings.Join(s.columnRun(textColLeft, textColRight), " ")

	if s.pos >= len(s.items) {
		s.err = fmt.Errorf("%w: amount token missing", ErrMalformedAmount)
		return false
	}
	if t.Amount, s.err = ParseAmount(s.items[s.pos].Text); s.err != nil {
		return false
	}
	s.pos++

	s.cur = t
	return true
}

// Transaction returns the transaction produced by the last Next call.
func (s *TransactionScanner) Transaction() models.Transaction {
	return s.cur
}

// Err returns the error that stopped the scan, if any.
func (s *TransactionScanner) Err() error {
	return s.err
}

func (s *TransactionScanner) nextDate() (models.Date, error) {
	if s.pos >= len(s.items) {
		return models.Date{}, fmt.Errorf("%w: date token missing", ErrMalformedDate)
	}
	d, err := ParseDate(s.items[s.pos].Text)
	if err != nil {
		return models.Date{}, err
	}
	s.pos++
	return d, nil
}

// columnRun consumes the run of tokens whose x position falls inside the
// half-open band [left, right). The run may be empty.
func (s *TransactionScanner) columnRun(left, right float64) []string {
	var parts []string
	for s.pos < len(s.items) && s.items[s.pos].X >= left && s.items[s.pos].X < right {
		parts = append(parts, s.items[s.pos].Text)
		s.pos++
	}
	return parts
}
