package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// Lexical grammars of the statement's atomic values.
var (
	// Sign-optional euro amount with grouping dots every three digits and an
	// optional comma-delimited fractional part, e.g. -1.234,56.
	amountPattern = regexp.MustCompile(`^[+-]?\d{1,3}(?:\.\d{3})*(?:,\d+)?$`)
	// Exactly DD.MM.YYYY.
	datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
)

var digitStripper = strings.NewReplacer(".", "", ",", "")

// ParseAmount converts a statement amount string into minor currency units.
// Grouping and decimal punctuation are positional only, so the digits read
// as one integer; the layout prints exactly two fractional digits, which is
// what makes that safe.
func ParseAmount(s string) (models.Money, error) {
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	v, err := strconv.ParseInt(digitStripper.Replace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return models.Money(v), nil
}

// ParseDate converts a DD.MM.YYYY string into a calendar date.
func ParseDate(s string) (models.Date, error) {
	// time.Parse alone would also accept single-digit day and month.
	if !datePattern.MatchString(s) {
		return models.Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	t, err := time.Parse("02.01.2006", s)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return models.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}
