package extractor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/statementworks/comdirect-parser/internal/models"
)

// Vertical content band of a statement page. Fragments outside it belong to
// the letterhead and footer chrome, never to the data grid.
const (
	contentBandBottom = 43.0
	contentBandTop    = 715.0
)

// boldFaces are the font faces the statement renders checkpoint rows with.
// Font resource names carry a subset-tag prefix, so matching is by suffix.
var boldFaces = []string{"Dax-Medium", "MarkOffcPro-Bold"}

// minTokenQuality is the share of plausible statement characters below
// which an extraction is treated as font-encoding garbage.
const minTokenQuality = 0.6

// ExtractTokens reads a statement PDF and returns its positioned text
// fragments in reading order, whitespace-only fragments dropped and the
// page chrome cropped away. Page 1 is the greeting page and is skipped.
func ExtractTokens(filePath string) (tokens []models.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages < 2 {
		return nil, fmt.Errorf("PDF has %d page(s), expected a greeting page followed by statement pages", numPages)
	}

	for i := 2; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		boldByFont := make(map[string]bool)
		for _, t := range page.Content().Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			if t.Y <= contentBandBottom || t.Y >= contentBandTop {
				continue
			}
			bold, seen := boldByFont[t.Font]
			if !seen {
				bold = isBoldFace(t.Font)
				boldByFont[t.Font] = bold
			}
			tokens = append(tokens, models.Token{
				Text: t.S,
				// captions render at a larger transform scale than body
				// text; the scale travels with the token as the block signal
				Indent: t.FontSize,
				X:      t.X,
				Y:      t.Y,
				Bold:   bold,
			})
		}
	}

	if err := checkTokens(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func isBoldFace(font string) bool {
	for _, face := range boldFaces {
		if strings.HasSuffix(font, face) {
			return true
		}
	}
	return false
}

// checkTokens rejects extractions that clearly did not yield a statement
// token stream, so downstream layout recovery never runs on garbage.
func checkTokens(tokens []models.Token) error {
	if len(tokens) == 0 {
		return fmt.Errorf("no text found in the content band; the PDF may be image-based or empty")
	}
	if q := tokenQuality(tokens); q < minTokenQuality {
		return fmt.Errorf("extracted text is only %.0f%% readable; the PDF likely uses font encodings that cannot be decoded", q*100)
	}
	return nil
}

// tokenQuality returns the share of characters that are plausible statement
// text. Undecodable font encodings produce mostly characters outside this
// set.
func tokenQuality(tokens []models.Token) float64 {
	total, readable := 0, 0
	for _, t := range tokens {
		for _, r := range t.Text {
			total++
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-+/:;()&'"%*€`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
