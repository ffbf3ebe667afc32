package parser

import "github.com/statementworks/comdirect-parser/internal/models"

// captionIndent is the layout threshold above which a token opens a new
// visual block. Captions (account names and section markers) are the only
// tokens rendered above it in this document family.
const captionIndent = 9

// PopSection removes and returns the next caption-delimited section from
// the token queue. The returned slice starts with the caption token and
// runs up to, but not including, the next caption (which stays in the
// queue as the start of the following section).
func PopSection(queue *[]models.Token) ([]models.Token, error) {
	q := *queue
	if len(q) == 0 || q[0].Indent <= captionIndent {
		return nil, ErrMissingCaption
	}
	end := len(q)
	for i := 1; i < len(q); i++ {
		if q[i].Indent > captionIndent {
			end = i
			break
		}
	}
	*queue = q[end:]
	return q[:end], nil
}
