package engine

import (
	"strconv"
	"strings"

	"stockfish_harness/internal/errors"
)

const (
	mateToken  = "score mate "
	scoreToken = "score cp "

	reasonUnterminated = "not followed by a space"

	// MateScore replaces a mate score so that only centipawns reach the parser.
	MateScore = 32767
)

// NormalizeMateScores rewrites every "score mate N " into "score cp ±32767 ".
// Negative mates map to -32767, everything else (mate 0 included) to +32767.
func NormalizeMateScores(text string) (string, error) {
	if !strings.Contains(text, mateToken) {
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))

	c := newCursor(text)
	for {
		start := c.index(mateToken)
		if start < 0 {
			sb.WriteString(c.rest())
			return sb.String(), nil
		}
		sb.WriteString(text[c.pos:start])

		c.pos = start + len(mateToken)
		raw := c.token()
		if c.pos >= c.end || text[c.pos] != ' ' {
			return "", &errors.FieldError{Field: "score mate", Value: raw, Reason: reasonUnterminated}
		}
		mate, err := strconv.Atoi(raw)
		if err != nil {
			return "", &errors.FieldError{Field: "score mate", Value: raw}
		}

		sb.WriteString(scoreToken)
		if mate < 0 {
			sb.WriteString(strconv.Itoa(-MateScore))
		} else {
			sb.WriteString(strconv.Itoa(MateScore))
		}
	}
}
