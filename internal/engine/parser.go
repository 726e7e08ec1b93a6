package engine

import (
	"fmt"
	"strconv"
	"strings"

	"stockfish_harness/internal/errors"
)

const (
	infoDepthToken = "info depth "
	movesToken     = " pv "
	bestMoveToken  = "bestmove "
)

// InfoRecord is one "info depth" line of a search, with the score already in centipawns.
type InfoRecord struct {
	Depth   int
	CpScore int
	PV      []string
}

// Move is the first move of the principal variation.
func (r InfoRecord) Move() string {
	if len(r.PV) == 0 {
		return ""
	}
	return r.PV[0]
}

type Output struct {
	Records  []InfoRecord
	BestMove string
}

// ParseOutput extracts the info records and the best move from the buffered output of one
// search. The text must already have gone through NormalizeMateScores.
//
// A record runs from one "info depth " marker to the next. Records without a "score cp " or a
// " pv " marker are skipped; a depth or score that is not an integer fails the whole run.
func ParseOutput(text string) (Output, error) {
	c := newCursor(text)

	bestIdx := c.index(bestMoveToken)
	if bestIdx < 0 {
		return Output{}, fmt.Errorf("%w: %w %q", errors.ErrProtocolDisconnect, errors.ErrMissingToken, strings.TrimSpace(bestMoveToken))
	}

	var out Output

	info := c.sub(bestIdx)
	for info.seek(infoDepthToken) {
		next := info.index(infoDepthToken)
		if next < 0 {
			next = info.end
		}

		rec, ok, err := parseInfo(info.sub(next))
		if err != nil {
			return Output{}, err
		}
		if ok {
			out.Records = append(out.Records, rec)
		}

		info.pos = next
	}

	best := c.sub(c.end)
	best.pos = bestIdx + len(bestMoveToken)
	out.BestMove = best.token()

	return out, nil
}

func parseInfo(c *cursor) (InfoRecord, bool, error) {
	var rec InfoRecord

	raw := c.token()
	depth, err := strconv.Atoi(raw)
	if err != nil {
		return rec, false, &errors.FieldError{Field: "info depth", Value: raw}
	}
	rec.Depth = depth

	if !c.seek(scoreToken) {
		return rec, false, nil
	}
	raw = c.token()
	cp, err := strconv.Atoi(raw)
	if err != nil {
		return rec, false, &errors.FieldError{Field: "score cp", Value: raw}
	}
	rec.CpScore = cp

	if !c.seek(movesToken) {
		return rec, false, nil
	}
	rec.PV = strings.Fields(c.line())
	if len(rec.PV) == 0 {
		return rec, false, nil
	}

	return rec, true, nil
}
