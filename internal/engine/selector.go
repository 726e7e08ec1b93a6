package engine

import (
	"fmt"
	"sort"

	"stockfish_harness/internal/domain"
	"stockfish_harness/internal/errors"
)

// Select keeps the moves that lose at most cpLossThreshold centipawns against the best move and
// orders them strongest first: score descending, then depth descending.
func Select(agg *Aggregation, bestMove string, cpLossThreshold int) ([]domain.Variation, error) {
	best, ok := agg.Lookup(bestMove)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrLookupMiss, bestMove)
	}

	variations := make([]domain.Variation, 0, agg.Len())
	for _, move := range agg.Moves() {
		s, _ := agg.Lookup(move)
		if best.CpScore-s.CpScore > cpLossThreshold {
			continue
		}
		variations = append(variations, domain.Variation{
			CpScore:   s.CpScore,
			InfoDepth: s.InfoDepth,
			MoveTxt:   move,
		})
	}

	sort.SliceStable(variations, func(i, j int) bool {
		if variations[i].CpScore != variations[j].CpScore {
			return variations[i].CpScore > variations[j].CpScore
		}
		return variations[i].InfoDepth > variations[j].InfoDepth
	})

	return variations, nil
}
