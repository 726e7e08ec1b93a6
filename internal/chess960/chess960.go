// Package chess960 numbers the Fischer Random starting positions the way FIDE does.
package chess960

import (
	"fmt"
	"iter"
	"strings"

	"stockfish_harness/internal/domain"
	"stockfish_harness/internal/errors"
)

// Count is the number of distinct Chess960 starting positions.
const Count = 960

// knightPairs lists the 2-of-5 choices of free squares, indexed by the fourth quotient.
var knightPairs = [10][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {1, 3}, {1, 4},
	{2, 3}, {2, 4},
	{3, 4},
}

// BackRank returns black's back rank (lowercase, a-file first) for the given id.
func BackRank(id int) (string, error) {
	if id < 0 || id >= Count {
		return "", fmt.Errorf("%w: %d", errors.ErrInvalidChess960ID, id)
	}

	var rank [8]byte

	n2, b1 := id/4, id%4
	rank[2*b1+1] = 'b'

	n3, b2 := n2/4, n2%4
	rank[2*b2] = 'b'

	n4, q := n3/6, n3%6
	rank[freeSquares(rank)[q]] = 'q'

	free := freeSquares(rank)
	pair := knightPairs[n4]
	rank[free[pair[0]]] = 'n'
	rank[free[pair[1]]] = 'n'

	free = freeSquares(rank)
	rank[free[0]] = 'r'
	rank[free[1]] = 'k'
	rank[free[2]] = 'r'

	return string(rank[:]), nil
}

// FEN returns the full starting FEN for the given id.
func FEN(id int) (string, error) {
	rank, err := BackRank(id)
	if err != nil {
		return "", err
	}
	return rankToFEN(rank), nil
}

func Position(id int) (domain.StartingPosition, error) {
	fen, err := FEN(id)
	if err != nil {
		return domain.StartingPosition{}, err
	}
	return domain.StartingPosition{ID: id, Fen: fen}, nil
}

// Positions yields every (id, fen) pair in increasing id order. Each call starts over.
func Positions() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for id := 0; id < Count; id++ {
			fen, _ := FEN(id)
			if !yield(id, fen) {
				return
			}
		}
	}
}

func All() []domain.StartingPosition {
	positions := make([]domain.StartingPosition, 0, Count)
	for id, fen := range Positions() {
		positions = append(positions, domain.StartingPosition{ID: id, Fen: fen})
	}
	return positions
}

func rankToFEN(rank string) string {
	return rank + "/pppppppp/8/8/8/8/PPPPPPPP/" + strings.ToUpper(rank) + " w KQkq - 0 1"
}

func freeSquares(rank [8]byte) []int {
	free := make([]int, 0, 8)
	for sq, piece := range rank {
		if piece == 0 {
			free = append(free, sq)
		}
	}
	return free
}
