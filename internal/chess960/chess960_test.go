package chess960

import (
	"errors"
	"strings"
	"testing"

	"github.com/notnil/chess"

	errs "stockfish_harness/internal/errors"
)

func TestBackRankKnownIDs(t *testing.T) {
	tests := []struct {
		id   int
		rank string
	}{
		{0, "bbqnnrkr"},
		{1, "bqnbnrkr"},
		{518, "rnbqkbnr"},
		{959, "rkrnnqbb"},
	}

	for _, tt := range tests {
		got, err := BackRank(tt.id)
		if err != nil {
			t.Fatalf("BackRank(%d): %v", tt.id, err)
		}
		if got != tt.rank {
			t.Errorf("BackRank(%d) = %s, want %s", tt.id, got, tt.rank)
		}
	}
}

func TestFENZero(t *testing.T) {
	fen, err := FEN(0)
	if err != nil {
		t.Fatal(err)
	}
	want := "bbqnnrkr/pppppppp/8/8/8/8/PPPPPPPP/BBQNNRKR w KQkq - 0 1"
	if fen != want {
		t.Errorf("FEN(0) = %q, want %q", fen, want)
	}
}

func TestOutOfRange(t *testing.T) {
	for _, id := range []int{-1, Count, 10_000} {
		if _, err := FEN(id); !errors.Is(err, errs.ErrInvalidChess960ID) {
			t.Errorf("FEN(%d) error = %v, want ErrInvalidChess960ID", id, err)
		}
	}
}

func TestAllPositionsAreLegalAndDistinct(t *testing.T) {
	seen := make(map[string]int, Count)

	for id, fen := range Positions() {
		rank := strings.SplitN(fen, "/", 2)[0]
		if prev, ok := seen[rank]; ok {
			t.Fatalf("id %d repeats rank %s of id %d", id, rank, prev)
		}
		seen[rank] = id

		counts := map[rune]int{}
		var bishops, rooks []int
		king := -1
		for sq, piece := range rank {
			counts[piece]++
			switch piece {
			case 'b':
				bishops = append(bishops, sq)
			case 'r':
				rooks = append(rooks, sq)
			case 'k':
				king = sq
			}
		}

		if counts['b'] != 2 || counts['n'] != 2 || counts['q'] != 1 || counts['r'] != 2 || counts['k'] != 1 {
			t.Fatalf("id %d: wrong piece set in %s", id, rank)
		}
		if bishops[0]%2 == bishops[1]%2 {
			t.Errorf("id %d: bishops share a colour in %s", id, rank)
		}
		if !(rooks[0] < king && king < rooks[1]) {
			t.Errorf("id %d: king not between rooks in %s", id, rank)
		}
	}

	if len(seen) != Count {
		t.Fatalf("got %d positions, want %d", len(seen), Count)
	}
}

func TestPositionsDecodeAsFEN(t *testing.T) {
	pieceTypes := map[byte]chess.PieceType{
		'k': chess.King,
		'q': chess.Queen,
		'r': chess.Rook,
		'b': chess.Bishop,
		'n': chess.Knight,
	}

	for _, pos := range All() {
		opt, err := chess.FEN(pos.Fen)
		if err != nil {
			t.Fatalf("id %d: %v", pos.ID, err)
		}
		board := chess.NewGame(opt).Position().Board()

		rank, _ := BackRank(pos.ID)
		for file := 0; file < 8; file++ {
			black := board.Piece(chess.NewSquare(chess.File(file), chess.Rank8))
			white := board.Piece(chess.NewSquare(chess.File(file), chess.Rank1))
			want := pieceTypes[rank[file]]
			if black.Type() != want || black.Color() != chess.Black {
				t.Fatalf("id %d: square %d on rank 8 is %v", pos.ID, file, black)
			}
			if white.Type() != want || white.Color() != chess.White {
				t.Fatalf("id %d: square %d on rank 1 is %v", pos.ID, file, white)
			}
		}
	}
}

func TestPositionsRestartAndStopEarly(t *testing.T) {
	var first []int
	for id := range Positions() {
		first = append(first, id)
		if len(first) == 3 {
			break
		}
	}
	if len(first) != 3 || first[0] != 0 || first[2] != 2 {
		t.Fatalf("early stop yielded %v", first)
	}

	n := 0
	for range Positions() {
		n++
	}
	if n != Count {
		t.Fatalf("second walk yielded %d positions, want %d", n, Count)
	}
}

func TestPosition(t *testing.T) {
	pos, err := Position(518)
	if err != nil {
		t.Fatal(err)
	}
	if pos.ID != 518 || pos.Fen != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1" {
		t.Errorf("Position(518) = %+v", pos)
	}
}
