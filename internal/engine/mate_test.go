package engine

import (
	"errors"
	"testing"

	errs "stockfish_harness/internal/errors"
)

func TestNormalizeMateScores(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "negative mate",
			in:   "info depth 9 score mate -3 nodes 10 pv e1e2\n",
			want: "info depth 9 score cp -32767 nodes 10 pv e1e2\n",
		},
		{
			name: "positive mate",
			in:   "info depth 9 score mate 2 nodes 10 pv h5f7\n",
			want: "info depth 9 score cp 32767 nodes 10 pv h5f7\n",
		},
		{
			name: "mate in zero",
			in:   "info depth 0 score mate 0 \n",
			want: "info depth 0 score cp 32767 \n",
		},
		{
			name: "large magnitude",
			in:   "score mate -125 pv a1a2",
			want: "score cp -32767 pv a1a2",
		},
		{
			name: "every occurrence",
			in: "info depth 5 multipv 1 score mate 1 pv d1h5\n" +
				"info depth 5 multipv 2 score cp 40 pv e2e4\n" +
				"info depth 5 multipv 3 score mate -4 pv g2g4\n",
			want: "info depth 5 multipv 1 score cp 32767 pv d1h5\n" +
				"info depth 5 multipv 2 score cp 40 pv e2e4\n" +
				"info depth 5 multipv 3 score cp -32767 pv g2g4\n",
		},
		{
			name: "no mate scores",
			in:   "info depth 1 score cp 12 pv e2e4\nbestmove e2e4\n",
			want: "info depth 1 score cp 12 pv e2e4\nbestmove e2e4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMateScores(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeMateScoresMalformed(t *testing.T) {
	tests := []struct {
		in      string
		reason  string
		message string
	}{
		{"info depth 3 score mate x pv e2e4\n", "", "score mate not numeric >x"},
		{"info depth 3 score mate 3\n", reasonUnterminated, "score mate not followed by a space >3"},
		{"info depth 3 score mate 3", reasonUnterminated, "score mate not followed by a space >3"},
		{"info depth 0 score mate 0\nbestmove (none)\n", reasonUnterminated, "score mate not followed by a space >0"},
	}

	for _, tt := range tests {
		_, err := NormalizeMateScores(tt.in)
		if !errors.Is(err, errs.ErrMalformedNumericField) {
			t.Errorf("%q: error = %v, want ErrMalformedNumericField", tt.in, err)
		}
		var fieldErr *errs.FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "score mate" {
			t.Errorf("%q: error = %#v, want FieldError for score mate", tt.in, err)
			continue
		}
		if fieldErr.Reason != tt.reason {
			t.Errorf("%q: reason = %q, want %q", tt.in, fieldErr.Reason, tt.reason)
		}
		if err.Error() != tt.message {
			t.Errorf("%q: message = %q, want %q", tt.in, err.Error(), tt.message)
		}
	}
}
