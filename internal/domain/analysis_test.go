package domain

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	errs "stockfish_harness/internal/errors"
)

func TestResultRoundTrip(t *testing.T) {
	in := AnalysisResult{
		StockfishVersion: "Stockfish 16.1",
		Fen:              "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		AnalysisDepth:    10,
		MinAnalysisDepth: 5,
		CpLossThreshold:  20,
		Variations: []Variation{
			{CpScore: 30, InfoDepth: 10, MoveTxt: "e2e4"},
			{CpScore: 15, InfoDepth: 10, MoveTxt: "d2d4"},
		},
	}

	data, err := EncodeResult(in)
	if err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{`"StockfishVersion"`, `"Fen"`, `"AnalysisDepth"`, `"MinAnalysisDepth"`, `"CpLossThreshold"`, `"Variations"`, `"CpScore"`, `"InfoDepth"`, `"MoveTxt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded result lacks %s: %s", field, data)
		}
	}

	out, err := DecodeResult(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch\n in: %+v\nout: %+v", in, out)
	}
}

func TestDecodeResultFromConsumer(t *testing.T) {
	data := `{"StockfishVersion":"Stockfish 17","Fen":"8/8/8/8/8/8/8/K6k w - - 0 1","AnalysisDepth":20,"MinAnalysisDepth":10,"CpLossThreshold":0,"Variations":[]}`

	r, err := DecodeResult([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if r.StockfishVersion != "Stockfish 17" || r.AnalysisDepth != 20 || r.Variations == nil {
		t.Errorf("decoded %+v", r)
	}
	if _, ok := r.BestMove(); ok {
		t.Error("empty result reports a best move")
	}
}

func TestAnalysisRequestValidate(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	tests := []struct {
		name string
		req  AnalysisRequest
		ok   bool
	}{
		{"valid", AnalysisRequest{Fen: fen, AnalysisDepth: 10, MinAnalysisDepth: 5, CpLossThreshold: 20}, true},
		{"min equals depth", AnalysisRequest{Fen: fen, AnalysisDepth: 10, MinAnalysisDepth: 10}, true},
		{"empty fen", AnalysisRequest{Fen: " ", AnalysisDepth: 10}, false},
		{"injected command", AnalysisRequest{Fen: fen + "\nquit", AnalysisDepth: 10}, false},
		{"zero depth", AnalysisRequest{Fen: fen}, false},
		{"min above depth", AnalysisRequest{Fen: fen, AnalysisDepth: 4, MinAnalysisDepth: 5}, false},
		{"negative threshold", AnalysisRequest{Fen: fen, AnalysisDepth: 4, CpLossThreshold: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errs.ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
