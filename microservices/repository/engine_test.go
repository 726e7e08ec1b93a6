package repository

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/internal/domain"
	"stockfish_harness/internal/engine"
	errs "stockfish_harness/internal/errors"
)

type scriptedProcess struct {
	stdout io.Reader
}

func (p *scriptedProcess) Stdin() io.Writer  { return io.Discard }
func (p *scriptedProcess) Stdout() io.Reader { return p.stdout }
func (p *scriptedProcess) Close() error      { return nil }

func newRepository(t *testing.T, output string) *EngineRepository {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	cfg := &bootstrap.Config{IsChess960: true}

	opts := engine.DefaultOptions()
	opts.IsChess960 = true
	session, err := engine.NewSession(&scriptedProcess{stdout: strings.NewReader(output)}, opts, log)
	if err != nil {
		t.Fatal(err)
	}
	repo := NewEngineRepositoryWithSession(cfg, log, session)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

const handshake = "readyok\nid name Stockfish 17\nuciok\n"

func TestEngineRepository(t *testing.T) {
	repo := newRepository(t, handshake+
		"info depth 8 multipv 1 score mate 2 pv f3f7\n"+
			"info depth 8 multipv 2 score cp 40 pv e1g1\n"+
			"bestmove f3f7\n")

	info, err := repo.EngineInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info != (domain.EngineInfo{EngineVersion: "Stockfish 17", IsChess960: true}) {
		t.Errorf("info = %+v", info)
	}

	res, err := repo.AnalyzeFen(context.Background(), domain.AnalysisRequest{Fen: "x", AnalysisDepth: 8, CpLossThreshold: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Variations) != 1 || res.Variations[0] != (domain.Variation{CpScore: 32767, InfoDepth: 8, MoveTxt: "f3f7"}) {
		t.Errorf("variations = %+v", res.Variations)
	}
}

func TestEngineRepositoryCancelled(t *testing.T) {
	repo := newRepository(t, handshake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.AnalyzeFen(ctx, domain.AnalysisRequest{Fen: "x", AnalysisDepth: 8})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	_, err = repo.AnalyzeFen(context.Background(), domain.AnalysisRequest{Fen: "x", AnalysisDepth: 8})
	if !errors.Is(err, errs.ErrProtocolDisconnect) {
		t.Errorf("err = %v, want disconnect once the transcript ends", err)
	}
}
