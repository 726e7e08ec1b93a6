package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/internal/domain"
	"stockfish_harness/internal/engine"
)

// EngineRepository runs analyses on a local engine process.
type EngineRepository struct {
	cfg     *bootstrap.Config
	log     *zap.SugaredLogger
	session *engine.Session
}

func NewEngineRepository(cfg *bootstrap.Config, log *zap.SugaredLogger) (*EngineRepository, error) {
	proc, err := engine.StartProcess(cfg.EnginePath, log)
	if err != nil {
		return nil, err
	}

	session, err := engine.NewSession(proc, cfg.EngineOptions(), log)
	if err != nil {
		return nil, err
	}

	return NewEngineRepositoryWithSession(cfg, log, session), nil
}

func NewEngineRepositoryWithSession(cfg *bootstrap.Config, log *zap.SugaredLogger, session *engine.Session) *EngineRepository {
	return &EngineRepository{
		cfg:     cfg,
		log:     log,
		session: session,
	}
}

// AnalyzeFen checks ctx before queueing on the session. A search already sent to the engine
// runs to completion.
func (e *EngineRepository) AnalyzeFen(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analysis cancelled: %w", err)
	}
	return e.session.AnalyzeFen(req)
}

func (e *EngineRepository) EngineInfo(ctx context.Context) (domain.EngineInfo, error) {
	return domain.EngineInfo{
		EngineVersion: e.session.EngineVersion(),
		IsChess960:    e.session.IsChess960(),
	}, nil
}

func (e *EngineRepository) Close() error {
	return e.session.Close()
}
