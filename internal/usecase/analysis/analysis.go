package analysis

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockfish_harness/internal/chess960"
	"stockfish_harness/internal/domain"
	errs "stockfish_harness/internal/errors"
)

type EngineStore interface {
	AnalyzeFen(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
	EngineInfo(ctx context.Context) (domain.EngineInfo, error)
}

type ResultStore interface {
	SaveAnalysis(ctx context.Context, rec domain.AnalysisRecord) error
	GetAnalysisByID(ctx context.Context, id string) (domain.AnalysisRecord, error)
	GetAnalysisByRequestKey(ctx context.Context, key string) (domain.AnalysisRecord, error)
}

type ResultCache interface {
	GetAnalysis(ctx context.Context, key string) (domain.AnalysisRecord, bool, error)
	StoreAnalysis(ctx context.Context, key string, rec domain.AnalysisRecord) error
}

type AnalysisUseCase struct {
	engine EngineStore
	store  ResultStore
	cache  ResultCache
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewAnalysisUseCase(engine EngineStore, store ResultStore, cache ResultCache, log *zap.SugaredLogger) *AnalysisUseCase {
	return &AnalysisUseCase{
		engine: engine,
		store:  store,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Analyze returns the stored analysis for req when one exists and runs the engine otherwise.
// Cache and store failures are logged; only engine failures are returned.
func (a *AnalysisUseCase) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisRecord, error) {
	if err := req.Validate(); err != nil {
		return domain.AnalysisRecord{}, err
	}

	info, err := a.engine.EngineInfo(ctx)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	return a.analyze(ctx, info, req, nil)
}

// AnalyzeChess960 analyzes starting position id. The Fen of params is ignored.
func (a *AnalysisUseCase) AnalyzeChess960(ctx context.Context, id int, params domain.AnalysisRequest) (domain.AnalysisRecord, error) {
	fen, err := chess960.FEN(id)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	info, err := a.engine.EngineInfo(ctx)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	if !info.IsChess960 {
		return domain.AnalysisRecord{}, fmt.Errorf("%w: engine runs without UCI_Chess960", errs.ErrVariantMismatch)
	}

	params.Fen = fen
	if err := params.Validate(); err != nil {
		return domain.AnalysisRecord{}, err
	}
	return a.analyze(ctx, info, params, &id)
}

func (a *AnalysisUseCase) analyze(ctx context.Context, info domain.EngineInfo, req domain.AnalysisRequest, chess960ID *int) (domain.AnalysisRecord, error) {
	key := RequestKey(info, req)

	if rec, ok := a.lookup(ctx, key); ok {
		return rec, nil
	}

	result, err := a.engine.AnalyzeFen(ctx, req)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	rec := domain.AnalysisRecord{
		ID:         uuid.New().String(),
		RequestKey: key,
		CreatedAt:  a.now().UTC(),
		IsChess960: info.IsChess960,
		Chess960ID: chess960ID,
		Result:     result,
	}

	if err := a.store.SaveAnalysis(ctx, rec); err != nil {
		a.log.Errorw("failed to store analysis", "id", rec.ID, "error", err)
	}
	a.storeInCache(ctx, key, rec)

	return rec, nil
}

func (a *AnalysisUseCase) lookup(ctx context.Context, key string) (domain.AnalysisRecord, bool) {
	rec, ok, err := a.cache.GetAnalysis(ctx, key)
	if err != nil {
		a.log.Warnw("analysis cache unavailable", "key", key, "error", err)
	} else if ok {
		a.log.Debugw("analysis cache hit", "key", key)
		return rec, true
	}

	rec, err = a.store.GetAnalysisByRequestKey(ctx, key)
	switch {
	case err == nil:
		a.storeInCache(ctx, key, rec)
		return rec, true
	case !errors.Is(err, errs.ErrAnalysisNotFound):
		a.log.Warnw("analysis store unavailable", "key", key, "error", err)
	}
	return domain.AnalysisRecord{}, false
}

func (a *AnalysisUseCase) storeInCache(ctx context.Context, key string, rec domain.AnalysisRecord) {
	if err := a.cache.StoreAnalysis(ctx, key, rec); err != nil {
		a.log.Warnw("failed to cache analysis", "key", key, "error", err)
	}
}

func (a *AnalysisUseCase) GetAnalysis(ctx context.Context, id string) (domain.AnalysisRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("%w: analysis id %q", errs.ErrInvalidRequest, id)
	}
	return a.store.GetAnalysisByID(ctx, id)
}

func (a *AnalysisUseCase) EngineInfo(ctx context.Context) (domain.EngineInfo, error) {
	return a.engine.EngineInfo(ctx)
}

// RequestKey identifies an analysis by engine build, variant and request parameters.
func RequestKey(info domain.EngineInfo, req domain.AnalysisRequest) string {
	raw := fmt.Sprintf("%s|%t|%s|%d|%d|%d",
		info.EngineVersion, info.IsChess960, req.Fen, req.AnalysisDepth, req.MinAnalysisDepth, req.CpLossThreshold)
	hash := md5.Sum([]byte(raw))
	return hex.EncodeToString(hash[:])
}
