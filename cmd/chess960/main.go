package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stockfish_harness/internal/adapters"
	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/internal/chess960"
	"stockfish_harness/internal/domain"
	errs "stockfish_harness/internal/errors"
	"stockfish_harness/internal/repository"
	analysisUC "stockfish_harness/internal/usecase/analysis"
	engineRepository "stockfish_harness/microservices/repository"
)

func main() {
	from := flag.Int("from", 0, "first starting position id")
	to := flag.Int("to", chess960.Count-1, "last starting position id")
	cfgPath := flag.String("config", ".env", "config file")
	flag.Parse()

	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}
	cfg.IsChess960 = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoAdapter := adapters.NewAdapterMongo(cfg, logger)
	if err := mongoAdapter.Init(ctx); err != nil {
		logger.Errorw("Failed to initialize MongoDB", zap.Error(err))
		return
	}
	defer mongoAdapter.Close(context.Background())

	redisAdapter := adapters.NewAdapterRedis(cfg, logger)
	if err := redisAdapter.Init(ctx); err != nil {
		logger.Errorw("Failed to initialize Redis", zap.Error(err))
		return
	}
	defer redisAdapter.Close(context.Background())

	var engine analysisUC.EngineStore
	if cfg.EngineGrpcAddr != "" {
		remote, err := repository.NewRemoteEngineRepository(cfg, logger)
		if err != nil {
			logger.Errorw("Failed to dial engine service", zap.Error(err))
			return
		}
		defer remote.Close()
		engine = remote
	} else {
		local, err := engineRepository.NewEngineRepository(cfg, logger)
		if err != nil {
			logger.Errorw("Failed to start engine", zap.Error(err))
			return
		}
		defer local.Close()
		engine = local
	}

	storage := repository.NewMongoAnalysisStorage(mongoAdapter.Database, logger)
	if err := storage.EnsureIndexes(ctx); err != nil {
		logger.Errorw("Failed to prepare analyses collection", zap.Error(err))
		return
	}
	uc := analysisUC.NewAnalysisUseCase(engine, storage, repository.NewRedisAnalysisCache(redisAdapter.GetClient(), cfg.CacheTTL), logger)

	params := domain.AnalysisRequest{
		AnalysisDepth:    cfg.DefaultAnalysisDepth,
		MinAnalysisDepth: cfg.DefaultMinDepth,
		CpLossThreshold:  cfg.DefaultCpLossThreshold,
	}

	done, failed := 0, 0
	for id := range chess960.Positions() {
		if id < *from {
			continue
		}
		if id > *to || ctx.Err() != nil {
			break
		}

		rec, err := uc.AnalyzeChess960(ctx, id, params)
		if err != nil {
			failed++
			logger.Errorw("analysis failed", "chess960_id", id, zap.Error(err))
			if errors.Is(err, errs.ErrProtocolDisconnect) || errors.Is(err, errs.ErrVariantMismatch) {
				break
			}
			continue
		}

		done++
		best, _ := rec.Result.BestMove()
		logger.Infow("position analyzed", "chess960_id", id, "analysis_id", rec.ID, "best_move", best.MoveTxt, "cp", best.CpScore, "variations", len(rec.Result.Variations))
	}

	logger.Infow("batch finished", "from", *from, "to", *to, "analyzed", done, "failed", failed)
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}
