package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"stockfish_harness/internal/adapters"
	"stockfish_harness/internal/bootstrap"
	analysisDelivery "stockfish_harness/internal/delivery/analysis"
	ownMiddleware "stockfish_harness/internal/middleware"
	"stockfish_harness/internal/repository"
	analysisUC "stockfish_harness/internal/usecase/analysis"
	engineRepository "stockfish_harness/microservices/repository"
)

type engineStore interface {
	analysisUC.EngineStore
	Close() error
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	engine, err := newEngineStore(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to start engine", zap.Error(err))
	}
	defer engine.Close()

	storage := repository.NewMongoAnalysisStorage(databaseAdapters.mongoAdapter.Database, logger)
	if err := storage.EnsureIndexes(ctx); err != nil {
		logger.Fatalw("Failed to prepare analyses collection", zap.Error(err))
	}
	cache := repository.NewRedisAnalysisCache(databaseAdapters.redisAdapter.GetClient(), cfg.CacheTTL)

	handler := analysisDelivery.NewAnalysisHandler(*cfg, logger, analysisUC.NewAnalysisUseCase(engine, storage, cache, logger))

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	handler.Routes(r)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// newEngineStore talks to the engine microservice when ENGINE_GRPC_ADDR is set and runs a local engine otherwise.
func newEngineStore(cfg *bootstrap.Config, log *zap.SugaredLogger) (engineStore, error) {
	if cfg.EngineGrpcAddr != "" {
		log.Infow("using remote engine", "addr", cfg.EngineGrpcAddr)
		return repository.NewRemoteEngineRepository(cfg, log)
	}
	log.Infow("starting local engine", "path", cfg.EnginePath)
	return engineRepository.NewEngineRepository(cfg, log)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
