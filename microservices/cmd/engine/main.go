package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/microservices/repository"
	"stockfish_harness/microservices/rpc"
	"stockfish_harness/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	engineStorage, err := repository.NewEngineRepository(cfg, logger)
	if err != nil {
		logger.Errorw("Failed to start engine", zap.Error(err))
		return
	}
	defer engineStorage.Close()

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Errorw("Can't listen port", "port", cfg.GrpcPort, zap.Error(err))
		return
	}

	server := grpc.NewServer()
	rpc.RegisterAnalysisServiceServer(server, usecase.NewEngineUseCase(engineStorage, logger))

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("starting engine service at :%s", cfg.GrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Errorw("engine service stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
