package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/internal/domain"
	"stockfish_harness/microservices/rpc"
)

// RemoteEngineRepository forwards analyses to the engine microservice.
type RemoteEngineRepository struct {
	cfg    *bootstrap.Config
	log    *zap.SugaredLogger
	conn   *grpc.ClientConn
	client *rpc.AnalysisServiceClient
}

func NewRemoteEngineRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, opts ...grpc.DialOption) (*RemoteEngineRepository, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(cfg.EngineGrpcAddr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial engine service %s: %w", cfg.EngineGrpcAddr, err)
	}

	return &RemoteEngineRepository{
		cfg:    cfg,
		log:    log,
		conn:   conn,
		client: rpc.NewAnalysisServiceClient(conn),
	}, nil
}

func (r *RemoteEngineRepository) AnalyzeFen(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	in, err := rpc.Encode(req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	out, err := r.client.AnalyzeFen(ctx, in)
	if err != nil {
		r.log.Warnw("engine service call failed", "method", "AnalyzeFen", "fen", req.Fen, "error", err)
		return domain.AnalysisResult{}, rpc.FromStatus(err)
	}

	var result domain.AnalysisResult
	if err := rpc.Decode(out, &result); err != nil {
		return domain.AnalysisResult{}, err
	}
	if result.Variations == nil {
		result.Variations = []domain.Variation{}
	}
	return result, nil
}

func (r *RemoteEngineRepository) EngineInfo(ctx context.Context) (domain.EngineInfo, error) {
	out, err := r.client.EngineInfo(ctx)
	if err != nil {
		r.log.Warnw("engine service call failed", "method", "EngineInfo", "error", err)
		return domain.EngineInfo{}, rpc.FromStatus(err)
	}

	var info domain.EngineInfo
	if err := rpc.Decode(out, &info); err != nil {
		return domain.EngineInfo{}, err
	}
	return info, nil
}

func (r *RemoteEngineRepository) Close() error {
	return r.conn.Close()
}
