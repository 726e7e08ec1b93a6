package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"stockfish_harness/internal/domain"
	"stockfish_harness/microservices/rpc"
)

type EngineStore interface {
	AnalyzeFen(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
	EngineInfo(ctx context.Context) (domain.EngineInfo, error)
}

// EngineUseCase serves rpc.AnalysisServiceServer on top of an EngineStore.
type EngineUseCase struct {
	store EngineStore
	log   *zap.SugaredLogger
}

func NewEngineUseCase(store EngineStore, log *zap.SugaredLogger) *EngineUseCase {
	return &EngineUseCase{
		store: store,
		log:   log,
	}
}

func (e *EngineUseCase) AnalyzeFen(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := ConvertRPCRequestToDomain(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := e.store.AnalyzeFen(ctx, req)
	if err != nil {
		e.log.Errorw("analysis failed", "fen", req.Fen, "error", err)
		return nil, rpc.ToStatus(err)
	}

	return rpc.Encode(result)
}

func (e *EngineUseCase) EngineInfo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	info, err := e.store.EngineInfo(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return rpc.Encode(info)
}

func ConvertRPCRequestToDomain(in *structpb.Struct) (domain.AnalysisRequest, error) {
	if in == nil {
		return domain.AnalysisRequest{}, fmt.Errorf("empty request")
	}
	var req domain.AnalysisRequest
	if err := rpc.Decode(in, &req); err != nil {
		return domain.AnalysisRequest{}, err
	}
	return req, nil
}
