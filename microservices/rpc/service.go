// Package rpc describes the engine microservice. Messages travel as google.protobuf.Struct
// values carrying the JSON form of the domain types, so no generated code is needed.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "harness.AnalysisService"

	AnalyzeFenMethod = "/harness.AnalysisService/AnalyzeFen"
	EngineInfoMethod = "/harness.AnalysisService/EngineInfo"
)

// AnalysisServiceServer is implemented by the engine microservice.
type AnalysisServiceServer interface {
	AnalyzeFen(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EngineInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterAnalysisServiceServer(s grpc.ServiceRegistrar, srv AnalysisServiceServer) {
	s.RegisterService(&AnalysisService_ServiceDesc, srv)
}

var AnalysisService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalysisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AnalyzeFen",
			Handler:    analyzeFenHandler,
		},
		{
			MethodName: "EngineInfo",
			Handler:    engineInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "harness/analysis.proto",
}

func analyzeFenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).AnalyzeFen(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeFenMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalysisServiceServer).AnalyzeFen(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func engineInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).EngineInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EngineInfoMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalysisServiceServer).EngineInfo(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type AnalysisServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalysisServiceClient(cc grpc.ClientConnInterface) *AnalysisServiceClient {
	return &AnalysisServiceClient{cc: cc}
}

func (c *AnalysisServiceClient) AnalyzeFen(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeFenMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalysisServiceClient) EngineInfo(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EngineInfoMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
