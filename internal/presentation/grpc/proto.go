package grpc

// proto.go defines the gRPC server interface derived from sentinel/v1/sentinel.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/sentinelhealth/sentinel/api/gen/go/sentinel/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SentinelServiceServer is the server API for SentinelService.
type SentinelServiceServer interface {
	AnalyzePatient(context.Context, *AnalyzePatientRequest) (*AnalyzePatientResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*SaveProfileResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	ExplainAssessment(context.Context, *ExplainAssessmentRequest) (*ExplainAssessmentResponse, error)
	WatchHistory(*WatchHistoryRequest, SentinelService_WatchHistoryServer) error
	mustEmbedUnimplementedSentinelServiceServer()
}

// UnimplementedSentinelServiceServer provides forward-compatible default implementations.
type UnimplementedSentinelServiceServer struct{}

func (UnimplementedSentinelServiceServer) AnalyzePatient(context.Context, *AnalyzePatientRequest) (*AnalyzePatientResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzePatient not implemented")
}
func (UnimplementedSentinelServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedSentinelServiceServer) ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListHistory not implemented")
}
func (UnimplementedSentinelServiceServer) SaveProfile(context.Context, *SaveProfileRequest) (*SaveProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SaveProfile not implemented")
}
func (UnimplementedSentinelServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedSentinelServiceServer) ExplainAssessment(context.Context, *ExplainAssessmentRequest) (*ExplainAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ExplainAssessment not implemented")
}
func (UnimplementedSentinelServiceServer) WatchHistory(*WatchHistoryRequest, SentinelService_WatchHistoryServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchHistory not implemented")
}
func (UnimplementedSentinelServiceServer) mustEmbedUnimplementedSentinelServiceServer() {}

// SentinelService_WatchHistoryServer is the server-side stream for WatchHistory.
type SentinelService_WatchHistoryServer interface {
	Send(*HistoryUpdate) error
	grpclib.ServerStream
}

type sentinelServiceWatchHistoryServer struct {
	grpclib.ServerStream
}

func (s *sentinelServiceWatchHistoryServer) Send(m *HistoryUpdate) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterSentinelServiceServer registers the SentinelServiceServer with the gRPC server.
func RegisterSentinelServiceServer(s *grpclib.Server, srv SentinelServiceServer) {
	s.RegisterService(&_SentinelService_serviceDesc, srv)
}

var _SentinelService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "sentinel.v1.SentinelService",
	HandlerType: (*SentinelServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AnalyzePatient", Handler: _SentinelService_AnalyzePatient_Handler},
		{MethodName: "GetAssessment", Handler: _SentinelService_GetAssessment_Handler},
		{MethodName: "ListHistory", Handler: _SentinelService_ListHistory_Handler},
		{MethodName: "SaveProfile", Handler: _SentinelService_SaveProfile_Handler},
		{MethodName: "GetProfile", Handler: _SentinelService_GetProfile_Handler},
		{MethodName: "ExplainAssessment", Handler: _SentinelService_ExplainAssessment_Handler},
	},
	Streams: []grpclib.StreamDesc{
		{StreamName: "WatchHistory", Handler: _SentinelService_WatchHistory_Handler, ServerStreams: true},
	},
}

func _SentinelService_AnalyzePatient_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AnalyzePatientRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).AnalyzePatient(ctx, req)
}

func _SentinelService_GetAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).GetAssessment(ctx, req)
}

func _SentinelService_ListHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListHistoryRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).ListHistory(ctx, req)
}

func _SentinelService_SaveProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(SaveProfileRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).SaveProfile(ctx, req)
}

func _SentinelService_GetProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetProfileRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).GetProfile(ctx, req)
}

func _SentinelService_ExplainAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ExplainAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(SentinelServiceServer).ExplainAssessment(ctx, req)
}

func _SentinelService_WatchHistory_Handler(srv interface{}, stream grpclib.ServerStream) error {
	req := new(WatchHistoryRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(SentinelServiceServer).WatchHistory(req, &sentinelServiceWatchHistoryServer{stream})
}
