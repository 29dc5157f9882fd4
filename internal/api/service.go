package api

import (
	"context"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"google.golang.org/grpc"
)

const ServiceName = "essaydesk.EssayDesk"

// Full method names, as seen by interceptors.
const (
	MethodRegister         = "/" + ServiceName + "/Register"
	MethodLogin            = "/" + ServiceName + "/Login"
	MethodSubmitEssay      = "/" + ServiceName + "/SubmitEssay"
	MethodGetProgress      = "/" + ServiceName + "/GetProgress"
	MethodGetGroupStats    = "/" + ServiceName + "/GetGroupStats"
	MethodExportGroupStats = "/" + ServiceName + "/ExportGroupStats"
	MethodPing             = "/" + ServiceName + "/Ping"
)

// EssayDeskServer is the server API for the EssayDesk service.
type EssayDeskServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	SubmitEssay(context.Context, *SubmitEssayRequest) (*SubmitEssayResponse, error)
	GetProgress(context.Context, *GetProgressRequest) (*GetProgressResponse, error)
	GetGroupStats(context.Context, *GetGroupStatsRequest) (*GetGroupStatsResponse, error)
	ExportGroupStats(context.Context, *ExportGroupStatsRequest) (*ExportGroupStatsResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func unary[Req, Resp any](name string, call func(EssayDeskServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EssayDeskServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EssayDeskServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the EssayDesk service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EssayDeskServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", EssayDeskServer.Register),
		unary("Login", EssayDeskServer.Login),
		unary("SubmitEssay", EssayDeskServer.SubmitEssay),
		unary("GetProgress", EssayDeskServer.GetProgress),
		unary("GetGroupStats", EssayDeskServer.GetGroupStats),
		unary("ExportGroupStats", EssayDeskServer.ExportGroupStats),
		unary("Ping", EssayDeskServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "essaydesk/api",
}

func RegisterEssayDeskServer(s grpc.ServiceRegistrar, srv EssayDeskServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// EssayDeskClient is the client API for the EssayDesk service.
type EssayDeskClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	SubmitEssay(ctx context.Context, in *SubmitEssayRequest, opts ...grpc.CallOption) (*SubmitEssayResponse, error)
	GetProgress(ctx context.Context, in *GetProgressRequest, opts ...grpc.CallOption) (*GetProgressResponse, error)
	GetGroupStats(ctx context.Context, in *GetGroupStatsRequest, opts ...grpc.CallOption) (*GetGroupStatsResponse, error)
	ExportGroupStats(ctx context.Context, in *ExportGroupStatsRequest, opts ...grpc.CallOption) (*ExportGroupStatsResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type essayDeskClient struct {
	cc grpc.ClientConnInterface
}

func NewEssayDeskClient(cc grpc.ClientConnInterface) EssayDeskClient {
	return &essayDeskClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(common.JSONContentSubtype)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *essayDeskClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *essayDeskClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *essayDeskClient) SubmitEssay(ctx context.Context, in *SubmitEssayRequest, opts ...grpc.CallOption) (*SubmitEssayResponse, error) {
	return invoke[SubmitEssayResponse](ctx, c.cc, MethodSubmitEssay, in, opts)
}

func (c *essayDeskClient) GetProgress(ctx context.Context, in *GetProgressRequest, opts ...grpc.CallOption) (*GetProgressResponse, error) {
	return invoke[GetProgressResponse](ctx, c.cc, MethodGetProgress, in, opts)
}

func (c *essayDeskClient) GetGroupStats(ctx context.Context, in *GetGroupStatsRequest, opts ...grpc.CallOption) (*GetGroupStatsResponse, error) {
	return invoke[GetGroupStatsResponse](ctx, c.cc, MethodGetGroupStats, in, opts)
}

func (c *essayDeskClient) ExportGroupStats(ctx context.Context, in *ExportGroupStatsRequest, opts ...grpc.CallOption) (*ExportGroupStatsResponse, error) {
	return invoke[ExportGroupStatsResponse](ctx, c.cc, MethodExportGroupStats, in, opts)
}

func (c *essayDeskClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
