package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/services"
	"google.golang.org/grpc"
)

type userService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, login, password string) (*services.Session, error)
}

type submissionService interface {
	Submit(ctx context.Context, studentID, teacherID, essay string) (*models.Submission, error)
	Progress(ctx context.Context, studentID string) (*models.Progress, error)
	GroupStats(ctx context.Context, teacherID string) ([]models.StudentStats, error)
	ExportGroupStats(ctx context.Context, teacherID string) (string, error)
}

type GRPCServer struct {
	address     string
	users       userService
	submissions submissionService
	logger      logging.Logger
	jwtSecret   []byte
}

func NewGRPCServer(a string, l logging.Logger, us userService, ss submissionService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		users:       us,
		submissions: ss,
		jwtSecret:   []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterEssayDeskServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
