package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.EssayDeskClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	// an expired token is useless, drop it so the user is asked to log in
	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated &&
		st.Message() == common.ErrTokenExpired.Error() {
		s.setToken("")
	}

	return err
}

func NewEssayDeskClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewEssayDeskClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) (string, error) {

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.UserID, nil
}

// Login authenticates and keeps the returned access token for later calls.
func (s *GRPCClient) Login(ctx context.Context, login string, password []byte) (*api.LoginResponse, error) {

	resp, err := s.client.Login(ctx, &api.LoginRequest{Login: login, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setToken(resp.AccessToken)

	return resp, nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) SubmitEssay(ctx context.Context, teacherID, essay string) (*api.Submission, error) {

	resp, err := s.client.SubmitEssay(ctx, &api.SubmitEssayRequest{TeacherID: teacherID, Essay: essay})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &resp.Submission, nil
}

// GetProgress with an empty studentID returns the caller's own progress.
func (s *GRPCClient) GetProgress(ctx context.Context, studentID string) (*api.GetProgressResponse, error) {

	resp, err := s.client.GetProgress(ctx, &api.GetProgressRequest{StudentID: studentID})
	if err != nil {
		return nil, s.mapError(err)
	}

	return resp, nil
}

func (s *GRPCClient) GetGroupStats(ctx context.Context) ([]api.StudentStats, error) {

	resp, err := s.client.GetGroupStats(ctx, &api.GetGroupStatsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return resp.Students, nil
}

func (s *GRPCClient) ExportGroupStats(ctx context.Context) (string, error) {

	resp, err := s.client.ExportGroupStats(ctx, &api.ExportGroupStatsRequest{})
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.URL, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == common.ErrTokenExpired.Error() {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
