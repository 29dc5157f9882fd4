package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/server/auth"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	UserIDKey ctxKey = "userID"
	RoleKey   ctxKey = "role"
)

// methods that need a valid access token
var protectedMethods = map[string]struct{}{
	api.MethodSubmitEssay:      {},
	api.MethodGetProgress:      {},
	api.MethodGetGroupStats:    {},
	api.MethodExportGroupStats: {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if _, ok := protectedMethods[info.FullMethod]; ok {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		claims, err := auth.ParseToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, models.Role(claims.Role))

	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "request", args...)
	}

	return resp, err
}

// caller returns the authenticated user put into ctx by the interceptor.
func caller(ctx context.Context) (string, models.Role, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		return "", "", false
	}
	role, _ := ctx.Value(RoleKey).(models.Role)
	return id, role, true
}
