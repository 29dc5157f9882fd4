package client

import (
	"context"

	"github.com/dmitrijs2005/essaydesk/internal/api"
)

type Client interface {
	Close() error
	Register(ctx context.Context, req *api.RegisterRequest) (string, error)
	Login(ctx context.Context, login string, password []byte) (*api.LoginResponse, error)
	Logout()
	Ping(ctx context.Context) error
	SubmitEssay(ctx context.Context, teacherID, essay string) (*api.Submission, error)
	GetProgress(ctx context.Context, studentID string) (*api.GetProgressResponse, error)
	GetGroupStats(ctx context.Context) ([]api.StudentStats, error)
	ExportGroupStats(ctx context.Context) (string, error)
}
