package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeUsers struct {
	regIn   services.RegisterInput
	regResp *models.User
	regErr  error

	session  *services.Session
	loginErr error
}

func (f *fakeUsers) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	f.regIn = in
	return f.regResp, f.regErr
}

func (f *fakeUsers) Authenticate(ctx context.Context, login, password string) (*services.Session, error) {
	return f.session, f.loginErr
}

type fakeSubmissions struct {
	studentID, teacherID, essay string

	submitResp *models.Submission
	submitErr  error

	progress    *models.Progress
	progressErr error
	progressFor string

	stats    []models.StudentStats
	statsErr error

	url       string
	exportErr error
}

func (f *fakeSubmissions) Submit(ctx context.Context, studentID, teacherID, essay string) (*models.Submission, error) {
	f.studentID, f.teacherID, f.essay = studentID, teacherID, essay
	return f.submitResp, f.submitErr
}

func (f *fakeSubmissions) Progress(ctx context.Context, studentID string) (*models.Progress, error) {
	f.progressFor = studentID
	return f.progress, f.progressErr
}

func (f *fakeSubmissions) GroupStats(ctx context.Context, teacherID string) ([]models.StudentStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeSubmissions) ExportGroupStats(ctx context.Context, teacherID string) (string, error) {
	return f.url, f.exportErr
}

// ---- helpers ----

func newServer(u userService, s submissionService) *GRPCServer {
	return &GRPCServer{
		address:     "127.0.0.1:0",
		users:       u,
		submissions: s,
		logger:      nopLogger{},
		jwtSecret:   []byte("k"),
	}
}

func as(id string, role models.Role) context.Context {
	ctx := context.WithValue(context.Background(), UserIDKey, id)
	return context.WithValue(ctx, RoleKey, role)
}

// ---- tests ----

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: login required", common.ErrorValidation), codes.InvalidArgument},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrorDuplicateSubmission, codes.AlreadyExists},
		{common.ErrorInvalidCredentials, codes.Unauthenticated},
		{fmt.Errorf("%w: timeout", common.ErrorEvaluationFailed), codes.Unavailable},
		{common.ErrorExportDisabled, codes.FailedPrecondition},
		{common.ErrorForbidden, codes.PermissionDenied},
		{errors.New("pq: connection refused"), codes.Internal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(toStatus(tt.err)), tt.err.Error())
	}

	assert.Equal(t, "internal error", status.Convert(toStatus(errors.New("secret detail"))).Message())
}

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUsers{}, &fakeSubmissions{})
	resp, err := s.Ping(context.Background(), &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestRegister(t *testing.T) {
	u := &fakeUsers{regResp: &models.User{ID: "s42"}}
	s := newServer(u, &fakeSubmissions{})

	resp, err := s.Register(context.Background(), &api.RegisterRequest{
		Login: "l", Password: "p", Role: "student", FullName: "F", Email: "e@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "s42", resp.UserID)
	assert.Equal(t, services.RegisterInput{Login: "l", Password: "p", Role: "student", FullName: "F", Email: "e@x.io"}, u.regIn)

	u.regErr = common.ErrorAlreadyExists
	_, err = s.Register(context.Background(), &api.RegisterRequest{Login: "l"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestLogin(t *testing.T) {
	u := &fakeUsers{session: &services.Session{UserID: "t1", Role: models.RoleTeacher, FullName: "T", AccessToken: "A"}}
	s := newServer(u, &fakeSubmissions{})

	resp, err := s.Login(context.Background(), &api.LoginRequest{Login: "l", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, &api.LoginResponse{UserID: "t1", Role: "teacher", FullName: "T", AccessToken: "A"}, resp)

	u.loginErr = common.ErrorInvalidCredentials
	_, err = s.Login(context.Background(), &api.LoginRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	u.loginErr = common.ErrorInternal
	_, err = s.Login(context.Background(), &api.LoginRequest{})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestSubmitEssay(t *testing.T) {
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	subs := &fakeSubmissions{submitResp: &models.Submission{
		ID: "id1", StudentID: "s1", TeacherID: "t1", CreatedAt: at, Essay: "e",
		Scores: models.ScoreSet{Argument: 1, Logic: 2, Clarity: 3, Originality: 4}, Feedback: "fb",
	}}
	s := newServer(&fakeUsers{}, subs)

	resp, err := s.SubmitEssay(as("s1", models.RoleStudent), &api.SubmitEssayRequest{TeacherID: "t1", Essay: "e"})
	require.NoError(t, err)
	assert.Equal(t, "s1", subs.studentID, "student id comes from the token")
	assert.Equal(t, api.Scores{Argument: 1, Logic: 2, Clarity: 3, Originality: 4}, resp.Submission.Scores)
	assert.Equal(t, at, resp.Submission.CreatedAt)

	_, err = s.SubmitEssay(as("t1", models.RoleTeacher), &api.SubmitEssayRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = s.SubmitEssay(context.Background(), &api.SubmitEssayRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	subs.submitErr = fmt.Errorf("%w: oracle down", common.ErrorEvaluationFailed)
	_, err = s.SubmitEssay(as("s1", models.RoleStudent), &api.SubmitEssayRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestGetProgress(t *testing.T) {
	subs := &fakeSubmissions{}
	s := newServer(&fakeUsers{}, subs)

	resp, err := s.GetProgress(as("s1", models.RoleStudent), &api.GetProgressRequest{})
	require.NoError(t, err)
	assert.Equal(t, "s1", subs.progressFor, "defaults to the caller")
	assert.Empty(t, resp.Submissions)
	assert.Nil(t, resp.Averages)

	_, err = s.GetProgress(as("s1", models.RoleStudent), &api.GetProgressRequest{StudentID: "s2"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	subs.progress = &models.Progress{
		StudentID:   "s2",
		Submissions: []*models.Submission{{ID: "a"}, {ID: "b"}},
		Averages:    models.ScoreSet{Argument: 4},
	}
	resp, err = s.GetProgress(as("t1", models.RoleTeacher), &api.GetProgressRequest{StudentID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, "s2", subs.progressFor)
	require.Len(t, resp.Submissions, 2)
	assert.Equal(t, "a", resp.Submissions[0].ID)
	require.NotNil(t, resp.Averages)
	assert.Equal(t, 4.0, resp.Averages.Argument)

	subs.progressErr = errors.New("db")
	_, err = s.GetProgress(as("t1", models.RoleTeacher), &api.GetProgressRequest{StudentID: "s2"})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestGroupStatsAndExport(t *testing.T) {
	subs := &fakeSubmissions{
		stats: []models.StudentStats{{StudentID: "s1", Submissions: 3, Averages: models.ScoreSet{Clarity: 2.5}}},
		url:   "http://minio/x.csv",
	}
	s := newServer(&fakeUsers{}, subs)
	teacher := as("t1", models.RoleTeacher)

	stats, err := s.GetGroupStats(teacher, &api.GetGroupStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []api.StudentStats{{StudentID: "s1", Submissions: 3, Averages: api.Scores{Clarity: 2.5}}}, stats.Students)

	exp, err := s.ExportGroupStats(teacher, &api.ExportGroupStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "http://minio/x.csv", exp.URL)

	_, err = s.ExportGroupStats(as("s1", models.RoleStudent), &api.ExportGroupStatsRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	subs.exportErr = common.ErrorExportDisabled
	_, err = s.ExportGroupStats(teacher, &api.ExportGroupStatsRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}
