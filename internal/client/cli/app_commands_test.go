package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/client/client"
	"github.com/dmitrijs2005/essaydesk/internal/client/config"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

type fakeClient struct {
	registerReq *api.RegisterRequest
	registerID  string
	registerErr error

	loginLogin string
	loginPW    string
	loginResp  *api.LoginResponse
	loginErr   error

	loggedOut bool

	pingErr error

	submitTeacher string
	submitEssay   string
	submitResp    *api.Submission
	submitErr     error

	progressID   string
	progressResp *api.GetProgressResponse
	progressErr  error

	stats    []api.StudentStats
	statsErr error

	exportURL string
	exportErr error

	hadDeadline bool
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Register(ctx context.Context, req *api.RegisterRequest) (string, error) {
	f.registerReq = req
	return f.registerID, f.registerErr
}

func (f *fakeClient) Login(ctx context.Context, login string, password []byte) (*api.LoginResponse, error) {
	f.loginLogin = login
	f.loginPW = string(password)
	return f.loginResp, f.loginErr
}

func (f *fakeClient) Logout() { f.loggedOut = true }

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) SubmitEssay(ctx context.Context, teacherID, essay string) (*api.Submission, error) {
	_, f.hadDeadline = ctx.Deadline()
	f.submitTeacher = teacherID
	f.submitEssay = essay
	return f.submitResp, f.submitErr
}

func (f *fakeClient) GetProgress(ctx context.Context, studentID string) (*api.GetProgressResponse, error) {
	f.progressID = studentID
	return f.progressResp, f.progressErr
}

func (f *fakeClient) GetGroupStats(ctx context.Context) ([]api.StudentStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeClient) ExportGroupStats(ctx context.Context) (string, error) {
	return f.exportURL, f.exportErr
}

var _ client.Client = (*fakeClient)(nil)

func newTestApp(fc *fakeClient, in *bufio.Reader, s *session) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:  &config.Config{RequestTimeout: time.Minute, OnlineCheckInterval: time.Second},
		client:  fc,
		reader:  in,
		out:     out,
		session: s,
	}, out
}

var (
	student = &session{userID: "s1", role: roleStudent, fullName: "Ann"}
	teacher = &session{userID: "t001", role: roleTeacher, fullName: "Demo Teacher"}
)

// ------------ auth ------------

func TestRegister_SendsFields(t *testing.T) {
	stubPassword(t, "pw")
	fc := &fakeClient{registerID: "s1700000000"}
	a, out := newTestApp(fc, readerFromLines("ann", "Student", "Ann Lee", "ann@example.com"), nil)

	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, &api.RegisterRequest{
		Login: "ann", Password: "pw", Role: "student", FullName: "Ann Lee", Email: "ann@example.com",
	}, fc.registerReq)
	require.Contains(t, out.String(), "your id is s1700000000")
}

func TestRegister_ErrorPropagates(t *testing.T) {
	stubPassword(t, "pw")
	fc := &fakeClient{registerErr: client.ErrRejected}
	a, _ := newTestApp(fc, readerFromLines("ann", "student", "", ""), nil)

	require.ErrorIs(t, a.Register(context.Background()), client.ErrRejected)
}

func TestLogin_OpensSession(t *testing.T) {
	stubPassword(t, "12345")
	fc := &fakeClient{loginResp: &api.LoginResponse{UserID: "t001", Role: roleTeacher, FullName: "Demo Teacher"}}
	a, out := newTestApp(fc, readerFromLines("teacher"), nil)

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "teacher", fc.loginLogin)
	require.Equal(t, "12345", fc.loginPW)
	require.True(t, a.isLoggedIn())
	require.True(t, a.isTeacher())
	require.Equal(t, ModeOnline, a.mode())
	require.Contains(t, out.String(), "Welcome, Demo Teacher")
}

func TestLogin_FailureKeepsState(t *testing.T) {
	stubPassword(t, "bad")
	fc := &fakeClient{loginErr: client.ErrUnauthorized}
	a, _ := newTestApp(fc, readerFromLines("ann"), nil)

	require.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	require.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newTestApp(fc, readerFromLines(), student)

	require.NoError(t, a.Logout(context.Background()))
	require.True(t, fc.loggedOut)
	require.False(t, a.isLoggedIn())
}

// ------------ essays ------------

func TestSubmit_RendersScores(t *testing.T) {
	fc := &fakeClient{submitResp: &api.Submission{
		ID:        "abc",
		TeacherID: "t001",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Scores:    api.Scores{Argument: 4.5, Logic: 4, Clarity: 3.5, Originality: 1},
		Feedback:  "Argument: 4.5/5.0\nLogic: 4.0/5.0\nClarity: 3.5/5.0\nOriginality: 1.0/5.0",
	}}
	a, out := newTestApp(fc, readerFromLines("t001", "First paragraph.", "", "Second.", "."), student)

	require.NoError(t, a.Submit(context.Background()))
	require.Equal(t, "t001", fc.submitTeacher)
	require.Equal(t, "First paragraph.\n\nSecond.", fc.submitEssay)
	require.True(t, fc.hadDeadline)
	require.Contains(t, out.String(), "Argument: 4.5/5.0")
	require.Contains(t, out.String(), "Submission abc")
}

func TestSubmit_Guards(t *testing.T) {
	fc := &fakeClient{}

	a, _ := newTestApp(fc, readerFromLines(), nil)
	require.ErrorIs(t, a.Submit(context.Background()), errNotLoggedIn)

	a, _ = newTestApp(fc, readerFromLines(), teacher)
	require.ErrorIs(t, a.Submit(context.Background()), errStudentsOnly)

	a, _ = newTestApp(fc, readerFromLines("t001", "."), student)
	require.ErrorIs(t, a.Submit(context.Background()), errEmptyEssay)
	require.Empty(t, fc.submitEssay)
}

func TestSubmit_ExpiredSessionIsCleared(t *testing.T) {
	fc := &fakeClient{submitErr: client.ErrSessionExpired}
	a, _ := newTestApp(fc, readerFromLines("t001", "essay", "."), student)

	require.ErrorIs(t, a.Submit(context.Background()), client.ErrSessionExpired)
	require.False(t, a.isLoggedIn())
}

func TestProgress(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fc := &fakeClient{progressResp: &api.GetProgressResponse{
		StudentID: "s1",
		Submissions: []api.Submission{
			{ID: "a", TeacherID: "t001", CreatedAt: created, Scores: api.Scores{Argument: 3, Logic: 3, Clarity: 3, Originality: 3}},
			{ID: "b", TeacherID: "t001", CreatedAt: created.Add(time.Hour), Scores: api.Scores{Argument: 5, Logic: 5, Clarity: 5, Originality: 5}},
		},
		Averages: &api.Scores{Argument: 4, Logic: 4, Clarity: 4, Originality: 4},
	}}

	a, out := newTestApp(fc, readerFromLines(), student)
	require.NoError(t, a.Progress(context.Background(), nil))
	require.Equal(t, "", fc.progressID)
	require.Contains(t, out.String(), "Progress of s1")
	require.Contains(t, out.String(), "Averages: argument 4.0, logic 4.0, clarity 4.0, originality 4.0")

	a, out = newTestApp(fc, readerFromLines(), teacher)
	require.NoError(t, a.Progress(context.Background(), nil))
	require.Contains(t, out.String(), "Usage: progress <student id>")

	require.NoError(t, a.Progress(context.Background(), []string{"s1"}))
	require.Equal(t, "s1", fc.progressID)
}

func TestProgress_EmptyAndErrors(t *testing.T) {
	fc := &fakeClient{progressResp: &api.GetProgressResponse{StudentID: "s9", Submissions: []api.Submission{}}}
	a, out := newTestApp(fc, readerFromLines(), student)

	require.NoError(t, a.Progress(context.Background(), nil))
	require.Contains(t, out.String(), "No submissions yet.")

	fc.progressErr = client.ErrForbidden
	require.ErrorIs(t, a.Progress(context.Background(), []string{"s2"}), client.ErrForbidden)

	a, _ = newTestApp(fc, readerFromLines(), nil)
	require.ErrorIs(t, a.Progress(context.Background(), nil), errNotLoggedIn)
}

// ------------ teacher ------------

func TestStats(t *testing.T) {
	fc := &fakeClient{stats: []api.StudentStats{
		{StudentID: "s1", Submissions: 2, Averages: api.Scores{Argument: 4.25, Logic: 3, Clarity: 2, Originality: 1}},
	}}

	a, out := newTestApp(fc, readerFromLines(), teacher)
	require.NoError(t, a.Stats(context.Background()))
	require.Contains(t, out.String(), "s1")
	require.Contains(t, out.String(), "4.2")

	fc.stats = nil
	out.Reset()
	require.NoError(t, a.Stats(context.Background()))
	require.Contains(t, out.String(), "No submissions addressed to you yet.")

	a, _ = newTestApp(fc, readerFromLines(), student)
	require.ErrorIs(t, a.Stats(context.Background()), errTeachersOnly)
}

func TestExport(t *testing.T) {
	fc := &fakeClient{exportURL: "https://bucket.example/x.csv"}
	a, out := newTestApp(fc, readerFromLines(), teacher)

	require.NoError(t, a.Export(context.Background(), nil))
	require.Contains(t, out.String(), "Export ready: https://bucket.example/x.csv")

	var gotURL string
	a.download = func(ctx context.Context, url string) ([]byte, error) {
		gotURL = url
		return []byte("student_id\n"), nil
	}
	tmp := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(old) })

	require.NoError(t, a.Export(context.Background(), []string{"stats"}))
	require.Equal(t, fc.exportURL, gotURL)

	data, err := os.ReadFile(filepath.Join(tmp, "exports", "stats.csv"))
	require.NoError(t, err)
	require.Equal(t, "student_id\n", string(data))

	a.download = func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("403 Forbidden")
	}
	require.ErrorContains(t, a.Export(context.Background(), []string{"stats"}), "error downloading export")

	fc.exportErr = client.ErrRejected
	require.ErrorIs(t, a.Export(context.Background(), nil), client.ErrRejected)
}

// ------------ status ------------

func TestGetStatus(t *testing.T) {
	a := &App{}
	require.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	require.Equal(t, "(offline)", a.getStatus())

	a.setSession(student)
	a.setMode(ModeOnline)
	require.Equal(t, "(s1 online)", a.getStatus())
}

func TestCheckOnline(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newTestApp(fc, readerFromLines(), nil)

	a.checkOnline(context.Background())
	require.Equal(t, ModeOnline, a.mode())

	fc.pingErr = client.ErrUnavailable
	a.checkOnline(context.Background())
	require.Equal(t, ModeOffline, a.mode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newTestApp(fc, readerFromLines(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
