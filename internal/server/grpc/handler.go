package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Unknown errors are
// reported as Internal without their text.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrorAlreadyExists.Error())
	case errors.Is(err, common.ErrorDuplicateSubmission):
		return status.Error(codes.AlreadyExists, "this essay has already been submitted")
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorEvaluationFailed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, common.ErrorExportDisabled):
		return status.Error(codes.FailedPrecondition, common.ErrorExportDisabled.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func requireCaller(ctx context.Context, role models.Role) (string, error) {
	id, r, ok := caller(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	if role != "" && r != role {
		return "", status.Errorf(codes.PermissionDenied, "%s role required", role)
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "login", req.Login)

	user, err := s.users.Register(ctx, services.RegisterInput{
		Login:    req.Login,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	sess, err := s.users.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.LoginResponse{
		UserID:      sess.UserID,
		Role:        string(sess.Role),
		FullName:    sess.FullName,
		AccessToken: sess.AccessToken,
	}, nil
}

func (s *GRPCServer) SubmitEssay(ctx context.Context, req *api.SubmitEssayRequest) (*api.SubmitEssayResponse, error) {

	studentID, err := requireCaller(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	sub, err := s.submissions.Submit(ctx, studentID, req.TeacherID, req.Essay)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.SubmitEssayResponse{Submission: submissionToAPI(sub)}, nil
}

// GetProgress lets students see their own history and teachers see anyone's.
func (s *GRPCServer) GetProgress(ctx context.Context, req *api.GetProgressRequest) (*api.GetProgressResponse, error) {

	id, role, ok := caller(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	studentID := req.StudentID
	if studentID == "" {
		studentID = id
	}
	if role != models.RoleTeacher && studentID != id {
		return nil, status.Error(codes.PermissionDenied, "students may only view their own progress")
	}

	p, err := s.submissions.Progress(ctx, studentID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.GetProgressResponse{StudentID: studentID, Submissions: []api.Submission{}}
	if p == nil {
		return resp, nil
	}
	for _, sub := range p.Submissions {
		resp.Submissions = append(resp.Submissions, submissionToAPI(sub))
	}
	avg := scoresToAPI(p.Averages)
	resp.Averages = &avg

	return resp, nil
}

func (s *GRPCServer) GetGroupStats(ctx context.Context, req *api.GetGroupStatsRequest) (*api.GetGroupStatsResponse, error) {

	teacherID, err := requireCaller(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	stats, err := s.submissions.GroupStats(ctx, teacherID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.GetGroupStatsResponse{Students: make([]api.StudentStats, 0, len(stats))}
	for _, st := range stats {
		resp.Students = append(resp.Students, api.StudentStats{
			StudentID:   st.StudentID,
			Submissions: st.Submissions,
			Averages:    scoresToAPI(st.Averages),
		})
	}

	return resp, nil
}

func (s *GRPCServer) ExportGroupStats(ctx context.Context, req *api.ExportGroupStatsRequest) (*api.ExportGroupStatsResponse, error) {

	teacherID, err := requireCaller(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	url, err := s.submissions.ExportGroupStats(ctx, teacherID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.ExportGroupStatsResponse{URL: url}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func scoresToAPI(s models.ScoreSet) api.Scores {
	return api.Scores{
		Argument:    s.Argument,
		Logic:       s.Logic,
		Clarity:     s.Clarity,
		Originality: s.Originality,
	}
}

func submissionToAPI(s *models.Submission) api.Submission {
	return api.Submission{
		ID:        s.ID,
		StudentID: s.StudentID,
		TeacherID: s.TeacherID,
		CreatedAt: s.CreatedAt,
		Essay:     s.Essay,
		Scores:    scoresToAPI(s.Scores),
		Feedback:  s.Feedback,
	}
}
