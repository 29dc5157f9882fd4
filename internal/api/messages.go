package api

import "time"

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	AccessToken string `json:"access_token"`
}

// Scores are rubric scores in [1, 5].
type Scores struct {
	Argument    float64 `json:"argument"`
	Logic       float64 `json:"logic"`
	Clarity     float64 `json:"clarity"`
	Originality float64 `json:"originality"`
}

type Submission struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	Essay     string    `json:"essay"`
	Scores    Scores    `json:"scores"`
	Feedback  string    `json:"feedback"`
}

// SubmitEssayRequest is sent by a logged-in student; the student id comes
// from the access token.
type SubmitEssayRequest struct {
	TeacherID string `json:"teacher_id"`
	Essay     string `json:"essay"`
}

type SubmitEssayResponse struct {
	Submission Submission `json:"submission"`
}

// GetProgressRequest with an empty StudentID asks for the caller's own
// progress.
type GetProgressRequest struct {
	StudentID string `json:"student_id,omitempty"`
}

// GetProgressResponse has no submissions and nil Averages when the student
// has not submitted anything yet.
type GetProgressResponse struct {
	StudentID   string       `json:"student_id"`
	Submissions []Submission `json:"submissions"`
	Averages    *Scores      `json:"averages,omitempty"`
}

type GetGroupStatsRequest struct{}

type StudentStats struct {
	StudentID   string `json:"student_id"`
	Submissions int    `json:"submissions"`
	Averages    Scores `json:"averages"`
}

type GetGroupStatsResponse struct {
	Students []StudentStats `json:"students"`
}

type ExportGroupStatsRequest struct{}

type ExportGroupStatsResponse struct {
	URL string `json:"url"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
