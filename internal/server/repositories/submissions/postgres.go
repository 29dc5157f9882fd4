package submissions

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/dbx"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

const constraintStudentEssay = "submissions_student_essay_key"

// essayDigest keys the unique index; essays can be longer than a btree entry allows.
func essayDigest(essay string) []byte {
	sum := sha256.Sum256([]byte(essay))
	return sum[:]
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, studentID, essay string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM submissions
		   WHERE student_id = $1 AND essay_sha256 = $2 AND essay = $3
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, studentID, essayDigest(essay), essay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	query :=
		`INSERT INTO submissions (id, student_id, teacher_id, created_at, essay, essay_sha256,
		                          argument, logic, clarity, originality, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.StudentID, s.TeacherID, s.CreatedAt, s.Essay, essayDigest(s.Essay),
		s.Scores.Argument, s.Scores.Logic, s.Scores.Clarity, s.Scores.Originality, s.Feedback)
	if err != nil {
		if constraint, ok := dbx.UniqueViolation(err); ok && constraint == constraintStudentEssay {
			return nil, common.ErrorDuplicateSubmission
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Submission, error) {
	query :=
		`SELECT id, student_id, teacher_id, created_at, essay,
		        argument, logic, clarity, originality, feedback
		 FROM submissions
		 WHERE student_id = $1
		 ORDER BY created_at, seq
		 `
	return r.list(ctx, query, studentID)
}

func (r *PostgresRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Submission, error) {
	query :=
		`SELECT id, student_id, teacher_id, created_at, essay,
		        argument, logic, clarity, originality, feedback
		 FROM submissions
		 WHERE teacher_id = $1
		 ORDER BY created_at, seq
		 `
	return r.list(ctx, query, teacherID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Submission, 0)
	for rows.Next() {
		s := &models.Submission{}
		if err := rows.Scan(&s.ID, &s.StudentID, &s.TeacherID, &s.CreatedAt, &s.Essay,
			&s.Scores.Argument, &s.Scores.Logic, &s.Scores.Clarity, &s.Scores.Originality, &s.Feedback); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
