// Package submissions stores the append-only essay ledger.
package submissions

import (
	"context"

	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

// Repository is the ledger store. Records are never updated or deleted.
//
// Create enforces the (student, essay) uniqueness atomically and returns
// common.ErrorDuplicateSubmission when the pair already exists. The List
// methods return records ordered by CreatedAt ascending, insertion order
// breaking ties.
type Repository interface {
	Exists(ctx context.Context, studentID, essay string) (bool, error)
	Create(ctx context.Context, s *models.Submission) (*models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Submission, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Submission, error)
}
