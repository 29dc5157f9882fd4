package submissions

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

type pairKey struct {
	studentID string
	essay     string
}

// InMemoryRepository keeps the ledger in insertion order for the lifetime of
// the process.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []*models.Submission
	pairs   map[pairKey]struct{}
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{pairs: make(map[pairKey]struct{})}
}

func (r *InMemoryRepository) Exists(ctx context.Context, studentID, essay string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pairs[pairKey{studentID: studentID, essay: essay}]
	return ok, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{studentID: s.StudentID, essay: s.Essay}
	if _, ok := r.pairs[key]; ok {
		return nil, common.ErrorDuplicateSubmission
	}

	stored := *s
	r.records = append(r.records, &stored)
	r.pairs[key] = struct{}{}

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Submission, error) {
	return r.filter(func(s *models.Submission) bool { return s.StudentID == studentID }), nil
}

func (r *InMemoryRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Submission, error) {
	return r.filter(func(s *models.Submission) bool { return s.TeacherID == teacherID }), nil
}

func (r *InMemoryRepository) filter(keep func(*models.Submission) bool) []*models.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Submission, 0)
	for _, s := range r.records {
		if keep(s) {
			c := *s
			result = append(result, &c)
		}
	}

	// stable: records with equal timestamps keep insertion order
	slices.SortStableFunc(result, func(a, b *models.Submission) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result
}
