package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

// InMemoryRepository keeps users for the lifetime of the process. The mutex
// makes the login check and the insert one step.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byLogin map[string]*models.User
	ids     map[string]struct{}
	now     func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byLogin: make(map[string]*models.User),
		ids:     make(map[string]struct{}),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[user.Login]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.ids[user.ID]; ok {
		return nil, common.ErrorIDTaken
	}

	stored := *user
	stored.PasswordHash = append([]byte(nil), user.PasswordHash...)
	stored.CreatedAt = r.now()

	r.byLogin[stored.Login] = &stored
	r.ids[stored.ID] = struct{}{}

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}
