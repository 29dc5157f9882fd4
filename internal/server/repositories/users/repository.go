package users

import (
	"context"

	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

// Repository stores user accounts.
//
// Create must check login uniqueness and insert as one atomic step: it returns
// common.ErrorAlreadyExists for a taken login and common.ErrorIDTaken when the
// generated id is already in use. GetUserByLogin returns common.ErrorNotFound
// for an unknown login.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
