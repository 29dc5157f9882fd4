package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/essaydesk/internal/dbx"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/submissions"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same process-wide stores no matter
// which handle is passed in.
type InMemoryRepositoryManager struct {
	users       *users.InMemoryRepository
	submissions *submissions.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewInMemoryRepository(),
		submissions: submissions.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Submissions(dbx.DBTX) submissions.Repository {
	return m.submissions
}
