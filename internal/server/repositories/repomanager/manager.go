package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/essaydesk/internal/dbx"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/submissions"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX. Implementations that
// do not use SQL ignore the handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Submissions(db dbx.DBTX) submissions.Repository
}
