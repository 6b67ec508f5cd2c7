package repomanager

import (
	"context"
	"database/sql"

	"github.com/ruangpuisi/api/internal/dbx"
	"github.com/ruangpuisi/api/internal/server/repositories/puisi"
	"github.com/ruangpuisi/api/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX handle. Passing a
// *sql.Tx makes the returned repository transactional.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Puisi(db dbx.DBTX) puisi.Repository
}
