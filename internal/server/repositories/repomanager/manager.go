// Package repomanager vends repository implementations bound to a DBTX and
// owns schema migrations, so services stay backend-agnostic.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/boxdrop/boxdrop/internal/dbx"
	"github.com/boxdrop/boxdrop/internal/server/repositories/boxes"
	"github.com/boxdrop/boxdrop/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Boxes(db dbx.DBTX) boxes.Repository
}
