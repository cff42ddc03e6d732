package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/arestate/internal/dbx"
	"github.com/dmitrijs2005/arestate/internal/server/repositories/otps"
	"github.com/dmitrijs2005/arestate/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/arestate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	OTPs(db dbx.DBTX) otps.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
