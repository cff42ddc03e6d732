// Package sessions stores the server side of login sessions so that logout
// can end a session before its token expires.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/arestate/internal/server/models"
)

type Repository interface {
	// Create stores s and fills in CreatedAt.
	Create(ctx context.Context, s *models.Session) error

	// Find returns the session with id or common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes the session with id. Deleting nothing is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose expiry has passed by the database
	// clock and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
