// Package users declares the server-side repository contract for registered
// accounts and provides its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/arestate/internal/server/models"
)

type Repository interface {
	// Create stores user and fills in CreatedAt. A taken username, email or
	// mobile number yields an error wrapping common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.User, error)
}
