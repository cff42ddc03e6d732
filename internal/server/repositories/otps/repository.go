// Package otps declares the server-side repository contract for one-time
// code challenges and provides its PostgreSQL implementation.
package otps

import (
	"context"

	"github.com/dmitrijs2005/arestate/internal/server/models"
)

// Repository stores issued one-time codes, one live challenge per mobile
// number.
type Repository interface {
	// Create stores a new challenge and fills in CreatedAt.
	Create(ctx context.Context, challenge *models.OTPChallenge) error

	// FindLatest returns the most recent challenge for mobileNumber or
	// common.ErrorNotFound.
	FindLatest(ctx context.Context, mobileNumber string) (*models.OTPChallenge, error)

	// RecordAttempt atomically counts one verification attempt against the
	// challenge and returns the new count. When the challenge is gone or
	// already has maxAttempts attempts nothing changes and
	// common.ErrorNotFound is returned.
	RecordAttempt(ctx context.Context, id string, maxAttempts int) (int, error)

	// DeleteByMobileNumber removes every challenge for mobileNumber. Deleting
	// nothing is not an error.
	DeleteByMobileNumber(ctx context.Context, mobileNumber string) error
}
