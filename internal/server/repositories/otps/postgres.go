package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/dmitrijs2005/arestate/internal/dbx"
	"github.com/dmitrijs2005/arestate/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.OTPChallenge) error {
	query := `
		INSERT INTO otp_challenges (id, mobile_number, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, c.ID, c.MobileNumber, c.CodeHash, c.ExpiresAt).Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindLatest(ctx context.Context, mobileNumber string) (*models.OTPChallenge, error) {
	query := `
		SELECT id, mobile_number, code_hash, attempts, expires_at, created_at
		FROM otp_challenges
		WHERE mobile_number = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	c := &models.OTPChallenge{}
	err := r.db.QueryRowContext(ctx, query, mobileNumber).Scan(
		&c.ID, &c.MobileNumber, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) RecordAttempt(ctx context.Context, id string, maxAttempts int) (int, error) {
	query := `
		UPDATE otp_challenges SET attempts = attempts + 1
		WHERE id = $1 AND attempts < $2
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, query, id, maxAttempts).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) DeleteByMobileNumber(ctx context.Context, mobileNumber string) error {
	query := `
		DELETE FROM otp_challenges
		WHERE mobile_number = $1
	`
	if _, err := r.db.ExecContext(ctx, query, mobileNumber); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
