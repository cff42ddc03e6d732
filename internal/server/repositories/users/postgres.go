package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/dmitrijs2005/arestate/internal/dbx"
	"github.com/dmitrijs2005/arestate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, username, name, COALESCE(email, ''), COALESCE(mobile_number, ''), password_hash, created_at
		 FROM users
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, username, name, email, mobile_number, password_hash)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Name, user.Email, user.MobileNumber, user.PasswordHash).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", common.ErrorAlreadyExists, conflictingField(pgErr.ConstraintName))
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PostgresRepository) GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.User, error) {
	return r.getBy(ctx, "mobile_number", mobileNumber)
}

// getBy looks a user up by one unique column. column is never user input.
func (r *PostgresRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := selectUser + `WHERE ` + column + ` = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Name, &user.Email, &user.MobileNumber, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// conflictingField maps a unique constraint such as users_email_key to the
// field it guards.
func conflictingField(constraint string) string {
	field := strings.TrimSuffix(strings.TrimPrefix(constraint, "users_"), "_key")
	switch field {
	case "username", "email":
		return field
	case "mobile_number":
		return "mobileNumber"
	default:
		return "user"
	}
}
