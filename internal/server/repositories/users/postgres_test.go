package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/dmitrijs2005/arestate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*name,\s*email,\s*mobile_number,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*NULLIF\(\$4,\s*''\),\s*NULLIF\(\$5,\s*''\),\s*\$6\)\s*RETURNING\s+created_at\s*$`

func selectQuery(column string) string {
	return `(?s)^SELECT\s+id,\s*username,\s*name,\s*COALESCE\(email,\s*''\),\s*COALESCE\(mobile_number,\s*''\),\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+` + column + `\s*=\s*\$1$`
}

var userColumns = []string{"id", "username", "name", "email", "mobile_number", "password_hash", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func alice() *models.User {
	return &models.User{
		ID:           "0b6c3c1e-3f1a-4a5e-9a57-1f1d1b1e2a01",
		Username:     "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$hash",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := alice()
	mock.ExpectQuery(insertQuery).
		WithArgs(u.ID, "alice", "Alice", "alice@example.com", "", "$argon2id$hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "alice", got.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_key", "email"},
		{"users_mobile_number_key", "mobileNumber"},
		{"users_pkey", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(insertQuery).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), alice())
			require.ErrorIs(t, err, common.ErrorAlreadyExists)
			assert.Equal(t, "already exists: "+tt.field, err.Error())
		})
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), alice())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetters_Found(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		column string
		value  string
		call   func(*PostgresRepository, string) (*models.User, error)
	}{
		{"by id", "id", "u-1", func(r *PostgresRepository, v string) (*models.User, error) { return r.GetByID(context.Background(), v) }},
		{"by username", "username", "alice", func(r *PostgresRepository, v string) (*models.User, error) {
			return r.GetByUsername(context.Background(), v)
		}},
		{"by email", "email", "alice@example.com", func(r *PostgresRepository, v string) (*models.User, error) {
			return r.GetByEmail(context.Background(), v)
		}},
		{"by mobile", "mobile_number", "5551234567", func(r *PostgresRepository, v string) (*models.User, error) {
			return r.GetByMobileNumber(context.Background(), v)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(selectQuery(tt.column)).
				WithArgs(tt.value).
				WillReturnRows(sqlmock.NewRows(userColumns).
					AddRow("u-1", "alice", "Alice", "alice@example.com", "5551234567", "h", created))

			got, err := tt.call(repo, tt.value)
			require.NoError(t, err)
			assert.Equal(t, &models.User{
				ID:           "u-1",
				Username:     "alice",
				Name:         "Alice",
				Email:        "alice@example.com",
				MobileNumber: "5551234567",
				PasswordHash: "h",
				CreatedAt:    created,
			}, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery("username")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery("email")).
		WithArgs("alice@example.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
