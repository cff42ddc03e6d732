// Package services contains server-side business logic. UserService handles
// registration, password login, one-time-code login and the session tokens
// minted for each of them.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/dmitrijs2005/arestate/internal/cryptox"
	"github.com/dmitrijs2005/arestate/internal/dbx"
	"github.com/dmitrijs2005/arestate/internal/logging"
	"github.com/dmitrijs2005/arestate/internal/server/auth"
	"github.com/dmitrijs2005/arestate/internal/server/config"
	"github.com/dmitrijs2005/arestate/internal/server/models"
	"github.com/dmitrijs2005/arestate/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RegisterParams is a new account. Email and MobileNumber are optional.
type RegisterParams struct {
	Name         string
	Username     string
	Email        string
	MobileNumber string
	Password     string
}

// LoginParams identifies the account by the first non-empty of Username,
// Email and MobileNumber.
type LoginParams struct {
	Username     string
	Email        string
	MobileNumber string
	Password     string
}

// UserService provides authentication-related operations:
//   - Register: create users
//   - Login: verify a password
//   - GenerateOTP / VerifyOTP: sign in with a code sent to a mobile number
//   - IssueSessionToken / UserIDFromSessionToken / EndSession: server-side
//     sessions named by the session cookie
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	sender          OTPSender
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	otpValidity     time.Duration
	otpMaxAttempts  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sender OTPSender, logger logging.Logger) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		sender:          sender,
		logger:          logger.With("module", "user_service"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidity,
		otpValidity:     cfg.OTPValidity,
		otpMaxAttempts:  cfg.OTPMaxAttempts,
	}
}

// Register creates a new user. A taken username, email or mobile number
// yields an error wrapping common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if strings.TrimSpace(p.Username) == "" || p.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     p.Username,
		Name:         p.Name,
		Email:        p.Email,
		MobileNumber: p.MobileNumber,
		PasswordHash: cryptox.HashPassword(p.Password),
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the password of the account named by p.
func (s *UserService) Login(ctx context.Context, p LoginParams) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	var (
		user *models.User
		err  error
	)
	switch {
	case p.Username != "":
		user, err = repo.GetByUsername(ctx, p.Username)
	case p.Email != "":
		user, err = repo.GetByEmail(ctx, p.Email)
	case p.MobileNumber != "":
		user, err = repo.GetByMobileNumber(ctx, p.MobileNumber)
	default:
		return nil, fmt.Errorf("%w: username, email or mobile number is required", common.ErrorValidation)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(p.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// GetUser returns the owner of a session. A user that no longer exists is
// reported as common.ErrorUnauthorized.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// GenerateOTP issues a fresh code for mobileNumber, replacing any earlier
// one, and hands it to the sender. Only the hash is stored.
func (s *UserService) GenerateOTP(ctx context.Context, mobileNumber string) error {
	if strings.TrimSpace(mobileNumber) == "" {
		return fmt.Errorf("%w: mobile number is required", common.ErrorValidation)
	}

	code, err := common.GenerateNumericCode(common.OTPLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	challenge := &models.OTPChallenge{
		ID:           uuid.NewString(),
		MobileNumber: mobileNumber,
		CodeHash:     cryptox.HashOTP(mobileNumber, code),
		ExpiresAt:    time.Now().Add(s.otpValidity),
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.OTPs(tx)
		if err := repo.DeleteByMobileNumber(ctx, mobileNumber); err != nil {
			return err
		}
		return repo.Create(ctx, challenge)
	}); err != nil {
		return fmt.Errorf("error storing otp: %w", err)
	}

	if err := s.sender.Send(ctx, mobileNumber, code); err != nil {
		return fmt.Errorf("error sending otp: %w", err)
	}
	return nil
}

// VerifyOTP checks code against the latest challenge for mobileNumber and
// returns the account registered with that number. Every check counts as an
// attempt and the attempt is recorded before the code is compared, so
// concurrent guesses cannot exceed the limit. A successful check consumes
// the challenge.
func (s *UserService) VerifyOTP(ctx context.Context, mobileNumber, code string) (*models.User, error) {
	repo := s.repomanager.OTPs(s.db)

	challenge, err := repo.FindLatest(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOTPNotFound
		}
		return nil, fmt.Errorf("error searching otp: %w", err)
	}

	if challenge.Expired(time.Now()) {
		return nil, common.ErrOTPExpired
	}

	n, err := repo.RecordAttempt(ctx, challenge.ID, s.otpMaxAttempts)
	if err != nil {
		// no row: the limit was hit, or the challenge was consumed or replaced meanwhile
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOTPTooManyAttempts
		}
		return nil, fmt.Errorf("error recording otp attempt: %w", err)
	}

	if !cryptox.EqualHashes(challenge.CodeHash, cryptox.HashOTP(mobileNumber, code)) {
		s.logger.Info(ctx, "wrong otp", "attempts", n)
		return nil, common.ErrOTPInvalid
	}

	var user *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByMobileNumber(ctx, mobileNumber)
		if err != nil {
			return err
		}
		return s.repomanager.OTPs(tx).DeleteByMobileNumber(ctx, mobileNumber)
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no account for mobile number", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error consuming otp: %w", err)
	}

	return user, nil
}

// IssueSessionToken opens a server-side session for userID and mints the
// token stored in the cookie. Lapsed sessions are pruned on the way.
func (s *UserService) IssueSessionToken(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Sessions(s.db)

	if n, err := repo.DeleteExpired(ctx); err != nil {
		s.logger.Warn(ctx, "could not prune sessions", "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "pruned sessions", "count", n)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionValidity),
	}
	if err := repo.Create(ctx, session); err != nil {
		s.logger.Error(ctx, "could not store session", "user_id", userID, "error", err)
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(userID, session.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// UserIDFromSessionToken validates a session token and returns its owner.
// A token whose session was ended yields common.ErrInvalidToken.
func (s *UserService) UserIDFromSessionToken(ctx context.Context, token string) (string, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return "", common.ErrorInternal
	}
	if session.UserID != claims.UserID {
		return "", common.ErrInvalidToken
	}
	if session.Expired(time.Now()) {
		return "", common.ErrTokenExpired
	}
	return session.UserID, nil
}

// EndSession deletes the session named by token. Tokens that no longer
// parse name nothing to end and are ignored.
func (s *UserService) EndSession(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("error ending session: %w", err)
	}
	s.logger.Info(ctx, "session ended", "user_id", claims.UserID)
	return nil
}

// SessionValidity is the lifetime of tokens from IssueSessionToken.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidity
}
