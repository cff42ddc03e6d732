// Package services contains the client's application services. This file
// defines the auth actions: login and registration in their username, email
// and mobile forms, the one-time-code challenge, logout, and the remember-me
// housekeeping that follows them.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/arestate/internal/client/client"
	"github.com/dmitrijs2005/arestate/internal/client/credentials"
	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/client/notify"
	"github.com/dmitrijs2005/arestate/internal/client/session"
	"github.com/dmitrijs2005/arestate/internal/client/validation"
	"github.com/dmitrijs2005/arestate/internal/logging"
)

// AuthService defines the auth operations offered to the CLI.
//
// Every action is validated locally first and issues at most one backend
// request; nothing is retried. On failure the session is left as it was and
// a destructive notification is emitted.
type AuthService interface {
	Login(ctx context.Context, in models.LoginInput) (*models.User, error)
	EmailLogin(ctx context.Context, in models.EmailLoginInput) (*models.User, error)
	MobileLogin(ctx context.Context, in models.MobileLoginInput) (*models.User, error)

	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	EmailRegister(ctx context.Context, in models.EmailRegisterInput) (*models.User, error)
	MobileRegister(ctx context.Context, in models.MobileRegisterInput) (*models.User, error)

	GenerateOTP(ctx context.Context, in models.GenerateOTPInput) error
	ResendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, in models.VerifyOTPInput) (*models.User, error)
	CancelOTP()
	PendingOTP() (models.PendingOTP, bool)

	Logout(ctx context.Context) error
	Session(ctx context.Context) models.Session

	SavedCredentials() models.RememberedCredentials
	ClearSavedCredentials(ctx context.Context)
	SetRememberMe(remember bool)
	RememberMe() bool

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ErrNoPendingOTP is returned by ResendOTP when no challenge is open.
var ErrNoPendingOTP = fmt.Errorf("%w: no pending verification", validation.ErrValidation)

type authService struct {
	client   client.Client
	session  *session.Store
	creds    *credentials.Cache
	notifier notify.Notifier
	logger   logging.Logger

	mu      sync.Mutex
	pending *models.PendingOTP

	// background tracks requests that outlive the action that issued them.
	background sync.WaitGroup
}

// NewAuthService wires the auth actions to the backend client, the session
// store, the remember-me cache and a notifier.
func NewAuthService(c client.Client, s *session.Store, creds *credentials.Cache, n notify.Notifier, logger logging.Logger) AuthService {
	return &authService{
		client:   c,
		session:  s,
		creds:    creds,
		notifier: n,
		logger:   logger.With("module", "auth"),
	}
}

func (a *authService) Login(ctx context.Context, in models.LoginInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return a.login(ctx, client.LoginRequest{Username: in.Username, Password: in.Password}, in.RememberMe)
}

func (a *authService) EmailLogin(ctx context.Context, in models.EmailLoginInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return a.login(ctx, client.LoginRequest{Email: in.Email, Password: in.Password}, in.RememberMe)
}

func (a *authService) MobileLogin(ctx context.Context, in models.MobileLoginInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return a.login(ctx, client.LoginRequest{MobileNumber: in.MobileNumber, Password: in.Password}, in.RememberMe)
}

func (a *authService) login(ctx context.Context, req client.LoginRequest, remember bool) (*models.User, error) {
	user, err := a.client.Login(ctx, req)
	if err != nil {
		a.logger.Info(ctx, "login failed", "error", err)
		a.fail("Login failed", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	a.session.Set(user)
	a.creds.Save(ctx, user.Username, remember)

	a.logger.Info(ctx, "login succeeded", "username", user.Username, "remember", remember)
	a.notifier.Notify(notify.Notification{
		Title:       "Login successful",
		Description: fmt.Sprintf("Welcome back, %s!", user.DisplayName()),
	})
	return user, nil
}

func (a *authService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	req := client.RegisterRequest{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	}
	return a.register(ctx, req, in.RememberMe)
}

func (a *authService) EmailRegister(ctx context.Context, in models.EmailRegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	req := client.RegisterRequest{
		Name:     in.Name,
		Username: in.Email,
		Email:    in.Email,
		Password: in.Password,
	}
	return a.register(ctx, req, in.RememberMe)
}

// MobileRegister registers by mobile number and opens the verification
// challenge at once. The code request is sent concurrently with the
// registration and is not gated on its outcome: both may be in flight
// together and either may finish first.
func (a *authService) MobileRegister(ctx context.Context, in models.MobileRegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	a.openChallenge(in.MobileNumber)
	a.requestOTPInBackground(ctx, in.MobileNumber)

	req := client.RegisterRequest{
		Name:         in.Name,
		Username:     in.MobileNumber,
		MobileNumber: in.MobileNumber,
		Password:     in.Password,
	}
	return a.register(ctx, req, in.RememberMe)
}

func (a *authService) register(ctx context.Context, req client.RegisterRequest, remember *bool) (*models.User, error) {
	user, err := a.client.Register(ctx, req)
	if err != nil {
		a.logger.Info(ctx, "registration failed", "error", err)
		a.fail("Registration failed", err)
		return nil, fmt.Errorf("register: %w", err)
	}

	rememberMe := true
	if remember != nil {
		rememberMe = *remember
	}

	a.session.Set(user)
	a.creds.Save(ctx, user.Username, rememberMe)

	a.logger.Info(ctx, "registration succeeded", "username", user.Username, "remember", rememberMe)
	a.notifier.Notify(notify.Notification{
		Title:       "Registration successful",
		Description: fmt.Sprintf("Welcome, %s!", user.DisplayName()),
	})
	return user, nil
}

// requestOTPInBackground asks for a code without holding up the caller.
// The request survives cancellation of ctx; Close waits for it.
func (a *authService) requestOTPInBackground(ctx context.Context, mobileNumber string) {
	bg := context.WithoutCancel(ctx)

	a.background.Add(1)
	go func() {
		defer a.background.Done()

		if err := a.client.GenerateOTP(bg, mobileNumber); err != nil {
			a.logger.Warn(bg, "otp request failed", "mobile", mobileNumber, "error", err)
			a.fail("Could not send code", err)
			return
		}
		a.notifySent(mobileNumber)
	}()
}

func (a *authService) GenerateOTP(ctx context.Context, in models.GenerateOTPInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	if err := a.client.GenerateOTP(ctx, in.MobileNumber); err != nil {
		a.logger.Info(ctx, "otp request failed", "mobile", in.MobileNumber, "error", err)
		a.fail("Could not send code", err)
		return fmt.Errorf("generate otp: %w", err)
	}

	a.openChallenge(in.MobileNumber)
	a.notifySent(in.MobileNumber)
	return nil
}

func (a *authService) ResendOTP(ctx context.Context) error {
	p, ok := a.PendingOTP()
	if !ok {
		return ErrNoPendingOTP
	}
	return a.GenerateOTP(ctx, models.GenerateOTPInput{MobileNumber: p.MobileNumber})
}

// VerifyOTP completes the challenge. A wrong code leaves the challenge open
// so the user can retry or ask for a new code.
func (a *authService) VerifyOTP(ctx context.Context, in models.VerifyOTPInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := a.client.VerifyOTP(ctx, in.MobileNumber, in.OTPCode)
	if err != nil {
		a.logger.Info(ctx, "otp verification failed", "mobile", in.MobileNumber, "error", err)
		a.fail("Verification failed", err)
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	a.CancelOTP()
	a.session.Set(user)

	a.logger.Info(ctx, "otp verified", "username", user.Username)
	a.notifier.Notify(notify.Notification{
		Title:       "Verification successful",
		Description: fmt.Sprintf("Welcome, %s!", user.DisplayName()),
	})
	return user, nil
}

func (a *authService) CancelOTP() {
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()
}

func (a *authService) PendingOTP() (models.PendingOTP, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return models.PendingOTP{}, false
	}
	return *a.pending, true
}

func (a *authService) openChallenge(mobileNumber string) {
	a.mu.Lock()
	a.pending = &models.PendingOTP{MobileNumber: mobileNumber}
	a.mu.Unlock()
}

// Logout ends the backend session. The remember-me flag is written again
// so the remembered username survives for the next login.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.logger.Info(ctx, "logout failed", "error", err)
		a.fail("Logout failed", err)
		return fmt.Errorf("logout: %w", err)
	}

	a.session.Set(nil)
	a.creds.PersistRememberFlag(ctx, a.creds.RememberMe())

	a.logger.Info(ctx, "logged out")
	a.notifier.Notify(notify.Notification{
		Title:       "Logged out",
		Description: "You have been successfully logged out.",
	})
	return nil
}

func (a *authService) Session(ctx context.Context) models.Session {
	return a.session.Current(ctx)
}

func (a *authService) SavedCredentials() models.RememberedCredentials {
	return models.RememberedCredentials{
		Username:        a.creds.SavedUsername(),
		RememberEnabled: a.creds.RememberMe(),
	}
}

func (a *authService) ClearSavedCredentials(ctx context.Context) {
	a.creds.Clear(ctx)
}

func (a *authService) SetRememberMe(remember bool) {
	a.creds.SetRememberMe(remember)
}

func (a *authService) RememberMe() bool {
	return a.creds.RememberMe()
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close waits for background requests, or for ctx, and then releases the
// client. In-flight requests are not cancelled.
func (a *authService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.background.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn(ctx, "closing with background requests in flight")
	}
	return a.client.Close()
}

func (a *authService) fail(title string, err error) {
	a.notifier.Notify(notify.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     notify.VariantDestructive,
	})
}

func (a *authService) notifySent(mobileNumber string) {
	a.notifier.Notify(notify.Notification{
		Title:       "Code sent",
		Description: fmt.Sprintf("A verification code was sent to %s.", mobileNumber),
	})
}
