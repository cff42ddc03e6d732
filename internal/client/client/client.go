package client

import (
	"context"

	"github.com/dmitrijs2005/arestate/internal/client/models"
)

// LoginRequest identifies the user by exactly one of Username, Email or
// MobileNumber.
type LoginRequest struct {
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Password     string `json:"password"`
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Password     string `json:"password"`
}

// Client is the backend contract used by the auth services.
type Client interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*models.User, error)
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	GenerateOTP(ctx context.Context, mobileNumber string) error
	VerifyOTP(ctx context.Context, mobileNumber, otpCode string) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
