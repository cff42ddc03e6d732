package models

// The input types below carry the validation rules applied before any
// request is sent. Password and contact rules mirror the sign-in forms.

type LoginInput struct {
	Username   string `validate:"required"`
	Password   string `validate:"required,min=6"`
	RememberMe bool
}

type EmailLoginInput struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=6"`
	RememberMe bool
}

type MobileLoginInput struct {
	MobileNumber string `validate:"required,min=10"`
	Password     string `validate:"required,min=6"`
	RememberMe   bool
}

// RegisterInput registers with an explicit username. RememberMe defaults to
// true when nil.
type RegisterInput struct {
	Name       string `validate:"required,min=2"`
	Username   string `validate:"required"`
	Email      string `validate:"omitempty,email"`
	Password   string `validate:"required,min=6"`
	RememberMe *bool
}

type EmailRegisterInput struct {
	Name       string `validate:"required,min=2"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=6"`
	RememberMe *bool
}

type MobileRegisterInput struct {
	Name         string `validate:"required,min=2"`
	MobileNumber string `validate:"required,min=10"`
	Password     string `validate:"required,min=6"`
	RememberMe   *bool
}

type GenerateOTPInput struct {
	MobileNumber string `validate:"required,min=10"`
}

type VerifyOTPInput struct {
	MobileNumber string `validate:"required,min=10"`
	OTPCode      string `validate:"required,len=6,numeric"`
}
