package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getYesNo = GetYesNo

func (a *App) hasPendingOTP() bool {
	_, ok := a.authService.PendingOTP()
	return ok
}

// readPassword prompts for a password and returns it as a string, wiping
// the raw bytes.
func (a *App) readPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) askRemember() (bool, error) {
	return getYesNo(a.reader, "Remember me?", a.authService.RememberMe(), a.out)
}

// Login signs in by username. The remembered username, if any, is offered
// as the default.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter username"
	saved := a.authService.SavedCredentials().Username
	if saved != "" {
		prompt = fmt.Sprintf("Enter username [%s]", saved)
	}

	username, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if username == "" {
		username = saved
	}

	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := a.askRemember()
	if err != nil {
		return err
	}

	_, err = a.authService.Login(ctx, models.LoginInput{Username: username, Password: password, RememberMe: remember})
	return err
}

func (a *App) LoginEmail(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := a.askRemember()
	if err != nil {
		return err
	}

	_, err = a.authService.EmailLogin(ctx, models.EmailLoginInput{Email: email, Password: password, RememberMe: remember})
	return err
}

func (a *App) LoginMobile(ctx context.Context) error {
	mobile, err := getSimpleText(a.reader, "Enter mobile number", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := a.askRemember()
	if err != nil {
		return err
	}

	_, err = a.authService.MobileLogin(ctx, models.MobileLoginInput{MobileNumber: mobile, Password: password, RememberMe: remember})
	return err
}

// Register creates an account with a username and an optional email.
// Registration remembers the username unless the user declines.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Remember me?", true, a.out)
	if err != nil {
		return err
	}

	_, err = a.authService.Register(ctx, models.RegisterInput{
		Name:       name,
		Username:   username,
		Email:      email,
		Password:   password,
		RememberMe: &remember,
	})
	return err
}

func (a *App) RegisterEmail(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Remember me?", true, a.out)
	if err != nil {
		return err
	}

	_, err = a.authService.EmailRegister(ctx, models.EmailRegisterInput{
		Name:       name,
		Email:      email,
		Password:   password,
		RememberMe: &remember,
	})
	return err
}

// RegisterMobile registers by mobile number. A verification code is
// requested at the same time; follow up with "verify".
func (a *App) RegisterMobile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	mobile, err := getSimpleText(a.reader, "Enter mobile number", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Remember me?", true, a.out)
	if err != nil {
		return err
	}

	_, err = a.authService.MobileRegister(ctx, models.MobileRegisterInput{
		Name:         name,
		MobileNumber: mobile,
		Password:     password,
		RememberMe:   &remember,
	})
	if a.hasPendingOTP() {
		printlnFn("Enter the code with 'verify'.")
	}
	return err
}

// RequestOTP sends a one-time code to a mobile number and opens the
// challenge.
func (a *App) RequestOTP(ctx context.Context) error {
	mobile, err := getSimpleText(a.reader, "Enter mobile number", a.out)
	if err != nil {
		return err
	}
	return a.authService.GenerateOTP(ctx, models.GenerateOTPInput{MobileNumber: mobile})
}

// VerifyOTP submits a code for the open challenge, or for a number typed
// in when none is open.
func (a *App) VerifyOTP(ctx context.Context) error {
	var mobile string
	if p, ok := a.authService.PendingOTP(); ok {
		mobile = p.MobileNumber
	} else {
		m, err := getSimpleText(a.reader, "Enter mobile number", a.out)
		if err != nil {
			return err
		}
		mobile = m
	}

	code, err := getSimpleText(a.reader, "Enter 6-digit code", a.out)
	if err != nil {
		return err
	}

	_, err = a.authService.VerifyOTP(ctx, models.VerifyOTPInput{MobileNumber: mobile, OTPCode: code})
	return err
}

func (a *App) ResendOTP(ctx context.Context) error {
	return a.authService.ResendOTP(ctx)
}

func (a *App) CancelOTP(ctx context.Context) error {
	a.authService.CancelOTP()
	printlnFn("Verification cancelled")
	return nil
}

// WhoAmI prints the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	sess := a.authService.Session(ctx)
	switch {
	case sess.Err != nil:
		printlnFn("Could not determine session:", sess.Err.Error())
	case sess.User == nil:
		printlnFn("Not logged in")
	default:
		printlnFn(describeUser(sess.User))
	}
	return nil
}

func describeUser(u *models.User) string {
	var extra []string
	for _, v := range []string{u.Name, u.Email, u.MobileNumber} {
		if v != "" {
			extra = append(extra, v)
		}
	}
	if len(extra) == 0 {
		return "Logged in as " + u.Username
	}
	return fmt.Sprintf("Logged in as %s (%s)", u.Username, strings.Join(extra, ", "))
}

func (a *App) Remember(ctx context.Context, on bool) error {
	a.authService.SetRememberMe(on)
	if on {
		printlnFn("Remember me: on")
	} else {
		printlnFn("Remember me: off")
	}
	return nil
}

func (a *App) Forget(ctx context.Context) error {
	a.authService.ClearSavedCredentials(ctx)
	printlnFn("Saved credentials cleared")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.authService.Logout(ctx)
}
