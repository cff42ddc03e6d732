package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInputs answers text prompts from the given lines in order, returns
// password for every password prompt and remember for every yes/no prompt.
func stubInputs(t *testing.T, lines []string, password string, remember bool) *[]string {
	t.Helper()
	var prompts []string
	origST, origGP, origYN := getSimpleText, getPassword, getYesNo

	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(lines) == 0 {
			return "", io.EOF
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	getYesNo = func(_ *bufio.Reader, prompt string, _ bool, _ io.Writer) (bool, error) {
		prompts = append(prompts, prompt)
		return remember, nil
	}

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
		getYesNo = origYN
	})
	return &prompts
}

type fakeAuth struct {
	session  models.Session
	pending  *models.PendingOTP
	saved    models.RememberedCredentials
	remember bool

	loginIn       models.LoginInput
	emailLoginIn  models.EmailLoginInput
	mobileLoginIn models.MobileLoginInput
	registerIn    models.RegisterInput
	emailRegIn    models.EmailRegisterInput
	mobileRegIn   models.MobileRegisterInput
	generateIn    models.GenerateOTPInput
	verifyIn      models.VerifyOTPInput

	err error

	resendCalled bool
	logoutCalled bool
	clearCalled  bool
	pingErr      error
}

func (f *fakeAuth) Login(_ context.Context, in models.LoginInput) (*models.User, error) {
	f.loginIn = in
	return &models.User{Username: in.Username}, f.err
}
func (f *fakeAuth) EmailLogin(_ context.Context, in models.EmailLoginInput) (*models.User, error) {
	f.emailLoginIn = in
	return nil, f.err
}
func (f *fakeAuth) MobileLogin(_ context.Context, in models.MobileLoginInput) (*models.User, error) {
	f.mobileLoginIn = in
	return nil, f.err
}
func (f *fakeAuth) Register(_ context.Context, in models.RegisterInput) (*models.User, error) {
	f.registerIn = in
	return nil, f.err
}
func (f *fakeAuth) EmailRegister(_ context.Context, in models.EmailRegisterInput) (*models.User, error) {
	f.emailRegIn = in
	return nil, f.err
}
func (f *fakeAuth) MobileRegister(_ context.Context, in models.MobileRegisterInput) (*models.User, error) {
	f.mobileRegIn = in
	f.pending = &models.PendingOTP{MobileNumber: in.MobileNumber}
	return nil, f.err
}
func (f *fakeAuth) GenerateOTP(_ context.Context, in models.GenerateOTPInput) error {
	f.generateIn = in
	return f.err
}
func (f *fakeAuth) ResendOTP(context.Context) error { f.resendCalled = true; return f.err }
func (f *fakeAuth) VerifyOTP(_ context.Context, in models.VerifyOTPInput) (*models.User, error) {
	f.verifyIn = in
	return nil, f.err
}
func (f *fakeAuth) CancelOTP() { f.pending = nil }
func (f *fakeAuth) PendingOTP() (models.PendingOTP, bool) {
	if f.pending == nil {
		return models.PendingOTP{}, false
	}
	return *f.pending, true
}
func (f *fakeAuth) Logout(context.Context) error                   { f.logoutCalled = true; return f.err }
func (f *fakeAuth) Session(context.Context) models.Session         { return f.session }
func (f *fakeAuth) SavedCredentials() models.RememberedCredentials { return f.saved }
func (f *fakeAuth) ClearSavedCredentials(context.Context)          { f.clearCalled = true }
func (f *fakeAuth) SetRememberMe(remember bool)                    { f.remember = remember }
func (f *fakeAuth) RememberMe() bool                               { return f.remember }
func (f *fakeAuth) Ping(context.Context) error                     { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error                    { return nil }

func newApp(f *fakeAuth) *App {
	return &App{authService: f, reader: bufio.NewReader(strings.NewReader("")), out: io.Discard}
}

func TestLogin_UsesRememberedUsernameAsDefault(t *testing.T) {
	f := &fakeAuth{saved: models.RememberedCredentials{Username: "alice", RememberEnabled: true}}
	a := newApp(f)
	prompts := stubInputs(t, []string{""}, "secret123", true)

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, models.LoginInput{Username: "alice", Password: "secret123", RememberMe: true}, f.loginIn)
	assert.Equal(t, "Enter username [alice]", (*prompts)[0])
}

func TestLogin_TypedUsernameWins(t *testing.T) {
	f := &fakeAuth{saved: models.RememberedCredentials{Username: "alice", RememberEnabled: true}}
	a := newApp(f)
	stubInputs(t, []string{"bob"}, "secret123", false)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "bob", f.loginIn.Username)
	assert.False(t, f.loginIn.RememberMe)
}

func TestLogin_InputErrorStopsBeforeService(t *testing.T) {
	f := &fakeAuth{}
	a := newApp(f)
	stubInputs(t, nil, "secret123", false)

	require.ErrorIs(t, a.Login(context.Background()), io.EOF)
	assert.Equal(t, models.LoginInput{}, f.loginIn)
}

func TestLoginEmailAndMobile(t *testing.T) {
	f := &fakeAuth{}
	a := newApp(f)
	stubInputs(t, []string{"alice@example.com", "5551234567"}, "secret123", true)

	require.NoError(t, a.LoginEmail(context.Background()))
	require.NoError(t, a.LoginMobile(context.Background()))

	assert.Equal(t, models.EmailLoginInput{Email: "alice@example.com", Password: "secret123", RememberMe: true}, f.emailLoginIn)
	assert.Equal(t, models.MobileLoginInput{MobileNumber: "5551234567", Password: "secret123", RememberMe: true}, f.mobileLoginIn)
}

func TestRegisterVariants(t *testing.T) {
	f := &fakeAuth{}
	a := newApp(f)
	ctx := context.Background()
	stubInputs(t, []string{
		"Alice", "alice", "alice@example.com",
		"Alice", "alice@example.com",
		"Bob", "5551234567",
	}, "secret1", true)

	require.NoError(t, a.Register(ctx))
	require.NoError(t, a.RegisterEmail(ctx))
	require.NoError(t, a.RegisterMobile(ctx))

	require.NotNil(t, f.registerIn.RememberMe)
	assert.True(t, *f.registerIn.RememberMe)
	assert.Equal(t, "alice", f.registerIn.Username)
	assert.Equal(t, "alice@example.com", f.registerIn.Email)

	assert.Equal(t, "alice@example.com", f.emailRegIn.Email)
	assert.Equal(t, "Alice", f.emailRegIn.Name)

	assert.Equal(t, "5551234567", f.mobileRegIn.MobileNumber)
	assert.True(t, a.hasPendingOTP())
}

func TestRegister_ErrorPropagates(t *testing.T) {
	f := &fakeAuth{err: errors.New("reg-fail")}
	a := newApp(f)
	stubInputs(t, []string{"Alice", "alice", ""}, "secret1", true)

	require.EqualError(t, a.Register(context.Background()), "reg-fail")
}

func TestVerifyOTP_UsesPendingNumber(t *testing.T) {
	f := &fakeAuth{pending: &models.PendingOTP{MobileNumber: "5551234567"}}
	a := newApp(f)
	prompts := stubInputs(t, []string{"123456"}, "", false)

	require.NoError(t, a.VerifyOTP(context.Background()))
	assert.Equal(t, models.VerifyOTPInput{MobileNumber: "5551234567", OTPCode: "123456"}, f.verifyIn)
	assert.Equal(t, []string{"Enter 6-digit code"}, *prompts)
}

func TestVerifyOTP_AsksForNumberWithoutChallenge(t *testing.T) {
	f := &fakeAuth{}
	a := newApp(f)
	stubInputs(t, []string{"5550000000", "654321"}, "", false)

	require.NoError(t, a.VerifyOTP(context.Background()))
	assert.Equal(t, models.VerifyOTPInput{MobileNumber: "5550000000", OTPCode: "654321"}, f.verifyIn)
}

func TestOTPCommands(t *testing.T) {
	lines := capturePrintln(t)
	f := &fakeAuth{}
	a := newApp(f)
	ctx := context.Background()
	stubInputs(t, []string{"5551234567"}, "", false)

	require.NoError(t, a.RequestOTP(ctx))
	assert.Equal(t, "5551234567", f.generateIn.MobileNumber)

	require.NoError(t, a.ResendOTP(ctx))
	assert.True(t, f.resendCalled)

	f.pending = &models.PendingOTP{MobileNumber: "5551234567"}
	require.NoError(t, a.CancelOTP(ctx))
	assert.False(t, a.hasPendingOTP())
	assert.Contains(t, *lines, "Verification cancelled")
}

func TestWhoAmI(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		want    string
	}{
		{"anonymous", models.Session{}, "Not logged in"},
		{"user", models.Session{User: &models.User{Username: "alice"}}, "Logged in as alice"},
		{"user with details", models.Session{User: &models.User{Username: "bob", Name: "Bob", MobileNumber: "5551234567"}}, "Logged in as bob (Bob, 5551234567)"},
		{"error", models.Session{Err: errors.New("server unavailable")}, "Could not determine session: server unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := capturePrintln(t)
			a := newApp(&fakeAuth{session: tt.session})

			require.NoError(t, a.WhoAmI(context.Background()))
			assert.Equal(t, []string{tt.want}, *lines)
		})
	}
}

func TestRememberForgetLogout(t *testing.T) {
	lines := capturePrintln(t)
	f := &fakeAuth{}
	a := newApp(f)
	ctx := context.Background()

	require.NoError(t, a.Remember(ctx, true))
	assert.True(t, f.remember)
	require.NoError(t, a.Remember(ctx, false))
	assert.False(t, f.remember)

	require.NoError(t, a.Forget(ctx))
	assert.True(t, f.clearCalled)

	require.NoError(t, a.Logout(ctx))
	assert.True(t, f.logoutCalled)

	assert.Equal(t, []string{"Remember me: on", "Remember me: off", "Saved credentials cleared"}, *lines)
}

func TestReadPassword_WipesBytes(t *testing.T) {
	raw := []byte("secret123")
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return raw, nil }
	t.Cleanup(func() { getPassword = orig })

	a := &App{out: &bytes.Buffer{}}
	pw, err := a.readPassword()
	require.NoError(t, err)
	assert.Equal(t, "secret123", pw)
	assert.Equal(t, make([]byte, len(raw)), raw)
}
