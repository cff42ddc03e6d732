package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/arestate/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	hasPendingOTP() bool

	Login(ctx context.Context) error
	LoginEmail(ctx context.Context) error
	LoginMobile(ctx context.Context) error
	Register(ctx context.Context) error
	RegisterEmail(ctx context.Context) error
	RegisterMobile(ctx context.Context) error

	RequestOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context) error
	ResendOTP(ctx context.Context) error
	CancelOTP(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Remember(ctx context.Context, on bool) error
	Forget(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Handlers report their own failures through notifications; an error
// returned here is printed once and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("arestate%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a.isLoggedIn(ctx), a.hasPendingOTP()))

		case "login":
			cmdErr = a.Login(ctx)
		case "login-email":
			cmdErr = a.LoginEmail(ctx)
		case "login-mobile":
			cmdErr = a.LoginMobile(ctx)

		case "register":
			cmdErr = a.Register(ctx)
		case "register-email":
			cmdErr = a.RegisterEmail(ctx)
		case "register-mobile":
			cmdErr = a.RegisterMobile(ctx)

		case "otp":
			cmdErr = a.RequestOTP(ctx)
		case "verify":
			cmdErr = a.VerifyOTP(ctx)
		case "resend":
			cmdErr = a.ResendOTP(ctx)
		case "cancel":
			cmdErr = a.CancelOTP(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "remember":
			on, ok := parseOnOff(args)
			if !ok {
				printlnFn("Usage: remember on|off")
				continue
			}
			cmdErr = a.Remember(ctx, on)

		case "forget":
			cmdErr = a.Forget(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil && !notified(cmdErr) {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}

// notified reports whether err came back from the backend, in which case
// the auth service already told the user about it.
func notified(err error) bool {
	var apiErr *client.APIError
	return errors.Is(err, client.ErrUnauthorized) ||
		errors.Is(err, client.ErrUnavailable) ||
		errors.As(err, &apiErr)
}

func parseOnOff(args []string) (bool, bool) {
	if len(args) != 1 {
		return false, false
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes", "true":
		return true, true
	case "off", "no", "false":
		return false, true
	}
	return false, false
}

func helpText(loggedIn, pendingOTP bool) string {
	switch {
	case pendingOTP:
		return "Available commands: verify, resend, cancel, whoami, exit"
	case loggedIn:
		return "Available commands: whoami, remember on|off, forget, logout, exit"
	default:
		return "Available commands: login, login-email, login-mobile, register, register-email, register-mobile, otp, remember on|off, forget, exit"
	}
}
