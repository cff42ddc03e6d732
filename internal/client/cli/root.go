package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt prefix: the logged-in user, the
// connectivity mode and any open verification challenge.
func (a *App) getStatus(ctx context.Context) string {
	var parts []string
	if u := a.authService.Session(ctx).User; u != nil {
		parts = append(parts, u.Username)
	}
	if m := a.currentMode(); m != "" {
		parts = append(parts, string(m))
	}

	s := ""
	if len(parts) > 0 {
		s = fmt.Sprintf("(%s)", strings.Join(parts, " "))
	}
	if p, ok := a.authService.PendingOTP(); ok {
		s += fmt.Sprintf("[otp %s]", p.MobileNumber)
	}
	return s
}

// Root greets the user, resolves the current session and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to arestate CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	_ = a.WhoAmI(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
