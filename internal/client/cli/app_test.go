package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/logging"
	"github.com/stretchr/testify/assert"
)

func newStatusApp(f *fakeAuth) *App {
	a := newApp(f)
	a.logger = logging.NewNopLogger()
	return a
}

func TestIsLoggedIn(t *testing.T) {
	f := &fakeAuth{}
	a := newStatusApp(f)
	assert.False(t, a.isLoggedIn(context.Background()))

	f.session = models.Session{User: &models.User{Username: "alice"}}
	assert.True(t, a.isLoggedIn(context.Background()))
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		session models.Session
		mode    Mode
		pending *models.PendingOTP
		want    string
	}{
		{name: "empty", want: ""},
		{name: "user only", session: models.Session{User: &models.User{Username: "alice"}}, want: "(alice)"},
		{name: "mode only", mode: ModeOffline, want: "(offline)"},
		{
			name:    "user and mode",
			session: models.Session{User: &models.User{Username: "alice"}},
			mode:    ModeOnline,
			want:    "(alice online)",
		},
		{
			name:    "pending challenge",
			mode:    ModeOnline,
			pending: &models.PendingOTP{MobileNumber: "5551234567"},
			want:    "(online)[otp 5551234567]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newStatusApp(&fakeAuth{session: tt.session, pending: tt.pending})
			a.mode = tt.mode
			assert.Equal(t, tt.want, a.getStatus(ctx))
		})
	}
}

func TestCheckOnline_SwitchesMode(t *testing.T) {
	f := &fakeAuth{}
	a := newStatusApp(f)
	ctx := context.Background()

	a.checkOnline(ctx)
	assert.Equal(t, ModeOnline, a.currentMode())

	f.pingErr = errors.New("down")
	a.checkOnline(ctx)
	assert.Equal(t, ModeOffline, a.currentMode())
}

func TestStartOnlineStatusWatcher_StopsWithContext(t *testing.T) {
	a := newStatusApp(&fakeAuth{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.currentMode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartOnlineStatusWatcher_DisabledInterval(t *testing.T) {
	a := newStatusApp(&fakeAuth{})
	a.StartOnlineStatusWatcher(context.Background(), 0)
	assert.Equal(t, Mode(""), a.currentMode())
}
