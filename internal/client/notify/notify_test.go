package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleNotifier_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf)

	n.Notify(Notification{Title: "Login successful", Description: "Welcome back, alice!"})
	n.Notify(Notification{Title: "Logout failed", Description: "server unavailable", Variant: VariantDestructive})
	n.Notify(Notification{Title: "Logged out"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Login successful Welcome back, alice!", lines[0])
	assert.Equal(t, "Logout failed server unavailable", lines[1])
	assert.Equal(t, "Logged out", lines[2])
}

func TestRecorder(t *testing.T) {
	var r Recorder

	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Notification{Title: "a"})
	r.Notify(Notification{Title: "b", Variant: VariantDestructive})

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.Title)
	assert.Equal(t, "destructive", last.Variant.String())

	all := r.All()
	require.Len(t, all, 2)
	all[0].Title = "changed"
	assert.Equal(t, "a", r.All()[0].Title)
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "default", VariantDefault.String())
	assert.Equal(t, "destructive", VariantDestructive.String())
}
