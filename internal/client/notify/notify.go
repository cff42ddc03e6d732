// Package notify delivers the short user-visible messages that follow an
// auth action, the terminal counterpart of a toast.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

func (v Variant) String() string {
	if v == VariantDestructive {
		return "destructive"
	}
	return "default"
}

type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Notifier interface {
	Notify(n Notification)
}

// ConsoleNotifier prints notifications to a writer, styled for the terminal
// when the writer supports it.
type ConsoleNotifier struct {
	mu          sync.Mutex
	w           io.Writer
	title       lipgloss.Style
	failure     lipgloss.Style
	description lipgloss.Style
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	r := lipgloss.NewRenderer(w)
	return &ConsoleNotifier{
		w:           w,
		title:       r.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
		failure:     r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		description: r.NewStyle().Foreground(lipgloss.Color("#A1A1AA")),
	}
}

func (c *ConsoleNotifier) Notify(n Notification) {
	title := c.title
	if n.Variant == VariantDestructive {
		title = c.failure
	}

	line := title.Render(n.Title)
	if n.Description != "" {
		line += " " + c.description.Render(n.Description)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
