package ux

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/biblio/internal/views"
)

// Toaster prints view notices as one-line toasts, typically to stderr
type Toaster struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool

	success lipgloss.Style
	info    lipgloss.Style
	failure lipgloss.Style
}

// NewToaster creates a toaster writing to w
func NewToaster(w io.Writer, noColor bool) *Toaster {
	return &Toaster{
		w:       w,
		noColor: noColor,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// Notify prints n
func (t *Toaster) Notify(n views.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, t.Render(n)) //nolint:errcheck
}

// Render formats n without printing it
func (t *Toaster) Render(n views.Notice) string {
	icon, style := "ℹ", t.info
	switch n.Level {
	case views.LevelSuccess:
		icon, style = "✓", t.success
	case views.LevelError:
		icon, style = "✗", t.failure
	}

	head := icon + " " + n.Title
	if !t.noColor {
		head = style.Render(head)
	}
	if n.Message == "" {
		return head
	}
	return head + ": " + n.Message
}

var _ views.Notifier = (*Toaster)(nil)
