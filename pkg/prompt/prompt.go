// Package prompt asks the user to choose between options and opens
// generated files.
package prompt

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
)

// Chooser lets the user pick among options. Dismissing a prompt returns
// domain.ErrUserCancelled.
type Chooser interface {
	PickOne(ctx context.Context, options []string, prompt string) (string, error)
	PickMany(ctx context.Context, options []string, prompt string) ([]string, error)
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewChooser returns an interactive chooser when stdin is a terminal and a
// scripted one answering with preset otherwise.
func NewChooser(stdin *os.File, preset []string) Chooser {
	if len(preset) == 0 && IsInteractive(stdin) {
		return NewInteractive()
	}
	return NewScripted(preset...)
}
