package prompt

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/specvital/scaffold/pkg/domain"
)

// Interactive prompts on the terminal with pterm selects.
type Interactive struct {
	maxHeight int
}

// NewInteractive returns a terminal chooser.
func NewInteractive() *Interactive {
	return &Interactive{maxHeight: 10}
}

func (c *Interactive) PickOne(ctx context.Context, options []string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", errors.Mark(errors.New("nothing to choose from"), domain.ErrValidation)
	}

	var interrupted bool
	picked, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithMaxHeight(c.maxHeight).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt)
	return selected(picked, interrupted, err)
}

// selected maps a select prompt's result. A prompt failure is an error even
// when nothing was picked; only an interrupt or an empty answer cancels.
func selected(picked string, interrupted bool, err error) (string, error) {
	switch {
	case interrupted:
		return "", domain.ErrUserCancelled
	case err != nil:
		return "", errors.Wrap(err, "select prompt")
	case picked == "":
		return "", domain.ErrUserCancelled
	}
	return picked, nil
}

// PickMany preselects every option; an empty selection counts as cancelled.
func (c *Interactive) PickMany(ctx context.Context, options []string, prompt string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, errors.Mark(errors.New("nothing to choose from"), domain.ErrValidation)
	}

	var interrupted bool
	picked, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(options).
		WithDefaultOptions(options).
		WithMaxHeight(c.maxHeight).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt)
	return multiSelected(options, picked, interrupted, err)
}

func multiSelected(options, picked []string, interrupted bool, err error) ([]string, error) {
	switch {
	case interrupted:
		return nil, domain.ErrUserCancelled
	case err != nil:
		return nil, errors.Wrap(err, "multiselect prompt")
	case len(picked) == 0:
		return nil, domain.ErrUserCancelled
	}
	return keepOrder(options, picked), nil
}

// keepOrder returns the picked options in their original order.
func keepOrder(options, picked []string) []string {
	set := make(map[string]struct{}, len(picked))
	for _, p := range picked {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(picked))
	for _, o := range options {
		if _, ok := set[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
