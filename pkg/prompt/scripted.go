package prompt

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
)

// Scripted answers prompts without a terminal. PickOne returns the first
// preset answer that is an option; PickMany returns the preset answers that
// are options, or every option when no answers were preset.
type Scripted struct {
	answers []string
}

// NewScripted returns a chooser answering with answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Cancel is the answer that dismisses a scripted prompt.
const Cancel = "-"

func (s *Scripted) PickOne(ctx context.Context, options []string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, a := range s.answers {
		if a == Cancel {
			return "", domain.ErrUserCancelled
		}
		for _, o := range options {
			if o == a {
				return o, nil
			}
		}
	}
	return "", errors.WithHintf(
		errors.Mark(errors.Newf("%s: no answer among %d options", prompt, len(options)), domain.ErrValidation),
		"pass one of %s with --pick or run in a terminal", strings.Join(options, ", "),
	)
}

func (s *Scripted) PickMany(ctx context.Context, options []string, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var picked []string
	for _, a := range s.answers {
		if a == Cancel {
			return nil, domain.ErrUserCancelled
		}
		picked = append(picked, a)
	}
	if len(picked) == 0 {
		return append([]string(nil), options...), nil
	}

	out := keepOrder(options, picked)
	if len(out) == 0 {
		return nil, domain.ErrUserCancelled
	}
	return out, nil
}
