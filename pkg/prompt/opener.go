package prompt

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
)

// Opener shows a file to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// PrintOpener reports the path instead of opening it.
type PrintOpener struct {
	w io.Writer
}

func NewPrintOpener(w io.Writer) *PrintOpener {
	return &PrintOpener{w: w}
}

func (o *PrintOpener) Open(_ context.Context, path string) error {
	pterm.Fprintln(o.w, pterm.LightCyan(path))
	return nil
}

// EditorOpener runs an editor command with the path as its last argument.
type EditorOpener struct {
	command string
	args    []string
}

// NewEditorOpener returns an opener for a shell-style command line such as
// "code --wait". An empty line falls back to $VISUAL, then $EDITOR; nil is
// returned when none is set.
func NewEditorOpener(commandLine string) *EditorOpener {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if strings.TrimSpace(commandLine) != "" {
			break
		}
		commandLine = os.Getenv(env)
	}

	fields, err := shellquote.Split(commandLine)
	if err != nil {
		fields = strings.Fields(commandLine)
	}
	if len(fields) == 0 {
		return nil
	}
	return &EditorOpener{command: fields[0], args: fields[1:]}
}

func (o *EditorOpener) Open(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, o.command, append(o.args, path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "open %s with %s", path, o.command)
	}
	return nil
}
