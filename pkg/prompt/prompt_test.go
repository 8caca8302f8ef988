package prompt

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/scaffold/pkg/domain"
)

func TestScripted_PickOne(t *testing.T) {
	options := []string{"src/north/westeros.ts", "src/south/westeros.ts"}

	tests := []struct {
		name    string
		answers []string
		want    string
		wantErr error
	}{
		{"first matching answer", []string{"nope", "src/south/westeros.ts"}, "src/south/westeros.ts", nil},
		{"no answer", nil, "", domain.ErrValidation},
		{"cancel", []string{Cancel}, "", domain.ErrUserCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewScripted(tt.answers...).PickOne(context.Background(), options, "Select")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScripted_PickMany(t *testing.T) {
	options := []string{"jon", "arya", "sansa"}

	tests := []struct {
		name    string
		answers []string
		want    []string
		wantErr error
	}{
		{"defaults to everything", nil, options, nil},
		{"keeps option order", []string{"sansa", "jon"}, []string{"jon", "sansa"}, nil},
		{"unknown answers only", []string{"hodor"}, nil, domain.ErrUserCancelled},
		{"cancel", []string{Cancel}, nil, domain.ErrUserCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewScripted(tt.answers...).PickMany(context.Background(), options, "Select")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewChooser_NonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsInteractive(f))
	assert.IsType(t, &Scripted{}, NewChooser(f, nil))
	assert.IsType(t, &Scripted{}, NewChooser(nil, []string{"a"}))
}

func TestPrintOpener(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrintOpener(&buf).Open(context.Background(), "src/westeros.test.ts"))
	assert.Contains(t, buf.String(), "src/westeros.test.ts")
}

func TestNewEditorOpener_Unset(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Nil(t, NewEditorOpener(""))
}

func TestNewEditorOpener(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		visual  string
		editor  string
		command string
		args    []string
	}{
		{"plain", "vim", "", "", "vim", []string{}},
		{"with args", "code --wait", "", "", "code", []string{"--wait"}},
		{"quoted", `"/opt/my editor/bin/ed" -n`, "", "", "/opt/my editor/bin/ed", []string{"-n"}},
		{"visual", "", "nano", "vi", "nano", []string{}},
		{"editor", "", "", "emacs -nw", "emacs", []string{"-nw"}},
		{"unbalanced quote", `ed "x`, "", "", "ed", []string{`"x`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)

			o := NewEditorOpener(tt.line)
			require.NotNil(t, o)
			assert.Equal(t, tt.command, o.command)
			assert.Equal(t, tt.args, o.args)
		})
	}
}

func TestInteractiveResults(t *testing.T) {
	failure := errors.New("terminal gone")
	options := []string{"jon", "arya", "sansa"}

	tests := []struct {
		name        string
		picked      []string
		interrupted bool
		err         error
		want        []string
		wantErr     error
	}{
		{name: "picked", picked: []string{"sansa", "jon"}, want: []string{"jon", "sansa"}},
		{name: "interrupted", picked: []string{"jon"}, interrupted: true, wantErr: domain.ErrUserCancelled},
		{name: "empty answer", wantErr: domain.ErrUserCancelled},
		{name: "failure without answer", err: failure, wantErr: failure},
		{name: "failure with answer", picked: []string{"jon"}, err: failure, wantErr: failure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			many, err := multiSelected(options, tt.picked, tt.interrupted, tt.err)
			var one string
			if len(tt.picked) > 0 {
				one = tt.picked[0]
			}
			single, singleErr := selected(one, tt.interrupted, tt.err)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, errors.Is(singleErr, tt.wantErr))
				if tt.wantErr == failure {
					assert.False(t, domain.IsQuiet(err))
					assert.False(t, domain.IsQuiet(singleErr))
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, singleErr)
			assert.Equal(t, tt.want, many)
			assert.Equal(t, tt.picked[0], single)
		})
	}
}
