package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
)

func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the root command from the workspace root.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	return runFrom(t, root, root, args...)
}

func runFrom(t *testing.T, dir, root string, args ...string) (string, error) {
	t.Helper()

	t.Chdir(dir)
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{
		"--root", root,
		"--no-open",
		"--log-file", filepath.Join(t.TempDir(), "scaffold.log"),
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

var westeros = map[string]string{
	"package.json":    `{"devDependencies": {"jest": "^29.7.0"}}`,
	"src/westeros.ts": "export function jon() {}\n",
	"src/jon.ts": `export type Jon = {
  name: string
  alive: boolean
}
`,
}

func TestTestCmd(t *testing.T) {
	root := writeWorkspace(t, westeros)

	out, err := run(t, root, "test", "src/westeros.ts")
	require.NoError(t, err)

	target := filepath.Join(root, "src", "westeros.test.ts")
	assert.Contains(t, out, "created "+target)
	assert.Contains(t, readFile(t, target), `import { jon } from "./westeros"`)

	out, err = run(t, root, "test", "src/westeros.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestTestCmd_TestLocationFlag(t *testing.T) {
	root := writeWorkspace(t, westeros)

	_, err := run(t, root, "--test-location", string(domain.SameDirectoryNested), "test", "src/westeros.ts")
	require.NoError(t, err)

	got := readFile(t, filepath.Join(root, "src", "__tests__", "westeros.test.ts"))
	assert.Contains(t, got, `import { jon } from "../westeros"`)
}

func TestTestCmd_ConfigFile(t *testing.T) {
	files := map[string]string{
		config.FileName: "test_location: root test folder (flat)\n",
	}
	for k, v := range westeros {
		files[k] = v
	}
	root := writeWorkspace(t, files)

	_, err := run(t, root, "test", "src/westeros.ts")
	require.NoError(t, err)

	got := readFile(t, filepath.Join(root, "test", "westeros.test.ts"))
	assert.Contains(t, got, `import { jon } from "../src/westeros"`)
}

func TestTestCmd_Errors(t *testing.T) {
	root := writeWorkspace(t, westeros)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"test", "src/missing.ts"}},
		{"unknown location", []string{"--test-location", "beyond the wall", "test", "src/westeros.ts"}},
		{"no args", []string{"test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, root, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestTestCmd_PickCancel(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"src/houses.ts": "export const stark = 1\nexport const tully = 2\n",
	})

	_, err := run(t, root, "--pick", "-", "test", "src/houses.ts")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, "src", "houses.test.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSourceCmd(t *testing.T) {
	files := map[string]string{"src/westeros.test.ts": ""}
	for k, v := range westeros {
		files[k] = v
	}
	root := writeWorkspace(t, files)

	out, err := run(t, root, "source", "src/westeros.test.ts")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "src", "westeros.ts"))
}

func TestMockCmd(t *testing.T) {
	root := writeWorkspace(t, westeros)

	out, err := run(t, root, "mock", "src/jon.ts", "Jon")
	require.NoError(t, err)

	target := filepath.Join(root, "src", "__mocks__", "jon.mock.ts")
	assert.Contains(t, out, "created "+target)
	assert.Equal(t, `import { Jon } from "../jon"

export const mockJon: Jon = {
    name: "string value",
    alive: false,
}
`, readFile(t, target))
}

func TestBatchCmd(t *testing.T) {
	files := map[string]string{
		"src/houses.ts":               "export const stark = 1\n",
		"node_modules/dragon/fire.ts": "export const fire = 1\n",
	}
	for k, v := range westeros {
		files[k] = v
	}
	root := writeWorkspace(t, files)

	out, err := run(t, root, "batch", "--workers", "2", "-x", "**/jon.ts")
	require.NoError(t, err)

	assert.Contains(t, out, "src/houses.ts")
	assert.Contains(t, out, "src/westeros.ts")
	assert.NotContains(t, out, "jon.ts")
	assert.FileExists(t, filepath.Join(root, "src", "houses.test.ts"))
	assert.FileExists(t, filepath.Join(root, "src", "westeros.test.ts"))
	assert.NoFileExists(t, filepath.Join(root, "node_modules", "dragon", "fire.test.ts"))
}

func TestAnalyzeCmd(t *testing.T) {
	root := writeWorkspace(t, westeros)

	t.Run("table", func(t *testing.T) {
		out, err := run(t, root, "analyze", "src/westeros.ts")
		require.NoError(t, err)
		assert.Contains(t, out, "jon")
		assert.Contains(t, out, "runner: jest")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, root, "analyze", "-f", "json", "src/westeros.ts")
		require.NoError(t, err)

		var got analysis
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.NotNil(t, got.Model)
		assert.Equal(t, []string{"jon"}, got.Model.ExportNames())
		assert.True(t, got.Capabilities.Jest)
	})

	t.Run("yaml shape", func(t *testing.T) {
		out, err := run(t, root, "analyze", "-f", "yaml", "--type", "Jon", "src/jon.ts")
		require.NoError(t, err)
		assert.Contains(t, out, "name: Jon")
		assert.Contains(t, out, "kind: boolean")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, root, "analyze", "-f", "xml", "src/westeros.ts")
		require.Error(t, err)
	})
}

func TestInitCmd(t *testing.T) {
	root := writeWorkspace(t, nil)

	_, err := run(t, root, "--test-location", string(domain.RootTestFolderNested), "init")
	require.NoError(t, err)

	target := filepath.Join(root, config.FileName)
	assert.Contains(t, readFile(t, target), "test_location: root test folder (nested)")

	_, err = run(t, root, "init")
	require.Error(t, err)

	_, err = run(t, root, "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, target), "test_location: root test folder (nested)")
}

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	if bytes.Contains(out.Bytes(), []byte("version: unknown")) {
		return
	}
	assert.Contains(t, out.String(), "tool version")
	assert.Contains(t, out.String(), "go version")
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARNING ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelInfo))
		})
	}
}

func TestBindFlags_SharedKey(t *testing.T) {
	cmd := NewRootCmd()
	watch, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)
	batch, _, err := cmd.Find([]string{"batch"})
	require.NoError(t, err)

	for _, c := range []*cobra.Command{watch, batch} {
		flag := c.Flags().Lookup(excludeFlagName)
		require.NotNil(t, flag)
		assert.Equal(t, []string{config.KeyBatchExclude}, flag.Annotations[configKeyAnnotation])
	}
}

func TestPathsFromSubdirectory(t *testing.T) {
	root := writeWorkspace(t, westeros)
	require.NoError(t, os.WriteFile(filepath.Join(root, "westeros.ts"), []byte("export const decoy = 1\n"), 0o644))
	srcDir := filepath.Join(root, "src")

	_, err := runFrom(t, srcDir, root, "test", "westeros.ts")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(srcDir, "westeros.test.ts"))
	assert.NoFileExists(t, filepath.Join(root, "westeros.test.ts"))

	out, err := runFrom(t, srcDir, root, "analyze", "-f", "json", "westeros.ts")
	require.NoError(t, err)
	assert.NotContains(t, out, "decoy")

	_, err = runFrom(t, srcDir, root, "mock", "jon.ts", "Jon")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(srcDir, "__mocks__", "jon.mock.ts"))
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := paths([]string{"westeros.ts", "/abs/jon.ts", "src/**/*.ts", "../north"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "westeros.ts"),
		"/abs/jon.ts",
		"src/**/*.ts",
		filepath.Join(filepath.Dir(dir), "north"),
	}, got)
}
