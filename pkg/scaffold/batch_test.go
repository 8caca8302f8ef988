package scaffold_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/scaffold"
	"github.com/specvital/scaffold/pkg/source"
)

func westerosWorkspace() *source.MemorySource {
	return source.NewMemorySource("/ws", map[string]string{
		"package.json":                   jestManifest,
		"src/westeros.ts":                "export function jon() {}\n",
		"src/houses.ts":                  "export const stark = 1\nexport const lannister = 2\n",
		"src/quiet.ts":                   "const hidden = 1\n",
		"src/types.d.ts":                 "export type DateString = string\n",
		"src/north/winterfell.tsx":       "export function Winterfell() { return <div /> }\n",
		"src/__tests__/westeros.test.ts": "",
		"src/__mocks__/jon.mock.ts":      "export const mockJon = {}\n",
		"node_modules/dragon/index.ts":   "export const fire = 1\n",
		"dist/westeros.js":               "export function jon() {}\n",
	})
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		exclude []string
		want    []string
	}{
		{
			name: "workspace root",
			args: []string{"."},
			want: []string{
				"/ws/src/houses.ts",
				"/ws/src/north/winterfell.tsx",
				"/ws/src/quiet.ts",
				"/ws/src/westeros.ts",
			},
		},
		{
			name: "directory",
			args: []string{"src/north"},
			want: []string{"/ws/src/north/winterfell.tsx"},
		},
		{
			name: "glob",
			args: []string{"src/*.ts"},
			want: []string{"/ws/src/houses.ts", "/ws/src/quiet.ts", "/ws/src/westeros.ts"},
		},
		{
			name: "files deduplicated",
			args: []string{"src/westeros.ts", "/ws/src/westeros.ts", "src/__tests__/westeros.test.ts"},
			want: []string{"/ws/src/westeros.ts"},
		},
		{
			name:    "exclude",
			args:    []string{"src"},
			exclude: []string{"**/quiet.ts", "src/north/**"},
			want:    []string{"/ws/src/houses.ts", "/ws/src/westeros.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newScaffolder(t, westerosWorkspace(), domain.SameDirectoryNested, nil)

			got, errs := s.Discover(context.Background(), tt.args, scaffold.WithExcludePatterns(tt.exclude))
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	s, _ := newScaffolder(t, westerosWorkspace(), domain.SameDirectoryNested, nil)

	got, errs := s.Discover(context.Background(), []string{"src/missing.ts", "../elsewhere"})
	assert.Empty(t, got)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, "discovery", e.Phase)
		assert.True(t, errors.Is(e, domain.ErrValidation))
	}
}

func TestCreateTests(t *testing.T) {
	src := westerosWorkspace()
	s, opener := newScaffolder(t, src, domain.SameDirectoryNested, nil)
	ctx := context.Background()

	files, errs := s.Discover(ctx, []string{"."})
	require.Empty(t, errs)

	res, err := s.CreateTests(ctx, files, scaffold.WithWorkers(2))
	require.NoError(t, err)

	assert.Equal(t, scaffold.BatchStats{
		Discovered: 4,
		Created:    2,
		Existing:   1,
		Skipped:    1,
		Duration:   res.Stats.Duration,
	}, res.Stats)
	assert.Empty(t, res.Errors)
	assert.Empty(t, opener.opened)

	require.Len(t, res.Results, 4)
	assert.Equal(t, "/ws/src/houses.ts", res.Results[0].Source)
	assert.Equal(t, []string{"stark", "lannister"}, res.Results[0].Exports)

	houses, ok := src.File("src/__tests__/houses.test.ts")
	require.True(t, ok)
	assert.Contains(t, houses, `import { stark, lannister } from "../houses"`)

	_, ok = src.File("src/north/__tests__/winterfell.test.tsx")
	assert.True(t, ok)
}

func TestCreateTests_CollectsFailures(t *testing.T) {
	src := westerosWorkspace()
	s, _ := newScaffolder(t, src, domain.RootTestFolderNested, nil)

	res, err := s.CreateTests(context.Background(), []string{"/ws/src/westeros.ts", "/ws/lib/outside.ts"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Created)
	assert.Equal(t, 1, res.Stats.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/ws/lib/outside.ts", res.Errors[0].Path)
	assert.Equal(t, "generate", res.Errors[0].Phase)
}

func TestCreateTests_Cancelled(t *testing.T) {
	s, _ := newScaffolder(t, westerosWorkspace(), domain.SameDirectory, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateTests(ctx, []string{"/ws/src/westeros.ts"}, scaffold.WithTimeout(time.Minute))
	assert.ErrorIs(t, err, scaffold.ErrBatchCancelled)
}

func TestBatchError(t *testing.T) {
	err := scaffold.BatchError{Err: errors.New("boom"), Path: "/ws/a.ts", Phase: "generate"}
	assert.Equal(t, "[generate] /ws/a.ts: boom", err.Error())

	err.Path = ""
	assert.Equal(t, "[generate] boom", err.Error())
}

func TestCreateTests_SharedTargetWrittenOnce(t *testing.T) {
	files := map[string]string{"package.json": jestManifest}
	var paths []string
	for i := 0; i < 16; i++ {
		path := fmt.Sprintf("src/m%d/westeros.ts", i)
		files[path] = "export function jon() {}\n"
		paths = append(paths, "/ws/"+path)
	}
	src := source.NewMemorySource("/ws", files)
	s, _ := newScaffolder(t, src, domain.RootTestFolderFlat, nil)

	for run := 0; run < 5; run++ {
		res, err := s.CreateTests(context.Background(), paths, scaffold.WithWorkers(8))
		require.NoError(t, err)
		require.Empty(t, res.Errors)

		if run == 0 {
			assert.Equal(t, 1, res.Stats.Created)
			assert.Equal(t, 15, res.Stats.Existing)
		} else {
			assert.Equal(t, 16, res.Stats.Existing)
		}
	}
	assert.Equal(t, []string{"/ws/test/westeros.test.ts"}, src.Writes())
}
