package scaffold_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/scaffold"
	"github.com/specvital/scaffold/pkg/source"
)

func TestWatch_CreatesTestForNewSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(jestManifest), 0o644))

	src, err := source.NewLocalSource(root)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.TestLocation = domain.SameDirectoryNested
	s, err := scaffold.New(cfg, src)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var results []scaffold.Result
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, []string{"."}, func(res scaffold.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				results = append(results, res)
			}
		}, scaffold.WithDebounce(20*time.Millisecond))
	}()

	// Give the watcher time to register the tree.
	time.Sleep(100 * time.Millisecond)

	north := filepath.Join(root, "src", "north")
	require.NoError(t, os.MkdirAll(north, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(north, "winterfell.ts"), []byte("export const stark = 1\n"), 0o644))

	target := filepath.Join(north, "__tests__", "winterfell.test.ts")
	require.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), `import { stark } from "../winterfell"`)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, results)
	assert.Equal(t, domain.OutcomeCreated, results[0].Outcome)
}
