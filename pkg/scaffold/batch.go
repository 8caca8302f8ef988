package scaffold

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/naming"
)

var (
	// ErrBatchTimeout is returned when the batch exceeds its timeout.
	ErrBatchTimeout = errors.New("scaffold: batch timed out")
	// ErrBatchCancelled is returned when the caller's context is cancelled.
	ErrBatchCancelled = errors.New("scaffold: batch cancelled")
)

// BatchError records a file that failed during batch generation.
type BatchError struct {
	Err   error  `json:"-" yaml:"-"`
	Path  string `json:"path" yaml:"path"`
	Phase string `json:"phase" yaml:"phase"`
}

func (e BatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

func (e BatchError) Unwrap() error {
	return e.Err
}

// BatchStats counts batch outcomes.
type BatchStats struct {
	Created    int           `json:"created" yaml:"created"`
	Discovered int           `json:"discovered" yaml:"discovered"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Existing   int           `json:"existing" yaml:"existing"`
	Failed     int           `json:"failed" yaml:"failed"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
}

// BatchResult is the outcome of CreateTests.
type BatchResult struct {
	Errors  []BatchError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Results []Result     `json:"results" yaml:"results"`
	Stats   BatchStats   `json:"stats" yaml:"stats"`
}

// Discover expands args into source files. An arg is a source file, a
// doublestar pattern relative to the workspace root, or a directory whose
// TypeScript and JavaScript files are collected. Test files, declaration
// files and excluded paths are dropped.
func (s *Scaffolder) Discover(ctx context.Context, args []string, opts ...BatchOption) ([]string, []BatchError) {
	options := s.batchOptions(opts)

	seen := make(map[string]struct{})
	var files []string
	var errs []BatchError

	add := func(path string) {
		if !s.batchCandidate(path, options.ExcludePatterns) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			errs = append(errs, BatchError{Err: err, Phase: "discovery"})
			break
		}

		pattern := filepath.ToSlash(arg)
		switch {
		case IsPattern(pattern):
		case domain.IsSourceFile(arg):
			path := s.abs(arg)
			if !s.src.Exists(path) {
				errs = append(errs, BatchError{
					Err:   errors.Mark(errors.New("file does not exist"), domain.ErrValidation),
					Path:  path,
					Phase: "discovery",
				})
				continue
			}
			add(path)
			continue
		default:
			rel, err := filepath.Rel(s.src.Root(), s.abs(arg))
			if err != nil || strings.HasPrefix(rel, "..") {
				errs = append(errs, BatchError{
					Err:   errors.Mark(errors.Newf("%s is outside the workspace", arg), domain.ErrValidation),
					Path:  arg,
					Phase: "discovery",
				})
				continue
			}
			pattern = "**/*.{ts,tsx,js,jsx,mts,cts}"
			if rel != "." {
				pattern = filepath.ToSlash(rel) + "/" + pattern
			}
		}

		matches, err := s.src.ListFiles(ctx, pattern)
		if err != nil {
			errs = append(errs, BatchError{Err: err, Path: arg, Phase: "discovery"})
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, errs
}

// IsPattern reports whether arg is a doublestar pattern rather than a path.
func IsPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func (s *Scaffolder) batchCandidate(path string, exclude []string) bool {
	if !domain.IsSourceFile(path) || naming.IsTestFile(path) || strings.HasSuffix(path, ".d.ts") {
		return false
	}

	rel, err := filepath.Rel(s.src.Root(), path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, part := range strings.Split(rel, "/") {
		for _, skip := range DefaultSkipPatterns {
			if part == skip {
				return false
			}
		}
	}
	for _, dir := range []string{s.cfg.TestDirectoryName, s.cfg.MockDirectoryName} {
		if dir != "" && strings.Contains("/"+rel, "/"+dir+"/") {
			return false
		}
	}

	for _, p := range exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	return true
}

func (s *Scaffolder) batchOptions(opts []BatchOption) BatchOptions {
	options := BatchOptions{
		Debounce:        DefaultDebounce,
		ExcludePatterns: append([]string(nil), s.cfg.Batch.Exclude...),
		Timeout:         s.cfg.Batch.Timeout,
		Workers:         s.cfg.Batch.Workers,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}
	if options.Workers <= 0 {
		options.Workers = runtime.GOMAXPROCS(0)
	}
	return options
}

// CreateTests generates tests for every file in paths without prompting.
// Each file covers all of its exports and nothing is opened. Per-file
// failures are collected in the result; only a timeout or cancellation of
// the whole batch is returned as an error.
func (s *Scaffolder) CreateTests(ctx context.Context, paths []string, opts ...BatchOption) (*BatchResult, error) {
	start := time.Now()
	options := s.batchOptions(opts)

	ctx, cancel := context.WithTimeout(ctx, options.Timeout)
	defer cancel()

	sem := semaphore.NewWeighted(int64(options.Workers))
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := &BatchResult{Stats: BatchStats{Discovered: len(paths)}}

	for _, path := range paths {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			res, err := s.createTest(gctx, s.abs(path), false)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.Errors = append(out.Errors, BatchError{Err: err, Path: path, Phase: "generate"})
				out.Stats.Failed++
				return nil
			}
			out.Results = append(out.Results, res)
			switch res.Outcome {
			case domain.OutcomeCreated:
				out.Stats.Created++
			case domain.OutcomeExisting:
				out.Stats.Existing++
			default:
				out.Stats.Skipped++
			}
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(out.Results, func(i, j int) bool { return out.Results[i].Source < out.Results[j].Source })
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Path < out.Errors[j].Path })
	out.Stats.Duration = time.Since(start)

	s.logger.Info("batch finished",
		"discovered", out.Stats.Discovered,
		"created", out.Stats.Created,
		"existing", out.Stats.Existing,
		"skipped", out.Stats.Skipped,
		"failed", out.Stats.Failed,
		"duration", out.Stats.Duration,
	)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return out, errors.Wrapf(ErrBatchTimeout, "after %s", options.Timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return out, ErrBatchCancelled
	}
	return out, nil
}
