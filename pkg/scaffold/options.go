package scaffold

import "time"

const (
	DefaultWorkers  = 0
	DefaultTimeout  = 5 * time.Minute
	DefaultDebounce = 300 * time.Millisecond
	MaxWorkers      = 1024
)

// DefaultSkipPatterns are directory names never descended into when a
// directory is given to batch mode.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	".next",
	"coverage",
	".cache",
	"__mocks__",
}

// BatchOptions configures CreateTests.
type BatchOptions struct {
	Debounce        time.Duration
	ExcludePatterns []string
	Timeout         time.Duration
	Workers         int
}

// BatchOption configures batch generation.
type BatchOption func(*BatchOptions)

// WithWorkers sets the number of files processed in parallel.
// Zero means GOMAXPROCS; values above MaxWorkers are capped.
func WithWorkers(n int) BatchOption {
	return func(o *BatchOptions) {
		if n < 0 {
			return
		}
		if n > MaxWorkers {
			n = MaxWorkers
		}
		o.Workers = n
	}
}

// WithTimeout bounds the whole batch. Zero falls back to DefaultTimeout.
func WithTimeout(d time.Duration) BatchOption {
	return func(o *BatchOptions) {
		if d < 0 {
			return
		}
		o.Timeout = d
	}
}

// WithExcludePatterns adds doublestar patterns, matched against
// root-relative slash paths, that drop discovered files.
func WithExcludePatterns(patterns []string) BatchOption {
	return func(o *BatchOptions) {
		o.ExcludePatterns = append(o.ExcludePatterns, patterns...)
	}
}

// WithDebounce sets how long Watch waits after the last change to a file
// before generating its test.
func WithDebounce(d time.Duration) BatchOption {
	return func(o *BatchOptions) {
		if d > 0 {
			o.Debounce = d
		}
	}
}
