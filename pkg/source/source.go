// Package source provides the filesystem collaborators used by the scaffold
// flows: reading text, checking existence, creating directories, globbing the
// workspace and writing files.
package source

import (
	"context"
	"io"
)

// TextSource reads file text.
type TextSource interface {
	GetText(ctx context.Context, path string) (string, error)
	Exists(path string) bool
}

// DirectoryOps creates directories and enumerates workspace files.
type DirectoryOps interface {
	// EnsureDir creates path and its parents. It is idempotent and fails with
	// domain.ErrValidation when path exists but is not a directory.
	EnsureDir(path string) error
	// ListFiles returns workspace files matching a doublestar pattern, in
	// lexical order.
	ListFiles(ctx context.Context, pattern string) ([]string, error)
}

// FileWriter persists generated content.
type FileWriter interface {
	WriteFile(ctx context.Context, path, content string) error
	// CreateFile writes content to a new file. It fails with an error
	// wrapping fs.ErrExist, and leaves the file untouched, when path exists.
	CreateFile(ctx context.Context, path, content string) error
	AppendFile(ctx context.Context, path, content string) error
}

// Source is a workspace rooted at Root.
type Source interface {
	TextSource
	DirectoryOps
	FileWriter

	// Root returns the workspace root directory.
	Root() string
	// Open returns a reader for path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
