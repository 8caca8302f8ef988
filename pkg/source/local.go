package source

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// LocalSource is a Source backed by the local filesystem.
// Relative paths are resolved against the workspace root.
type LocalSource struct {
	root string
}

var _ Source = (*LocalSource)(nil)

// NewLocalSource returns a source rooted at root.
func NewLocalSource(root string) (*LocalSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve workspace root %s", root)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "workspace root %s", abs), domain.ErrValidation)
	}
	if !info.IsDir() {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("workspace root %s is not a directory", abs), domain.ErrValidation),
			"pass the project directory with --root",
		)
	}

	return &LocalSource{root: abs}, nil
}

func (s *LocalSource) Root() string {
	return s.root
}

func (s *LocalSource) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.root, path)
}

func (s *LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.abs(path))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

func (s *LocalSource) GetText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := os.ReadFile(s.abs(path))
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(content), nil
}

func (s *LocalSource) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}

func (s *LocalSource) EnsureDir(path string) error {
	abs := s.abs(path)

	info, err := os.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return errors.Mark(errors.Newf("path is not a directory: %s", abs), domain.ErrValidation)
	case !os.IsNotExist(err):
		return errors.Wrapf(err, "stat %s", abs)
	}

	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return errors.Wrapf(err, "create directory %s", abs)
	}
	return nil
}

// ListFiles globs below the workspace root and returns absolute paths.
// Files inside node_modules are never returned.
func (s *LocalSource) ListFiles(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(s.root), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.Wrapf(err, "glob %q", pattern)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if isVendored(m) {
			continue
		}
		files = append(files, filepath.Join(s.root, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

func (s *LocalSource) WriteFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := s.abs(path)
	if err := s.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}
	if err := os.WriteFile(abs, []byte(content), filePerm); err != nil {
		return errors.Wrapf(err, "write %s", abs)
	}
	return nil
}

func (s *LocalSource) CreateFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := s.abs(path)
	if err := s.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if os.IsExist(err) {
		return errors.Wrapf(fs.ErrExist, "create %s", abs)
	}
	if err != nil {
		return errors.Wrapf(err, "create %s", abs)
	}

	_, werr := f.WriteString(content)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return errors.Wrapf(werr, "write %s", abs)
	}
	return nil
}

func (s *LocalSource) AppendFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := s.abs(path)
	if err := s.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}

	f, err := os.OpenFile(abs, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return errors.Wrapf(err, "open %s for append", abs)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(content); err != nil {
		return errors.Wrapf(err, "append %s", abs)
	}
	return nil
}
