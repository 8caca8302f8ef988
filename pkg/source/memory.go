package source

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
)

// MemorySource is an in-memory Source for tests and dry runs.
type MemorySource struct {
	root string

	mu     sync.RWMutex
	files  map[string]string
	dirs   map[string]struct{}
	writes []string
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource returns an empty workspace rooted at root. Keys of files
// may be relative to root.
func NewMemorySource(root string, files map[string]string) *MemorySource {
	m := &MemorySource{
		root:  filepath.Clean(root),
		files: make(map[string]string, len(files)),
		dirs:  map[string]struct{}{filepath.Clean(root): {}},
	}
	for path, content := range files {
		abs := m.abs(path)
		m.files[abs] = content
		m.addParents(abs)
	}
	return m
}

func (m *MemorySource) Root() string {
	return m.root
}

func (m *MemorySource) abs(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.root, path)
}

func (m *MemorySource) addParents(path string) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = struct{}{}
		if dir == filepath.Dir(dir) || dir == m.root {
			return
		}
	}
}

func (m *MemorySource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	text, err := m.GetText(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(text)), nil
}

func (m *MemorySource) GetText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	text, ok := m.files[m.abs(path)]
	if !ok {
		return "", errors.Wrapf(os.ErrNotExist, "read %s", path)
	}
	return text, nil
}

func (m *MemorySource) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	abs := m.abs(path)
	if _, ok := m.files[abs]; ok {
		return true
	}
	_, ok := m.dirs[abs]
	return ok
}

func (m *MemorySource) EnsureDir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs := m.abs(path)
	if _, ok := m.files[abs]; ok {
		return errors.Mark(errors.Newf("path is not a directory: %s", abs), domain.ErrValidation)
	}
	m.dirs[abs] = struct{}{}
	m.addParents(abs)
	return nil
}

func (m *MemorySource) ListFiles(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "glob %q", pattern)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for path := range m.files {
		rel, err := filepath.Rel(m.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isVendored(rel) {
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemorySource) WriteFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs := m.abs(path)
	if err := m.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[abs] = content
	m.writes = append(m.writes, abs)
	return nil
}

func (m *MemorySource) CreateFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs := m.abs(path)
	if err := m.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[abs]; ok {
		return errors.Wrapf(fs.ErrExist, "create %s", abs)
	}
	m.files[abs] = content
	m.writes = append(m.writes, abs)
	return nil
}

func (m *MemorySource) AppendFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs := m.abs(path)
	if err := m.EnsureDir(filepath.Dir(abs)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[abs] += content
	m.writes = append(m.writes, abs)
	return nil
}

// Writes returns every path written or appended to, in call order.
func (m *MemorySource) Writes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.writes...)
}

// File returns the content stored at path.
func (m *MemorySource) File(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.files[m.abs(path)]
	return text, ok
}

func isVendored(rel string) bool {
	rel = filepath.ToSlash(rel)
	return rel == "node_modules" || strings.HasPrefix(rel, "node_modules/") || strings.Contains(rel, "/node_modules/")
}
