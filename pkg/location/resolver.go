package location

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/naming"
	"github.com/specvital/scaffold/pkg/source"
)

// Workspace is the filesystem view needed to place test files.
type Workspace interface {
	source.DirectoryOps
	Exists(path string) bool
}

// Chooser picks one of several candidate paths.
type Chooser interface {
	PickOne(ctx context.Context, options []string, prompt string) (string, error)
}

// Resolver applies a Layout to a workspace.
type Resolver struct {
	layout  Layout
	ws      Workspace
	chooser Chooser
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithChooser sets the chooser used when a flat-layout test matches several sources.
func WithChooser(c Chooser) Option {
	return func(r *Resolver) {
		r.chooser = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver validates the layout policy and returns a resolver.
func NewResolver(layout Layout, ws Workspace, opts ...Option) (*Resolver, error) {
	if _, err := domain.ParseTestLocation(string(layout.Policy)); err != nil {
		return nil, err
	}

	r := &Resolver{
		layout: layout.withDefaults(),
		ws:     ws,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Layout returns the layout the resolver applies.
func (r *Resolver) Layout() Layout {
	return r.layout
}

// ResolveTestPath computes the test file for sourcePath and creates its
// directory when missing.
func (r *Resolver) ResolveTestPath(ctx context.Context, sourcePath string) (domain.TargetFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.TargetFile{}, err
	}

	path, err := r.layout.TestPath(sourcePath)
	if err != nil {
		return domain.TargetFile{}, err
	}

	if err := r.ws.EnsureDir(filepath.Dir(path)); err != nil {
		return domain.TargetFile{}, err
	}

	target := domain.TargetFile{Path: path, Exists: r.ws.Exists(path)}
	r.logger.Debug("resolved test path", "source", sourcePath, "test", path, "exists", target.Exists, "policy", string(r.layout.Policy))
	return target, nil
}

// ResolveSourcePath maps a test file back to its source.
//
// For RootTestFolderFlat the workspace is searched for the base name: no
// match is a validation error, one match is selected, several are offered to
// the chooser.
func (r *Resolver) ResolveSourcePath(ctx context.Context, testPath string) (domain.TargetFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.TargetFile{}, err
	}

	if r.layout.Policy != domain.RootTestFolderFlat {
		path, err := r.layout.SourcePath(testPath)
		if err != nil {
			return domain.TargetFile{}, err
		}
		return domain.TargetFile{Path: path, Exists: r.ws.Exists(path)}, nil
	}

	path, err := r.searchSource(ctx, testPath)
	if err != nil {
		return domain.TargetFile{}, err
	}
	return domain.TargetFile{Path: path, Exists: true}, nil
}

func (r *Resolver) searchSource(ctx context.Context, testPath string) (string, error) {
	if !naming.IsTestFile(testPath) {
		return "", errors.Mark(errors.Newf("%s is not a test file", testPath), domain.ErrValidation)
	}

	name := naming.StripTestMarker(filepath.Base(testPath))
	files, err := r.ws.ListFiles(ctx, "**/"+escapeGlob(name))
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, f := range files {
		if filepath.Base(f) == name && !naming.IsTestFile(f) {
			candidates = append(candidates, f)
		}
	}

	switch len(candidates) {
	case 0:
		return "", errors.WithHintf(
			errors.Mark(errors.Newf("no source file named %s in %s", name, r.layout.Root), domain.ErrValidation),
			"the %q layout finds sources by file name", r.layout.Policy,
		)
	case 1:
		return candidates[0], nil
	}

	if r.chooser == nil {
		return "", errors.Mark(errors.Newf("%d source files named %s and no chooser", len(candidates), name), domain.ErrValidation)
	}

	display := make([]string, len(candidates))
	byDisplay := make(map[string]string, len(candidates))
	for i, c := range candidates {
		rel, err := filepath.Rel(r.layout.Root, c)
		if err != nil {
			rel = c
		}
		rel = filepath.ToSlash(rel)
		display[i] = rel
		byDisplay[rel] = c
	}

	picked, err := r.chooser.PickOne(ctx, display, "Select the source file for "+filepath.Base(testPath))
	if err != nil {
		return "", err
	}
	path, ok := byDisplay[picked]
	if !ok {
		return "", errors.Mark(errors.Newf("unknown selection %q", picked), domain.ErrValidation)
	}
	return path, nil
}

// ResolveTestPath computes the test path for a source file without touching the filesystem.
func ResolveTestPath(sourcePath, root string, policy domain.TestLocation, testDirectoryName string) (string, error) {
	layout := NewLayout(root, policy)
	layout.TestDirectoryName = testDirectoryName
	return layout.TestPath(sourcePath)
}

var globMeta = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
	`{`, `\{`,
	`}`, `\}`,
)

// escapeGlob makes name match itself literally in a doublestar pattern.
func escapeGlob(name string) string {
	return globMeta.Replace(name)
}
