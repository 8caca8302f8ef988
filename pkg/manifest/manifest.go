// Package manifest reads the nearest package.json and derives the project's
// testing and UI capabilities from its dependencies.
package manifest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/source"
)

const (
	// FileName is the manifest looked up from a source file's directory.
	FileName = "package.json"

	pkgI18next                  = "i18next"
	pkgJest                     = "jest"
	pkgMocha                    = "mocha"
	pkgReact                    = "react"
	pkgReactScripts             = "react-scripts"
	pkgTestingLibraryReact      = "@testing-library/react"
	pkgTestingLibraryReactHooks = "@testing-library/react-hooks"
	pkgVitest                   = "vitest"
)

// renderHook moved into @testing-library/react with 13.1.
var renderHookSince = semver.MustParse("13.1.0")

var monorepoIndicators = []string{"pnpm-workspace.yaml", "lerna.json", "rush.json", "nx.json"}

// Dependencies maps package names to version ranges.
type Dependencies map[string]string

// Has reports whether name is declared with a non-empty version.
func (d Dependencies) Has(name string) bool {
	return d[name] != ""
}

// Capabilities derives capability flags. react-scripts bundles both React
// and Jest.
func (d Dependencies) Capabilities() domain.ProjectCapabilities {
	caps := domain.ProjectCapabilities{
		I18next:                  d.Has(pkgI18next),
		Jest:                     d.Has(pkgJest) || d.Has(pkgReactScripts),
		Mocha:                    d.Has(pkgMocha),
		React:                    d.Has(pkgReact) || d.Has(pkgReactScripts),
		TestingLibraryReact:      d.Has(pkgTestingLibraryReact),
		TestingLibraryReactHooks: d.Has(pkgTestingLibraryReactHooks),
		Vitest:                   d.Has(pkgVitest),
	}
	if caps.TestingLibraryReact {
		caps.RenderHook = shipsRenderHook(d[pkgTestingLibraryReact])
	}
	return caps
}

// shipsRenderHook reports whether a version range admits 13.1 or resolves
// to a release at or above it.
func shipsRenderHook(rng string) bool {
	rng = strings.TrimSpace(rng)
	switch rng {
	case "":
		return false
	case "latest", "next", "*", "x":
		return true
	}

	if c, err := semver.NewConstraint(rng); err == nil && c.Check(renderHookSince) {
		return true
	}

	// A range whose lower bound is past 13.1, e.g. ^14.2.0, never admits
	// 13.1 itself.
	for _, alt := range strings.Split(rng, "||") {
		fields := strings.Fields(alt)
		if len(fields) == 0 {
			continue
		}
		lower := strings.TrimLeft(fields[0], "^~>=v")
		if v, err := semver.NewVersion(lower); err == nil && !v.LessThan(renderHookSince) {
			return true
		}
	}
	return false
}

// Parse reads devDependencies and dependencies; dependencies win on conflict.
func Parse(content []byte) (Dependencies, error) {
	deps := make(Dependencies)
	for _, key := range []string{"devDependencies", "dependencies"} {
		err := jsonparser.ObjectEach(content, func(name, value []byte, dataType jsonparser.ValueType, _ int) error {
			if dataType == jsonparser.String {
				deps[string(name)] = string(value)
			}
			return nil
		}, key)
		if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, errors.Wrapf(err, "read %s", key)
		}
	}

	// ObjectEach tolerates trailing garbage after a missing key; make sure the
	// document itself is an object.
	if _, dataType, _, err := jsonparser.Get(content); err != nil || dataType != jsonparser.Object {
		return nil, errors.Newf("manifest is not a JSON object")
	}
	return deps, nil
}

// Reader locates and parses manifests.
type Reader struct {
	src      source.TextSource
	cache    *Cache
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

func WithCache(c *Cache) Option {
	return func(r *Reader) { r.cache = c }
}

// WithMaxDepth limits how many directories the lookup climbs. By default it
// climbs to the filesystem root.
func WithMaxDepth(depth int) Option {
	return func(r *Reader) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewReader(src source.TextSource, opts ...Option) *Reader {
	r := &Reader{
		src:    src,
		cache:  NewCache(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Nearest returns the closest package.json at or above the directory of path.
func (r *Reader) Nearest(path string) (string, bool) {
	return r.nearestFrom(filepath.Dir(filepath.Clean(path)))
}

func (r *Reader) nearestFrom(dir string) (string, bool) {
	var visited []string

	for depth := 0; r.maxDepth == 0 || depth < r.maxDepth; depth++ {
		if r.cache != nil {
			if cached, ok := r.cache.Get(dir); ok {
				return cached, cached != ""
			}
		}
		visited = append(visited, dir)

		candidate := filepath.Join(dir, FileName)
		if r.src.Exists(candidate) {
			if r.cache != nil {
				for _, v := range visited {
					r.cache.Set(v, candidate)
				}
			}
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if r.cache != nil {
		for _, v := range visited {
			r.cache.Set(v, "")
		}
	}
	return "", false
}

// Invalidate forgets every cached lookup. Call it when a manifest appears or
// disappears.
func (r *Reader) Invalidate() {
	if r.cache != nil {
		r.cache.Clear()
	}
}

// Capabilities reads the manifest nearest to path. A missing manifest yields
// all-false capabilities. Inside a monorepo package the workspace root
// manifest is merged underneath, since dependencies are commonly hoisted.
func (r *Reader) Capabilities(ctx context.Context, path string) (domain.ProjectCapabilities, error) {
	manifestPath, ok := r.Nearest(path)
	if !ok {
		r.logger.Debug("no package manifest", "from", path)
		return domain.ProjectCapabilities{}, nil
	}

	deps, content, err := r.read(ctx, manifestPath)
	if err != nil {
		return domain.ProjectCapabilities{}, err
	}

	if !isWorkspaceRoot(r.src, filepath.Dir(manifestPath), content) {
		if rootPath, ok := r.workspaceRoot(ctx, filepath.Dir(manifestPath)); ok {
			rootDeps, _, err := r.read(ctx, rootPath)
			if err != nil {
				return domain.ProjectCapabilities{}, err
			}
			for name, version := range deps {
				rootDeps[name] = version
			}
			deps = rootDeps
		}
	}

	caps := deps.Capabilities()
	caps.ManifestPath = manifestPath
	return caps, nil
}

func (r *Reader) read(ctx context.Context, path string) (Dependencies, []byte, error) {
	text, err := r.src.GetText(ctx, path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	content := []byte(text)
	deps, err := Parse(content)
	if err != nil {
		return nil, nil, errors.WithHint(errors.Wrapf(err, "parse %s", path), "fix the JSON syntax of the manifest")
	}
	return deps, content, nil
}

// workspaceRoot finds a monorepo root manifest strictly above dir.
func (r *Reader) workspaceRoot(ctx context.Context, dir string) (string, bool) {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		candidate, ok := r.nearestFrom(parent)
		if !ok {
			return "", false
		}
		text, err := r.src.GetText(ctx, candidate)
		if err != nil {
			return "", false
		}
		if isWorkspaceRoot(r.src, filepath.Dir(candidate), []byte(text)) {
			return candidate, true
		}
		dir = filepath.Dir(candidate)
	}
}

func isWorkspaceRoot(src source.TextSource, dir string, manifest []byte) bool {
	for _, indicator := range monorepoIndicators {
		if src.Exists(filepath.Join(dir, indicator)) {
			return true
		}
	}
	_, _, _, err := jsonparser.Get(manifest, "workspaces")
	return err == nil
}
