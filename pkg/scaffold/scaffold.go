// Package scaffold orchestrates test and mock generation: it analyzes a
// source, places the target file, builds its content and writes it.
package scaffold

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/location"
	"github.com/specvital/scaffold/pkg/manifest"
	"github.com/specvital/scaffold/pkg/parser"
	"github.com/specvital/scaffold/pkg/prompt"
	"github.com/specvital/scaffold/pkg/resolver"
	"github.com/specvital/scaffold/pkg/source"
)

// Result describes one generation request.
type Result struct {
	// Source is the analyzed source file.
	Source string `json:"source" yaml:"source"`
	// Target is the test or mock file, or the source opened for a test file.
	Target string `json:"target" yaml:"target"`
	// Outcome is what happened to Target.
	Outcome domain.Outcome `json:"outcome" yaml:"outcome"`
	// Exports lists the declarations the generated content covers.
	Exports []string `json:"exports,omitempty" yaml:"exports,omitempty"`
}

// Scaffolder runs generation requests against one workspace. Each request
// reads a fresh manifest and owns its resolution state.
type Scaffolder struct {
	cfg       config.Config
	src       source.Source
	chooser   prompt.Chooser
	opener    prompt.Opener
	manifests *manifest.Reader
	types     *resolver.Resolver
	locations *location.Resolver
	targets   targetLocks
	logger    *slog.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithChooser sets the chooser for export, type and source selection.
func WithChooser(c prompt.Chooser) Option {
	return func(s *Scaffolder) { s.chooser = c }
}

// WithOpener sets how finished files are shown.
func WithOpener(o prompt.Opener) Option {
	return func(s *Scaffolder) { s.opener = o }
}

// WithLogger sets the logger passed to every collaborator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scaffolder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithManifestReader replaces the package.json reader.
func WithManifestReader(r *manifest.Reader) Option {
	return func(s *Scaffolder) { s.manifests = r }
}

// New validates cfg and wires the collaborators.
func New(cfg config.Config, src source.Source, opts ...Option) (*Scaffolder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scaffolder{
		cfg:     cfg,
		src:     src,
		chooser: prompt.NewScripted(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.manifests == nil {
		s.manifests = manifest.NewReader(src, manifest.WithLogger(s.logger))
	}
	s.types = resolver.New(src, resolver.WithLogger(s.logger))

	locations, err := location.NewResolver(cfg.Layout(src.Root()), src,
		location.WithChooser(s.chooser),
		location.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.locations = locations
	return s, nil
}

// Config returns the snapshot the scaffolder was built with.
func (s *Scaffolder) Config() config.Config {
	return s.cfg
}

func (s *Scaffolder) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.src.Root(), path)
}

// checkInput rejects paths that are not existing source files.
func (s *Scaffolder) checkInput(path string) error {
	if path == "" {
		return errors.Mark(errors.New("no file given"), domain.ErrValidation)
	}
	if !domain.IsSourceFile(path) {
		return errors.WithHint(
			errors.Mark(errors.Newf("%s is not a TypeScript or JavaScript file", path), domain.ErrValidation),
			"supported extensions: .ts .tsx .js .jsx .mts .cts",
		)
	}
	if !s.src.Exists(path) {
		return errors.Mark(errors.Newf("%s does not exist", path), domain.ErrValidation)
	}
	return nil
}

func (s *Scaffolder) open(ctx context.Context, path string) error {
	if s.opener == nil {
		return nil
	}
	return s.opener.Open(ctx, path)
}

func (s *Scaffolder) parse(ctx context.Context, path string) (*parser.File, error) {
	text, err := s.src.GetText(ctx, path)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(ctx, path, []byte(text))
}

// Analyze parses path and returns its model.
func (s *Scaffolder) Analyze(ctx context.Context, path string) (*domain.SourceModel, error) {
	path = s.abs(path)
	if err := s.checkInput(path); err != nil {
		return nil, err
	}
	file, err := s.parse(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if file.HasSyntaxErrors {
		s.logger.Warn("source has syntax errors", "path", path)
	}
	return file.Model, nil
}

// Capabilities returns the project capabilities for path with configured
// overrides applied.
func (s *Scaffolder) Capabilities(ctx context.Context, path string) (domain.ProjectCapabilities, error) {
	caps, err := s.manifests.Capabilities(ctx, s.abs(path))
	if err != nil {
		return domain.ProjectCapabilities{}, err
	}
	return s.cfg.ApplyCapabilities(caps), nil
}

// ResolveType resolves typeName declared in path.
func (s *Scaffolder) ResolveType(ctx context.Context, path, typeName string) (*domain.ResolvedTypeShape, error) {
	return s.types.ResolveType(ctx, s.abs(path), typeName)
}

func (s *Scaffolder) cancelled(source, target string) Result {
	s.logger.Debug("request cancelled by user", "source", source)
	return Result{Source: source, Target: target, Outcome: domain.OutcomeCancelled}
}
