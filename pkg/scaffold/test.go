package scaffold

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/generate"
	"github.com/specvital/scaffold/pkg/importpath"
	"github.com/specvital/scaffold/pkg/naming"
)

// CreateTest generates the test file for path.
//
// A test file as input opens its source instead. An existing test file is
// only opened, never overwritten. When the source has several exports the
// chooser decides which ones the test covers. A dismissed prompt yields
// OutcomeCancelled and no error.
func (s *Scaffolder) CreateTest(ctx context.Context, path string) (Result, error) {
	return s.createTest(ctx, s.abs(path), true)
}

func (s *Scaffolder) createTest(ctx context.Context, path string, interactive bool) (Result, error) {
	if err := s.checkInput(path); err != nil {
		return Result{}, err
	}

	if naming.IsTestFile(path) {
		return s.openSource(ctx, path)
	}

	testPath, err := s.locations.Layout().TestPath(path)
	if err != nil {
		return Result{}, err
	}
	unlock := s.targets.lock(testPath)
	defer unlock()

	if s.src.Exists(testPath) {
		return s.existingTest(ctx, path, testPath, interactive)
	}

	file, err := s.parse(ctx, path)
	if err != nil {
		return Result{}, err
	}
	model, lang := file.Model, file.Lang
	file.Close()

	if !model.HasExports() {
		s.logger.Info("nothing exported, no test generated", "source", path)
		return Result{Source: path, Target: testPath, Outcome: domain.OutcomeSkipped}, nil
	}

	exports := model.Exports
	if interactive && len(exports) > 1 {
		picked, err := s.chooser.PickMany(ctx, model.ExportNames(), "Select the exports to test")
		if errors.Is(err, domain.ErrUserCancelled) {
			return s.cancelled(path, testPath), nil
		}
		if err != nil {
			return Result{}, err
		}
		exports = model.FilterExports(picked)
	}

	caps, err := s.Capabilities(ctx, path)
	if err != nil {
		return Result{}, err
	}

	target, err := s.locations.ResolveTestPath(ctx, path)
	if err != nil {
		return Result{}, err
	}

	content := generate.ForLanguage(lang).Generate(generate.TestInput{
		Exports:            exports,
		SourceSpecifier:    importpath.RelativeSpecifier(filepath.Dir(target.Path), path),
		Capabilities:       caps,
		ScreenTestFunction: s.cfg.ScreenTestFunction,
	})
	err = s.src.CreateFile(ctx, target.Path, content)
	if errors.Is(err, fs.ErrExist) {
		return s.existingTest(ctx, path, target.Path, interactive)
	}
	if err != nil {
		return Result{}, err
	}

	names := make([]string, 0, len(exports))
	for _, exp := range exports {
		names = append(names, exp.Name)
	}
	s.logger.Info("created test", "source", path, "test", target.Path, "exports", names)

	return Result{Source: path, Target: target.Path, Outcome: domain.OutcomeCreated, Exports: names},
		s.openIf(ctx, interactive, target.Path)
}

func (s *Scaffolder) existingTest(ctx context.Context, path, testPath string, interactive bool) (Result, error) {
	s.logger.Debug("test file exists", "source", path, "test", testPath)
	return Result{Source: path, Target: testPath, Outcome: domain.OutcomeExisting}, s.openIf(ctx, interactive, testPath)
}

// openSource handles a test file given as input.
func (s *Scaffolder) openSource(ctx context.Context, testPath string) (Result, error) {
	src, err := s.locations.ResolveSourcePath(ctx, testPath)
	if errors.Is(err, domain.ErrUserCancelled) {
		return s.cancelled(testPath, ""), nil
	}
	if err != nil {
		return Result{}, err
	}
	if !src.Exists {
		return Result{}, errors.Mark(errors.Newf("source %s of %s does not exist", src.Path, testPath), domain.ErrValidation)
	}

	return Result{Source: testPath, Target: src.Path, Outcome: domain.OutcomeOpenedSource}, s.open(ctx, src.Path)
}

// OpenSource opens the source of a test file.
func (s *Scaffolder) OpenSource(ctx context.Context, testPath string) (Result, error) {
	testPath = s.abs(testPath)
	if err := s.checkInput(testPath); err != nil {
		return Result{}, err
	}
	return s.openSource(ctx, testPath)
}

func (s *Scaffolder) openIf(ctx context.Context, interactive bool, path string) error {
	if !interactive {
		return nil
	}
	return s.open(ctx, path)
}
