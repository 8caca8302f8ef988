package scaffold

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/generate"
	"github.com/specvital/scaffold/pkg/importpath"
	"github.com/specvital/scaffold/pkg/naming"
)

// MockPath returns <sourceDir>/<mock dir>/<base>.mock.ts for a source file.
func (s *Scaffolder) MockPath(sourcePath string) string {
	dir, base := filepath.Split(sourcePath)
	name := naming.AddMockMarker(naming.CutExtension(base) + ".ts")
	return filepath.Join(dir, s.cfg.MockDirectoryName, name)
}

// CreateMock writes a mock constant for typeName declared in path. With an
// empty typeName the chooser picks among the file's types. The constant is
// appended when the mock file exists; a file that already defines the
// constant is only opened.
func (s *Scaffolder) CreateMock(ctx context.Context, path, typeName string) (Result, error) {
	path = s.abs(path)
	if err := s.checkInput(path); err != nil {
		return Result{}, err
	}
	mockPath := s.MockPath(path)

	if typeName == "" {
		picked, outcome, err := s.pickType(ctx, path)
		if err != nil || outcome != "" {
			return Result{Source: path, Target: mockPath, Outcome: outcome}, err
		}
		typeName = picked
	}

	shape, err := s.types.ResolveType(ctx, path, typeName)
	if err != nil {
		return Result{}, err
	}
	if !shape.Found {
		s.logger.Warn("type not declared, mock will be empty", "type", typeName, "source", path)
	}
	if len(shape.Placeholders) > 0 {
		s.logger.Debug("unresolved type references", "type", typeName, "placeholders", shape.Placeholders)
	}

	mockDir := filepath.Dir(mockPath)
	in := generate.MockInput{
		Shape:           shape,
		SourceSpecifier: importpath.RelativeSpecifier(mockDir, path),
	}
	for _, b := range shape.Imports {
		b.ModulePath = importpath.Rebase(filepath.Dir(path), b.ModulePath, mockDir)
		in.Imports = append(in.Imports, b)
	}

	result := Result{Source: path, Target: mockPath, Exports: []string{generate.MockName(typeName)}}

	unlock := s.targets.lock(mockPath)
	defer unlock()

	if s.src.Exists(mockPath) {
		existing, err := s.src.GetText(ctx, mockPath)
		if err != nil {
			return Result{}, err
		}
		if strings.Contains(existing, "export const "+generate.MockName(typeName)+" ") ||
			strings.Contains(existing, "export const "+generate.MockName(typeName)+":") {
			result.Outcome = domain.OutcomeExisting
			return result, s.open(ctx, mockPath)
		}
		if err := s.src.AppendFile(ctx, mockPath, generate.MockAppend(existing, in)); err != nil {
			return Result{}, err
		}
		result.Outcome = domain.OutcomeAppended
	} else {
		if err := s.src.EnsureDir(mockDir); err != nil {
			return Result{}, err
		}
		if err := s.src.CreateFile(ctx, mockPath, generate.Mock(in)); err != nil {
			return Result{}, err
		}
		result.Outcome = domain.OutcomeCreated
	}

	s.logger.Info("wrote mock", "source", path, "mock", mockPath, "type", typeName, "outcome", string(result.Outcome))
	return result, s.open(ctx, mockPath)
}

// pickType returns the type to mock, or a non-empty outcome when there is
// nothing to pick.
func (s *Scaffolder) pickType(ctx context.Context, path string) (string, domain.Outcome, error) {
	model, err := s.Analyze(ctx, path)
	if err != nil {
		return "", "", err
	}

	var names []string
	for _, t := range model.Types {
		if t.Kind == domain.DeclarationTypeAlias || t.Kind == domain.DeclarationInterface {
			names = append(names, t.Name)
		}
	}

	switch len(names) {
	case 0:
		s.logger.Info("no type declarations to mock", "source", path)
		return "", domain.OutcomeSkipped, nil
	case 1:
		return names[0], "", nil
	}

	picked, err := s.chooser.PickOne(ctx, names, "Select the type to mock")
	if errors.Is(err, domain.ErrUserCancelled) {
		s.logger.Debug("request cancelled by user", "source", path)
		return "", domain.OutcomeCancelled, nil
	}
	if err != nil {
		return "", "", err
	}
	return picked, "", nil
}
