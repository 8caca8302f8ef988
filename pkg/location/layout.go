// Package location decides where test files live for each layout policy and
// maps test files back to their sources.
package location

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/naming"
)

const (
	// DefaultTestDirectoryName is the nested test directory beside sources.
	DefaultTestDirectoryName = "__tests__"
	// DefaultSourceRoot is the conventional source folder below the workspace root.
	DefaultSourceRoot = "src"
	// DefaultTestRoot is the root-level test folder.
	DefaultTestRoot = "test"
)

// Layout is the immutable description of a workspace's test layout.
type Layout struct {
	// Root is the workspace root directory.
	Root string
	// Policy is the active layout policy.
	Policy domain.TestLocation
	// TestDirectoryName names the nested directory for SameDirectoryNested.
	TestDirectoryName string
	// SourceRoot is the folder, relative to Root, mirrored by RootTestFolderNested.
	SourceRoot string
	// TestRoot is the folder, relative to Root, used by both root policies.
	TestRoot string
}

// NewLayout returns a layout with default folder names.
func NewLayout(root string, policy domain.TestLocation) Layout {
	return Layout{
		Root:              root,
		Policy:            policy,
		TestDirectoryName: DefaultTestDirectoryName,
		SourceRoot:        DefaultSourceRoot,
		TestRoot:          DefaultTestRoot,
	}
}

func (l Layout) withDefaults() Layout {
	if l.TestDirectoryName == "" {
		l.TestDirectoryName = DefaultTestDirectoryName
	}
	if l.SourceRoot == "" {
		l.SourceRoot = DefaultSourceRoot
	}
	if l.TestRoot == "" {
		l.TestRoot = DefaultTestRoot
	}
	return l
}

func (l Layout) testRootDir() string {
	return filepath.Join(l.Root, l.TestRoot)
}

func (l Layout) sourceRootDir() string {
	return filepath.Join(l.Root, l.SourceRoot)
}

// TestPath computes the test file path for sourcePath. It does not touch the
// filesystem.
func (l Layout) TestPath(sourcePath string) (string, error) {
	l = l.withDefaults()
	dir, base := filepath.Split(filepath.Clean(sourcePath))
	testName := naming.AddTestMarker(base)

	switch l.Policy {
	case domain.SameDirectory:
		return filepath.Join(dir, testName), nil
	case domain.SameDirectoryNested:
		return filepath.Join(dir, l.TestDirectoryName, testName), nil
	case domain.RootTestFolderFlat:
		return filepath.Join(l.testRootDir(), testName), nil
	case domain.RootTestFolderNested:
		rel, err := below(l.sourceRootDir(), sourcePath)
		if err != nil {
			return "", errors.WithHintf(err,
				"%q mirrors files below %s only", l.Policy, l.sourceRootDir())
		}
		return filepath.Join(l.testRootDir(), naming.AddTestMarker(rel)), nil
	}
	return "", unknownPolicy(l.Policy)
}

// SourcePath computes the source path for testPath for every policy except
// RootTestFolderFlat, whose inverse needs a workspace search.
func (l Layout) SourcePath(testPath string) (string, error) {
	l = l.withDefaults()
	testPath = filepath.Clean(testPath)
	if !naming.IsTestFile(testPath) {
		return "", errors.Mark(errors.Newf("%s is not a test file", testPath), domain.ErrValidation)
	}
	dir, base := filepath.Split(testPath)
	sourceName := naming.StripTestMarker(base)

	switch l.Policy {
	case domain.SameDirectory:
		return filepath.Join(dir, sourceName), nil
	case domain.SameDirectoryNested:
		return filepath.Join(filepath.Dir(filepath.Clean(dir)), sourceName), nil
	case domain.RootTestFolderNested:
		rel, err := below(l.testRootDir(), testPath)
		if err != nil {
			return "", err
		}
		return filepath.Join(l.sourceRootDir(), naming.StripTestMarker(rel)), nil
	case domain.RootTestFolderFlat:
		return "", errors.Newf("%q needs a workspace search", l.Policy)
	}
	return "", unknownPolicy(l.Policy)
}

// below returns path relative to dir, failing when path is outside dir.
func below(dir, path string) (string, error) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Mark(errors.Newf("%s is not inside %s", path, dir), domain.ErrValidation)
	}
	return rel, nil
}

func unknownPolicy(policy domain.TestLocation) error {
	_, err := domain.ParseTestLocation(string(policy))
	return err
}
