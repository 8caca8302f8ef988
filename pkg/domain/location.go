package domain

import (
	"github.com/cockroachdb/errors"
)

// TestLocation is the layout policy deciding where a test file is placed.
type TestLocation string

// The four supported layout policies. The string values are the ones written
// in configuration files.
const (
	// SameDirectory places foo.test.ts next to foo.ts.
	SameDirectory TestLocation = "same directory"
	// SameDirectoryNested places the test in a named subdirectory beside the source.
	SameDirectoryNested TestLocation = "same directory (nested)"
	// RootTestFolderFlat puts every test directly into <root>/test.
	RootTestFolderFlat TestLocation = "root test folder (flat)"
	// RootTestFolderNested mirrors the source tree below <root>/test.
	RootTestFolderNested TestLocation = "root test folder (nested)"
)

// TestLocations lists all policies in documentation order.
var TestLocations = []TestLocation{
	SameDirectory,
	SameDirectoryNested,
	RootTestFolderFlat,
	RootTestFolderNested,
}

// ParseTestLocation validates a configured policy value.
func ParseTestLocation(value string) (TestLocation, error) {
	for _, loc := range TestLocations {
		if string(loc) == value {
			return loc, nil
		}
	}
	return "", errors.WithHintf(
		errors.Wrapf(ErrConfiguration, "unknown test location %q", value),
		"valid values: %q, %q, %q, %q",
		SameDirectory, SameDirectoryNested, RootTestFolderFlat, RootTestFolderNested,
	)
}

// Valid reports whether l is one of the four policies.
func (l TestLocation) Valid() bool {
	_, err := ParseTestLocation(string(l))
	return err == nil
}

// TargetFile is a resolved destination (or source) path.
type TargetFile struct {
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
}
