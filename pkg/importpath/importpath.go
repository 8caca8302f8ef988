// Package importpath computes module specifiers between generated files and
// the sources they import.
package importpath

import (
	"path/filepath"
	"strings"
)

// RelativeSpecifier returns the module specifier that imports targetFile
// from a file located in fromDir. The result uses forward slashes, has the
// file extension removed and starts with "./" or "../".
func RelativeSpecifier(fromDir, targetFile string) string {
	rel, err := filepath.Rel(fromDir, trimExtension(targetFile))
	if err != nil {
		// Different volumes; fall back to the target itself.
		return filepath.ToSlash(trimExtension(targetFile))
	}
	return normalize(rel)
}

// Rebase re-expresses specifier, written in a file inside originDir, so that
// it resolves to the same module from a file inside toDir. Bare package
// specifiers are returned unchanged.
func Rebase(originDir, specifier, toDir string) string {
	if !IsRelative(specifier) {
		return specifier
	}

	target := filepath.Join(originDir, filepath.FromSlash(specifier))
	rel, err := filepath.Rel(toDir, target)
	if err != nil {
		return specifier
	}
	return normalize(rel)
}

// Resolve joins a relative specifier onto dir. The result carries no
// extension; callers probe for the concrete file.
func Resolve(dir, specifier string) string {
	return filepath.Join(dir, filepath.FromSlash(specifier))
}

// IsRelative reports whether specifier points into the project.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func normalize(rel string) string {
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return "./"
	case rel == "..", strings.HasPrefix(rel, "../"):
		return rel
	default:
		return "./" + rel
	}
}

// trimExtension removes the source extension, treating ".d.ts" as one unit.
func trimExtension(path string) string {
	if strings.HasSuffix(path, ".d.ts") {
		return strings.TrimSuffix(path, ".d.ts")
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
