// Package naming derives test file names from source file names and back.
package naming

import (
	"path/filepath"
	"strings"
)

const (
	// TestMarker is inserted before the final extension of a source name.
	TestMarker = ".test"
	// SpecMarker is the alternative marker recognised by IsTestFile.
	SpecMarker = ".spec"
	// MockMarker is inserted before the final extension of mock data files.
	MockMarker = ".mock"
)

// AddTestMarker inserts ".test" immediately before the final extension:
// "a.ts.asdf.ts" becomes "a.ts.asdf.test.ts". Names without a dot get the
// marker appended.
func AddTestMarker(name string) string {
	return addMarker(name, TestMarker)
}

// AddMockMarker inserts ".mock" immediately before the final extension.
func AddMockMarker(name string) string {
	return addMarker(name, MockMarker)
}

func addMarker(name, marker string) string {
	dir, base := splitBase(name)
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return dir + base + marker
	}
	return dir + base[:dot] + marker + base[dot:]
}

// StripTestMarker removes the test marker that precedes the final extension.
// It is the inverse of AddTestMarker; names without the marker are returned
// unchanged.
func StripTestMarker(name string) string {
	dir, base := splitBase(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for _, marker := range []string{TestMarker, SpecMarker} {
		if strings.HasSuffix(stem, marker) && len(stem) > len(marker) {
			return dir + strings.TrimSuffix(stem, marker) + ext
		}
	}
	if ext == TestMarker && stem != "" {
		return dir + stem
	}
	return name
}

// IsTestFile reports whether the name (without its final extension) ends with
// ".test" or ".spec".
func IsTestFile(name string) bool {
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	return strings.HasSuffix(stem, TestMarker) || strings.HasSuffix(stem, SpecMarker)
}

// CutExtension removes the final extension from a name.
func CutExtension(name string) string {
	dir, base := splitBase(name)
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return name
	}
	return dir + base[:dot]
}

// ComponentName returns the source identifier a test file is named after:
// "src/westeros.test.ts" yields "westeros".
func ComponentName(path string) string {
	return CutExtension(filepath.Base(StripTestMarker(path)))
}

func splitBase(name string) (string, string) {
	idx := strings.LastIndexAny(name, `/\`)
	if idx < 0 {
		return "", name
	}
	return name[:idx+1], name[idx+1:]
}
