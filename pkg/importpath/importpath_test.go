package importpath

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeSpecifier(t *testing.T) {
	tests := []struct {
		name    string
		fromDir string
		target  string
		want    string
	}{
		{"same directory", "src", "src/westeros.ts", "./westeros"},
		{"nested test directory", "src/__tests__", "src/westeros.ts", "../westeros"},
		{"root test folder", "test", "src/westeros.ts", "../src/westeros"},
		{"deeper target", "test", "test/fixtures/jon.tsx", "./fixtures/jon"},
		{"declaration file", "src", "src/types/house.d.ts", "./types/house"},
		{"two levels up", "test/a/b", "src/c/d.ts", "../../../src/c/d"},
		{"absolute paths", "/r/src/__tests__", "/r/src/westeros.ts", "../westeros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeSpecifier(filepath.FromSlash(tt.fromDir), filepath.FromSlash(tt.target))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebase(t *testing.T) {
	tests := []struct {
		name      string
		origin    string
		specifier string
		toDir     string
		want      string
	}{
		{"sibling to nested", "src", "./types/jon", "src/__mocks__", "../types/jon"},
		{"parent to root test", "src/models", "../types/jon", "test", "../src/types/jon"},
		{"same directory", "src", "./jon", "src", "./jon"},
		{"bare package untouched", "src", "react", "test", "react"},
		{"scoped package untouched", "src", "@testing-library/react", "test", "@testing-library/react"},
		{"into subdirectory", "src", "./a/b", "src/a", "./b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rebase(filepath.FromSlash(tt.origin), tt.specifier, filepath.FromSlash(tt.toDir))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRelative(t *testing.T) {
	assert.True(t, IsRelative("./a"))
	assert.True(t, IsRelative("../a"))
	assert.True(t, IsRelative(".."))
	assert.False(t, IsRelative("react"))
	assert.False(t, IsRelative(".hidden"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("src/types/jon"), Resolve("src", "./types/jon"))
	assert.Equal(t, filepath.FromSlash("types/jon"), Resolve("src", "../types/jon"))
}
