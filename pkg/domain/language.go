// Package domain defines the core types shared by the analyzer, the resolvers
// and the scaffold generators.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a source dialect understood by the analyzer.
type Language string

// Supported source dialects.
const (
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript"
)

// LanguageFromPath picks the dialect by file extension.
// JSX-flavoured files (.tsx, .jsx) use the TSX grammar, everything else the
// plain TypeScript grammar.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return LanguageTSX
	default:
		return LanguageTypeScript
	}
}

// SourceExtensions lists the extensions probed when a relative module
// specifier is resolved to a file, in probe order.
var SourceExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx"}

// IndexFiles lists the directory index files probed after SourceExtensions.
var IndexFiles = []string{"index.ts", "index.tsx", "index.js"}

// IsSourceFile reports whether path has an extension the analyzer can parse.
func IsSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".js", ".jsx", ".mts", ".cts":
		return true
	default:
		return false
	}
}
