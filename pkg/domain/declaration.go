package domain

import "strings"

// DeclarationKind classifies a top-level declaration.
type DeclarationKind string

// Declaration kinds recognised by the analyzer.
const (
	DeclarationEnum      DeclarationKind = "enum"
	DeclarationFunction  DeclarationKind = "function"
	DeclarationInterface DeclarationKind = "interface"
	DeclarationTypeAlias DeclarationKind = "type"
	DeclarationVariable  DeclarationKind = "variable"
)

// ImportKind distinguishes default from named import bindings.
type ImportKind string

// Import binding kinds.
const (
	ImportDefault ImportKind = "default"
	ImportNamed   ImportKind = "named"
)

// Location represents a position in source code.
type Location struct {
	StartLine int `json:"startLine" yaml:"startLine"`
	EndLine   int `json:"endLine" yaml:"endLine"`
	StartCol  int `json:"startCol,omitempty" yaml:"startCol,omitempty"`
	EndCol    int `json:"endCol,omitempty" yaml:"endCol,omitempty"`
}

// ExportedDeclaration is a named top-level construct of a source file.
type ExportedDeclaration struct {
	// Name is the declared identifier.
	Name string `json:"name" yaml:"name"`
	// Kind classifies the declaration.
	Kind DeclarationKind `json:"kind" yaml:"kind"`
	// IsDefaultExport is set for `export default` declarations.
	IsDefaultExport bool `json:"isDefaultExport,omitempty" yaml:"isDefaultExport,omitempty"`
	// Exported is false only for type declarations listed in SourceModel.Types
	// that lack an export modifier.
	Exported bool `json:"exported" yaml:"exported"`
	// Location is the declaration's position in the file.
	Location Location `json:"location" yaml:"location"`
}

// ImportBinding is one name imported into a file.
type ImportBinding struct {
	// LocalName is the identifier visible inside the importing file.
	LocalName string `json:"localName" yaml:"localName"`
	// ImportedName is the name exported by the target module. It differs from
	// LocalName for `import { a as b }` and is empty for default imports.
	ImportedName string `json:"importedName,omitempty" yaml:"importedName,omitempty"`
	// ModulePath is the module specifier exactly as written in the source.
	ModulePath string `json:"modulePath" yaml:"modulePath"`
	// Kind is ImportNamed or ImportDefault.
	Kind ImportKind `json:"kind" yaml:"kind"`
}

// IsRelative reports whether the module specifier points into the project
// rather than at a package.
func (b ImportBinding) IsRelative() bool {
	return strings.HasPrefix(b.ModulePath, "./") || strings.HasPrefix(b.ModulePath, "../") ||
		b.ModulePath == "." || b.ModulePath == ".."
}

// TargetName returns the name to look up inside the imported module.
func (b ImportBinding) TargetName() string {
	if b.ImportedName != "" {
		return b.ImportedName
	}
	return b.LocalName
}

// SourceModel is the parsed representation of one file.
// It is built fresh for every analysis and not mutated afterwards.
type SourceModel struct {
	// Exports contains exported functions, variables and enums in source order.
	Exports []ExportedDeclaration `json:"exports" yaml:"exports"`
	// Imports contains every import binding in source order.
	Imports []ImportBinding `json:"imports" yaml:"imports"`
	// Types contains type aliases and interfaces declared at top level.
	Types []ExportedDeclaration `json:"types,omitempty" yaml:"types,omitempty"`
}

// HasExports reports whether the file exports anything a test can cover.
func (m *SourceModel) HasExports() bool {
	return m != nil && len(m.Exports) > 0
}

// FindImport returns the binding whose local name is name.
func (m *SourceModel) FindImport(name string) (ImportBinding, bool) {
	for _, imp := range m.Imports {
		if imp.LocalName == name {
			return imp, true
		}
	}
	return ImportBinding{}, false
}

// FindType returns the type declaration called name.
func (m *SourceModel) FindType(name string) (ExportedDeclaration, bool) {
	for _, t := range m.Types {
		if t.Name == name {
			return t, true
		}
	}
	return ExportedDeclaration{}, false
}

// ExportNames returns the names of all exports in source order.
func (m *SourceModel) ExportNames() []string {
	names := make([]string, 0, len(m.Exports))
	for _, exp := range m.Exports {
		names = append(names, exp.Name)
	}
	return names
}

// FilterExports returns the exports whose names are listed, in source order.
func (m *SourceModel) FilterExports(names []string) []ExportedDeclaration {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	var out []ExportedDeclaration
	for _, exp := range m.Exports {
		if _, ok := wanted[exp.Name]; ok {
			out = append(out, exp)
		}
	}
	return out
}
