package generate

import (
	"fmt"
	"strings"

	"github.com/specvital/scaffold/pkg/domain"
)

// DateStringName is the type name rendered as a date literal.
const DateStringName = "DateString"

// MockInput describes one mock constant.
type MockInput struct {
	Shape *domain.ResolvedTypeShape
	// SourceSpecifier imports the type's defining file from the mock file.
	SourceSpecifier string
	// Imports are additional bindings, already relative to the mock file.
	Imports []domain.ImportBinding
}

// MockName returns the constant name for typeName.
func MockName(typeName string) string {
	return "mock" + typeName
}

// Mock renders a complete mock file.
func Mock(in MockInput) string {
	f := mockFile(in)
	return f.Render() + "\n"
}

// MockAppend renders the text to append to an existing mock file. Import
// lines already present in existing are left out.
func MockAppend(existing string, in MockInput) string {
	f := mockFile(in)

	var b strings.Builder
	if !strings.HasSuffix(existing, "\n") && existing != "" {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, imp := range f.Imports.List() {
		line := PrintImport(imp)
		if !strings.Contains(existing, line) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(strings.Join(f.content, "\n"))
	b.WriteString("\n")
	return b.String()
}

func mockFile(in MockInput) *File {
	var f File
	shape := in.Shape
	name := shape.Name

	if shape.Exported && in.SourceSpecifier != "" {
		f.Imports.Add(Import{From: in.SourceSpecifier, Named: []string{name}})
	}
	for _, b := range in.Imports {
		f.Imports.Add(bindingImport(b))
	}

	if shape.Exported {
		f.Add(fmt.Sprintf("export const %s: %s = {", MockName(name), name))
	} else {
		f.Add(fmt.Sprintf("export const %s = {", MockName(name)))
	}
	for _, key := range shape.Keys() {
		f.Add(fmt.Sprintf("%s%s: %s,", indent, propertyKey(key), MockValue(shape.Properties[key])))
	}
	f.Add("}")
	return &f
}

func bindingImport(b domain.ImportBinding) Import {
	if b.Kind == domain.ImportDefault {
		return Import{From: b.ModulePath, Default: b.LocalName}
	}
	named := b.LocalName
	if b.ImportedName != "" && b.ImportedName != b.LocalName {
		named = b.ImportedName + " as " + b.LocalName
	}
	return Import{From: b.ModulePath, Named: []string{named}}
}

// MockValue renders a placeholder literal for a property shape.
func MockValue(p domain.PropertyShape) string {
	if p.Name == DateStringName && p.Kind != domain.KindArray {
		return `"03-12-2020"`
	}

	switch p.Kind {
	case domain.KindString:
		return `"string value"`
	case domain.KindBoolean:
		return "false"
	case domain.KindNumber:
		return "1"
	case domain.KindArray:
		if p.Element == nil {
			return "[]"
		}
		return "[" + MockValue(*p.Element) + "]"
	}
	return fmt.Sprintf(`"unknown %s"`, p.Name)
}

// propertyKey quotes keys that are not valid identifiers.
func propertyKey(key string) string {
	for i, r := range key {
		ok := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return fmt.Sprintf("%q", key)
		}
	}
	if key == "" {
		return `""`
	}
	return key
}
