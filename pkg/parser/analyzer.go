package parser

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/parser/tspool"
)

// Top-level import statements only; dynamic imports and nested statements are ignored.
const importQuery = `(program (import_statement) @import)`

// File is a parsed source file. The syntax tree stays alive until Close so
// callers such as the type resolver can keep walking declaration nodes.
type File struct {
	// Path is the file path the source was read from, empty for anonymous input.
	Path string
	// Lang is the grammar the file was parsed with.
	Lang domain.Language
	// Source is the raw file content.
	Source []byte
	// Model holds the exports, imports and types found in the file.
	Model *domain.SourceModel
	// HasSyntaxErrors is set when tree-sitter recovered from malformed input.
	HasSyntaxErrors bool

	tree  *sitter.Tree
	types map[string]*sitter.Node
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f != nil && f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Dir returns the directory containing the file.
func (f *File) Dir() string {
	return filepath.Dir(f.Path)
}

// TypeNode returns the declaration node of the type alias or interface called name.
func (f *File) TypeNode(name string) (*sitter.Node, domain.ExportedDeclaration, bool) {
	node, ok := f.types[name]
	if !ok {
		return nil, domain.ExportedDeclaration{}, false
	}
	decl, _ := f.Model.FindType(name)
	return node, decl, true
}

// Analyze parses TypeScript source and returns its exported declarations and
// imports. Statements that are irrelevant for scaffolding are skipped.
func Analyze(ctx context.Context, source []byte) (*domain.SourceModel, error) {
	return AnalyzeLanguage(ctx, domain.LanguageTypeScript, source)
}

// AnalyzeLanguage is Analyze with an explicit grammar.
func AnalyzeLanguage(ctx context.Context, lang domain.Language, source []byte) (*domain.SourceModel, error) {
	file, err := Parse(ctx, lang, source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Model, nil
}

// ParseFile parses source read from path, picking the grammar by extension.
// Caller MUST call Close on the returned file.
func ParseFile(ctx context.Context, path string, source []byte) (*File, error) {
	file, err := Parse(ctx, domain.LanguageFromPath(path), source)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	file.Path = path
	return file, nil
}

// Parse parses source with the given grammar.
// Caller MUST call Close on the returned file.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*File, error) {
	tree, err := tspool.Parse(ctx, lang, source)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrParse)
	}

	root := tree.RootNode()
	a := newAnalyzer(source)
	a.collectLocals(root)
	a.collectExports(root)

	imports, err := tspool.Captures(root, lang, importQuery, "import")
	if err != nil {
		tree.Close()
		return nil, errors.Mark(err, domain.ErrParse)
	}
	for _, node := range imports {
		a.importStatement(node)
	}

	return &File{
		Lang:            lang,
		Source:          source,
		Model:           a.model,
		HasSyntaxErrors: root.HasError(),
		tree:            tree,
		types:           a.typeNodes,
	}, nil
}

type analyzer struct {
	source    []byte
	model     *domain.SourceModel
	locals    map[string]domain.DeclarationKind
	exported  map[string]int
	typeNodes map[string]*sitter.Node
}

func newAnalyzer(source []byte) *analyzer {
	return &analyzer{
		source: source,
		model: &domain.SourceModel{
			Exports: []domain.ExportedDeclaration{},
			Imports: []domain.ImportBinding{},
		},
		locals:    make(map[string]domain.DeclarationKind),
		exported:  make(map[string]int),
		typeNodes: make(map[string]*sitter.Node),
	}
}

func (a *analyzer) text(node *sitter.Node) string {
	return GetNodeText(node, a.source)
}

// collectLocals records every top-level declaration name and all type
// declarations so that later `export { x }` clauses can be classified.
func (a *analyzer) collectLocals(root *sitter.Node) {
	for _, stmt := range NamedChildren(root) {
		decl, exported := stmt, false
		if stmt.Type() == "export_statement" {
			decl, exported = stmt.ChildByFieldName("declaration"), true
			if decl == nil {
				continue
			}
		}
		decl = unwrapAmbient(decl)
		if decl == nil {
			continue
		}

		switch decl.Type() {
		case "function_declaration", "generator_function_declaration", "function_signature":
			if name := a.text(decl.ChildByFieldName("name")); name != "" {
				a.locals[name] = domain.DeclarationFunction
			}
		case "lexical_declaration", "variable_declaration":
			for _, name := range a.variableNames(decl) {
				a.locals[name] = domain.DeclarationVariable
			}
		case "enum_declaration":
			if name := a.text(decl.ChildByFieldName("name")); name != "" {
				a.locals[name] = domain.DeclarationEnum
			}
		case "type_alias_declaration":
			a.addType(decl, domain.DeclarationTypeAlias, exported)
		case "interface_declaration":
			a.addType(decl, domain.DeclarationInterface, exported)
		}
	}
}

func (a *analyzer) collectExports(root *sitter.Node) {
	for _, stmt := range NamedChildren(root) {
		if stmt.Type() == "export_statement" {
			a.exportStatement(stmt)
		}
	}
}

func (a *analyzer) exportStatement(node *sitter.Node) {
	isDefault := HasChildOfType(node, "default")

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		a.exportDeclaration(unwrapAmbient(decl), isDefault)
		return
	}

	if value := node.ChildByFieldName("value"); value != nil && isDefault {
		a.exportDefaultValue(value)
		return
	}

	// export { x } from "./y" re-exports a foreign binding whose kind is unknown.
	if node.ChildByFieldName("source") != nil {
		return
	}

	if clause := FindChildByType(node, "export_clause"); clause != nil {
		a.exportClause(clause)
	}
}

func (a *analyzer) exportDeclaration(decl *sitter.Node, isDefault bool) {
	if decl == nil {
		return
	}

	switch decl.Type() {
	case "function_declaration", "generator_function_declaration", "function_signature":
		a.addExport(decl.ChildByFieldName("name"), domain.DeclarationFunction, isDefault, decl)
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range FindChildrenByType(decl, "variable_declarator") {
			name := declarator.ChildByFieldName("name")
			// Destructuring patterns are not classified.
			if name == nil || name.Type() != "identifier" {
				continue
			}
			a.addExport(name, domain.DeclarationVariable, false, declarator)
		}
	case "enum_declaration":
		a.addExport(decl.ChildByFieldName("name"), domain.DeclarationEnum, isDefault, decl)
	}
}

func (a *analyzer) exportDefaultValue(value *sitter.Node) {
	switch value.Type() {
	case "function", "function_expression", "generator_function":
		if name := value.ChildByFieldName("name"); name != nil {
			a.addExport(name, domain.DeclarationFunction, true, value)
		}
	case "identifier":
		name := a.text(value)
		if kind, ok := a.locals[name]; ok {
			a.addNamedExport(name, kind, true, value)
			return
		}
		a.markTypeExported(name)
	}
}

func (a *analyzer) exportClause(clause *sitter.Node) {
	for _, spec := range FindChildrenByType(clause, "export_specifier") {
		local := UnquoteString(a.text(spec.ChildByFieldName("name")))
		exportedAs := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exportedAs = UnquoteString(a.text(alias))
		}

		kind, ok := a.locals[local]
		if !ok {
			a.markTypeExported(local)
			continue
		}

		if exportedAs == "default" {
			a.addNamedExport(local, kind, true, spec)
			continue
		}
		a.addNamedExport(exportedAs, kind, false, spec)
	}
}

func (a *analyzer) addExport(nameNode *sitter.Node, kind domain.DeclarationKind, isDefault bool, at *sitter.Node) {
	a.addNamedExport(a.text(nameNode), kind, isDefault, at)
}

// addNamedExport appends an export once per name. Repeated names (function
// overloads, `export default x` after `export const x`) only update the
// default flag of the first entry.
func (a *analyzer) addNamedExport(name string, kind domain.DeclarationKind, isDefault bool, at *sitter.Node) {
	if name == "" {
		return
	}

	if idx, ok := a.exported[name]; ok {
		if isDefault {
			a.model.Exports[idx].IsDefaultExport = true
		}
		return
	}

	a.exported[name] = len(a.model.Exports)
	a.model.Exports = append(a.model.Exports, domain.ExportedDeclaration{
		Name:            name,
		Kind:            kind,
		IsDefaultExport: isDefault,
		Exported:        true,
		Location:        GetLocation(at),
	})
}

func (a *analyzer) addType(decl *sitter.Node, kind domain.DeclarationKind, exported bool) {
	name := a.text(decl.ChildByFieldName("name"))
	if name == "" {
		return
	}

	if _, exists := a.typeNodes[name]; exists {
		// Interface declaration merging: keep the first body, widen the export flag.
		if exported {
			a.markTypeExported(name)
		}
		return
	}

	a.typeNodes[name] = decl
	a.model.Types = append(a.model.Types, domain.ExportedDeclaration{
		Name:     name,
		Kind:     kind,
		Exported: exported,
		Location: GetLocation(decl),
	})
}

func (a *analyzer) markTypeExported(name string) {
	for i := range a.model.Types {
		if a.model.Types[i].Name == name {
			a.model.Types[i].Exported = true
		}
	}
}

func (a *analyzer) variableNames(decl *sitter.Node) []string {
	var names []string
	for _, declarator := range FindChildrenByType(decl, "variable_declarator") {
		name := declarator.ChildByFieldName("name")
		if name != nil && name.Type() == "identifier" {
			names = append(names, a.text(name))
		}
	}
	return names
}

func (a *analyzer) importStatement(node *sitter.Node) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}
	modulePath := UnquoteString(a.text(source))

	clause := FindChildByType(node, "import_clause")
	if clause == nil {
		// Side-effect import: import "./polyfill"
		return
	}

	var defaultName string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			defaultName = a.text(child)
		case "named_imports":
			for _, spec := range FindChildrenByType(child, "import_specifier") {
				imported := UnquoteString(a.text(spec.ChildByFieldName("name")))
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = a.text(alias)
				}
				if local == "" {
					continue
				}
				a.model.Imports = append(a.model.Imports, domain.ImportBinding{
					LocalName:    local,
					ImportedName: imported,
					ModulePath:   modulePath,
					Kind:         domain.ImportNamed,
				})
			}
		}
	}

	if defaultName != "" {
		a.model.Imports = append(a.model.Imports, domain.ImportBinding{
			LocalName:  defaultName,
			ModulePath: modulePath,
			Kind:       domain.ImportDefault,
		})
	}
}

// unwrapAmbient returns the declaration inside `declare ...`.
func unwrapAmbient(node *sitter.Node) *sitter.Node {
	if node == nil || node.Type() != "ambient_declaration" {
		return node
	}
	if node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}
