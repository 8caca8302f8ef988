// Package resolver flattens TypeScript type aliases into property maps,
// following intersections and relative imports across files.
package resolver

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/importpath"
	"github.com/specvital/scaffold/pkg/parser"
	"github.com/specvital/scaffold/pkg/source"
)

// Resolver resolves type aliases to ResolvedTypeShape values.
// It is safe for concurrent use; every ResolveType call owns its own state.
type Resolver struct {
	src    source.TextSource
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for degraded resolutions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a resolver reading files through src.
func New(src source.TextSource, opts ...Option) *Resolver {
	r := &Resolver{
		src:    src,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type visitKey struct {
	path string
	name string
}

// request is the state of one ResolveType call.
type request struct {
	ctx      context.Context
	visiting map[visitKey]struct{}
	files    map[string]*parser.File
}

func (q *request) close() {
	for _, f := range q.files {
		f.Close()
	}
}

// ResolveType resolves typeName declared in the file at path.
//
// A missing declaration yields an empty, not-found shape and no error.
// References that cannot be followed, including cycles, are recorded in
// Placeholders. Only a failure to read or parse path itself is returned.
func (r *Resolver) ResolveType(ctx context.Context, path, typeName string) (*domain.ResolvedTypeShape, error) {
	q := &request{
		ctx:      ctx,
		visiting: make(map[visitKey]struct{}),
		files:    make(map[string]*parser.File),
	}
	defer q.close()

	return r.resolve(q, filepath.Clean(path), typeName)
}

// Locate maps a relative module specifier written in a file inside dir to an
// existing file, probing source extensions and then directory index files.
func (r *Resolver) Locate(dir, specifier string) (string, error) {
	if !importpath.IsRelative(specifier) {
		return "", errors.Mark(errors.Newf("%q is a package import", specifier), domain.ErrResolution)
	}

	base := importpath.Resolve(dir, specifier)

	var candidates []string
	if domain.IsSourceFile(base) {
		candidates = append(candidates, base)
	}
	for _, ext := range domain.SourceExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, index := range domain.IndexFiles {
		candidates = append(candidates, filepath.Join(base, index))
	}

	for _, c := range candidates {
		if r.src.Exists(c) {
			return c, nil
		}
	}
	return "", errors.Mark(errors.Newf("cannot locate module %q from %s", specifier, dir), domain.ErrResolution)
}

func (r *Resolver) resolve(q *request, path, typeName string) (*domain.ResolvedTypeShape, error) {
	key := visitKey{path: path, name: typeName}
	if _, ok := q.visiting[key]; ok {
		return nil, errors.Wrapf(domain.ErrCyclicType, "%s in %s", typeName, path)
	}
	q.visiting[key] = struct{}{}
	defer delete(q.visiting, key)

	file, err := r.open(q, path)
	if err != nil {
		return nil, err
	}

	shape := domain.NewResolvedTypeShape(typeName)
	node, decl, ok := file.TypeNode(typeName)
	if !ok {
		r.logger.Debug("type not declared", "type", typeName, "file", path)
		return shape, nil
	}
	shape.Found = true
	shape.Declaration = decl
	shape.Exported = decl.Exported

	for _, member := range members(node) {
		r.mergeMember(q, file, shape, member)
	}
	return shape, nil
}

func (r *Resolver) open(q *request, path string) (*parser.File, error) {
	if f, ok := q.files[path]; ok {
		return f, nil
	}

	text, err := r.src.GetText(q.ctx, path)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrResolution)
	}

	f, err := parser.ParseFile(q.ctx, path, []byte(text))
	if err != nil {
		return nil, err
	}
	q.files[path] = f
	return f, nil
}

// members returns the intersection members that make up a type declaration.
// Interfaces contribute their extended types first, then their own body.
func members(decl *sitter.Node) []*sitter.Node {
	switch decl.Type() {
	case "type_alias_declaration":
		return flatten(decl.ChildByFieldName("value"))
	case "interface_declaration":
		var out []*sitter.Node
		if clause := parser.FindChildByType(decl, "extends_type_clause"); clause != nil {
			out = append(out, parser.NamedChildren(clause)...)
		}
		if body := decl.ChildByFieldName("body"); body != nil {
			out = append(out, body)
		}
		return out
	}
	return nil
}

// flatten turns the left-nested intersection tree into its members in
// declaration order.
func flatten(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	switch node.Type() {
	case "intersection_type":
		var out []*sitter.Node
		for _, child := range parser.NamedChildren(node) {
			out = append(out, flatten(child)...)
		}
		return out
	case "parenthesized_type":
		if node.NamedChildCount() > 0 {
			return flatten(node.NamedChild(0))
		}
		return nil
	}
	return []*sitter.Node{node}
}

func (r *Resolver) mergeMember(q *request, file *parser.File, shape *domain.ResolvedTypeShape, member *sitter.Node) {
	switch member.Type() {
	case "object_type", "interface_body":
		r.mergeLiteral(q, file, shape, member)
	case "type_identifier":
		r.mergeReference(q, file, shape, parser.GetNodeText(member, file.Source))
	default:
		text := parser.GetNodeText(member, file.Source)
		r.logger.Debug("unsupported intersection member", "member", text, "kind", member.Type(), "file", file.Path)
		shape.Placeholders = append(shape.Placeholders, text)
	}
}

func (r *Resolver) mergeLiteral(q *request, file *parser.File, shape *domain.ResolvedTypeShape, literal *sitter.Node) {
	for _, sig := range parser.NamedChildren(literal) {
		if sig.Type() != "property_signature" {
			continue
		}

		name := parser.UnquoteString(parser.GetNodeText(sig.ChildByFieldName("name"), file.Source))
		if name == "" {
			continue
		}

		var typeNode *sitter.Node
		if ann := sig.ChildByFieldName("type"); ann != nil && ann.NamedChildCount() > 0 {
			typeNode = ann.NamedChild(0)
		}

		prop := r.classify(q, file, shape, typeNode, true)
		prop.Optional = parser.HasChildOfType(sig, "?")
		shape.Set(name, prop)
	}
}

// mergeReference resolves an intersection member naming another type. Only
// relative imports are followed; the nested result is merged underneath the
// properties collected so far.
func (r *Resolver) mergeReference(q *request, file *parser.File, shape *domain.ResolvedTypeShape, name string) {
	imp, ok := file.Model.FindImport(name)
	if !ok || !imp.IsRelative() {
		r.logger.Debug("type reference is not a relative import", "type", name, "file", file.Path)
		shape.Placeholders = append(shape.Placeholders, name)
		return
	}

	target, err := r.Locate(file.Dir(), imp.ModulePath)
	if err != nil {
		r.degrade(shape, name, file.Path, err)
		return
	}

	nested, err := r.resolve(q, target, imp.TargetName())
	if err != nil {
		r.degrade(shape, name, file.Path, err)
		return
	}
	if !nested.Found {
		shape.Placeholders = append(shape.Placeholders, name)
	}

	shape.Prepend(nested)
	for _, b := range nested.Imports {
		b.ModulePath = importpath.Rebase(filepath.Dir(target), b.ModulePath, file.Dir())
		shape.AddImport(b)
	}
}

func (r *Resolver) degrade(shape *domain.ResolvedTypeShape, name, path string, err error) {
	r.logger.Debug("type reference unresolved", "type", name, "file", path, "error", err)
	shape.Placeholders = append(shape.Placeholders, name)
}
