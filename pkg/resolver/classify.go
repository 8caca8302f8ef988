package resolver

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/parser"
)

// classify maps a type annotation to a PropertyShape. When follow is set,
// a reference to another type alias is opened once to see whether it names a
// primitive or an array.
func (r *Resolver) classify(q *request, file *parser.File, shape *domain.ResolvedTypeShape, t *sitter.Node, follow bool) domain.PropertyShape {
	if t == nil {
		return domain.Unknown("")
	}
	text := parser.GetNodeText(t, file.Source)

	switch t.Type() {
	case "predefined_type":
		return keyword(text)

	case "array_type":
		return domain.ArrayOf(r.classify(q, file, shape, firstNamed(t), false))

	case "generic_type":
		name := parser.GetNodeText(t.ChildByFieldName("name"), file.Source)
		if name == "Array" || name == "ReadonlyArray" {
			var elem *sitter.Node
			if args := t.ChildByFieldName("type_arguments"); args != nil {
				elem = firstNamed(args)
			}
			return domain.ArrayOf(r.classify(q, file, shape, elem, false))
		}
		return domain.Unknown(name)

	case "parenthesized_type", "readonly_type":
		return r.classify(q, file, shape, firstNamed(t), follow)

	case "literal_type":
		return literal(firstNamed(t))

	case "union_type":
		for _, member := range unionMembers(t) {
			if isNullish(member, file.Source) {
				continue
			}
			return r.classify(q, file, shape, member, follow)
		}
		return domain.Unknown(text)

	case "type_identifier":
		if !follow {
			return domain.Unknown(text)
		}
		return r.followReference(q, file, shape, text)
	}

	return domain.Unknown(text)
}

// followReference performs the single level of follow-through for property
// types. The alias keeps its name on the returned shape.
func (r *Resolver) followReference(q *request, file *parser.File, shape *domain.ResolvedTypeShape, name string) domain.PropertyShape {
	target, targetName := file, name

	if imp, ok := file.Model.FindImport(name); ok {
		if !imp.IsRelative() {
			return domain.Unknown(name)
		}
		path, err := r.Locate(file.Dir(), imp.ModulePath)
		if err != nil {
			r.logger.Debug("property type not located", "type", name, "file", file.Path, "error", err)
			return domain.Unknown(name)
		}
		target, err = r.open(q, path)
		if err != nil {
			r.logger.Debug("property type not readable", "type", name, "file", path, "error", err)
			return domain.Unknown(name)
		}
		targetName = imp.TargetName()
		shape.AddImport(imp)
	}

	decl, _, ok := target.TypeNode(targetName)
	if !ok || decl.Type() != "type_alias_declaration" {
		return domain.Unknown(name)
	}

	resolved := r.classify(q, target, shape, decl.ChildByFieldName("value"), false)
	if resolved.Kind == domain.KindUnknown {
		return domain.Unknown(name)
	}
	resolved.Name = name
	return resolved
}

func keyword(text string) domain.PropertyShape {
	switch text {
	case "string":
		return domain.Primitive(domain.KindString)
	case "boolean":
		return domain.Primitive(domain.KindBoolean)
	case "number", "bigint":
		return domain.Primitive(domain.KindNumber)
	}
	return domain.Unknown(text)
}

func literal(node *sitter.Node) domain.PropertyShape {
	if node == nil {
		return domain.Unknown("")
	}
	switch node.Type() {
	case "string", "template_string":
		return domain.Primitive(domain.KindString)
	case "number", "unary_expression":
		return domain.Primitive(domain.KindNumber)
	case "true", "false":
		return domain.Primitive(domain.KindBoolean)
	}
	return domain.Unknown(node.Type())
}

func unionMembers(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range parser.NamedChildren(node) {
		if child.Type() == "union_type" {
			out = append(out, unionMembers(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func isNullish(node *sitter.Node, source []byte) bool {
	switch parser.GetNodeText(node, source) {
	case "null", "undefined", "void":
		return true
	}
	return false
}

func firstNamed(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}
