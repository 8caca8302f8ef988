// Package generate assembles the text of test scaffolds and mock data files.
package generate

import "strings"

// Import is one import statement of a generated file.
type Import struct {
	From    string
	Default string
	Named   []string
}

// PrintImport renders imp. Without bindings it prints a side-effect import.
func PrintImport(imp Import) string {
	var b strings.Builder
	b.WriteString("import ")

	if imp.Default != "" {
		b.WriteString(imp.Default)
	}
	if len(imp.Named) > 0 {
		if imp.Default != "" {
			b.WriteString(", ")
		}
		b.WriteString("{ ")
		b.WriteString(strings.Join(imp.Named, ", "))
		b.WriteString(" }")
	}
	if imp.Default != "" || len(imp.Named) > 0 {
		b.WriteString(" from ")
	}

	b.WriteString(`"`)
	b.WriteString(imp.From)
	b.WriteString(`"`)
	return b.String()
}

// Imports collects import statements, merging bindings per module.
type Imports struct {
	order []string
	byMod map[string]*Import
}

// Add merges imp into the set. Named bindings keep first-seen order.
func (s *Imports) Add(imp Import) {
	if s.byMod == nil {
		s.byMod = make(map[string]*Import)
	}

	existing, ok := s.byMod[imp.From]
	if !ok {
		cp := Import{From: imp.From, Default: imp.Default, Named: append([]string(nil), imp.Named...)}
		s.byMod[imp.From] = &cp
		s.order = append(s.order, imp.From)
		return
	}

	if existing.Default == "" {
		existing.Default = imp.Default
	}
	for _, name := range imp.Named {
		if !contains(existing.Named, name) {
			existing.Named = append(existing.Named, name)
		}
	}
}

// List returns the merged imports in insertion order.
func (s *Imports) List() []Import {
	out := make([]Import, 0, len(s.order))
	for _, from := range s.order {
		out = append(out, *s.byMod[from])
	}
	return out
}

// String renders one import per line.
func (s *Imports) String() string {
	lines := make([]string, 0, len(s.order))
	for _, imp := range s.List() {
		lines = append(lines, PrintImport(imp))
	}
	return strings.Join(lines, "\n")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
