package domain

// PrimitiveKind classifies the value type of a resolved property.
type PrimitiveKind string

// Property kinds.
const (
	KindArray   PrimitiveKind = "array"
	KindBoolean PrimitiveKind = "boolean"
	KindNumber  PrimitiveKind = "number"
	KindString  PrimitiveKind = "string"
	KindUnknown PrimitiveKind = "unknown"
)

// PropertyShape describes one field of a resolved type.
// Element is non-nil iff Kind is KindArray.
type PropertyShape struct {
	Kind PrimitiveKind `json:"kind" yaml:"kind"`
	// Element is the shape of array elements.
	Element *PropertyShape `json:"element,omitempty" yaml:"element,omitempty"`
	// Name carries the referenced type name for unknown shapes.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Optional is set for `field?: T` signatures.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Primitive returns a shape of the given non-array kind.
func Primitive(kind PrimitiveKind) PropertyShape {
	return PropertyShape{Kind: kind}
}

// ArrayOf returns an array shape with the given element shape.
func ArrayOf(element PropertyShape) PropertyShape {
	return PropertyShape{Kind: KindArray, Element: &element}
}

// Unknown returns an unknown shape labelled with name.
func Unknown(name string) PropertyShape {
	return PropertyShape{Kind: KindUnknown, Name: name}
}

// Valid reports whether the element invariant holds for the whole tree.
func (p PropertyShape) Valid() bool {
	if p.Kind == KindArray {
		return p.Element != nil && p.Element.Valid()
	}
	return p.Element == nil
}

// ResolvedTypeShape is the flattened property map of one type alias.
type ResolvedTypeShape struct {
	// Name is the requested type name.
	Name string `json:"name" yaml:"name"`
	// Declaration is the type alias declaration, zero when not found.
	Declaration ExportedDeclaration `json:"declaration" yaml:"declaration"`
	// Exported reports whether the alias carries an export modifier.
	Exported bool `json:"exported" yaml:"exported"`
	// Found is false when no declaration with Name exists in the file.
	Found bool `json:"found" yaml:"found"`
	// Properties maps field names to their shapes.
	Properties map[string]PropertyShape `json:"properties" yaml:"properties"`
	// Imports lists bindings, relative to the defining file, that the
	// resolved properties depend on.
	Imports []ImportBinding `json:"imports,omitempty" yaml:"imports,omitempty"`
	// Placeholders names type references that could not be resolved.
	Placeholders []string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`

	order []string
}

// NewResolvedTypeShape returns an empty shape for name.
func NewResolvedTypeShape(name string) *ResolvedTypeShape {
	return &ResolvedTypeShape{
		Name:       name,
		Properties: make(map[string]PropertyShape),
	}
}

// Set stores a property, overwriting an earlier one with the same key.
func (s *ResolvedTypeShape) Set(name string, shape PropertyShape) {
	if _, exists := s.Properties[name]; !exists {
		s.order = append(s.order, name)
	}
	s.Properties[name] = shape
}

// Prepend merges nested underneath the properties collected so far: keys
// already present in s keep their shape, new keys are placed first.
func (s *ResolvedTypeShape) Prepend(nested *ResolvedTypeShape) {
	if nested == nil {
		return
	}

	merged := make(map[string]PropertyShape, len(nested.Properties)+len(s.Properties))
	order := make([]string, 0, len(nested.Properties)+len(s.order))

	for _, name := range nested.Keys() {
		merged[name] = nested.Properties[name]
		order = append(order, name)
	}
	for _, name := range s.Keys() {
		if _, exists := merged[name]; !exists {
			order = append(order, name)
		}
		merged[name] = s.Properties[name]
	}

	s.Properties = merged
	s.order = order
	s.Placeholders = append(s.Placeholders, nested.Placeholders...)
}

// Keys returns property names in merge order.
// Shapes built without Set fall back to map iteration order.
func (s *ResolvedTypeShape) Keys() []string {
	if len(s.order) == len(s.Properties) {
		return append([]string(nil), s.order...)
	}

	keys := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, k := range s.order {
		if _, ok := s.Properties[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	for k := range s.Properties {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// AddImport records a binding once.
func (s *ResolvedTypeShape) AddImport(b ImportBinding) {
	for _, existing := range s.Imports {
		if existing == b {
			return
		}
	}
	s.Imports = append(s.Imports, b)
}
