package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/scaffold/pkg/domain"
)

func TestMockValue(t *testing.T) {
	tests := []struct {
		name  string
		shape domain.PropertyShape
		want  string
	}{
		{"string", domain.Primitive(domain.KindString), `"string value"`},
		{"boolean", domain.Primitive(domain.KindBoolean), "false"},
		{"number", domain.Primitive(domain.KindNumber), "1"},
		{"array", domain.ArrayOf(domain.Primitive(domain.KindNumber)), "[1]"},
		{"nested array", domain.ArrayOf(domain.ArrayOf(domain.Primitive(domain.KindString))), `[["string value"]]`},
		{"date string", domain.Unknown("DateString"), `"03-12-2020"`},
		{"resolved date string", domain.PropertyShape{Kind: domain.KindString, Name: "DateString"}, `"03-12-2020"`},
		{"unknown", domain.Unknown("House"), `"unknown House"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MockValue(tt.shape))
		})
	}
}

func jonShape() *domain.ResolvedTypeShape {
	shape := domain.NewResolvedTypeShape("Jon")
	shape.Exported = true
	shape.Found = true
	shape.Set("name", domain.Primitive(domain.KindString))
	return shape
}

func TestMock_Jon(t *testing.T) {
	got := Mock(MockInput{Shape: jonShape(), SourceSpecifier: "../jon"})

	assert.Equal(t, `import { Jon } from "../jon"

export const mockJon: Jon = {
    name: "string value",
}
`, got)
}

func TestMock_NotExported(t *testing.T) {
	shape := domain.NewResolvedTypeShape("Local")
	shape.Set("first-name", domain.Primitive(domain.KindString))

	got := Mock(MockInput{Shape: shape, SourceSpecifier: "../local"})
	assert.Equal(t, `export const mockLocal = {
    "first-name": "string value",
}
`, got)
}

func TestMock_Imports(t *testing.T) {
	got := Mock(MockInput{
		Shape:           jonShape(),
		SourceSpecifier: "../jon",
		Imports: []domain.ImportBinding{
			{LocalName: "DateString", ImportedName: "DateString", ModulePath: "../types", Kind: domain.ImportNamed},
			{LocalName: "Alias", ImportedName: "Original", ModulePath: "../types", Kind: domain.ImportNamed},
			{LocalName: "House", ModulePath: "../house", Kind: domain.ImportDefault},
		},
	})

	assert.Contains(t, got, `import { DateString, Original as Alias } from "../types"`)
	assert.Contains(t, got, `import House from "../house"`)
}

func TestMockAppend(t *testing.T) {
	existing := Mock(MockInput{Shape: jonShape(), SourceSpecifier: "../jon"})

	arya := domain.NewResolvedTypeShape("Arya")
	arya.Exported = true
	arya.Set("age", domain.Primitive(domain.KindNumber))

	got := MockAppend(existing, MockInput{Shape: arya, SourceSpecifier: "../jon"})
	assert.Equal(t, `
import { Arya } from "../jon"
export const mockArya: Arya = {
    age: 1,
}
`, got)

	again := MockAppend(existing+got, MockInput{Shape: jonShape(), SourceSpecifier: "../jon"})
	assert.NotContains(t, again, "import")
}
