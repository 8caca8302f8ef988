package generate

import (
	"fmt"
	"strings"

	"github.com/specvital/scaffold/pkg/domain"
)

// DefaultScreenTestFunction is the query asserted in React component tests.
const DefaultScreenTestFunction = `screen.getByText("")`

// TestInput carries everything a test generator needs.
type TestInput struct {
	// Exports are the declarations the test covers, in source order.
	Exports []domain.ExportedDeclaration
	// SourceSpecifier imports the source from the test file, e.g. "../westeros".
	SourceSpecifier string
	// Capabilities of the surrounding project.
	Capabilities domain.ProjectCapabilities
	// ScreenTestFunction is the testing-library query used by component tests.
	ScreenTestFunction string
}

// Generator produces test file content.
type Generator interface {
	Generate(in TestInput) string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(in TestInput) string

func (f GeneratorFunc) Generate(in TestInput) string {
	return f(in)
}

// ForLanguage returns the generator for a source dialect.
func ForLanguage(lang domain.Language) Generator {
	if lang == domain.LanguageTSX {
		return GeneratorFunc(ReactTest)
	}
	return GeneratorFunc(TypeScriptTest)
}

// SourceImport imports the covered exports: the default export as default
// binding, the rest as named bindings.
func SourceImport(specifier string, exports []domain.ExportedDeclaration) Import {
	imp := Import{From: specifier}
	for _, exp := range exports {
		if exp.IsDefaultExport {
			if imp.Default == "" {
				imp.Default = exp.Name
			}
			continue
		}
		imp.Named = append(imp.Named, exp.Name)
	}
	return imp
}

// TypeScriptTest generates describe/it blocks for plain TypeScript sources.
func TypeScriptTest(in TestInput) string {
	var f File
	if len(in.Exports) > 0 {
		f.Imports.Add(SourceImport(in.SourceSpecifier, in.Exports))
	}
	runner := in.Capabilities.Runner()
	addRunnerImports(&f, in.Capabilities)

	for _, exp := range in.Exports {
		f.Add(fmt.Sprintf(`describe("%s", () => {`, exp.Name))
		f.Add(indent + `it("should ...", () => {`)
		f.Add(indent + indent + assertion(runner, exp))
		f.Add(indent+"})", "})", "")
	}
	return f.Render()
}

func addRunnerImports(f *File, caps domain.ProjectCapabilities) {
	switch {
	case caps.Vitest && !caps.Jest:
		f.Imports.Add(Import{From: "vitest", Named: []string{"describe", "it", "expect"}})
	case caps.Runner() == domain.RunnerMocha:
		f.Imports.Add(Import{From: "node:assert", Default: "assert"})
	}
}

func assertion(runner domain.Runner, exp domain.ExportedDeclaration) string {
	switch runner {
	case domain.RunnerJest:
		switch exp.Kind {
		case domain.DeclarationFunction:
			return fmt.Sprintf("expect(%s()).toEqual(null)", exp.Name)
		case domain.DeclarationEnum:
			return fmt.Sprintf("expect(Object.keys(%s).length).toBeGreaterThan(0)", exp.Name)
		default:
			return fmt.Sprintf("expect(%s).toBeDefined()", exp.Name)
		}
	case domain.RunnerMocha:
		switch exp.Kind {
		case domain.DeclarationFunction:
			return fmt.Sprintf("assert.strictEqual(%s(), null)", exp.Name)
		case domain.DeclarationEnum:
			return fmt.Sprintf("assert.ok(Object.keys(%s).length > 0)", exp.Name)
		default:
			return fmt.Sprintf("assert.notStrictEqual(%s, undefined)", exp.Name)
		}
	}
	return "// todo"
}

// ReactTest generates testing-library scaffolds for TSX sources.
func ReactTest(in TestInput) string {
	var f File
	caps := in.Capabilities
	if len(in.Exports) > 0 {
		f.Imports.Add(SourceImport(in.SourceSpecifier, in.Exports))
	}
	if caps.Vitest && !caps.Jest {
		addRunnerImports(&f, caps)
	}

	screenFn := in.ScreenTestFunction
	if screenFn == "" {
		screenFn = DefaultScreenTestFunction
	}

	for _, exp := range in.Exports {
		switch {
		case exp.Kind == domain.DeclarationEnum:
			f.Add(fmt.Sprintf(`describe("%s", () => {`, exp.Name),
				indent+`it("should ...", () => {`,
				indent+indent+assertion(domain.RunnerJest, exp),
				indent+"})", "})", "")
		case !caps.TestingLibraryReact:
			f.Add(fmt.Sprintf(`describe("<%s />", () => {`, exp.Name),
				indent+`it("should ...", () => {`,
				indent+indent+"// todo",
				indent+"})", "})", "")
		case IsHook(exp.Name) && caps.HookRenderer():
			renderHookFrom := "@testing-library/react"
			if caps.TestingLibraryReactHooks {
				renderHookFrom = "@testing-library/react-hooks"
			}
			f.Imports.Add(Import{From: "react", Named: []string{"ReactNode"}})
			f.Imports.Add(Import{From: renderHookFrom, Named: []string{"renderHook"}})
			f.Add(fmt.Sprintf(`describe("%s", () => {`, exp.Name),
				"",
				indent+"function wrapper({ children }: { children: ReactNode }) {",
				indent+indent+"return <SomeProvider>{children}</SomeProvider>",
				indent+"}",
				"",
				indent+`it("should ...", () => {`,
				indent+indent+fmt.Sprintf("const { result } = renderHook(() => %s(), { wrapper })", exp.Name),
				indent+indent+`expect(result.current).toEqual("{}")`,
				indent+"})",
				"})",
				"")
		case IsHook(exp.Name):
			f.Imports.Add(Import{From: "@testing-library/react", Named: []string{"screen", "render"}})
			f.Add(fmt.Sprintf(`describe("%s", () => {`, exp.Name),
				"",
				indent+"function UseHook() {",
				indent+indent+fmt.Sprintf("const { data } = %s()", exp.Name),
				indent+indent+`return <div data-testid="result">{JSON.stringify(data)}</div>`,
				indent+"}",
				"",
				indent+`it("should ...", () => {`,
				indent+indent+"render(<UseHook />)",
				indent+indent+`expect(screen.getByTestId("result").innerHTML).toEqual("{}")`,
				indent+"})",
				"})",
				"")
		default:
			f.Imports.Add(Import{From: "@testing-library/react", Named: []string{"screen", "render"}})
			async := ""
			if strings.Contains(screenFn, "await ") {
				async = "async "
			}
			f.Add(fmt.Sprintf(`describe("<%s />", () => {`, exp.Name),
				indent+fmt.Sprintf(`it("should ...", %s() => {`, async),
				indent+indent+fmt.Sprintf("render(<%s />)", exp.Name),
				indent+indent+fmt.Sprintf("expect(%s).toBeInTheDocument()", screenFn),
				indent+"})",
				"})",
				"")
		}
	}
	return f.Render()
}

// IsHook reports whether name follows the React hook naming convention.
func IsHook(name string) bool {
	return strings.HasPrefix(name, "use")
}
