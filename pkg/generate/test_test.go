package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/scaffold/pkg/domain"
)

func fn(name string) domain.ExportedDeclaration {
	return domain.ExportedDeclaration{Name: name, Kind: domain.DeclarationFunction, Exported: true}
}

func TestTypeScriptTest_Westeros(t *testing.T) {
	got := TypeScriptTest(TestInput{
		Exports:         []domain.ExportedDeclaration{fn("jon")},
		SourceSpecifier: "../westeros",
		Capabilities:    domain.ProjectCapabilities{Jest: true},
	})

	assert.Equal(t, `import { jon } from "../westeros"

describe("jon", () => {
    it("should ...", () => {
        expect(jon()).toEqual(null)
    })
})
`, got)
}

func TestTypeScriptTest_Runners(t *testing.T) {
	exports := []domain.ExportedDeclaration{
		fn("jon"),
		{Name: "House", Kind: domain.DeclarationEnum},
		{Name: "winter", Kind: domain.DeclarationVariable, IsDefaultExport: true},
	}

	tests := []struct {
		name     string
		caps     domain.ProjectCapabilities
		contains []string
	}{
		{
			name: "jest",
			caps: domain.ProjectCapabilities{Jest: true},
			contains: []string{
				`import winter, { jon, House } from "./westeros"`,
				"expect(jon()).toEqual(null)",
				"expect(Object.keys(House).length).toBeGreaterThan(0)",
				"expect(winter).toBeDefined()",
			},
		},
		{
			name: "vitest",
			caps: domain.ProjectCapabilities{Vitest: true},
			contains: []string{
				`import { describe, it, expect } from "vitest"`,
				"expect(jon()).toEqual(null)",
			},
		},
		{
			name: "mocha",
			caps: domain.ProjectCapabilities{Mocha: true},
			contains: []string{
				`import assert from "node:assert"`,
				"assert.strictEqual(jon(), null)",
				"assert.ok(Object.keys(House).length > 0)",
				"assert.notStrictEqual(winter, undefined)",
			},
		},
		{
			name:     "no runner",
			caps:     domain.ProjectCapabilities{},
			contains: []string{"// todo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TypeScriptTest(TestInput{Exports: exports, SourceSpecifier: "./westeros", Capabilities: tt.caps})
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestReactTest_Component(t *testing.T) {
	got := ReactTest(TestInput{
		Exports:         []domain.ExportedDeclaration{{Name: "Button", Kind: domain.DeclarationFunction, IsDefaultExport: true}},
		SourceSpecifier: "./Button",
		Capabilities:    domain.ProjectCapabilities{Jest: true, TestingLibraryReact: true},
	})

	assert.Equal(t, `import Button from "./Button"
import { screen, render } from "@testing-library/react"

describe("<Button />", () => {
    it("should ...", () => {
        render(<Button />)
        expect(screen.getByText("")).toBeInTheDocument()
    })
})
`, got)
}

func TestReactTest_AsyncScreenFunction(t *testing.T) {
	got := ReactTest(TestInput{
		Exports:            []domain.ExportedDeclaration{fn("Button")},
		SourceSpecifier:    "./Button",
		Capabilities:       domain.ProjectCapabilities{TestingLibraryReact: true},
		ScreenTestFunction: `await screen.findByText("")`,
	})

	assert.Contains(t, got, `it("should ...", async () => {`)
	assert.Contains(t, got, `expect(await screen.findByText("")).toBeInTheDocument()`)
}

func TestReactTest_Hooks(t *testing.T) {
	tests := []struct {
		name        string
		caps        domain.ProjectCapabilities
		contains    []string
		notContains []string
	}{
		{
			name: "react-hooks package",
			caps: domain.ProjectCapabilities{TestingLibraryReact: true, TestingLibraryReactHooks: true},
			contains: []string{
				`import { ReactNode } from "react"`,
				`import { renderHook } from "@testing-library/react-hooks"`,
				"const { result } = renderHook(() => useCounter(), { wrapper })",
			},
		},
		{
			name: "renderHook from testing library",
			caps: domain.ProjectCapabilities{TestingLibraryReact: true, RenderHook: true},
			contains: []string{
				`import { renderHook } from "@testing-library/react"`,
			},
			notContains: []string{"react-hooks"},
		},
		{
			name: "harness component",
			caps: domain.ProjectCapabilities{TestingLibraryReact: true},
			contains: []string{
				"function UseHook() {",
				"const { data } = useCounter()",
				"render(<UseHook />)",
			},
			notContains: []string{"renderHook"},
		},
		{
			name:     "no testing library",
			caps:     domain.ProjectCapabilities{Jest: true},
			contains: []string{`describe("<useCounter />", () => {`, "// todo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReactTest(TestInput{
				Exports:         []domain.ExportedDeclaration{fn("useCounter")},
				SourceSpecifier: "../hooks/useCounter",
				Capabilities:    tt.caps,
			})
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestForLanguage(t *testing.T) {
	in := TestInput{Exports: []domain.ExportedDeclaration{fn("Button")}, SourceSpecifier: "./Button"}
	assert.Contains(t, ForLanguage(domain.LanguageTSX).Generate(in), "<Button />")
	assert.NotContains(t, ForLanguage(domain.LanguageTypeScript).Generate(in), "<Button />")
}
