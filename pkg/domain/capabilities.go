package domain

// Runner is the test-runner family a project uses.
type Runner string

// Runner families. Vitest is API compatible with Jest and shares its family.
const (
	RunnerJest  Runner = "jest"
	RunnerMocha Runner = "mocha"
	RunnerNone  Runner = ""
)

// ProjectCapabilities are the testing and UI libraries found in the nearest
// package manifest.
type ProjectCapabilities struct {
	// ManifestPath is the package.json the flags were read from, empty when
	// none was found.
	ManifestPath string `json:"manifestPath,omitempty" yaml:"manifestPath,omitempty"`

	I18next                  bool `json:"i18next" yaml:"i18next"`
	Jest                     bool `json:"jest" yaml:"jest"`
	Mocha                    bool `json:"mocha" yaml:"mocha"`
	React                    bool `json:"react" yaml:"react"`
	TestingLibraryReact      bool `json:"testingLibraryReact" yaml:"testingLibraryReact"`
	TestingLibraryReactHooks bool `json:"testingLibraryReactHooks" yaml:"testingLibraryReactHooks"`
	Vitest                   bool `json:"vitest" yaml:"vitest"`

	// RenderHook is set when @testing-library/react itself ships renderHook
	// (13.1 and later).
	RenderHook bool `json:"renderHook" yaml:"renderHook"`
}

// Runner returns the detected runner family. Jest wins when both are present.
func (c ProjectCapabilities) Runner() Runner {
	switch {
	case c.Jest || c.Vitest:
		return RunnerJest
	case c.Mocha:
		return RunnerMocha
	default:
		return RunnerNone
	}
}

// HookRenderer reports whether hooks can be tested with renderHook.
func (c ProjectCapabilities) HookRenderer() bool {
	return c.TestingLibraryReactHooks || c.RenderHook
}
