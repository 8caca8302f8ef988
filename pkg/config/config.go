// Package config builds the immutable configuration snapshot handed to each
// scaffold operation.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/generate"
	"github.com/specvital/scaffold/pkg/location"
)

const (
	// FileBaseName is the config file name without extension.
	FileBaseName = ".scaffold"
	// FileName is the config file written by `scaffold init`.
	FileName = FileBaseName + ".yaml"
	// EnvPrefix prefixes environment overrides, e.g. SCAFFOLD_TEST_LOCATION.
	EnvPrefix = "SCAFFOLD"

	KeyTestLocation       = "test_location"
	KeyTestDirectoryName  = "test_directory_name"
	KeySourceRoot         = "source_root"
	KeyTestRoot           = "test_root"
	KeyScreenTestFunction = "screen_test_function"
	KeyMockDirectoryName  = "mock_directory_name"
	KeyEditor             = "editor"

	KeyBatchWorkers = "batch.workers"
	KeyBatchTimeout = "batch.timeout"
	KeyBatchExclude = "batch.exclude"

	KeyLogFilename   = "log.filename"
	KeyLogLevel      = "log.level"
	KeyLogVerbose    = "log.verbose"
	KeyLogMaxSize    = "log.max_size"
	KeyLogMaxBackups = "log.max_backups"
	KeyLogMaxAge     = "log.max_age"
	KeyLogCompress   = "log.compress"

	capabilitiesKey    = "capabilities"
	capabilitiesPrefix = capabilitiesKey + "."

	DefaultTestLocation      = domain.SameDirectory
	DefaultMockDirectoryName = "__mocks__"
	DefaultBatchTimeout      = 5 * time.Minute
	DefaultLogFilename       = ".scaffold.log"
	DefaultLogLevel          = "info"
	DefaultLogMaxSize        = 10
	DefaultLogMaxBackups     = 3
	DefaultLogMaxAge         = 28
)

// Log configures the rotating log file.
type Log struct {
	Filename   string `yaml:"filename"`
	Level      string `yaml:"level"`
	Verbose    bool   `yaml:"verbose"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Batch configures multi-file generation.
type Batch struct {
	Workers int           `yaml:"workers" validate:"gte=0"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0s"`
	Exclude []string      `yaml:"exclude"`
}

// Config is a validated configuration snapshot. It is never mutated after
// FromViper returns.
type Config struct {
	TestLocation       domain.TestLocation `yaml:"test_location" validate:"test_location"`
	TestDirectoryName  string              `yaml:"test_directory_name" validate:"folder_name"`
	SourceRoot         string              `yaml:"source_root" validate:"folder_name"`
	TestRoot           string              `yaml:"test_root" validate:"folder_name"`
	ScreenTestFunction string              `yaml:"screen_test_function" validate:"required"`
	MockDirectoryName  string              `yaml:"mock_directory_name" validate:"folder_name"`
	Editor             string              `yaml:"editor,omitempty"`
	// Capabilities force manifest flags on or off, keyed by capability name.
	Capabilities map[string]bool `yaml:"capabilities,omitempty" validate:"dive,keys,capability,endkeys"`
	Batch        Batch           `yaml:"batch"`
	Log          Log             `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TestLocation:       DefaultTestLocation,
		TestDirectoryName:  location.DefaultTestDirectoryName,
		SourceRoot:         location.DefaultSourceRoot,
		TestRoot:           location.DefaultTestRoot,
		ScreenTestFunction: generate.DefaultScreenTestFunction,
		MockDirectoryName:  DefaultMockDirectoryName,
		Batch: Batch{
			Timeout: DefaultBatchTimeout,
		},
		Log: Log{
			Filename:   DefaultLogFilename,
			Level:      DefaultLogLevel,
			MaxSize:    DefaultLogMaxSize,
			MaxBackups: DefaultLogMaxBackups,
			MaxAge:     DefaultLogMaxAge,
			Compress:   true,
		},
	}
}

// SetDefaults registers defaults, the env prefix and the config file lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetConfigName(FileBaseName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeyTestLocation, string(d.TestLocation))
	v.SetDefault(KeyTestDirectoryName, d.TestDirectoryName)
	v.SetDefault(KeySourceRoot, d.SourceRoot)
	v.SetDefault(KeyTestRoot, d.TestRoot)
	v.SetDefault(KeyScreenTestFunction, d.ScreenTestFunction)
	v.SetDefault(KeyMockDirectoryName, d.MockDirectoryName)
	v.SetDefault(KeyEditor, "")

	v.SetDefault(KeyBatchWorkers, d.Batch.Workers)
	v.SetDefault(KeyBatchTimeout, d.Batch.Timeout)
	v.SetDefault(KeyBatchExclude, []string{})

	v.SetDefault(KeyLogFilename, d.Log.Filename)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogVerbose, d.Log.Verbose)
	v.SetDefault(KeyLogMaxSize, d.Log.MaxSize)
	v.SetDefault(KeyLogMaxBackups, d.Log.MaxBackups)
	v.SetDefault(KeyLogMaxAge, d.Log.MaxAge)
	v.SetDefault(KeyLogCompress, d.Log.Compress)
}

// Load reads the config file found in dir, if any. A missing file is not an error.
func Load(v *viper.Viper, dir string) error {
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Mark(errors.Wrap(err, "read config"), domain.ErrConfiguration)
	}
	return nil
}

// FromViper builds and validates a snapshot.
func FromViper(v *viper.Viper) (Config, error) {
	policy, err := domain.ParseTestLocation(strings.TrimSpace(v.GetString(KeyTestLocation)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		TestLocation:       policy,
		TestDirectoryName:  v.GetString(KeyTestDirectoryName),
		SourceRoot:         v.GetString(KeySourceRoot),
		TestRoot:           v.GetString(KeyTestRoot),
		ScreenTestFunction: v.GetString(KeyScreenTestFunction),
		MockDirectoryName:  v.GetString(KeyMockDirectoryName),
		Editor:             v.GetString(KeyEditor),
		Capabilities:       capabilityOverrides(v),
		Batch: Batch{
			Workers: v.GetInt(KeyBatchWorkers),
			Timeout: v.GetDuration(KeyBatchTimeout),
			Exclude: nonEmpty(v.GetStringSlice(KeyBatchExclude)),
		},
		Log: Log{
			Filename:   v.GetString(KeyLogFilename),
			Level:      v.GetString(KeyLogLevel),
			Verbose:    v.GetBool(KeyLogVerbose),
			MaxSize:    v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAge:     v.GetInt(KeyLogMaxAge),
			Compress:   v.GetBool(KeyLogCompress),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Layout returns the test layout for a workspace root.
func (c Config) Layout(root string) location.Layout {
	return location.Layout{
		Root:              root,
		Policy:            c.TestLocation,
		TestDirectoryName: c.TestDirectoryName,
		SourceRoot:        c.SourceRoot,
		TestRoot:          c.TestRoot,
	}
}

// Marshal renders c as a config file.
func (c Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return out, nil
}

var capabilitySetters = map[string]func(*domain.ProjectCapabilities, bool){
	"i18next":                     func(c *domain.ProjectCapabilities, v bool) { c.I18next = v },
	"jest":                        func(c *domain.ProjectCapabilities, v bool) { c.Jest = v },
	"mocha":                       func(c *domain.ProjectCapabilities, v bool) { c.Mocha = v },
	"react":                       func(c *domain.ProjectCapabilities, v bool) { c.React = v },
	"render_hook":                 func(c *domain.ProjectCapabilities, v bool) { c.RenderHook = v },
	"testing_library_react":       func(c *domain.ProjectCapabilities, v bool) { c.TestingLibraryReact = v },
	"testing_library_react_hooks": func(c *domain.ProjectCapabilities, v bool) { c.TestingLibraryReactHooks = v },
	"vitest":                      func(c *domain.ProjectCapabilities, v bool) { c.Vitest = v },
}

func capabilityOverrides(v *viper.Viper) map[string]bool {
	out := make(map[string]bool)
	for name := range v.GetStringMap(capabilitiesKey) {
		out[name] = v.GetBool(capabilitiesPrefix + name)
	}
	for name := range capabilitySetters {
		key := capabilitiesPrefix + name
		if v.IsSet(key) {
			out[name] = v.GetBool(key)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ApplyCapabilities returns caps with the configured overrides applied.
func (c Config) ApplyCapabilities(caps domain.ProjectCapabilities) domain.ProjectCapabilities {
	for name, value := range c.Capabilities {
		if set, ok := capabilitySetters[name]; ok {
			set(&caps, value)
		}
	}
	return caps
}

func nonEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}
