package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/specvital/scaffold/pkg/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their config key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("test_location", func(fl validator.FieldLevel) bool {
		return domain.TestLocation(fl.Field().String()).Valid()
	})
	must("folder_name", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return strings.TrimSpace(name) != "" && !strings.Contains(name, "..")
	})
	must("capability", func(fl validator.FieldLevel) bool {
		_, ok := capabilitySetters[fl.Field().String()]
		return ok
	})
	return v
}

// Validate checks the policy, folder names, capability names and numeric
// limits. Failures are marked domain.ErrConfiguration.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Mark(errors.Wrap(err, "validate config"), domain.ErrConfiguration)
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) error {
	_, key, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "test_location":
		_, err := domain.ParseTestLocation(fmt.Sprint(fe.Value()))
		return err
	case "folder_name":
		return errors.WithHintf(
			errors.Wrapf(domain.ErrConfiguration, "%s: invalid folder name %q", key, fe.Value()),
			"use a plain folder name such as %q", Default().TestDirectoryName,
		)
	case "capability":
		names := make([]string, 0, len(capabilitySetters))
		for name := range capabilitySetters {
			names = append(names, name)
		}
		sort.Strings(names)
		return errors.WithHintf(
			errors.Wrapf(domain.ErrConfiguration, "%s: unknown capability %q", capabilitiesKey, fe.Value()),
			"known capabilities: %s", strings.Join(names, ", "),
		)
	case "required":
		return errors.Wrapf(domain.ErrConfiguration, "%s must not be empty", key)
	}

	if fe.Param() != "" {
		return errors.Wrapf(domain.ErrConfiguration, "%s: %v fails %s=%s", key, fe.Value(), fe.Tag(), fe.Param())
	}
	return errors.Wrapf(domain.ErrConfiguration, "%s: %v fails %s", key, fe.Value(), fe.Tag())
}
