package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/specvital/scaffold/pkg/domain"
)

const (
	formatFlagName = "format"
	typeFlagName   = "type"

	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// analysis is the printable result of the analyze command.
type analysis struct {
	Path         string                     `json:"path" yaml:"path"`
	Capabilities domain.ProjectCapabilities `json:"capabilities" yaml:"capabilities"`
	Model        *domain.SourceModel        `json:"model,omitempty" yaml:"model,omitempty"`
	Shape        *domain.ResolvedTypeShape  `json:"shape,omitempty" yaml:"shape,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var format, typeName string

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Show what scaffold sees in a source file",
		Long: `Show the exports, imports and type declarations of a source file together
with the capabilities read from the nearest package.json. With --type the
resolved property map of that type is shown instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			files, err := paths(args)
			if err != nil {
				return err
			}
			file := files[0]

			out := analysis{Path: args[0]}
			if out.Capabilities, err = s.Capabilities(ctx, file); err != nil {
				return err
			}
			if typeName != "" {
				out.Shape, err = s.ResolveType(ctx, file, typeName)
			} else {
				out.Model, err = s.Analyze(ctx, file)
			}
			if err != nil {
				return err
			}

			return printAnalysis(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringVarP(&format, formatFlagName, "f", formatTable, "output format: table, yaml or json")
	cmd.Flags().StringVarP(&typeName, typeFlagName, "t", "", "resolve this type alias instead of listing declarations")
	return cmd
}

func printAnalysis(w io.Writer, format string, out analysis) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		_, err := io.WriteString(w, renderAnalysisTable(out))
		return err
	}
	return errors.WithHintf(
		errors.Mark(errors.Newf("unknown format %q", format), domain.ErrValidation),
		"use one of %s, %s, %s", formatTable, formatYAML, formatJSON,
	)
}

func renderAnalysisTable(out analysis) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)

	switch {
	case out.Shape != nil:
		table.SetHeader([]string{"Property", "Kind", "Name"})
		for _, key := range out.Shape.Keys() {
			p := out.Shape.Properties[key]
			kind := string(p.Kind)
			if p.Element != nil {
				kind += "[" + string(p.Element.Kind) + "]"
			}
			table.Append([]string{key, kind, p.Name})
		}
		for _, name := range out.Shape.Placeholders {
			table.Append([]string{"", "unresolved", name})
		}
	case out.Model != nil:
		table.SetHeader([]string{"Declaration", "Kind", "Detail"})
		for _, exp := range out.Model.Exports {
			detail := "export"
			if exp.IsDefaultExport {
				detail = "export default"
			}
			table.Append([]string{exp.Name, string(exp.Kind), detail})
		}
		for _, t := range out.Model.Types {
			detail := "local"
			if t.Exported {
				detail = "exported"
			}
			table.Append([]string{t.Name, string(t.Kind), detail})
		}
		for _, imp := range out.Model.Imports {
			table.Append([]string{imp.LocalName, "import", imp.ModulePath})
		}
	}
	table.Render()

	return fmt.Sprintf("%s\nrunner: %s\n", buf.String(), runnerName(out.Capabilities))
}

func runnerName(caps domain.ProjectCapabilities) string {
	if caps.Vitest && !caps.Jest {
		return "vitest"
	}
	if r := caps.Runner(); r != "" {
		return string(r)
	}
	return "none"
}
