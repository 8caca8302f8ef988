package cli

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/scaffold"
)

const (
	workersFlagName = "workers"
	timeoutFlagName = "timeout"
	excludeFlagName = "exclude"
)

const batchLongDescription = `Create test files for many sources at once.

Arguments are source files and directories, relative to the current
directory, or doublestar patterns relative to the workspace root, e.g.
"src/**/*.ts". Without arguments the whole workspace is scanned. Every export is covered, nothing is opened and existing test
files are left alone.`

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Create test files for every source under the given paths",
		Long:  batchLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}

			targets := []string{a.root}
			if len(args) > 0 {
				if targets, err = paths(args); err != nil {
					return err
				}
			}

			files, discoveryErrs := s.Discover(cmd.Context(), targets)
			res, err := s.CreateTests(cmd.Context(), files)
			if res != nil {
				res.Errors = append(discoveryErrs, res.Errors...)
				res.Stats.Failed += len(discoveryErrs)
				fmt.Fprint(cmd.OutOrStdout(), renderBatchTable(a.root, res))
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range res.Errors {
				pterm.Warning.WithWriter(w).Println(e.Error())
			}
			if res.Stats.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", res.Stats.Failed, res.Stats.Discovered+len(discoveryErrs))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int(workersFlagName, 0, "files processed in parallel (default: number of CPUs)")
	a.bindFlagToConfig(flags.Lookup(workersFlagName), config.KeyBatchWorkers)
	flags.Duration(timeoutFlagName, config.DefaultBatchTimeout, "timeout for the whole batch")
	a.bindFlagToConfig(flags.Lookup(timeoutFlagName), config.KeyBatchTimeout)
	flags.StringArrayP(excludeFlagName, "x", nil, "exclude files matching a doublestar pattern (can be repeated)")
	a.bindFlagToConfig(flags.Lookup(excludeFlagName), config.KeyBatchExclude)

	return cmd
}

func renderBatchTable(root string, res *scaffold.BatchResult) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Source", "Outcome", "Target"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, r := range res.Results {
		table.Append([]string{relative(root, r.Source), string(r.Outcome), relative(root, r.Target)})
	}
	for _, e := range res.Errors {
		table.Append([]string{relative(root, e.Path), "failed", ""})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(res.Results)+len(res.Errors)),
		fmt.Sprintf("created %d", res.Stats.Created),
		fmt.Sprintf("failed %d", res.Stats.Failed),
	})
	table.Render()
	return buf.String()
}

func relative(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
