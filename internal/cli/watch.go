package cli

import (
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/scaffold"
)

const debounceFlagName = "debounce"

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Create test files while you write sources",
		Long: `Watch directories (default: the workspace root) and create the test file
for a source as soon as it exports something. Existing tests are never
touched. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, err := cmd.Flags().GetDuration(debounceFlagName)
			if err != nil {
				return err
			}

			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}

			dirs := []string{a.root}
			if len(args) > 0 {
				if dirs, err = paths(args); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			pterm.Info.WithWriter(w).Printfln("watching %s", a.root)
			return s.Watch(ctx, dirs, func(res scaffold.Result, err error) {
				switch {
				case err != nil:
					printError(w, err)
				case res.Outcome == domain.OutcomeCreated:
					report(w, res)
				}
			}, scaffold.WithDebounce(debounce))
		},
	}

	cmd.Flags().Duration(debounceFlagName, scaffold.DefaultDebounce, "quiet period after the last change before a file is handled")
	cmd.Flags().StringArrayP(excludeFlagName, "x", nil, "exclude files matching a doublestar pattern (can be repeated)")
	a.bindFlagToConfig(cmd.Flags().Lookup(excludeFlagName), config.KeyBatchExclude)
	return cmd
}
