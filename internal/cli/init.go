package cli

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
)

const forceFlagName = "force"

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .scaffold.yaml with the current settings",
		Long: `Create a .scaffold.yaml in the workspace root populated with the current
settings, including flags and environment overrides, so it can be edited
manually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := filepath.Join(a.root, config.FileName)
			if _, err := os.Stat(target); err == nil && !force {
				return errors.WithHint(
					errors.Mark(errors.Newf("%s already exists", target), domain.ErrValidation),
					"pass --force to overwrite it",
				)
			}

			content, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, content, 0o644); err != nil {
				return errors.Wrap(err, "write config file")
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("wrote %s", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, forceFlagName, false, "overwrite an existing config file")
	return cmd
}
