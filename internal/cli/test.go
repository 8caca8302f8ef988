package cli

import (
	"github.com/spf13/cobra"
)

func newTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test <file>",
		Short: "Create the test file for a source file",
		Long: `Create the test file for a source file and open it.

An existing test file is opened without being changed. Given a test file,
the source it belongs to is opened instead. When the source exports more than
one declaration you choose which ones the test covers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}

			files, err := paths(args)
			if err != nil {
				return err
			}

			res, err := s.CreateTest(cmd.Context(), files[0])
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newSourceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "source <test-file>",
		Short: "Open the source file a test belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}

			files, err := paths(args)
			if err != nil {
				return err
			}

			res, err := s.OpenSource(cmd.Context(), files[0])
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newMockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mock <file> [type]",
		Short: "Create a mock constant for a type alias",
		Long: `Create a mock constant for a type alias or interface declared in file.

The mock is written to <dir>/__mocks__/<name>.mock.ts next to the source, or
appended when that file already exists. Without a type name you choose among
the file's type declarations.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scaffolder(cmd)
			if err != nil {
				return err
			}

			var typeName string
			if len(args) == 2 {
				typeName = args[1]
			}

			files, err := paths(args[:1])
			if err != nil {
				return err
			}

			res, err := s.CreateMock(cmd.Context(), files[0], typeName)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
