// Package cli provides the scaffold command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/specvital/scaffold/pkg/config"
	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/prompt"
	"github.com/specvital/scaffold/pkg/scaffold"
	"github.com/specvital/scaffold/pkg/source"
)

const (
	rootFlagName         = "root"
	pickFlagName         = "pick"
	noOpenFlagName       = "no-open"
	editorFlagName       = "editor"
	testLocationFlagName = "test-location"
	verboseFlagName      = "verbose"
	logFileFlagName      = "log-file"
)

const rootLongDescription = `Scaffold generates test files and mock data for TypeScript and
JavaScript sources.

Test files are placed according to the configured test location, import the
source's exports and start with one describe block per export. Mocks flatten a
type alias, including intersections and imported aliases, into a constant
with placeholder values.

Settings are read from .scaffold.yaml in the workspace root and from
SCAFFOLD_* environment variables.`

// app carries the state shared by all commands of one invocation.
type app struct {
	v *viper.Viper

	root    string
	picks   []string
	noOpen  bool
	verbose bool
	logFile string

	stdin *os.File
	cfg   config.Config
}

// NewRootCmd builds the command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), stdin: os.Stdin}
	config.SetDefaults(a.v)

	cmd := &cobra.Command{
		Use:           "scaffold",
		Short:         "Generate TypeScript test scaffolds and mocks",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	a.configureRootFlags(cmd)

	cmd.AddCommand(
		newTestCmd(a),
		newSourceCmd(a),
		newMockCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newAnalyzeCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&a.root, rootFlagName, "", "workspace root (default: the enclosing git worktree, else the current directory)")
	flags.StringArrayVar(&a.picks, pickFlagName, nil, `answer prompts without a terminal; "-" cancels (can be repeated)`)
	flags.BoolVar(&a.noOpen, noOpenFlagName, false, "print generated paths instead of opening them")
	flags.BoolVarP(&a.verbose, verboseFlagName, "v", false, "log at debug level")
	flags.StringVar(&a.logFile, logFileFlagName, "", "log file (default: .scaffold.log in the workspace root)")

	flags.String(editorFlagName, "", "editor command used to open files (default: $VISUAL or $EDITOR)")
	a.bindFlagToConfig(flags.Lookup(editorFlagName), config.KeyEditor)

	flags.String(testLocationFlagName, "", fmt.Sprintf("test location policy, one of %q", domain.TestLocations))
	a.bindFlagToConfig(flags.Lookup(testLocationFlagName), config.KeyTestLocation)

	a.bindFlagToConfig(flags.Lookup(verboseFlagName), config.KeyLogVerbose)
}

const configKeyAnnotation = "scaffold_config_key"

// bindFlagToConfig marks a flag as the source of a viper key. Only the
// flags of the executing command are bound, see bindFlags.
func (a *app) bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = make(map[string][]string)
	}
	flag.Annotations[configKeyAnnotation] = []string{key}
}

// bindFlags wires the flags of cmd, including inherited ones, to viper so
// config and env values feed them.
func (a *app) bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		keys, ok := flag.Annotations[configKeyAnnotation]
		if !ok || err != nil {
			return
		}
		err = a.v.BindPFlag(keys[0], flag)
	})
	return err
}

// load resolves the workspace root, reads the config file and sets up logging.
// paths makes relative file arguments absolute against the working
// directory. Patterns stay relative to the workspace root.
func paths(args []string) ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "get working directory")
	}

	out := make([]string, len(args))
	for i, arg := range args {
		switch {
		case filepath.IsAbs(arg), scaffold.IsPattern(filepath.ToSlash(arg)):
			out[i] = arg
		default:
			out[i] = filepath.Join(wd, arg)
		}
	}
	return out, nil
}

func (a *app) load(cmd *cobra.Command) error {
	if err := a.bindFlags(cmd); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if a.root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "get working directory")
		}
		if a.root, err = source.DetectRoot(wd); err != nil {
			return err
		}
	}
	root, err := filepath.Abs(a.root)
	if err != nil {
		return errors.Wrapf(err, "resolve workspace root %s", a.root)
	}
	a.root = root

	if err := config.Load(a.v, a.root); err != nil {
		return err
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logPath := a.logFile
	if logPath == "" {
		logPath = cfg.Log.Filename
	}
	if logPath != "" && !filepath.IsAbs(logPath) {
		logPath = filepath.Join(a.root, logPath)
	}
	configureLogger(cfg.Log, logPath, a.verbose || cfg.Log.Verbose)

	slog.Debug("configuration loaded",
		"root", a.root,
		"config", a.v.ConfigFileUsed(),
		"test_location", string(cfg.TestLocation),
		"command", cmd.Name(),
	)
	return nil
}

// scaffolder wires a Scaffolder for the loaded configuration.
func (a *app) scaffolder(cmd *cobra.Command) (*scaffold.Scaffolder, error) {
	src, err := source.NewLocalSource(a.root)
	if err != nil {
		return nil, err
	}

	return scaffold.New(a.cfg, src,
		scaffold.WithChooser(prompt.NewChooser(a.stdin, a.picks)),
		scaffold.WithOpener(a.opener(cmd.OutOrStdout())),
		scaffold.WithLogger(slog.Default()),
	)
}

func (a *app) opener(w io.Writer) prompt.Opener {
	if !a.noOpen && prompt.IsInteractive(a.stdin) {
		if editor := prompt.NewEditorOpener(a.cfg.Editor); editor != nil {
			return editor
		}
	}
	return prompt.NewPrintOpener(w)
}

// report prints the outcome of a single request.
func report(w io.Writer, res scaffold.Result) {
	switch res.Outcome {
	case domain.OutcomeCreated:
		pterm.Success.WithWriter(w).Printfln("created %s", res.Target)
	case domain.OutcomeAppended:
		pterm.Success.WithWriter(w).Printfln("appended to %s", res.Target)
	case domain.OutcomeExisting:
		pterm.Info.WithWriter(w).Printfln("%s already exists", res.Target)
	case domain.OutcomeOpenedSource:
		pterm.Info.WithWriter(w).Printfln("source of %s is %s", res.Source, res.Target)
	case domain.OutcomeSkipped:
		pterm.Warning.WithWriter(w).Printfln("nothing to generate for %s", res.Source)
	}
}

// Execute runs the command tree and exits non-zero on failure.
// A dismissed prompt is not a failure.
func Execute() {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err == nil || domain.IsQuiet(err) {
		return
	}

	printError(cmd.ErrOrStderr(), err)
	os.Exit(1)
}

func printError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
}
