package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/coreoffset/pkg/errors"
)

// Execute runs the coreoffset CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "coreoffset <docs-dir>",
		Short:   "Generate the SMC core temperature key table",
		Version: a.version,
		Long: `Coreoffset reads the SMC dumps, the SMC firmware database and the iStat
log of a documentation tree and merges them into one table of which core
temperature key (TC0C or TC1C) each Mac model exposes.

It prints the table as an XML property list followed by the C array of
models whose core temperature key is one-indexed. Conflicting sources are
reported on stderr and never change the exit status.`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runGenerate,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands:",
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.coreoffset.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "inspection output format: table, markdown, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("provenance-file", "", "write (or, for explain, read) the provenance history as YAML")

	// Generation flags
	rootCmd.Flags().String("document-format", "", "document written before the array: plist, yaml, json")
	rootCmd.Flags().String("array-name", "", "identifier of the generated C array")
	rootCmd.Flags().String("collation", "", "array ordering: standard, lexical")
	rootCmd.Flags().String("locale", "", "collation locale for --collation=standard")
	rootCmd.Flags().String("metrics-file", "", "write run metrics in the Prometheus text format to this file")

	rootCmd.SetVersionTemplate("coreoffset {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		config, err := LoadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return errors.WrapResource("load", "config", mustGetString(cmd, "config"), err)
		}
		a.config = config
	}

	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)
	if path := mustGetString(cmd, "provenance-file"); path != "" {
		a.config.ProvenanceFile = path
	}

	if !a.fixedLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
	}

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewModelsCommand())
	rootCmd.AddCommand(a.NewConflictsCommand())
	rootCmd.AddCommand(a.NewExplainCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
	rootCmd.AddCommand(a.NewManCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("coreoffset: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
