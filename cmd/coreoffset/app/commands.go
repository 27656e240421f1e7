package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/coreoffset"
	"github.com/agentstation/coreoffset/internal/cmd/output"
	"github.com/agentstation/coreoffset/internal/cmd/table"
	"github.com/agentstation/coreoffset/pkg/emitter"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/logging"
	"github.com/agentstation/coreoffset/pkg/provenance"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// runGenerate reconciles the docs tree and prints the document and the
// array. Output is buffered so a failing run prints nothing.
func (a *App) runGenerate(cmd *cobra.Command, args []string) error {
	ctx := a.runContext(cmd.Context())
	logger := logging.FromContext(ctx)

	if err := a.applyGenerateFlags(cmd); err != nil {
		return err
	}
	co, err := a.CoreOffset(coreoffset.WithFormat(emitter.Format(a.config.DocumentFormat)))
	if err != nil {
		return err
	}

	ctx = logging.WithOperation(ctx, "generate")
	logging.FromContext(ctx).Debug().Str("docs_dir", args[0]).Msg("Reading documentation tree")

	var buf bytes.Buffer
	result, err := co.Generate(ctx, args[0], &buf)
	if err != nil {
		return err
	}
	if err := a.writeArtifacts(ctx, result); err != nil {
		return err
	}

	if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
		return errors.WrapIO("write", "stdout", err)
	}

	logger.Debug().
		Int("models", result.Map.Len()).
		Int("mismatches", len(result.Mismatches)).
		Dur("duration", result.Metadata.Duration).
		Msg("Generated core offset table")
	return nil
}

// applyGenerateFlags copies explicitly set generation flags into the config.
func (a *App) applyGenerateFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		return errors.NewValidationError("format", mustGetString(cmd, "format"),
			"selects inspection output; use --document-format for the generated document")
	}
	if flags.Changed("document-format") {
		a.config.DocumentFormat = mustGetString(cmd, "document-format")
	}
	if flags.Changed("array-name") {
		a.config.ArrayName = mustGetString(cmd, "array-name")
	}
	if flags.Changed("collation") {
		a.config.Collation.Mode = mustGetString(cmd, "collation")
	}
	if flags.Changed("locale") {
		a.config.Collation.Locale = mustGetString(cmd, "locale")
	}
	if flags.Changed("metrics-file") {
		a.config.MetricsFile = mustGetString(cmd, "metrics-file")
	}
	return a.config.Validate()
}

// reconcile runs the pipeline over docsDir.
func (a *App) reconcile(ctx context.Context, docsDir string) (*reconciler.Result, error) {
	ctx = logging.WithOperation(ctx, "reconcile")
	logging.FromContext(ctx).Debug().Str("docs_dir", docsDir).Msg("Reading documentation tree")
	co, err := a.CoreOffset()
	if err != nil {
		return nil, err
	}
	return co.Reconcile(ctx, docsDir)
}

// writeArtifacts writes the optional metrics and provenance files.
func (a *App) writeArtifacts(ctx context.Context, result *reconciler.Result) error {
	logger := logging.FromContext(ctx)

	if path := a.config.MetricsFile; path != "" {
		m := a.Metrics()
		m.Record(result)
		if err := m.WriteTextfile(path); err != nil {
			return err
		}
		logger.Debug().Str("path", path).Msg("Wrote metrics")
	}

	if path := a.config.ProvenanceFile; path != "" {
		if err := provenance.Save(afero.NewOsFs(), path, result.Provenance); err != nil {
			return err
		}
		logger.Debug().Str("path", path).Msg("Wrote provenance")
	}

	return nil
}

// inspectFormat resolves the output format of an inspection command.
func (a *App) inspectFormat(w io.Writer) (output.Format, error) {
	return output.ParseFormat(string(output.DetectFormat(a.config.Format, w)))
}

// NewModelsCommand creates the models command.
func (a *App) NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "models <docs-dir>",
		GroupID: "inspect",
		Short:   "List every model with its merged core temperature key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.inspectFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := a.reconcile(a.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), format,
				table.ModelsToTableData(result.Map, result.Mismatches), result)
		},
	}
}

// NewConflictsCommand creates the conflicts command.
func (a *App) NewConflictsCommand() *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:     "conflicts <docs-dir>",
		GroupID: "inspect",
		Short:   "List every value mismatch between the sources",
		Long: `Conflicts lists each observation that disagreed with the value already
recorded for a model, in the order the sources were read (dumps, firmware
database, iStat), together with how it was resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.inspectFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := a.reconcile(a.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}

			mismatches := result.Mismatches
			if mismatches == nil {
				mismatches = []reconciler.Mismatch{}
			}
			if err := output.Write(cmd.OutOrStdout(), format, table.MismatchesToTableData(mismatches), mismatches); err != nil {
				return err
			}
			if showStats {
				return output.Write(cmd.OutOrStdout(), format, table.StatsToTableData(result.Metadata), result.Metadata)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showStats, "stats", false, "also print run statistics")
	return cmd
}

// NewExplainCommand creates the explain command.
func (a *App) NewExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "explain [docs-dir] <model>",
		GroupID: "inspect",
		Short:   "Show how a model's value was decided",
		Long: `Explain prints every observation of one model: which source reported
which value and whether it was inserted, confirmed, superseded or
suppressed. The arrow marks the observation that set the final value.

With a single argument the history is read from --provenance-file, as
written by a previous generation run.`,
		Example: `  coreoffset explain ./docs MacBookPro15,1
  coreoffset --provenance-file history.yaml explain MacBookPro15,1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.inspectFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx := a.runContext(cmd.Context())
			model := args[len(args)-1]

			var history provenance.Map
			if len(args) == 2 {
				result, err := a.reconcile(ctx, args[0])
				if err != nil {
					return err
				}
				history = result.Provenance
			} else {
				history, err = a.loadProvenance()
				if err != nil {
					return err
				}
			}

			entries, ok := history[model]
			if !ok {
				return errors.NewNotFoundError("model", model)
			}
			return output.Write(cmd.OutOrStdout(), format,
				table.ProvenanceToTableData(provenance.Map{model: entries}, time.Now()), entries)
		},
	}
}

// loadProvenance reads the configured provenance file.
func (a *App) loadProvenance() (provenance.Map, error) {
	path := a.config.ProvenanceFile
	if path == "" {
		return nil, errors.NewValidationError("provenance-file", path, "required when no docs directory is given")
	}
	file, err := provenance.Load(afero.NewOsFs(), path)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errors.WrapIO("read", path, errors.NewNotFoundError("file", path))
	}
	return file.Provenance, nil
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "coreoffset version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// NewManCommand creates the hidden man page generator.
func (a *App) NewManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "COREOFFSET",
				Section: "1",
				Source:  "coreoffset " + a.version,
				Manual:  "coreoffset Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
