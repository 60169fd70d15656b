package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nzdialect/internal/output"
	"nzdialect/internal/schemafile"
	"nzdialect/internal/script"
)

func newDDLCmd(a *app) *cobra.Command {
	var (
		outFile         string
		rollbackOutFile string
		format          string
		opts            script.Options
	)

	cmd := &cobra.Command{
		Use:   "ddl <schema.toml>",
		Short: "Generate CREATE TABLE statements from a TOML schema",
		Long: `Generates one CREATE TABLE statement per table of a TOML schema file,
including the primary key and the DISTRIBUTE ON clause.

Columns whose type has no Netezza mapping fail the command unless
--skip-unsupported is given, in which case they are left out and listed
in the script header.

Examples:
  nzdialect ddl schema.toml
  nzdialect ddl schema.toml --skip-unsupported -o create.sql -r drop.sql
  nzdialect ddl schema.toml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := schemafile.NewParser().ParseFile(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("parsed schema file", slog.String("path", args[0]), slog.Int("tables", len(db.Tables)))

			s, err := script.Build(db, opts)
			if err != nil {
				return err
			}
			for _, note := range s.UnresolvedNotes() {
				a.logger.Warn(note)
			}

			outFormat := a.format(format, string(output.FormatSQL))
			formatter, err := output.NewFormatter(outFormat)
			if err != nil {
				return err
			}
			formatted, err := formatter.FormatScript(s)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			if err := writeResult(cmd, outFormat, outFile, formatted); err != nil {
				return err
			}

			if rollbackOutFile != "" {
				if err := os.WriteFile(rollbackOutFile, []byte(output.FormatRollbackSQL(s)), 0644); err != nil {
					return fmt.Errorf("failed to write rollback output: %w", err)
				}
				printInfo(cmd, outFormat, fmt.Sprintf("Rollback saved to %s", rollbackOutFile))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file for the generated SQL")
	cmd.Flags().StringVarP(&rollbackOutFile, "rollback-output", "r", "", "Output file for the DROP statements (run separately)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: sql, json or summary")
	cmd.Flags().BoolVar(&opts.SkipUnsupported, "skip-unsupported", false, "Leave out columns with unsupported types instead of failing")
	cmd.Flags().BoolVar(&opts.DropFirst, "drop-first", false, "Emit DROP TABLE before every CREATE TABLE")
	return cmd
}
