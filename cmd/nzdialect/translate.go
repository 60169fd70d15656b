package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nzdialect/internal/translate"
)

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [sql]",
		Short: "Rewrite MySQL style LIMIT clauses for Netezza",
		Long: `Rewrites LIMIT offset, count as LIMIT count OFFSET offset and drops
backtick quoting. The query is read from the argument, or from stdin when
no argument is given.

Examples:
  nzdialect translate "SELECT * FROM orders LIMIT 20, 10"
  cat report.sql | nzdialect translate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read query: %w", err)
				}
				query = string(data)
			}
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("no query given")
			}

			out, err := translate.New(a.logger).Translate(query)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}
