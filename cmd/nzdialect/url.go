package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nzdialect/connect"
)

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url [url]",
		Short: "Show how a connection URL is handed to the driver",
		Long: `Parses a netezza:// URL, or the configured one, and prints the driver
name and the ODBC connection string with the password masked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := a.cfg.Connection.URL
			if len(args) == 1 {
				raw = args[0]
			}
			spec, err := connect.ParseURL(raw)
			if err != nil {
				return err
			}
			connArgs, err := spec.ConnectArgs()
			if err != nil {
				return err
			}
			if a.cfg.Connection.Driver != "" {
				connArgs.DriverName = a.cfg.Connection.Driver
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "url:      %s\n", spec)
			fmt.Fprintf(&sb, "dsn:      %s\n", spec.DSN)
			if spec.Database != "" {
				fmt.Fprintf(&sb, "database: %s\n", spec.Database)
			}
			fmt.Fprintf(&sb, "driver:   %s\n", connArgs.DriverName)
			fmt.Fprintf(&sb, "connect:  %s\n", connArgs.Redacted())
			_, err = fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
}
