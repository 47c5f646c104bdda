package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pairtrack/internal/ipc"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show board database diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DatabaseHealth()
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Database:        %s\n", resp.DBPath)
				fmt.Fprintf(stdout, "Exists:          %s\n", yesNo(resp.DatabaseExists))
				fmt.Fprintf(stdout, "Readable:        %s\n", yesNo(resp.DatabaseReadable))
				fmt.Fprintf(stdout, "Store version:   %d\n", resp.StoreVersion)
				fmt.Fprintf(stdout, "Pairs table:     %s\n", yesNo(resp.TableExists))
				fmt.Fprintf(stdout, "Integrity check: %s\n", yesNo(resp.IntegrityCheck))
				fmt.Fprintf(stdout, "Total pairs:     %d\n", resp.TotalPairs)
				if len(resp.MissingColumns) > 0 {
					fmt.Fprintf(stdout, "Missing columns: %s\n", strings.Join(resp.MissingColumns, ", "))
				}
				if resp.Error != "" {
					fmt.Fprintf(stdout, "Error:           %s\n", resp.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}
