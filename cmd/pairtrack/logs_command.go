package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairtrack/internal/ipc"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent daemon log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				limit := lines
				if limit < 0 {
					limit = 0
				}
				offset := int64(-1)
				if limit == 0 {
					offset = 0
				}

				stdout := cmd.OutOrStdout()
				for {
					resp, err := client.LogTail(ipc.LogTailRequest{
						Offset:     offset,
						Limit:      limit,
						Follow:     follow,
						WaitMillis: 1000,
					})
					if err != nil {
						return err
					}
					for _, line := range resp.Lines {
						fmt.Fprintln(stdout, line)
					}
					if !follow {
						if len(resp.Lines) == 0 {
							fmt.Fprintln(stdout, "No log lines available")
						}
						return nil
					}
					offset = resp.Offset
					limit = 0

					select {
					case <-cmd.Context().Done():
						return nil
					default:
					}
				}
			})
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")
	return cmd
}
