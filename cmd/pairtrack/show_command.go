package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pairtrack/internal/board"
	"pairtrack/internal/ipc"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <pair>",
		Short: "Show details for a single pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardDescribe(pairNumber)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				printPairDetail(cmd, resp.Pair)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}

func printPairDetail(cmd *cobra.Command, pair ipc.Pair) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	fmt.Fprintf(stdout, "%s  [%s]  %s\n", board.PairFolderName(pair.PairNumber), pair.Type, colorizeStage(pair.Stage, colorize))
	fmt.Fprintf(stdout, "  Description:  %s\n", pair.Description)
	if pair.FullInstructions != "" {
		fmt.Fprintf(stdout, "  Instructions: %s\n", pair.FullInstructions)
	}
	if pair.Notes != "" {
		fmt.Fprintf(stdout, "  Notes:        %s\n", pair.Notes)
	}
	fmt.Fprintf(stdout, "  Assignee:     %s\n", assigneeLabel(pair))
	fmt.Fprintf(stdout, "  Videos:       %s\n", uploadLabel(pair))
	if pair.DueDate != "" {
		fmt.Fprintf(stdout, "  Due:          %s\n", pair.DueDate)
	}
	fmt.Fprintf(stdout, "  Delivered:    %s\n", colorizeDelivered(pair.Delivered, colorize))
	if pair.ClientFolder != "" {
		fmt.Fprintf(stdout, "  Client copy:  %s\n", pair.ClientFolder)
	}

	fmt.Fprintln(stdout, "  Checklist:")
	checks := []struct {
		name string
		done bool
	}{
		{board.CheckCameraPosition, pair.QAChecklist.CameraPosition},
		{board.CheckLighting, pair.QAChecklist.Lighting},
		{board.CheckOneChange, pair.QAChecklist.OneChange},
		{board.CheckDuration, pair.QAChecklist.Duration},
		{board.CheckResolution, pair.QAChecklist.Resolution},
		{board.CheckNaming, pair.QAChecklist.Naming},
	}
	for _, check := range checks {
		mark := " "
		if check.done {
			mark = "x"
		}
		fmt.Fprintf(stdout, "    [%s] %s\n", mark, strings.ReplaceAll(check.name, "_", " "))
	}
}

func parsePairNumber(arg string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid pair number %q", arg)
	}
	if !board.ValidPairNumber(value) {
		return 0, fmt.Errorf("pair number %d out of range (1-%d)", value, board.MaxPairNumber)
	}
	return value, nil
}
