package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pairtrack/internal/board"
	"pairtrack/internal/ipc"
)

func newBoardCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string
	var typeFlag string
	var assigneeFlag string
	var searchFlag string
	var jsonFlag bool
	var flatFlag bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the production board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardList(ipc.BoardListRequest{
					Stage:    strings.TrimSpace(stageFlag),
					Type:     strings.TrimSpace(typeFlag),
					Assignee: strings.TrimSpace(assigneeFlag),
					Search:   strings.TrimSpace(searchFlag),
				})
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Pairs) == 0 {
					fmt.Fprintln(stdout, "No pairs match")
					return nil
				}

				colorize := shouldColorize(stdout)
				if flatFlag || stageFlag != "" {
					fmt.Fprintln(stdout, renderPairTable(resp.Pairs, colorize))
					return nil
				}

				byStage := make(map[string][]ipc.Pair, len(board.AllStages()))
				for _, pair := range resp.Pairs {
					byStage[pair.Stage] = append(byStage[pair.Stage], pair)
				}
				first := true
				for _, stage := range board.AllStages() {
					pairs := byStage[string(stage)]
					if len(pairs) == 0 {
						continue
					}
					if !first {
						fmt.Fprintln(stdout)
					}
					first = false
					fmt.Fprintf(stdout, "%s (%d)\n", colorizeStage(string(stage), colorize), len(pairs))
					fmt.Fprintln(stdout, renderPairTable(pairs, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&stageFlag, "stage", "", "Only show pairs in this stage")
	cmd.Flags().StringVar(&typeFlag, "type", "", "Only show pairs of this change type")
	cmd.Flags().StringVar(&assigneeFlag, "assignee", "", "Only show pairs assigned to this person")
	cmd.Flags().StringVar(&searchFlag, "search", "", "Match against description, instructions, notes, or pair number")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")
	cmd.Flags().BoolVar(&flatFlag, "flat", false, "Render one table instead of grouping by stage")
	return cmd
}

func renderPairTable(pairs []ipc.Pair, colorize bool) string {
	rows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, []string{
			board.PairFolderName(pair.PairNumber),
			pair.Type,
			colorizeStage(pair.Stage, colorize),
			assigneeLabel(pair),
			uploadLabel(pair),
			pair.DueDate,
			colorizeDelivered(pair.Delivered, colorize),
		})
	}
	return renderTable(
		[]string{"Pair", "Type", "Stage", "Assignee", "Videos", "Due", "Delivered"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func assigneeLabel(pair ipc.Pair) string {
	if pair.AssignedVA == nil || *pair.AssignedVA == "" {
		return "-"
	}
	return *pair.AssignedVA
}

func uploadLabel(pair ipc.Pair) string {
	mark := func(uploaded bool) string {
		if uploaded {
			return "+"
		}
		return "-"
	}
	return fmt.Sprintf("A%s B%s", mark(pair.VideoAUploaded), mark(pair.VideoBUploaded))
}
