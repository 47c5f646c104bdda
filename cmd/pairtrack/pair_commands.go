package main

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"pairtrack/internal/board"
	"pairtrack/internal/ipc"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "move <pair> <stage>",
		Short: "Move a pair to another stage",
		Long: "Move a pair to another stage. Moving an undelivered pair into complete\n" +
			"triggers delivery of its assets to the client location.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			stage := strings.TrimSpace(args[1])
			if _, ok := board.ParseStage(stage); !ok {
				return fmt.Errorf("unknown stage %q (valid: %s)", stage, strings.Join(stageNames(), ", "))
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardMove(ipc.BoardMoveRequest{
					PairNumber: pairNumber,
					Stage:      stage,
					ChangedBy:  currentUser(),
				})
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pair %d moved to %s\n", pairNumber, resp.Pair.Stage)
				if resp.Pair.Delivered && resp.Pair.ClientFolder != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Delivered to %s\n", resp.Pair.ClientFolder)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}

func newAssignCommand(ctx *commandContext) *cobra.Command {
	var clearFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "assign <pair> [name]",
		Short: "Assign a pair to someone on the roster",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 1 {
				name = strings.TrimSpace(args[1])
			}
			if name == "" && !clearFlag {
				return fmt.Errorf("provide a name or pass --clear to unassign")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardAssign(ipc.BoardAssignRequest{
					PairNumber: pairNumber,
					Name:       name,
					ChangedBy:  currentUser(),
				})
				if err != nil {
					if suggestion := closestRosterName(ctx, name); suggestion != "" {
						return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
					}
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if resp.Pair.AssignedVA == nil || *resp.Pair.AssignedVA == "" {
					fmt.Fprintf(stdout, "Pair %d unassigned\n", pairNumber)
				} else {
					fmt.Fprintf(stdout, "Pair %d assigned to %s\n", pairNumber, *resp.Pair.AssignedVA)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "Clear the current assignment")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit pair fields, checklist entries, and upload flags",
	}

	for _, field := range []string{"description", "instructions", "notes"} {
		field := field
		editCmd.AddCommand(&cobra.Command{
			Use:   fmt.Sprintf("%s <pair> <text>", field),
			Short: fmt.Sprintf("Set a pair's %s", field),
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				pairNumber, err := parsePairNumber(args[0])
				if err != nil {
					return err
				}
				text := strings.Join(args[1:], " ")
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.BoardEdit(ipc.BoardEditRequest{
						PairNumber: pairNumber,
						Field:      field,
						Text:       text,
						ChangedBy:  currentUser(),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Pair %d %s updated\n", resp.Pair.PairNumber, field)
					return nil
				})
			},
		})
	}

	editCmd.AddCommand(&cobra.Command{
		Use:   "check <pair> <item>",
		Short: "Toggle a quality checklist entry",
		Long:  "Toggle a quality checklist entry. Items: " + strings.Join(board.AllChecks(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardEdit(ipc.BoardEditRequest{
					PairNumber: pairNumber,
					Check:      strings.TrimSpace(args[1]),
					ChangedBy:  currentUser(),
				})
				if err != nil {
					return err
				}
				printPairDetail(cmd, resp.Pair)
				return nil
			})
		},
	})

	editCmd.AddCommand(&cobra.Command{
		Use:   "upload <pair> <a|b>",
		Short: "Toggle an upload flag",
		Long: "Toggle an upload flag. When both videos of a pair in a filming stage\n" +
			"are marked uploaded, the pair advances to internal review.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			slot := strings.ToLower(strings.TrimSpace(args[1]))
			if slot != "a" && slot != "b" {
				return fmt.Errorf("upload slot must be a or b, got %q", args[1])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BoardEdit(ipc.BoardEditRequest{
					PairNumber: pairNumber,
					Upload:     slot,
					ChangedBy:  currentUser(),
				})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Pair %d videos: %s\n", resp.Pair.PairNumber, uploadLabel(resp.Pair))
				if resp.Pair.Stage == string(board.StageInternalReview) {
					fmt.Fprintln(stdout, "Both videos uploaded; pair moved to internal_review")
				}
				return nil
			})
		},
	})

	return editCmd
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <pair>",
		Short: "Approve a pair: mark it complete and deliver its assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Approve(ipc.ApproveRequest{
					PairNumber: pairNumber,
					ChangedBy:  currentUser(),
				})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Pair %d approved\n", pairNumber)
				if resp.Pair.Delivered && resp.Pair.ClientFolder != "" {
					fmt.Fprintf(stdout, "Delivered to %s\n", resp.Pair.ClientFolder)
				}
				return nil
			})
		},
	}
	return cmd
}

func newReshootCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reshoot <pair>",
		Short: "Send a pair back for another filming round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reshoot(ipc.ReshootRequest{
					PairNumber: pairNumber,
					ChangedBy:  currentUser(),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pair %d sent back to %s\n", pairNumber, resp.Pair.Stage)
				return nil
			})
		},
	}
	return cmd
}

func newDeliverCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "deliver <pair>",
		Short: "Copy a pair's assets to the client location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Deliver(pairNumber)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Delivered %s to %s\n", resp.Result.FolderName, resp.Result.Destination)
				for _, name := range resp.Result.FilesCopied {
					fmt.Fprintf(stdout, "  %s\n", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "history <pair>",
		Short: "Show stage transition history for a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairNumber, err := parsePairNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.History(pairNumber)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Entries) == 0 {
					fmt.Fprintf(stdout, "No stage changes recorded for pair %d\n", pairNumber)
					return nil
				}
				rows := make([][]string, 0, len(resp.Entries))
				for _, entry := range resp.Entries {
					changedBy := entry.ChangedBy
					if changedBy == "" {
						changedBy = "-"
					}
					rows = append(rows, []string{entry.ChangedAt, entry.OldStage, entry.NewStage, changedBy})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"When", "From", "To", "By"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted output")
	return cmd
}

func stageNames() []string {
	stages := board.AllStages()
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, string(stage))
	}
	return names
}

// closestRosterName suggests the nearest roster entry for a misspelled name.
func closestRosterName(ctx *commandContext, name string) string {
	cfg := ctx.configValue()
	if cfg == nil || strings.TrimSpace(name) == "" {
		return ""
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	best := ""
	bestDist := -1
	for _, candidate := range cfg.Board.Roster {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if bestDist < 0 || dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	if bestDist < 0 || bestDist > len(needle)/2+1 {
		return ""
	}
	return best
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return ""
}
