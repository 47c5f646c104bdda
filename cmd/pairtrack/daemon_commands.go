package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pairtrack/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the pairtrack daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if status, err := daemonStatus(ctx); err == nil && status.Running {
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			fmt.Fprintln(stdout, "Daemon not running, launching...")
			if err := launchDaemon(ctx); err != nil {
				return err
			}
			if err := waitForDaemon(ctx, 10*time.Second); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon started")
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the pairtrack daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			err := ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					fmt.Fprintln(stdout, "Stop request sent")
					return nil
				}
				fmt.Fprintln(stdout, "Daemon stopped")
				return nil
			})
			if err != nil && strings.Contains(err.Error(), "not found") {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			return err
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and board status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := daemonStatus(ctx)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			fmt.Fprintln(stdout, sectionHeader("Daemon", colorize))
			fmt.Fprintf(stdout, "  Running:   %s (pid %d)\n", yesNo(status.Running), status.PID)
			fmt.Fprintf(stdout, "  Board DB:  %s\n", status.BoardDBPath)
			if status.APIAddress != "" {
				fmt.Fprintf(stdout, "  HTTP API:  %s\n", status.APIAddress)
			}

			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, sectionHeader("Preflight", colorize))
			for _, check := range status.Preflight {
				fmt.Fprintln(stdout, renderCheckLine(check, colorize))
			}

			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, sectionHeader("Board", colorize))
			rows := buildStageRows(status.Stages)
			fmt.Fprintln(stdout, renderTable(
				[]string{"Stage", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Fprintf(stdout, "%d pairs, %d videos uploaded, %d complete, %d delivered\n",
				status.Pairs, status.Videos, status.Complete, status.Delivered)
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func daemonStatus(ctx *commandContext) (*ipc.StatusResponse, error) {
	var status *ipc.StatusResponse
	err := ctx.withClient(func(client *ipc.Client) error {
		resp, err := client.Status()
		if err != nil {
			return err
		}
		status = resp
		return nil
	})
	return status, err
}

func launchDaemon(ctx *commandContext) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := []string{"daemon"}
	if ctx.configFlag != nil {
		if path := strings.TrimSpace(*ctx.configFlag); path != "" {
			args = append(args, "--config", path)
		}
	}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			args = append(args, "--socket", socket)
		}
	}

	cmd := exec.Command(exe, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return cmd.Process.Release()
}

func waitForDaemon(ctx *commandContext, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if status, err := daemonStatus(ctx); err == nil && status.Running {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not come up within %s", timeout)
}

func buildStageRows(stages map[string]int) [][]string {
	names := make([]string, 0, len(stages))
	for name := range stages {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%d", stages[name])})
	}
	return rows
}

func sectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", title)
	if colorize {
		return color.New(color.FgBlue).Sprint(line)
	}
	return line
}

func renderCheckLine(check ipc.Check, colorize bool) string {
	label := "OK"
	paint := color.New(color.FgGreen)
	if !check.Ready {
		label = "WARN"
		paint = color.New(color.FgYellow)
	}
	if colorize {
		label = paint.Sprint(label)
	}
	detail := check.Detail
	if detail != "" {
		detail = " " + detail
	}
	return fmt.Sprintf("  %-22s [%s]%s", check.Name+":", label, detail)
}
