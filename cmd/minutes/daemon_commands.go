package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"minutes/internal/daemonctl"
	"minutes/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the minutes daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the minutes daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonctl.LaunchOptions{
					SocketPath: ctx.socketPath(),
					ConfigPath: ctx.configPath(),
				},
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}
			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the minutes daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.Stop(ctx.socketPath(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
				return nil
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	daemonCmd.AddCommand(startCmd, stopCmd, newStatusCommand(ctx))
	return daemonCmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and archive status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("missing status response")
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				colorize := isTerminal(stdout)
				fmt.Fprintln(stdout, renderStatusLine("Daemon", boolKind(resp.Running), runningLabel(resp.Running), colorize))
				fmt.Fprintln(stdout, renderStatusLine("PID", statusInfo, fmt.Sprintf("%d", resp.PID), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, resp.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Sessions", statusInfo, fmt.Sprintf("%d", resp.Sessions), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Transcript chunks", statusInfo, fmt.Sprintf("%d", resp.Chunks), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Screenshots", statusInfo, fmt.Sprintf("%d", resp.Screenshots), colorize))
				if resp.LastError != "" {
					fmt.Fprintln(stdout, renderStatusLine("Last error", statusError, resp.LastError, colorize))
				}
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	return statusCmd
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				switch {
				case resp == nil:
					return errors.New("missing notification response")
				case resp.Message != "":
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				case resp.Sent:
					fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
				}
				return nil
			})
		},
	}
}

func daemonExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	candidate := filepath.Join(filepath.Dir(self), "minutesd")
	if _, statErr := os.Stat(candidate); statErr == nil {
		return candidate, nil
	}
	path, err := exec.LookPath("minutesd")
	if err != nil {
		return "", fmt.Errorf("locate minutesd: %w", err)
	}
	return path, nil
}

func runningLabel(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusWarn
}
