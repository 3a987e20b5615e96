package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"minutes/internal/ipc"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and export archived sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsExportCommand(ctx))
	sessionsCmd.AddCommand(newSessionsDeleteCommand(ctx))
	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sessions()
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("missing sessions response")
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Sessions)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(stdout, "No archived sessions")
					return nil
				}

				rows := make([][]string, 0, len(resp.Sessions))
				for _, s := range resp.Sessions {
					rows = append(rows, []string{
						s.ID,
						s.Title,
						s.Date + " " + s.Time,
						s.Duration,
						strconv.Itoa(s.CaptionCount),
						strconv.Itoa(s.AttendeeCount),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Title", "When", "Duration", "Captions", "Attendees"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output sessions as JSON")
	return listCmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var withTranscript bool
	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session's metadata and transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionDescribe(ipc.SessionDescribeRequest{ID: args[0]})
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("missing session response")
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				s := resp.Session
				fmt.Fprintf(stdout, "Title:     %s\n", s.Title)
				fmt.Fprintf(stdout, "ID:        %s\n", s.ID)
				fmt.Fprintf(stdout, "When:      %s %s\n", s.Date, s.Time)
				fmt.Fprintf(stdout, "Duration:  %s\n", s.Duration)
				fmt.Fprintf(stdout, "Captions:  %d\n", s.CaptionCount)
				if len(s.Speakers) > 0 {
					fmt.Fprintf(stdout, "Speakers:  %s\n", strings.Join(s.Speakers, ", "))
				}
				if len(s.Attendees) > 0 {
					fmt.Fprintf(stdout, "Attendees: %s\n", strings.Join(s.Attendees, ", "))
				}
				if s.Preview != "" {
					fmt.Fprintf(stdout, "Preview:   %s\n", s.Preview)
				}
				if withTranscript {
					fmt.Fprintln(stdout)
					for _, entry := range resp.Transcript {
						fmt.Fprintf(stdout, "[%s] %s: %s\n", entry.Time, entry.Name, entry.Text)
					}
				}
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output session as JSON")
	showCmd.Flags().BoolVar(&withTranscript, "transcript", false, "Print the full transcript")
	return showCmd
}

func newSessionsExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var dir string
	exportCmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Render an archived session to a transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionExport(ipc.SessionExportRequest{
					ID:     args[0],
					Format: format,
					Dir:    dir,
				})
				if err != nil {
					return err
				}
				if resp == nil || !resp.Saved {
					return errors.New("export failed; check the daemon log")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s transcript to %s\n", resp.Format, resp.Path)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "", "Export format (falls back to the configured default)")
	exportCmd.Flags().StringVar(&dir, "dir", "", "Destination directory override")
	return exportCmd
}

func newSessionsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionDelete(ipc.SessionDeleteRequest{ID: args[0]})
				if err != nil {
					return err
				}
				if resp == nil || !resp.Deleted {
					return fmt.Errorf("session %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}
