package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"minutes/internal/ipc"
)

func newScreenshotsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	screenshotsCmd := &cobra.Command{
		Use:   "screenshots <meeting-id>",
		Short: "List the buffered screenshots for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Screenshots(ipc.ScreenshotsRequest{MeetingID: args[0]})
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("missing screenshots response")
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Screenshots)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Screenshots) == 0 {
					fmt.Fprintln(stdout, "No screenshots buffered for this meeting")
					return nil
				}

				rows := make([][]string, 0, len(resp.Screenshots))
				for i, frame := range resp.Screenshots {
					captured := time.UnixMilli(frame.Timestamp).Format("2006-01-02 15:04:05")
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						captured,
						strconv.Itoa(len(frame.DataURL)),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"#", "Captured", "Bytes"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	screenshotsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output screenshots as JSON")
	return screenshotsCmd
}
