package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pomo/internal/storage"
	"pomo/internal/ui/terminal"
)

const noHistory = "No history yet. Run 'pomo' to start a work interval."

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently finished work intervals and breaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(paths.HistoryFile); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, noHistory)
				return nil
			}

			history, err := storage.OpenHistory(paths.HistoryFile)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer history.Close()

			ctx := cmd.Context()
			records, err := history.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, noHistory)
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tPHASE\tOUTCOME\tPLANNED\tACTUAL")
			for _, record := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					humanize.RelTime(record.StartedAt, now, "ago", "from now"),
					record.Kind.Label(),
					record.Outcome,
					terminal.FormatRemaining(record.Planned),
					terminal.FormatRemaining(record.Actual),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			summary, err := history.Summary(ctx, startOfDay(now))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nToday: %d work interval(s) completed, %d stopped, %d break(s), %s focused.\n",
				summary.CompletedWork,
				summary.StoppedWork,
				summary.CompletedBreaks,
				summary.FocusTime.Round(time.Second),
			)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
