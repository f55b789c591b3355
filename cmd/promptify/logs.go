package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent gateway calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("--limit must be > 0, got %d", limit)
		}

		logs, err := a.db.RecentQueryLogs(limit)
		if err != nil {
			return fmt.Errorf("reading query log: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tKIND\tPROVIDER\tMODEL\tSTATUS\tDURATION\tERROR")
		for _, l := range logs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%dms\t%s\n",
				humanize.Time(l.CreatedAt), l.Kind, l.Provider, l.Model, l.Status, l.DurationMs, l.ErrorMessage)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		stats, err := a.db.QueryStats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		fmt.Printf("\n%s queries, %s tests, %s failed, database %s\n",
			humanize.Comma(int64(stats.TotalQueries)), humanize.Comma(int64(stats.TotalTests)),
			humanize.Comma(int64(stats.FailedRequests)), humanize.Bytes(uint64(stats.DatabaseSizeBytes)))
		return nil
	},
}

func init() {
	logsCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}
