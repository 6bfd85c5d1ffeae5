package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/member-search/internal/store"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent query log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		logs, err := st.RecentQueryLogs(ctx, logsLimit)
		if err != nil {
			return err
		}

		for _, lq := range logs {
			status := "ok"
			if lq.ErrorMessage != nil {
				status = *lq.ErrorMessage
			}
			fmt.Printf("%d  %s  rows=%d  %dms  [%s]  %s\n",
				lq.ID,
				lq.Timestamp.Format("2006-01-02 15:04:05"),
				lq.ResultsCount,
				lq.ExecutionTimeMs,
				status,
				lq.OriginalQuery,
			)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "number of entries to show")
	rootCmd.AddCommand(logsCmd)
}
