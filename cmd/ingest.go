package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/ingest"
	"github.com/sells-group/member-search/internal/store"
)

// readRows loads a member export, choosing the reader by file extension.
func readRows(path string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.ReadCSV(path)
	case ".xlsx":
		return ingest.ReadXLSX(path)
	default:
		return nil, eris.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load a member export (CSV or XLSX) into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := readRows(args[0])
		if err != nil {
			return err
		}

		stats, err := ingest.NewPipeline(st).Run(ctx, rows)
		if err != nil {
			return err
		}

		fmt.Printf("Members:     %d\n", stats.Members)
		fmt.Printf("Experiences: %d\n", stats.Experiences)
		fmt.Printf("Education:   %d\n", stats.Education)
		fmt.Printf("Domains:     %d\n", stats.Domains)
		fmt.Printf("Content:     %d\n", stats.Content)
		for _, e := range stats.Errors {
			zap.S().Warnw("row error", "error", e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
