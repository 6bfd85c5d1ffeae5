package main

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/member-search/internal/model"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <questions-file>",
	Short: "Run many questions from a file, one per line",
	Long:  "Reads newline-separated questions and processes them concurrently. Each question runs its own pipeline; only the connection pool is shared.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		var questions []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if q := strings.TrimSpace(scanner.Text()); q != "" {
				questions = append(questions, q)
			}
		}
		if err := scanner.Err(); err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		responses := make([]model.QueryResponse, len(questions))
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)
		for i, q := range questions {
			g.Go(func() error {
				resp := env.Processor.Process(gctx, q)
				mu.Lock()
				responses[i] = resp
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		succeeded := 0
		for _, r := range responses {
			if r.Success {
				succeeded++
			}
		}
		zap.S().Infow("batch complete", "questions", len(questions), "succeeded", succeeded)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(responses)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "questions processed in parallel")
	rootCmd.AddCommand(batchCmd)
}
