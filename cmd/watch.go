package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treepat/treepat/internal/rules"
)

var watchRulesFile string

var watchCmd = &cobra.Command{
	Use:   "watch --rules rules.yaml FILES...",
	Short: "Re-check expression files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths to watch")
			os.Exit(1)
		}
		engine := mustEngine(watchRulesFile)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := engine.Watch(ctx, args, func(filename string, issues []rules.Issue) {
			fmt.Printf("--- %s\n", filename)
			rules.Report(os.Stdout, issues)
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			logger.Fatal("Watch failed", zap.Error(err))
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchRulesFile, "rules", "rules.yaml", "Path to the YAML rules file")
}
