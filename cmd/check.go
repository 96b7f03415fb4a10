package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treepat/treepat/internal/rules"
)

var rulesFile string

var checkCmd = &cobra.Command{
	Use:   "check --rules rules.yaml FILES...",
	Short: "Run a YAML rule set over expression files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}
		engine := mustEngine(rulesFile)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var allIssues []rules.Issue
		for _, path := range args {
			issues, err := engine.CheckFile(ctx, path)
			if err != nil {
				logger.Error("Error checking file", zap.String("path", path), zap.Error(err))
				continue
			}
			allIssues = append(allIssues, issues...)
		}
		rules.Report(os.Stdout, allIssues)
		if len(allIssues) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&rulesFile, "rules", "rules.yaml", "Path to the YAML rules file")
}

func mustEngine(path string) *rules.Engine {
	config, err := rules.LoadConfig(path)
	if err != nil {
		logger.Fatal("Failed to load rules", zap.String("path", path), zap.Error(err))
	}
	engine, err := rules.NewEngine(config, logger)
	if err != nil {
		logger.Fatal("Failed to compile rules", zap.String("path", path), zap.Error(err))
	}
	return engine
}
