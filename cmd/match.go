package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treepat/treepat/internal/rules"
	"github.com/treepat/treepat/matcher"
	"github.com/treepat/treepat/parser"
)

var (
	matchPattern string
	matchExpr    string
)

var matchCmd = &cobra.Command{
	Use:   "match -p PATTERN (-e EXPR | FILES...)",
	Short: "Match a pattern against an expression or expression files",
	Run: func(cmd *cobra.Command, args []string) {
		if matchPattern == "" {
			fmt.Println("error: Please provide a pattern with -p")
			os.Exit(1)
		}
		if matchExpr != "" {
			runMatchExpr(matchPattern, matchExpr)
			return
		}
		if len(args) == 0 {
			fmt.Println("error: Please provide an expression with -e or file paths")
			os.Exit(1)
		}
		runMatchFiles(matchPattern, args)
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchPattern, "pattern", "p", "", "Pattern text to compile")
	matchCmd.Flags().StringVarP(&matchExpr, "expr", "e", "", "Expression to match against")
}

func runMatchExpr(patternText, expr string) {
	m, err := matcher.Compile(patternText)
	if err != nil {
		logger.Fatal("Failed to compile pattern", zap.String("pattern", patternText), zap.Error(err))
	}
	v, err := parser.New().Parse(expr)
	if err != nil {
		logger.Fatal("Failed to parse expression", zap.String("expr", expr), zap.Error(err))
	}
	res := m.Match(v)
	if !res.Matched {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Println("match")
	for i, c := range res.Captures {
		fmt.Printf("  $%d = %v\n", i+1, c)
	}
}

func runMatchFiles(patternText string, paths []string) {
	config := &rules.Config{
		Name:  "tpat",
		Rules: []rules.Rule{{Name: "pattern", Pattern: patternText}},
	}
	engine, err := rules.NewEngine(config, logger)
	if err != nil {
		logger.Fatal("Failed to compile pattern", zap.String("pattern", patternText), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var allIssues []rules.Issue
	for _, path := range paths {
		issues, err := engine.CheckFile(ctx, path)
		if err != nil {
			logger.Error("Error checking file", zap.String("path", path), zap.Error(err))
			continue
		}
		allIssues = append(allIssues, issues...)
		_ = bar.Add(1)
	}
	fmt.Println()
	rules.Report(os.Stdout, allIssues)
}
