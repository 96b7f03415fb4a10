package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treepat/treepat/node"
	"github.com/treepat/treepat/parser"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [-e EXPR]",
	Short: "Print the s-expression tree for an expression",
	Run: func(cmd *cobra.Command, args []string) {
		if parseExpr == "" {
			fmt.Println("error: Please provide an expression with -e")
			os.Exit(1)
		}
		v, err := parser.New().Parse(parseExpr)
		if err != nil {
			logger.Fatal("Failed to parse expression", zap.String("expr", parseExpr), zap.Error(err))
		}
		if n, ok := v.(*node.Node); ok {
			fmt.Println(n.String())
			return
		}
		fmt.Printf("%v\n", v)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "Expression to parse")
}
