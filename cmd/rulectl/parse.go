package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [expression]",
	Short: "Check rule syntax and print the parsed form",
	Long: `Parse a rule expression and print its canonical form, or the parse
error with its source position. Reads from --file when no expression
argument is given.

Examples:
  rulectl parse 'age >= 18 and country == "DE"'
  rulectl parse --file rules/lei_check.rule`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		expr, err := parser.Parse(source)
		if err != nil {
			return err
		}
		fmt.Println(ast.Format(expr))
		return nil
	},
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("an expression argument or --file is required")
	}
	return strings.Join(args, " "), nil
}

func init() {
	parseCmd.Flags().String("file", "", "Read the expression from a file")
	rootCmd.AddCommand(parseCmd)
}
