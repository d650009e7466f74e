package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derivo/derivo-go/eval"
	"github.com/derivo/derivo-go/facts"
	"github.com/derivo/derivo-go/parser"
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate one expression against sample facts",
	Long: `Parse and evaluate a single expression, printing the result as JSON.
Facts are loaded from a JSON file; nested objects are flattened to
dotted attribute names.

Examples:
  rulectl eval '2 + 3 * 4'
  rulectl eval 'IS_EMAIL(customer.email)' --facts fixtures/customer.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}

		fs := facts.New()
		if path, _ := cmd.Flags().GetString("facts"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fs, err = facts.FromJSON(data)
			if err != nil {
				return fmt.Errorf("loading facts: %w", err)
			}
		}

		expr, err := parser.Parse(source)
		if err != nil {
			return err
		}
		result, err := eval.Evaluate(expr, fs)
		if err != nil {
			return err
		}

		out, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	evalCmd.Flags().String("file", "", "Read the expression from a file")
	evalCmd.Flags().String("facts", "", "JSON file with the fact context")
	rootCmd.AddCommand(evalCmd)
}
