package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derivo/derivo-go/engine"
	"github.com/derivo/derivo-go/facts"
)

var chainCmd = &cobra.Command{
	Use:   "chain [target...]",
	Short: "Resolve derived attributes from a catalog and fixture facts",
	Long: `Resolve one or more derived attributes: dependencies are computed
first, every result is memoized in the fact context, and the full final
context is printed as JSON.

Examples:
  rulectl chain age_category --catalog catalog.yaml --facts input.json
  rulectl chain risk_score kyc_status --catalog catalog.yaml --facts input.json --pretty`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		if catalogPath == "" {
			return fmt.Errorf("--catalog is required")
		}
		catalog, err := engine.LoadCatalog(catalogPath)
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

		opts := []engine.Option{}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer log.Sync()
			opts = append(opts, engine.WithLogger(log))
		}

		result, err := engine.New(catalog, opts...).EvaluateChain(args, fs)
		if err != nil {
			return err
		}

		out, err := json.Marshal(result)
		if err != nil {
			return err
		}
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, out, "", "  "); err != nil {
				return err
			}
			out = buf.Bytes()
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	chainCmd.Flags().String("catalog", "", "YAML file with derived-attribute definitions")
	chainCmd.Flags().String("facts", "", "JSON file with the initial fact context")
	chainCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	chainCmd.Flags().Bool("verbose", false, "Log resolution steps")
	rootCmd.AddCommand(chainCmd)
}
