// rulectl is a thin text-in/JSON-out driver for the rule language: syntax
// checking, one-shot expression evaluation, and derived-attribute chain
// resolution from fixture files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rulectl",
	Short:         "Rule language toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
