package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-deprecation-instrumentation",
	Short: "go-deprecation-instrumentation injects diagnostics into deprecated routines in your program source code",
	Long:  "go-deprecation-instrumentation rewrites routines marked as deprecated so every invocation logs a warning and reports itself to an invocation counter",
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
