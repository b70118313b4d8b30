// Package cmd contains the chain tooling commands.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "chain",
	Short: "Tooling for the proof of work chain",
}

// Execute runs the command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func endpoint(path string) string {
	return strings.TrimSuffix(url, "/") + path
}
