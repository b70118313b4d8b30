package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain.",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) {
	var v validation
	if err := call(http.MethodGet, "/v1/chain/validate", nil, &v); err != nil {
		log.Fatal(err)
	}

	if v.Valid {
		fmt.Printf("Blocks: %d Valid: %s\n", v.Blocks, color.GreenString("true"))
		return
	}

	fmt.Printf("Blocks: %d Valid: %s\n", v.Blocks, color.RedString("false"))
	if v.Index != nil {
		fmt.Printf("Block: %d Reason: %s\n", *v.Index, v.Reason)
	}
}
