package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [transactions...]",
	Short: "Mine a block with the transactions on the node.",
	Args:  cobra.MinimumNArgs(1),
	Run:   addRun,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func addRun(cmd *cobra.Command, args []string) {
	body := struct {
		Transactions []string `json:"transactions"`
	}{
		Transactions: args,
	}

	var b block
	if err := call(http.MethodPost, "/v1/blocks/add", body, &b); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Block #%d\nHash: %s\nNonce: %d\n", b.Index, b.Hash, b.Nonce)
}
