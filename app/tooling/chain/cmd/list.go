package cmd

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the blocks held by the node.",
	Run:   listRun,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listRun(cmd *cobra.Command, args []string) {
	var blocks []block
	if err := call(http.MethodGet, "/v1/blocks/list", nil, &blocks); err != nil {
		log.Fatal(err)
	}

	for _, b := range blocks {
		fmt.Printf("\nBlock #%d\n", b.Index)
		fmt.Printf("Timestamp: %s\n", time.Unix(int64(b.TimeStamp), 0).UTC().Format(time.ANSIC))
		fmt.Printf("Transactions: %q\n", b.Transactions)
		fmt.Printf("Previous Hash: %s\n", b.PrevBlockHash)
		fmt.Printf("Current Hash: %s\n", b.Hash)
		fmt.Printf("Nonce: %d\n", b.Nonce)
		fmt.Println(strings.Repeat("-", 50))
	}
}
