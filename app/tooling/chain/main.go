// This program runs the chain demonstration and talks to a running node.
package main

import "github.com/hashchain/hashchain/app/tooling/chain/cmd"

func main() {
	cmd.Execute()
}
