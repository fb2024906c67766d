package main

import (
	"fmt"
	"os"

	"github.com/aurora-is-near/aurora-engine-go/cmd/enginecli/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
