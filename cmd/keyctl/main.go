package main

import (
	"fmt"
	"os"

	"github.com/arent-kient/api-key-dashboard/cmd/keyctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
