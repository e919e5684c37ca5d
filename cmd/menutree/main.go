package main

import (
	"fmt"
	"os"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
