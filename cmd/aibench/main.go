package main

import (
	"fmt"
	"os"

	"github.com/prachetas2003/AiModelPerformanceTester/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
