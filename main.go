package main

import (
	"os"

	"github.com/agentrace/agentrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
