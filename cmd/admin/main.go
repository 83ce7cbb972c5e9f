package main

import (
	"os"

	"github.com/gdugdh24/meetmatch-backend/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
