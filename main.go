package main

import (
	"os"

	"github.com/etlvalidator/etlvalidator/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
