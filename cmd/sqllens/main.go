// Package main provides the sqllens command.
package main

import (
	"os"

	"github.com/leapstack-labs/sqllens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
