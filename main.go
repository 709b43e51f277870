package main

import (
	"os"

	"github.com/dqtools/datachecker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
