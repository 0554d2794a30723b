package main

import (
	"os"

	"github.com/abhisek/lexdrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
