// Package main is the entry point for the smartcart CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Juan-JM/SmartCart-Frotend/cmd"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
