// Package main is the entry point for the bukkenfeed CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/homemart/bukkenfeed/cmd/bukkenfeed/commands"
)

func main() {
	// A local .env is optional; flags and BUKKENFEED_* env vars win.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
