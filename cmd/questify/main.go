// Package main is the single-binary entrypoint for Questify.
package main

import (
	"github.com/joho/godotenv"

	"github.com/questify-app/questify/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for QUESTIFY_HOME and friends; absence is fine.
	_ = godotenv.Load()

	cli.Execute(version)
}
