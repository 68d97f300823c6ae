package main

import (
	"os"

	"github.com/joho/godotenv"

	studykitcmder "github.com/studykit/studykit/cmd/studykit"
)

func main() {
	// Optional; provider API keys can live in a local .env
	_ = godotenv.Load()

	cmd := studykitcmder.NewStudykitCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
