package main

import (
	_ "embed"
	"fmt"
	"os"

	cli "github.com/careloop/coach/cmd/coachd"
	"github.com/careloop/coach/internal/config"

	"github.com/joho/godotenv"
)

//go:embed etc/coach.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var (
		c   config.Config
		err error
	)
	if path := os.Getenv("COACH_CONFIG"); path != "" {
		c, err = config.LoadFromFile(path)
	} else {
		c, err = config.LoadFromBytes(embeddedConfig)
	}
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
