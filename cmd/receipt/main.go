package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"hotel-receipt/pkg/cli"
	"hotel-receipt/pkg/config"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	// keep stdout for the command's own output
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	if err := cli.NewCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
