// Package main is the entry point for the taskbot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runoshun/taskbot/internal/app"
	"github.com/runoshun/taskbot/internal/cli"
	"github.com/runoshun/taskbot/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

// envConfig names the local config file when --config is not given.
const envConfig = "TASKBOT_CONFIG"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv(envConfig)
	if configPath == "" {
		configPath = domain.LocalFileName
	}

	// Create dependency injection container; the store is opened lazily
	container := app.New(configPath)
	defer func() {
		if err := container.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}
