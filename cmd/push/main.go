package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/viper"
	"github.com/tyemirov/pushover/internal/command"
	"github.com/tyemirov/pushover/internal/config"
	"github.com/tyemirov/pushover/pkg/history"
	"github.com/tyemirov/pushover/pkg/logging"
	"github.com/tyemirov/pushover/pkg/pushover"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.NewLogger(cfg.LogLevel(), os.Stderr)

	httpClient := &http.Client{Timeout: cfg.OperationTimeout()}
	dependencies := command.Dependencies{
		Sender:           pushover.NewClient(httpClient, logger),
		OperationTimeout: cfg.OperationTimeout(),
		DefaultToken:     cfg.Token(),
		DefaultUser:      cfg.User(),
		Output:           os.Stdout,
		Logger:           logger,
		Version:          version,
	}

	if cfg.HistoryEnabled() {
		store, openErr := history.Open(cfg.HistoryPath(), logger)
		if openErr != nil {
			fmt.Fprintln(os.Stderr, openErr)
			return 1
		}
		defer store.Close()
		dependencies.History = store
	}

	root := command.NewRootCommand(dependencies)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if execErr := root.Execute(); execErr != nil {
		if !errors.Is(execErr, command.ErrDeliveryRejected) {
			fmt.Fprintln(os.Stderr, execErr)
		}
		return 1
	}
	return 0
}
