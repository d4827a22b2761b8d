package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/supportdesk/cmd/bot/config"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalln(err)
	}

	if err := run(cfg); err != nil {
		slog.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	a, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	defer cleanup()

	a.Info("Starting application", slog.String("store", cfg.Store.Driver))
	return a.Run()
}
