package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/shivajik/gmb-brifecase/internal/client/api"
	"github.com/shivajik/gmb-brifecase/internal/client/auth"
	"github.com/shivajik/gmb-brifecase/internal/client/cli"
	"github.com/shivajik/gmb-brifecase/internal/client/iocli"
	"github.com/shivajik/gmb-brifecase/internal/client/storage/boltdb"
	"github.com/shivajik/gmb-brifecase/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	serverURL := flag.String("server", cfg.Client.ServerURL, "CMS server URL")
	dbPath := flag.String("db", cfg.Client.DBPath, "path to local session storage")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	stdio := iocli.NewStdio()

	// Диагностика на stderr, по умолчанию только ошибки
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := boltdb.New(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	authService := auth.NewService(logger, api.NewClient(*serverURL), store)
	c := cli.New(stdio, authService)

	args := flag.Args()
	if len(args) == 0 {
		c.Usage()
		return nil
	}

	return c.Run(context.Background(), args[0])
}
