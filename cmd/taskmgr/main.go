// Package main is the entry point for the taskmgr CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskmgr/internal/backend/googletasks"
	"taskmgr/internal/backend/mysql"
	"taskmgr/internal/backend/rest"
	"taskmgr/internal/cli"
	"taskmgr/internal/commands"
	"taskmgr/internal/config"
	"taskmgr/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newService builds the remote table accessor selected by cfg.Backend.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendREST:
		return rest.New(ctx, cfg)
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg)
	case config.BackendMySQL:
		return mysql.New(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
}
