package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/internal/server"
	"github.com/lox/nlhe/internal/table"
)

// ServeCmd runs the configured tables behind the WebSocket server.
type ServeCmd struct {
	Config   string `short:"c" default:"holdem.hcl" help:"Path to HCL configuration file (defaults apply when missing)"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed (overrides config)"`
}

func (c *ServeCmd) Run(logger *log.Logger) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger.GetLevel() != log.DebugLevel {
		logger.SetLevel(cfg.Level())
	}

	seed := cfg.Server.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	if seed == 0 {
		seed = randutil.TimeSeed()
	}
	logger.Info("Using seed", "seed", seed)

	configs, err := cfg.TableConfigs(seed, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	manager := table.NewManager(logger)
	defer manager.Close()
	for _, tc := range configs {
		tbl, err := manager.Create(tc)
		if err != nil {
			return fmt.Errorf("table %s: %w", tc.Name, err)
		}
		if tc.AutoDeal {
			if err := tbl.StartHand(); err != nil {
				logger.Warn("Could not deal first hand", "table", tbl.ID(), "error", err)
			}
		}
	}

	srv := server.NewServer(cfg.Server.Address, manager, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
