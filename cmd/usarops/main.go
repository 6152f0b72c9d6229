// Command usarops serves task force operational readiness over MCP
// stdio. Configuration comes from USAROPS_* environment variables and
// an optional YAML file named by USAROPS_CONFIG_FILE.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/usarops/core"
	"github.com/jonwraymond/usarops/health"
	"github.com/jonwraymond/usarops/mcpserver"
	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/tools"
)

const (
	shutdownGrace = 5 * time.Second

	// healthProbeID is the task force the health checks summarize.
	healthProbeID = "CA-TF1"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "usarops:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := mcpserver.ParseEnv()
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "usarops: telemetry shutdown:", err)
		}
	}()

	coreCfg := core.Config{}
	if cfg.ConfigFile != "" {
		coreCfg, err = core.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
	}
	coreCfg.Observer = obs

	catalog := tools.NewCatalog()
	sources := catalog.Sources()
	c, err := core.New(sources, coreCfg)
	if err != nil {
		return err
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := c.Close(drainCtx); err != nil {
			fmt.Fprintln(os.Stderr, "usarops: drain:", err)
		}
	}()

	checks := health.NewAggregator()
	checks.Register(health.NewSourceChecker("personnel", healthProbeID, sources.Personnel))
	checks.Register(health.NewSourceChecker("equipment", healthProbeID, sources.Equipment))
	checks.Register(health.NewSourceChecker("mission", healthProbeID, sources.Mission))

	server := mcpserver.New(c, catalog, checks, obs.Logger())
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
