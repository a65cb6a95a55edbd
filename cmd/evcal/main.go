package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"evcal/internal/aggregate"
	"evcal/internal/config"
	appLog "evcal/internal/log"
	"evcal/internal/sink"
	"evcal/internal/source"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	outDir     string
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(slog.LevelDebug)
	}

	appLog.Info("evcal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		if conf == nil {
			appLog.Error("failed to load config", err, "config_path", flags.configPath)
			os.Exit(1)
		}
		// First-run default could not be persisted; keep going with it.
		appLog.Warn("could not write default config", "config_path", flags.configPath, "err", err)
	}

	appLog.Info("effective config",
		"calendar_name", conf.CalendarName,
		"sources", len(conf.Sources),
		"concurrency", conf.Concurrency,
		"timeout", conf.Timeout,
		"out_dir", flags.outDir,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	agg := aggregate.New(conf, source.FromConfig(conf), sink.NewFile(flags.outDir))

	if err := agg.Run(ctx); err != nil {
		if errors.Is(err, aggregate.ErrNoSources) {
			appLog.Warn("no sources configured; nothing to do", "config_path", flags.configPath)
			return
		}
		appLog.Error("run failed", err)
		os.Exit(1)
	}

	appLog.Info("evcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&cfg.outDir, "out", ".", "Directory where calendar files are written")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
