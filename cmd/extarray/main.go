package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/a-peyrard/extarray"
	"github.com/a-peyrard/extarray/config"
	"github.com/a-peyrard/extarray/runner"
	"github.com/rs/zerolog"
)

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, toml, json), env vars take precedence")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	cfg, err := config.Load[Config](config.WithEnvPrefix(envPrefix), config.WithConfigFile(*configFile))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msgf("Invalid log level %q", cfg.LogLevel)
	}
	logger = logger.Level(level)

	arr, err := extarray.NewFromConfig[string](cfg.Array, extarray.WithLogger(&logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create array")
	}
	logger.Debug().Int("capacity", arr.Len()).Msg("Array created")

	ctx, stop := runner.WithSyscallKillableContext(context.Background())
	defer stop()

	err = runner.RunAll(ctx, NewShell(arr, os.Stdin, os.Stdout, &logger, WithMaxIndex(cfg.MaxIndex)))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Shell failed")
		stop()
		os.Exit(1)
	}
}
