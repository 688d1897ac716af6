package main

import (
	"context"
	"errors"
	"os"

	"github.com/cafeteria/portal-system/internal/pkg/config"
	"github.com/cafeteria/portal-system/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	cli := &commandLine{cfg: cfg, log: log, out: os.Stdout}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("command failed")
	}
}
