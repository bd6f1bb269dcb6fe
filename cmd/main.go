package main

import (
	"fmt"
	"os"

	"github.com/waesteves/rastreador-api/config"
	"github.com/waesteves/rastreador-api/routes"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Debug)

	if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.StaticDir).Msg("could not create static dir")
	}

	r := routes.SetupRouter(cfg, logger)
	logger.Info().Int("port", cfg.Port).Bool("debug", cfg.Debug).Msg("rastreador API listening")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
