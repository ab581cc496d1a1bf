// Command migrate applies or rolls back the embedded database migrations.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/config"
	"live-session-gateway/internal/db/migrate"
	"live-session-gateway/internal/logging"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Env, os.Getenv("LOG_LEVEL"))

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		log.Fatal().Err(err).Str("direction", *direction).Msg("migration failed")
	}
	log.Info().Str("direction", *direction).Msg("migrations applied")
}
