// Command server runs the live session access HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/accesslog"
	logrepo "live-session-gateway/internal/accesslog/repository"
	"live-session-gateway/internal/accesswindow"
	"live-session-gateway/internal/config"
	"live-session-gateway/internal/db"
	"live-session-gateway/internal/entitlement"
	"live-session-gateway/internal/entitlement/engine"
	entrepo "live-session-gateway/internal/entitlement/repository"
	granthandler "live-session-gateway/internal/grant/handler"
	grantrepo "live-session-gateway/internal/grant/repository"
	grantservice "live-session-gateway/internal/grant/service"
	"live-session-gateway/internal/health"
	"live-session-gateway/internal/livesession/repository"
	"live-session-gateway/internal/logging"
	"live-session-gateway/internal/security"
	"live-session-gateway/internal/server"
	"live-session-gateway/internal/telemetry"
	"live-session-gateway/internal/telemetry/otel"
	"live-session-gateway/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Env, os.Getenv("LOG_LEVEL"))

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL must be set")
	}
	keys, err := security.DeriveKeys(cfg.AccessTokenSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ACCESS_TOKEN_SECRET")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "live-session-gateway", cfg.OTLPInsecure)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up telemetry providers")
	}
	providers.SetGlobal()

	var emitter telemetry.EventEmitter
	kafkaProducer, err := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	if kafkaProducer != nil {
		emitter = kafkaProducer
		defer kafkaProducer.Close()
		log.Info().Str("topic", cfg.TelemetryKafkaTopic).Msg("kafka telemetry enabled")
	}

	policyRepo := entrepo.NewPostgresPolicyRepository(database)
	evaluator := engine.NewOPAEvaluator(policyRepo)
	resolver := entitlement.NewResolver(entrepo.NewPostgresRepository(database), evaluator)

	attempts := accesslog.NewLogger(
		logrepo.NewPostgresRepository(database),
		emitter,
		cfg.AbuseWindowDuration(),
		cfg.AbuseDenialThreshold,
	)

	svc := grantservice.NewAccessService(
		repository.NewPostgresRepository(database),
		grantrepo.NewPostgresRepository(database),
		resolver,
		accesswindow.NewGate(cfg.JoinLead(), cfg.JoinGrace()),
		security.NewCodec(keys, cfg.TokenIssuer),
		security.NewTokenHasher(keys),
		attempts,
		cfg.TokenTTLDuration(),
	)

	srv := server.New(cfg.HTTPAddr,
		granthandler.NewAccessHandler(svc, attempts),
		health.NewHandler(database, evaluator),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Give in-flight async telemetry emits time to land before tearing down
	// the providers.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("telemetry shutdown")
	}
}
