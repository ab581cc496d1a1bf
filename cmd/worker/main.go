// Command worker consumes access events from Kafka and forwards them to Loki
// for long-term log retention and dashboarding.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"live-session-gateway/internal/config"
	"live-session-gateway/internal/logging"
	"live-session-gateway/internal/telemetry/loki"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Env, os.Getenv("LOG_LEVEL"))

	brokers := cfg.TelemetryKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS must be set for the telemetry worker")
	}
	if cfg.LokiURL == "" {
		log.Fatal().Msg("LOKI_URL must be set for the telemetry worker")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.TelemetryKafkaTopic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Strs("brokers", brokers).
		Str("topic", cfg.TelemetryKafkaTopic).
		Str("group", cfg.KafkaGroupID).
		Msg("telemetry worker started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info().Msg("telemetry worker stopping")
				return
			}
			log.Error().Err(err).Msg("kafka read failed")
			time.Sleep(time.Second)
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = loki.PushEventJSON(pushCtx, cfg.LokiURL, msg.Value)
		cancel()
		if err != nil {
			// Offset is already committed by ReadMessage; a failed push drops
			// the event rather than wedging the partition.
			log.Warn().Err(err).Int64("offset", msg.Offset).Msg("loki push failed")
		}
	}
}
