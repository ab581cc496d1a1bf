// Package producer provides the Kafka-backed telemetry event producer.
package producer

import (
	"context"

	"live-session-gateway/internal/telemetry"
)

// Producer emits access events to a broker and releases resources on Close.
type Producer interface {
	Emit(ctx context.Context, event *telemetry.AccessEvent) error
	Close() error
}
