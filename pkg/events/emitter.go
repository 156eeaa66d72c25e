// Package events handles event emission for connection lifecycle changes
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/GabrielASF2/lead-cental/pkg/kafka"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

// Event types emitted by the dashboard
const (
	EventSchemaDetected       = "schema.detected"
	EventConnectionConfigured = "connection.configured"
	EventUserRegistered       = "user.registered"
)

// SchemaDetected is emitted after a successful schema detection
type SchemaDetected struct {
	UserID      string    `json:"user_id"`
	Endpoint    string    `json:"endpoint"`
	Table       string    `json:"table"`
	ColumnCount int       `json:"column_count"`
	DetectedAt  time.Time `json:"detected_at"`
}

// ConnectionConfigured is emitted when a connection is saved
type ConnectionConfigured struct {
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	Table     string    `json:"table"`
	Saved     bool      `json:"saved"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRegistered is emitted when a new user signs up
type UserRegistered struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter publishes dashboard lifecycle events. Emission is best-effort;
// callers log failures and continue.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter. A nil producer disables emission.
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitSchemaDetected emits a schema.detected event
func (e *Emitter) EmitSchemaDetected(ctx context.Context, userID uuid.UUID, endpoint, table string, detected schema.TableSchema) {
	if e.producer == nil {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitSchemaDetected")
	defer span.End()

	event := SchemaDetected{
		UserID:      userID.String(),
		Endpoint:    endpoint,
		Table:       table,
		ColumnCount: len(detected.Columns),
		DetectedAt:  detected.DetectedAt,
	}

	if err := e.producer.Publish(ctx, EventSchemaDetected, event.UserID, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit schema.detected event")
	}
}

// EmitConnectionConfigured emits a connection.configured event
func (e *Emitter) EmitConnectionConfigured(ctx context.Context, userID uuid.UUID, endpoint, table string, saved bool) {
	if e.producer == nil {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitConnectionConfigured")
	defer span.End()

	event := ConnectionConfigured{
		UserID:    userID.String(),
		Endpoint:  endpoint,
		Table:     table,
		Saved:     saved,
		Timestamp: time.Now().UTC(),
	}

	if err := e.producer.Publish(ctx, EventConnectionConfigured, event.UserID, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit connection.configured event")
	}
}

// EmitUserRegistered emits a user.registered event
func (e *Emitter) EmitUserRegistered(ctx context.Context, userID uuid.UUID, email string) {
	if e.producer == nil {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitUserRegistered")
	defer span.End()

	event := UserRegistered{
		UserID:    userID.String(),
		Email:     email,
		Timestamp: time.Now().UTC(),
	}

	if err := e.producer.Publish(ctx, EventUserRegistered, event.UserID, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit user.registered event")
	}
}
