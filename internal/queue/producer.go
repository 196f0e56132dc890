package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type ObservationMessage struct {
	Observation model.Observation
	TraceID     *string
	Attempt     int
}

type Producer interface {
	EnqueueObservation(ctx context.Context, msg ObservationMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) EnqueueObservation(ctx context.Context, msg ObservationMessage) error {
	fields, err := msg.values(ctx)
	if err != nil {
		return err
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue observation: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued observation",
		"project_id", msg.Observation.ProjectID,
		"source_actor_id", msg.Observation.SourceActorID,
		"target_actor_id", msg.Observation.TargetActorID,
		"type", msg.Observation.Type,
		"attempt", fields[fieldAttempt])
	return nil
}

// values builds the stream fields. A missing trace id is taken from the
// active span so the worker can link its span to the caller's trace.
func (m ObservationMessage) values(ctx context.Context) (map[string]any, error) {
	if err := m.Observation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observation: %w", err)
	}

	attempt := m.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := observationValues(m.Observation)
	fields[fieldAttempt] = attempt

	traceID := ""
	if m.TraceID != nil {
		traceID = *m.TraceID
	}
	if traceID == "" {
		traceID = logger.TraceIDFromContext(ctx)
	}
	if traceID != "" {
		fields[fieldTraceID] = traceID
	}
	return fields, nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
