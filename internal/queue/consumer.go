package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type ConsumerConfig struct {
	Stream       string        // Redis stream name
	Group        string        // Redis consumer group name
	Consumer     string        // Redis consumer name
	DLQStream    string        // Dead letter queue stream for failed messages
	BatchSize    int64         // Number of messages to process per batch
	Block        time.Duration // How long to block/poll for new messages
	MaxAttempts  int           // Maximum retry attempts before moving to DLQ
	RequeueDelay time.Duration // Delay before retrying failed messages
}

type Message struct {
	ID          string
	TaskType    TaskType
	Observation model.Observation
	Attempt     int
	TraceID     string
	LastError   string
	Raw         redis.XMessage
}

// MessageProcessor processes a queue message.
type MessageProcessor func(ctx context.Context, msg Message) error

type RedisConsumer struct {
	client *redis.Client
	cfg    ConsumerConfig
}

func NewRedisConsumer(client *redis.Client, cfg ConsumerConfig) (*RedisConsumer, error) {
	consumer := &RedisConsumer{
		client: client,
		cfg:    cfg,
	}

	if err := consumer.ensureGroup(context.Background()); err != nil { //nolint:contextcheck
		return nil, err
	}

	return consumer, nil
}

func (c *RedisConsumer) ensureGroup(ctx context.Context) error {
	// "0" so a recreated group still sees observations already in the stream.
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

func (c *RedisConsumer) Read(ctx context.Context) ([]Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "atlas.queue.consumer",
	})

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		// ">" reads undelivered messages only. Stale pending ones belong to the reclaimer.
		Streams: []string{c.cfg.Stream, ">"},
		Count:   c.cfg.BatchSize,
		Block:   c.cfg.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("reading from stream: %w", err)
	}

	var messages []Message
	// XReadGroup supports multiple streams, but we only read one so this outer loop only runs once.
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			parsed, parseErr := ParseMessage(msg)
			if parseErr != nil {
				slog.ErrorContext(ctx, "failed to parse message",
					"error", parseErr,
					"raw_message_id", msg.ID,
					"stream", c.cfg.Stream)
				c.DiscardMalformed(ctx, msg, parseErr)
				continue
			}
			messages = append(messages, parsed)
		}
	}

	if len(messages) > 0 {
		slog.DebugContext(ctx, "read messages from stream",
			"count", len(messages),
			"stream", c.cfg.Stream,
			"consumer", c.cfg.Consumer)
	}

	return messages, nil
}

func (c *RedisConsumer) Ack(ctx context.Context, msg Message) error {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack (stream=%s): %w", c.cfg.Stream, err)
	}

	slog.DebugContext(ctx, "message acknowledged", "stream", c.cfg.Stream)
	return nil
}

func (c *RedisConsumer) Requeue(ctx context.Context, msg Message, errMsg string) error {
	return c.RequeueWithAttempt(ctx, msg, msg.Attempt+1, errMsg)
}

// RequeueWithAttempt re-adds the observation at the tail of the stream with
// the given attempt and acks the original. The delay runs first so a
// cancelled worker leaves the message pending for the reclaimer.
func (c *RedisConsumer) RequeueWithAttempt(ctx context.Context, msg Message, attempt int, errMsg string) error {
	if attempt <= 0 {
		attempt = max(msg.Attempt, 1)
	}

	if c.cfg.RequeueDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.RequeueDelay):
		}
	}

	values := messageValues(msg, attempt)
	if errMsg != "" {
		values[fieldLastError] = errMsg
	}

	if err := c.moveTo(ctx, c.cfg.Stream, msg.ID, values); err != nil {
		return fmt.Errorf("requeue: %w", err)
	}

	slog.InfoContext(ctx, "message requeued for retry",
		"next_attempt", attempt,
		"reason", errMsg)
	return nil
}

func (c *RedisConsumer) SendDLQ(ctx context.Context, msg Message, errMsg string) error {
	values := messageValues(msg, msg.Attempt)
	values[fieldError] = errMsg

	if err := c.moveTo(ctx, c.cfg.DLQStream, msg.ID, values); err != nil {
		return fmt.Errorf("dlq (stream=%s): %w", c.cfg.DLQStream, err)
	}

	slog.ErrorContext(ctx, "message sent to DLQ",
		"final_error", errMsg,
		"dlq_stream", c.cfg.DLQStream)
	return nil
}

// DiscardMalformed acks a message that cannot be parsed and copies its raw
// fields to the DLQ so it is not lost.
func (c *RedisConsumer) DiscardMalformed(ctx context.Context, raw redis.XMessage, parseErr error) {
	if c.cfg.DLQStream == "" {
		if err := c.Ack(ctx, Message{ID: raw.ID}); err != nil {
			slog.ErrorContext(ctx, "failed to ack malformed message", "error", err, "raw_message_id", raw.ID)
		}
		return
	}

	values := make(map[string]any, len(raw.Values)+1)
	for k, v := range raw.Values {
		values[k] = v
	}
	values[fieldError] = parseErr.Error()
	if err := c.moveTo(ctx, c.cfg.DLQStream, raw.ID, values); err != nil {
		slog.ErrorContext(ctx, "failed to move malformed message to DLQ", "error", err, "raw_message_id", raw.ID)
	}
}

// moveTo adds values to stream and acks id in one MULTI, so a failed add
// never loses the original.
func (c *RedisConsumer) moveTo(ctx context.Context, stream, id string, values map[string]any) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values})
		pipe.XAck(ctx, c.cfg.Stream, c.cfg.Group, id)
		return nil
	})
	return err
}

// ClaimStale moves up to count messages idle longer than minIdle to the
// named consumer and returns them. Messages trimmed from the stream while
// pending are dropped by redis and never returned.
func (c *RedisConsumer) ClaimStale(ctx context.Context, consumer string, minIdle time.Duration, count int64) ([]redis.XMessage, error) {
	messages, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    count,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("xautoclaim: %w", err)
	}
	return messages, nil
}

func ParseMessage(msg redis.XMessage) (Message, error) {
	taskType, err := parseOptionalString(msg.Values, fieldTaskType)
	if err != nil {
		return Message{}, err
	}
	if taskType == "" {
		taskType = string(TaskTypeObservation)
	}
	if TaskType(taskType) != TaskTypeObservation {
		return Message{}, fmt.Errorf("unknown task_type %q", taskType)
	}

	obs, err := parseObservation(msg.Values)
	if err != nil {
		return Message{}, err
	}

	attempt, err := parseOptionalInt(msg.Values, fieldAttempt)
	if err != nil {
		return Message{}, err
	}
	if attempt == 0 {
		attempt = 1
	}

	traceID, _ := parseOptionalString(msg.Values, fieldTraceID)
	lastError, _ := parseOptionalString(msg.Values, fieldLastError)

	return Message{
		ID:          msg.ID,
		TaskType:    TaskTypeObservation,
		Observation: obs,
		Attempt:     attempt,
		TraceID:     traceID,
		LastError:   lastError,
		Raw:         msg,
	}, nil
}
