package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
)

// InvalidationBus carries graph invalidations between replicas over redis
// pub/sub. Payloads are "<project_id>" or "<project_id>:<origin>". A
// replica ignores messages it published itself. External writers publish
// the bare project id.
type InvalidationBus struct {
	client  *redis.Client
	channel string
	origin  string
}

func NewInvalidationBus(client *redis.Client, channel, origin string) *InvalidationBus {
	return &InvalidationBus{client: client, channel: channel, origin: origin}
}

func (b *InvalidationBus) PublishInvalidation(ctx context.Context, projectID int64) error {
	payload := FormatInvalidation(projectID, b.origin)
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing invalidation (channel=%s): %w", b.channel, err)
	}
	return nil
}

// Listen subscribes to the channel and calls handle for every project
// invalidated by another replica or an external writer. It returns when
// ctx is cancelled.
func (b *InvalidationBus) Listen(ctx context.Context, handle func(ctx context.Context, projectID int64)) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "atlas.queue.invalidation",
	})

	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", b.channel, err)
	}
	slog.InfoContext(ctx, "invalidation listener started", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			projectID, origin, err := ParseInvalidation(msg.Payload)
			if err != nil {
				slog.WarnContext(ctx, "ignoring malformed invalidation", "payload", msg.Payload, "error", err)
				continue
			}
			if origin != "" && origin == b.origin {
				continue
			}
			handle(ctx, projectID)
		}
	}
}

func FormatInvalidation(projectID int64, origin string) string {
	if origin == "" {
		return strconv.FormatInt(projectID, 10)
	}
	return strconv.FormatInt(projectID, 10) + ":" + origin
}

func ParseInvalidation(payload string) (int64, string, error) {
	idPart, origin, _ := strings.Cut(strings.TrimSpace(payload), ":")
	projectID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parsing project id: %w", err)
	}
	if projectID <= 0 {
		return 0, "", fmt.Errorf("invalid project id %d", projectID)
	}
	return projectID, origin, nil
}
