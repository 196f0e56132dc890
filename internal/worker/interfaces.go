package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// ObservationMerger is the slice of service.SuggestionService the worker needs.
type ObservationMerger interface {
	MergeObservation(ctx context.Context, obs model.Observation) (*service.MergeResult, error)
}

// StaleClaimer hands the reclaimer messages abandoned in the pending list.
type StaleClaimer interface {
	ClaimStale(ctx context.Context, consumer string, minIdle time.Duration, count int64) ([]redis.XMessage, error)
	DiscardMalformed(ctx context.Context, raw redis.XMessage, parseErr error)
}
