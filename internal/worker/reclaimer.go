package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
)

type ReclaimerConfig struct {
	// Consumer is the name claimed messages are assigned to.
	Consumer  string
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
}

func (c ReclaimerConfig) withDefaults() ReclaimerConfig {
	if c.MinIdle <= 0 {
		c.MinIdle = 5 * time.Minute
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	return c
}

// Reclaimer re-processes observations left pending by a worker that died
// between XREADGROUP and XACK.
type Reclaimer struct {
	claimer   StaleClaimer
	cfg       ReclaimerConfig
	processor queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReclaimer(claimer StaleClaimer, cfg ReclaimerConfig, processor queue.MessageProcessor) *Reclaimer {
	return &Reclaimer{
		claimer:   claimer,
		cfg:       cfg.withDefaults(),
		processor: processor,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run blocks until Stop is called or ctx is done.
func (r *Reclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "atlas.worker.reclaimer",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started",
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.C:
			n, err := r.ReclaimOnce(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "reclaim cycle error", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "reclaimed stale messages", "count", n)
			}
		}
	}
}

func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce claims one batch of stale messages and runs each through the
// processor. It returns how many were claimed.
func (r *Reclaimer) ReclaimOnce(ctx context.Context) (int, error) {
	messages, err := r.claimer.ClaimStale(ctx, r.cfg.Consumer, r.cfg.MinIdle, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	for _, raw := range messages {
		if err := r.reclaimMessage(ctx, raw); err != nil {
			slog.ErrorContext(ctx, "failed to reprocess reclaimed message",
				"error", err,
				"message_id", raw.ID)
		}
	}
	return len(messages), nil
}

func (r *Reclaimer) reclaimMessage(ctx context.Context, raw redis.XMessage) error {
	msgID := raw.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, err := queue.ParseMessage(raw)
	if err != nil {
		slog.WarnContext(ctx, "discarding malformed reclaimed message", "error", err)
		r.claimer.DiscardMalformed(ctx, raw, err)
		return nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ProjectID: logger.Ptr(msg.Observation.ProjectID),
	})

	start := time.Now()
	if err := r.processor(ctx, msg); err != nil {
		return fmt.Errorf("processing reclaimed message: %w", err)
	}

	slog.DebugContext(ctx, "reclaimed message processed",
		"attempt", msg.Attempt,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
