package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

type Config struct {
	MaxAttempts  int
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer Consumer
	merger   ObservationMerger
	metrics  *metrics.Registry
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, merger ObservationMerger, metrics *metrics.Registry, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		merger:    merger,
		metrics:   metrics,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "atlas.worker"})
	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.Handle(ctx, msg)
	}
	return nil
}

// Handle processes one message and settles it: ack on success, requeue or
// DLQ on failure. Exported so the reclaimer settles messages the same way.
// The returned error is the processing error, already handled.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	msgID := msg.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID: &msgID,
		ProjectID: logger.Ptr(msg.Observation.ProjectID),
	})

	err := w.processMessageSafe(ctx, msg)
	if err == nil {
		return nil
	}

	slog.ErrorContext(ctx, "message processing failed",
		"error", err,
		"attempt", msg.Attempt)
	w.handleFailedMessage(ctx, msg, err)
	return err
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage merges the observation carried by msg and acks it.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.merge_observation",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("project_id", msg.Observation.ProjectID),
			attribute.String("relationship_type", msg.Observation.Type),
			attribute.Int("attempt", msg.Attempt),
		))
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	result, err := w.merger.MergeObservation(ctx, msg.Observation)
	if err != nil {
		sc.RecordError(err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The merge is committed. A redelivery only refreshes the same document.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
		w.metrics.RecordQueueMessage("ack_failed")
	} else {
		w.metrics.RecordQueueMessage("acked")
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{SuggestionID: logger.Ptr(result.Suggestion.ID)})
	slog.InfoContext(ctx, "observation merged",
		"outcome", result.Outcome,
		"evidence_count", result.Suggestion.EvidenceCount,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	permanent := errors.Is(err, service.ErrInvalidObservation)
	if permanent || msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "sending message to DLQ",
			"attempts", msg.Attempt,
			"permanent", permanent)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
			return
		}
		w.metrics.RecordQueueMessage("dead_lettered")
		return
	}

	slog.WarnContext(ctx, "requeuing failed message", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
		return
	}
	w.metrics.RecordQueueMessage("requeued")
}
