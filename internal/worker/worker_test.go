package worker_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dto "github.com/prometheus/client_model/go"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/worker"
)

func message(id string, attempt int) queue.Message {
	return queue.Message{
		ID:       id,
		TaskType: queue.TaskTypeObservation,
		Attempt:  attempt,
		Observation: model.Observation{
			ProjectID: 7, SourceActorID: 1, TargetActorID: 2, Type: "works_with", Confidence: 0.5,
		},
	}
}

var _ = Describe("Worker", func() {
	var (
		consumer *mockConsumer
		merger   *mockMerger
		registry *metrics.Registry
		w        *worker.Worker
		ctx      context.Context
	)

	queueCount := func(result string) float64 {
		var m dto.Metric
		Expect(registry.QueueMessagesTotal.WithLabelValues(result).Write(&m)).To(Succeed())
		return m.GetCounter().GetValue()
	}

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		merger = &mockMerger{}
		registry = metrics.NewRegistry()
		w = worker.New(consumer, merger, registry, worker.Config{MaxAttempts: 3, ErrorBackoff: 10 * time.Millisecond})
	})

	Describe("Handle", func() {
		It("merges and acks", func() {
			Expect(w.Handle(ctx, message("1-0", 1))).To(Succeed())

			Expect(merger.seen).To(HaveLen(1))
			Expect(merger.seen[0].Type).To(Equal("works_with"))
			Expect(consumer.acked).To(Equal([]string{"1-0"}))
			Expect(consumer.requeued).To(BeEmpty())
			Expect(queueCount("acked")).To(Equal(1.0))
		})

		It("counts a failed ack separately from an acked message", func() {
			consumer.ackErr = errors.New("connection reset")

			Expect(w.Handle(ctx, message("1-1", 1))).To(Succeed())

			Expect(merger.seen).To(HaveLen(1))
			Expect(queueCount("ack_failed")).To(Equal(1.0))
			Expect(queueCount("acked")).To(BeZero())
		})

		It("requeues transient failures below the attempt limit", func() {
			merger.mergeFn = func(ctx context.Context, obs model.Observation) (*service.MergeResult, error) {
				return nil, errors.New("deadlock detected")
			}

			err := w.Handle(ctx, message("2-0", 1))

			Expect(err).To(HaveOccurred())
			Expect(consumer.requeued).To(Equal([]string{"2-0"}))
			Expect(consumer.reasons).To(ConsistOf(ContainSubstring("deadlock")))
			Expect(consumer.acked).To(BeEmpty())
		})

		It("dead-letters once attempts are exhausted", func() {
			merger.mergeFn = func(ctx context.Context, obs model.Observation) (*service.MergeResult, error) {
				return nil, errors.New("still failing")
			}

			_ = w.Handle(ctx, message("3-0", 3))

			Expect(consumer.dlq).To(Equal([]string{"3-0"}))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("dead-letters invalid observations immediately", func() {
			merger.mergeFn = func(ctx context.Context, obs model.Observation) (*service.MergeResult, error) {
				return nil, fmt.Errorf("%w: confidence out of range", service.ErrInvalidObservation)
			}

			_ = w.Handle(ctx, message("4-0", 1))

			Expect(consumer.dlq).To(Equal([]string{"4-0"}))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("recovers from panics in the merger", func() {
			merger.mergeFn = func(ctx context.Context, obs model.Observation) (*service.MergeResult, error) {
				panic("boom")
			}

			err := w.Handle(ctx, message("5-0", 1))

			Expect(err).To(MatchError(ContainSubstring("panic: boom")))
			Expect(consumer.requeued).To(Equal([]string{"5-0"}))
		})
	})

	Describe("Run", func() {
		It("drains batches until stopped", func() {
			consumer.batches = [][]queue.Message{
				{message("1-0", 1), message("1-1", 1)},
				{message("2-0", 1)},
			}

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			Eventually(consumer.ackedIDs).Should(Equal([]string{"1-0", "1-1", "2-0"}))
			w.Stop()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("returns when the context is cancelled", func() {
			consumer.readErr = errors.New("connection reset")
			runCtx, cancel := context.WithCancel(ctx)

			done := make(chan error, 1)
			go func() { done <- w.Run(runCtx) }()
			cancel()

			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})
})
