package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/worker"
)

func staleMessage(id string) redis.XMessage {
	return redis.XMessage{ID: id, Values: map[string]any{
		"task_type":       "observation",
		"project_id":      "7",
		"source_actor_id": "1",
		"target_actor_id": "2",
		"type":            "works_with",
		"confidence":      "0.5",
		"attempt":         "2",
	}}
}

var _ = Describe("Reclaimer", func() {
	var (
		ctx       context.Context
		claimer   *mockClaimer
		processed []queue.Message
		procErr   error
		r         *worker.Reclaimer
	)

	BeforeEach(func() {
		ctx = context.Background()
		claimer = &mockClaimer{}
		processed = nil
		procErr = nil
		r = worker.NewReclaimer(claimer, worker.ReclaimerConfig{
			Consumer:  "atlas-worker-reclaimer",
			BatchSize: 2,
		}, func(ctx context.Context, msg queue.Message) error {
			processed = append(processed, msg)
			return procErr
		})
	})

	It("claims under its own consumer name and reprocesses each message", func() {
		claimer.stale = []redis.XMessage{staleMessage("1-0"), staleMessage("2-0"), staleMessage("3-0")}

		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(claimer.consumers).To(ConsistOf("atlas-worker-reclaimer"))
		Expect(processed).To(HaveLen(2))
		Expect(processed[0].Attempt).To(Equal(2))
		Expect(processed[1].Observation.ProjectID).To(Equal(int64(7)))
	})

	It("discards messages that cannot be parsed", func() {
		claimer.stale = []redis.XMessage{{ID: "9-0", Values: map[string]any{"task_type": "sync_repo"}}}

		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(claimer.discarded).To(ConsistOf("9-0"))
		Expect(processed).To(BeEmpty())
	})

	It("keeps going when the processor fails", func() {
		claimer.stale = []redis.XMessage{staleMessage("1-0"), staleMessage("2-0")}
		procErr = errors.New("db down")

		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(processed).To(HaveLen(2))
	})

	It("returns claim errors", func() {
		claimer.claimErr = errors.New("xautoclaim: NOGROUP")

		_, err := r.ReclaimOnce(ctx)
		Expect(err).To(MatchError(ContainSubstring("NOGROUP")))
	})

	It("stops when asked", func() {
		done := make(chan struct{})
		go func() {
			r.Run(ctx)
			close(done)
		}()

		r.Stop()
		Eventually(done, time.Second).Should(BeClosed())
	})
})
