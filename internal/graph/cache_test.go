package graph_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

var _ = Describe("Cache", func() {
	var (
		cache  *graph.Cache
		ctx    context.Context
		builds atomic.Int32
		build  graph.BuildFunc
	)

	BeforeEach(func() {
		cache = graph.NewCache()
		ctx = context.Background()
		builds.Store(0)
		build = func(ctx context.Context) (*graph.Graph, error) {
			builds.Add(1)
			g, _ := graph.Synthesize(1, graph.Input{Actors: []model.Actor{person(1, "Ana")}}, graph.DefaultOptions())
			return g, nil
		}
	})

	It("builds on miss and serves hits without rebuilding", func() {
		g1, hit, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, build)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())

		g2, hit, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, build)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeTrue())
		Expect(g2).To(BeIdenticalTo(g1))
		Expect(builds.Load()).To(Equal(int32(1)))
	})

	It("keeps separate entries per option key and project", func() {
		other := graph.DefaultOptions()
		other.IncludeArchived = true

		_, _, _ = cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, build)
		_, _, _ = cache.GetOrBuild(ctx, 1, other, false, build)
		_, _, _ = cache.GetOrBuild(ctx, 2, graph.DefaultOptions(), false, build)

		Expect(cache.Len()).To(Equal(3))
		Expect(builds.Load()).To(Equal(int32(3)))
	})

	It("rebuilds when refresh is requested", func() {
		g1, _, _ := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, build)
		g2, hit, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), true, build)

		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
		Expect(g2).NotTo(BeIdenticalTo(g1))
		cached, ok := cache.Get(1, graph.DefaultOptions())
		Expect(ok).To(BeTrue())
		Expect(cached).To(BeIdenticalTo(g2))
	})

	It("invalidates only the given project", func() {
		_, _, _ = cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, build)
		_, _, _ = cache.GetOrBuild(ctx, 2, graph.DefaultOptions(), false, build)

		Expect(cache.Invalidate(1)).To(Equal(1))
		_, ok := cache.Get(1, graph.DefaultOptions())
		Expect(ok).To(BeFalse())
		_, ok = cache.Get(2, graph.DefaultOptions())
		Expect(ok).To(BeTrue())

		cache.InvalidateAll()
		Expect(cache.Len()).To(BeZero())
	})

	It("does not cache failed builds", func() {
		boom := errors.New("db down")
		_, _, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, func(context.Context) (*graph.Graph, error) {
			return nil, boom
		})
		Expect(err).To(MatchError(boom))
		Expect(cache.Len()).To(BeZero())
	})

	It("coalesces concurrent misses on the same key", func() {
		release := make(chan struct{})
		slow := func(ctx context.Context) (*graph.Graph, error) {
			<-release
			return build(ctx)
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, _, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, slow)
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		Expect(builds.Load()).To(Equal(int32(1)))
	})

	It("drops a build that raced with invalidation", func() {
		started := make(chan struct{})
		release := make(chan struct{})
		slow := func(ctx context.Context) (*graph.Graph, error) {
			close(started)
			<-release
			return build(ctx)
		}

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			_, _, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, slow)
			Expect(err).NotTo(HaveOccurred())
		}()

		<-started
		cache.Invalidate(1)
		close(release)
		<-done

		_, ok := cache.Get(1, graph.DefaultOptions())
		Expect(ok).To(BeFalse())
	})

	It("does not hand a pre-invalidation build to later callers", func() {
		started := make(chan struct{})
		release := make(chan struct{})
		slow := func(ctx context.Context) (*graph.Graph, error) {
			close(started)
			<-release
			return build(ctx)
		}
		fresh := func(ctx context.Context) (*graph.Graph, error) {
			g, _ := graph.Synthesize(1, graph.Input{Actors: []model.Actor{person(1, "Ana"), person(2, "Ben")}}, graph.DefaultOptions())
			return g, nil
		}

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			g, _, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, slow)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.NodeCount()).To(Equal(1))
		}()

		<-started
		cache.Invalidate(1)

		g, hit, err := cache.GetOrBuild(ctx, 1, graph.DefaultOptions(), false, fresh)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
		Expect(g.NodeCount()).To(Equal(2))

		close(release)
		<-done

		cached, ok := cache.Get(1, graph.DefaultOptions())
		Expect(ok).To(BeTrue())
		Expect(cached).To(BeIdenticalTo(g))
	})
})
