package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/config"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

func teamActor(id int64, name, team string) model.Actor {
	a := model.Actor{ID: id, ProjectID: projectID, Name: name, Type: model.ActorTypePerson}
	if team != "" {
		a.Team = &team
	}
	return a
}

var _ = Describe("GraphService", func() {
	var (
		svc       service.GraphService
		actors    *mockActorStore
		relations *memRelationshipStore
		publisher *mockPublisher
		mirror    *mockMirror
		cfg       config.GraphConfig
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		actors = &mockActorStore{
			listFn: func(ctx context.Context, pid int64, types []model.ActorType, includeArchived bool) ([]model.Actor, error) {
				return []model.Actor{
					teamActor(1, "Ana", "billing"),
					teamActor(2, "Ben", "Billing "),
					teamActor(3, "Cara", ""),
					teamActor(4, "Dan", ""),
				}, nil
			},
		}
		relations = newMemRelationshipStore()
		relations.listFn = func(ctx context.Context, pid int64, includeUnapproved bool) ([]model.Relationship, error) {
			return []model.Relationship{{
				ID: 100, ProjectID: projectID, SourceActorID: 2, TargetActorID: 3,
				Type: "reports_to", Strength: 1, Confidence: 1, Approved: true,
			}}, nil
		}
		publisher = &mockPublisher{}
		mirror = &mockMirror{}
		cfg = config.GraphConfig{DefaultHubLimit: 2, MaxNeighborDepth: 2, ExcerptCap: 5}

		source := &mockGraphSource{actors: actors, relationships: relations, tags: &mockTagStore{}}
		svc = service.NewGraphService(source, graph.NewCache(), metrics.NewRegistry(), publisher, mirror, cfg)
	})

	Describe("Graph", func() {
		It("builds explicit and implicit edges", func() {
			g, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), false)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.NodeCount()).To(Equal(4))
			Expect(g.EdgeCount()).To(Equal(2))

			team, ok := g.EdgeBetween(1, 2)
			Expect(ok).To(BeTrue())
			Expect(team.Type).To(Equal(graph.EdgeTypeSameTeam))
		})

		It("serves repeat requests from the cache", func() {
			first, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(BeIdenticalTo(first))
			Expect(actors.calls).To(Equal(1))
		})

		It("rebuilds when refresh is requested", func() {
			_, _ = svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			_, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), true)

			Expect(err).NotTo(HaveOccurred())
			Expect(actors.calls).To(Equal(2))
		})

		It("keeps separate entries per option set", func() {
			_, _ = svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			g, err := svc.Graph(ctx, projectID, graph.Options{}, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.EdgeCount()).To(Equal(1))
			Expect(actors.calls).To(Equal(2))
		})

		It("reports store failures as unavailable and does not cache them", func() {
			actors.listFn = func(ctx context.Context, pid int64, types []model.ActorType, includeArchived bool) ([]model.Actor, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			Expect(err).To(MatchError(service.ErrUnavailable))
			_, err = svc.Graph(ctx, projectID, graph.DefaultOptions(), false)
			Expect(err).To(MatchError(service.ErrUnavailable))
			Expect(actors.calls).To(Equal(2))
		})

		It("is unavailable without a source", func() {
			bare := service.NewGraphService(nil, graph.NewCache(), metrics.NewRegistry(), nil, nil, cfg)
			_, err := bare.Graph(ctx, projectID, graph.DefaultOptions(), false)
			Expect(err).To(MatchError(service.ErrUnavailable))
		})
	})

	Describe("Invalidate", func() {
		It("drops cached graphs and notifies other replicas", func() {
			_, _ = svc.Graph(ctx, projectID, graph.DefaultOptions(), false)

			svc.Invalidate(ctx, projectID)
			_, err := svc.Graph(ctx, projectID, graph.DefaultOptions(), false)

			Expect(err).NotTo(HaveOccurred())
			Expect(actors.calls).To(Equal(2))
			Expect(publisher.published).To(Equal([]int64{projectID}))
		})

		It("tolerates publish failures", func() {
			publisher.err = errors.New("redis down")
			Expect(func() { svc.Invalidate(ctx, projectID) }).NotTo(Panic())
		})

		It("does not publish local invalidations", func() {
			_, _ = svc.Graph(ctx, projectID, graph.DefaultOptions(), false)

			Expect(svc.InvalidateLocal(projectID)).To(Equal(1))
			Expect(publisher.published).To(BeEmpty())
		})
	})

	Describe("Refresh", func() {
		It("rebuilds and mirrors the default graph", func() {
			_, _ = svc.Graph(ctx, projectID, graph.Options{}, false)

			res, err := svc.Refresh(ctx, projectID)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Nodes).To(Equal(4))
			Expect(res.Edges).To(Equal(2))
			Expect(res.Invalidated).To(Equal(1))
			Expect(res.BuiltAt).NotTo(BeZero())
			Expect(mirror.graphs).To(HaveLen(1))
		})

		It("succeeds when the mirror fails", func() {
			mirror.err = errors.New("arango unreachable")

			_, err := svc.Refresh(ctx, projectID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("queries", func() {
		It("limits hubs to the configured default", func() {
			hubs, err := svc.Hubs(ctx, projectID, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(hubs).To(HaveLen(2))
			Expect(hubs[0].ID()).To(Equal(int64(2)))
		})

		It("lists isolated actors", func() {
			isolated, err := svc.Isolated(ctx, projectID)

			Expect(err).NotTo(HaveOccurred())
			Expect(isolated).To(HaveLen(1))
			Expect(isolated[0].Actor.Name).To(Equal("Dan"))
		})

		It("finds a path across edge kinds", func() {
			path, err := svc.ShortestPath(ctx, projectID, 1, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(path.Length()).To(Equal(2))
		})

		It("reports unknown endpoints and unreachable targets", func() {
			_, err := svc.ShortestPath(ctx, projectID, 1, 999)
			Expect(err).To(MatchError(graph.ErrNodeNotFound))

			_, err = svc.ShortestPath(ctx, projectID, 1, 4)
			Expect(err).To(MatchError(graph.ErrNoPath))
		})

		It("bounds neighbor depth", func() {
			_, err := svc.Neighbors(ctx, projectID, 1, cfg.MaxNeighborDepth+1)
			Expect(err).To(MatchError(graph.ErrInvalidDepth))
			Expect(actors.calls).To(BeZero())

			sub, err := svc.Neighbors(ctx, projectID, 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Nodes).To(HaveLen(2))
		})
	})
})
