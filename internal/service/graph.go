package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/config"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
)

// ErrUnavailable is returned when the graph cannot be built from the stores.
var ErrUnavailable = errors.New("graph data unavailable")

// GraphSource provides the read stores a graph build needs.
type GraphSource interface {
	Actors() store.ActorStore
	Relationships() store.RelationshipStore
	Tags() store.TagStore
}

// InvalidationPublisher fans a project invalidation out to other replicas.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context, projectID int64) error
}

// GraphMirror receives freshly refreshed default graphs.
type GraphMirror interface {
	PublishGraph(ctx context.Context, g *graph.Graph) error
}

// GraphInvalidator is what write paths need to keep the cache honest.
type GraphInvalidator interface {
	Invalidate(ctx context.Context, projectID int64)
}

type RefreshResult struct {
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
	Invalidated int       `json:"invalidated"`
	BuiltAt     time.Time `json:"built_at"`
}

type GraphService interface {
	GraphInvalidator
	Graph(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (*graph.Graph, error)
	Projection(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (graph.Projection, error)
	Hubs(ctx context.Context, projectID int64, limit int) ([]graph.Node, error)
	Isolated(ctx context.Context, projectID int64) ([]graph.Node, error)
	ShortestPath(ctx context.Context, projectID, from, to int64) (graph.Path, error)
	Neighbors(ctx context.Context, projectID, actorID int64, depth int) (graph.Subgraph, error)
	Refresh(ctx context.Context, projectID int64) (RefreshResult, error)
	// InvalidateLocal drops cached graphs without publishing. Used by the
	// invalidation listener for messages from other replicas.
	InvalidateLocal(projectID int64) int
}

type graphService struct {
	source    GraphSource
	cache     *graph.Cache
	metrics   *metrics.Registry
	publisher InvalidationPublisher
	mirror    GraphMirror
	cfg       config.GraphConfig
}

func NewGraphService(
	source GraphSource,
	cache *graph.Cache,
	metrics *metrics.Registry,
	publisher InvalidationPublisher,
	mirror GraphMirror,
	cfg config.GraphConfig,
) GraphService {
	return &graphService{
		source:    source,
		cache:     cache,
		metrics:   metrics,
		publisher: publisher,
		mirror:    mirror,
		cfg:       cfg,
	}
}

func (s *graphService) Graph(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (*graph.Graph, error) {
	if s.source == nil {
		return nil, ErrUnavailable
	}
	opts = opts.Canonical()

	g, hit, err := s.cache.GetOrBuild(ctx, projectID, opts, refresh, s.builder(projectID, opts))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCacheLookup(hit)
	return g, nil
}

func (s *graphService) Projection(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (graph.Projection, error) {
	g, err := s.Graph(ctx, projectID, opts, refresh)
	if err != nil {
		return graph.Projection{}, err
	}
	return g.Project(opts.GroupBy), nil
}

func (s *graphService) Hubs(ctx context.Context, projectID int64, limit int) ([]graph.Node, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultHubLimit
	}
	g, err := s.Graph(ctx, projectID, graph.DefaultOptions(), false)
	if err != nil {
		return nil, err
	}
	return g.Hubs(limit), nil
}

func (s *graphService) Isolated(ctx context.Context, projectID int64) ([]graph.Node, error) {
	g, err := s.Graph(ctx, projectID, graph.DefaultOptions(), false)
	if err != nil {
		return nil, err
	}
	return g.Isolated(), nil
}

func (s *graphService) ShortestPath(ctx context.Context, projectID, from, to int64) (graph.Path, error) {
	g, err := s.Graph(ctx, projectID, graph.DefaultOptions(), false)
	if err != nil {
		return graph.Path{}, err
	}
	return g.ShortestPath(from, to)
}

func (s *graphService) Neighbors(ctx context.Context, projectID, actorID int64, depth int) (graph.Subgraph, error) {
	if depth > s.cfg.MaxNeighborDepth {
		return graph.Subgraph{}, fmt.Errorf("%w: %d exceeds max %d", graph.ErrInvalidDepth, depth, s.cfg.MaxNeighborDepth)
	}
	g, err := s.Graph(ctx, projectID, graph.DefaultOptions(), false)
	if err != nil {
		return graph.Subgraph{}, err
	}
	return g.Neighbors(actorID, depth)
}

// Refresh invalidates every cached graph of the project, rebuilds the
// default graph and hands it to the mirror. Mirror failures are logged only.
func (s *graphService) Refresh(ctx context.Context, projectID int64) (RefreshResult, error) {
	if s.source == nil {
		return RefreshResult{}, ErrUnavailable
	}
	dropped := s.invalidate(ctx, projectID, "refresh")

	g, err := s.Graph(ctx, projectID, graph.DefaultOptions(), true)
	if err != nil {
		return RefreshResult{}, err
	}

	if s.mirror != nil {
		if err := s.mirror.PublishGraph(ctx, g); err != nil {
			slog.WarnContext(ctx, "graph mirror publish failed", "error", err)
		}
	}

	return RefreshResult{
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
		Invalidated: dropped,
		BuiltAt:     g.BuiltAt,
	}, nil
}

func (s *graphService) Invalidate(ctx context.Context, projectID int64) {
	s.invalidate(ctx, projectID, "write")
}

func (s *graphService) InvalidateLocal(projectID int64) int {
	s.metrics.RecordInvalidation("remote")
	return s.cache.Invalidate(projectID)
}

func (s *graphService) invalidate(ctx context.Context, projectID int64, origin string) int {
	n := s.cache.Invalidate(projectID)
	s.metrics.RecordInvalidation(origin)

	if s.publisher != nil {
		if err := s.publisher.PublishInvalidation(ctx, projectID); err != nil {
			slog.WarnContext(ctx, "failed to publish graph invalidation", "error", err)
		}
	}
	return n
}

func (s *graphService) builder(projectID int64, opts graph.Options) graph.BuildFunc {
	return func(ctx context.Context) (*graph.Graph, error) {
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			ProjectID: logger.Ptr(projectID),
			Component: "atlas.graph.build",
		})
		start := time.Now()

		in, err := s.load(ctx, projectID, opts)
		if err != nil {
			s.metrics.RecordGraphBuild(err, 0, 0, 0)
			slog.ErrorContext(ctx, "graph build failed", "error", err)
			return nil, err
		}

		g, report := graph.Synthesize(projectID, in, opts)
		for _, skipped := range report.Dangling {
			slog.WarnContext(ctx, "skipping relationship with missing actor",
				"relationship_id", skipped.RelationshipID,
				"source_actor_id", skipped.SourceActorID,
				"target_actor_id", skipped.TargetActorID,
				"type", skipped.Type)
		}
		s.metrics.RecordSkippedEdges("dangling", len(report.Dangling))
		s.metrics.RecordSkippedEdges("duplicate", report.Duplicates)
		s.metrics.RecordSkippedEdges("unresolved_tag", report.UnresolvedTags)

		elapsed := time.Since(start)
		s.metrics.RecordGraphBuild(nil, elapsed, g.NodeCount(), g.EdgeCount())
		slog.DebugContext(ctx, "graph built",
			"nodes", g.NodeCount(),
			"edges", g.EdgeCount(),
			"duration_ms", elapsed.Milliseconds())
		return g, nil
	}
}

// load reads every actor of the project so the synthesizer can tell a
// filtered endpoint from a dangling one.
func (s *graphService) load(ctx context.Context, projectID int64, opts graph.Options) (graph.Input, error) {
	actors, err := s.source.Actors().ListByProject(ctx, projectID, nil, true)
	if err != nil {
		return graph.Input{}, fmt.Errorf("%w: listing actors: %w", ErrUnavailable, err)
	}

	rels, err := s.source.Relationships().ListByProject(ctx, projectID, false)
	if err != nil {
		return graph.Input{}, fmt.Errorf("%w: listing relationships: %w", ErrUnavailable, err)
	}

	var cooccurrences []model.TagCooccurrence
	if opts.IncludeImplicit {
		cooccurrences, err = s.source.Tags().PersonProjectCooccurrence(ctx, projectID, graph.MinTagDocuments)
		if err != nil {
			return graph.Input{}, fmt.Errorf("%w: listing tag co-occurrence: %w", ErrUnavailable, err)
		}
	}

	return graph.Input{Actors: actors, Relationships: rels, Cooccurrences: cooccurrences}, nil
}
