package handler_test

import (
	"context"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

type mockGraphService struct {
	projectionFn func(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (graph.Projection, error)
	hubsFn       func(ctx context.Context, projectID int64, limit int) ([]graph.Node, error)
	isolatedFn   func(ctx context.Context, projectID int64) ([]graph.Node, error)
	pathFn       func(ctx context.Context, projectID, from, to int64) (graph.Path, error)
	neighborsFn  func(ctx context.Context, projectID, actorID int64, depth int) (graph.Subgraph, error)
	refreshFn    func(ctx context.Context, projectID int64) (service.RefreshResult, error)
}

func (m *mockGraphService) Graph(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (*graph.Graph, error) {
	return nil, service.ErrUnavailable
}

func (m *mockGraphService) Projection(ctx context.Context, projectID int64, opts graph.Options, refresh bool) (graph.Projection, error) {
	if m.projectionFn != nil {
		return m.projectionFn(ctx, projectID, opts, refresh)
	}
	return graph.Projection{ProjectID: projectID, Nodes: []graph.ProjectedNode{}, Edges: []graph.ProjectedEdge{}}, nil
}

func (m *mockGraphService) Hubs(ctx context.Context, projectID int64, limit int) ([]graph.Node, error) {
	if m.hubsFn != nil {
		return m.hubsFn(ctx, projectID, limit)
	}
	return []graph.Node{}, nil
}

func (m *mockGraphService) Isolated(ctx context.Context, projectID int64) ([]graph.Node, error) {
	if m.isolatedFn != nil {
		return m.isolatedFn(ctx, projectID)
	}
	return []graph.Node{}, nil
}

func (m *mockGraphService) ShortestPath(ctx context.Context, projectID, from, to int64) (graph.Path, error) {
	if m.pathFn != nil {
		return m.pathFn(ctx, projectID, from, to)
	}
	return graph.Path{}, graph.ErrNoPath
}

func (m *mockGraphService) Neighbors(ctx context.Context, projectID, actorID int64, depth int) (graph.Subgraph, error) {
	if m.neighborsFn != nil {
		return m.neighborsFn(ctx, projectID, actorID, depth)
	}
	return graph.Subgraph{Center: actorID, Depth: depth}, nil
}

func (m *mockGraphService) Refresh(ctx context.Context, projectID int64) (service.RefreshResult, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, projectID)
	}
	return service.RefreshResult{}, nil
}

func (m *mockGraphService) Invalidate(ctx context.Context, projectID int64) {}

func (m *mockGraphService) InvalidateLocal(projectID int64) int { return 0 }

type mockSuggestionService struct {
	listFn    func(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error)
	statsFn   func(ctx context.Context, projectID int64) (model.SuggestionStats, error)
	approveFn func(ctx context.Context, projectID, suggestionID int64) (*service.ApproveResult, error)
	rejectFn  func(ctx context.Context, projectID, suggestionID int64) error
	dismissFn func(ctx context.Context, projectID, suggestionID int64) (*model.Suggestion, error)
	mergeFn   func(ctx context.Context, obs model.Observation) (*service.MergeResult, error)
}

func (m *mockSuggestionService) List(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error) {
	if m.listFn != nil {
		return m.listFn(ctx, projectID, filter)
	}
	return []model.Suggestion{}, nil
}

func (m *mockSuggestionService) Stats(ctx context.Context, projectID int64) (model.SuggestionStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, projectID)
	}
	return model.SuggestionStats{}, nil
}

func (m *mockSuggestionService) Approve(ctx context.Context, projectID, suggestionID int64) (*service.ApproveResult, error) {
	if m.approveFn != nil {
		return m.approveFn(ctx, projectID, suggestionID)
	}
	return nil, service.ErrSuggestionNotFound
}

func (m *mockSuggestionService) Reject(ctx context.Context, projectID, suggestionID int64) error {
	if m.rejectFn != nil {
		return m.rejectFn(ctx, projectID, suggestionID)
	}
	return nil
}

func (m *mockSuggestionService) Dismiss(ctx context.Context, projectID, suggestionID int64) (*model.Suggestion, error) {
	if m.dismissFn != nil {
		return m.dismissFn(ctx, projectID, suggestionID)
	}
	return nil, service.ErrSuggestionNotFound
}

func (m *mockSuggestionService) MergeObservation(ctx context.Context, obs model.Observation) (*service.MergeResult, error) {
	if m.mergeFn != nil {
		return m.mergeFn(ctx, obs)
	}
	return nil, service.ErrInvalidObservation
}
