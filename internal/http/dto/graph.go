package dto

import (
	"strings"
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type GraphQuery struct {
	ActorTypes      string  `form:"actor_types"`
	EdgeTypes       string  `form:"edge_types"`
	MinConfidence   float64 `form:"min_confidence" binding:"gte=0,lte=1"`
	IncludeImplicit *bool   `form:"include_implicit"`
	IncludeArchived bool    `form:"include_archived"`
	GroupBy         string  `form:"group_by" binding:"omitempty,oneof=team organization type"`
	Refresh         bool    `form:"refresh"`
}

// Options converts the query into graph options. include_implicit defaults to true.
func (q GraphQuery) Options() (graph.Options, error) {
	groupBy, err := graph.ParseGroupBy(q.GroupBy)
	if err != nil {
		return graph.Options{}, err
	}

	opts := graph.DefaultOptions()
	if q.IncludeImplicit != nil {
		opts.IncludeImplicit = *q.IncludeImplicit
	}
	opts.IncludeArchived = q.IncludeArchived
	opts.MinConfidence = q.MinConfidence
	opts.GroupBy = groupBy
	for _, t := range splitList(q.ActorTypes) {
		opts.ActorTypes = append(opts.ActorTypes, model.ActorType(t))
	}
	opts.EdgeTypes = splitList(q.EdgeTypes)
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type HubsQuery struct {
	Limit int `form:"limit" binding:"gte=0,lte=500"`
}

type PathQuery struct {
	From int64 `form:"from" binding:"required"`
	To   int64 `form:"to" binding:"required"`
}

type NeighborsQuery struct {
	Depth *int `form:"depth"`
}

type NodeResponse struct {
	ID           int64           `json:"id,string"`
	Name         string          `json:"name"`
	Type         model.ActorType `json:"type"`
	Role         *string         `json:"role,omitempty"`
	Team         *string         `json:"team,omitempty"`
	Organization *string         `json:"organization,omitempty"`
	MentionCount int             `json:"mention_count"`
	InDegree     int             `json:"in_degree"`
	OutDegree    int             `json:"out_degree"`
	Degree       int             `json:"degree"`
}

func ToNodeResponse(n graph.Node) NodeResponse {
	return NodeResponse{
		ID:           n.Actor.ID,
		Name:         n.Actor.Name,
		Type:         n.Actor.Type,
		Role:         n.Actor.Role,
		Team:         n.Actor.Team,
		Organization: n.Actor.Organization,
		MentionCount: n.Actor.MentionCount,
		InDegree:     n.InDegree,
		OutDegree:    n.OutDegree,
		Degree:       n.Degree,
	}
}

func ToNodeResponses(nodes []graph.Node) []NodeResponse {
	out := make([]NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = ToNodeResponse(n)
	}
	return out
}

type EdgeResponse struct {
	Source         int64            `json:"source,string"`
	Target         int64            `json:"target,string"`
	Type           string           `json:"type"`
	EdgeSource     graph.EdgeSource `json:"edge_source"`
	Weight         float64          `json:"weight"`
	Confidence     float64          `json:"confidence"`
	RelationshipID int64            `json:"relationship_id,string,omitempty"`
	Context        *string          `json:"context,omitempty"`
	DocumentPath   *string          `json:"document_path,omitempty"`
}

func ToEdgeResponses(edges []graph.Edge) []EdgeResponse {
	out := make([]EdgeResponse, len(edges))
	for i, e := range edges {
		out[i] = EdgeResponse{
			Source:         e.Source,
			Target:         e.Target,
			Type:           e.Type,
			EdgeSource:     e.EdgeSource,
			Weight:         e.Weight,
			Confidence:     e.Confidence,
			RelationshipID: e.RelationshipID,
			Context:        e.Context,
			DocumentPath:   e.DocumentPath,
		}
	}
	return out
}

type HubsResponse struct {
	Hubs []NodeResponse `json:"hubs"`
}

type IsolatedResponse struct {
	Isolated []NodeResponse `json:"isolated"`
}

type PathResponse struct {
	Found  bool           `json:"found"`
	Length int            `json:"length"`
	Nodes  []NodeResponse `json:"nodes"`
	Edges  []EdgeResponse `json:"edges"`
}

func ToPathResponse(p graph.Path) PathResponse {
	return PathResponse{
		Found:  true,
		Length: p.Length(),
		Nodes:  ToNodeResponses(p.Nodes),
		Edges:  ToEdgeResponses(p.Edges),
	}
}

func NoPathResponse() PathResponse {
	return PathResponse{Nodes: []NodeResponse{}, Edges: []EdgeResponse{}}
}

type NeighborsResponse struct {
	Center int64          `json:"center,string"`
	Depth  int            `json:"depth"`
	Nodes  []NodeResponse `json:"nodes"`
	Edges  []EdgeResponse `json:"edges"`
}

func ToNeighborsResponse(s graph.Subgraph) NeighborsResponse {
	return NeighborsResponse{
		Center: s.Center,
		Depth:  s.Depth,
		Nodes:  ToNodeResponses(s.Nodes),
		Edges:  ToEdgeResponses(s.Edges),
	}
}

type RefreshResponse struct {
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
	Invalidated int       `json:"invalidated"`
	BuiltAt     time.Time `json:"built_at"`
}
