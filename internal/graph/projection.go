package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	baseNodeSize = 10.0
	sizePerEdge  = 2.0
	maxNodeSize  = 50.0
)

type ProjectedNode struct {
	ID           string  `json:"id"`
	ActorID      int64   `json:"actor_id,string,omitempty"`
	Label        string  `json:"label"`
	Type         string  `json:"type"`
	Role         *string `json:"role,omitempty"`
	Team         *string `json:"team,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Parent       string  `json:"parent,omitempty"`
	IsGroup      bool    `json:"is_group,omitempty"`
	InDegree     int     `json:"in_degree"`
	OutDegree    int     `json:"out_degree"`
	Degree       int     `json:"degree"`
	Size         float64 `json:"size"`
}

type ProjectedEdge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	Type         string     `json:"type"`
	EdgeSource   EdgeSource `json:"edge_source"`
	Weight       float64    `json:"weight"`
	Confidence   float64    `json:"confidence"`
	Context      *string    `json:"context,omitempty"`
	DocumentPath *string    `json:"document_path,omitempty"`
}

type Projection struct {
	ProjectID int64           `json:"project_id"`
	GroupBy   GroupBy         `json:"group_by,omitempty"`
	Nodes     []ProjectedNode `json:"nodes"`
	Edges     []ProjectedEdge `json:"edges"`
	BuiltAt   time.Time       `json:"built_at"`
}

// SizeHint is a display size derived from degree. It carries no meaning
// beyond rendering.
func SizeHint(degree int) float64 {
	return min(baseNodeSize+sizePerEdge*float64(degree), maxNodeSize)
}

func NodeKey(actorID int64) string {
	return strconv.FormatInt(actorID, 10)
}

func groupKey(by GroupBy, value string) string {
	return fmt.Sprintf("group:%s:%s", by, strings.ToLower(value))
}

// Project renders the graph in a transport-neutral form. When groupBy is set
// one group node is emitted per distinct value, in first-seen order, and
// member nodes point at it through Parent. The graph itself is not changed.
func (g *Graph) Project(groupBy GroupBy) Projection {
	p := Projection{
		ProjectID: g.ProjectID,
		GroupBy:   groupBy,
		Nodes:     make([]ProjectedNode, 0, len(g.nodes)),
		Edges:     make([]ProjectedEdge, 0, len(g.edges)),
		BuiltAt:   g.BuiltAt,
	}

	var groups []ProjectedNode
	seen := make(map[string]bool)

	for _, n := range g.nodes {
		a := n.Actor
		pn := ProjectedNode{
			ID:           NodeKey(a.ID),
			ActorID:      a.ID,
			Label:        a.Name,
			Type:         string(a.Type),
			Role:         a.Role,
			Team:         a.Team,
			Organization: a.Organization,
			InDegree:     n.InDegree,
			OutDegree:    n.OutDegree,
			Degree:       n.Degree,
			Size:         SizeHint(n.Degree),
		}

		if value := groupValue(n, groupBy); value != "" {
			key := groupKey(groupBy, value)
			pn.Parent = key
			if !seen[key] {
				seen[key] = true
				groups = append(groups, ProjectedNode{
					ID:      key,
					Label:   value,
					Type:    "group",
					IsGroup: true,
					Size:    baseNodeSize,
				})
			}
		}
		p.Nodes = append(p.Nodes, pn)
	}
	p.Nodes = append(groups, p.Nodes...)

	for i, e := range g.edges {
		p.Edges = append(p.Edges, ProjectedEdge{
			ID:           "e" + strconv.Itoa(i),
			Source:       NodeKey(e.Source),
			Target:       NodeKey(e.Target),
			Type:         e.Type,
			EdgeSource:   e.EdgeSource,
			Weight:       e.Weight,
			Confidence:   e.Confidence,
			Context:      e.Context,
			DocumentPath: e.DocumentPath,
		})
	}
	return p
}

func groupValue(n *Node, by GroupBy) string {
	switch by {
	case GroupByTeam:
		return strings.TrimSpace(deref(n.Actor.Team))
	case GroupByOrganization:
		return strings.TrimSpace(deref(n.Actor.Organization))
	case GroupByType:
		return string(n.Actor.Type)
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
