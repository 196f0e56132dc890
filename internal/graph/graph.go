// Package graph builds and queries the in-memory actor graph of a project.
// A Graph is assembled once by Synthesize and is read-only afterwards.
package graph

import (
	"errors"
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

var (
	ErrNodeNotFound = errors.New("node not found in graph")
	ErrNoPath       = errors.New("no path between nodes")
	ErrInvalidDepth = errors.New("invalid neighbor depth")

	errDanglingEdge  = errors.New("edge references missing node")
	errDuplicateEdge = errors.New("pair already connected")
)

type EdgeSource string

const (
	EdgeSourceExplicit        EdgeSource = "explicit"
	EdgeSourceImplicitTeam    EdgeSource = "implicit_team"
	EdgeSourceImplicitOrg     EdgeSource = "implicit_org"
	EdgeSourceTagCooccurrence EdgeSource = "tag_cooccurrence"
)

// Edge types assigned to inferred edges. Explicit edges carry the
// relationship's own type.
const (
	EdgeTypeSameTeam         = "same_team"
	EdgeTypeSameOrganization = "same_organization"
	EdgeTypeTagCooccurrence  = "tag_cooccurrence"
)

type Node struct {
	Actor     model.Actor `json:"actor"`
	InDegree  int         `json:"in_degree"`
	OutDegree int         `json:"out_degree"`
	Degree    int         `json:"degree"`
}

func (n Node) ID() int64 { return n.Actor.ID }

type Edge struct {
	Source         int64      `json:"source"`
	Target         int64      `json:"target"`
	Type           string     `json:"type"`
	EdgeSource     EdgeSource `json:"edge_source"`
	Weight         float64    `json:"weight"`
	Confidence     float64    `json:"confidence"`
	RelationshipID int64      `json:"relationship_id,omitempty"`
	Context        *string    `json:"context,omitempty"`
	DocumentPath   *string    `json:"document_path,omitempty"`
}

type pairKey struct{ a, b int64 }

func keyFor(x, y int64) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// Graph is an adjacency-map graph. Connectivity is tracked per unordered
// pair so each pair of actors carries at most one edge.
type Graph struct {
	ProjectID int64
	Options   Options
	BuiltAt   time.Time

	nodes []*Node
	index map[int64]*Node
	edges []Edge
	adj   map[int64][]int64
	pairs map[pairKey]int
}

func newGraph(projectID int64, opts Options) *Graph {
	return &Graph{
		ProjectID: projectID,
		Options:   opts,
		BuiltAt:   time.Now().UTC(),
		index:     make(map[int64]*Node),
		adj:       make(map[int64][]int64),
		pairs:     make(map[pairKey]int),
	}
}

func (g *Graph) addNode(a model.Actor) bool {
	if _, ok := g.index[a.ID]; ok {
		return false
	}
	n := &Node{Actor: a}
	g.nodes = append(g.nodes, n)
	g.index[a.ID] = n
	return true
}

func (g *Graph) addEdge(e Edge) error {
	src, ok := g.index[e.Source]
	if !ok {
		return errDanglingEdge
	}
	dst, ok := g.index[e.Target]
	if !ok {
		return errDanglingEdge
	}
	k := keyFor(e.Source, e.Target)
	if _, ok := g.pairs[k]; ok {
		return errDuplicateEdge
	}

	g.pairs[k] = len(g.edges)
	g.edges = append(g.edges, e)
	g.adj[e.Source] = append(g.adj[e.Source], e.Target)
	if e.Source != e.Target {
		g.adj[e.Target] = append(g.adj[e.Target], e.Source)
	}

	src.OutDegree++
	dst.InDegree++
	src.Degree = src.InDegree + src.OutDegree
	dst.Degree = dst.InDegree + dst.OutDegree
	return nil
}

func (g *Graph) connected(x, y int64) bool {
	_, ok := g.pairs[keyFor(x, y)]
	return ok
}

func (g *Graph) HasNode(id int64) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns a copy of the node with the given actor id.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeBetween returns the edge joining x and y in either direction.
func (g *Graph) EdgeBetween(x, y int64) (Edge, bool) {
	i, ok := g.pairs[keyFor(x, y)]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }
