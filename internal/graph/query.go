package graph

import (
	"fmt"
	"slices"
)

type Path struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (p Path) Length() int { return len(p.Edges) }

type Subgraph struct {
	Center int64  `json:"center"`
	Depth  int    `json:"depth"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

// Hubs returns nodes by total degree, highest first. Equal degrees keep
// insertion order. A non-positive limit returns every node.
func (g *Graph) Hubs(limit int) []Node {
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return b.Degree - a.Degree
	})
	if limit > 0 && limit < len(nodes) {
		nodes = nodes[:limit]
	}
	return nodes
}

// Isolated returns nodes with no edges, in insertion order.
func (g *Graph) Isolated() []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Degree == 0 {
			out = append(out, *n)
		}
	}
	return out
}

// ShortestPath runs an unweighted BFS over undirected adjacency.
func (g *Graph) ShortestPath(from, to int64) (Path, error) {
	if !g.HasNode(from) {
		return Path{}, fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	if !g.HasNode(to) {
		return Path{}, fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	if from == to {
		n, _ := g.Node(from)
		return Path{Nodes: []Node{n}, Edges: []Edge{}}, nil
	}

	parent := map[int64]int64{from: from}
	queue := []int64{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return g.reconstruct(from, to, parent), nil
		}
		for _, next := range g.adj[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	return Path{}, fmt.Errorf("%w: %d -> %d", ErrNoPath, from, to)
}

func (g *Graph) reconstruct(from, to int64, parent map[int64]int64) Path {
	ids := []int64{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		ids = append(ids, cur)
	}
	slices.Reverse(ids)

	p := Path{Nodes: make([]Node, len(ids)), Edges: make([]Edge, 0, len(ids)-1)}
	for i, id := range ids {
		p.Nodes[i] = *g.index[id]
		if i > 0 {
			e, _ := g.EdgeBetween(ids[i-1], id)
			p.Edges = append(p.Edges, e)
		}
	}
	return p
}

// Neighbors expands breadth-first from id up to depth hops. The result
// holds every visited node and every edge touching at least one of them,
// so edges leading out of the frontier are included.
func (g *Graph) Neighbors(id int64, depth int) (Subgraph, error) {
	if depth < 0 {
		return Subgraph{}, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if !g.HasNode(id) {
		return Subgraph{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	visited := map[int64]bool{id: true}
	order := []int64{id}
	frontier := []int64{id}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []int64
		for _, cur := range frontier {
			for _, nb := range g.adj[cur] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				order = append(order, nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}

	sub := Subgraph{Center: id, Depth: depth, Nodes: make([]Node, len(order)), Edges: []Edge{}}
	for i, nid := range order {
		sub.Nodes[i] = *g.index[nid]
	}
	for _, e := range g.edges {
		if visited[e.Source] || visited[e.Target] {
			sub.Edges = append(sub.Edges, e)
		}
	}
	return sub, nil
}
