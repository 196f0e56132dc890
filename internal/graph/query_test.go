package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

func nodeIDs(nodes []graph.Node) []int64 {
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids
}

var _ = Describe("Queries", func() {
	Describe("ShortestPath and Neighbors on a chain", func() {
		// A(1) - B(2) - C(3) - D(4), E(5) disconnected
		var g *graph.Graph

		BeforeEach(func() {
			g, _ = graph.Synthesize(1, graph.Input{
				Actors: []model.Actor{
					person(1, "A"), person(2, "B"), person(3, "C"), person(4, "D"), person(5, "E"),
				},
				Relationships: []model.Relationship{
					rel(10, 1, 2, "knows"),
					rel(11, 3, 2, "knows"),
					rel(12, 3, 4, "knows"),
				},
			}, graph.DefaultOptions())
		})

		It("returns the chain for A to D ignoring edge direction", func() {
			p, err := g.ShortestPath(1, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(p.Nodes)).To(Equal([]int64{1, 2, 3, 4}))
			Expect(p.Length()).To(Equal(3))
			Expect(p.Edges[1].RelationshipID).To(Equal(int64(11)))
		})

		It("reports no path to a disconnected node", func() {
			_, err := g.ShortestPath(1, 5)
			Expect(err).To(MatchError(graph.ErrNoPath))
		})

		It("reports unknown ids as not found rather than no path", func() {
			_, err := g.ShortestPath(1, 42)
			Expect(err).To(MatchError(graph.ErrNodeNotFound))
			_, err = g.ShortestPath(42, 1)
			Expect(err).To(MatchError(graph.ErrNodeNotFound))
		})

		It("returns a single-node path from a node to itself", func() {
			p, err := g.ShortestPath(3, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(p.Nodes)).To(Equal([]int64{3}))
			Expect(p.Edges).To(BeEmpty())
		})

		It("expands neighbors up to the requested depth", func() {
			sub, err := g.Neighbors(2, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(sub.Nodes)).To(Equal([]int64{2, 1, 3}))
			Expect(sub.Edges).To(HaveLen(3))

			sub, err = g.Neighbors(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(sub.Nodes)).To(ConsistOf(int64(1), int64(2), int64(3)))
			Expect(sub.Edges).To(HaveLen(3))
		})

		It("includes edges leaving the visited set", func() {
			sub, err := g.Neighbors(1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(sub.Nodes)).To(Equal([]int64{1, 2}))
			Expect(sub.Edges).To(HaveLen(2))

			var rels []int64
			for _, e := range sub.Edges {
				rels = append(rels, e.RelationshipID)
			}
			Expect(rels).To(ConsistOf(int64(10), int64(11)))
		})

		It("returns only the center and its edges at depth zero", func() {
			sub, err := g.Neighbors(2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(nodeIDs(sub.Nodes)).To(Equal([]int64{2}))
			Expect(sub.Edges).To(HaveLen(2))

			sub, err = g.Neighbors(5, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Edges).To(BeEmpty())
		})

		It("rejects unknown centers and negative depth", func() {
			_, err := g.Neighbors(42, 1)
			Expect(err).To(MatchError(graph.ErrNodeNotFound))
			_, err = g.Neighbors(1, -1)
			Expect(err).To(MatchError(graph.ErrInvalidDepth))
		})

		It("lists isolated nodes", func() {
			Expect(nodeIDs(g.Isolated())).To(Equal([]int64{5}))
		})
	})

	Describe("Hubs", func() {
		It("ranks by degree and keeps insertion order on ties", func() {
			actors := []model.Actor{person(1, "Z"), person(2, "Y"), person(3, "X")}
			for i := int64(10); i < 16; i++ {
				actors = append(actors, person(i, "leaf"))
			}
			rels := []model.Relationship{
				// X: degree 5, Y: degree 3, Z: degree 1
				rel(100, 3, 10, "k"), rel(101, 3, 11, "k"), rel(102, 3, 12, "k"), rel(103, 3, 13, "k"), rel(104, 3, 14, "k"),
				rel(105, 2, 10, "k"), rel(106, 2, 11, "k"), rel(107, 2, 15, "k"),
				rel(108, 1, 12, "k"),
			}
			g, _ := graph.Synthesize(1, graph.Input{Actors: actors, Relationships: rels}, graph.DefaultOptions())

			Expect(nodeIDs(g.Hubs(2))).To(Equal([]int64{3, 2}))

			all := g.Hubs(0)
			Expect(all).To(HaveLen(g.NodeCount()))
			// leaves 10, 11, 12 have degree 2, in insertion order
			Expect(nodeIDs(all[2:5])).To(Equal([]int64{10, 11, 12}))
		})
	})
})
