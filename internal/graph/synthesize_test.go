package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

var _ = Describe("Synthesize", func() {
	var opts graph.Options

	BeforeEach(func() {
		opts = graph.DefaultOptions()
	})

	Describe("explicit edges", func() {
		It("weights edges by confidence, strength and the explicit factor", func() {
			r := rel(100, 1, 2, "works_with")
			r.Confidence = 0.8
			r.Strength = 0.5

			g, report := graph.Synthesize(1, graph.Input{
				Actors:        []model.Actor{person(1, "Ana"), person(2, "Ben")},
				Relationships: []model.Relationship{r},
			}, opts)

			Expect(report.Dangling).To(BeEmpty())
			Expect(g.EdgeCount()).To(Equal(1))
			e := g.Edges()[0]
			Expect(e.EdgeSource).To(Equal(graph.EdgeSourceExplicit))
			Expect(e.Weight).To(BeNumerically("~", 0.2, 1e-9))
			Expect(e.RelationshipID).To(Equal(int64(100)))
		})

		It("keeps one edge per pair when both directions are confirmed", func() {
			g, report := graph.Synthesize(1, graph.Input{
				Actors: []model.Actor{person(1, "Ana"), person(2, "Ben")},
				Relationships: []model.Relationship{
					rel(100, 1, 2, "works_with"),
					rel(101, 2, 1, "works_with"),
					rel(102, 1, 2, "reports_to"),
				},
			}, opts)

			Expect(g.EdgeCount()).To(Equal(1))
			Expect(g.Edges()[0].RelationshipID).To(Equal(int64(100)))
			Expect(report.Duplicates).To(Equal(2))
		})

		It("skips and reports relationships to unknown actors", func() {
			g, report := graph.Synthesize(1, graph.Input{
				Actors:        []model.Actor{person(1, "Ana"), person(2, "Ben")},
				Relationships: []model.Relationship{rel(100, 1, 99, "works_with"), rel(101, 1, 2, "works_with")},
			}, opts)

			Expect(g.EdgeCount()).To(Equal(1))
			Expect(report.Dangling).To(HaveLen(1))
			Expect(report.Dangling[0].RelationshipID).To(Equal(int64(100)))
		})

		It("silently drops relationships to actors excluded by filters", func() {
			archived := person(3, "Cy")
			archived.Archived = true

			g, report := graph.Synthesize(1, graph.Input{
				Actors:        []model.Actor{person(1, "Ana"), archived},
				Relationships: []model.Relationship{rel(100, 1, 3, "works_with")},
			}, opts)

			Expect(g.NodeCount()).To(Equal(1))
			Expect(g.EdgeCount()).To(Equal(0))
			Expect(report.Dangling).To(BeEmpty())
		})

		It("applies edge type and confidence filters", func() {
			low := rel(101, 1, 3, "works_with")
			low.Confidence = 0.2
			opts.EdgeTypes = []string{"Works_With"}
			opts.MinConfidence = 0.5

			g, _ := graph.Synthesize(1, graph.Input{
				Actors: []model.Actor{person(1, "Ana"), person(2, "Ben"), person(3, "Cy")},
				Relationships: []model.Relationship{
					rel(100, 1, 2, "works_with"),
					low,
					rel(102, 2, 3, "reports_to"),
				},
			}, opts)

			Expect(g.EdgeCount()).To(Equal(1))
			Expect(g.Edges()[0].RelationshipID).To(Equal(int64(100)))
		})
	})

	Describe("implicit edges", func() {
		It("links teammates once and never adds an organization edge on top", func() {
			a := inOrg(onTeam(person(1, "Ana"), "Platform"), "Acme")
			b := inOrg(onTeam(person(2, "Ben"), "platform "), "Acme")
			c := inOrg(person(3, "Cy"), "acme")

			g, _ := graph.Synthesize(1, graph.Input{Actors: []model.Actor{a, b, c}}, opts)

			ab, ok := g.EdgeBetween(1, 2)
			Expect(ok).To(BeTrue())
			Expect(ab.EdgeSource).To(Equal(graph.EdgeSourceImplicitTeam))
			Expect(ab.Weight).To(Equal(graph.WeightTeam))

			ac, ok := g.EdgeBetween(1, 3)
			Expect(ok).To(BeTrue())
			Expect(ac.EdgeSource).To(Equal(graph.EdgeSourceImplicitOrg))
			Expect(ac.Weight).To(Equal(graph.WeightOrg))

			Expect(g.EdgeCount()).To(Equal(3))
		})

		It("does not add a team edge when an explicit edge exists", func() {
			a := onTeam(person(1, "Ana"), "Platform")
			b := onTeam(person(2, "Ben"), "Platform")

			g, _ := graph.Synthesize(1, graph.Input{
				Actors:        []model.Actor{a, b},
				Relationships: []model.Relationship{rel(100, 2, 1, "mentors")},
			}, opts)

			Expect(g.EdgeCount()).To(Equal(1))
			Expect(g.Edges()[0].EdgeSource).To(Equal(graph.EdgeSourceExplicit))
		})

		It("omits inferred edges when implicit edges are disabled", func() {
			opts.IncludeImplicit = false
			a := onTeam(person(1, "Ana"), "Platform")
			b := onTeam(person(2, "Ben"), "Platform")

			g, _ := graph.Synthesize(1, graph.Input{Actors: []model.Actor{a, b}}, opts)

			Expect(g.EdgeCount()).To(BeZero())
		})
	})

	Describe("tag co-occurrence", func() {
		var actors []model.Actor

		BeforeEach(func() {
			actors = []model.Actor{
				person(1, "Ana"),
				actorOf(2, "Atlas", model.ActorTypeProject),
				actorOf(3, "Billing", model.ActorTypeSystem),
				actorOf(4, "Ops", model.ActorTypeTeam),
			}
		})

		It("adds capped weighted edges for pairs seen on two or more documents", func() {
			g, report := graph.Synthesize(1, graph.Input{
				Actors: actors,
				Cooccurrences: []model.TagCooccurrence{
					{PersonName: "ana", OtherName: "ATLAS", DocCount: 3},
					{PersonName: "Ana", OtherName: "Billing", DocCount: 20},
					{PersonName: "Ana", OtherName: "Ops", DocCount: 4},
					{PersonName: "Zed", OtherName: "Atlas", DocCount: 4},
				},
			}, opts)

			atlas, ok := g.EdgeBetween(1, 2)
			Expect(ok).To(BeTrue())
			Expect(atlas.EdgeSource).To(Equal(graph.EdgeSourceTagCooccurrence))
			Expect(atlas.Weight).To(BeNumerically("~", 0.18, 1e-9))

			billing, ok := g.EdgeBetween(1, 3)
			Expect(ok).To(BeTrue())
			Expect(billing.Weight).To(Equal(graph.MaxTagWeight))

			_, ok = g.EdgeBetween(1, 4)
			Expect(ok).To(BeFalse())
			Expect(report.UnresolvedTags).To(Equal(2))
		})

		It("ignores pairs seen on a single document", func() {
			g, _ := graph.Synthesize(1, graph.Input{
				Actors:        actors,
				Cooccurrences: []model.TagCooccurrence{{PersonName: "Ana", OtherName: "Atlas", DocCount: 1}},
			}, opts)
			Expect(g.EdgeCount()).To(BeZero())
		})

		It("yields to an explicit edge on the same pair", func() {
			g, _ := graph.Synthesize(1, graph.Input{
				Actors:        actors,
				Relationships: []model.Relationship{rel(100, 2, 1, "owned_by")},
				Cooccurrences: []model.TagCooccurrence{{PersonName: "Ana", OtherName: "Atlas", DocCount: 5}},
			}, opts)

			Expect(g.EdgeCount()).To(Equal(1))
			Expect(g.Edges()[0].EdgeSource).To(Equal(graph.EdgeSourceExplicit))
		})
	})

	It("filters nodes by actor type", func() {
		opts.ActorTypes = []model.ActorType{model.ActorTypePerson}
		g, _ := graph.Synthesize(1, graph.Input{
			Actors: []model.Actor{person(1, "Ana"), actorOf(2, "Atlas", model.ActorTypeProject)},
		}, opts)

		Expect(g.NodeCount()).To(Equal(1))
		Expect(g.HasNode(2)).To(BeFalse())
	})

	It("computes in, out and total degree", func() {
		g, _ := graph.Synthesize(1, graph.Input{
			Actors:        []model.Actor{person(1, "Ana"), person(2, "Ben"), person(3, "Cy")},
			Relationships: []model.Relationship{rel(100, 1, 2, "x"), rel(101, 1, 3, "x")},
		}, opts)

		ana, _ := g.Node(1)
		Expect(ana.OutDegree).To(Equal(2))
		Expect(ana.InDegree).To(Equal(0))
		Expect(ana.Degree).To(Equal(2))
		ben, _ := g.Node(2)
		Expect(ben.InDegree).To(Equal(1))
	})
})

var _ = Describe("TagWeight", func() {
	It("scales with document count and caps at the maximum", func() {
		Expect(graph.TagWeight(2)).To(BeNumerically("~", 0.12, 1e-9))
		Expect(graph.TagWeight(5)).To(BeNumerically("~", 0.3, 1e-9))
		Expect(graph.TagWeight(100)).To(Equal(graph.MaxTagWeight))
	})
})
