package graph

import (
	"errors"
	"strings"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

const (
	WeightExplicit = 0.5
	WeightTeam     = 0.25
	WeightOrg      = 0.15
	WeightTag      = 0.3

	MaxTagWeight     = 0.5
	MinTagDocuments  = 2
	tagDocNormalizer = 5.0
)

// Input is everything the synthesizer needs, already loaded from the stores.
type Input struct {
	Actors        []model.Actor
	Relationships []model.Relationship
	Cooccurrences []model.TagCooccurrence
}

type SkippedEdge struct {
	RelationshipID int64  `json:"relationship_id"`
	SourceActorID  int64  `json:"source_actor_id"`
	TargetActorID  int64  `json:"target_actor_id"`
	Type           string `json:"type"`
}

// Report lists what Synthesize dropped. Filtered items are not reported.
type Report struct {
	Dangling       []SkippedEdge
	Duplicates     int
	UnresolvedTags int
}

// Synthesize builds a graph from actors, confirmed relationships and tag
// co-occurrence. Edges are added in strict precedence order
// (explicit, same team, same organization, tag co-occurrence) and a pair
// already connected by an earlier edge never receives another one.
func Synthesize(projectID int64, in Input, opts Options) (*Graph, Report) {
	opts = opts.Canonical()
	g := newGraph(projectID, opts)
	var report Report

	known := make(map[int64]bool, len(in.Actors))
	for _, a := range in.Actors {
		known[a.ID] = true
		if opts.allowsActor(a) {
			g.addNode(a)
		}
	}

	for _, r := range in.Relationships {
		if !opts.allowsRelationship(r) {
			continue
		}
		if !known[r.SourceActorID] || !known[r.TargetActorID] {
			report.Dangling = append(report.Dangling, SkippedEdge{
				RelationshipID: r.ID,
				SourceActorID:  r.SourceActorID,
				TargetActorID:  r.TargetActorID,
				Type:           r.Type,
			})
			continue
		}
		err := g.addEdge(Edge{
			Source:         r.SourceActorID,
			Target:         r.TargetActorID,
			Type:           r.Type,
			EdgeSource:     EdgeSourceExplicit,
			Weight:         r.Confidence * r.Strength * WeightExplicit,
			Confidence:     r.Confidence,
			RelationshipID: r.ID,
			Context:        r.Context,
			DocumentPath:   r.DocumentPath,
		})
		if errors.Is(err, errDuplicateEdge) {
			report.Duplicates++
		}
	}

	if !opts.IncludeImplicit {
		return g, report
	}

	g.linkShared(func(a model.Actor) *string { return a.Team }, EdgeTypeSameTeam, EdgeSourceImplicitTeam, WeightTeam)
	g.linkShared(func(a model.Actor) *string { return a.Organization }, EdgeTypeSameOrganization, EdgeSourceImplicitOrg, WeightOrg)
	report.UnresolvedTags = g.linkCooccurrence(in.Cooccurrences)

	return g, report
}

// linkShared connects every pair of nodes whose attribute matches
// (trimmed, case-insensitive) and that is not yet connected.
func (g *Graph) linkShared(attr func(model.Actor) *string, edgeType string, source EdgeSource, weight float64) {
	values := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		values[i] = normalizeAttr(attr(n.Actor))
	}

	for i := range g.nodes {
		if values[i] == "" {
			continue
		}
		for j := i + 1; j < len(g.nodes); j++ {
			if values[i] != values[j] {
				continue
			}
			x, y := g.nodes[i].Actor.ID, g.nodes[j].Actor.ID
			if g.connected(x, y) {
				continue
			}
			_ = g.addEdge(Edge{
				Source:     x,
				Target:     y,
				Type:       edgeType,
				EdgeSource: source,
				Weight:     weight,
				Confidence: 1.0,
			})
		}
	}
}

var cooccurrenceTargets = map[model.ActorType]bool{
	model.ActorTypeProject:      true,
	model.ActorTypeSystem:       true,
	model.ActorTypeOrganization: true,
}

// linkCooccurrence resolves tag names to nodes and adds weighted edges.
// It returns how many rows could not be resolved to two graph nodes.
func (g *Graph) linkCooccurrence(rows []model.TagCooccurrence) int {
	if len(rows) == 0 {
		return 0
	}

	people := make(map[string]int64)
	others := make(map[string]int64)
	for _, n := range g.nodes {
		name := strings.ToLower(strings.TrimSpace(n.Actor.Name))
		switch {
		case n.Actor.Type == model.ActorTypePerson:
			if _, ok := people[name]; !ok {
				people[name] = n.Actor.ID
			}
		case cooccurrenceTargets[n.Actor.Type]:
			if _, ok := others[name]; !ok {
				others[name] = n.Actor.ID
			}
		}
	}

	unresolved := 0
	for _, row := range rows {
		if row.DocCount < MinTagDocuments {
			continue
		}
		person, ok := people[strings.ToLower(strings.TrimSpace(row.PersonName))]
		if !ok {
			unresolved++
			continue
		}
		other, ok := others[strings.ToLower(strings.TrimSpace(row.OtherName))]
		if !ok {
			unresolved++
			continue
		}
		if g.connected(person, other) {
			continue
		}
		_ = g.addEdge(Edge{
			Source:     person,
			Target:     other,
			Type:       EdgeTypeTagCooccurrence,
			EdgeSource: EdgeSourceTagCooccurrence,
			Weight:     TagWeight(row.DocCount),
			Confidence: 1.0,
		})
	}
	return unresolved
}

// TagWeight is min(WeightTag * docs/5, MaxTagWeight).
func TagWeight(docCount int) float64 {
	return min(WeightTag*(float64(docCount)/tagDocNormalizer), MaxTagWeight)
}

func normalizeAttr(v *string) string {
	if v == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*v))
}
