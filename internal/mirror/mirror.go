// Package mirror copies refreshed project graphs into ArangoDB so they can
// be queried with AQL traversals outside the service.
package mirror

import (
	"context"
	"fmt"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/arangodb"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
)

type Mirror struct {
	client arangodb.Client
}

func New(client arangodb.Client) *Mirror {
	return &Mirror{client: client}
}

// Setup makes sure the database, collections and named graph exist.
func (m *Mirror) Setup(ctx context.Context) error {
	if err := m.client.EnsureDatabase(ctx); err != nil {
		return err
	}
	if err := m.client.EnsureCollections(ctx); err != nil {
		return err
	}
	return m.client.EnsureGraph(ctx)
}

func (m *Mirror) PublishGraph(ctx context.Context, g *graph.Graph) error {
	actors, links := Documents(g)
	if err := m.client.ReplaceProject(ctx, g.ProjectID, actors, links); err != nil {
		return fmt.Errorf("mirroring project %d: %w", g.ProjectID, err)
	}
	return nil
}

// Documents flattens a graph into mirror documents.
func Documents(g *graph.Graph) ([]arangodb.ActorDoc, []arangodb.LinkDoc) {
	nodes := g.Nodes()
	actors := make([]arangodb.ActorDoc, len(nodes))
	for i, n := range nodes {
		actors[i] = arangodb.ActorDoc{
			ProjectID:    g.ProjectID,
			ActorID:      n.ID(),
			Name:         n.Actor.Name,
			Type:         string(n.Actor.Type),
			Role:         deref(n.Actor.Role),
			Team:         deref(n.Actor.Team),
			Organization: deref(n.Actor.Organization),
			Degree:       n.Degree,
		}
	}

	edges := g.Edges()
	links := make([]arangodb.LinkDoc, len(edges))
	for i, e := range edges {
		links[i] = arangodb.LinkDoc{
			ProjectID:      g.ProjectID,
			From:           e.Source,
			To:             e.Target,
			Type:           e.Type,
			EdgeSource:     string(e.EdgeSource),
			Weight:         e.Weight,
			Confidence:     e.Confidence,
			RelationshipID: e.RelationshipID,
		}
	}
	return actors, links
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
