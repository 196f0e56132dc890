package arangodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/arangodb/go-driver/v2/connection"
)

type Client interface {
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context) error
	EnsureGraph(ctx context.Context) error

	// ReplaceProject removes the project's previous vertices and links and
	// writes the given ones.
	ReplaceProject(ctx context.Context, projectID int64, actors []ActorDoc, links []LinkDoc) error

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		if _, err := c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil); err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db
	return nil
}

func (c *client) EnsureCollections(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}
	if err := c.ensureCollection(ctx, ActorCollection, false); err != nil {
		return err
	}
	return c.ensureCollection(ctx, LinkCollection, true)
}

func (c *client) ensureCollection(ctx context.Context, name string, isEdge bool) error {
	exists, err := c.db.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", name, err)
	}
	if exists {
		return nil
	}

	colType := arangodb.CollectionTypeDocument
	if isEdge {
		colType = arangodb.CollectionTypeEdge
	}
	if _, err := c.db.CreateCollectionV2(ctx, name, &arangodb.CreateCollectionPropertiesV2{Type: &colType}); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	slog.InfoContext(ctx, "arangodb collection created",
		"collection", name,
		"is_edge", isEdge)
	return nil
}

func (c *client) EnsureGraph(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	exists, err := c.db.GraphExists(ctx, GraphName)
	if err != nil {
		return fmt.Errorf("check graph exists: %w", err)
	}
	if exists {
		return nil
	}

	graphDef := &arangodb.GraphDefinition{
		Name: GraphName,
		EdgeDefinitions: []arangodb.EdgeDefinition{
			{Collection: LinkCollection, From: []string{ActorCollection}, To: []string{ActorCollection}},
		},
	}
	if _, err := c.db.CreateGraph(ctx, GraphName, graphDef, nil); err != nil {
		return fmt.Errorf("create graph: %w", err)
	}

	slog.InfoContext(ctx, "arangodb graph created", "graph", GraphName)
	return nil
}

const removeProjectQuery = `
	FOR d IN @@collection
		FILTER d.project_id == @project_id
		REMOVE d IN @@collection
`

func (c *client) ReplaceProject(ctx context.Context, projectID int64, actors []ActorDoc, links []LinkDoc) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	start := time.Now()

	// Links first so no edge outlives its vertices.
	for _, name := range []string{LinkCollection, ActorCollection} {
		if err := c.exec(ctx, removeProjectQuery, map[string]any{
			"@collection": name,
			"project_id":  projectID,
		}); err != nil {
			return fmt.Errorf("remove project %d from %s: %w", projectID, name, err)
		}
	}

	actorDocs := make([]map[string]any, len(actors))
	for i, a := range actors {
		actorDocs[i] = map[string]any{
			"_key":         actorKey(a.ProjectID, a.ActorID),
			"project_id":   a.ProjectID,
			"actor_id":     a.ActorID,
			"name":         a.Name,
			"type":         a.Type,
			"role":         a.Role,
			"team":         a.Team,
			"organization": a.Organization,
			"degree":       a.Degree,
		}
	}
	if err := c.insert(ctx, ActorCollection, actorDocs); err != nil {
		return err
	}

	linkDocs := make([]map[string]any, len(links))
	for i, l := range links {
		linkDocs[i] = map[string]any{
			"_key":            linkKey(l.ProjectID, l.From, l.To),
			"_from":           ActorCollection + "/" + actorKey(l.ProjectID, l.From),
			"_to":             ActorCollection + "/" + actorKey(l.ProjectID, l.To),
			"project_id":      l.ProjectID,
			"type":            l.Type,
			"edge_source":     l.EdgeSource,
			"weight":          l.Weight,
			"confidence":      l.Confidence,
			"relationship_id": l.RelationshipID,
		}
	}
	if err := c.insert(ctx, LinkCollection, linkDocs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "arangodb project graph replaced",
		"project_id", projectID,
		"actors", len(actors),
		"links", len(links),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *client) exec(ctx context.Context, query string, bindVars map[string]any) error {
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	return cursor.Close()
}

func (c *client) insert(ctx context.Context, collection string, docs []map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	col, err := c.db.GetCollection(ctx, collection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", collection, err)
	}

	reader, err := col.CreateDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("create documents in %s: %w", collection, err)
	}

	failed := 0
	for {
		_, readErr := reader.Read()
		if shared.IsNoMoreDocuments(readErr) {
			break
		}
		if readErr != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("create documents in %s: %d of %d failed", collection, failed, len(docs))
	}
	return nil
}

func actorKey(projectID, actorID int64) string {
	return fmt.Sprintf("%d_%d", projectID, actorID)
}

func linkKey(projectID, from, to int64) string {
	return fmt.Sprintf("%d_%d_%d", projectID, from, to)
}
