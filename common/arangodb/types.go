package arangodb

const (
	ActorCollection = "actors"
	LinkCollection  = "links"
	GraphName       = "actor_graph"
)

// ActorDoc is one actor vertex of a mirrored project graph.
type ActorDoc struct {
	ProjectID    int64
	ActorID      int64
	Name         string
	Type         string
	Role         string
	Team         string
	Organization string
	Degree       int
}

// LinkDoc is one undirected graph edge, stored with the direction it was
// recorded in.
type LinkDoc struct {
	ProjectID      int64
	From           int64
	To             int64
	Type           string
	EdgeSource     string
	Weight         float64
	Confidence     float64
	RelationshipID int64
}

