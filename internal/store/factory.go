package store

import (
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Actors() ActorStore {
	return newActorStore(s.queries)
}

func (s *Stores) Relationships() RelationshipStore {
	return newRelationshipStore(s.queries)
}

func (s *Stores) Suggestions() SuggestionStore {
	return newSuggestionStore(s.queries)
}

func (s *Stores) Tags() TagStore {
	return newTagStore(s.queries)
}
