package store

import (
	"context"
	"errors"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique constraint
var ErrConflict = errors.New("conflict")

// ActorStore defines the contract for actor data access
type ActorStore interface {
	GetByID(ctx context.Context, projectID, id int64) (*model.Actor, error)
	ListByProject(ctx context.Context, projectID int64, types []model.ActorType, includeArchived bool) ([]model.Actor, error)
}

// RelationshipStore defines the contract for confirmed relationship data access
type RelationshipStore interface {
	ListByProject(ctx context.Context, projectID int64, includeUnapproved bool) ([]model.Relationship, error)
	// Upsert inserts or updates on the (project, source, type, target) key.
	Upsert(ctx context.Context, rel *model.Relationship) error
}

// SuggestionStore defines the contract for the suggestion ledger
type SuggestionStore interface {
	GetByID(ctx context.Context, projectID, id int64) (*model.Suggestion, error)
	GetByIDForUpdate(ctx context.Context, projectID, id int64) (*model.Suggestion, error)
	GetByTriple(ctx context.Context, projectID, sourceID, targetID int64, relType string) (*model.Suggestion, error)
	Create(ctx context.Context, s *model.Suggestion) error
	UpdateEvidence(ctx context.Context, s *model.Suggestion) error
	List(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error)
	Stats(ctx context.Context, projectID int64) (model.SuggestionStats, error)
	MarkApproved(ctx context.Context, projectID, id int64) (*model.Suggestion, error)
	MarkDismissed(ctx context.Context, projectID, id int64) (*model.Suggestion, error)
	// Delete removes a suggestion unless it is dismissed; a dismissed or
	// missing row yields ErrNotFound.
	Delete(ctx context.Context, projectID, id int64) error
}

// TagStore reads document tag co-occurrence counts
type TagStore interface {
	PersonProjectCooccurrence(ctx context.Context, projectID int64, minDocs int) ([]model.TagCooccurrence, error)
}
