package store

import (
	"context"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type relationshipStore struct {
	queries *sqlc.Queries
}

func newRelationshipStore(queries *sqlc.Queries) RelationshipStore {
	return &relationshipStore{queries: queries}
}

func (s *relationshipStore) ListByProject(ctx context.Context, projectID int64, includeUnapproved bool) ([]model.Relationship, error) {
	rows, err := s.queries.ListRelationshipsByProject(ctx, sqlc.ListRelationshipsByProjectParams{
		ProjectID:         projectID,
		IncludeUnapproved: includeUnapproved,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Relationship, len(rows))
	for i, row := range rows {
		rel := toRelationshipModel(sqlc.Relationship{
			ID:            row.ID,
			ProjectID:     row.ProjectID,
			SourceActorID: row.SourceActorID,
			TargetActorID: row.TargetActorID,
			Type:          row.Type,
			Context:       row.Context,
			Strength:      row.Strength,
			Confidence:    row.Confidence,
			Approved:      row.Approved,
			DocumentID:    row.DocumentID,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
		rel.DocumentPath = row.DocumentPath
		result[i] = *rel
	}
	return result, nil
}

func (s *relationshipStore) Upsert(ctx context.Context, rel *model.Relationship) error {
	row, err := s.queries.UpsertRelationship(ctx, sqlc.UpsertRelationshipParams{
		ID:            rel.ID,
		ProjectID:     rel.ProjectID,
		SourceActorID: rel.SourceActorID,
		TargetActorID: rel.TargetActorID,
		Type:          rel.Type,
		Context:       rel.Context,
		Strength:      rel.Strength,
		Confidence:    rel.Confidence,
		Approved:      rel.Approved,
		DocumentID:    rel.DocumentID,
	})
	if err != nil {
		return err
	}
	*rel = *toRelationshipModel(row)
	return nil
}

func toRelationshipModel(row sqlc.Relationship) *model.Relationship {
	return &model.Relationship{
		ID:            row.ID,
		ProjectID:     row.ProjectID,
		SourceActorID: row.SourceActorID,
		TargetActorID: row.TargetActorID,
		Type:          row.Type,
		Context:       row.Context,
		Strength:      row.Strength,
		Confidence:    row.Confidence,
		Approved:      row.Approved,
		DocumentID:    row.DocumentID,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
