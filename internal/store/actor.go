package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type actorStore struct {
	queries *sqlc.Queries
}

func newActorStore(queries *sqlc.Queries) ActorStore {
	return &actorStore{queries: queries}
}

func (s *actorStore) GetByID(ctx context.Context, projectID, id int64) (*model.Actor, error) {
	row, err := s.queries.GetActor(ctx, sqlc.GetActorParams{ID: id, ProjectID: projectID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toActorModel(row), nil
}

func (s *actorStore) ListByProject(ctx context.Context, projectID int64, types []model.ActorType, includeArchived bool) ([]model.Actor, error) {
	typeFilter := make([]string, len(types))
	for i, t := range types {
		typeFilter[i] = string(t)
	}
	rows, err := s.queries.ListActorsByProject(ctx, sqlc.ListActorsByProjectParams{
		ProjectID:       projectID,
		IncludeArchived: includeArchived,
		Types:           typeFilter,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Actor, len(rows))
	for i, row := range rows {
		result[i] = *toActorModel(row)
	}
	return result, nil
}

func toActorModel(row sqlc.Actor) *model.Actor {
	return &model.Actor{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		Name:         row.Name,
		Type:         model.NormalizeActorType(row.Type),
		Role:         row.Role,
		Team:         row.Team,
		Organization: row.Organization,
		LastSeenAt:   row.LastSeenAt.Time,
		MentionCount: int(row.MentionCount),
		Archived:     row.Archived,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
