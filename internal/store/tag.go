package store

import (
	"context"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type tagStore struct {
	queries *sqlc.Queries
}

func newTagStore(queries *sqlc.Queries) TagStore {
	return &tagStore{queries: queries}
}

func (s *tagStore) PersonProjectCooccurrence(ctx context.Context, projectID int64, minDocs int) ([]model.TagCooccurrence, error) {
	rows, err := s.queries.ListPersonProjectCooccurrence(ctx, sqlc.ListPersonProjectCooccurrenceParams{
		ProjectID: projectID,
		MinDocs:   int32(minDocs),
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.TagCooccurrence, len(rows))
	for i, row := range rows {
		result[i] = model.TagCooccurrence{
			PersonName: row.PersonName,
			OtherName:  row.OtherName,
			DocCount:   int(row.DocCount),
		}
	}
	return result, nil
}
