package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type suggestionStore struct {
	queries *sqlc.Queries
}

func newSuggestionStore(queries *sqlc.Queries) SuggestionStore {
	return &suggestionStore{queries: queries}
}

func (s *suggestionStore) GetByID(ctx context.Context, projectID, id int64) (*model.Suggestion, error) {
	row, err := s.queries.GetSuggestion(ctx, sqlc.GetSuggestionParams{ID: id, ProjectID: projectID})
	return suggestionOrNotFound(row, err)
}

// GetByIDForUpdate locks the row; only meaningful inside a transaction.
func (s *suggestionStore) GetByIDForUpdate(ctx context.Context, projectID, id int64) (*model.Suggestion, error) {
	row, err := s.queries.GetSuggestionForUpdate(ctx, sqlc.GetSuggestionForUpdateParams{ID: id, ProjectID: projectID})
	return suggestionOrNotFound(row, err)
}

func (s *suggestionStore) GetByTriple(ctx context.Context, projectID, sourceID, targetID int64, relType string) (*model.Suggestion, error) {
	row, err := s.queries.GetSuggestionByTriple(ctx, sqlc.GetSuggestionByTripleParams{
		ProjectID:     projectID,
		SourceActorID: sourceID,
		TargetActorID: targetID,
		Type:          relType,
	})
	return suggestionOrNotFound(row, err)
}

func (s *suggestionStore) Create(ctx context.Context, sg *model.Suggestion) error {
	row, err := s.queries.CreateSuggestion(ctx, sqlc.CreateSuggestionParams{
		ID:              sg.ID,
		ProjectID:       sg.ProjectID,
		SourceActorID:   sg.SourceActorID,
		TargetActorID:   sg.TargetActorID,
		Type:            sg.Type,
		SourceText:      sg.SourceText,
		Confidence:      sg.Confidence,
		EvidenceCount:   int32(sg.EvidenceCount),
		SourceDocuments: nonNil(sg.SourceDocuments),
		ContextExcerpts: nonNil(sg.ContextExcerpts),
		LastSeenAt:      toTimestamptz(sg.LastSeenAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	*sg = *toSuggestionModel(row)
	return nil
}

func (s *suggestionStore) UpdateEvidence(ctx context.Context, sg *model.Suggestion) error {
	row, err := s.queries.UpdateSuggestionEvidence(ctx, sqlc.UpdateSuggestionEvidenceParams{
		ID:              sg.ID,
		SourceText:      sg.SourceText,
		Confidence:      sg.Confidence,
		EvidenceCount:   int32(sg.EvidenceCount),
		SourceDocuments: nonNil(sg.SourceDocuments),
		ContextExcerpts: nonNil(sg.ContextExcerpts),
		LastSeenAt:      toTimestamptz(sg.LastSeenAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	*sg = *toSuggestionModel(row)
	return nil
}

func (s *suggestionStore) List(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error) {
	rows, err := s.queries.ListSuggestions(ctx, sqlc.ListSuggestionsParams{
		ProjectID:        projectID,
		Approved:         filter.Approved,
		IncludeDismissed: filter.IncludeDismissed,
		MinEvidence:      int32(filter.MinEvidence),
		SortByConfidence: filter.SortByConfidence,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Suggestion, len(rows))
	for i, row := range rows {
		result[i] = *toSuggestionModel(row)
	}
	// Same order as the query; the comparator is the reference.
	model.SortSuggestions(result, filter.SortByConfidence)
	return result, nil
}

func (s *suggestionStore) Stats(ctx context.Context, projectID int64) (model.SuggestionStats, error) {
	row, err := s.queries.GetSuggestionStats(ctx, sqlc.GetSuggestionStatsParams{
		StrongEvidence: model.StrongEvidenceThreshold,
		HighConfidence: model.HighConfidenceThreshold,
		ProjectID:      projectID,
	})
	if err != nil {
		return model.SuggestionStats{}, err
	}
	return model.SuggestionStats{
		Total:          int(row.Total),
		Pending:        int(row.Pending),
		StrongEvidence: int(row.StrongEvidence),
		HighConfidence: int(row.HighConfidence),
		Dismissed:      int(row.Dismissed),
		AvgEvidence:    row.AvgEvidence,
	}, nil
}

func (s *suggestionStore) MarkApproved(ctx context.Context, projectID, id int64) (*model.Suggestion, error) {
	row, err := s.queries.MarkSuggestionApproved(ctx, sqlc.MarkSuggestionApprovedParams{ID: id, ProjectID: projectID})
	return suggestionOrNotFound(row, err)
}

func (s *suggestionStore) MarkDismissed(ctx context.Context, projectID, id int64) (*model.Suggestion, error) {
	row, err := s.queries.MarkSuggestionDismissed(ctx, sqlc.MarkSuggestionDismissedParams{ID: id, ProjectID: projectID})
	return suggestionOrNotFound(row, err)
}

func (s *suggestionStore) Delete(ctx context.Context, projectID, id int64) error {
	n, err := s.queries.DeleteSuggestion(ctx, sqlc.DeleteSuggestionParams{ID: id, ProjectID: projectID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func suggestionOrNotFound(row sqlc.RelationshipSuggestion, err error) (*model.Suggestion, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toSuggestionModel(row), nil
}

func toSuggestionModel(row sqlc.RelationshipSuggestion) *model.Suggestion {
	sg := &model.Suggestion{
		ID:              row.ID,
		ProjectID:       row.ProjectID,
		SourceActorID:   row.SourceActorID,
		TargetActorID:   row.TargetActorID,
		Type:            row.Type,
		SourceText:      row.SourceText,
		Confidence:      row.Confidence,
		EvidenceCount:   int(row.EvidenceCount),
		SourceDocuments: nonNil(row.SourceDocuments),
		ContextExcerpts: nonNil(row.ContextExcerpts),
		LastSeenAt:      row.LastSeenAt.Time,
		Dismissed:       row.Dismissed,
		Approved:        row.Approved,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
	if row.ReviewedAt.Valid {
		t := row.ReviewedAt.Time
		sg.ReviewedAt = &t
	}
	return sg
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Time: time.Now(), Valid: true}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
