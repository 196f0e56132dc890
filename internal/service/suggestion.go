package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/id"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
)

var (
	ErrSuggestionNotFound  = errors.New("suggestion not found")
	ErrSuggestionDismissed = errors.New("suggestion is dismissed")
	ErrSuggestionApproved  = errors.New("suggestion is already approved")
	ErrInvalidObservation  = errors.New("invalid observation")
)

type MergeOutcome string

const (
	MergeOutcomeCreated    MergeOutcome = "created"
	MergeOutcomeMerged     MergeOutcome = "merged"
	MergeOutcomeRefreshed  MergeOutcome = "refreshed"
	MergeOutcomeSuppressed MergeOutcome = "suppressed"
)

type MergeResult struct {
	Outcome    MergeOutcome      `json:"outcome"`
	Suggestion *model.Suggestion `json:"suggestion,omitempty"`
}

type ApproveResult struct {
	Suggestion   *model.Suggestion   `json:"suggestion"`
	Relationship *model.Relationship `json:"relationship"`
}

type SuggestionService interface {
	List(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error)
	Stats(ctx context.Context, projectID int64) (model.SuggestionStats, error)
	Approve(ctx context.Context, projectID, suggestionID int64) (*ApproveResult, error)
	Reject(ctx context.Context, projectID, suggestionID int64) error
	Dismiss(ctx context.Context, projectID, suggestionID int64) (*model.Suggestion, error)
	MergeObservation(ctx context.Context, obs model.Observation) (*MergeResult, error)
}

type suggestionService struct {
	suggestions store.SuggestionStore
	txRunner    TxRunner
	invalidator GraphInvalidator
	metrics     *metrics.Registry
	excerptCap  int
}

func NewSuggestionService(
	suggestions store.SuggestionStore,
	txRunner TxRunner,
	invalidator GraphInvalidator,
	metrics *metrics.Registry,
	excerptCap int,
) SuggestionService {
	if excerptCap <= 0 {
		excerptCap = model.DefaultExcerptCap
	}
	return &suggestionService{
		suggestions: suggestions,
		txRunner:    txRunner,
		invalidator: invalidator,
		metrics:     metrics,
		excerptCap:  excerptCap,
	}
}

func (s *suggestionService) List(ctx context.Context, projectID int64, filter model.SuggestionFilter) ([]model.Suggestion, error) {
	items, err := s.suggestions.List(ctx, projectID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return items, nil
}

func (s *suggestionService) Stats(ctx context.Context, projectID int64) (model.SuggestionStats, error) {
	stats, err := s.suggestions.Stats(ctx, projectID)
	if err != nil {
		return model.SuggestionStats{}, fmt.Errorf("computing suggestion stats: %w", err)
	}
	return stats, nil
}

// Approve promotes the suggestion into a confirmed relationship and flags it
// approved in one transaction. Repeating it upserts the same relationship.
func (s *suggestionService) Approve(ctx context.Context, projectID, suggestionID int64) (*ApproveResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ProjectID:    logger.Ptr(projectID),
		SuggestionID: logger.Ptr(suggestionID),
	})

	var result ApproveResult
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		sg, err := stores.Suggestions().GetByIDForUpdate(ctx, projectID, suggestionID)
		if err != nil {
			return suggestionErr(err, "loading suggestion")
		}
		if sg.Dismissed {
			return ErrSuggestionDismissed
		}

		rel := &model.Relationship{
			ID:            id.New(),
			ProjectID:     projectID,
			SourceActorID: sg.SourceActorID,
			TargetActorID: sg.TargetActorID,
			Type:          sg.Type,
			Context:       suggestionContext(sg),
			Strength:      model.DefaultRelationshipStrength,
			Confidence:    sg.Confidence,
			Approved:      true,
		}
		if err := stores.Relationships().Upsert(ctx, rel); err != nil {
			return fmt.Errorf("upserting relationship: %w", err)
		}

		approved, err := stores.Suggestions().MarkApproved(ctx, projectID, suggestionID)
		if err != nil {
			return suggestionErr(err, "marking suggestion approved")
		}

		result = ApproveResult{Suggestion: approved, Relationship: rel}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, projectID)
	s.metrics.RecordTransition("approved")
	slog.InfoContext(ctx, "suggestion approved", "relationship_id", result.Relationship.ID)
	return &result, nil
}

// Reject deletes the row so a later observation can raise it again.
// Dismissed rows are kept: deleting them would lift the suppression.
func (s *suggestionService) Reject(ctx context.Context, projectID, suggestionID int64) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		sg, err := stores.Suggestions().GetByIDForUpdate(ctx, projectID, suggestionID)
		if err != nil {
			return suggestionErr(err, "loading suggestion")
		}
		if sg.Dismissed {
			return ErrSuggestionDismissed
		}

		// The delete skips dismissed rows, so a miss here means a dismissal
		// won the row.
		if err := stores.Suggestions().Delete(ctx, projectID, suggestionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSuggestionDismissed
			}
			return fmt.Errorf("deleting suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordTransition("rejected")
	return nil
}

func (s *suggestionService) Dismiss(ctx context.Context, projectID, suggestionID int64) (*model.Suggestion, error) {
	var dismissed *model.Suggestion
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		sg, err := stores.Suggestions().GetByIDForUpdate(ctx, projectID, suggestionID)
		if err != nil {
			return suggestionErr(err, "loading suggestion")
		}
		if sg.Approved && !sg.Dismissed {
			return ErrSuggestionApproved
		}

		dismissed, err = stores.Suggestions().MarkDismissed(ctx, projectID, suggestionID)
		if err != nil {
			return suggestionErr(err, "dismissing suggestion")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("dismissed")
	return dismissed, nil
}

// MergeObservation records one sighting of a triple. A dismissed triple is
// left untouched. A concurrent first sighting of the same triple loses the
// insert race and is retried once as a merge.
func (s *suggestionService) MergeObservation(ctx context.Context, obs model.Observation) (*MergeResult, error) {
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now().UTC()
	}

	result, err := s.mergeOnce(ctx, obs)
	if errors.Is(err, store.ErrConflict) {
		result, err = s.mergeOnce(ctx, obs)
	}
	if err != nil {
		s.metrics.RecordMerge("error")
		return nil, err
	}

	s.metrics.RecordMerge(string(result.Outcome))
	return result, nil
}

func (s *suggestionService) mergeOnce(ctx context.Context, obs model.Observation) (*MergeResult, error) {
	var result MergeResult
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		existing, err := stores.Suggestions().GetByTriple(ctx, obs.ProjectID, obs.SourceActorID, obs.TargetActorID, obs.Type)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading suggestion by triple: %w", err)
		}

		if existing == nil {
			sg := model.NewSuggestionFromObservation(id.New(), obs, s.excerptCap)
			if err := stores.Suggestions().Create(ctx, &sg); err != nil {
				return fmt.Errorf("creating suggestion: %w", err)
			}
			result = MergeResult{Outcome: MergeOutcomeCreated, Suggestion: &sg}
			return nil
		}

		if existing.Dismissed {
			result = MergeResult{Outcome: MergeOutcomeSuppressed, Suggestion: existing}
			return nil
		}

		before := existing.EvidenceCount
		existing.Absorb(obs, s.excerptCap)
		if err := stores.Suggestions().UpdateEvidence(ctx, existing); err != nil {
			return fmt.Errorf("updating suggestion evidence: %w", err)
		}

		outcome := MergeOutcomeMerged
		if existing.EvidenceCount == before {
			outcome = MergeOutcomeRefreshed
		}
		result = MergeResult{Outcome: outcome, Suggestion: existing}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func suggestionErr(err error, action string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrSuggestionNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

func suggestionContext(sg *model.Suggestion) *string {
	if sg.SourceText != "" {
		text := sg.SourceText
		return &text
	}
	if len(sg.ContextExcerpts) > 0 {
		text := sg.ContextExcerpts[0]
		return &text
	}
	return nil
}
