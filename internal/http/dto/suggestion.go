package dto

import (
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type SuggestionQuery struct {
	Approved         bool   `form:"approved"`
	IncludeDismissed bool   `form:"include_dismissed"`
	MinEvidence      int    `form:"min_evidence" binding:"gte=0"`
	Sort             string `form:"sort" binding:"omitempty,oneof=evidence confidence"`
}

func (q SuggestionQuery) Filter() model.SuggestionFilter {
	return model.SuggestionFilter{
		Approved:         q.Approved,
		IncludeDismissed: q.IncludeDismissed,
		MinEvidence:      q.MinEvidence,
		SortByConfidence: q.Sort == "confidence",
	}
}

type SuggestionResponse struct {
	ID              int64                  `json:"id,string"`
	SourceActorID   int64                  `json:"source_actor_id,string"`
	TargetActorID   int64                  `json:"target_actor_id,string"`
	Type            string                 `json:"type"`
	SourceText      string                 `json:"source_text"`
	Confidence      float64                `json:"confidence"`
	EvidenceCount   int                    `json:"evidence_count"`
	SourceDocuments []string               `json:"source_documents"`
	ContextExcerpts []string               `json:"context_excerpts"`
	Status          model.SuggestionStatus `json:"status"`
	LastSeenAt      time.Time              `json:"last_seen_at"`
	ReviewedAt      *time.Time             `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func ToSuggestionResponse(s *model.Suggestion) *SuggestionResponse {
	docs := s.SourceDocuments
	if docs == nil {
		docs = []string{}
	}
	excerpts := s.ContextExcerpts
	if excerpts == nil {
		excerpts = []string{}
	}
	return &SuggestionResponse{
		ID:              s.ID,
		SourceActorID:   s.SourceActorID,
		TargetActorID:   s.TargetActorID,
		Type:            s.Type,
		SourceText:      s.SourceText,
		Confidence:      s.Confidence,
		EvidenceCount:   s.EvidenceCount,
		SourceDocuments: docs,
		ContextExcerpts: excerpts,
		Status:          s.Status(),
		LastSeenAt:      s.LastSeenAt,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
	}
}

type ListSuggestionsResponse struct {
	Items []*SuggestionResponse `json:"items"`
	Stats model.SuggestionStats `json:"stats"`
}

func ToListSuggestionsResponse(items []model.Suggestion, stats model.SuggestionStats) ListSuggestionsResponse {
	out := make([]*SuggestionResponse, len(items))
	for i := range items {
		out[i] = ToSuggestionResponse(&items[i])
	}
	return ListSuggestionsResponse{Items: out, Stats: stats}
}

type RelationshipResponse struct {
	ID            int64   `json:"id,string"`
	SourceActorID int64   `json:"source_actor_id,string"`
	TargetActorID int64   `json:"target_actor_id,string"`
	Type          string  `json:"type"`
	Context       *string `json:"context,omitempty"`
	Strength      float64 `json:"strength"`
	Confidence    float64 `json:"confidence"`
	Approved      bool    `json:"approved"`
}

func ToRelationshipResponse(r *model.Relationship) *RelationshipResponse {
	return &RelationshipResponse{
		ID:            r.ID,
		SourceActorID: r.SourceActorID,
		TargetActorID: r.TargetActorID,
		Type:          r.Type,
		Context:       r.Context,
		Strength:      r.Strength,
		Confidence:    r.Confidence,
		Approved:      r.Approved,
	}
}

type ApproveResponse struct {
	Suggestion   *SuggestionResponse   `json:"suggestion"`
	Relationship *RelationshipResponse `json:"relationship"`
}

type ObservationRequest struct {
	SourceActorID int64      `json:"source_actor_id" binding:"required,gt=0"`
	TargetActorID int64      `json:"target_actor_id" binding:"required,gt=0,nefield=SourceActorID"`
	Type          string     `json:"type" binding:"required,min=1,max=100"`
	Confidence    float64    `json:"confidence" binding:"gte=0,lte=1"`
	DocumentRef   string     `json:"document_ref" binding:"max=1024"`
	Excerpt       string     `json:"excerpt"`
	SourceText    string     `json:"source_text"`
	ObservedAt    *time.Time `json:"observed_at,omitempty"`
}

func (r ObservationRequest) ToObservation(projectID int64) model.Observation {
	obs := model.Observation{
		ProjectID:     projectID,
		SourceActorID: r.SourceActorID,
		TargetActorID: r.TargetActorID,
		Type:          r.Type,
		Confidence:    r.Confidence,
		DocumentRef:   r.DocumentRef,
		Excerpt:       r.Excerpt,
		SourceText:    r.SourceText,
	}
	if r.ObservedAt != nil {
		obs.ObservedAt = *r.ObservedAt
	}
	return obs
}

type MergeResponse struct {
	Outcome    string              `json:"outcome"`
	Suggestion *SuggestionResponse `json:"suggestion"`
}
