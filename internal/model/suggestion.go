package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

type SuggestionStatus string

const (
	SuggestionStatusPending   SuggestionStatus = "pending"
	SuggestionStatusApproved  SuggestionStatus = "approved"
	SuggestionStatusDismissed SuggestionStatus = "dismissed"
)

const (
	DefaultExcerptCap = 5
	MaxExcerptLength  = 400

	StrongEvidenceThreshold = 3
	HighConfidenceThreshold = 0.7
)

// Suggestion is a candidate edge accumulating evidence until it is reviewed.
// It is unique per (project, source, target, type).
type Suggestion struct {
	ID              int64      `json:"id"`
	ProjectID       int64      `json:"project_id"`
	SourceActorID   int64      `json:"source_actor_id"`
	TargetActorID   int64      `json:"target_actor_id"`
	Type            string     `json:"type"`
	SourceText      string     `json:"source_text"`
	Confidence      float64    `json:"confidence"`
	EvidenceCount   int        `json:"evidence_count"`
	SourceDocuments []string   `json:"source_documents"`
	ContextExcerpts []string   `json:"context_excerpts"` // newest first
	LastSeenAt      time.Time  `json:"last_seen_at"`
	Dismissed       bool       `json:"dismissed"`
	Approved        bool       `json:"approved"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Status collapses the two review flags. Dismissal wins because it is permanent.
func (s *Suggestion) Status() SuggestionStatus {
	switch {
	case s.Dismissed:
		return SuggestionStatusDismissed
	case s.Approved:
		return SuggestionStatusApproved
	default:
		return SuggestionStatusPending
	}
}

// Observation is one extractor sighting of a candidate relationship.
type Observation struct {
	ProjectID     int64     `json:"project_id"`
	SourceActorID int64     `json:"source_actor_id"`
	TargetActorID int64     `json:"target_actor_id"`
	Type          string    `json:"type"`
	Confidence    float64   `json:"confidence"`
	DocumentRef   string    `json:"document_ref"`
	Excerpt       string    `json:"excerpt"`
	SourceText    string    `json:"source_text"`
	ObservedAt    time.Time `json:"observed_at"`
}

func (o Observation) Validate() error {
	var errs []error
	if o.ProjectID <= 0 {
		errs = append(errs, errors.New("project_id is required"))
	}
	if o.SourceActorID <= 0 || o.TargetActorID <= 0 {
		errs = append(errs, errors.New("source and target actor ids are required"))
	}
	if o.SourceActorID == o.TargetActorID && o.SourceActorID > 0 {
		errs = append(errs, errors.New("source and target must differ"))
	}
	if strings.TrimSpace(o.Type) == "" {
		errs = append(errs, errors.New("type is required"))
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		errs = append(errs, fmt.Errorf("confidence %v out of range [0,1]", o.Confidence))
	}
	return errors.Join(errs...)
}

// NewSuggestionFromObservation builds the first-sighting row for a triple.
func NewSuggestionFromObservation(id int64, obs Observation, excerptCap int) Suggestion {
	s := Suggestion{
		ID:              id,
		ProjectID:       obs.ProjectID,
		SourceActorID:   obs.SourceActorID,
		TargetActorID:   obs.TargetActorID,
		Type:            obs.Type,
		SourceText:      obs.SourceText,
		Confidence:      obs.Confidence,
		EvidenceCount:   1,
		SourceDocuments: []string{},
		ContextExcerpts: []string{},
		LastSeenAt:      obs.ObservedAt,
	}
	if obs.DocumentRef != "" {
		s.SourceDocuments = append(s.SourceDocuments, obs.DocumentRef)
	}
	s.pushExcerpt(obs.Excerpt, excerptCap)
	return s
}

// Absorb merges a repeat observation of the same triple. Dismissed
// suggestions never change. A document already counted as evidence
// refreshes last-seen and confidence but does not add evidence.
// Confidence only moves up (max of stored and observed).
// Returns false when nothing changed.
func (s *Suggestion) Absorb(obs Observation, excerptCap int) bool {
	if s.Dismissed {
		return false
	}

	if obs.ObservedAt.After(s.LastSeenAt) {
		s.LastSeenAt = obs.ObservedAt
	}
	s.Confidence = max(s.Confidence, obs.Confidence)
	if s.SourceText == "" {
		s.SourceText = obs.SourceText
	}

	if obs.DocumentRef != "" && slices.Contains(s.SourceDocuments, obs.DocumentRef) {
		return true
	}

	s.EvidenceCount++
	if obs.DocumentRef != "" {
		s.SourceDocuments = append(s.SourceDocuments, obs.DocumentRef)
	}
	s.pushExcerpt(obs.Excerpt, excerptCap)
	return true
}

func (s *Suggestion) pushExcerpt(excerpt string, excerptCap int) {
	excerpt = truncateRunes(strings.TrimSpace(excerpt), MaxExcerptLength)
	if excerpt == "" {
		return
	}
	if excerptCap <= 0 {
		excerptCap = DefaultExcerptCap
	}
	s.ContextExcerpts = append([]string{excerpt}, s.ContextExcerpts...)
	if len(s.ContextExcerpts) > excerptCap {
		s.ContextExcerpts = s.ContextExcerpts[:excerptCap]
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// SuggestionFilter selects suggestions for listing.
type SuggestionFilter struct {
	Approved         bool
	IncludeDismissed bool
	MinEvidence      int
	SortByConfidence bool
}

type SuggestionStats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	StrongEvidence int     `json:"strong_evidence"`
	HighConfidence int     `json:"high_confidence"`
	Dismissed      int     `json:"dismissed"`
	AvgEvidence    float64 `json:"avg_evidence"`
}

// Matches reports whether s belongs in a listing under f. The zero filter
// lists pending rows only.
func (f SuggestionFilter) Matches(s *Suggestion) bool {
	if s.Approved != f.Approved {
		return false
	}
	if s.Dismissed && !f.IncludeDismissed {
		return false
	}
	return s.EvidenceCount >= f.MinEvidence
}

// CompareSuggestions orders by evidence count then confidence, both
// descending, with id as the final tiebreak. byConfidence puts confidence
// first.
func CompareSuggestions(a, b Suggestion, byConfidence bool) int {
	if byConfidence {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.EvidenceCount, a.EvidenceCount); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func SortSuggestions(list []Suggestion, byConfidence bool) {
	slices.SortStableFunc(list, func(a, b Suggestion) int {
		return CompareSuggestions(a, b, byConfidence)
	})
}

// SummarizeSuggestions computes stats over every row of a project. The
// evidence and confidence counters and the average cover pending rows only.
func SummarizeSuggestions(list []Suggestion) SuggestionStats {
	var st SuggestionStats
	evidence := 0
	for i := range list {
		s := &list[i]
		st.Total++
		if s.Dismissed {
			st.Dismissed++
		}
		if s.Status() != SuggestionStatusPending {
			continue
		}
		st.Pending++
		evidence += s.EvidenceCount
		if s.EvidenceCount >= StrongEvidenceThreshold {
			st.StrongEvidence++
		}
		if s.Confidence >= HighConfidenceThreshold {
			st.HighConfidence++
		}
	}
	if st.Pending > 0 {
		st.AvgEvidence = float64(evidence) / float64(st.Pending)
	}
	return st
}
