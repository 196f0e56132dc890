package model

import "time"

const (
	DefaultRelationshipStrength   = 1.0
	DefaultRelationshipConfidence = 1.0
)

// Relationship is a confirmed directed edge, unique per (project, source, type, target).
type Relationship struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	SourceActorID int64     `json:"source_actor_id"`
	TargetActorID int64     `json:"target_actor_id"`
	Type          string    `json:"type"`
	Context       *string   `json:"context,omitempty"`
	Strength      float64   `json:"strength"`
	Confidence    float64   `json:"confidence"`
	Approved      bool      `json:"approved"`
	DocumentID    *int64    `json:"document_id,omitempty"`
	DocumentPath  *string   `json:"document_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
