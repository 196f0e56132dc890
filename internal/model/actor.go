package model

import "time"

type ActorType string

const (
	ActorTypePerson       ActorType = "person"
	ActorTypeTeam         ActorType = "team"
	ActorTypeSystem       ActorType = "system"
	ActorTypeOrganization ActorType = "organization"
	ActorTypeRole         ActorType = "role"
	ActorTypeProject      ActorType = "project"
	ActorTypeLocation     ActorType = "location"
	ActorTypeTechnology   ActorType = "technology"
	ActorTypeUnknown      ActorType = "unknown"
)

// Actor is a node of the knowledge graph, unique within its project.
type Actor struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	Name         string    `json:"name"`
	Type         ActorType `json:"type"`
	Role         *string   `json:"role,omitempty"`
	Team         *string   `json:"team,omitempty"`
	Organization *string   `json:"organization,omitempty"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	MentionCount int       `json:"mention_count"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeActorType maps anything outside the known set to ActorTypeUnknown.
func NormalizeActorType(s string) ActorType {
	switch t := ActorType(s); t {
	case ActorTypePerson, ActorTypeTeam, ActorTypeSystem, ActorTypeOrganization,
		ActorTypeRole, ActorTypeProject, ActorTypeLocation, ActorTypeTechnology:
		return t
	default:
		return ActorTypeUnknown
	}
}
