package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type GroupBy string

const (
	GroupByNone         GroupBy = ""
	GroupByTeam         GroupBy = "team"
	GroupByOrganization GroupBy = "organization"
	GroupByType         GroupBy = "type"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupByNone, GroupByTeam, GroupByOrganization, GroupByType:
		return g, nil
	default:
		return GroupByNone, fmt.Errorf("unsupported group_by %q", s)
	}
}

// Options selects what goes into a built graph. Two option sets that
// canonicalize to the same value share a cache entry.
type Options struct {
	ActorTypes      []model.ActorType
	EdgeTypes       []string
	MinConfidence   float64
	IncludeImplicit bool
	IncludeArchived bool
	GroupBy         GroupBy
}

func DefaultOptions() Options {
	return Options{IncludeImplicit: true}
}

// Canonical returns a copy with filters lower-cased, de-duplicated and sorted.
func (o Options) Canonical() Options {
	out := o

	types := make([]model.ActorType, 0, len(o.ActorTypes))
	for _, t := range o.ActorTypes {
		if s := strings.ToLower(strings.TrimSpace(string(t))); s != "" {
			types = append(types, model.ActorType(s))
		}
	}
	slices.Sort(types)
	out.ActorTypes = slices.Compact(types)

	edges := make([]string, 0, len(o.EdgeTypes))
	for _, t := range o.EdgeTypes {
		if s := strings.ToLower(strings.TrimSpace(t)); s != "" {
			edges = append(edges, s)
		}
	}
	slices.Sort(edges)
	out.EdgeTypes = slices.Compact(edges)

	out.MinConfidence = min(max(o.MinConfidence, 0), 1)
	return out
}

// Key renders the canonical option set as a stable cache key.
func (o Options) Key() string {
	c := o.Canonical()
	actorTypes := make([]string, len(c.ActorTypes))
	for i, t := range c.ActorTypes {
		actorTypes[i] = string(t)
	}

	var b strings.Builder
	b.WriteString("at=")
	b.WriteString(strings.Join(actorTypes, ","))
	b.WriteString("|et=")
	b.WriteString(strings.Join(c.EdgeTypes, ","))
	b.WriteString("|mc=")
	b.WriteString(strconv.FormatFloat(c.MinConfidence, 'f', -1, 64))
	b.WriteString("|imp=")
	b.WriteString(strconv.FormatBool(c.IncludeImplicit))
	b.WriteString("|arc=")
	b.WriteString(strconv.FormatBool(c.IncludeArchived))
	b.WriteString("|gb=")
	b.WriteString(string(c.GroupBy))
	return b.String()
}

func (o Options) allowsActor(a model.Actor) bool {
	if a.Archived && !o.IncludeArchived {
		return false
	}
	if len(o.ActorTypes) == 0 {
		return true
	}
	_, found := slices.BinarySearch(o.ActorTypes, a.Type)
	return found
}

func (o Options) allowsRelationship(r model.Relationship) bool {
	if r.Confidence < o.MinConfidence {
		return false
	}
	if len(o.EdgeTypes) == 0 {
		return true
	}
	_, found := slices.BinarySearch(o.EdgeTypes, strings.ToLower(r.Type))
	return found
}
