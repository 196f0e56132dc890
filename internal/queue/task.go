package queue

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/model"
)

type TaskType string

const (
	TaskTypeObservation TaskType = "observation"
)

// Stream field names for an observation message.
const (
	fieldTaskType      = "task_type"
	fieldProjectID     = "project_id"
	fieldSourceActorID = "source_actor_id"
	fieldTargetActorID = "target_actor_id"
	fieldType          = "type"
	fieldConfidence    = "confidence"
	fieldDocumentRef   = "document_ref"
	fieldExcerpt       = "excerpt"
	fieldSourceText    = "source_text"
	fieldObservedAt    = "observed_at"
	fieldAttempt       = "attempt"
	fieldTraceID       = "trace_id"
	fieldLastError     = "last_error"
	fieldError         = "error"
)

func observationValues(obs model.Observation) map[string]any {
	values := map[string]any{
		fieldTaskType:      string(TaskTypeObservation),
		fieldProjectID:     obs.ProjectID,
		fieldSourceActorID: obs.SourceActorID,
		fieldTargetActorID: obs.TargetActorID,
		fieldType:          obs.Type,
		fieldConfidence:    strconv.FormatFloat(obs.Confidence, 'f', -1, 64),
	}
	if obs.DocumentRef != "" {
		values[fieldDocumentRef] = obs.DocumentRef
	}
	if obs.Excerpt != "" {
		values[fieldExcerpt] = obs.Excerpt
	}
	if obs.SourceText != "" {
		values[fieldSourceText] = obs.SourceText
	}
	if !obs.ObservedAt.IsZero() {
		values[fieldObservedAt] = obs.ObservedAt.UTC().Format(time.RFC3339Nano)
	}
	return values
}

func parseObservation(values map[string]any) (model.Observation, error) {
	var obs model.Observation
	var err error

	if obs.ProjectID, err = parseInt64(values, fieldProjectID); err != nil {
		return obs, err
	}
	if obs.SourceActorID, err = parseInt64(values, fieldSourceActorID); err != nil {
		return obs, err
	}
	if obs.TargetActorID, err = parseInt64(values, fieldTargetActorID); err != nil {
		return obs, err
	}
	if obs.Type, err = parseString(values, fieldType); err != nil {
		return obs, err
	}
	if obs.Confidence, err = parseFloat(values, fieldConfidence); err != nil {
		return obs, err
	}

	obs.DocumentRef, _ = parseOptionalString(values, fieldDocumentRef)
	obs.Excerpt, _ = parseOptionalString(values, fieldExcerpt)
	obs.SourceText, _ = parseOptionalString(values, fieldSourceText)

	observedAt, _ := parseOptionalString(values, fieldObservedAt)
	if observedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, observedAt)
		if err != nil {
			return obs, fmt.Errorf("parsing %s: %w", fieldObservedAt, err)
		}
		obs.ObservedAt = t
	}

	return obs, nil
}

func parseInt64(values map[string]any, key string) (int64, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	str := fmt.Sprint(raw)
	num, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseFloat(values map[string]any, key string) (float64, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	num, err := strconv.ParseFloat(fmt.Sprint(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func parseOptionalInt(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	str := fmt.Sprint(raw)
	num, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(raw), nil
}

func messageValues(msg Message, attempt int) map[string]any {
	values := observationValues(msg.Observation)
	values[fieldAttempt] = attempt
	if msg.TraceID != "" {
		values[fieldTraceID] = msg.TraceID
	}
	return values
}
