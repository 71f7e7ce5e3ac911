// Package dedup decides whether a collected event is already known
// globally, and whether a given user has already processed an event.
package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type Reason string

const (
	ReasonSourceIDMatch   Reason = "source_id_match"
	ReasonURLMatch        Reason = "url_match"
	ReasonTitleSimilarity Reason = "title_similarity"
)

const (
	titleSimilarityThreshold = 0.85
	titleCandidateLimit      = 20
)

// Result describes why an event is considered a duplicate.
type Result struct {
	IsDuplicate bool
	Reason      Reason
	ExistingID  string
	Similarity  float64
}

type Deduplicator struct {
	Events datasources.EventFinder
	States datasources.UserStateRepository
}

func New(events datasources.EventFinder, states datasources.UserStateRepository) *Deduplicator {
	return &Deduplicator{Events: events, States: states}
}

// IsDuplicate runs the global checks in order, first match winning:
// exact (source, source_id), exact url, then fuzzy title similarity.
// Storage errors propagate: a failed global uniqueness check is not safe
// to skip.
func (d *Deduplicator) IsDuplicate(ctx context.Context, event domain.Event) (Result, error) {
	if event.SourceID != "" {
		existing, err := d.Events.FindEventBySourceID(ctx, event.Source, event.SourceID)
		if err != nil {
			return Result{}, fmt.Errorf("checking source id: %w", err)
		}
		if existing != nil {
			return Result{IsDuplicate: true, Reason: ReasonSourceIDMatch, ExistingID: existing.ID}, nil
		}
	}

	if event.URL != "" {
		existing, err := d.Events.FindEventByURL(ctx, event.URL)
		if err != nil {
			return Result{}, fmt.Errorf("checking url: %w", err)
		}
		if existing != nil {
			return Result{IsDuplicate: true, Reason: ReasonURLMatch, ExistingID: existing.ID}, nil
		}
	}

	candidates, err := d.Events.FindEventsByTitleSubstring(ctx, event.Title, titleCandidateLimit)
	if err != nil {
		return Result{}, fmt.Errorf("checking title: %w", err)
	}
	for _, candidate := range candidates {
		similarity := domain.EditDistanceRatio(event.Title, candidate.Title)
		if similarity > titleSimilarityThreshold {
			return Result{
				IsDuplicate: true,
				Reason:      ReasonTitleSimilarity,
				ExistingID:  candidate.ID,
				Similarity:  similarity,
			}, nil
		}
	}

	return Result{}, nil
}

// IsUserDuplicate reports whether the user already processed the event.
// Fail-open: a bookkeeping fault must not block the user's pipeline, so
// storage errors are logged and treated as "not a duplicate".
func (d *Deduplicator) IsUserDuplicate(ctx context.Context, userID, eventID string) bool {
	state, err := d.States.FetchUserState(ctx, userID)
	if err != nil {
		if !errors.Is(err, datasources.ErrNotFound) {
			logger := domain.LoggerFromContext(ctx)
			logger.WarnContext(ctx, "failed to check user duplicate",
				"user_id", userID, "event_id", eventID, "error", err)
		}
		return false
	}
	return state.IsEventProcessed(eventID)
}

// MarkUserEventProcessed adds the event to the user's processed set,
// creating the state record lazily. Idempotent and fail-open.
func (d *Deduplicator) MarkUserEventProcessed(ctx context.Context, userID, email, eventID string) {
	_, err := d.States.UpdateUserState(ctx, userID, email, func(state *domain.UserProcessingState) {
		state.MarkEventProcessed(eventID)
	})
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "failed to mark user event processed",
			"user_id", userID, "event_id", eventID, "error", err)
	}
}
