package review

import (
	"context"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// Notifier is the channel that tells an operator an event is waiting.
// Log-based today; pluggable for chat/email integrations.
type Notifier interface {
	NotifyReviewRequired(ctx context.Context, event domain.Event, reason string, affectedUsers int64)
}

// LogNotifier writes review notifications to the context logger.
type LogNotifier struct{}

func (LogNotifier) NotifyReviewRequired(ctx context.Context, event domain.Event, reason string, affectedUsers int64) {
	logger := domain.LoggerFromContext(ctx)
	logger.WarnContext(ctx, "human review required",
		"event_id", event.ID,
		"title", event.Title,
		"reason", reason,
		"category", event.Category,
		"importance_score", event.ImportanceScore,
		"affected_users", affectedUsers,
	)
}

type EventStore interface {
	datasources.EventFetcher
	datasources.EventReviewUpdater
	datasources.PendingReviewLister
	datasources.ReviewStatusCounter
}

type UserEventStore interface {
	datasources.UserEventByEventCounter
	datasources.UserEventByEventDeleter
}

type Queue struct {
	Events     EventStore
	UserEvents UserEventStore
	Notifier   Notifier
}

func NewQueue(events EventStore, userEvents UserEventStore, notifier Notifier) *Queue {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Queue{Events: events, UserEvents: userEvents, Notifier: notifier}
}

// AddToQueue marks the event pending human review with the triggering
// reason, persists it, and notifies the operator with the count of users
// currently holding a delivery record for it. Idempotent.
func (q *Queue) AddToQueue(ctx context.Context, event domain.Event, reason string) (domain.Event, error) {
	event.NeedsHumanReview = true
	event.ReviewStatus = domain.ReviewStatusPending
	event.ReviewReason = reason

	if err := q.Events.UpdateEventReview(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("queueing event for review: %w", err)
	}

	affectedUsers, err := q.UserEvents.CountUserEventsByEvent(ctx, event.ID)
	if err != nil {
		// Visibility only; the event is already queued.
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "failed to count affected users", "event_id", event.ID, "error", err)
	}

	q.Notifier.NotifyReviewRequired(ctx, event, reason, affectedUsers)
	return event, nil
}

// Approve clears the review hold. Delivery records are untouched.
func (q *Queue) Approve(ctx context.Context, eventID, reviewer string) (domain.Event, error) {
	event, err := q.Events.FetchEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("fetching event for approval: %w", err)
	}

	event.ReviewStatus = domain.ReviewStatusApproved
	event.ReviewedBy = reviewer
	event.NeedsHumanReview = false

	if err := q.Events.UpdateEventReview(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("approving event: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "event approved", "event_id", eventID, "reviewer", reviewer)
	return event, nil
}

// Reject clears the review hold and cascades: every delivery record for the
// event is deleted so no user ever receives a rejected event.
func (q *Queue) Reject(ctx context.Context, eventID, reviewer, reason string) (domain.Event, error) {
	event, err := q.Events.FetchEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("fetching event for rejection: %w", err)
	}

	event.ReviewStatus = domain.ReviewStatusRejected
	event.ReviewedBy = reviewer
	event.NeedsHumanReview = false

	if err := q.Events.UpdateEventReview(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("rejecting event: %w", err)
	}

	deleted, err := q.UserEvents.DeleteUserEventsByEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("cascading user event deletion: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "event rejected",
		"event_id", eventID, "reviewer", reviewer, "reason", reason, "deleted_user_events", deleted)
	return event, nil
}

// Edit is the field overrides a reviewer may apply; nil fields are left
// unchanged.
type Edit struct {
	Summary  *domain.Summary `json:"summary,omitempty"`
	Category *string         `json:"category,omitempty"`
	Topics   *[]string       `json:"topics,omitempty"`
}

// ApplyEdit overwrites the edited fields, marks the event edited and clears
// the review hold. No cascade: existing delivery records keep pointing at
// the now-edited event.
func (q *Queue) ApplyEdit(ctx context.Context, eventID string, edit Edit, reviewer string) (domain.Event, error) {
	event, err := q.Events.FetchEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("fetching event for edit: %w", err)
	}

	if edit.Summary != nil {
		event.Summary = edit.Summary
	}
	if edit.Category != nil {
		event.Category = domain.Category(*edit.Category)
	}
	if edit.Topics != nil {
		event.Topics = *edit.Topics
	}
	event.ReviewStatus = domain.ReviewStatusEdited
	event.ReviewedBy = reviewer
	event.NeedsHumanReview = false

	if err := q.Events.UpdateEventReview(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("editing event: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "event edited", "event_id", eventID, "reviewer", reviewer)
	return event, nil
}

// PendingReview is a queued event plus the operator-visibility count of
// users currently holding it.
type PendingReview struct {
	Event         domain.Event `json:"event"`
	AffectedUsers int64        `json:"affected_users"`
}

// PendingReviews lists queued events ordered by importance descending, then
// recency descending.
func (q *Queue) PendingReviews(ctx context.Context, limit int) ([]PendingReview, error) {
	events, err := q.Events.ListPendingReviewEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending reviews: %w", err)
	}

	reviews := make([]PendingReview, 0, len(events))
	for _, event := range events {
		affected, err := q.UserEvents.CountUserEventsByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("counting affected users: %w", err)
		}
		reviews = append(reviews, PendingReview{Event: event, AffectedUsers: affected})
	}
	return reviews, nil
}

// Stats summarises the queue by review status.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Edited   int `json:"edited"`
	Total    int `json:"total"`
}

func (q *Queue) QueueStats(ctx context.Context) (Stats, error) {
	counts, err := q.Events.CountEventsByReviewStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting review statuses: %w", err)
	}

	stats := Stats{
		Pending:  counts[domain.ReviewStatusPending],
		Approved: counts[domain.ReviewStatusApproved],
		Rejected: counts[domain.ReviewStatusRejected],
		Edited:   counts[domain.ReviewStatusEdited],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected + stats.Edited
	return stats, nil
}
