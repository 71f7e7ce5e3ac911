package datasources

import (
	"context"
	"errors"
	"time"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// ErrNotFound is returned when a keyed lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEvent is returned by SaveEvent when the event's unique keys
// collide with an already-stored event. Concurrent inserts of the same
// (source, source_id) resolve to this error for the loser.
var ErrDuplicateEvent = errors.New("duplicate event")

type EventSaver interface {
	SaveEvent(ctx context.Context, event domain.Event) error
}

type EventFetcher interface {
	FetchEvent(ctx context.Context, eventID string) (domain.Event, error)
	FetchEventsByID(ctx context.Context, eventIDs []string) ([]domain.Event, error)
}

type EventFinder interface {
	FindEventBySourceID(ctx context.Context, source domain.Source, sourceID string) (*domain.Event, error)
	FindEventByURL(ctx context.Context, url string) (*domain.Event, error)
	FindEventsByTitleSubstring(ctx context.Context, title string, limit int) ([]domain.Event, error)
}

type EventLister interface {
	ListRecentEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

// EventProcessingUpdater persists the fields the pipeline assigns on a
// successful run (category, topics, scores, summary, review flags).
type EventProcessingUpdater interface {
	UpdateEventProcessing(ctx context.Context, event domain.Event) error
}

// EventReviewUpdater persists review-status changes made by human reviewers.
type EventReviewUpdater interface {
	UpdateEventReview(ctx context.Context, event domain.Event) error
}

type PendingReviewLister interface {
	ListPendingReviewEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

type ReviewStatusCounter interface {
	CountEventsByReviewStatus(ctx context.Context) (map[domain.ReviewStatus]int, error)
}

type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (domain.User, error)
}

type UserEventCreator interface {
	CreateUserEvent(ctx context.Context, userEvent domain.UserEvent) error
}

type UnsentUserEventLister interface {
	ListUnsentUserEvents(ctx context.Context, userID string) ([]domain.UserEvent, error)
}

type UserEventByEventCounter interface {
	CountUserEventsByEvent(ctx context.Context, eventID string) (int64, error)
}

type UserEventByEventDeleter interface {
	DeleteUserEventsByEvent(ctx context.Context, eventID string) (int64, error)
}

type UserEventByUserCounter interface {
	CountUserEventsByUser(ctx context.Context, userID string) (int64, error)
}

type UserEventByUserDeleter interface {
	DeleteUserEventsByUser(ctx context.Context, userID string) (int64, error)
}

// UserEventRatingSetter records explicit feedback for a delivery record.
// A rating never regresses once set; setting an already-rated record is a
// no-op.
type UserEventRatingSetter interface {
	SetUserEventRating(ctx context.Context, userID, eventID string, rating int) error
}

// RecentRatingsLister returns the user's most recent explicit feedback
// ratings, newest first.
type RecentRatingsLister interface {
	ListRecentRatings(ctx context.Context, userID string, limit int) ([]int, error)
}

type ThreadCreator interface {
	CreateThread(ctx context.Context, thread domain.Thread) error
}

type ThreadFetcher interface {
	FetchThread(ctx context.Context, slug string) (domain.Thread, error)
}

type ThreadUpdater interface {
	UpdateThread(ctx context.Context, thread domain.Thread) error
}

// ActiveThreadLister returns active threads created at or after the cutoff,
// ordered by creation time ascending so first-match clustering is
// deterministic across runs.
type ActiveThreadLister interface {
	ListActiveThreadsCreatedSince(ctx context.Context, cutoff time.Time) ([]domain.Thread, error)
}

type UserStateFetcher interface {
	FetchUserState(ctx context.Context, userID string) (domain.UserProcessingState, error)
}

// UserStateUpdater applies a pure transform to the user's processing state
// under optimistic concurrency: read, transform, conditional write on the
// record version, retry on conflict. The record is created lazily when
// absent.
type UserStateUpdater interface {
	UpdateUserState(
		ctx context.Context, userID, email string,
		transform func(*domain.UserProcessingState),
	) (domain.UserProcessingState, error)
}

// EventRepository is the full event-store surface.
type EventRepository interface {
	EventSaver
	EventFetcher
	EventFinder
	EventLister
	EventProcessingUpdater
	EventReviewUpdater
	PendingReviewLister
	ReviewStatusCounter
}

// UserEventRepository is the full per-user delivery-record surface.
type UserEventRepository interface {
	UserEventCreator
	UnsentUserEventLister
	UserEventByEventCounter
	UserEventByEventDeleter
	UserEventByUserCounter
	UserEventByUserDeleter
	UserEventRatingSetter
	RecentRatingsLister
}

// ThreadRepository is the full thread-store surface.
type ThreadRepository interface {
	ThreadCreator
	ThreadFetcher
	ThreadUpdater
	ActiveThreadLister
}

// UserStateRepository is the full processing-state surface.
type UserStateRepository interface {
	UserStateFetcher
	UserStateUpdater
}
