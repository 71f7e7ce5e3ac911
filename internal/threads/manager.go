// Package threads clusters related events into evolving story threads using
// topic overlap and title-token similarity within a recency window.
package threads

import (
	"context"
	"fmt"
	"time"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	// recencyWindow bounds which threads are candidates for clustering.
	recencyWindow = 7 * 24 * time.Hour

	// titleSimilarityThreshold is the minimum Jaccard word overlap between
	// the candidate title and a thread member's title.
	titleSimilarityThreshold = 0.6
)

type Store interface {
	datasources.ThreadCreator
	datasources.ThreadFetcher
	datasources.ThreadUpdater
	datasources.ActiveThreadLister
}

type Manager struct {
	Store  Store
	Events datasources.EventFetcher

	// now is swappable for tests.
	now func() time.Time
}

func NewManager(store Store, events datasources.EventFetcher) *Manager {
	return &Manager{Store: store, Events: events, now: time.Now}
}

// FindRelatedThread returns the first active thread created within the last
// seven days that has a member event sharing at least one topic with the
// candidate and a title overlap above the threshold. Threads are iterated
// oldest-first so first-match clustering is deterministic. Returns nil when
// nothing matches.
func (m *Manager) FindRelatedThread(ctx context.Context, event domain.Event) (*domain.Thread, error) {
	cutoff := m.now().Add(-recencyWindow)
	candidates, err := m.Store.ListActiveThreadsCreatedSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing recent threads: %w", err)
	}

	eventTopics := make(map[string]struct{}, len(event.Topics))
	for _, t := range event.Topics {
		eventTopics[t] = struct{}{}
	}

	for _, thread := range candidates {
		members, err := m.Events.FetchEventsByID(ctx, thread.EventIDs)
		if err != nil {
			return nil, fmt.Errorf("fetching thread members: %w", err)
		}

		for _, member := range members {
			if !topicsIntersect(eventTopics, member.Topics) {
				continue
			}
			if domain.TokenOverlap(event.Title, member.Title) > titleSimilarityThreshold {
				t := thread
				return &t, nil
			}
		}
	}

	return nil, nil
}

// CreateThread starts a new thread seeded with one event.
func (m *Manager) CreateThread(ctx context.Context, title, initialEventID string) (domain.Thread, error) {
	now := m.now()
	thread := domain.Thread{
		Slug:     domain.MakeThreadSlug(title, now),
		Title:    title,
		EventIDs: []string{initialEventID},
		AIContext: domain.ThreadContext{
			CreatedReason: "initial event",
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.Store.CreateThread(ctx, thread); err != nil {
		return domain.Thread{}, fmt.Errorf("creating thread: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "thread created", "slug", thread.Slug)
	return thread, nil
}

// AddEventToThread appends the event to the thread's membership.
// Idempotent: re-adding an existing member is a no-op.
func (m *Manager) AddEventToThread(ctx context.Context, slug, eventID string) (domain.Thread, error) {
	thread, err := m.Store.FetchThread(ctx, slug)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("fetching thread: %w", err)
	}

	if thread.HasEvent(eventID) {
		return thread, nil
	}

	thread.EventIDs = append(thread.EventIDs, eventID)
	thread.UpdatedAt = m.now()
	if err := m.Store.UpdateThread(ctx, thread); err != nil {
		return domain.Thread{}, fmt.Errorf("adding event to thread: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "event added to thread", "slug", slug, "event_id", eventID)
	return thread, nil
}

// UpdateThreadContext merges new context fields into the thread's rolling
// AI context, stamping the update time.
func (m *Manager) UpdateThreadContext(ctx context.Context, slug string, update domain.ThreadContext) (domain.Thread, error) {
	thread, err := m.Store.FetchThread(ctx, slug)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("fetching thread: %w", err)
	}

	if update.CreatedReason != "" {
		thread.AIContext.CreatedReason = update.CreatedReason
	}
	if update.Summary != "" {
		thread.AIContext.Summary = update.Summary
	}
	thread.AIContext.LastUpdated = m.now()
	thread.UpdatedAt = thread.AIContext.LastUpdated

	if err := m.Store.UpdateThread(ctx, thread); err != nil {
		return domain.Thread{}, fmt.Errorf("updating thread context: %w", err)
	}
	return thread, nil
}

// CloseThread deactivates a thread; membership stops growing but the thread
// is never physically deleted.
func (m *Manager) CloseThread(ctx context.Context, slug string) (domain.Thread, error) {
	thread, err := m.Store.FetchThread(ctx, slug)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("fetching thread: %w", err)
	}

	thread.IsActive = false
	thread.UpdatedAt = m.now()
	if err := m.Store.UpdateThread(ctx, thread); err != nil {
		return domain.Thread{}, fmt.Errorf("closing thread: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "thread closed", "slug", slug)
	return thread, nil
}

// LinkEvent attaches the event to a matching thread, or creates a new one
// seeded with it. Returns the slug of the thread the event ended up in.
func (m *Manager) LinkEvent(ctx context.Context, event domain.Event) (string, error) {
	related, err := m.FindRelatedThread(ctx, event)
	if err != nil {
		return "", err
	}

	if related != nil {
		if _, err := m.AddEventToThread(ctx, related.Slug, event.ID); err != nil {
			return "", err
		}
		return related.Slug, nil
	}

	thread, err := m.CreateThread(ctx, event.Title, event.ID)
	if err != nil {
		return "", err
	}
	return thread.Slug, nil
}

func topicsIntersect(set map[string]struct{}, topics []string) bool {
	for _, t := range topics {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
