package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/dedup"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// ErrPipelineRunning is returned when a run is requested for a user whose
// previous run has not finished.
var ErrPipelineRunning = errors.New("pipeline already running for user")

// recentEventLimit caps how many stored events one run considers for a user.
const recentEventLimit = 1000

// EventCollector produces the run's candidate events. Collector failures are
// handled inside CollectAll; the pipeline only sees the surviving events.
type EventCollector interface {
	CollectAll(ctx context.Context) []domain.Event
}

// EventProcessor runs one event through the full stage sequence for one
// user. A nil result means the event was filtered out or a stage faulted.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.Event, user domain.User) *domain.ProcessingResult
}

type PipelineEventStore interface {
	datasources.EventSaver
	datasources.EventLister
}

type PipelineUserEventStore interface {
	datasources.UserEventCreator
	datasources.UnsentUserEventLister
}

// RunUserPipelineRequest is the request for the RunUserPipeline command.
type RunUserPipelineRequest struct {
	UserID string
}

// RunUserPipelineResult summarises one pipeline run.
type RunUserPipelineResult struct {
	Collection CollectionSummary `json:"collection"`
	Processing ProcessingSummary `json:"processing"`
	Email      EmailSummary      `json:"email"`
}

type CollectionSummary struct {
	Total            int `json:"total"`
	NewSaved         int `json:"new_saved"`
	GlobalDuplicates int `json:"global_duplicates"`
}

type ProcessingSummary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

type EmailSummary struct {
	Sent int `json:"sent"`
}

// RunUserPipeline handles one full batch run for a user: collect, dedup
// against the global store, process new events through the stage sequence,
// and hand off delivery records. Progress is tracked in the user's durable
// processing state; the phase returns to idle on every path.
type RunUserPipeline struct {
	Users      datasources.UserFetcher
	Events     PipelineEventStore
	UserEvents PipelineUserEventStore
	States     datasources.UserStateUpdater
	Dedup      *dedup.Deduplicator
	Collectors EventCollector
	Processor  EventProcessor
}

// NewRunUserPipeline creates a properly initialized RunUserPipeline command.
func NewRunUserPipeline(
	users datasources.UserFetcher,
	events PipelineEventStore,
	userEvents PipelineUserEventStore,
	states datasources.UserStateUpdater,
	deduplicator *dedup.Deduplicator,
	collectors EventCollector,
	processor EventProcessor,
) *RunUserPipeline {
	return &RunUserPipeline{
		Users:      users,
		Events:     events,
		UserEvents: userEvents,
		States:     states,
		Dedup:      deduplicator,
		Collectors: collectors,
		Processor:  processor,
	}
}

// Execute runs the pipeline phases for one user. Only one run per user is
// admitted at a time; a second concurrent request fails with
// ErrPipelineRunning.
func (c *RunUserPipeline) Execute(ctx context.Context, req RunUserPipelineRequest) (RunUserPipelineResult, error) {
	logger := domain.LoggerFromContext(ctx).With("user_id", req.UserID)
	ctx = domain.ContextWithLogger(ctx, logger)

	user, err := c.Users.FetchUser(ctx, req.UserID)
	if err != nil {
		return RunUserPipelineResult{}, fmt.Errorf("fetching user: %w", err)
	}

	var alreadyRunning bool
	_, err = c.States.UpdateUserState(ctx, user.ID, user.Email, func(state *domain.UserProcessingState) {
		alreadyRunning = state.Current.IsProcessing
		if alreadyRunning {
			return
		}
		state.SetPhase(domain.PhaseCollecting, true)
	})
	if err != nil {
		return RunUserPipelineResult{}, fmt.Errorf("starting pipeline: %w", err)
	}
	if alreadyRunning {
		return RunUserPipelineResult{}, ErrPipelineRunning
	}

	// Whatever happens below, the state record must not stay stuck in a
	// non-idle phase.
	defer func() {
		_, err := c.States.UpdateUserState(ctx, user.ID, user.Email, func(state *domain.UserProcessingState) {
			state.SetPhase(domain.PhaseIdle, false)
		})
		if err != nil {
			logger.WarnContext(ctx, "failed to return pipeline to idle", "error", err)
		}
	}()

	var result RunUserPipelineResult

	collected := c.Collectors.CollectAll(ctx)
	result.Collection.Total = len(collected)
	c.updateState(ctx, user, func(state *domain.UserProcessingState) {
		now := time.Now()
		state.Stats.EventsCollected += len(collected)
		state.Stats.LastCollectionTime = &now
		state.AddAction(domain.ActionCollect,
			fmt.Sprintf("collected %d events", len(collected)), "", "", true)
		state.SetPhase(domain.PhaseDeduplicating, true)
	})

	newSaved, duplicates, err := c.deduplicate(ctx, collected)
	result.Collection.NewSaved = newSaved
	result.Collection.GlobalDuplicates = duplicates
	if err != nil {
		c.updateState(ctx, user, func(state *domain.UserProcessingState) {
			state.AddError(domain.PhaseDeduplicating, "", "", err.Error())
			state.SetPhase(domain.PhaseError, true)
		})
		return result, fmt.Errorf("deduplicating collected events: %w", err)
	}
	c.updateState(ctx, user, func(state *domain.UserProcessingState) {
		state.Stats.DuplicatesSkipped += duplicates
		state.AddAction(domain.ActionDeduplicate,
			fmt.Sprintf("saved %d new events, skipped %d duplicates", newSaved, duplicates), "", "", true)
		state.SetPhase(domain.PhaseProcessing, true)
	})

	recent, err := c.Events.ListRecentEvents(ctx, recentEventLimit)
	if err != nil {
		c.updateState(ctx, user, func(state *domain.UserProcessingState) {
			state.AddError(domain.PhaseProcessing, "", "", err.Error())
			state.SetPhase(domain.PhaseError, true)
		})
		return result, fmt.Errorf("listing events for processing: %w", err)
	}

	processed, handedOff, processingErrors := c.processEvents(ctx, user, recent)
	result.Processing.Processed = processed
	result.Processing.Errors = len(processingErrors)
	c.updateState(ctx, user, func(state *domain.UserProcessingState) {
		now := time.Now()
		state.Stats.EventsProcessed += processed
		state.Stats.LastProcessingTime = &now
		for _, procErr := range processingErrors {
			state.AddError(domain.PhaseProcessing, procErr.EventID, procErr.EventTitle, procErr.ErrorMessage)
		}
		state.AddAction(domain.ActionProcess,
			fmt.Sprintf("processed %d events", processed), "", "", len(processingErrors) == 0)
		state.SetPhase(domain.PhaseSending, true)
	})

	// Delivery itself is external; the handoff is the set of unsent
	// delivery records ordered by relevance.
	unsent, err := c.UserEvents.ListUnsentUserEvents(ctx, user.ID)
	if err != nil {
		c.updateState(ctx, user, func(state *domain.UserProcessingState) {
			state.AddError(domain.PhaseSending, "", "", err.Error())
			state.SetPhase(domain.PhaseError, true)
		})
		return result, fmt.Errorf("listing unsent user events: %w", err)
	}
	result.Email.Sent = len(unsent)
	c.updateState(ctx, user, func(state *domain.UserProcessingState) {
		// Only records first handed off in this run count towards the
		// stat; the unsent backlog would be re-counted every run.
		if handedOff > 0 {
			now := time.Now()
			state.Stats.EmailsSent += handedOff
			state.Stats.LastEmailSentTime = &now
		}
		state.AddAction(domain.ActionSendEmail,
			fmt.Sprintf("%d events ready for delivery", len(unsent)), "", "", true)
	})

	logger.InfoContext(ctx, "pipeline run complete",
		"collected", result.Collection.Total,
		"new_saved", result.Collection.NewSaved,
		"global_duplicates", result.Collection.GlobalDuplicates,
		"processed", result.Processing.Processed,
		"processing_errors", result.Processing.Errors,
		"ready_for_delivery", result.Email.Sent,
	)

	return result, nil
}

// deduplicate saves collected events that pass the global duplicate checks.
// A storage-level unique key violation is a duplicate too: two concurrent
// runs saving the same event resolve to one row. Any other storage failure
// is an integrity fault and aborts the run.
func (c *RunUserPipeline) deduplicate(
	ctx context.Context, collected []domain.Event,
) (newSaved, duplicates int, err error) {
	logger := domain.LoggerFromContext(ctx)

	for _, event := range collected {
		check, err := c.Dedup.IsDuplicate(ctx, event)
		if err != nil {
			return newSaved, duplicates, fmt.Errorf("checking duplicate for %q: %w", event.Title, err)
		}
		if check.IsDuplicate {
			logger.DebugContext(ctx, "skipping duplicate event",
				"event_id", event.ID, "reason", check.Reason, "existing_id", check.ExistingID)
			duplicates++
			continue
		}

		if err := c.Events.SaveEvent(ctx, event); err != nil {
			if errors.Is(err, datasources.ErrDuplicateEvent) {
				duplicates++
				continue
			}
			return newSaved, duplicates, fmt.Errorf("saving event %q: %w", event.Title, err)
		}
		newSaved++
	}

	return newSaved, duplicates, nil
}

// processEvents runs every event the user has not seen through the stage
// sequence. Filtered events are marked processed too so they are never
// retried; only delivery-record write failures leave an event eligible for
// the next run.
func (c *RunUserPipeline) processEvents(
	ctx context.Context, user domain.User, events []domain.Event,
) (processed, handedOff int, errs []domain.ProcessingError) {
	logger := domain.LoggerFromContext(ctx)

	for i := range events {
		event := events[i]
		if c.Dedup.IsUserDuplicate(ctx, user.ID, event.ID) {
			continue
		}

		result := c.Processor.Process(ctx, &event, user)
		if result == nil {
			c.Dedup.MarkUserEventProcessed(ctx, user.ID, user.Email, event.ID)
			continue
		}

		userEvent := domain.UserEvent{
			UserID:         user.ID,
			EventID:        event.ID,
			RelevanceScore: result.RelevanceScore,
			CreatedAt:      time.Now(),
		}
		switch err := c.UserEvents.CreateUserEvent(ctx, userEvent); {
		case err == nil:
			handedOff++
		case errors.Is(err, datasources.ErrDuplicateEvent):
			// Left over from an earlier run; already handed off.
		default:
			logger.WarnContext(ctx, "failed to create user event",
				"event_id", event.ID, "error", err)
			errs = append(errs, domain.ProcessingError{
				EventID: event.ID, EventTitle: event.Title, ErrorMessage: err.Error(),
			})
			continue
		}

		c.Dedup.MarkUserEventProcessed(ctx, user.ID, user.Email, event.ID)
		processed++
	}

	return processed, handedOff, errs
}

// updateState applies a bookkeeping transform; failures are logged, never
// fatal to the run.
func (c *RunUserPipeline) updateState(
	ctx context.Context, user domain.User, transform func(*domain.UserProcessingState),
) {
	if _, err := c.States.UpdateUserState(ctx, user.ID, user.Email, transform); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "failed to update processing state", "error", err)
	}
}
