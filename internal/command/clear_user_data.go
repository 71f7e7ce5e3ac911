package command

import (
	"context"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type ClearUserDataStore interface {
	datasources.UserEventByUserCounter
	datasources.UserEventByUserDeleter
}

// ClearUserDataRequest is the request for the ClearUserData command.
type ClearUserDataRequest struct {
	UserID string
	Email  string
}

// ClearUserDataResult reports what the clear removed.
type ClearUserDataResult struct {
	UserEventsBefore  int64 `json:"user_events_before"`
	DeletedUserEvents int64 `json:"deleted_user_events"`
}

// ClearUserData deletes a user's delivery records and resets their durable
// processing state, including the processed-event set. Previously seen
// events become eligible for processing again on the next run.
type ClearUserData struct {
	UserEvents ClearUserDataStore
	States     datasources.UserStateUpdater
}

// NewClearUserData creates a properly initialized ClearUserData command.
func NewClearUserData(userEvents ClearUserDataStore, states datasources.UserStateUpdater) *ClearUserData {
	return &ClearUserData{UserEvents: userEvents, States: states}
}

func (c *ClearUserData) Execute(ctx context.Context, req ClearUserDataRequest) (ClearUserDataResult, error) {
	logger := domain.LoggerFromContext(ctx).With("user_id", req.UserID)

	before, err := c.UserEvents.CountUserEventsByUser(ctx, req.UserID)
	if err != nil {
		return ClearUserDataResult{}, fmt.Errorf("counting user events: %w", err)
	}

	deleted, err := c.UserEvents.DeleteUserEventsByUser(ctx, req.UserID)
	if err != nil {
		return ClearUserDataResult{}, fmt.Errorf("deleting user events: %w", err)
	}

	_, err = c.States.UpdateUserState(ctx, req.UserID, req.Email, func(state *domain.UserProcessingState) {
		state.Clear()
		state.AddAction(domain.ActionClear,
			fmt.Sprintf("cleared user data, deleted %d user events", deleted), "", "", true)
	})
	if err != nil {
		return ClearUserDataResult{}, fmt.Errorf("resetting processing state: %w", err)
	}

	logger.InfoContext(ctx, "cleared user data",
		"user_events_before", before, "deleted_user_events", deleted)

	return ClearUserDataResult{UserEventsBefore: before, DeletedUserEvents: deleted}, nil
}
