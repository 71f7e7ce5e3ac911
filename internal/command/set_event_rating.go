package command

import (
	"context"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// Ratings use a discrete feedback scale: not useful, neutral, very useful.
var allowedRatings = map[int]bool{1: true, 3: true, 5: true}

// SetEventRatingRequest is the request for the SetEventRating command.
type SetEventRatingRequest struct {
	UserID  string
	EventID string
	Rating  int
}

// SetEventRating records a user's explicit feedback on a delivered event.
// Feedback feeds the relevance scorer's rating history; a rating never
// regresses once set.
type SetEventRating struct {
	RatingSetter datasources.UserEventRatingSetter
}

// NewSetEventRating creates a properly initialized SetEventRating command.
func NewSetEventRating(ratingSetter datasources.UserEventRatingSetter) *SetEventRating {
	return &SetEventRating{RatingSetter: ratingSetter}
}

func (c *SetEventRating) Execute(ctx context.Context, req SetEventRatingRequest) (Empty, error) {
	if !allowedRatings[req.Rating] {
		return Empty{}, fmt.Errorf("invalid rating %d: must be 1, 3 or 5", req.Rating)
	}

	if err := c.RatingSetter.SetUserEventRating(ctx, req.UserID, req.EventID, req.Rating); err != nil {
		return Empty{}, fmt.Errorf("setting event rating: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "set event rating",
		"user_id", req.UserID, "event_id", req.EventID, "rating", req.Rating)

	return Empty{}, nil
}
