package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type ReviewRejecter interface {
	Reject(ctx context.Context, eventID, reviewer, reason string) (domain.Event, error)
}

type ReviewReject struct {
	Queue ReviewRejecter
}

type reviewRejectRequest struct {
	Reviewer string `json:"reviewer"`
	Reason   string `json:"reason"`
}

func (c ReviewReject) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]
	logger := domain.LoggerFromContext(r.Context()).With("event_id", eventID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	var body reviewRejectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body = reviewRejectRequest{}
	}
	if body.Reviewer == "" {
		body.Reviewer = defaultReviewer
	}

	event, err := c.Queue.Reject(ctx, eventID, body.Reviewer, body.Reason)
	if err != nil {
		if errors.Is(err, datasources.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to reject event", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		logger.ErrorContext(ctx, "unable to write rejected event to response", "error", err)
	}
}
