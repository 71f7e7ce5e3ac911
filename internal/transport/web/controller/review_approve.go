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

const defaultReviewer = "admin"

type ReviewApprover interface {
	Approve(ctx context.Context, eventID, reviewer string) (domain.Event, error)
}

type ReviewApprove struct {
	Queue ReviewApprover
}

type reviewApproveRequest struct {
	Reviewer string `json:"reviewer"`
}

func (c ReviewApprove) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]
	logger := domain.LoggerFromContext(r.Context()).With("event_id", eventID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	var body reviewApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body.Reviewer = ""
	}
	if body.Reviewer == "" {
		body.Reviewer = defaultReviewer
	}

	event, err := c.Queue.Approve(ctx, eventID, body.Reviewer)
	if err != nil {
		if errors.Is(err, datasources.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to approve event", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		logger.ErrorContext(ctx, "unable to write approved event to response", "error", err)
	}
}
